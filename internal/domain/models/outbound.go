package models

// Channel selects how a quote is delivered to the client.
type Channel string

const (
	ChannelSMS   Channel = "sms"
	ChannelEmail Channel = "email"
)

// SendQuoteRequest asks for a quote summary to be delivered to the client.
// An empty To falls back to the phone or email stored on the quote.
type SendQuoteRequest struct {
	Channel Channel `json:"channel" binding:"required,oneof=sms email"`
	To      string  `json:"to"`
	Message string  `json:"message"`
}

// OutboundMessage is a fully resolved message handed to the delivery functions.
type OutboundMessage struct {
	Channel Channel
	To      string
	Subject string
	Body    string
}
