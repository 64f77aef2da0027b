package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mamadbah2/fencequote/internal/config"
	"github.com/mamadbah2/fencequote/internal/domain/models"
	"github.com/mamadbah2/fencequote/internal/format"
	"github.com/mamadbah2/fencequote/internal/validation"
	"github.com/mamadbah2/fencequote/pkg/clients/functions"
)

// QuoteSource loads quotes and records their delivery.
type QuoteSource interface {
	GetQuote(ctx context.Context, userID, id string) (models.Quote, error)
	MarkSent(ctx context.Context, userID, id string) (models.Quote, error)
}

// SettingsSource supplies the terms appended to emailed quotes.
type SettingsSource interface {
	Settings(ctx context.Context, userID string) (models.CalculatorSettings, error)
}

// Service delivers quote summaries and operator alerts through the hosted functions.
type Service struct {
	business  config.BusinessConfig
	client    functions.Client
	quotes    QuoteSource
	settings  SettingsSource
	validator *validation.Validator
	logger    *zap.Logger
}

// NewService wires a new notification service instance.
func NewService(business config.BusinessConfig, client functions.Client, quotes QuoteSource, settings SettingsSource, validator *validation.Validator, logger *zap.Logger) *Service {
	svc := &Service{
		business:  business,
		client:    client,
		quotes:    quotes,
		settings:  settings,
		validator: validator,
		logger:    logger,
	}
	if svc.logger == nil {
		svc.logger = zap.NewNop()
	}
	return svc
}

// SendQuote delivers the selected variant of a quote to the client and moves a
// draft to sent.
func (s *Service) SendQuote(ctx context.Context, userID, quoteID string, req models.SendQuoteRequest) (models.Quote, error) {
	quote, err := s.quotes.GetQuote(ctx, userID, quoteID)
	if err != nil {
		return models.Quote{}, err
	}
	settings, err := s.settings.Settings(ctx, userID)
	if err != nil {
		return models.Quote{}, err
	}

	msg, err := s.Compose(quote, settings, req)
	if err != nil {
		return models.Quote{}, err
	}
	if err := s.deliver(ctx, msg); err != nil {
		return models.Quote{}, err
	}

	s.logger.Info("quote delivered",
		zap.String("quote_id", quote.ID),
		zap.String("channel", string(msg.Channel)))

	return s.markSent(ctx, userID, quoteID)
}

// markSent records a delivery that already happened. A lost version race is not
// reported to the caller, since a retry would deliver the message twice.
func (s *Service) markSent(ctx context.Context, userID, quoteID string) (models.Quote, error) {
	sent, err := s.quotes.MarkSent(ctx, userID, quoteID)
	if !errors.Is(err, models.ErrConflict) {
		return sent, err
	}
	s.logger.Warn("quote changed while marking it sent; retrying", zap.String("quote_id", quoteID))
	if sent, err = s.quotes.MarkSent(ctx, userID, quoteID); !errors.Is(err, models.ErrConflict) {
		return sent, err
	}
	s.logger.Warn("quote delivered but left unmarked after repeated conflicts", zap.String("quote_id", quoteID))
	return s.quotes.GetQuote(ctx, userID, quoteID)
}

// SendAlert texts an operator. to must normalize to E.164.
func (s *Service) SendAlert(ctx context.Context, to, body string) error {
	dest, err := s.smsDestination(to)
	if err != nil {
		return err
	}
	return s.deliver(ctx, models.OutboundMessage{Channel: models.ChannelSMS, To: dest, Body: body})
}

// Compose resolves the destination and renders the message without sending it.
// An empty req.To falls back to the client's phone or email.
func (s *Service) Compose(quote models.Quote, settings models.CalculatorSettings, req models.SendQuoteRequest) (models.OutboundMessage, error) {
	variant, ok := quote.Variant(quote.SelectedVariant)
	if !ok {
		return models.OutboundMessage{}, fmt.Errorf("quote %s has no %q variant", quote.ID, quote.SelectedVariant)
	}
	note := validation.SanitizeText(req.Message, true)

	switch req.Channel {
	case models.ChannelSMS:
		to := req.To
		if to == "" {
			to = quote.Client.Phone
		}
		dest, err := s.smsDestination(to)
		if err != nil {
			return models.OutboundMessage{}, err
		}
		return models.OutboundMessage{
			Channel: models.ChannelSMS,
			To:      dest,
			Body:    s.smsBody(quote, variant, note),
		}, nil

	case models.ChannelEmail:
		to := req.To
		if to == "" {
			to = quote.Client.Email
		}
		form := validation.EmailDestination{To: strings.TrimSpace(to)}
		if err := s.check(&form); err != nil {
			return models.OutboundMessage{}, err
		}
		return models.OutboundMessage{
			Channel: models.ChannelEmail,
			To:      form.To,
			Subject: fmt.Sprintf("Your fence quote from %s", s.business.Name),
			Body:    s.emailBody(quote, variant, note, settings.TermsTemplate),
		}, nil
	}

	return models.OutboundMessage{}, &validation.Error{Fields: map[string]string{"channel": "channel must be one of sms, email"}}
}

func (s *Service) smsDestination(to string) (string, error) {
	normalized, ok := validation.NormalizeE164(to)
	if !ok {
		normalized = strings.TrimSpace(to)
	}
	form := validation.SMSDestination{To: normalized}
	if err := s.check(&form); err != nil {
		return "", err
	}
	return form.To, nil
}

func (s *Service) deliver(ctx context.Context, msg models.OutboundMessage) error {
	var (
		resp *functions.DeliveryResponse
		err  error
	)
	switch msg.Channel {
	case models.ChannelSMS:
		resp, err = s.client.SendSMS(ctx, functions.SMSRequest{To: msg.To, Body: msg.Body})
	case models.ChannelEmail:
		resp, err = s.client.SendEmail(ctx, functions.EmailRequest{To: msg.To, Subject: msg.Subject, Text: msg.Body})
	default:
		return fmt.Errorf("unsupported channel %q", msg.Channel)
	}
	if err != nil {
		s.logger.Error("delivery failed", zap.String("channel", string(msg.Channel)), zap.Error(err))
		return fmt.Errorf("deliver %s: %w", msg.Channel, err)
	}
	s.logger.Debug("delivery accepted",
		zap.String("channel", string(msg.Channel)),
		zap.String("delivery_id", resp.ID),
		zap.String("status", resp.Status))
	return nil
}

func (s *Service) smsBody(quote models.Quote, v models.QuoteVariant, note string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: hi %s, your %s fence quote (%s) is %s.",
		s.business.Name,
		quote.Client.Name,
		fenceLabel(quote.Inputs.FenceType),
		v.Type,
		format.Currency(s.business.CurrencySymbol, v.Total))
	if note != "" {
		b.WriteString(" ")
		b.WriteString(note)
	}
	return b.String()
}

func (s *Service) emailBody(quote models.Quote, v models.QuoteVariant, note, terms string) string {
	symbol := s.business.CurrencySymbol
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", quote.Client.Name)
	fmt.Fprintf(&b, "Thank you for considering %s. Here is your %s quote for %s ft of %s fence at %s ft.\n",
		s.business.Name, v.Type, format.Quantity(quote.Inputs.Length), fenceLabel(quote.Inputs.FenceType), format.Quantity(quote.Inputs.Height))
	if note != "" {
		fmt.Fprintf(&b, "\n%s\n", note)
	}

	b.WriteString("\nIncluded:\n")
	for _, item := range v.Items {
		fmt.Fprintf(&b, "- %s (%s %s)\n", item.Name, format.Quantity(item.Quantity), item.Unit)
	}
	for _, item := range quote.CustomItems {
		fmt.Fprintf(&b, "- %s (%s)\n", item.Name, format.Quantity(item.Quantity))
	}
	fmt.Fprintf(&b, "\nPrice: %s\n", format.Currency(symbol, v.Subtotal+v.MarkupAmount))
	if v.TaxAmount != 0 {
		fmt.Fprintf(&b, "Tax: %s\n", format.Currency(symbol, v.TaxAmount))
	}
	fmt.Fprintf(&b, "Total: %s\n", format.Currency(symbol, v.Total))

	if terms != "" {
		fmt.Fprintf(&b, "\nTerms:\n%s\n", terms)
	}
	return b.String()
}

func fenceLabel(t models.FenceType) string {
	return strings.ReplaceAll(string(t), "_", " ")
}

func (s *Service) check(form any) error {
	res, err := s.validator.Check(form)
	if err != nil {
		return err
	}
	return res.Err()
}
