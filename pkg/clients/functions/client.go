package functions

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/mamadbah2/fencequote/internal/config"
)

const (
	smsPath   = "send-quote-sms"
	emailPath = "send-quote-email"
)

// Client exposes the hosted delivery functions used by the application.
type Client interface {
	SendSMS(ctx context.Context, req SMSRequest) (*DeliveryResponse, error)
	SendEmail(ctx context.Context, req EmailRequest) (*DeliveryResponse, error)
}

// APIClient is a resty-backed implementation of Client.
type APIClient struct {
	httpClient *resty.Client
}

// NewClient builds a functions client using the provided configuration values.
func NewClient(cfg config.FunctionsConfig) *APIClient {
	restyClient := resty.New()
	restyClient.
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetTimeout(cfg.Timeout)
	if cfg.APIKey != "" {
		restyClient.SetAuthToken(cfg.APIKey)
	}

	return &APIClient{httpClient: restyClient}
}

// SMSRequest is the payload of the SMS function. To must be E.164.
type SMSRequest struct {
	To   string `json:"to"`
	Body string `json:"body"`
}

// EmailRequest is the payload of the email function.
type EmailRequest struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
}

// DeliveryResponse mirrors the successful response of both functions.
type DeliveryResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// apiError represents the error payload returned by the functions.
type apiError struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details"`
}

// SendSMS delivers a text message.
func (c *APIClient) SendSMS(ctx context.Context, req SMSRequest) (*DeliveryResponse, error) {
	return c.post(ctx, smsPath, req)
}

// SendEmail delivers a plain-text email.
func (c *APIClient) SendEmail(ctx context.Context, req EmailRequest) (*DeliveryResponse, error) {
	return c.post(ctx, emailPath, req)
}

func (c *APIClient) post(ctx context.Context, path string, payload any) (*DeliveryResponse, error) {
	result := new(DeliveryResponse)
	apiErr := new(apiError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(result).
		SetError(apiErr).
		Post(path)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", path, err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		message := apiErr.Error
		if message == "" {
			message = strings.TrimSpace(resp.String())
		}
		return nil, &Error{Function: path, Status: resp.StatusCode(), Code: apiErr.Code, Message: message}
	}

	return result, nil
}

// Error is returned when a function answers with a non-success status.
type Error struct {
	Function string
	Status   int
	Code     string
	Message  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s failed: status=%d, code=%s, message=%s", e.Function, e.Status, e.Code, e.Message)
}
