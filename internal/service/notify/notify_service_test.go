package notify

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mamadbah2/fencequote/internal/config"
	"github.com/mamadbah2/fencequote/internal/domain/models"
	"github.com/mamadbah2/fencequote/internal/validation"
	"github.com/mamadbah2/fencequote/pkg/clients/functions"
)

type fakeFunctions struct {
	sms    []functions.SMSRequest
	emails []functions.EmailRequest
	err    error
}

func (f *fakeFunctions) SendSMS(_ context.Context, req functions.SMSRequest) (*functions.DeliveryResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.sms = append(f.sms, req)
	return &functions.DeliveryResponse{ID: "sms-1", Status: "queued"}, nil
}

func (f *fakeFunctions) SendEmail(_ context.Context, req functions.EmailRequest) (*functions.DeliveryResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.emails = append(f.emails, req)
	return &functions.DeliveryResponse{ID: "email-1", Status: "sent"}, nil
}

type fakeQuotes struct {
	quote    models.Quote
	marked   int
	// markErrs are returned by successive MarkSent calls before it succeeds.
	markErrs []error
}

func (f *fakeQuotes) GetQuote(_ context.Context, userID, id string) (models.Quote, error) {
	if id != f.quote.ID || userID != f.quote.UserID {
		return models.Quote{}, models.ErrNotFound
	}
	return f.quote, nil
}

func (f *fakeQuotes) MarkSent(_ context.Context, _, _ string) (models.Quote, error) {
	f.marked++
	if len(f.markErrs) > 0 {
		err := f.markErrs[0]
		f.markErrs = f.markErrs[1:]
		return models.Quote{}, err
	}
	q := f.quote
	if q.Status == models.QuoteDraft {
		q.Status = models.QuoteSent
	}
	return q, nil
}

type fakeSettings struct{ terms string }

func (f fakeSettings) Settings(_ context.Context, userID string) (models.CalculatorSettings, error) {
	s := models.DefaultSettings(userID)
	s.TermsTemplate = f.terms
	return s, nil
}

func testQuote() models.Quote {
	tax := 8.0
	return models.Quote{
		ID:     "q1",
		UserID: "u1",
		Client: models.ClientInfo{Name: "Jane Doe", Email: "jane@example.com", Phone: "+1 (555) 010-2000"},
		Inputs: models.QuoteInputs{FenceType: models.FenceWoodPrivacy, Length: 100, Height: 6, Terrain: models.TerrainFlat},
		Variants: []models.QuoteVariant{{
			Type:          models.VariantStandard,
			MarkupPercent: 20,
			TaxPercent:    &tax,
			Items: []models.QuoteItem{
				{Name: "4x4 PT post", Quantity: 14, Unit: "ea", UnitPrice: 2500, Total: 35000, Category: models.ItemMaterial},
			},
			MaterialsTotal: 35000,
			Subtotal:       35000,
			MarkupAmount:   7000,
			TaxAmount:      3360,
			Total:          45360,
		}},
		SelectedVariant: models.VariantStandard,
		Status:          models.QuoteDraft,
	}
}

func newTestService(client *fakeFunctions, quotes *fakeQuotes, terms string) *Service {
	business := config.BusinessConfig{Name: "Acme Fence", CurrencySymbol: "$"}
	return NewService(business, client, quotes, fakeSettings{terms: terms}, validation.New(), nil)
}

func TestSendQuote_SMSUsesClientPhone(t *testing.T) {
	client := &fakeFunctions{}
	quotes := &fakeQuotes{quote: testQuote()}
	svc := newTestService(client, quotes, "")

	got, err := svc.SendQuote(context.Background(), "u1", "q1", models.SendQuoteRequest{Channel: models.ChannelSMS, Message: "Valid 30 days."})
	if err != nil {
		t.Fatalf("SendQuote() error = %v", err)
	}
	if got.Status != models.QuoteSent || quotes.marked != 1 {
		t.Fatalf("status = %q, marked = %d", got.Status, quotes.marked)
	}
	if len(client.sms) != 1 {
		t.Fatalf("sms sent = %d, want 1", len(client.sms))
	}
	sms := client.sms[0]
	if sms.To != "+15550102000" {
		t.Fatalf("to = %q, want normalized E.164", sms.To)
	}
	for _, want := range []string{"Acme Fence", "Jane Doe", "wood privacy", "$453.60", "Valid 30 days."} {
		if !strings.Contains(sms.Body, want) {
			t.Errorf("body %q missing %q", sms.Body, want)
		}
	}
}

func TestSendQuote_EmailIncludesTerms(t *testing.T) {
	client := &fakeFunctions{}
	quotes := &fakeQuotes{quote: testQuote()}
	svc := newTestService(client, quotes, "50% deposit on signing.")

	_, err := svc.SendQuote(context.Background(), "u1", "q1", models.SendQuoteRequest{Channel: models.ChannelEmail, To: "Office@Example.com "})
	if err != nil {
		t.Fatalf("SendQuote() error = %v", err)
	}
	if len(client.emails) != 1 {
		t.Fatalf("emails sent = %d, want 1", len(client.emails))
	}
	email := client.emails[0]
	if email.To != "Office@Example.com" {
		t.Fatalf("to = %q", email.To)
	}
	if email.Subject != "Your fence quote from Acme Fence" {
		t.Fatalf("subject = %q", email.Subject)
	}
	for _, want := range []string{"4x4 PT post (14 ea)", "Price: $420.00", "Tax: $33.60", "Total: $453.60", "Terms:\n50% deposit on signing."} {
		if !strings.Contains(email.Text, want) {
			t.Errorf("text missing %q:\n%s", want, email.Text)
		}
	}
}

func TestSendQuote_RejectsBadDestinations(t *testing.T) {
	tests := []struct {
		name string
		req  models.SendQuoteRequest
	}{
		{"sms without country code", models.SendQuoteRequest{Channel: models.ChannelSMS, To: "555-010-2000"}},
		{"sms with letters", models.SendQuoteRequest{Channel: models.ChannelSMS, To: "+1555CALLNOW"}},
		{"bad email", models.SendQuoteRequest{Channel: models.ChannelEmail, To: "not-an-email"}},
		{"unknown channel", models.SendQuoteRequest{Channel: "fax", To: "+15550102000"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeFunctions{}
			quotes := &fakeQuotes{quote: testQuote()}
			svc := newTestService(client, quotes, "")

			_, err := svc.SendQuote(context.Background(), "u1", "q1", tt.req)
			var verr *validation.Error
			if !errors.As(err, &verr) {
				t.Fatalf("SendQuote() error = %v, want *validation.Error", err)
			}
			if len(client.sms)+len(client.emails) != 0 || quotes.marked != 0 {
				t.Fatal("message sent despite invalid destination")
			}
		})
	}
}

func TestSendQuote_DeliveryFailureKeepsDraft(t *testing.T) {
	client := &fakeFunctions{err: &functions.Error{Function: "send-quote-sms", Status: 502, Message: "gateway down"}}
	quotes := &fakeQuotes{quote: testQuote()}
	svc := newTestService(client, quotes, "")

	_, err := svc.SendQuote(context.Background(), "u1", "q1", models.SendQuoteRequest{Channel: models.ChannelSMS})
	var fnErr *functions.Error
	if !errors.As(err, &fnErr) {
		t.Fatalf("SendQuote() error = %v, want *functions.Error", err)
	}
	if quotes.marked != 0 {
		t.Fatal("quote marked sent after failed delivery")
	}
}

func TestSendQuote_NotFound(t *testing.T) {
	svc := newTestService(&fakeFunctions{}, &fakeQuotes{quote: testQuote()}, "")
	_, err := svc.SendQuote(context.Background(), "u2", "q1", models.SendQuoteRequest{Channel: models.ChannelSMS})
	if !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("SendQuote() error = %v, want ErrNotFound", err)
	}
}

func TestSendAlert(t *testing.T) {
	client := &fakeFunctions{}
	svc := newTestService(client, &fakeQuotes{}, "")

	if err := svc.SendAlert(context.Background(), "+44 20 7946 0958", "weekly summary"); err != nil {
		t.Fatalf("SendAlert() error = %v", err)
	}
	if len(client.sms) != 1 || client.sms[0].To != "+442079460958" {
		t.Fatalf("sms = %+v", client.sms)
	}
}

func TestSendQuote_EmailRoundsQuantities(t *testing.T) {
	length, rate, slope := 37.0, 0.12, 1.25
	quote := testQuote()
	quote.Inputs.Length = length
	quote.Variants[0].Items = append(quote.Variants[0].Items, models.QuoteItem{
		Name: "Fence installation", Quantity: length * rate * slope, Unit: "hr",
		UnitPrice: 4500, Total: 24975, Category: models.ItemLabor,
	})
	quote.CustomItems = []models.CustomItem{{ID: "c1", Name: "Haul away", Quantity: 3 * 0.1, UnitPrice: 1000, Total: 300}}

	client := &fakeFunctions{}
	svc := newTestService(client, &fakeQuotes{quote: quote}, "")
	if _, err := svc.SendQuote(context.Background(), "u1", "q1", models.SendQuoteRequest{Channel: models.ChannelEmail}); err != nil {
		t.Fatalf("SendQuote() error = %v", err)
	}
	text := client.emails[0].Text
	for _, want := range []string{"37 ft of", "Fence installation (5.55 hr)", "Haul away (0.3)"} {
		if !strings.Contains(text, want) {
			t.Errorf("text missing %q:\n%s", want, text)
		}
	}
	if strings.Contains(text, "99999") || strings.Contains(text, "00000") {
		t.Errorf("text carries float noise:\n%s", text)
	}
}

func TestSendQuote_ConflictAfterDelivery(t *testing.T) {
	tests := []struct {
		name       string
		markErrs   []error
		wantStatus models.QuoteStatus
		wantMarks  int
	}{
		{"retry succeeds", []error{models.ErrConflict}, models.QuoteSent, 2},
		{"retry conflicts too", []error{models.ErrConflict, models.ErrConflict}, models.QuoteDraft, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeFunctions{}
			quotes := &fakeQuotes{quote: testQuote(), markErrs: tt.markErrs}
			svc := newTestService(client, quotes, "")

			got, err := svc.SendQuote(context.Background(), "u1", "q1", models.SendQuoteRequest{Channel: models.ChannelSMS})
			if err != nil {
				t.Fatalf("SendQuote() error = %v, want nil once delivered", err)
			}
			if len(client.sms) != 1 {
				t.Fatalf("sms sent = %d, want 1", len(client.sms))
			}
			if quotes.marked != tt.wantMarks {
				t.Fatalf("MarkSent calls = %d, want %d", quotes.marked, tt.wantMarks)
			}
			if got.ID != "q1" || got.Status != tt.wantStatus {
				t.Fatalf("quote = %s/%s, want q1/%s", got.ID, got.Status, tt.wantStatus)
			}
		})
	}
}

func TestSendQuote_MarkSentFailure(t *testing.T) {
	boom := errors.New("mongo unavailable")
	quotes := &fakeQuotes{quote: testQuote(), markErrs: []error{boom}}
	svc := newTestService(&fakeFunctions{}, quotes, "")

	if _, err := svc.SendQuote(context.Background(), "u1", "q1", models.SendQuoteRequest{Channel: models.ChannelSMS}); !errors.Is(err, boom) {
		t.Fatalf("SendQuote() error = %v, want %v", err, boom)
	}
}
