package sheets

import (
	"context"
	"time"

	"github.com/mamadbah2/fencequote/internal/domain/models"
)

const (
	ledgerRange = "Quotes!A:K"
	dateFormat  = "2006-01-02"
)

// Ledger appends one row per quote event to the spreadsheet. Amounts are written
// in major units so the sheet can sum them.
type Ledger struct {
	rows RowAppender
	now  func() time.Time
}

// NewLedger wraps a row appender.
func NewLedger(rows RowAppender) *Ledger {
	return &Ledger{rows: rows, now: time.Now}
}

// RecordQuote appends the quote's current state.
func (l *Ledger) RecordQuote(ctx context.Context, quote models.Quote) error {
	_, err := l.rows.AppendRows(ctx, ledgerRange, QuoteRow(quote, l.now()))
	return err
}

// QuoteRow lays out a quote as a ledger row.
func QuoteRow(quote models.Quote, at time.Time) []interface{} {
	return []interface{}{
		at.UTC().Format(dateFormat),
		quote.ID,
		quote.Client.Name,
		string(quote.Inputs.FenceType),
		quote.Inputs.Length,
		string(quote.SelectedVariant),
		string(quote.Status),
		quote.Subtotal.Float(),
		quote.Total.Float(),
		len(quote.CustomItems),
		quote.CreatedAt.UTC().Format(dateFormat),
	}
}
