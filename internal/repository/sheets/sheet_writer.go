package sheets

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/mamadbah2/fencequote/internal/config"
)

// RowAppender appends rows below the last filled row of a range.
type RowAppender interface {
	AppendRows(ctx context.Context, sheetRange string, rows ...[]interface{}) (int64, error)
}

// SheetWriter appends ledger rows through the Google Sheets API.
type SheetWriter struct {
	values        *sheetsapi.SpreadsheetsValuesService
	spreadsheetID string
	logger        *zap.Logger
}

// NewSheetWriter authenticates with the configured service account file, when
// one is set, followed by any extra options.
func NewSheetWriter(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger, opts ...option.ClientOption) (*SheetWriter, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.SpreadsheetID == "" {
		return nil, errors.New("spreadsheet id must be provided")
	}

	clientOpts := []option.ClientOption{option.WithScopes(sheetsapi.SpreadsheetsScope)}
	if cfg.CredentialsPath != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(cfg.CredentialsPath))
	}
	clientOpts = append(clientOpts, opts...)
	service, err := sheetsapi.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &SheetWriter{
		values:        service.Spreadsheets.Values,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger,
	}, nil
}

// AppendRows writes rows in one request and returns how many rows the sheet
// reports as updated. Values are stored RAW so client-supplied text is never
// evaluated as a formula.
func (w *SheetWriter) AppendRows(ctx context.Context, sheetRange string, rows ...[]interface{}) (int64, error) {
	if sheetRange == "" {
		return 0, errors.New("sheet range must not be empty")
	}
	if len(rows) == 0 {
		return 0, nil
	}

	resp, err := w.values.Append(w.spreadsheetID, sheetRange, &sheetsapi.ValueRange{Values: rows}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return 0, fmt.Errorf("append %d rows into %s: %w", len(rows), sheetRange, err)
	}

	var updated int64
	if resp.Updates != nil {
		updated = resp.Updates.UpdatedRows
	}
	w.logger.Debug("rows appended to sheet",
		zap.String("range", sheetRange),
		zap.Int("rows", len(rows)),
		zap.Int64("updated_rows", updated))
	return updated, nil
}
