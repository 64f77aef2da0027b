package models

import "time"

// StatusSummary aggregates quotes sharing one pipeline status.
type StatusSummary struct {
	Status QuoteStatus `json:"status"`
	Count  int         `json:"count"`
	Total  Cents       `json:"total_cents"`
}

// PipelineReport summarizes a user's quoting activity over a period.
type PipelineReport struct {
	UserID    string          `json:"user_id"`
	Start     time.Time       `json:"start"`
	End       time.Time       `json:"end"`
	Quotes    int             `json:"quotes"`
	Value     Cents           `json:"value_cents"`
	ByStatus  []StatusSummary `json:"by_status"`
	WinRate   float64         `json:"win_rate"`
	Generated time.Time       `json:"generated_at"`
}
