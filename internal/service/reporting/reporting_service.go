package reporting

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/fencequote/internal/domain/models"
	"github.com/mamadbah2/fencequote/internal/format"
	"github.com/mamadbah2/fencequote/internal/repository/mongodb"
)

const dateLayout = "2006-01-02"

// QuoteLister is the slice of the quote store the reports read from.
type QuoteLister interface {
	ListQuotes(ctx context.Context, userID string, filter mongodb.QuoteFilter) ([]models.Quote, error)
}

// Service exposes pipeline analytics for summaries and the API.
type Service struct {
	quotes         QuoteLister
	currencySymbol string
	logger         *zap.Logger
	now            func() time.Time
}

// NewService wires a new reporting service instance.
func NewService(quotes QuoteLister, currencySymbol string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{quotes: quotes, currencySymbol: currencySymbol, logger: logger, now: time.Now}
}

// Pipeline aggregates the quotes created in [start, end] by status. The win rate
// is accepted / (accepted + declined), in percent with two decimals.
func (s *Service) Pipeline(ctx context.Context, userID string, start, end time.Time) (models.PipelineReport, error) {
	if end.Before(start) {
		return models.PipelineReport{}, fmt.Errorf("report period ends (%s) before it starts (%s)", end.Format(dateLayout), start.Format(dateLayout))
	}
	quotes, err := s.quotes.ListQuotes(ctx, userID, mongodb.QuoteFilter{Since: start, Until: end})
	if err != nil {
		return models.PipelineReport{}, fmt.Errorf("load quotes: %w", err)
	}

	byStatus := make(map[models.QuoteStatus]*models.StatusSummary, len(models.QuoteStatuses))
	report := models.PipelineReport{
		UserID:    userID,
		Start:     start,
		End:       end,
		ByStatus:  make([]models.StatusSummary, len(models.QuoteStatuses)),
		Generated: s.now().UTC(),
	}
	for i, status := range models.QuoteStatuses {
		report.ByStatus[i].Status = status
		byStatus[status] = &report.ByStatus[i]
	}

	for _, q := range quotes {
		summary, ok := byStatus[q.Status]
		if !ok {
			s.logger.Debug("skip quote with unknown status", zap.String("quote_id", q.ID), zap.String("status", string(q.Status)))
			continue
		}
		summary.Count++
		summary.Total += q.Total
		report.Quotes++
		report.Value += q.Total
	}

	won := byStatus[models.QuoteAccepted].Count
	decided := won + byStatus[models.QuoteDeclined].Count
	if decided > 0 {
		report.WinRate = math.Round(float64(won)/float64(decided)*100*100) / 100
	}
	return report, nil
}

// WeeklySummary reports the seven days ending at now as a short text.
func (s *Service) WeeklySummary(ctx context.Context, userID string) (string, error) {
	end := s.now()
	start := end.AddDate(0, 0, -7)
	report, err := s.Pipeline(ctx, userID, start, end)
	if err != nil {
		return "", err
	}
	return s.Summary(report), nil
}

// Summary renders a report as a single message.
func (s *Service) Summary(report models.PipelineReport) string {
	period := fmt.Sprintf("%s-%s", report.Start.Format(dateLayout), report.End.Format(dateLayout))
	if report.Quotes == 0 {
		return fmt.Sprintf("Quotes (%s): no quotes created.", period)
	}

	parts := make([]string, 0, len(report.ByStatus))
	for _, st := range report.ByStatus {
		if st.Count == 0 {
			continue
		}
		parts = append(parts, fmt.Sprintf("%d %s (%s)", st.Count, st.Status, format.Currency(s.currencySymbol, st.Total)))
	}

	var winStatement string
	if hasDecided(report) {
		winStatement = fmt.Sprintf(" Win rate %.2f%%.", report.WinRate)
	}
	return fmt.Sprintf("Quotes (%s): %d worth %s. %s.%s",
		period, report.Quotes, format.Currency(s.currencySymbol, report.Value), strings.Join(parts, ", "), winStatement)
}

func hasDecided(report models.PipelineReport) bool {
	for _, st := range report.ByStatus {
		if (st.Status == models.QuoteAccepted || st.Status == models.QuoteDeclined) && st.Count > 0 {
			return true
		}
	}
	return false
}
