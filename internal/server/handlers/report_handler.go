package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/fencequote/internal/domain/models"
	"github.com/mamadbah2/fencequote/internal/server/middleware"
)

const defaultReportPeriod = 7 * 24 * time.Hour

// ReportService builds pipeline reports.
type ReportService interface {
	Pipeline(ctx context.Context, userID string, start, end time.Time) (models.PipelineReport, error)
}

// ReportHandler exposes pipeline analytics.
type ReportHandler struct {
	svc    ReportService
	logger *zap.Logger
	now    func() time.Time
}

// NewReportHandler constructs the HTTP handler adapter.
func NewReportHandler(svc ReportService, logger *zap.Logger) *ReportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportHandler{svc: svc, logger: logger, now: time.Now}
}

// Pipeline reports quotes created between ?from= and ?to=, defaulting to the last
// seven days.
func (h *ReportHandler) Pipeline(c *gin.Context) {
	end := h.now().UTC()
	start := end.Add(-defaultReportPeriod)
	fields := map[string]string{}

	if raw := c.Query("from"); raw != "" {
		t, err := parseTime(raw, false)
		if err != nil {
			fields["from"] = "from must be an RFC 3339 time or a YYYY-MM-DD date"
		}
		start = t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := parseTime(raw, true)
		if err != nil {
			fields["to"] = "to must be an RFC 3339 time or a YYYY-MM-DD date"
		}
		end = t
	}
	if len(fields) == 0 && end.Before(start) {
		fields["to"] = "to must not be before from"
	}
	if len(fields) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation failed", "errors": fields})
		return
	}

	report, err := h.svc.Pipeline(c.Request.Context(), middleware.UserID(c), start, end)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
