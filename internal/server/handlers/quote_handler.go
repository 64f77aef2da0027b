package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/fencequote/internal/domain/models"
	"github.com/mamadbah2/fencequote/internal/export/xlsx"
	"github.com/mamadbah2/fencequote/internal/repository/mongodb"
	"github.com/mamadbah2/fencequote/internal/server/middleware"
	"github.com/mamadbah2/fencequote/internal/service/quotes"
	"github.com/mamadbah2/fencequote/internal/validation"
)

const maxListLimit = 200

// QuoteService describes the quote operations the HTTP layer can perform.
type QuoteService interface {
	Estimate(ctx context.Context, userID string, form validation.QuoteInputsForm) (quotes.Preview, error)
	CreateQuote(ctx context.Context, userID string, form validation.NewQuoteForm) (models.Quote, error)
	GetQuote(ctx context.Context, userID, id string) (models.Quote, error)
	ListQuotes(ctx context.Context, userID string, filter mongodb.QuoteFilter) ([]models.Quote, error)
	SelectVariant(ctx context.Context, userID, id string, form validation.SelectionForm) (models.Quote, error)
	UpdateStatus(ctx context.Context, userID, id string, form validation.StatusForm) (models.Quote, error)
	AddCustomItem(ctx context.Context, userID, id string, form validation.CustomItemForm) (models.Quote, error)
	RemoveCustomItem(ctx context.Context, userID, id, itemID string) (models.Quote, error)
}

// QuoteSender delivers a quote to its client.
type QuoteSender interface {
	SendQuote(ctx context.Context, userID, quoteID string, req models.SendQuoteRequest) (models.Quote, error)
}

// WorkbookExporter renders a quote as a spreadsheet.
type WorkbookExporter interface {
	Quote(quote models.Quote) ([]byte, error)
	Filename(quote models.Quote) string
}

// QuoteHandler exposes quotes over HTTP.
type QuoteHandler struct {
	svc      QuoteService
	sender   QuoteSender
	exporter WorkbookExporter
	logger   *zap.Logger
}

// NewQuoteHandler constructs the HTTP handler adapter.
func NewQuoteHandler(svc QuoteService, sender QuoteSender, exporter WorkbookExporter, logger *zap.Logger) *QuoteHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuoteHandler{svc: svc, sender: sender, exporter: exporter, logger: logger}
}

// Estimate prices job inputs without saving a quote.
func (h *QuoteHandler) Estimate(c *gin.Context) {
	var form validation.QuoteInputsForm
	if err := c.ShouldBindJSON(&form); err != nil {
		badBody(c, h.logger, err)
		return
	}
	preview, err := h.svc.Estimate(c.Request.Context(), middleware.UserID(c), form)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, preview)
}

// Create prices and saves a new draft quote.
func (h *QuoteHandler) Create(c *gin.Context) {
	var form validation.NewQuoteForm
	if err := c.ShouldBindJSON(&form); err != nil {
		badBody(c, h.logger, err)
		return
	}
	quote, err := h.svc.CreateQuote(c.Request.Context(), middleware.UserID(c), form)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, quote)
}

// List returns the user's quotes. Optional query parameters: status, since,
// until (RFC 3339 or YYYY-MM-DD) and limit.
func (h *QuoteHandler) List(c *gin.Context) {
	filter, fields := listFilter(c)
	if len(fields) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation failed", "errors": fields})
		return
	}
	list, err := h.svc.ListQuotes(c.Request.Context(), middleware.UserID(c), filter)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"quotes": list})
}

// Get returns one quote.
func (h *QuoteHandler) Get(c *gin.Context) {
	quote, err := h.svc.GetQuote(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

// Select changes the variant presented to the client.
func (h *QuoteHandler) Select(c *gin.Context) {
	var form validation.SelectionForm
	if err := c.ShouldBindJSON(&form); err != nil {
		badBody(c, h.logger, err)
		return
	}
	h.respond(c)(h.svc.SelectVariant(c.Request.Context(), middleware.UserID(c), c.Param("id"), form))
}

// SetStatus moves the quote through the pipeline.
func (h *QuoteHandler) SetStatus(c *gin.Context) {
	var form validation.StatusForm
	if err := c.ShouldBindJSON(&form); err != nil {
		badBody(c, h.logger, err)
		return
	}
	h.respond(c)(h.svc.UpdateStatus(c.Request.Context(), middleware.UserID(c), c.Param("id"), form))
}

// AddCustomItem adds a manual line to every variant.
func (h *QuoteHandler) AddCustomItem(c *gin.Context) {
	var form validation.CustomItemForm
	if err := c.ShouldBindJSON(&form); err != nil {
		badBody(c, h.logger, err)
		return
	}
	h.respond(c)(h.svc.AddCustomItem(c.Request.Context(), middleware.UserID(c), c.Param("id"), form))
}

// RemoveCustomItem drops a manual line.
func (h *QuoteHandler) RemoveCustomItem(c *gin.Context) {
	h.respond(c)(h.svc.RemoveCustomItem(c.Request.Context(), middleware.UserID(c), c.Param("id"), c.Param("itemID")))
}

// Send delivers the quote by SMS or email.
func (h *QuoteHandler) Send(c *gin.Context) {
	var req models.SendQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid send payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "channel must be one of sms, email"})
		return
	}
	h.respond(c)(h.sender.SendQuote(c.Request.Context(), middleware.UserID(c), c.Param("id"), req))
}

// Export downloads the selected variant as an xlsx workbook.
func (h *QuoteHandler) Export(c *gin.Context) {
	quote, err := h.svc.GetQuote(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	data, err := h.exporter.Quote(quote)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+h.exporter.Filename(quote)+`"`)
	c.Data(http.StatusOK, xlsx.ContentType, data)
}

func (h *QuoteHandler) respond(c *gin.Context) func(models.Quote, error) {
	return func(quote models.Quote, err error) {
		if err != nil {
			writeError(c, h.logger, err)
			return
		}
		c.JSON(http.StatusOK, quote)
	}
}

func listFilter(c *gin.Context) (mongodb.QuoteFilter, map[string]string) {
	fields := map[string]string{}
	filter := mongodb.QuoteFilter{Status: models.QuoteStatus(c.Query("status")), Limit: maxListLimit}

	if raw := c.Query("since"); raw != "" {
		t, err := parseTime(raw, false)
		if err != nil {
			fields["since"] = "since must be an RFC 3339 time or a YYYY-MM-DD date"
		}
		filter.Since = t
	}
	if raw := c.Query("until"); raw != "" {
		t, err := parseTime(raw, true)
		if err != nil {
			fields["until"] = "until must be an RFC 3339 time or a YYYY-MM-DD date"
		}
		filter.Until = t
	}
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 1 || n > maxListLimit {
			fields["limit"] = "limit must be between 1 and " + strconv.Itoa(maxListLimit)
		}
		filter.Limit = n
	}
	return filter, fields
}

// parseTime accepts RFC 3339 or a bare date. A bare end date covers the whole day.
func parseTime(raw string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return time.Time{}, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}
