package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/fencequote/internal/domain/models"
	"github.com/mamadbah2/fencequote/internal/estimator"
	"github.com/mamadbah2/fencequote/internal/server/middleware"
	"github.com/mamadbah2/fencequote/internal/validation"
)

// CatalogService describes the price-list and settings operations.
type CatalogService interface {
	Settings(ctx context.Context, userID string) (models.CalculatorSettings, error)
	UpdateSettings(ctx context.Context, userID string, form validation.SettingsForm) (models.CalculatorSettings, error)
	Materials(ctx context.Context, userID string, fenceType models.FenceType) ([]models.MaterialRecord, error)
	CreateMaterial(ctx context.Context, userID string, form validation.MaterialForm) (models.MaterialRecord, error)
	UpdateMaterial(ctx context.Context, userID, id string, form validation.MaterialForm) (models.MaterialRecord, error)
}

// CatalogHandler exposes settings, the price list and the coefficient tables.
type CatalogHandler struct {
	svc    CatalogService
	tables estimator.Coefficients
	logger *zap.Logger
}

// NewCatalogHandler constructs the HTTP handler adapter.
func NewCatalogHandler(svc CatalogService, tables estimator.Coefficients, logger *zap.Logger) *CatalogHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogHandler{svc: svc, tables: tables, logger: logger}
}

// FenceTypes returns the coefficient tables the estimator prices against.
func (h *CatalogHandler) FenceTypes(c *gin.Context) {
	c.JSON(http.StatusOK, h.tables)
}

// GetSettings returns the user's calculator settings.
func (h *CatalogHandler) GetSettings(c *gin.Context) {
	settings, err := h.svc.Settings(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// PutSettings replaces the user's calculator settings.
func (h *CatalogHandler) PutSettings(c *gin.Context) {
	var form validation.SettingsForm
	if err := c.ShouldBindJSON(&form); err != nil {
		badBody(c, h.logger, err)
		return
	}
	settings, err := h.svc.UpdateSettings(c.Request.Context(), middleware.UserID(c), form)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// ListMaterials returns the price list, optionally filtered by ?fence_type=.
func (h *CatalogHandler) ListMaterials(c *gin.Context) {
	list, err := h.svc.Materials(c.Request.Context(), middleware.UserID(c), models.FenceType(c.Query("fence_type")))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	if list == nil {
		list = []models.MaterialRecord{}
	}
	c.JSON(http.StatusOK, gin.H{"materials": list})
}

// CreateMaterial adds a price-list entry.
func (h *CatalogHandler) CreateMaterial(c *gin.Context) {
	var form validation.MaterialForm
	if err := c.ShouldBindJSON(&form); err != nil {
		badBody(c, h.logger, err)
		return
	}
	m, err := h.svc.CreateMaterial(c.Request.Context(), middleware.UserID(c), form)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

// UpdateMaterial replaces a price-list entry.
func (h *CatalogHandler) UpdateMaterial(c *gin.Context) {
	var form validation.MaterialForm
	if err := c.ShouldBindJSON(&form); err != nil {
		badBody(c, h.logger, err)
		return
	}
	m, err := h.svc.UpdateMaterial(c.Request.Context(), middleware.UserID(c), c.Param("id"), form)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, m)
}
