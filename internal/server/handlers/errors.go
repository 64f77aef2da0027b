package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/fencequote/internal/domain/models"
	"github.com/mamadbah2/fencequote/internal/estimator"
	"github.com/mamadbah2/fencequote/internal/service/quotes"
	"github.com/mamadbah2/fencequote/internal/validation"
	"github.com/mamadbah2/fencequote/pkg/clients/functions"
)

// writeError maps service errors onto status codes. Unexpected errors are logged
// and hidden from the client.
func writeError(c *gin.Context, logger *zap.Logger, err error) {
	var (
		verr    *validation.Error
		missing *estimator.MissingMaterialError
		input   *estimator.InvalidInputError
		fnErr   *functions.Error
	)

	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation failed", "errors": verr.Fields})
	case errors.As(err, &missing):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":      missing.Error(),
			"fence_type": missing.FenceType,
			"category":   missing.Category,
		})
	case errors.As(err, &input):
		c.JSON(http.StatusBadRequest, gin.H{"error": input.Error(), "errors": gin.H{input.Field: input.Reason}})
	case errors.Is(err, estimator.ErrUnknownFenceType):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrNotFound), errors.Is(err, quotes.ErrCustomItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "quote was modified by another request, reload and retry"})
	case errors.As(err, &fnErr):
		logger.Warn("delivery function failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "unable to deliver message"})
	default:
		logger.Error("request failed", zap.Error(err))
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// badBody answers a request whose JSON could not be decoded.
func badBody(c *gin.Context, logger *zap.Logger, err error) {
	logger.Debug("invalid request body", zap.Error(err))
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
}
