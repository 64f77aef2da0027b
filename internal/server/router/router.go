package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/fencequote/internal/server/handlers"
	"github.com/mamadbah2/fencequote/internal/server/middleware"
)

// Handlers groups the HTTP adapters the router mounts.
type Handlers struct {
	Quotes  *handlers.QuoteHandler
	Catalog *handlers.CatalogHandler
	Reports *handlers.ReportHandler
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/", middleware.RequireUser())

	api.GET("/fence-types", h.Catalog.FenceTypes)
	api.GET("/settings", h.Catalog.GetSettings)
	api.PUT("/settings", h.Catalog.PutSettings)
	api.GET("/materials", h.Catalog.ListMaterials)
	api.POST("/materials", h.Catalog.CreateMaterial)
	api.PUT("/materials/:id", h.Catalog.UpdateMaterial)

	api.POST("/quotes/estimate", h.Quotes.Estimate)
	api.POST("/quotes", h.Quotes.Create)
	api.GET("/quotes", h.Quotes.List)
	api.GET("/quotes/:id", h.Quotes.Get)
	api.PUT("/quotes/:id/selection", h.Quotes.Select)
	api.PUT("/quotes/:id/status", h.Quotes.SetStatus)
	api.POST("/quotes/:id/custom-items", h.Quotes.AddCustomItem)
	api.DELETE("/quotes/:id/custom-items/:itemID", h.Quotes.RemoveCustomItem)
	api.POST("/quotes/:id/send", h.Quotes.Send)
	api.GET("/quotes/:id/export.xlsx", h.Quotes.Export)

	api.GET("/reports/pipeline", h.Reports.Pipeline)

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}
