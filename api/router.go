package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pos_sales/internal/catalog"
	"pos_sales/internal/sales"
)

// Options tunes the HTTP surface.
type Options struct {
	// AllowedOrigins enables CORS for a browser front end. Empty disables CORS.
	AllowedOrigins []string
	// SessionIdleTTL is how long an untouched sale session survives.
	// Zero means 30 minutes.
	SessionIdleTTL time.Duration
}

// InitRoutes registers the catalog, sale-session and reporting endpoints on
// the given Gin engine.
func InitRoutes(e *gin.Engine, catalogService *catalog.Service, salesService *sales.Service, logger *zap.Logger, opts Options) {
	e.Use(requestLogger(logger))
	if len(opts.AllowedOrigins) > 0 {
		e.Use(cors.New(cors.Config{
			AllowOrigins:  opts.AllowedOrigins,
			AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:  []string{"Origin", "Content-Type", "X-Request-ID"},
			ExposeHeaders: []string{"X-Request-ID"},
			MaxAge:        12 * time.Hour,
		}))
	}

	catalogHandler := NewCatalogHandler(catalogService, logger)
	salesHandler := NewSalesHandler(salesService, logger, opts.SessionIdleTTL)

	e.GET("/products", catalogHandler.handleListProducts)
	e.POST("/products", catalogHandler.handleAddProduct)
	e.PUT("/products/:name", catalogHandler.handleUpdateProduct)

	e.POST("/sessions", salesHandler.handleStartSession)
	e.GET("/sessions/:id", salesHandler.handleGetSession)
	e.PUT("/sessions/:id/quantities", salesHandler.handleSetQuantity)
	e.PUT("/sessions/:id/amounts", salesHandler.handleSetAmounts)
	e.POST("/sessions/:id/calculate", salesHandler.handleCalculate)
	e.POST("/sessions/:id/commit", salesHandler.handleCommit)
	e.DELETE("/sessions/:id", salesHandler.handleAbandon)

	e.GET("/sales", salesHandler.handleReport)
	e.POST("/sales/reset", salesHandler.handleRequestReset)
	e.POST("/sales/reset/confirm", salesHandler.handleConfirmReset)

	e.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})
}
