package router

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"cargoflow/internal/handler"
	"cargoflow/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	queueH *handler.QueueHandler,
	alertH *handler.AlertHandler,
	exportH *handler.ExportHandler,
	healthH *handler.HealthHandler,
	logger zerolog.Logger,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	queue := v1.Group("/queue")
	queue.POST("/:id/process", queueH.Process)

	alerts := v1.Group("/alerts")
	alerts.POST("/sweep", alertH.Sweep)
	alerts.GET("", alertH.ListActive)
	alerts.POST("/:id/resolve", alertH.Resolve)

	suppliers := v1.Group("/suppliers")
	suppliers.GET("/:id/ledger.xlsx", exportH.SupplierLedger)

	return r
}
