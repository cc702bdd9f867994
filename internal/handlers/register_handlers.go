package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/imovelbooks/imovel_books_app/internal/core/services"
	"github.com/imovelbooks/imovel_books_app/pkg/config"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	container *services.Container,
) {
	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	registerHomeRoutes(r)

	setupAPIV1Routes(r, container)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	container *services.Container,
) {
	v1 := r.Group("/api/v1")

	registerTaxSettingRoutes(v1, container.TaxSettings)
	registerProjectionRoutes(v1, container.Projections)
	registerPaymentRoutes(v1, container.Payments)
	registerReportingRoutes(v1, container.Reporting)
}
