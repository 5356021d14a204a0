package http

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"

	"github.com/ngo-crm/feedback-crm/internal/infrastructure/http/handlers"
)

// RegisterHealthRoutes mounts the unauthenticated operational endpoints.
func RegisterHealthRoutes(e *echo.Echo, version string, checks map[string]handlers.DependencyCheck) {
	healthHandler := handlers.NewHealthHandler(version)
	readinessHandler := handlers.NewReadinessHandler(checks)

	e.GET("/health", healthHandler.Liveness)           // liveness
	e.GET("/health/ready", readinessHandler.Readiness) // readiness
	e.GET("/metrics", echoprometheus.NewHandler())
}
