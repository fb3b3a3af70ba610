package server

import (
	"github.com/labstack/echo/v4"

	"github.com/docugraph/backend/internal/server/routes"
)

func RegisterRoutes(e *echo.Echo) {
	// Health check route
	e.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})

	apiRoutes := e.Group("/api")

	// Analysis routes
	apiRoutes.POST("/analyze", routes.AnalyzeHandler)
	apiRoutes.POST("/analyze/batch", routes.AnalyzeBatchHandler)

	// Reference routes
	apiRoutes.POST("/detect", routes.DetectHandler)
	apiRoutes.POST("/validate", routes.ValidateHandler)
	apiRoutes.GET("/patterns", routes.GetPatternsHandler)
}
