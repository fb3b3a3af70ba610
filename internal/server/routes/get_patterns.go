package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/docugraph/backend/internal/server/middleware"
	"github.com/docugraph/backend/pkg/common"
)

// GetPatternsHandler lists the reference pattern catalog.
func GetPatternsHandler(c echo.Context) error {
	type patternInfo struct {
		ID          string               `json:"id"`
		Name        string               `json:"name"`
		Expression  string               `json:"expression"`
		Kind        common.ReferenceKind `json:"kind"`
		Priority    int                  `json:"priority"`
		Confidence  float64              `json:"confidence"`
		Description string               `json:"description"`
		Examples    []string             `json:"examples"`
	}

	app := c.(*middleware.AppContext).App

	patterns := app.Catalog.Patterns()
	infos := make([]patternInfo, 0, len(patterns))
	for _, p := range patterns {
		infos = append(infos, patternInfo{
			ID:          p.ID,
			Name:        p.Name,
			Expression:  p.Expr.String(),
			Kind:        p.Kind,
			Priority:    p.Priority,
			Confidence:  p.Confidence,
			Description: p.Description,
			Examples:    p.Examples,
		})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"patterns": infos,
	})
}
