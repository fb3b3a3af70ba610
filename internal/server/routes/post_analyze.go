package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/docugraph/backend/internal/server/middleware"
	"github.com/docugraph/backend/pkg/builder"
	"github.com/docugraph/backend/pkg/document"
	"github.com/docugraph/backend/pkg/graph"
	"github.com/docugraph/backend/pkg/logger"
)

// AnalyzeHandler builds a knowledge graph from one parsed document and
// returns its portable serialization plus build metadata.
func AnalyzeHandler(c echo.Context) error {
	type analyzeBody struct {
		Document document.Document         `json:"document"`
		Tables   []document.TableCandidate `json:"tables,omitempty" validate:"omitempty,dive"`
		Images   []document.ImageCandidate `json:"images,omitempty" validate:"omitempty,dive"`
	}

	type analyzeResponse struct {
		Message  string                 `json:"message"`
		Graph    *graph.Portable        `json:"graph,omitempty"`
		Metadata *builder.BuildMetadata `json:"metadata,omitempty"`
	}

	data := new(analyzeBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, analyzeResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, analyzeResponse{
			Message: "Invalid request body",
		})
	}

	app := c.(*middleware.AppContext).App
	result, err := app.Builder.Build(builder.BuildParams{
		Document: data.Document,
		Tables:   data.Tables,
		Images:   data.Images,
	})
	if err != nil {
		logger.Error("Failed to build graph", "err", err)
		return c.JSON(http.StatusInternalServerError, analyzeResponse{
			Message:  "Failed to build graph",
			Metadata: &result.Metadata,
		})
	}

	portable := result.Graph.ToPortable()
	return c.JSON(http.StatusOK, analyzeResponse{
		Message:  "Graph built",
		Graph:    &portable,
		Metadata: &result.Metadata,
	})
}
