package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"

	"github.com/docugraph/backend/internal/server/middleware"
	"github.com/docugraph/backend/pkg/builder"
	"github.com/docugraph/backend/pkg/document"
	"github.com/docugraph/backend/pkg/graph"
	"github.com/docugraph/backend/pkg/logger"
)

// AnalyzeBatchHandler builds one independent graph per submitted
// document. Documents are processed concurrently up to the configured
// limit; results preserve submission order. A failed document does not
// fail the batch.
func AnalyzeBatchHandler(c echo.Context) error {
	type batchDocument struct {
		Document document.Document         `json:"document"`
		Tables   []document.TableCandidate `json:"tables,omitempty" validate:"omitempty,dive"`
		Images   []document.ImageCandidate `json:"images,omitempty" validate:"omitempty,dive"`
	}

	type batchItem struct {
		Graph    *graph.Portable        `json:"graph,omitempty"`
		Metadata *builder.BuildMetadata `json:"metadata,omitempty"`
		Error    string                 `json:"error,omitempty"`
	}

	type batchBody struct {
		Documents []batchDocument `json:"documents" validate:"required,min=1,dive"`
	}

	type batchResponse struct {
		Message string      `json:"message"`
		Results []batchItem `json:"results,omitempty"`
	}

	data := new(batchBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, batchResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, batchResponse{
			Message: "Invalid request body",
		})
	}

	app := c.(*middleware.AppContext).App

	results := make([]batchItem, len(data.Documents))
	eg := errgroup.Group{}
	eg.SetLimit(app.ParallelDocuments)

	for i, doc := range data.Documents {
		i, doc := i, doc
		eg.Go(func() error {
			result, err := app.Builder.Build(builder.BuildParams{
				Document: doc.Document,
				Tables:   doc.Tables,
				Images:   doc.Images,
			})
			if err != nil {
				logger.Error("Failed to build graph in batch", "index", i, "err", err)
				results[i] = batchItem{
					Metadata: &result.Metadata,
					Error:    err.Error(),
				}
				return nil
			}

			portable := result.Graph.ToPortable()
			results[i] = batchItem{
				Graph:    &portable,
				Metadata: &result.Metadata,
			}
			return nil
		})
	}

	// Goroutines never return errors; Wait only drains the group.
	_ = eg.Wait()

	return c.JSON(http.StatusOK, batchResponse{
		Message: "Batch processed",
		Results: results,
	})
}
