package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/docugraph/backend/internal/server/middleware"
	"github.com/docugraph/backend/pkg/reference"
)

// DetectHandler scans raw text for cross-references and returns the
// surviving matches, the cleaned text, and match statistics.
func DetectHandler(c echo.Context) error {
	type detectBody struct {
		Text          string `json:"text" validate:"required"`
		ContextWindow int    `json:"context_window,omitempty" validate:"omitempty,min=1,max=500"`
	}

	type detectResponse struct {
		Message string                 `json:"message"`
		Result  *reference.MatchResult `json:"result,omitempty"`
	}

	data := new(detectBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, detectResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, detectResponse{
			Message: "Invalid request body",
		})
	}

	app := c.(*middleware.AppContext).App
	matcher := app.Matcher
	if data.ContextWindow > 0 {
		matcher = reference.NewMatcher(reference.NewMatcherParams{
			Catalog:       app.Catalog,
			ContextWindow: data.ContextWindow,
		})
	}

	result := matcher.Match(data.Text)
	return c.JSON(http.StatusOK, detectResponse{
		Message: "Text analyzed",
		Result:  &result,
	})
}
