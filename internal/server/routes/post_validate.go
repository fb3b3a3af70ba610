package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/docugraph/backend/pkg/common"
	"github.com/docugraph/backend/pkg/validation"
)

// ValidateHandler scores detected references against a hand-labeled
// expected set and returns precision, recall, and F1.
func ValidateHandler(c echo.Context) error {
	type validateBody struct {
		Detected []common.DetectedReference     `json:"detected" validate:"required"`
		Expected []validation.ExpectedReference `json:"expected" validate:"required"`
	}

	type validateResponse struct {
		Message string             `json:"message"`
		Report  *validation.Report `json:"report,omitempty"`
	}

	data := new(validateBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, validateResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, validateResponse{
			Message: "Invalid request body",
		})
	}

	report := validation.Score(data.Detected, data.Expected)
	return c.JSON(http.StatusOK, validateResponse{
		Message: "Detections scored",
		Report:  &report,
	})
}
