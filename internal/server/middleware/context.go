package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/docugraph/backend/pkg/builder"
	"github.com/docugraph/backend/pkg/reference"
)

// App bundles the shared, stateless components every handler needs: the
// graph builder and the standalone reference machinery. All of them are
// safe for concurrent use.
type App struct {
	Builder *builder.Client
	Catalog *reference.Catalog
	Matcher *reference.Matcher

	// ParallelDocuments bounds the fan-out of batch analysis.
	ParallelDocuments int
}

// AppContext wraps the echo context with the application components.
type AppContext struct {
	echo.Context
	App *App
}

// AppContextMiddleware injects the shared App into every request.
func AppContextMiddleware(app *App) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			return next(&AppContext{c, app})
		}
	}
}
