package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	mid "github.com/docugraph/backend/internal/server/middleware"
	"github.com/docugraph/backend/internal/util"
	"github.com/docugraph/backend/pkg/builder"
	"github.com/docugraph/backend/pkg/logger"
	"github.com/docugraph/backend/pkg/reference"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i any) error {
	if err := cv.validator.Struct(i); err != nil {
		return err
	}
	return nil
}

func Init() {
	e := echo.New()
	e.Validator = &CustomValidator{validator: validator.New()}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The catalog self-check runs here; an inconsistent catalog is a
	// programming error and aborts startup.
	catalog, err := reference.NewCatalog()
	if err != nil {
		logger.Fatal("Failed to load reference catalog", "err", err)
	}

	contextWindow := util.GetEnvInt("REFERENCE_CONTEXT_WINDOW", 0)
	builderClient, err := builder.NewClient(builder.NewClientParams{
		HeadingRatio:    util.GetEnvFloat("HEADING_RATIO", 0),
		ShortHeadingMax: util.GetEnvInt("SHORT_HEADING_MAX", 0),
		ContextWindow:   contextWindow,
	})
	if err != nil {
		logger.Fatal("Failed to create builder client", "err", err)
	}

	matcher := reference.NewMatcher(reference.NewMatcherParams{
		Catalog:       catalog,
		ContextWindow: contextWindow,
	})
	app := &mid.App{
		Builder:           builderClient,
		Catalog:           catalog,
		Matcher:           matcher,
		ParallelDocuments: util.GetEnvInt("PARALLEL_DOCUMENTS", 4),
	}

	e.Use(mid.AppContextMiddleware(app))
	e.Use(middleware.CORS())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit("256M"))

	RegisterRoutes(e)

	go func() {
		port := util.GetEnvString("PORT", "8080")
		logger.Info("Starting server", "port", port)
		if err := e.Start(":" + port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed shutting down server", "err", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Failed to shutdown server", "err", err)
	}
}
