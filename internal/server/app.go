// Package server wires the placekeeper components together and runs the
// HTTP API until the process is told to stop.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/placekeeper/internal/logging"
	"github.com/dmitrijs2005/placekeeper/internal/server/config"
	"github.com/dmitrijs2005/placekeeper/internal/server/geocoding"
	"github.com/dmitrijs2005/placekeeper/internal/server/httpapi"
	"github.com/dmitrijs2005/placekeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/placekeeper/internal/server/services"
	"github.com/dmitrijs2005/placekeeper/internal/telemetry"
)

var logOutput io.Writer = os.Stdout

type App struct {
	config        *config.Config
	logger        logging.Logger
	db            *sql.DB
	httpServer    *httpapi.HTTPServer
	traceShutdown telemetry.ShutdownFunc
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger, err := logging.New(logOutput, c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	traceShutdown, err := telemetry.Setup(ctx, logger, telemetry.Config{
		Enabled:     c.TracingEnabled,
		ServiceName: c.TracingServiceName,
		Endpoint:    c.OTLPEndpoint,
		Insecure:    c.OTLPInsecure,
		SampleRatio: c.TraceSampleRatio,
	})
	if err != nil {
		return nil, fmt.Errorf("tracing init error: %w", err)
	}

	db, rm, err := repomanager.Open(ctx, c.DatabaseDriver, c.DatabaseDSN)
	if err != nil {
		_ = traceShutdown(ctx)
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		_ = traceShutdown(ctx)
		return nil, fmt.Errorf("db migrations error: %w", err)
	}

	resolver, err := newResolver(ctx, logger, c)
	if err != nil {
		_ = db.Close()
		_ = traceShutdown(ctx)
		return nil, err
	}

	ps := services.NewPlaceService(db, rm, resolver, logger, c)
	us := services.NewUserService(db, rm, logger, c)
	is := services.NewImageService(c)

	hs := httpapi.NewHTTPServer(c.HTTPAddr, logger, ps, us, is, db, c.ShutdownTimeout)

	return &App{
		config:        c,
		logger:        logger,
		db:            db,
		httpServer:    hs,
		traceShutdown: traceShutdown,
	}, nil
}

// newResolver picks the Google client when an API key is configured and
// the fixed development location otherwise.
func newResolver(ctx context.Context, log logging.Logger, c *config.Config) (geocoding.Resolver, error) {
	if c.GeocoderAPIKey == "" {
		log.Warn(ctx, "no geocoder API key configured, every address resolves to the default location")
		return geocoding.Static{Location: geocoding.DefaultLocation}, nil
	}
	gc, err := geocoding.NewGoogleClient(log, geocoding.GoogleConfig{
		BaseURL: c.GeocoderBaseURL,
		APIKey:  c.GeocoderAPIKey,
		Timeout: c.GeocoderTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("geocoder init error: %w", err)
	}
	return gc, nil
}

// Run serves the HTTP API until ctx is cancelled or SIGINT/SIGTERM/SIGQUIT
// arrives, then releases the database and flushes traces.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	app.logger.Info(ctx, "Starting app...", "driver", app.config.DatabaseDriver)

	runErr := app.httpServer.Run(ctx)
	if runErr != nil {
		app.logger.Error(ctx, "http server stopped", "error", runErr)
	}

	return errors.Join(runErr, app.Close(context.WithoutCancel(ctx)))
}

func (app *App) Close(ctx context.Context) error {
	var errs []error
	if err := app.traceShutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("trace shutdown: %w", err))
	}
	if err := app.db.Close(); err != nil {
		errs = append(errs, fmt.Errorf("db close: %w", err))
	}
	app.logger.Info(ctx, "App stopped")
	return errors.Join(errs...)
}
