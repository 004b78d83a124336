package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/gerneth/secretapp/internal/secretapp/http"
	"github.com/gerneth/secretapp/internal/secretapp/notify"
	"github.com/gerneth/secretapp/internal/secretapp/service"
	"github.com/gerneth/secretapp/internal/secretapp/store"
	"github.com/gerneth/secretapp/internal/secretapp/store/drivers/sqlite"
	"github.com/gerneth/secretapp/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the secret sharing service with all its
// dependencies wired once at startup and passed down explicitly.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db       store.Store
	notifier notify.Notifier

	registrationService *service.RegistrationService
	authService         *service.AuthService
	userService         *service.UserService
	secretService       *service.SecretService

	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "secretapp",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	app.initNotifier()
	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.logger.Info("secretapp starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down secretapp...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("secretapp stopped")
	return nil
}

// initDatabase initializes the database and applies migrations.
func (app *Application) initDatabase() error {
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(dsn)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initNotifier selects the notification transport.
func (app *Application) initNotifier() {
	switch app.cfg.Notifier {
	case "smtp":
		app.notifier = &notify.SMTPNotifier{
			Addr:     app.cfg.SMTPAddr,
			From:     app.cfg.SMTPFrom,
			Username: app.cfg.SMTPUser,
			Password: app.cfg.SMTPPass,
			Timeout:  app.cfg.SMTPTimeout,
		}
		app.logger.Info("smtp notifier enabled", "addr", app.cfg.SMTPAddr)
	default:
		app.notifier = &notify.LogNotifier{Logger: app.logger}
		app.logger.Info("log notifier enabled, activation links go to the log")
	}
}

// initServices initializes all business logic services.
func (app *Application) initServices() {
	app.registrationService = &service.RegistrationService{
		Store:    app.db,
		Notifier: app.notifier,
		BaseURL:  app.cfg.BaseURL,
	}
	app.authService = &service.AuthService{Store: app.db}
	app.userService = &service.UserService{Store: app.db}
	app.secretService = &service.SecretService{Store: app.db}
}

// initHTTP initializes the HTTP router and server.
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(BuildVersion, app.db, app.logger)

	router.RegistrationService = app.registrationService
	router.AuthService = app.authService
	router.UserService = app.userService
	router.SecretService = app.secretService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
