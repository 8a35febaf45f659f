package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aussiebroadwan/rolodex/internal/avatar"
	httpapi "github.com/aussiebroadwan/rolodex/internal/http"
	"github.com/aussiebroadwan/rolodex/internal/notify"
	"github.com/aussiebroadwan/rolodex/internal/service"
	"github.com/aussiebroadwan/rolodex/internal/store"
	"github.com/aussiebroadwan/rolodex/internal/store/drivers/sqlite"
	"github.com/aussiebroadwan/rolodex/pkg/cryptox"
	"github.com/aussiebroadwan/rolodex/pkg/httpx"
	"github.com/aussiebroadwan/rolodex/pkg/jwtx"
	"github.com/aussiebroadwan/rolodex/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application wires the whole service together: store, token codec,
// services, router, and the HTTP server lifecycle.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db    store.Store
	codec *jwtx.Codec

	authService    *service.AuthService
	userService    *service.UserService
	contactService *service.ContactService

	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	cryptox.SetPepperPath(app.cfg.PepperFile)

	codec, err := jwtx.NewCodec([]byte(cfg.Secret), cfg.Issuer, 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token codec (is AUTH_SECRET set?): %w", err)
	}
	app.codec = codec

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	if err := app.initServices(); err != nil {
		_ = app.db.Close()
		return nil, err
	}
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.logger.Info("rolodex starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
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

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down rolodex...")

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

	app.logger.Info("rolodex stopped")
	return nil
}

// initDatabase initializes the database and applies migrations. The store
// owns the DSN pragmas (WAL, busy timeout, immediate tx locking).
func (app *Application) initDatabase() error {
	db, err := sqlite.NewStore(app.cfg.DatabaseFile)
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

// initServices initializes all business logic services
func (app *Application) initServices() error {
	avatars, err := avatar.NewFSStore(app.cfg.AvatarDir, "/static/avatars")
	if err != nil {
		return fmt.Errorf("failed to initialize avatar store: %w", err)
	}

	app.authService = &service.AuthService{
		Store:           app.db,
		Codec:           app.codec,
		Notifier:        &notify.LogNotifier{BaseURL: app.cfg.PublicBaseURL},
		AccessTTL:       app.cfg.AccessTTL,
		RefreshTTL:      app.cfg.RefreshTTL,
		EmailConfirmTTL: app.cfg.EmailConfirmTTL,
	}
	app.userService = &service.UserService{Store: app.db, Avatars: avatars}
	app.contactService = &service.ContactService{Store: app.db}

	return nil
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		BuildVersion,
		app.db,
		app.logger,
		httpx.BanConfig{
			IPs:               httpx.ParseBannedIPs(app.cfg.BannedIPs),
			UserAgentPatterns: httpx.CompileUserAgentPatterns(app.cfg.BannedUserAgents),
		},
		httpx.CORSConfig{
			AllowedOrigins:   app.cfg.AllowedOrigins,
			AllowCredentials: true,
		},
	)

	router.AuthService = app.authService
	router.UserService = app.userService
	router.ContactService = app.contactService
	router.AvatarDir = app.cfg.AvatarDir
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
