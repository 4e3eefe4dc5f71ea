// Package app is the application bootstrap and dependency injection root.
// It creates and holds all shared infrastructure (DB pool, Redis client,
// Echo instance) and wires the authentication core together: repository,
// hasher, token generator, session store, strategy, service, handler.
package app

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/gatehouse/gatehouse/internal/apperror"
	"github.com/gatehouse/gatehouse/internal/auth"
	"github.com/gatehouse/gatehouse/internal/config"
	"github.com/gatehouse/gatehouse/internal/middleware"
)

// App holds all shared dependencies and the Echo HTTP server instance.
// Created once at startup in main.go.
type App struct {
	// Config holds the loaded application configuration.
	Config *config.Config

	// DB is the MariaDB connection pool.
	DB *sql.DB

	// Redis is the Redis client used by the redis session backend.
	// Nil when another backend is configured.
	Redis *redis.Client

	// Echo is the HTTP server instance.
	Echo *echo.Echo

	// Auth is the wired authentication service, exported for tests and
	// future route groups.
	Auth *auth.Service
}

// New creates a new App instance with the given dependencies, configures
// the Echo server with global middleware and error handling, and registers
// all routes.
func New(cfg *config.Config, db *sql.DB, rdb *redis.Client) *App {
	e := echo.New()

	// Disable Echo's default banner and startup message -- we log our own.
	e.HideBanner = true
	e.HidePort = true

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
		Echo:   e,
	}

	// Global middleware in order of execution: recovery outermost.
	e.Use(middleware.Recovery())
	e.Use(middleware.RequestLogger())
	e.Use(middleware.SecurityHeaders())

	// Custom error handler maps AppErrors to JSON responses.
	e.HTTPErrorHandler = app.errorHandler

	app.wireAuth()

	return app
}

// wireAuth builds the authentication core from configuration and registers
// its routes. The strategy and session backend are fixed here, once, at
// startup; nothing downstream switches on config again.
func (a *App) wireAuth() {
	repo := auth.NewUserRepository(a.DB)
	hasher := auth.NewBcryptHasher()
	tokens := auth.UUIDGenerator{}

	var store auth.SessionStore
	switch a.Config.Auth.SessionBackend {
	case config.SessionRedis:
		store = auth.NewRedisStore(a.Redis, tokens, a.Config.Auth.SessionTTL)
	case config.SessionDatabase:
		store = auth.NewDirectoryStore(repo, tokens)
	default:
		store = auth.NewMemoryStore(tokens, a.Config.Auth.SessionTTL)
	}

	a.Auth = auth.NewService(repo, hasher, tokens, store)

	var strategy auth.Strategy
	switch a.Config.Auth.Type {
	case config.AuthBasic:
		strategy = auth.NewBasicAuth(repo, hasher)
	case config.AuthSession:
		strategy = auth.NewSessionAuth(store, repo)
	default:
		strategy = auth.NoAuth{}
	}

	handler := auth.NewHandler(a.Auth, a.Config.Auth.SessionTTL)
	auth.RegisterRoutes(a.Echo, handler)

	// Health check endpoint for container orchestration.
	a.Echo.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Everything except the excluded paths requires a resolved principal.
	if a.Config.Auth.Type != config.AuthNone {
		a.Echo.Use(auth.RequireAuth(strategy, a.Config.Auth.ExcludedPaths))
	}
}

// errorHandler is the custom Echo error handler. It maps domain errors
// (AppError) to JSON responses in the shape the API contract promises:
// a single "message" field plus the status code.
func (a *App) errorHandler(err error, c echo.Context) {
	// Don't double-write if response is already committed.
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := "An unexpected error occurred"

	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		code = appErr.Code
		message = appErr.Message

		// Log internal errors with the underlying cause.
		if appErr.Internal != nil {
			slog.Error("internal error",
				slog.String("type", appErr.Type),
				slog.String("message", appErr.Message),
				slog.Any("internal", appErr.Internal),
				slog.String("path", c.Request().URL.Path),
			)
		}
	} else {
		var echoErr *echo.HTTPError
		if errors.As(err, &echoErr) {
			code = echoErr.Code
			if msg, ok := echoErr.Message.(string); ok {
				message = msg
			} else {
				message = http.StatusText(code)
			}
		} else {
			// Truly unexpected error -- log it.
			slog.Error("unhandled error",
				slog.Any("error", err),
				slog.String("path", c.Request().URL.Path),
			)
		}
	}

	c.JSON(code, map[string]string{"message": message})
}

// Start begins listening for HTTP requests on the configured port.
func (a *App) Start() error {
	addr := fmt.Sprintf(":%d", a.Config.Port)
	slog.Info("starting gatehouse server",
		slog.String("addr", addr),
		slog.String("env", a.Config.Env),
		slog.String("auth_type", string(a.Config.Auth.Type)),
		slog.String("session_store", string(a.Config.Auth.SessionBackend)),
	)
	return a.Echo.Start(addr)
}
