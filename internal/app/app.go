package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"go-task-manager/docs"
	"go-task-manager/internal/auth"
	"go-task-manager/internal/config"
	"go-task-manager/internal/database"
	"go-task-manager/internal/event"
	"go-task-manager/internal/handler"
	"go-task-manager/internal/middleware"
	"go-task-manager/internal/repository"
	"go-task-manager/internal/router"
	"go-task-manager/internal/service"
	"go-task-manager/internal/websocket"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	server       *http.Server
	db           *database.DB
	cleanupFuncs []func()
}

// New connects to the database, applies pending migrations and wires the
// HTTP stack. The websocket hub runs until the App is shut down.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	slog.Info("connecting to PostgreSQL")
	db, err := database.New(ctx, database.PoolConfig{
		URL:      cfg.DatabaseURL,
		MaxConns: cfg.DBMaxConns,
		MinConns: cfg.DBMinConns,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}
	slog.Info("database ready")

	issuer, err := auth.NewTokenIssuer(auth.TokenConfig{
		AccessSecret:  cfg.JWTSecret,
		RefreshSecret: cfg.JWTRefreshSecret,
		AccessTTL:     cfg.JWTAccessTTL,
		RefreshTTL:    cfg.JWTRefreshTTL,
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize token issuer: %w", err)
	}
	hasher := auth.NewPasswordHasher(cfg.BcryptCost)

	userRepo := repository.NewUserRepository(db.Pool)
	taskRepo := repository.NewTaskRepository(db.Pool)

	bus := event.NewBus()
	hub := websocket.NewHub(bus)
	hubCtx, stopHub := context.WithCancel(context.Background())
	go hub.Run(hubCtx)

	authService := service.NewAuthService(userRepo, hasher, issuer)
	userService := service.NewUserService(userRepo, hasher, bus)
	taskService := service.NewTaskService(taskRepo, bus)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		database.NewPoolCollector(db.Pool),
	)

	appRouter := router.New(cfg, middleware.NewAuthMiddleware(issuer, userRepo, auth.DefaultPolicy()), registry, router.Handlers{
		Auth:   handler.NewAuthHandler(authService),
		Users:  handler.NewUserHandler(userService),
		Tasks:  handler.NewTaskHandler(taskService),
		WS:     handler.NewWSHandler(websocket.NewUpgrader(hub, cfg.CORSOrigins)),
		Docs:   handler.NewDocsHandler(cfg.OpenAPIPath, docs.OpenAPI),
		Health: handler.NewHealthHandler(db),
	})

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           appRouter,
		ReadHeaderTimeout: cfg.ServerReadHeaderTimeout,
		WriteTimeout:      cfg.ServerWriteTimeout,
		IdleTimeout:       cfg.ServerIdleTimeout,
	}

	return &App{
		server: server,
		db:     db,
		cleanupFuncs: []func(){
			stopHub,
			db.Close,
		},
	}, nil
}

// Handler exposes the routed HTTP stack, for tests that serve it directly.
func (a *App) Handler() http.Handler {
	return a.server.Handler
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (a *App) Run(ctx context.Context) error {
	serveErr := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		serveErr <- a.server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		a.Close()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := a.server.Shutdown(shutdownCtx)
	a.Close()
	if err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

// Close releases the hub and the database pool. It is safe to call more than
// once.
func (a *App) Close() {
	for _, cleanup := range a.cleanupFuncs {
		cleanup()
	}
	a.cleanupFuncs = nil
}
