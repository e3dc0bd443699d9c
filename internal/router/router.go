package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"go-task-manager/internal/auth"
	"go-task-manager/internal/config"
	"go-task-manager/internal/handler"
	"go-task-manager/internal/middleware"
)

type Handlers struct {
	Auth   *handler.AuthHandler
	Users  *handler.UserHandler
	Tasks  *handler.TaskHandler
	WS     *handler.WSHandler
	Docs   *handler.DocsHandler
	Health *handler.HealthHandler
}

func New(
	cfg *config.Config,
	authMiddleware *middleware.AuthMiddleware,
	registry *prometheus.Registry,
	h Handlers,
) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(
		cfg.RateLimitWindow,
		cfg.RateLimitMax,
		cfg.AuthRateLimitMax,
		middleware.ClientIPResolver{TrustedHops: cfg.TrustedProxyHops},
	)
	metrics := middleware.NewMetrics(registry)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(metrics.Handler)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.SecurityHeaders)
	r.Use(rateLimitMiddleware.Handler)

	r.Get("/health", h.Health.Live)
	r.Get("/ready", h.Health.Ready)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	r.Get("/openapi.yaml", h.Docs.OpenAPI)
	r.Get("/swagger", h.Docs.SwaggerUI)

	r.Route("/api", func(api chi.Router) {
		// websocket upgrades cannot pass through the buffering timeout
		api.With(authMiddleware.RequireAuthOrQuery).Get("/ws", h.WS.Feed)

		api.Group(func(api chi.Router) {
			api.Use(middleware.Timeout(cfg.RequestTimeout))

			api.Post("/register", h.Auth.Register)
			api.Post("/login", h.Auth.Login)
			api.Post("/forgot-password", h.Auth.ForgotPassword)
			api.Post("/refresh-token", h.Auth.Refresh)
			api.Post("/logout", h.Auth.Logout)

			api.Group(func(api chi.Router) {
				api.Use(authMiddleware.RequireAuth)
				require := authMiddleware.Require

				api.With(require(auth.ActionProfileUpdate)).Put("/update-profile", h.Users.UpdateProfile)
				api.With(require(auth.ActionProfilePassword)).Post("/change-password", h.Users.ChangePassword)
				api.Get("/user-name/{id}", h.Users.Username)

				api.With(require(auth.ActionUserList)).Get("/users", h.Users.List)
				api.With(require(auth.ActionUserRead)).Get("/users/{id}", h.Users.Get)
				api.With(require(auth.ActionUserUpdate)).Put("/users/{id}", h.Users.Update)
				api.With(require(auth.ActionUserDelete)).Delete("/users/{id}", h.Users.Delete)

				api.With(require(auth.ActionTaskList)).Get("/tasks", h.Tasks.List)
				api.With(require(auth.ActionTaskCreate)).Post("/tasks", h.Tasks.Create)
				api.With(require(auth.ActionTaskRead)).Get("/tasks/{id}", h.Tasks.Get)
				api.With(require(auth.ActionTaskUpdate)).Put("/tasks/{id}", h.Tasks.Update)
				api.With(require(auth.ActionTaskDelete)).Delete("/tasks/{id}", h.Tasks.Delete)
			})
		})
	})

	return r
}
