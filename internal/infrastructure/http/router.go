package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimid "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/taskward/taskward/internal/infrastructure/http/handlers"
	"github.com/taskward/taskward/internal/infrastructure/http/middleware"
)

type RouterConfig struct {
	AuthHandler   *handlers.AuthHandler
	UsersHandler  *handlers.UsersHandler
	TasksHandler  *handlers.TasksHandler
	HealthHandler *handlers.HealthHandler
	RequireAuth   func(http.Handler) http.Handler // the auth gate for everything below /tasks and /users
	Log           zerolog.Logger
	Secure        func(http.Handler) http.Handler
	CORS          func(http.Handler) http.Handler
	IPRateLimit   func(http.Handler) http.Handler
	Metrics       bool // expose /metrics
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(chimid.RequestID)
	r.Use(chimid.RealIP)
	r.Use(loggerMiddleware(cfg.Log))
	r.Use(chimid.Recoverer)
	if cfg.Metrics {
		r.Use(middleware.PrometheusMiddleware)
	}
	if cfg.Secure != nil {
		r.Use(cfg.Secure)
	}
	if cfg.CORS != nil {
		r.Use(cfg.CORS)
	}
	if cfg.IPRateLimit != nil {
		r.Use(cfg.IPRateLimit)
	}

	if cfg.HealthHandler != nil {
		r.Get("/health", cfg.HealthHandler.ServeHTTP)
	} else {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		})
	}
	if cfg.Metrics {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", cfg.AuthHandler.Register)
		r.Post("/login", cfg.AuthHandler.Login)
	})

	r.Route("/users", func(r chi.Router) {
		r.Use(cfg.RequireAuth)
		r.Get("/me", cfg.UsersHandler.Me)
		r.Patch("/me", cfg.UsersHandler.UpdateMe)
		r.Put("/me/password", cfg.AuthHandler.ChangePassword)
	})

	r.Route("/tasks", func(r chi.Router) {
		r.Use(cfg.RequireAuth)
		r.Post("/", cfg.TasksHandler.Create)
		r.Get("/", cfg.TasksHandler.List)
		r.Get("/{id}", cfg.TasksHandler.Get)
		r.Patch("/{id}", cfg.TasksHandler.Update)
		r.Delete("/{id}", cfg.TasksHandler.Delete)
	})

	return r
}

func loggerMiddleware(log zerolog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := chimid.GetReqID(r.Context())
			log.Info().
				Str("request_id", reqID).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Msg("request")
			next.ServeHTTP(w, r)
		})
	}
}
