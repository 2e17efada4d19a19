package server

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/brandflow/brandflow/internal/handler"
	"github.com/brandflow/brandflow/internal/metrics"
	"github.com/brandflow/brandflow/internal/middleware"
)

// Handlers groups the HTTP handlers mounted by NewRouter.
type Handlers struct {
	Root       *handler.Handler
	Health     *handler.HealthHandler
	Metrics    *handler.MetricsHandler
	Accounts   *handler.AccountHandler
	Businesses *handler.BusinessHandler
	Media      *handler.MediaHandler
	Plans      *handler.PlanHandler
	Chat       *handler.ChatHandler
	Logos      *handler.LogoHandler
}

// RouterConfig holds the cross-cutting settings of the router.
type RouterConfig struct {
	Logger        *slog.Logger
	Authenticator middleware.Authenticator
	Recorder      metrics.Recorder

	// AILimiter throttles the chat and logo generation endpoints.
	AILimiter        middleware.Limiter
	RateLimitEnabled bool

	CORS          middleware.CORSConfig
	IsDevelopment bool
	MaxBodySize   int64

	// TrustProxyHeaders rewrites RemoteAddr from X-Forwarded-For / X-Real-IP.
	// Enable only behind a proxy that overwrites those headers.
	TrustProxyHeaders bool
}

// NewRouter configures the chi router with all routes and middleware.
func NewRouter(h Handlers, cfg RouterConfig) *chi.Mux {
	recorder := cfg.Recorder
	if recorder == nil {
		recorder = metrics.NewNoop()
	}

	r := chi.NewRouter()

	// Global middleware
	if cfg.TrustProxyHeaders {
		r.Use(chimiddleware.RealIP)
	}
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Recoverer(cfg.Logger))
	r.Use(middleware.Metrics(recorder))
	r.Use(middleware.Security(middleware.SecurityConfig{IsDevelopment: cfg.IsDevelopment}))
	r.Use(middleware.CORS(cfg.CORS))

	// Unversioned endpoints (no auth required)
	r.Get("/", h.Root.Welcome)
	r.Get("/healthz", h.Health.Healthz)
	r.Get("/readyz", h.Health.Readyz)
	if h.Metrics != nil {
		r.Get("/metrics", h.Metrics.Metrics)
	}

	authMiddleware := middleware.Auth(middleware.AuthConfig{
		Logger:        cfg.Logger,
		Authenticator: cfg.Authenticator,
	})
	aiLimit := middleware.RateLimit(middleware.RateLimitConfig{
		Logger:   cfg.Logger,
		Limiter:  cfg.AILimiter,
		Recorder: recorder,
		Enabled:  cfg.RateLimitEnabled,
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.MaxBodySize(cfg.MaxBodySize))

		// Public
		r.Post("/auth/register", h.Accounts.Register)
		r.Post("/auth/login", h.Accounts.Login)
		r.With(aiLimit).Post("/chat", h.Chat.Complete)

		// Bearer token required
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)

			r.Get("/users/me", h.Accounts.Me)

			r.Route("/businesses", func(r chi.Router) {
				r.Get("/", h.Businesses.List)
				r.Post("/", h.Businesses.Create)
				r.Get("/{id}", h.Businesses.Get)
				r.Put("/{id}", h.Businesses.Update)
				r.Delete("/{id}", h.Businesses.Delete)
			})

			r.Route("/media-files", func(r chi.Router) {
				r.Get("/", h.Media.List)
				r.Post("/", h.Media.Create)
				r.Post("/upload", h.Media.Upload)
				r.Delete("/{id}", h.Media.Delete)
			})

			r.Route("/marketing-plans", func(r chi.Router) {
				r.Get("/", h.Plans.List)
				r.Post("/", h.Plans.Create)
				r.Get("/{id}", h.Plans.Get)
				r.Put("/{id}", h.Plans.Update)
				r.Delete("/{id}", h.Plans.Delete)
			})

			r.Post("/chat/save", h.Chat.Save)
			r.Get("/chat/history", h.Chat.History)

			r.Route("/logos", func(r chi.Router) {
				r.With(aiLimit).Post("/generate", h.Logos.Generate)
				r.With(aiLimit).Post("/{id}/regenerate", h.Logos.Regenerate)
				r.Get("/user", h.Logos.ListForUser)
				r.Get("/business/{id}", h.Logos.ListForBusiness)
				r.Delete("/{id}", h.Logos.Delete)
			})
		})
	})

	// 404 and 405 handlers
	r.NotFound(h.Root.NotFound)
	r.MethodNotAllowed(h.Root.MethodNotAllowed)

	return r
}
