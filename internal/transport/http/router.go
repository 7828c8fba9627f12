package http

import (
	"context"
	"log/slog"
	"net/http"

	_ "github.com/expo-push-api/docs"
	"github.com/expo-push-api/internal/application/device"
	"github.com/expo-push-api/internal/application/dispatch"
	"github.com/expo-push-api/internal/application/notification"
	"github.com/expo-push-api/internal/config"
	"github.com/expo-push-api/internal/transport/http/handler"
	appmiddleware "github.com/expo-push-api/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router. ctx bounds background
// goroutines started for the router, such as rate-limiter cleanup.
func NewRouter(ctx context.Context, cfg *config.Config, deps *Deps) http.Handler {
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(deps.Metrics.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Token registration is the only endpoint mobile clients hit directly.
	registerRL := appmiddleware.NewRateLimiter(ctx, rate.Limit(cfg.RegisterRateLimit), cfg.RegisterRateBurst)

	opts := []dispatch.Option{
		dispatch.WithMetrics(deps.Metrics),
		dispatch.WithLogger(log.With("component", "dispatch")),
	}
	if deps.Reports != nil {
		opts = append(opts, dispatch.WithArchive(deps.Reports))
	}
	engine := dispatch.NewEngine(deps.DeviceRepo, deps.Gateway, cfg.Expo.BatchSize, opts...)

	deviceSvc := device.NewService(deps.DeviceRepo)
	notifSvc := notification.NewService(deps.NotificationRepo, engine, log.With("component", "notification"))

	healthH := handler.NewHealthHandler()
	deviceH := handler.NewDeviceHandler(deviceSvc)
	notifH := handler.NewNotificationHandler(notifSvc)

	r.Get("/health-check/{action}", healthH.Ping)
	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())
	}
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	r.Route("/api/notifications", func(r chi.Router) {
		r.With(registerRL.Limit).Post("/register-token", deviceH.RegisterToken)

		r.Post("/", notifH.Create)
		r.Get("/", notifH.List)
		r.Get("/{id}", notifH.Get)
		r.Put("/{id}", notifH.Update)
		r.Delete("/{id}", notifH.Delete)
		r.Put("/{id}/publish", notifH.Publish)
	})

	return r
}
