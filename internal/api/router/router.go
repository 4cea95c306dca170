package router

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/wolfman30/booksite-platform/internal/appointments"
	"github.com/wolfman30/booksite-platform/internal/catalog"
	"github.com/wolfman30/booksite-platform/internal/http/handlers"
	httpmiddleware "github.com/wolfman30/booksite-platform/internal/http/middleware"
	"github.com/wolfman30/booksite-platform/internal/storeconfig"
	"github.com/wolfman30/booksite-platform/internal/wizard"
	"github.com/wolfman30/booksite-platform/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger            *logging.Logger
	Availability      *handlers.AvailabilityHandler
	Storefront        *handlers.StorefrontHandler
	Wizard            *wizard.Handler
	StoreConfigAdmin  *storeconfig.Handler
	CatalogAdmin      *catalog.Handler
	AppointmentsAdmin *appointments.Handler
	AdminAuthSecret   string
	MetricsHandler    http.Handler
	CORS              httpmiddleware.CORSOptions
	RateLimiter       *httpmiddleware.RateLimiter

	// ReadinessCheck backs /ready when set, typically a database ping.
	ReadinessCheck func(ctx context.Context) error
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORS.AllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORS))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Operational endpoints
	r.Get("/health", health)
	r.Get("/ready", ready(cfg.ReadinessCheck))
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	// Public booking endpoints
	r.Group(func(public chi.Router) {
		if cfg.RateLimiter != nil {
			public.Use(cfg.RateLimiter.Middleware)
		}
		public.Route("/stores/{storeID}", func(store chi.Router) {
			if cfg.Availability != nil {
				store.Mount("/availability", cfg.Availability.Routes())
			}
			if cfg.Wizard != nil {
				store.Post("/wizard", cfg.Wizard.OpenForStore)
			}
		})
		if cfg.Wizard != nil {
			public.Mount("/wizard", cfg.Wizard.Routes())
		}
		if cfg.Storefront != nil {
			public.Route("/storefront", func(sf chi.Router) {
				sf.Use(requireStoreID)
				sf.Get("/", cfg.Storefront.GetStorefront)
				sf.Get("/services", cfg.Storefront.ListServices)
			})
		}
	})

	// Admin routes (protected by JWT, scoped to the stores in the token)
	if cfg.AdminAuthSecret != "" {
		r.Route("/admin", func(admin chi.Router) {
			admin.Use(httpmiddleware.AdminJWT(cfg.AdminAuthSecret))
			admin.Route("/stores/{storeID}", func(store chi.Router) {
				store.Use(httpmiddleware.RequireStoreAccess)
				if cfg.StoreConfigAdmin != nil {
					store.Get("/config", cfg.StoreConfigAdmin.GetConfig)
					store.Put("/config", cfg.StoreConfigAdmin.UpdateConfig)
					store.Patch("/customization", cfg.StoreConfigAdmin.UpdateCustomization)
				}
				if cfg.CatalogAdmin != nil {
					store.Mount("/services", cfg.CatalogAdmin.Routes())
				}
				if cfg.AppointmentsAdmin != nil {
					store.Mount("/appointments", cfg.AppointmentsAdmin.Routes())
				}
			})
		})
	}

	return r
}

func health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func ready(check func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if check != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := check(ctx); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				_ = json.NewEncoder(w).Encode(map[string]string{"status": "unavailable"})
				return
			}
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ready"})
	}
}
