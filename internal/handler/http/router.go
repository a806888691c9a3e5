package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vouchwall/testimonial-service/pkg/health"
	"github.com/vouchwall/testimonial-service/pkg/middleware"

	"github.com/vouchwall/testimonial-service/internal/service"
)

// NewRouter creates a chi router with all testimonial service routes
// registered. validateToken is the JWT validator injected into the Auth
// middleware; everything under /api/v1 requires a bearer token.
func NewRouter(
	svc *service.TestimonialService,
	healthHandler *health.Handler,
	validateToken middleware.TokenValidator,
	corsCfg middleware.CORSConfig,
	logger *slog.Logger,
	pprofAllowedCIDRs []string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS(corsCfg))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.Tracing("testimonial-service"))
	r.Use(middleware.PrometheusMetrics("testimonials"))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// Pprof debug endpoints, restricted to the configured CIDR allowlist.
	middleware.RegisterPprof(r, pprofAllowedCIDRs, logger)

	testimonialHandler := NewTestimonialHandler(svc, logger)
	selectionHandler := NewSelectionHandler(svc, logger)

	r.Route("/api/v1/projects/{projectId}", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(middleware.Auth(validateToken))

		r.Route("/testimonials", func(r chi.Router) {
			r.Get("/", testimonialHandler.List)
			r.Post("/", testimonialHandler.Create)
			r.Post("/lookup", testimonialHandler.Lookup)
			r.Get("/recent", testimonialHandler.Recent)
			r.Put("/{id}", testimonialHandler.Update)
			r.Patch("/{id}/status", testimonialHandler.SetStatus)
			r.Post("/{id}/duplicate", testimonialHandler.Duplicate)
			r.Delete("/{id}", testimonialHandler.Delete)
		})

		r.Route("/selections", func(r chi.Router) {
			r.Get("/{surfaceId}", selectionHandler.Resolve)
			r.Put("/{surfaceId}", selectionHandler.Put)
		})
	})

	return r
}

// ContentTypeJSON enforces that requests with a body have
// Content-Type: application/json.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch {
			ct := r.Header.Get("Content-Type")
			if ct != "" && !strings.HasPrefix(ct, "application/json") {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnsupportedMediaType)
				_, _ = w.Write([]byte(`{"error":{"code":"UNSUPPORTED_MEDIA_TYPE","message":"Content-Type must be application/json"}}`))
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
