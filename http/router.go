package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"credit-risk/metrics"
)

type RouterConfig struct {
	Risk        *RiskHandler
	Form        *FormHandler
	Limiter     *RateLimiter
	Metrics     *metrics.Metrics
	MetricsPage http.Handler
	// Ready reports whether dependencies are reachable; nil means always ready.
	Ready func(r *http.Request) error
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestIDMiddleware)
	r.Use(accessLogMiddleware(cfg.Metrics))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if cfg.Ready != nil {
			if err := cfg.Ready(r); err != nil {
				writeError(w, r, http.StatusServiceUnavailable, err.Error())
				return
			}
		}
		writeJSON(w, r, http.StatusOK, map[string]string{"status": "ready"})
	})
	if cfg.MetricsPage != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsPage)
	}
	r.Get("/", cfg.Form.Show)

	r.Group(func(r chi.Router) {
		if cfg.Limiter != nil {
			r.Use(RateLimitMiddleware(cfg.Limiter, cfg.Metrics))
		}

		r.Post("/", cfg.Form.Submit)

		r.Route("/v1", func(r chi.Router) {
			r.Post("/risk/evaluate", cfg.Risk.Evaluate)
			r.Post("/risk/classify", cfg.Risk.Classify)
			r.Post("/features/derive", cfg.Risk.DeriveFeatures)
			r.Get("/model", cfg.Risk.Model)
		})
	})

	return r
}
