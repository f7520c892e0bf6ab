package api

import (
	"net/http"
	"time"

	"SPVWaterfall/internal/observability"

	"github.com/gorilla/mux"
)

// NewRouter wires the handler's endpoints. A nil limiter disables rate limiting.
func NewRouter(h *Handler, limiter *RateLimiter) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", Health).Methods(http.MethodGet)
	r.Handle("/metrics", observability.Handler()).Methods(http.MethodGet)

	v1 := r.PathPrefix("/v1").Subrouter()
	if limiter != nil {
		v1.Use(func(next http.Handler) http.Handler {
			return RateLimitMiddleware(limiter, next)
		})
	}
	v1.HandleFunc("/waterfall/allocate", h.Allocate).Methods(http.MethodPost)
	v1.HandleFunc("/waterfall/sweep", h.Sweep).Methods(http.MethodPost)
	v1.HandleFunc("/waterfall/attachment", h.Attachment).Methods(http.MethodPost)
	v1.HandleFunc("/waterfall/scenarios", h.ListScenarios).Methods(http.MethodGet)
	v1.HandleFunc("/waterfall/scenarios/{name}", h.GetScenario).Methods(http.MethodGet)
	v1.HandleFunc("/runs", h.ListRuns).Methods(http.MethodGet)
	return r
}

// NewServer returns an HTTP server with conservative timeouts.
func NewServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}
