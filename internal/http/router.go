package http

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/kjstillabower/aqi-dashboard/internal/observability"
)

// NewRouter wires every route. The dashboard and /api routes are rate limited and carry a
// request deadline; /health and /metrics are not. Routes are registered on the top-level
// router with full paths so a wrong method answers 405 rather than 404.
func NewRouter(h *Handler, limiter *rate.Limiter, requestTimeout time.Duration, logger *zap.Logger) *mux.Router {
	limited := func(f http.HandlerFunc) http.Handler {
		return RateLimitMiddleware(limiter)(TimeoutMiddleware(requestTimeout)(f))
	}

	router := mux.NewRouter()
	router.Use(CorrelationIDMiddleware(logger))
	router.Use(MetricsMiddleware)
	router.HandleFunc("/health", h.GetHealth).Methods("GET")
	router.Handle("/metrics", observability.MetricsHandler()).Methods("GET")
	router.Handle("/", limited(h.GetDashboard)).Methods("GET")
	router.Handle("/api/predict", limited(h.PostPredict)).Methods("POST")
	router.Handle("/api/options", limited(h.GetOptions)).Methods("GET")
	return router
}
