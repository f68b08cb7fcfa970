package observability

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kjstillabower/aqi-dashboard/internal/traffic"
)

var (
	registry *prometheus.Registry

	// HTTP request rate. Watch for: sudden drops (service down) or spikes (traffic surge).
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTP request latency per request. Watch for: p95/p99 latency increases.
	HTTPRequestDuration *prometheus.HistogramVec

	// Concurrent requests in flight. Watch for: saturation.
	HTTPRequestsInFlight prometheus.Gauge

	// Rate limit denials. Watch for: overload, capacity exceeded.
	RateLimitDeniedTotal prometheus.Counter

	// Predictions served per AQI category.
	PredictionsTotal *prometheus.CounterVec

	// Failed predictions by reason. Any schema_mismatch means artifact drift.
	PredictionErrorsTotal *prometheus.CounterVec

	// Feature build + scale + model latency. Dominated by model inference.
	PredictionDuration prometheus.Histogram

	// Per-city prediction count (allow-list; others go to "other").
	PredictionsByCityTotal *prometheus.CounterVec

	// Last predicted AQI value, for a quick glance on dashboards.
	LastPredictedAQI prometheus.Gauge

	// 1 when an artifact is loaded. Set once at startup.
	ArtifactsLoaded *prometheus.GaugeVec

	trackedCitiesMu sync.RWMutex
	trackedCities   map[string]struct{}

	rateLimitGaugesOnce sync.Once
)

func init() {
	registry = prometheus.NewRegistry()

	registry.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)

	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "httpRequestsTotal",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "statusCode"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "httpRequestDurationSeconds",
			Help:    "HTTP request latency in seconds (per request)",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
	HTTPRequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "httpRequestsInFlight",
			Help: "Number of HTTP requests currently being served",
		},
	)
	RateLimitDeniedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rateLimitDeniedTotal",
			Help: "Total number of requests denied by rate limiter (429)",
		},
	)
	PredictionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "predictionsTotal",
			Help: "Total number of AQI predictions by category",
		},
		[]string{"category"},
	)
	PredictionErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "predictionErrorsTotal",
			Help: "Total number of failed predictions by reason",
		},
		[]string{"reason"},
	)
	PredictionDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "predictionDurationSeconds",
			Help:    "Feature assembly and model inference latency in seconds",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1},
		},
	)
	PredictionsByCityTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "predictionsByCityTotal",
			Help: "Predictions by city (allow-list; others use city=other)",
		},
		[]string{"city"},
	)
	LastPredictedAQI = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "lastPredictedAqi",
			Help: "Most recent predicted AQI value",
		},
	)
	ArtifactsLoaded = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "artifactsLoaded",
			Help: "1 when the named model artifact is loaded",
		},
		[]string{"artifact"},
	)

	registry.MustRegister(
		HTTPRequestsTotal, HTTPRequestDuration, HTTPRequestsInFlight,
		RateLimitDeniedTotal,
		PredictionsTotal, PredictionErrorsTotal, PredictionDuration,
		PredictionsByCityTotal, LastPredictedAQI, ArtifactsLoaded,
	)
}

// RegisterRateLimitGauges registers load and rejects gauges for the rate-limited path.
// Call from main after config load with cfg.OverloadWindow. Uses same window as lifecycle.
func RegisterRateLimitGauges(window time.Duration) {
	rateLimitGaugesOnce.Do(func() {
		registry.MustRegister(
			prometheus.NewGaugeFunc(
				prometheus.GaugeOpts{
					Name: "rateLimitRequestsInWindow",
					Help: "Requests hitting rate-limited path in sliding window; load/capacity planning",
				},
				func() float64 { return float64(traffic.RequestCount(window)) },
			),
			prometheus.NewGaugeFunc(
				prometheus.GaugeOpts{
					Name: "rateLimitRejectsInWindow",
					Help: "429 responses in sliding window; are we rejecting requests",
				},
				func() float64 { return float64(traffic.DenialCount(window)) },
			),
		)
	})
}

// SetTrackedCities sets the allow-list for city metrics. Non-tracked cities increment "other".
func SetTrackedCities(cities []string) {
	trackedCitiesMu.Lock()
	defer trackedCitiesMu.Unlock()
	trackedCities = make(map[string]struct{}, len(cities))
	for _, c := range cities {
		trackedCities[normalizeCityForMetrics(c)] = struct{}{}
	}
}

// RecordPrediction records a successful prediction.
func RecordPrediction(city, category string, aqi float64, d time.Duration) {
	PredictionsTotal.WithLabelValues(category).Inc()
	PredictionDuration.Observe(d.Seconds())
	LastPredictedAQI.Set(aqi)
	PredictionsByCityTotal.WithLabelValues(MetricCityLabel(city)).Inc()
}

// RecordPredictionError records a failed prediction under a stable reason label.
func RecordPredictionError(reason string) {
	PredictionErrorsTotal.WithLabelValues(reason).Inc()
}

// MetricCityLabel returns the normalized city when tracked, otherwise "other".
func MetricCityLabel(city string) string {
	c := normalizeCityForMetrics(city)
	trackedCitiesMu.RLock()
	_, ok := trackedCities[c] // nil map read is safe in Go
	trackedCitiesMu.RUnlock()
	if ok {
		return c
	}
	return "other"
}

func normalizeCityForMetrics(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return s
}

// MetricsHandler returns an http.Handler that serves application and runtime metrics.
func MetricsHandler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
