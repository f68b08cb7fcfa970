//go:build integration
// +build integration

package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/kjstillabower/aqi-dashboard/internal/aqi"
	"github.com/kjstillabower/aqi-dashboard/internal/artifacts"
	"github.com/kjstillabower/aqi-dashboard/internal/dashboard"
	"github.com/kjstillabower/aqi-dashboard/internal/models"
	"github.com/kjstillabower/aqi-dashboard/internal/service"
	"github.com/kjstillabower/aqi-dashboard/internal/validation"
)

// shippedArtifacts is the sample artifact set committed at the repository root.
const shippedArtifacts = "../../models"

// setupIntegrationRouter wires the shipped artifacts into the same router layout as main.
func setupIntegrationRouter(t *testing.T, limiter *rate.Limiter) (http.Handler, *artifacts.Bundle) {
	t.Helper()
	bundle, err := artifacts.Load(shippedArtifacts)
	if err != nil {
		t.Fatalf("load artifacts: %v", err)
	}
	renderer, err := dashboard.NewRenderer()
	if err != nil {
		t.Fatal(err)
	}
	vocab := validation.Vocabulary{Cities: bundle.CityEncoder.Classes(), Locations: bundle.LocationEncoder.Classes()}
	svc := service.NewPredictionService(bundle.Builder, bundle.Predictor)
	handler := NewHandler(svc, vocab, bundle.ModelType, renderer, "Air Quality Index Prediction", nil, zap.NewNop())

	router := NewRouter(handler, limiter, 5*time.Second, zap.NewNop())
	return router, bundle
}

func TestIntegration_DashboardWithShippedArtifacts(t *testing.T) {
	router, bundle := setupIntegrationRouter(t, nil)

	q := url.Values{}
	q.Set("city", bundle.CityEncoder.Classes()[0])
	q.Set("location", bundle.LocationEncoder.Classes()[0])
	q.Set("date", "2024-11-05")
	q.Set("time", "08:00")
	q.Set("pm25", "320")
	req := httptest.NewRequest("GET", "/?"+q.Encode(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", w.Code, w.Body.String())
	}
	body := w.Body.String()
	if !strings.Contains(body, "Pollutant Contribution Snapshot") || !strings.Contains(body, "<svg") {
		t.Error("chart missing from page")
	}
}

func TestIntegration_PredictIsDeterministic(t *testing.T) {
	router, bundle := setupIntegrationRouter(t, nil)

	body := `{"city":"` + bundle.CityEncoder.Classes()[0] + `","location":"` + bundle.LocationEncoder.Classes()[0] + `",
		"date":"2024-11-05","time":"08:00",
		"weather":{"temperature":18,"humidity":80,"pressure":1012,"windSpeed":0.5,"windDirection":300},
		"pollutants":{"pm25":320,"pm10":410,"no2":70,"so2":22,"o3":30,"co":3.5}}`

	var first models.PredictionResult
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest("POST", "/api/predict", strings.NewReader(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200; body: %s", w.Code, w.Body.String())
		}
		var got models.PredictionResult
		if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
			t.Fatal(err)
		}
		if want := aqi.Categorize(got.AQI).String(); got.Category != want {
			t.Errorf("category = %q, want %q for AQI %v", got.Category, want, got.AQI)
		}
		if i == 0 {
			first = got
			continue
		}
		if got.AQI != first.AQI {
			t.Errorf("prediction %d = %v, first = %v; identical inputs must give identical output", i, got.AQI, first.AQI)
		}
	}
}

func TestIntegration_ConcurrentPredictions(t *testing.T) {
	router, _ := setupIntegrationRouter(t, nil)

	var wg sync.WaitGroup
	errs := make(chan int, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))
			if w.Code != http.StatusOK {
				errs <- w.Code
			}
		}()
	}
	wg.Wait()
	close(errs)
	for code := range errs {
		t.Errorf("concurrent render status = %d, want 200", code)
	}
}

func TestIntegration_RateLimitedAPI(t *testing.T) {
	router, _ := setupIntegrationRouter(t, rate.NewLimiter(1, 1))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/api/options", nil))
		codes = append(codes, w.Code)
	}
	if codes[0] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Errorf("status codes = %v, want first 200 and last 429", codes)
	}
}
