package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
)

// BenchmarkHandler_GetDashboard measures a full page render: features, model, chart and template.
func BenchmarkHandler_GetDashboard(b *testing.B) {
	h := newTestHandler(b, newPM25Service(b), nil, zap.NewNop())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		req := httptest.NewRequest("GET", "/?city=Mumbai&pm25=180", nil)
		w := httptest.NewRecorder()
		h.GetDashboard(w, req)
		if w.Code != http.StatusOK {
			b.Fatalf("status = %d", w.Code)
		}
	}
}

// BenchmarkHandler_PostPredict measures the JSON path without chart rendering.
func BenchmarkHandler_PostPredict(b *testing.B) {
	h := newTestHandler(b, newPM25Service(b), nil, zap.NewNop())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		req := httptest.NewRequest("POST", "/api/predict", strings.NewReader(validPredictBody))
		w := httptest.NewRecorder()
		h.PostPredict(w, req)
		if w.Code != http.StatusOK {
			b.Fatalf("status = %d", w.Code)
		}
	}
}

func BenchmarkHandler_GetHealth(b *testing.B) {
	h := newTestHandler(b, newPM25Service(b), nil, zap.NewNop())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w := httptest.NewRecorder()
		h.GetHealth(w, httptest.NewRequest("GET", "/health", nil))
	}
}
