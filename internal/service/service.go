package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kjstillabower/aqi-dashboard/internal/aqi"
	"github.com/kjstillabower/aqi-dashboard/internal/features"
	"github.com/kjstillabower/aqi-dashboard/internal/models"
	"github.com/kjstillabower/aqi-dashboard/internal/observability"
)

// FeatureBuilder expands a request into the model's feature row.
type FeatureBuilder interface {
	Build(req models.PredictionRequest) (features.Vector, error)
}

// Predictor turns a feature row into a scalar AQI.
type Predictor interface {
	Predict(v features.Vector) (float64, error)
}

// PredictionService runs the build → scale/predict → categorize pipeline once per call.
// It holds only read-only artifacts and is safe for concurrent use.
type PredictionService struct {
	builder   FeatureBuilder
	predictor Predictor
}

// NewPredictionService creates a PredictionService over loaded artifacts.
func NewPredictionService(builder FeatureBuilder, predictor Predictor) *PredictionService {
	return &PredictionService{builder: builder, predictor: predictor}
}

// loggerFromContext extracts a zap.Logger from request context if present.
// Returns nil if logger is not found or context is invalid.
func loggerFromContext(ctx context.Context) *zap.Logger {
	if v := ctx.Value("logger"); v != nil {
		if l, ok := v.(*zap.Logger); ok && l != nil {
			return l
		}
	}
	return nil
}

// Predict assembles features for req, runs the model and categorizes the output.
// Errors are returned as-is for the caller to surface; nothing is retried.
func (s *PredictionService) Predict(ctx context.Context, req models.PredictionRequest) (models.PredictionResult, error) {
	start := time.Now()
	logger := loggerFromContext(ctx)

	if err := ctx.Err(); err != nil {
		observability.RecordPredictionError(string(CategorizeError(err)))
		return models.PredictionResult{}, err
	}

	row, err := s.builder.Build(req)
	if err != nil {
		observability.RecordPredictionError(string(CategorizeError(err)))
		if logger != nil {
			logger.Warn("feature build failed", zap.String("city", req.City), zap.String("location", req.Location), zap.Error(err))
		}
		return models.PredictionResult{}, fmt.Errorf("build features: %w", err)
	}

	value, err := s.predictor.Predict(row)
	if err != nil {
		observability.RecordPredictionError(string(CategorizeError(err)))
		if logger != nil {
			logger.Error("prediction failed", zap.Int("width", row.Len()), zap.Error(err))
		}
		return models.PredictionResult{}, fmt.Errorf("predict: %w", err)
	}

	category := aqi.Categorize(value)
	elapsed := time.Since(start)
	observability.RecordPrediction(req.City, category.MetricLabel(), value, elapsed)
	if logger != nil {
		logger.Debug("prediction served",
			zap.String("city", req.City),
			zap.String("location", req.Location),
			zap.Float64("aqi", value),
			zap.String("category", category.String()),
			zap.Duration("duration", elapsed))
	}

	return models.PredictionResult{
		City:         req.City,
		Location:     req.Location,
		Timestamp:    req.Timestamp,
		AQI:          value,
		Category:     category.String(),
		CategoryRank: category.Rank(),
		Pollutants:   req.Pollutants,
	}, nil
}
