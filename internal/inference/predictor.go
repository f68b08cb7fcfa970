package inference

import (
	"fmt"

	"github.com/kjstillabower/aqi-dashboard/internal/features"
)

// Predictor chains the fitted scaler and model. It holds no mutable state.
type Predictor struct {
	scaler *StandardScaler
	model  Regressor
}

// NewPredictor pairs a scaler and a model; both must agree on the row width.
func NewPredictor(scaler *StandardScaler, model Regressor) (*Predictor, error) {
	if scaler.Width() != model.NumFeatures() {
		return nil, fmt.Errorf("scaler width %d, model width %d: %w", scaler.Width(), model.NumFeatures(), ErrFeatureSchemaMismatch)
	}
	return &Predictor{scaler: scaler, model: model}, nil
}

// Width returns the row width the predictor accepts.
func (p *Predictor) Width() int {
	return p.scaler.Width()
}

// Predict scales the row and returns the model's scalar AQI.
func (p *Predictor) Predict(v features.Vector) (float64, error) {
	x, err := p.scaler.Transform(v.Values())
	if err != nil {
		return 0, fmt.Errorf("scale: %w", err)
	}
	y, err := p.model.Predict(x)
	if err != nil {
		return 0, fmt.Errorf("model: %w", err)
	}
	return y, nil
}
