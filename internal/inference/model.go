package inference

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Regressor is a fitted model producing one scalar per scaled row.
// Implementations are read-only after construction.
type Regressor interface {
	Predict(x mat.Vector) (float64, error)
	NumFeatures() int
}

// LinearModel is intercept + coefficients·x.
type LinearModel struct {
	intercept float64
	coef      *mat.VecDense
}

// NewLinearModel returns a linear regressor.
func NewLinearModel(intercept float64, coefficients []float64) (*LinearModel, error) {
	if len(coefficients) == 0 {
		return nil, errors.New("linear model: no coefficients")
	}
	return &LinearModel{
		intercept: intercept,
		coef:      mat.NewVecDense(len(coefficients), append([]float64(nil), coefficients...)),
	}, nil
}

// NumFeatures implements Regressor.
func (m *LinearModel) NumFeatures() int {
	return m.coef.Len()
}

// Predict implements Regressor.
func (m *LinearModel) Predict(x mat.Vector) (float64, error) {
	if x.Len() != m.coef.Len() {
		return 0, fmt.Errorf("linear model expects %d features, got %d: %w", m.coef.Len(), x.Len(), ErrFeatureSchemaMismatch)
	}
	return m.intercept + mat.Dot(m.coef, x), nil
}
