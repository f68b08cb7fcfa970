package inference

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ErrFeatureSchemaMismatch is returned when a row's width or names disagree with
// what a fitted artifact expects.
var ErrFeatureSchemaMismatch = errors.New("feature schema mismatch")

// StandardScaler applies a fitted (x - mean) / scale transform element-wise.
type StandardScaler struct {
	mean  *mat.VecDense
	scale *mat.VecDense
}

// NewStandardScaler returns a scaler for the fitted mean and scale vectors.
// A zero scale entry (constant feature at fit time) is treated as 1.
func NewStandardScaler(mean, scale []float64) (*StandardScaler, error) {
	if len(mean) == 0 {
		return nil, errors.New("scaler: empty mean")
	}
	if len(mean) != len(scale) {
		return nil, fmt.Errorf("scaler: %d means vs %d scales: %w", len(mean), len(scale), ErrFeatureSchemaMismatch)
	}
	s := make([]float64, len(scale))
	for i, v := range scale {
		if v == 0 {
			v = 1
		}
		s[i] = v
	}
	return &StandardScaler{
		mean:  mat.NewVecDense(len(mean), append([]float64(nil), mean...)),
		scale: mat.NewVecDense(len(s), s),
	}, nil
}

// IdentityScaler returns a scaler that leaves a row of the given width unchanged.
func IdentityScaler(width int) *StandardScaler {
	ones := make([]float64, width)
	for i := range ones {
		ones[i] = 1
	}
	return &StandardScaler{
		mean:  mat.NewVecDense(width, make([]float64, width)),
		scale: mat.NewVecDense(width, ones),
	}
}

// Width returns the number of features the scaler was fitted on.
func (s *StandardScaler) Width() int {
	return s.mean.Len()
}

// Transform returns the scaled copy of row.
func (s *StandardScaler) Transform(row []float64) (*mat.VecDense, error) {
	if len(row) != s.Width() {
		return nil, fmt.Errorf("scaler expects %d features, got %d: %w", s.Width(), len(row), ErrFeatureSchemaMismatch)
	}
	x := mat.NewVecDense(len(row), append([]float64(nil), row...))
	out := mat.NewVecDense(len(row), nil)
	out.SubVec(x, s.mean)
	out.DivElemVec(out, s.scale)
	return out, nil
}
