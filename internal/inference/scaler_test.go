package inference

import (
	"errors"
	"math"
	"testing"
)

func TestStandardScaler_Transform(t *testing.T) {
	s, err := NewStandardScaler([]float64{10, 0, 5}, []float64{2, 0, 0.5})
	if err != nil {
		t.Fatalf("NewStandardScaler() error = %v", err)
	}
	out, err := s.Transform([]float64{14, 3, 4})
	if err != nil {
		t.Fatalf("Transform() error = %v", err)
	}
	// Zero scale is treated as 1.
	want := []float64{2, 3, -2}
	for i, w := range want {
		if got := out.AtVec(i); math.Abs(got-w) > 1e-12 {
			t.Errorf("out[%d] = %v, want %v", i, got, w)
		}
	}
}

func TestStandardScaler_DoesNotMutateInput(t *testing.T) {
	s, _ := NewStandardScaler([]float64{1}, []float64{2})
	row := []float64{5}
	if _, err := s.Transform(row); err != nil {
		t.Fatalf("Transform() error = %v", err)
	}
	if row[0] != 5 {
		t.Errorf("input row mutated to %v", row)
	}
}

func TestStandardScaler_WidthMismatch(t *testing.T) {
	s := IdentityScaler(3)
	if _, err := s.Transform([]float64{1, 2}); !errors.Is(err, ErrFeatureSchemaMismatch) {
		t.Errorf("Transform() error = %v, want ErrFeatureSchemaMismatch", err)
	}
	if _, err := NewStandardScaler([]float64{1, 2}, []float64{1}); !errors.Is(err, ErrFeatureSchemaMismatch) {
		t.Errorf("NewStandardScaler() error = %v, want ErrFeatureSchemaMismatch", err)
	}
}

func TestIdentityScaler(t *testing.T) {
	s := IdentityScaler(4)
	out, err := s.Transform([]float64{-1, 0, 3.5, 990})
	if err != nil {
		t.Fatalf("Transform() error = %v", err)
	}
	for i, w := range []float64{-1, 0, 3.5, 990} {
		if out.AtVec(i) != w {
			t.Errorf("out[%d] = %v, want %v", i, out.AtVec(i), w)
		}
	}
}
