package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/kjstillabower/aqi-dashboard/internal/features"
	"github.com/kjstillabower/aqi-dashboard/internal/inference"
	"github.com/kjstillabower/aqi-dashboard/internal/validation"
)

// TestCategorizeError verifies that CategorizeError maps errors to the correct ErrorCategory
// for metrics labeling, including wrapped sentinels.
func TestCategorizeError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCategory
	}{
		{"nil", nil, ""},
		{"deadline", context.DeadlineExceeded, ErrorCategoryTimeout},
		{"canceled", context.Canceled, ErrorCategoryTimeout},
		{"unknown category", fmt.Errorf("build features: %w", features.ErrUnknownCategory), ErrorCategoryUnknownCategory},
		{"schema mismatch", fmt.Errorf("predict: %w", inference.ErrFeatureSchemaMismatch), ErrorCategorySchemaMismatch},
		{"out of range", validation.ErrOutOfRange, ErrorCategoryValidation},
		{"bad number", validation.ErrInvalidNumber, ErrorCategoryValidation},
		{"bad date", validation.ErrInvalidDate, ErrorCategoryValidation},
		{"bad time", validation.ErrInvalidTime, ErrorCategoryValidation},
		{"other", errors.New("boom"), ErrorCategoryUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CategorizeError(tt.err); got != tt.want {
				t.Errorf("CategorizeError() = %v, want %v", got, tt.want)
			}
		})
	}
}
