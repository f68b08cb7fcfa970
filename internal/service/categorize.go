package service

import (
	"context"
	"errors"

	"github.com/kjstillabower/aqi-dashboard/internal/features"
	"github.com/kjstillabower/aqi-dashboard/internal/inference"
	"github.com/kjstillabower/aqi-dashboard/internal/validation"
)

// ErrorCategory is a stable label for error classification in metrics.
type ErrorCategory string

// Error category constants used as the predictionErrorsTotal reason label.
const (
	ErrorCategoryUnknownCategory ErrorCategory = "unknown_category"
	ErrorCategorySchemaMismatch  ErrorCategory = "schema_mismatch"
	ErrorCategoryValidation      ErrorCategory = "validation"
	ErrorCategoryTimeout         ErrorCategory = "timeout"
	ErrorCategoryUnknown         ErrorCategory = "unknown"
)

// CategorizeError maps an error to a stable ErrorCategory for metrics.
func CategorizeError(err error) ErrorCategory {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return ErrorCategoryTimeout
	case errors.Is(err, features.ErrUnknownCategory):
		return ErrorCategoryUnknownCategory
	case errors.Is(err, inference.ErrFeatureSchemaMismatch):
		return ErrorCategorySchemaMismatch
	case errors.Is(err, validation.ErrOutOfRange),
		errors.Is(err, validation.ErrInvalidNumber),
		errors.Is(err, validation.ErrInvalidDate),
		errors.Is(err, validation.ErrInvalidTime):
		return ErrorCategoryValidation
	default:
		return ErrorCategoryUnknown
	}
}
