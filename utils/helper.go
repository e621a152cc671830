package utils

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// DereferencePtr returns the pointed-to value, or the zero value (or the
// optional default) when the pointer is nil.
func DereferencePtr[T any](ptr *T, def ...T) T {
	if ptr != nil {
		return *ptr
	}
	if len(def) > 0 {
		return def[0]
	}
	var zero T
	return zero
}

// QuarterKey buckets a date as "2024-Q1". Keys sort lexically in time order.
func QuarterKey(t time.Time) string {
	quarter := (int(t.Month())-1)/3 + 1
	return fmt.Sprintf("%d-Q%d", t.Year(), quarter)
}

// WithinDays reports whether two dates fall inside the given tolerance window.
// Two nil dates count as matching; one-sided nil does not.
func WithinDays(a, b *time.Time, days int) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	diff := a.Sub(*b)
	if diff < 0 {
		diff = -diff
	}
	return diff <= time.Duration(days)*24*time.Hour
}

func ProcessValidationErrors(err error) map[string]string {
	validationErrors := err.(validator.ValidationErrors)

	errorResponse := make(map[string]string)
	for _, ve := range validationErrors {
		errorResponse[ve.Field()] = ve.Tag()
	}
	return errorResponse
}
