package model

import (
	"errors"
	"fmt"
)

var (
	ErrValidation             = errors.New("invalid input")
	ErrGeolocationUnavailable = errors.New("geolocation service unavailable")
	ErrGeolocationParse       = errors.New("malformed geolocation response")
	ErrConversionFailed       = errors.New("currency conversion failed")
	ErrUnsupportedCurrency    = errors.New("unsupported currency")
)

// StatusError records the HTTP status an upstream service answered with.
// A zero StatusCode means no response was received.
type StatusError struct {
	Err        error
	StatusCode int
}

func (e *StatusError) Error() string {
	if e.StatusCode == 0 {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: status %d", e.Err, e.StatusCode)
}

func (e *StatusError) Unwrap() error {
	return e.Err
}

// ErrorCategory is the user-facing failure class of a conversion.
type ErrorCategory string

const (
	CategoryNone                   ErrorCategory = ""
	CategoryValidation             ErrorCategory = "validation_error"
	CategoryGeolocationUnavailable ErrorCategory = "geolocation_unavailable"
	CategoryGeolocationParse       ErrorCategory = "geolocation_parse_error"
	CategoryConversionFailed       ErrorCategory = "conversion_failed"
	CategoryUnsupportedCurrency    ErrorCategory = "unsupported_currency"
)

// CategoryOf classifies err. Errors outside the taxonomy count as conversion failures.
func CategoryOf(err error) ErrorCategory {
	switch {
	case err == nil:
		return CategoryNone
	case errors.Is(err, ErrValidation):
		return CategoryValidation
	case errors.Is(err, ErrUnsupportedCurrency):
		return CategoryUnsupportedCurrency
	case errors.Is(err, ErrGeolocationUnavailable):
		return CategoryGeolocationUnavailable
	case errors.Is(err, ErrGeolocationParse):
		return CategoryGeolocationParse
	default:
		return CategoryConversionFailed
	}
}

// Message renders err as the single line shown to the user for its category.
func Message(err error) string {
	switch CategoryOf(err) {
	case CategoryNone:
		return ""
	case CategoryValidation:
		return err.Error()
	case CategoryUnsupportedCurrency:
		return err.Error()
	case CategoryGeolocationUnavailable:
		var statusErr *StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode != 0 {
			return fmt.Sprintf("Could not detect your location (service returned status %d).", statusErr.StatusCode)
		}
		return "Could not detect your location: the geolocation service is unreachable."
	case CategoryGeolocationParse:
		return "Could not detect your location: the geolocation service sent an unreadable response."
	default:
		return "Failed to convert currency."
	}
}
