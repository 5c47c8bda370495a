package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrTransport     = errors.New("transport failure")
	ErrEmptyResult   = errors.New("empty result")
	ErrDecode        = errors.New("unexpected response shape")
	ErrCache         = errors.New("cache failure")
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
)

// Wrap builds an error message that includes provider context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrTransport
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// FailureKind returns a short label for the marker carried by err, suitable
// for structured log fields.
func FailureKind(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ErrEmptyResult):
		return "empty_result"
	case errors.Is(err, ErrDecode):
		return "decode"
	case errors.Is(err, ErrCache):
		return "cache"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	default:
		return "transport"
	}
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "provider failure"
	}
	return strings.Join(parts, ": ")
}
