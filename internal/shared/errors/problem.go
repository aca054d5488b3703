// Package errors renders failures as RFC 7807 Problem Details.
package errors

import (
	"fmt"
	"net/http"
)

// ProblemDetail is an RFC 7807 Problem Details body.
// See: https://www.rfc-editor.org/rfc/rfc7807
type ProblemDetail struct {
	Type       string         `json:"type"`
	Title      string         `json:"title"`
	Status     int            `json:"status"`
	Detail     string         `json:"detail,omitempty"`
	Instance   string         `json:"instance,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

func (p ProblemDetail) Error() string {
	if p.Detail != "" {
		return fmt.Sprintf("%s: %s", p.Title, p.Detail)
	}
	return p.Title
}

// WithDetail returns a copy with the given detail message.
func (p ProblemDetail) WithDetail(detail string) ProblemDetail {
	p.Detail = detail
	return p
}

// WithInstance returns a copy with the given instance URI.
func (p ProblemDetail) WithInstance(instance string) ProblemDetail {
	p.Instance = instance
	return p
}

// WithExtension returns a copy with an additional extension property.
func (p ProblemDetail) WithExtension(key string, value any) ProblemDetail {
	ext := make(map[string]any, len(p.Extensions)+1)
	for k, v := range p.Extensions {
		ext[k] = v
	}
	ext[key] = value
	p.Extensions = ext
	return p
}

// Problem types as URI references.
const (
	TypeValidation         = "/problems/validation-error"
	TypeNotFound           = "/problems/not-found"
	TypeBadRequest         = "/problems/bad-request"
	TypeInternal           = "/problems/internal-error"
	TypeStoreUnavailable   = "/problems/store-unavailable"
	TypeArchivalFailed     = "/problems/archival-failed"
	TypePartialFailure     = "/problems/partial-failure"
	TypeIntegrityViolation = "/problems/integrity-violation"
)

var (
	ErrNotFound = ProblemDetail{
		Type:   TypeNotFound,
		Title:  "Resource Not Found",
		Status: http.StatusNotFound,
	}

	ErrValidation = ProblemDetail{
		Type:   TypeValidation,
		Title:  "Validation Error",
		Status: http.StatusBadRequest,
	}

	ErrBadRequest = ProblemDetail{
		Type:   TypeBadRequest,
		Title:  "Bad Request",
		Status: http.StatusBadRequest,
	}

	ErrInternal = ProblemDetail{
		Type:   TypeInternal,
		Title:  "Internal Server Error",
		Status: http.StatusInternalServerError,
	}

	// ErrStoreUnavailable indicates a backing store could not be reached.
	ErrStoreUnavailable = ProblemDetail{
		Type:   TypeStoreUnavailable,
		Title:  "Store Unavailable",
		Status: http.StatusServiceUnavailable,
	}

	// ErrArchivalFailed indicates the archive could not be written and nothing was deleted.
	ErrArchivalFailed = ProblemDetail{
		Type:   TypeArchivalFailed,
		Title:  "Archival Failed",
		Status: http.StatusServiceUnavailable,
	}

	// ErrPartialFailure indicates an archive exists for a record that was not deleted.
	ErrPartialFailure = ProblemDetail{
		Type:   TypePartialFailure,
		Title:  "Archived But Not Deleted",
		Status: http.StatusConflict,
	}

	// ErrIntegrityViolation indicates dependent rows survived their delete.
	ErrIntegrityViolation = ProblemDetail{
		Type:   TypeIntegrityViolation,
		Title:  "Integrity Violation",
		Status: http.StatusConflict,
	}
)

// NewValidationProblem creates a validation error with field-level details.
func NewValidationProblem(fieldErrors map[string]string) ProblemDetail {
	return ErrValidation.WithExtension("fields", fieldErrors)
}
