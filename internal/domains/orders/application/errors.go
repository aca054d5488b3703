package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/go-inventory-dashboard/internal/domains/orders/domain"
	"github.com/Apurer/go-inventory-dashboard/internal/domains/orders/ports"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid order input")
	// ErrArchivalFailed signals the archive record could not be written; nothing was deleted.
	ErrArchivalFailed = errors.New("order archival failed")
	// ErrIntegrityViolation signals dependent rows remained after their delete statement.
	ErrIntegrityViolation = errors.New("order integrity violation")
	// ErrPartialFailure signals the archive was written but the relational delete did not commit.
	ErrPartialFailure = errors.New("order archived but not deleted")
)

// PartialFailureError reports an archive record that exists for an order that
// is still present in the relational store. It matches ErrPartialFailure and
// the relational cause.
type PartialFailureError struct {
	OrderID   int64
	ArchiveID string
	Err       error
}

func (e *PartialFailureError) Error() string {
	return fmt.Sprintf("%s: order %d archive %s: %v", ErrPartialFailure, e.OrderID, e.ArchiveID, e.Err)
}

func (e *PartialFailureError) Unwrap() []error {
	return []error{ErrPartialFailure, e.Err}
}

// Outcome names the result of an archive-then-delete for callers that render
// or transport it.
type Outcome string

const (
	OutcomeDeleted            Outcome = "deleted"
	OutcomeNotFound           Outcome = "not-found"
	OutcomeArchivalFailed     Outcome = "archival-failed"
	OutcomePartialFailure     Outcome = "partial-failure"
	OutcomeIntegrityViolation Outcome = "integrity-violation"
	OutcomeStoreUnavailable   Outcome = "store-unavailable"
	OutcomeInvalidInput       Outcome = "invalid-input"
	OutcomeFailed             Outcome = "failed"
)

// OutcomeOf classifies err. Partial failure wins over its cause, and archival
// failure wins over the store error that caused it.
func OutcomeOf(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeDeleted
	case errors.Is(err, ErrPartialFailure):
		return OutcomePartialFailure
	case errors.Is(err, ErrArchivalFailed):
		return OutcomeArchivalFailed
	case errors.Is(err, ports.ErrNotFound):
		return OutcomeNotFound
	case errors.Is(err, ErrIntegrityViolation):
		return OutcomeIntegrityViolation
	case errors.Is(err, ErrInvalidInput):
		return OutcomeInvalidInput
	case errors.Is(err, ports.ErrStoreUnavailable):
		return OutcomeStoreUnavailable
	default:
		return OutcomeFailed
	}
}

// SentinelFor returns the error matching an outcome, or nil for OutcomeDeleted.
func SentinelFor(outcome Outcome) error {
	switch outcome {
	case OutcomeDeleted:
		return nil
	case OutcomeNotFound:
		return ports.ErrNotFound
	case OutcomeArchivalFailed:
		return ErrArchivalFailed
	case OutcomePartialFailure:
		return ErrPartialFailure
	case OutcomeIntegrityViolation:
		return ErrIntegrityViolation
	case OutcomeStoreUnavailable:
		return ports.ErrStoreUnavailable
	case OutcomeInvalidInput:
		return ErrInvalidInput
	default:
		return errors.New("order operation failed")
	}
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrInvalidOrderID) ||
		errors.Is(err, domain.ErrInvalidSupplierID) ||
		errors.Is(err, domain.ErrInvalidItemID) ||
		errors.Is(err, domain.ErrInvalidProductID) ||
		errors.Is(err, domain.ErrInvalidQuantity) ||
		errors.Is(err, domain.ErrInvalidPrice) ||
		errors.Is(err, domain.ErrInvalidStatus) ||
		errors.Is(err, domain.ErrInvalidDate) ||
		errors.Is(err, domain.ErrMissingDate) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
