package orders

import (
	"context"
	"errors"
	"fmt"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"github.com/Apurer/go-inventory-dashboard/internal/domains/orders/application"
	"github.com/Apurer/go-inventory-dashboard/internal/domains/orders/domain"
	"github.com/Apurer/go-inventory-dashboard/internal/domains/orders/ports"
)

// ArchiveAndDeleteActivityName archives an order and deletes it from the relational store.
const ArchiveAndDeleteActivityName = "orders.activities.ArchiveAndDelete"

// ArchiveAndDeleteInput identifies the order to archive.
type ArchiveAndDeleteInput struct {
	OrderID int64
}

// Activities groups activities that operate on the orders bounded context.
type Activities struct {
	service ports.Service
}

// NewActivities wires the orders service into the Temporal activities bundle.
func NewActivities(service ports.Service) *Activities {
	return &Activities{service: service}
}

// ArchiveAndDelete runs the archive-then-delete for one order. Failures are
// returned as non-retryable application errors typed by outcome; the
// coordinator already retried whatever was safe to retry.
func (a *Activities) ArchiveAndDelete(ctx context.Context, input ArchiveAndDeleteInput) (*domain.ArchiveResult, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		logger.Error("order archive activity not initialized", "orderId", input.OrderID)
		return nil, errors.New("order archive activity not initialized")
	}
	logger.Info("ArchiveAndDelete activity started", "orderId", input.OrderID)
	result, err := a.service.ArchiveAndDeleteOrder(ctx, input.OrderID)
	if err != nil {
		outcome := application.OutcomeOf(err)
		logger.Error("ArchiveAndDelete activity failed", "orderId", input.OrderID, "outcome", string(outcome), "error", err)
		return nil, ToApplicationError(err, result)
	}
	logger.Info("ArchiveAndDelete activity completed", "orderId", input.OrderID, "archiveId", result.ArchiveID)
	return result, nil
}

// ToApplicationError converts an archive failure into the error carried across
// the workflow boundary. The error type is the outcome name and the result,
// populated on partial failure, travels as the single detail.
func ToApplicationError(err error, result *domain.ArchiveResult) error {
	outcome := application.OutcomeOf(err)
	message := err.Error()
	var partial *application.PartialFailureError
	if errors.As(err, &partial) && partial.Err != nil {
		message = partial.Err.Error()
		if result == nil {
			result = &domain.ArchiveResult{OrderID: partial.OrderID, ArchiveID: partial.ArchiveID}
		}
	}
	if result == nil {
		result = &domain.ArchiveResult{}
	}
	return temporal.NewNonRetryableApplicationError(message, string(outcome), nil, *result)
}

// FromApplicationError maps a failure returned by the workflow back to the
// orders error taxonomy. Errors that did not originate in the activity are
// returned unchanged.
func FromApplicationError(err error) (*domain.ArchiveResult, error) {
	var appErr *temporal.ApplicationError
	if !errors.As(err, &appErr) {
		return nil, err
	}
	outcome := application.Outcome(appErr.Type())
	var result domain.ArchiveResult
	detailsErr := errors.New("archive result missing")
	if appErr.HasDetails() {
		detailsErr = appErr.Details(&result)
	}
	switch outcome {
	case application.OutcomePartialFailure:
		cause := errors.New(appErr.Message())
		if detailsErr != nil {
			cause = errors.Join(cause, fmt.Errorf("decode archive result: %w", detailsErr))
		}
		return &result, &application.PartialFailureError{
			OrderID:   result.OrderID,
			ArchiveID: result.ArchiveID,
			Err:       cause,
		}
	case application.OutcomeNotFound,
		application.OutcomeArchivalFailed,
		application.OutcomeIntegrityViolation,
		application.OutcomeStoreUnavailable,
		application.OutcomeInvalidInput:
		return nil, &remoteError{sentinel: application.SentinelFor(outcome), message: appErr.Message()}
	default:
		return nil, err
	}
}

// remoteError keeps the activity's message while matching the outcome sentinel.
type remoteError struct {
	sentinel error
	message  string
}

func (e *remoteError) Error() string { return e.message }

func (e *remoteError) Unwrap() error { return e.sentinel }
