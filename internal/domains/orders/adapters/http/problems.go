package http

import (
	"errors"

	"github.com/Apurer/go-inventory-dashboard/internal/domains/orders/application"
	apierrors "github.com/Apurer/go-inventory-dashboard/internal/shared/errors"
)

// ProblemFor maps orders errors to problem documents. Unclassified errors are
// left to the responder's internal-error fallback.
func ProblemFor(err error) (apierrors.ProblemDetail, bool) {
	outcome := application.OutcomeOf(err)
	var problem apierrors.ProblemDetail
	switch outcome {
	case application.OutcomeNotFound:
		problem = apierrors.ErrNotFound
	case application.OutcomeInvalidInput:
		problem = apierrors.ErrValidation
	case application.OutcomeArchivalFailed:
		problem = apierrors.ErrArchivalFailed
	case application.OutcomePartialFailure:
		problem = apierrors.ErrPartialFailure
		var partial *application.PartialFailureError
		if errors.As(err, &partial) {
			problem = problem.
				WithExtension("archiveId", partial.ArchiveID).
				WithExtension("orderId", partial.OrderID)
		}
	case application.OutcomeIntegrityViolation:
		problem = apierrors.ErrIntegrityViolation
	case application.OutcomeStoreUnavailable:
		problem = apierrors.ErrStoreUnavailable
	default:
		return apierrors.ProblemDetail{}, false
	}
	return problem.WithDetail(err.Error()).WithExtension("outcome", string(outcome)), true
}
