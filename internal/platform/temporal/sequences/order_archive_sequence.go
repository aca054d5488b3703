package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/go-inventory-dashboard/internal/domains/orders/domain"
	orderactivities "github.com/Apurer/go-inventory-dashboard/internal/platform/temporal/activities/orders"
)

// RunOrderArchiveSequence executes the archive-then-delete activity exactly once.
// Retries happen inside the coordinator, which knows which failures are safe to repeat.
func RunOrderArchiveSequence(ctx workflow.Context, input orderactivities.ArchiveAndDeleteInput) (*domain.ArchiveResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("order archive sequence started", "orderId", input.OrderID)
	options := workflow.ActivityOptions{
		StartToCloseTimeout: 2 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 1,
		},
	}

	var result domain.ArchiveResult
	err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, options), orderactivities.ArchiveAndDeleteActivityName, input).Get(ctx, &result)
	if err != nil {
		logger.Error("order archive sequence failed", "orderId", input.OrderID, "error", err)
		return nil, err
	}
	logger.Info("order archive sequence completed", "orderId", input.OrderID, "archiveId", result.ArchiveID)
	return &result, nil
}
