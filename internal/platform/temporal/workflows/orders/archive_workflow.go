package orders

import (
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/go-inventory-dashboard/internal/domains/orders/domain"
	orderactivities "github.com/Apurer/go-inventory-dashboard/internal/platform/temporal/activities/orders"
	"github.com/Apurer/go-inventory-dashboard/internal/platform/temporal/sequences"
)

const (
	// ArchiveAndDeleteWorkflowName is the public identifier for registering the workflow.
	ArchiveAndDeleteWorkflowName = "orders.workflows.ArchiveAndDelete"
	// ArchivalTaskQueue is the queue consumed by the worker processing order archival.
	ArchivalTaskQueue = "ORDER_ARCHIVAL"
)

// ArchiveAndDeleteWorkflowInput identifies the order to archive.
type ArchiveAndDeleteWorkflowInput struct {
	OrderID int64
	TraceID string
}

// ArchiveAndDeleteWorkflow archives an order and removes it from the relational store.
func ArchiveAndDeleteWorkflow(ctx workflow.Context, input ArchiveAndDeleteWorkflowInput) (*domain.ArchiveResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("ArchiveAndDeleteWorkflow started", withTraceID(input.TraceID, "orderId", input.OrderID)...)
	result, err := sequences.RunOrderArchiveSequence(ctx, orderactivities.ArchiveAndDeleteInput{OrderID: input.OrderID})
	if err != nil {
		logger.Error("ArchiveAndDeleteWorkflow failed", withTraceID(input.TraceID, "orderId", input.OrderID, "error", err)...)
		return nil, err
	}
	logger.Info("ArchiveAndDeleteWorkflow completed", withTraceID(input.TraceID, "orderId", input.OrderID, "archiveId", result.ArchiveID)...)
	return result, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
