package workflows

import (
	"context"
	"errors"
	"fmt"

	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	"github.com/Apurer/go-inventory-dashboard/internal/domains/orders/domain"
	"github.com/Apurer/go-inventory-dashboard/internal/domains/orders/ports"
	orderactivities "github.com/Apurer/go-inventory-dashboard/internal/platform/temporal/activities/orders"
	orderworkflows "github.com/Apurer/go-inventory-dashboard/internal/platform/temporal/workflows/orders"
)

var (
	_ ports.ArchiveOrchestrator = (*TemporalArchiveWorkflows)(nil)
	_ ports.ArchiveOrchestrator = (*InlineArchiveWorkflows)(nil)
)

// TemporalArchiveWorkflows starts order archival workflows on a Temporal cluster.
type TemporalArchiveWorkflows struct {
	client    client.Client
	taskQueue string
}

// NewTemporalArchiveWorkflows wires a Temporal client into the orchestrator.
func NewTemporalArchiveWorkflows(c client.Client) *TemporalArchiveWorkflows {
	return &TemporalArchiveWorkflows{client: c, taskQueue: orderworkflows.ArchivalTaskQueue}
}

// ArchiveOrder starts the archival workflow and waits for its result. A call
// for an order whose workflow is still running attaches to that run.
func (o *TemporalArchiveWorkflows) ArchiveOrder(ctx context.Context, orderID int64) (*domain.ArchiveResult, error) {
	if o == nil || o.client == nil {
		return nil, errors.New("temporal archive workflows not configured")
	}
	workflowID := ArchiveWorkflowID(orderID)
	options := client.StartWorkflowOptions{
		ID:                                       workflowID,
		TaskQueue:                                o.taskQueue,
		WorkflowExecutionErrorWhenAlreadyStarted: true,
	}
	run, err := o.client.ExecuteWorkflow(
		ctx,
		options,
		orderworkflows.ArchiveAndDeleteWorkflowName,
		orderworkflows.ArchiveAndDeleteWorkflowInput{OrderID: orderID, TraceID: workflowTraceID(ctx)},
	)
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if !errors.As(err, &alreadyStarted) {
			return nil, err
		}
		run = o.client.GetWorkflow(ctx, workflowID, alreadyStarted.RunId)
	}
	var result domain.ArchiveResult
	if err := run.Get(ctx, &result); err != nil {
		return orderactivities.FromApplicationError(err)
	}
	return &result, nil
}

// InlineArchiveWorkflows executes the service directly without Temporal, useful for tests or dev fallbacks.
type InlineArchiveWorkflows struct {
	service ports.Service
}

// NewInlineArchiveWorkflows wraps the orders service for synchronous execution.
func NewInlineArchiveWorkflows(service ports.Service) *InlineArchiveWorkflows {
	return &InlineArchiveWorkflows{service: service}
}

// ArchiveOrder delegates to the application service without durable orchestration.
func (o *InlineArchiveWorkflows) ArchiveOrder(ctx context.Context, orderID int64) (*domain.ArchiveResult, error) {
	if o == nil || o.service == nil {
		return nil, errors.New("inline archive workflows not configured")
	}
	return o.service.ArchiveAndDeleteOrder(ctx, orderID)
}

// ArchiveWorkflowID is the workflow ID used for an order, allowing one in-flight archival per order.
func ArchiveWorkflowID(orderID int64) string {
	return fmt.Sprintf("order-archive-%d", orderID)
}

func workflowTraceID(ctx context.Context) string {
	spanCtx := oteltrace.SpanFromContext(ctx).SpanContext()
	if !spanCtx.IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}
