package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Apurer/go-inventory-dashboard/internal/domains/orders/application"
	"github.com/Apurer/go-inventory-dashboard/internal/domains/orders/domain"
	"github.com/Apurer/go-inventory-dashboard/internal/domains/orders/ports"
)

const tracerName = "github.com/Apurer/go-inventory-dashboard/internal/domains/orders/adapters/observability/service"

// Service decorates the orders service with tracing, logging, and metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core orders service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) PlaceOrder(ctx context.Context, input ports.PlaceOrderInput) (*domain.OrderClosure, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.PlaceOrder",
		trace.WithAttributes(attribute.Int64("order.supplier_id", input.SupplierID), attribute.Int("order.items", len(input.Items))))
	defer span.End()

	s.logInfo(ctx, "placing order", slog.Int64("order.supplier_id", input.SupplierID), slog.Int("order.items", len(input.Items)))
	result, err := s.inner.PlaceOrder(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to place order", slog.Int64("order.supplier_id", input.SupplierID))
	}
	span.SetAttributes(attribute.Int64("order.id", result.Order.ID))
	s.metrics.recordPlaced(ctx, result.Order.Status)
	s.logInfo(ctx, "order placed", slog.Int64("order.id", result.Order.ID), slog.String("status", string(result.Order.Status)))
	return result, nil
}

func (s *Service) GetOrder(ctx context.Context, orderID int64) (*domain.OrderClosure, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.GetOrder", trace.WithAttributes(attribute.Int64("order.id", orderID)))
	defer span.End()

	result, err := s.inner.GetOrder(ctx, orderID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load order", slog.Int64("order.id", orderID))
	}
	return result, nil
}

func (s *Service) UpdateOrderStatus(ctx context.Context, orderID int64, status domain.Status) (*domain.OrderClosure, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.UpdateOrderStatus",
		trace.WithAttributes(attribute.Int64("order.id", orderID), attribute.String("order.status", string(status))))
	defer span.End()

	s.logInfo(ctx, "updating order status", slog.Int64("order.id", orderID), slog.String("status", string(status)))
	result, err := s.inner.UpdateOrderStatus(ctx, orderID, status)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update order status", slog.Int64("order.id", orderID))
	}
	return result, nil
}

func (s *Service) UpdateOrderDetails(ctx context.Context, orderID int64, input ports.OrderDetailsInput) (*domain.OrderClosure, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.UpdateOrderDetails",
		trace.WithAttributes(attribute.Int64("order.id", orderID), attribute.Int64("order.supplier_id", input.SupplierID)))
	defer span.End()

	s.logInfo(ctx, "updating order details", slog.Int64("order.id", orderID), slog.Int64("order.supplier_id", input.SupplierID))
	result, err := s.inner.UpdateOrderDetails(ctx, orderID, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update order details", slog.Int64("order.id", orderID))
	}
	return result, nil
}

func (s *Service) UpdateOrderItem(ctx context.Context, orderID, orderItemID int64, input ports.OrderItemInput) (*domain.OrderClosure, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.UpdateOrderItem",
		trace.WithAttributes(attribute.Int64("order.id", orderID), attribute.Int64("order.item_id", orderItemID)))
	defer span.End()

	s.logInfo(ctx, "updating order item", slog.Int64("order.id", orderID), slog.Int64("order.item_id", orderItemID))
	result, err := s.inner.UpdateOrderItem(ctx, orderID, orderItemID, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update order item",
			slog.Int64("order.id", orderID), slog.Int64("order.item_id", orderItemID))
	}
	return result, nil
}

func (s *Service) ArchiveAndDeleteOrder(ctx context.Context, orderID int64) (*domain.ArchiveResult, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.ArchiveAndDeleteOrder", trace.WithAttributes(attribute.Int64("order.id", orderID)))
	defer span.End()

	s.logInfo(ctx, "archiving and deleting order", slog.Int64("order.id", orderID))
	result, err := s.inner.ArchiveAndDeleteOrder(ctx, orderID)
	outcome := application.OutcomeOf(err)
	span.SetAttributes(attribute.String("order.archive.outcome", string(outcome)))
	if err != nil {
		s.metrics.recordFailure(ctx, outcome)
		attrs := []slog.Attr{slog.Int64("order.id", orderID), slog.String("outcome", string(outcome))}
		if result != nil {
			attrs = append(attrs, slog.String("archive.id", result.ArchiveID))
		}
		if outcome == application.OutcomeNotFound {
			s.logInfo(ctx, "order not found for archival", attrs...)
			return result, err
		}
		return result, s.handleError(ctx, span, err, "failed to archive and delete order", attrs...)
	}
	span.SetAttributes(attribute.String("order.archive.id", result.ArchiveID))
	s.metrics.recordArchived(ctx)
	s.logInfo(ctx, "order archived and deleted",
		slog.Int64("order.id", orderID),
		slog.String("archive.id", result.ArchiveID),
		slog.Int("order.items", result.OrderItems),
		slog.Int("order.shipments", result.Shipments))
	return result, nil
}

func (s *Service) ListArchives(ctx context.Context, orderID int64) ([]domain.ArchivedOrderRecord, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.ListArchives", trace.WithAttributes(attribute.Int64("order.id", orderID)))
	defer span.End()

	result, err := s.inner.ListArchives(ctx, orderID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list order archives", slog.Int64("order.id", orderID))
	}
	span.SetAttributes(attribute.Int("order.archives", len(result)))
	return result, nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

type serviceMetrics struct {
	ordersPlaced    metric.Int64Counter
	ordersArchived  metric.Int64Counter
	archiveFailures metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	ordersPlaced, _ := m.Int64Counter("orders.service.orders_placed", metric.WithDescription("Number of orders placed"))
	ordersArchived, _ := m.Int64Counter("orders.service.orders_archived", metric.WithDescription("Number of orders archived and deleted"))
	archiveFailures, _ := m.Int64Counter("orders.service.archive_failures", metric.WithDescription("Number of archive-then-delete calls that did not delete, by outcome"))
	return serviceMetrics{ordersPlaced: ordersPlaced, ordersArchived: ordersArchived, archiveFailures: archiveFailures}
}

func (m serviceMetrics) recordPlaced(ctx context.Context, status domain.Status) {
	if m.ordersPlaced != nil {
		m.ordersPlaced.Add(ctx, 1, metric.WithAttributes(attribute.String("order.status", string(status))))
	}
}

func (m serviceMetrics) recordArchived(ctx context.Context) {
	if m.ordersArchived != nil {
		m.ordersArchived.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordFailure(ctx context.Context, outcome application.Outcome) {
	if m.archiveFailures != nil {
		m.archiveFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", string(outcome))))
	}
}

var _ ports.Service = (*Service)(nil)
