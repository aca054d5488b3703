package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Apurer/go-inventory-dashboard/internal/domains/orders/domain"
	"github.com/Apurer/go-inventory-dashboard/internal/domains/orders/ports"
	"github.com/Apurer/go-inventory-dashboard/internal/platform/retry"
)

// Service orchestrates the orders bounded context use cases.
type Service struct {
	repo        ports.Repository
	store       ports.RelationalStore
	archive     ports.ArchiveStore
	coordinator *Coordinator
	events      ports.EventPublisher
	logger      *slog.Logger
	policy      retry.Policy
	coordOpts   []CoordinatorOption
}

// Option customises the Service.
type Option func(*Service)

// WithEventPublisher announces committed deletions. Publishing is best effort.
func WithEventPublisher(events ports.EventPublisher) Option {
	return func(s *Service) {
		s.events = events
	}
}

// WithLogger sets the logger for the service and its coordinator.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithStorePolicy bounds every store call made by the service.
func WithStorePolicy(policy retry.Policy) Option {
	return func(s *Service) {
		s.policy = policy
	}
}

// WithCoordinatorOptions customises the archive coordinator. They are applied
// after the service-level logger and store policy.
func WithCoordinatorOptions(opts ...CoordinatorOption) Option {
	return func(s *Service) {
		s.coordOpts = append(s.coordOpts, opts...)
	}
}

// NewService wires the orders service with its dependencies.
func NewService(repo ports.Repository, store ports.RelationalStore, archive ports.ArchiveStore, opts ...Option) *Service {
	s := &Service{repo: repo, store: store, archive: archive, policy: retry.DefaultPolicy()}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	coordOpts := append([]CoordinatorOption{WithRetryPolicy(s.policy), WithCoordinatorLogger(s.logger)}, s.coordOpts...)
	s.coordinator = NewCoordinator(store, archive, coordOpts...)
	return s
}

// PlaceOrder validates and inserts an order with its items and shipments.
func (s *Service) PlaceOrder(ctx context.Context, input ports.PlaceOrderInput) (*domain.OrderClosure, error) {
	order, err := domain.NewOrder(input.SupplierID, input.OrderDate, input.Status)
	if err != nil {
		return nil, mapError(err)
	}
	closure := &domain.OrderClosure{Order: *order}
	for _, in := range input.Items {
		item, err := domain.NewOrderItem(in.ProductID, in.Quantity, in.Price)
		if err != nil {
			return nil, mapError(err)
		}
		closure.Items = append(closure.Items, *item)
	}
	for _, in := range input.Shipments {
		shipment, err := domain.NewShipment(in.ShipmentDate, in.TrackingNumber)
		if err != nil {
			return nil, mapError(err)
		}
		closure.Shipments = append(closure.Shipments, *shipment)
	}
	callCtx, cancel := s.policy.CallContext(ctx)
	defer cancel()
	saved, err := s.repo.Insert(callCtx, closure)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// GetOrder loads an order with its items and shipments.
func (s *Service) GetOrder(ctx context.Context, orderID int64) (*domain.OrderClosure, error) {
	if orderID <= 0 {
		return nil, mapError(domain.ErrInvalidOrderID)
	}
	var rows *closureRows
	err := s.policy.Do(ctx, isTransient, func(ctx context.Context) error {
		var err error
		rows, err = loadClosure(ctx, s.store, orderID, false, s.policy.CallContext)
		return err
	})
	if err != nil {
		return nil, mapError(err)
	}
	closure, err := rows.toDomain()
	if err != nil {
		return nil, err
	}
	return closure, nil
}

// UpdateOrderStatus changes the status of an existing order.
func (s *Service) UpdateOrderStatus(ctx context.Context, orderID int64, status domain.Status) (*domain.OrderClosure, error) {
	if orderID <= 0 {
		return nil, mapError(domain.ErrInvalidOrderID)
	}
	if !domain.IsValidStatus(status) {
		return nil, mapError(domain.ErrInvalidStatus)
	}
	return s.applyUpdate(ctx, orderID, updateOrderStatus(orderID, status), selectOrder(orderID),
		fmt.Sprintf("order %d", orderID))
}

// UpdateOrderDetails replaces the supplier, order date and status of an
// existing order.
func (s *Service) UpdateOrderDetails(ctx context.Context, orderID int64, input ports.OrderDetailsInput) (*domain.OrderClosure, error) {
	if orderID <= 0 {
		return nil, mapError(domain.ErrInvalidOrderID)
	}
	order, err := domain.NewOrder(input.SupplierID, input.OrderDate, input.Status)
	if err != nil {
		return nil, mapError(err)
	}
	return s.applyUpdate(ctx, orderID, updateOrderDetails(orderID, order), selectOrder(orderID),
		fmt.Sprintf("order %d", orderID))
}

// UpdateOrderItem replaces the product, quantity and price of one line of an
// order. The line must belong to orderID.
func (s *Service) UpdateOrderItem(ctx context.Context, orderID, orderItemID int64, input ports.OrderItemInput) (*domain.OrderClosure, error) {
	if orderID <= 0 {
		return nil, mapError(domain.ErrInvalidOrderID)
	}
	if orderItemID <= 0 {
		return nil, mapError(domain.ErrInvalidItemID)
	}
	item, err := domain.NewOrderItem(input.ProductID, input.Quantity, input.Price)
	if err != nil {
		return nil, mapError(err)
	}
	return s.applyUpdate(ctx, orderID, updateOrderItem(orderID, orderItemID, item), selectOrderItem(orderID, orderItemID),
		fmt.Sprintf("order item %d of order %d", orderItemID, orderID))
}

// applyUpdate runs stmt and reloads the order in one transaction. When no row
// was affected, exists decides between an unchanged row and ports.ErrNotFound,
// since MySQL reports changed rather than matched rows.
func (s *Service) applyUpdate(ctx context.Context, orderID int64, stmt, exists ports.Statement, target string) (*domain.OrderClosure, error) {
	var rows *closureRows
	err := s.store.ExecuteInTransaction(ctx,
		func(ctx context.Context, tx ports.Tx) error {
			callCtx, cancel := s.policy.CallContext(ctx)
			defer cancel()
			affected, err := tx.Exec(callCtx, stmt)
			if err != nil {
				return err
			}
			if affected > 0 {
				return nil
			}
			found, err := tx.Read(callCtx, exists)
			if err != nil {
				return err
			}
			if len(found) == 0 {
				return fmt.Errorf("%w: %s", ports.ErrNotFound, target)
			}
			return nil
		},
		func(ctx context.Context, tx ports.Tx) error {
			var err error
			rows, err = loadClosure(ctx, tx, orderID, false, s.policy.CallContext)
			return err
		},
	)
	if err != nil {
		return nil, mapError(err)
	}
	return rows.toDomain()
}

// ArchiveAndDeleteOrder archives the order's rows and removes them from the
// relational store. A committed deletion is announced to the event publisher.
func (s *Service) ArchiveAndDeleteOrder(ctx context.Context, orderID int64) (*domain.ArchiveResult, error) {
	result, err := s.coordinator.ArchiveAndDeleteOrder(ctx, orderID)
	if err != nil {
		return result, err
	}
	s.publishArchived(ctx, result)
	return result, nil
}

// ListArchives returns the archive records written for an order.
func (s *Service) ListArchives(ctx context.Context, orderID int64) ([]domain.ArchivedOrderRecord, error) {
	if orderID <= 0 {
		return nil, mapError(domain.ErrInvalidOrderID)
	}
	var records []domain.ArchivedOrderRecord
	err := s.policy.Do(ctx, isTransient, func(ctx context.Context) error {
		callCtx, cancel := s.policy.CallContext(ctx)
		defer cancel()
		var err error
		records, err = s.archive.FindByOrderID(callCtx, orderID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (s *Service) publishArchived(ctx context.Context, result *domain.ArchiveResult) {
	if s.events == nil || result == nil {
		return
	}
	callCtx, cancel := s.policy.CallContext(ctx)
	defer cancel()
	if err := s.events.PublishOrderArchived(callCtx, result.Event()); err != nil && s.logger != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "failed to publish order archived event",
			slog.Int64("order.id", result.OrderID),
			slog.String("archive.id", result.ArchiveID),
			slog.String("error", err.Error()))
	}
}

var _ ports.Service = (*Service)(nil)
