package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Apurer/go-inventory-dashboard/internal/domains/orders/domain"
	"github.com/Apurer/go-inventory-dashboard/internal/domains/orders/ports"
	"github.com/Apurer/go-inventory-dashboard/internal/platform/retry"
)

// Coordinator archives an order's rows to the document store and then deletes
// them from the relational store.
//
// The order row is locked as the first statement of the transaction and held
// until commit, so concurrent calls for the same order serialize and the later
// one observes ports.ErrNotFound. The archive is appended inside that window,
// before any delete runs.
type Coordinator struct {
	store   ports.RelationalStore
	archive ports.ArchiveStore
	clock   func() time.Time
	newID   ArchiveIDFunc
	policy  retry.Policy
	logger  *slog.Logger
}

// CoordinatorOption customises a Coordinator.
type CoordinatorOption func(*Coordinator)

// WithClock overrides the deletion timestamp source.
func WithClock(clock func() time.Time) CoordinatorOption {
	return func(c *Coordinator) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// ArchiveIDFunc names the archive for a locked order snapshot.
type ArchiveIDFunc func(orderID int64, order domain.Record, items, shipments []domain.Record) string

// WithArchiveIDs overrides archive id derivation. The default,
// domain.DeriveArchiveID, is deterministic per snapshot.
func WithArchiveIDs(newID ArchiveIDFunc) CoordinatorOption {
	return func(c *Coordinator) {
		if newID != nil {
			c.newID = newID
		}
	}
}

// WithRetryPolicy bounds store calls and retries of transient failures.
func WithRetryPolicy(policy retry.Policy) CoordinatorOption {
	return func(c *Coordinator) {
		c.policy = policy
	}
}

// WithCoordinatorLogger logs retries and inconsistencies.
func WithCoordinatorLogger(logger *slog.Logger) CoordinatorOption {
	return func(c *Coordinator) {
		c.logger = logger
	}
}

// NewCoordinator wires the archive-then-delete operation.
func NewCoordinator(store ports.RelationalStore, archive ports.ArchiveStore, opts ...CoordinatorOption) *Coordinator {
	c := &Coordinator{
		store:   store,
		archive: archive,
		clock:   time.Now,
		newID:   domain.DeriveArchiveID,
		policy:  retry.DefaultPolicy(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// attemptState survives across transaction attempts of one call.
type attemptState struct {
	archiveID string
	archived  bool
	result    *domain.ArchiveResult
}

// ArchiveAndDeleteOrder runs archive-then-delete for orderID.
//
// Outcomes: ports.ErrNotFound when the order does not exist (nothing written);
// ErrArchivalFailed when the archive append failed (nothing deleted);
// *PartialFailureError when the archive exists but the deletes did not commit.
// Transient relational failures before archival are retried.
func (c *Coordinator) ArchiveAndDeleteOrder(ctx context.Context, orderID int64) (*domain.ArchiveResult, error) {
	if orderID <= 0 {
		return nil, mapError(domain.ErrInvalidOrderID)
	}
	state := &attemptState{}

	retryable := func(err error) bool {
		return !state.archived &&
			errors.Is(err, ports.ErrStoreUnavailable) &&
			!errors.Is(err, ErrArchivalFailed)
	}
	err := c.policy.DoNotify(ctx, retryable, func(ctx context.Context) error {
		return c.store.ExecuteInTransaction(ctx,
			c.lockAndArchiveStep(orderID, state),
			c.deleteDependentsStep(orderID, domain.TableShipment),
			c.deleteDependentsStep(orderID, domain.TableOrderItem),
			c.deleteOrderStep(orderID),
		)
	}, func(err error, wait time.Duration) {
		c.log(ctx, slog.LevelWarn, "retrying order archival transaction",
			slog.Int64("order.id", orderID), slog.Duration("wait", wait), slog.String("error", err.Error()))
	})
	if err != nil {
		if state.archived {
			c.log(ctx, slog.LevelError, "order archived but relational delete failed",
				slog.Int64("order.id", orderID), slog.String("archive.id", state.archiveID), slog.String("error", err.Error()))
			return state.result, &PartialFailureError{OrderID: orderID, ArchiveID: state.archiveID, Err: err}
		}
		return nil, err
	}
	return state.result, nil
}

func (c *Coordinator) lockAndArchiveStep(orderID int64, state *attemptState) ports.Step {
	return func(ctx context.Context, tx ports.Tx) error {
		rows, err := loadClosure(ctx, tx, orderID, true, c.policy.CallContext)
		if err != nil {
			return err
		}
		deletedAt := c.clock().UTC()
		state.archiveID = c.newID(orderID, rows.order, rows.items, rows.shipments)
		record := domain.NewArchivedOrderRecord(state.archiveID, orderID, rows.order, rows.items, rows.shipments, deletedAt)

		appendErr := c.policy.DoNotify(ctx, isTransient, func(ctx context.Context) error {
			callCtx, cancel := c.policy.CallContext(ctx)
			defer cancel()
			return c.archive.Append(callCtx, record)
		}, func(err error, wait time.Duration) {
			c.log(ctx, slog.LevelWarn, "retrying archive append",
				slog.Int64("order.id", orderID), slog.Duration("wait", wait), slog.String("error", err.Error()))
		})
		if appendErr != nil {
			return fmt.Errorf("%w: %w", ErrArchivalFailed, appendErr)
		}

		state.archived = true
		state.result = &domain.ArchiveResult{
			OrderID:    orderID,
			ArchiveID:  state.archiveID,
			DeletedAt:  deletedAt,
			OrderItems: len(record.OrderItems),
			Shipments:  len(record.Shipments),
		}
		return nil
	}
}

func (c *Coordinator) deleteDependentsStep(orderID int64, table string) ports.Step {
	return func(ctx context.Context, tx ports.Tx) error {
		if _, err := c.exec(ctx, tx, deleteByOrder(table, orderID)); err != nil {
			return err
		}
		callCtx, cancel := c.policy.CallContext(ctx)
		defer cancel()
		remaining, err := tx.CountMatching(callCtx, table, domain.ColumnOrderID, orderID)
		if err != nil {
			return err
		}
		if remaining != 0 {
			return fmt.Errorf("%w: %d %s rows remain for order %d", ErrIntegrityViolation, remaining, table, orderID)
		}
		return nil
	}
}

func (c *Coordinator) deleteOrderStep(orderID int64) ports.Step {
	return func(ctx context.Context, tx ports.Tx) error {
		affected, err := c.exec(ctx, tx, deleteByOrder(domain.TableOrder, orderID))
		if err != nil {
			return err
		}
		if affected != 1 {
			return fmt.Errorf("%w: deleting order %d affected %d rows", ErrIntegrityViolation, orderID, affected)
		}
		return nil
	}
}

func (c *Coordinator) exec(ctx context.Context, tx ports.Tx, stmt ports.Statement) (int64, error) {
	callCtx, cancel := c.policy.CallContext(ctx)
	defer cancel()
	return tx.Exec(callCtx, stmt)
}

func (c *Coordinator) log(ctx context.Context, level slog.Level, msg string, attrs ...slog.Attr) {
	if c.logger == nil {
		return
	}
	c.logger.LogAttrs(ctx, level, msg, attrs...)
}

func isTransient(err error) bool {
	return errors.Is(err, ports.ErrStoreUnavailable)
}
