package relational

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Apurer/go-inventory-dashboard/internal/domains/orders/domain"
	"github.com/Apurer/go-inventory-dashboard/internal/domains/orders/ports"
)

var _ ports.RelationalStore = (*Store)(nil)

// Store executes parameterized statements through GORM against PostgreSQL,
// MySQL or SQLite.
type Store struct {
	db *gorm.DB
}

// NewStore wires a relational store. Caller manages DB lifecycle.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Read runs a select outside any transaction.
func (s *Store) Read(ctx context.Context, stmt ports.Statement) ([]ports.Record, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	return readRecords(ctx, s.db, stmt)
}

// CountMatching counts rows in table where column equals value.
func (s *Store) CountMatching(ctx context.Context, table, column string, value any) (int64, error) {
	if err := s.ensureDB(); err != nil {
		return 0, err
	}
	return countMatching(ctx, s.db, table, column, value)
}

// ExecuteInTransaction runs steps in a single database transaction. A step
// error rolls back and is returned as is; begin and commit failures are
// classified.
func (s *Store) ExecuteInTransaction(ctx context.Context, steps ...ports.Step) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	var stepErr error
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		scope := &txScope{db: tx}
		for _, step := range steps {
			if step == nil {
				continue
			}
			if err := step(ctx, scope); err != nil {
				stepErr = err
				return err
			}
		}
		return nil
	})
	if err != nil && stepErr == nil {
		return classify(err)
	}
	return err
}

func (s *Store) ensureDB() error {
	if s == nil || s.db == nil {
		return fmt.Errorf("%w: relational store not configured", ports.ErrStoreUnavailable)
	}
	return nil
}

// txScope is the ports.Tx handed to transaction steps.
type txScope struct {
	db *gorm.DB
}

func (t *txScope) Read(ctx context.Context, stmt ports.Statement) ([]ports.Record, error) {
	return readRecords(ctx, t.db, stmt)
}

func (t *txScope) CountMatching(ctx context.Context, table, column string, value any) (int64, error) {
	return countMatching(ctx, t.db, table, column, value)
}

func (t *txScope) Exec(ctx context.Context, stmt ports.Statement) (int64, error) {
	if stmt.Kind == ports.KindSelect {
		return 0, fmt.Errorf("%w: exec requires an update or delete on %q", ports.ErrQuerySyntax, stmt.Table)
	}
	query, args, err := renderer{dialector: t.db.Dialector}.render(stmt)
	if err != nil {
		return 0, err
	}
	result := t.db.WithContext(ctx).Exec(query, args...)
	if result.Error != nil {
		return 0, classify(result.Error)
	}
	return result.RowsAffected, nil
}

func readRecords(ctx context.Context, db *gorm.DB, stmt ports.Statement) ([]ports.Record, error) {
	if stmt.Kind != ports.KindSelect {
		return nil, fmt.Errorf("%w: read requires a select on %q", ports.ErrQuerySyntax, stmt.Table)
	}
	query, args, err := renderer{dialector: db.Dialector}.render(stmt)
	if err != nil {
		return nil, err
	}
	rows, err := db.WithContext(ctx).Raw(query, args...).Rows()
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	records := make([]ports.Record, 0)
	raw := make([]any, len(stmt.Columns))
	dest := make([]any, len(stmt.Columns))
	for i := range raw {
		dest[i] = &raw[i]
	}
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, classify(err)
		}
		record := make(domain.Record, len(stmt.Columns))
		for i, col := range stmt.Columns {
			value, err := decodeValue(col, raw[i])
			if err != nil {
				return nil, err
			}
			record[col.Name] = value
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err)
	}
	return records, nil
}

func countMatching(ctx context.Context, db *gorm.DB, table, column string, value any) (int64, error) {
	query, args, err := renderer{dialector: db.Dialector}.renderCount(table, column, value)
	if err != nil {
		return 0, err
	}
	var count int64
	if err := db.WithContext(ctx).Raw(query, args...).Scan(&count).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, classify(err)
	}
	return count, nil
}
