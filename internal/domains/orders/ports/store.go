package ports

import (
	"context"
	"errors"
)

var (
	// ErrStoreUnavailable signals a store could not be reached or dropped the connection.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrQuerySyntax signals a malformed statement (unknown table or column, bad syntax).
	ErrQuerySyntax = errors.New("malformed statement")
)

// ColumnType declares how a raw driver value is decoded.
type ColumnType int

const (
	ColumnInt ColumnType = iota
	ColumnText
	ColumnDate
	ColumnDecimal
)

func (t ColumnType) String() string {
	switch t {
	case ColumnInt:
		return "int"
	case ColumnText:
		return "text"
	case ColumnDate:
		return "date"
	case ColumnDecimal:
		return "decimal"
	default:
		return "unknown"
	}
}

// Column is a typed column reference.
type Column struct {
	Name string
	Type ColumnType
}

func IntColumn(name string) Column     { return Column{Name: name, Type: ColumnInt} }
func TextColumn(name string) Column    { return Column{Name: name, Type: ColumnText} }
func DateColumn(name string) Column    { return Column{Name: name, Type: ColumnDate} }
func DecimalColumn(name string) Column { return Column{Name: name, Type: ColumnDecimal} }

// StatementKind distinguishes reads from writes.
type StatementKind int

const (
	KindSelect StatementKind = iota
	KindUpdate
	KindDelete
)

// Filter is an equality predicate bound as a parameter.
type Filter struct {
	Column string
	Value  any
}

// Assignment sets a column in an update.
type Assignment struct {
	Column string
	Value  any
}

// Statement describes a single parameterized statement without committing to
// a SQL dialect. Values never appear in the rendered text.
type Statement struct {
	Kind      StatementKind
	Table     string
	Columns   []Column
	Filters   []Filter
	Set       []Assignment
	OrderBy   []string
	ForUpdate bool
}

// Select reads the given columns from table.
func Select(table string, columns ...Column) Statement {
	return Statement{Kind: KindSelect, Table: table, Columns: columns}
}

// DeleteFrom removes rows from table.
func DeleteFrom(table string) Statement {
	return Statement{Kind: KindDelete, Table: table}
}

// Update changes rows in table.
func Update(table string) Statement {
	return Statement{Kind: KindUpdate, Table: table}
}

// Where adds an equality filter. Filters are combined with AND.
func (s Statement) Where(column string, value any) Statement {
	s.Filters = append(append([]Filter(nil), s.Filters...), Filter{Column: column, Value: value})
	return s
}

// SetValue adds an assignment to an update statement.
func (s Statement) SetValue(column string, value any) Statement {
	s.Set = append(append([]Assignment(nil), s.Set...), Assignment{Column: column, Value: value})
	return s
}

// Ordered sorts a select ascending by the given columns.
func (s Statement) Ordered(columns ...string) Statement {
	s.OrderBy = append(append([]string(nil), s.OrderBy...), columns...)
	return s
}

// Locked requests a row lock for the selected rows where the dialect supports it.
func (s Statement) Locked() Statement {
	s.ForUpdate = true
	return s
}

// Reader runs read-only statements.
type Reader interface {
	// Read returns the matching rows, or an empty non-nil slice when none match.
	Read(ctx context.Context, stmt Statement) ([]Record, error)
	// CountMatching counts rows in table where column equals value.
	CountMatching(ctx context.Context, table, column string, value any) (int64, error)
}

// Tx is the handle a transaction step runs against.
type Tx interface {
	Reader
	// Exec runs an update or delete and reports the affected row count.
	Exec(ctx context.Context, stmt Statement) (int64, error)
}

// Step is one unit of work inside ExecuteInTransaction.
type Step func(ctx context.Context, tx Tx) error

// RelationalStore executes parameterized statements and atomic multi-step transactions.
type RelationalStore interface {
	Reader
	// ExecuteInTransaction runs steps in order and commits only if all succeed.
	// Any step error rolls back the transaction and is returned unchanged.
	ExecuteInTransaction(ctx context.Context, steps ...Step) error
}
