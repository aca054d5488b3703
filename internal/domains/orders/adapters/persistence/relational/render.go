package relational

import (
	"fmt"
	"regexp"
	"strings"

	"gorm.io/gorm"

	"github.com/Apurer/go-inventory-dashboard/internal/domains/orders/domain"
	"github.com/Apurer/go-inventory-dashboard/internal/domains/orders/ports"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// renderer turns dialect-neutral statements into SQL text with bound parameters.
// Identifiers are validated and quoted by the dialector; values are only ever
// passed as arguments.
type renderer struct {
	dialector gorm.Dialector
}

func (r renderer) quote(b *strings.Builder, name string) error {
	if !identifierPattern.MatchString(name) {
		return fmt.Errorf("%w: invalid identifier %q", ports.ErrQuerySyntax, name)
	}
	r.dialector.QuoteTo(b, name)
	return nil
}

func (r renderer) supportsRowLocks() bool {
	return r.dialector.Name() != "sqlite"
}

func (r renderer) render(stmt ports.Statement) (string, []any, error) {
	var (
		b    strings.Builder
		args []any
	)
	switch stmt.Kind {
	case ports.KindSelect:
		if len(stmt.Columns) == 0 {
			return "", nil, fmt.Errorf("%w: select on %q lists no columns", ports.ErrQuerySyntax, stmt.Table)
		}
		b.WriteString("SELECT ")
		for i, col := range stmt.Columns {
			if i > 0 {
				b.WriteString(", ")
			}
			if err := r.quote(&b, col.Name); err != nil {
				return "", nil, err
			}
		}
		b.WriteString(" FROM ")
		if err := r.quote(&b, stmt.Table); err != nil {
			return "", nil, err
		}
	case ports.KindDelete:
		if len(stmt.Filters) == 0 {
			return "", nil, fmt.Errorf("%w: unfiltered delete on %q", ports.ErrQuerySyntax, stmt.Table)
		}
		b.WriteString("DELETE FROM ")
		if err := r.quote(&b, stmt.Table); err != nil {
			return "", nil, err
		}
	case ports.KindUpdate:
		if len(stmt.Filters) == 0 {
			return "", nil, fmt.Errorf("%w: unfiltered update on %q", ports.ErrQuerySyntax, stmt.Table)
		}
		if len(stmt.Set) == 0 {
			return "", nil, fmt.Errorf("%w: update on %q assigns nothing", ports.ErrQuerySyntax, stmt.Table)
		}
		b.WriteString("UPDATE ")
		if err := r.quote(&b, stmt.Table); err != nil {
			return "", nil, err
		}
		b.WriteString(" SET ")
		for i, set := range stmt.Set {
			if i > 0 {
				b.WriteString(", ")
			}
			if err := r.quote(&b, set.Column); err != nil {
				return "", nil, err
			}
			b.WriteString(" = ?")
			args = append(args, bindValue(set.Value))
		}
	default:
		return "", nil, fmt.Errorf("%w: unknown statement kind %d", ports.ErrQuerySyntax, stmt.Kind)
	}

	for i, f := range stmt.Filters {
		if i == 0 {
			b.WriteString(" WHERE ")
		} else {
			b.WriteString(" AND ")
		}
		if err := r.quote(&b, f.Column); err != nil {
			return "", nil, err
		}
		b.WriteString(" = ?")
		args = append(args, bindValue(f.Value))
	}

	if stmt.Kind == ports.KindSelect {
		for i, col := range stmt.OrderBy {
			if i == 0 {
				b.WriteString(" ORDER BY ")
			} else {
				b.WriteString(", ")
			}
			if err := r.quote(&b, col); err != nil {
				return "", nil, err
			}
		}
		if stmt.ForUpdate && r.supportsRowLocks() {
			b.WriteString(" FOR UPDATE")
		}
	}
	return b.String(), args, nil
}

func (r renderer) renderCount(table, column string, value any) (string, []any, error) {
	var b strings.Builder
	b.WriteString("SELECT COUNT(*) FROM ")
	if err := r.quote(&b, table); err != nil {
		return "", nil, err
	}
	b.WriteString(" WHERE ")
	if err := r.quote(&b, column); err != nil {
		return "", nil, err
	}
	b.WriteString(" = ?")
	return b.String(), []any{bindValue(value)}, nil
}

// bindValue maps domain values to types every driver accepts.
func bindValue(v any) any {
	switch val := v.(type) {
	case domain.Date:
		return val.Midnight()
	case domain.Status:
		return string(val)
	default:
		return v
	}
}
