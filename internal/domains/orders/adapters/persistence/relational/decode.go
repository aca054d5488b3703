package relational

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Apurer/go-inventory-dashboard/internal/domains/orders/domain"
	"github.com/Apurer/go-inventory-dashboard/internal/domains/orders/ports"
)

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05-07:00",
	"2006-01-02 15:04:05.999999999-07:00",
	time.RFC3339Nano,
}

// decodeValue converts a raw driver value into the canonical Go type for the
// column, so records look the same across PostgreSQL, MySQL and SQLite.
func decodeValue(col ports.Column, raw any) (any, error) {
	if raw == nil {
		return nil, nil
	}
	if b, ok := raw.([]byte); ok {
		raw = string(b)
	}
	switch col.Type {
	case ports.ColumnInt:
		return decodeInt(col.Name, raw)
	case ports.ColumnText:
		switch v := raw.(type) {
		case string:
			return v, nil
		default:
			return fmt.Sprint(v), nil
		}
	case ports.ColumnDate:
		return decodeDate(col.Name, raw)
	case ports.ColumnDecimal:
		return decodeDecimal(col.Name, raw)
	default:
		return nil, fmt.Errorf("column %s: unsupported column type %s", col.Name, col.Type)
	}
}

func decodeInt(name string, raw any) (int64, error) {
	switch v := raw.(type) {
	case int64:
		return v, nil
	case int32:
		return int64(v), nil
	case int:
		return int64(v), nil
	case uint64:
		if v > math.MaxInt64 {
			return 0, fmt.Errorf("column %s: %d overflows int64", name, v)
		}
		return int64(v), nil
	case uint32:
		return int64(v), nil
	case float64:
		// 2^63 is exactly representable; MaxInt64 is not.
		if math.IsNaN(v) || v != math.Trunc(v) || v < math.MinInt64 || v >= math.MaxInt64 {
			return 0, fmt.Errorf("column %s: %v is not an int64", name, v)
		}
		return int64(v), nil
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("column %s: %w", name, err)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("column %s: cannot decode %T as int", name, raw)
	}
}

func decodeDate(name string, raw any) (domain.Date, error) {
	switch v := raw.(type) {
	case time.Time:
		return domain.DateOf(v), nil
	case string:
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, v); err == nil {
				return domain.DateOf(t), nil
			}
		}
		return domain.Date{}, fmt.Errorf("column %s: cannot parse %q as date", name, v)
	default:
		return domain.Date{}, fmt.Errorf("column %s: cannot decode %T as date", name, raw)
	}
}

func decodeDecimal(name string, raw any) (decimal.Decimal, error) {
	switch v := raw.(type) {
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(v))
		if err != nil {
			return decimal.Zero, fmt.Errorf("column %s: %w", name, err)
		}
		return d, nil
	case float64:
		return decimal.NewFromFloat(v), nil
	case float32:
		return decimal.NewFromFloat32(v), nil
	case int64:
		return decimal.NewFromInt(v), nil
	default:
		return decimal.Zero, fmt.Errorf("column %s: cannot decode %T as decimal", name, raw)
	}
}
