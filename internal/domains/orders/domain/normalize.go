package domain

import (
	"reflect"

	"github.com/shopspring/decimal"
)

// documentConverters is the fixed mapping from relational value types to
// representations the document store encodes natively. Date becomes a UTC
// midnight timestamp; decimal becomes float64, which may lose precision.
var documentConverters = map[reflect.Type]func(any) any{
	reflect.TypeOf(Date{}): func(v any) any {
		return v.(Date).Midnight()
	},
	reflect.TypeOf(decimal.Decimal{}): func(v any) any {
		f, _ := v.(decimal.Decimal).Float64()
		return f
	},
}

// NormalizeValue converts a single value using the document mapping table.
// Values whose type is not in the table are returned unchanged.
func NormalizeValue(v any) any {
	if v == nil {
		return nil
	}
	if convert, ok := documentConverters[reflect.TypeOf(v)]; ok {
		return convert(v)
	}
	return v
}

// NormalizeRecord returns a copy of r with every value converted for document storage.
func NormalizeRecord(r Record) Record {
	out := make(Record, len(r))
	for column, value := range r {
		out[column] = NormalizeValue(value)
	}
	return out
}

// NormalizeRecords normalizes each record. The result is never nil.
func NormalizeRecords(records []Record) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		out = append(out, NormalizeRecord(r))
	}
	return out
}
