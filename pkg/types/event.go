package types

import (
	"math"
	"strconv"
)

// Column is one named value of an insert event. Value is nil (NULL), a
// string, an int or a float64.
type Column struct {
	Name  string
	Value any
}

// Col builds a Column.
func Col(name string, v any) Column {
	return Column{Name: name, Value: v}
}

// Event is one row insert into an output table. Columns keep the order the
// engine emitted them in.
type Event struct {
	Table   string
	Columns []Column
}

// NewEvent builds an event for table.
func NewEvent(table string, cols ...Column) Event {
	return Event{Table: table, Columns: cols}
}

// Get returns the value of a column.
func (e Event) Get(name string) (any, bool) {
	for _, c := range e.Columns {
		if c.Name == name {
			return c.Value, true
		}
	}
	return nil, false
}

// Names returns the column names in order.
func (e Event) Names() []string {
	out := make([]string, len(e.Columns))
	for i, c := range e.Columns {
		out[i] = c.Name
	}
	return out
}

// Present returns the columns whose value is not null.
func (e Event) Present() []Column {
	out := make([]Column, 0, len(e.Columns))
	for _, c := range e.Columns {
		if !IsNull(c.Value) {
			out = append(out, c)
		}
	}
	return out
}

// IsNull reports whether a value stands for SQL NULL: nil, NaN or the
// strings "NULL", "null" and "NaN".
func IsNull(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case float64:
		return math.IsNaN(x)
	case string:
		return x == "NULL" || x == "null" || x == "NaN"
	}
	return false
}

// Format renders a non-null value as text. Floats use the shortest
// representation that round-trips.
func Format(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case bool:
		if x {
			return "1"
		}
		return "0"
	}
	return ""
}

// IsNumeric reports whether a value is a number rather than text.
func IsNumeric(v any) bool {
	switch v.(type) {
	case int, int64, float64:
		return true
	}
	return false
}
