// Package dataset holds the in-memory tabular model shared by the schema
// summarizer, the column classifiers and the chart builders.
package dataset

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrDuplicateColumn is returned when two columns share a name.
	ErrDuplicateColumn = errors.New("duplicate column name")
	// ErrColumnLength is returned when columns disagree on row count.
	ErrColumnLength = errors.New("column length mismatch")
	// ErrUnknownColumn is returned when a named column does not exist.
	ErrUnknownColumn = errors.New("unknown column")
)

// ColumnType is the primitive type label reported for a column.
type ColumnType string

const (
	TypeInteger  ColumnType = "integer"
	TypeFloat    ColumnType = "float"
	TypeText     ColumnType = "text"
	TypeBoolean  ColumnType = "boolean"
	TypeDatetime ColumnType = "datetime"
)

// Column is a named, ordered sequence of values.
type Column struct {
	Name   string
	Values []Value
}

// Len returns the number of values in the column.
func (c Column) Len() int { return len(c.Values) }

// MissingCount counts missing values.
func (c Column) MissingCount() int {
	n := 0
	for _, v := range c.Values {
		if v.IsMissing() {
			n++
		}
	}
	return n
}

// Type reports the native primitive type of the column, derived from the
// kinds of its non-missing values. Mixed or all-missing columns are text.
func (c Column) Type() ColumnType {
	var seen Kind
	integral := true
	found := false
	for _, v := range c.Values {
		if v.IsMissing() {
			continue
		}
		if !found {
			seen = v.Kind()
			found = true
		} else if v.Kind() != seen {
			return TypeText
		}
		if f, ok := v.Float(); ok && (f != math.Trunc(f) || math.IsInf(f, 0)) {
			integral = false
		}
	}
	if !found {
		return TypeText
	}
	switch seen {
	case KindNumber:
		if integral {
			return TypeInteger
		}
		return TypeFloat
	case KindTimestamp:
		return TypeDatetime
	case KindBool:
		return TypeBoolean
	}
	return TypeText
}

// Dataset is an ordered set of uniquely named columns of equal length.
// Values are shared between a Dataset and anything derived from it except
// Clone, so callers treat returned slices as read-only.
type Dataset struct {
	cols  []Column
	index map[string]int
	rows  int
}

// New builds a dataset from columns. Names must be unique and all columns
// must have the same length.
func New(cols ...Column) (*Dataset, error) {
	ds := &Dataset{index: make(map[string]int, len(cols))}
	for i, c := range cols {
		if _, dup := ds.index[c.Name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, c.Name)
		}
		if i == 0 {
			ds.rows = c.Len()
		} else if c.Len() != ds.rows {
			return nil, fmt.Errorf("%w: column %q has %d values, want %d", ErrColumnLength, c.Name, c.Len(), ds.rows)
		}
		ds.index[c.Name] = i
		ds.cols = append(ds.cols, c)
	}
	return ds, nil
}

// MustNew is like New but panics on error. Intended for tests and literals.
func MustNew(cols ...Column) *Dataset {
	ds, err := New(cols...)
	if err != nil {
		panic(err)
	}
	return ds
}

// NumRows returns the row count.
func (d *Dataset) NumRows() int { return d.rows }

// NumCols returns the column count.
func (d *Dataset) NumCols() int { return len(d.cols) }

// Empty reports whether the dataset has no rows or no columns.
func (d *Dataset) Empty() bool { return d == nil || d.rows == 0 || len(d.cols) == 0 }

// Names returns column names in order.
func (d *Dataset) Names() []string {
	out := make([]string, len(d.cols))
	for i, c := range d.cols {
		out[i] = c.Name
	}
	return out
}

// Columns returns the columns in order.
func (d *Dataset) Columns() []Column {
	out := make([]Column, len(d.cols))
	copy(out, d.cols)
	return out
}

// Column looks up a column by name.
func (d *Dataset) Column(name string) (Column, bool) {
	i, ok := d.index[name]
	if !ok {
		return Column{}, false
	}
	return d.cols[i], true
}

// Row returns the values of row i in column order.
func (d *Dataset) Row(i int) []Value {
	out := make([]Value, len(d.cols))
	for j, c := range d.cols {
		out[j] = c.Values[i]
	}
	return out
}

// Head returns a dataset with the first n rows (or all rows when fewer).
func (d *Dataset) Head(n int) *Dataset {
	if n > d.rows {
		n = d.rows
	}
	if n < 0 {
		n = 0
	}
	out := &Dataset{index: make(map[string]int, len(d.cols)), rows: n}
	for i, c := range d.cols {
		out.cols = append(out.cols, Column{Name: c.Name, Values: c.Values[:n:n]})
		out.index[c.Name] = i
	}
	return out
}

// Clone returns a deep copy whose columns can be mutated independently.
func (d *Dataset) Clone() *Dataset {
	out := &Dataset{index: make(map[string]int, len(d.cols)), rows: d.rows}
	for i, c := range d.cols {
		vals := make([]Value, len(c.Values))
		copy(vals, c.Values)
		out.cols = append(out.cols, Column{Name: c.Name, Values: vals})
		out.index[c.Name] = i
	}
	return out
}

// SetValues replaces the values of the named column. Only call this on a
// dataset you own, such as the result of Clone.
func (d *Dataset) SetValues(name string, values []Value) error {
	i, ok := d.index[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownColumn, name)
	}
	if len(values) != d.rows {
		return fmt.Errorf("%w: column %q got %d values, want %d", ErrColumnLength, name, len(values), d.rows)
	}
	d.cols[i].Values = values
	return nil
}
