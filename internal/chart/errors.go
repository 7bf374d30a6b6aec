package chart

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyDataset is returned for a nil dataset or one without rows or columns.
	ErrEmptyDataset = errors.New("chart: empty dataset")
	// ErrUnsupportedAggregate is returned for aggregations other than mean and sum.
	ErrUnsupportedAggregate = errors.New("chart: unsupported aggregate")
)

// InvalidColumnError reports a column that is absent or cannot serve the
// requested encoding.
type InvalidColumnError struct {
	Column string
	Reason string
}

func (e *InvalidColumnError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("chart: invalid column %q", e.Column)
	}
	return fmt.Sprintf("chart: invalid column %q: %s", e.Column, e.Reason)
}
