package classify

import (
	"fmt"

	"github.com/KaramelBytes/agenthub-cli/internal/dataset"
)

// DateMode controls how much unparseable text a temporal column tolerates.
type DateMode int

const (
	// DateStrict requires every non-missing value to parse as a date.
	DateStrict DateMode = iota
	// DateLenient accepts a column when missing plus unparseable values are
	// under LenientMissingRatio of all rows.
	DateLenient
)

// LenientMissingRatio is the exclusive upper bound on the share of rows that
// may be missing or unparseable in DateLenient mode.
const LenientMissingRatio = 0.2

// ValueBasedClassifier classifies by probing values, dates first:
//
//  1. all non-missing values are timestamps: temporal
//  2. all non-missing values are text that parses as dates: temporal
//  3. at least NumericThreshold of all rows coerce to numbers: numeric
//  4. otherwise: categorical
type ValueBasedClassifier struct {
	DateMode DateMode
	// NumericThreshold defaults to DefaultNumericThreshold when zero.
	NumericThreshold float64
	Number           dataset.NumberFormat
}

// Classify implements ColumnClassifier.
func (c *ValueBasedClassifier) Classify(ds *dataset.Dataset) (*Result, error) {
	if ds == nil {
		return nil, ErrNilDataset
	}
	res := &Result{Working: ds.Clone()}
	rows := ds.NumRows()
	for _, col := range ds.Columns() {
		role, coerced := c.classifyColumn(col, rows)
		if coerced != nil {
			if err := res.Working.SetValues(col.Name, coerced); err != nil {
				return nil, fmt.Errorf("coerce %q: %w", col.Name, err)
			}
		}
		res.add(col.Name, role)
	}
	return res, nil
}

func (c *ValueBasedClassifier) classifyColumn(col dataset.Column, rows int) (Role, []dataset.Value) {
	if allOfKind(col, dataset.KindTimestamp) {
		return Temporal, nil
	}
	if allOfKind(col, dataset.KindText) {
		if parsed, ok := c.probeDates(col, rows); ok {
			return Temporal, parsed
		}
	}
	if vals, ok := probeNumeric(col, rows, c.NumericThreshold, c.Number); ok {
		return Numeric, vals
	}
	return Categorical, nil
}

func (c *ValueBasedClassifier) probeDates(col dataset.Column, rows int) ([]dataset.Value, bool) {
	out := make([]dataset.Value, len(col.Values))
	bad := 0
	for i, v := range col.Values {
		if v.IsMissing() {
			bad++
			continue
		}
		tv, ok := dataset.CoerceTime(v)
		if !ok {
			if c.DateMode == DateStrict {
				return nil, false
			}
			bad++
			continue
		}
		out[i] = tv
	}
	if c.DateMode == DateLenient {
		if rows == 0 || float64(bad)/float64(rows) >= LenientMissingRatio {
			return nil, false
		}
	}
	return out, true
}
