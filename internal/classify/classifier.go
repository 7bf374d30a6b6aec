// Package classify assigns each dataset column exactly one role: temporal,
// numeric or categorical.
//
// Two strategies are provided. ValueBasedClassifier inspects the values and
// is the default. NameHeuristicClassifier looks only at column names for
// temporal detection; it is cheaper and noticeably less accurate, meant for
// callers that cannot afford value-level date parsing.
package classify

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/KaramelBytes/agenthub-cli/internal/dataset"
)

// DefaultNumericThreshold is the inclusive share of values that must coerce
// to numbers for a column to be numeric.
const DefaultNumericThreshold = 0.6

// epsilon absorbs float rounding in ratio comparisons, e.g. 3/5 vs 0.6.
const epsilon = 1e-9

// Role is the classification of a column.
type Role string

const (
	Temporal    Role = "temporal"
	Numeric     Role = "numeric"
	Categorical Role = "categorical"
)

// Strategy names accepted by New.
const (
	StrategyValue        = "value"
	StrategyValueLenient = "value-lenient"
	StrategyName         = "name"
)

// ErrNilDataset is returned when Classify is called without a dataset.
var ErrNilDataset = errors.New("classify: nil dataset")

// ColumnClassifier partitions the columns of a dataset.
type ColumnClassifier interface {
	Classify(ds *dataset.Dataset) (*Result, error)
}

// Result holds a coerced working copy plus the three role sets, each listed
// in original column order. The input dataset is never modified.
type Result struct {
	Working     *dataset.Dataset
	Numeric     []string
	Categorical []string
	Temporal    []string
}

// Role returns the role assigned to name and false when name is unknown.
func (r *Result) Role(name string) (Role, bool) {
	for _, set := range []struct {
		role  Role
		names []string
	}{{Temporal, r.Temporal}, {Numeric, r.Numeric}, {Categorical, r.Categorical}} {
		for _, n := range set.names {
			if n == name {
				return set.role, true
			}
		}
	}
	return "", false
}

// Roles returns every column's role keyed by name.
func (r *Result) Roles() map[string]Role {
	out := make(map[string]Role, len(r.Numeric)+len(r.Categorical)+len(r.Temporal))
	for _, n := range r.Temporal {
		out[n] = Temporal
	}
	for _, n := range r.Numeric {
		out[n] = Numeric
	}
	for _, n := range r.Categorical {
		out[n] = Categorical
	}
	return out
}

func (r *Result) add(name string, role Role) {
	switch role {
	case Temporal:
		r.Temporal = append(r.Temporal, name)
	case Numeric:
		r.Numeric = append(r.Numeric, name)
	default:
		r.Categorical = append(r.Categorical, name)
	}
}

// New returns the classifier registered under strategy. An empty strategy
// selects the value-based default.
func New(strategy string) (ColumnClassifier, error) {
	switch strings.ToLower(strings.TrimSpace(strategy)) {
	case "", StrategyValue:
		return &ValueBasedClassifier{}, nil
	case StrategyValueLenient:
		return &ValueBasedClassifier{DateMode: DateLenient}, nil
	case StrategyName:
		return &NameHeuristicClassifier{}, nil
	}
	return nil, fmt.Errorf("unknown classifier strategy %q (want %s, %s or %s)",
		strategy, StrategyValue, StrategyValueLenient, StrategyName)
}

// probeNumeric coerces every value and reports whether the coerced share of
// all rows reaches threshold. Failed coercions become Missing.
func probeNumeric(c dataset.Column, rows int, threshold float64, f dataset.NumberFormat) ([]dataset.Value, bool) {
	if rows == 0 {
		return nil, false
	}
	if threshold <= 0 {
		threshold = DefaultNumericThreshold
	}
	out := make([]dataset.Value, len(c.Values))
	ok := 0
	for i, v := range c.Values {
		if nv, good := dataset.CoerceNumber(v, f); good {
			out[i] = nv
			ok++
		}
	}
	return out, atLeast(float64(ok)/float64(rows), threshold)
}

func atLeast(ratio, threshold float64) bool {
	return ratio >= threshold || math.Abs(ratio-threshold) < epsilon
}

func allOfKind(c dataset.Column, k dataset.Kind) bool {
	found := false
	for _, v := range c.Values {
		if v.IsMissing() {
			continue
		}
		if v.Kind() != k {
			return false
		}
		found = true
	}
	return found
}
