package chart

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/KaramelBytes/agenthub-cli/internal/dataset"
)

// Aggregate names a group reduction.
type Aggregate string

const (
	AggMean Aggregate = "mean"
	AggSum  Aggregate = "sum"
)

// ParseAggregate accepts "mean" and "sum", case-insensitively. Empty means mean.
func ParseAggregate(s string) (Aggregate, error) {
	switch Aggregate(strings.ToLower(strings.TrimSpace(s))) {
	case "", AggMean:
		return AggMean, nil
	case AggSum:
		return AggSum, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedAggregate, s)
}

func (a Aggregate) title() string {
	if a == AggSum {
		return "Sum"
	}
	return "Mean"
}

// BuildLine plots the mean of valueCol per distinct timeCol, sorted by time.
func BuildLine(ds *dataset.Dataset, timeCol, valueCol string) (*Spec, error) {
	tc, vc, err := columns(ds, timeCol, valueCol)
	if err != nil {
		return nil, err
	}
	nums, err := numericValues(vc)
	if err != nil {
		return nil, err
	}
	keys := make([]dataset.Value, len(tc.Values))
	for i, v := range tc.Values {
		if tv, ok := dataset.CoerceTime(v); ok {
			keys[i] = tv
		} else {
			keys[i] = v
		}
	}
	groups := groupBy(keys, nums, AggMean)
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].key.Compare(groups[j].key) < 0 })

	values := make([]map[string]any, len(groups))
	for i, g := range groups {
		values[i] = map[string]any{timeCol: g.key.JSON(), valueCol: dataset.Number(g.agg).JSON()}
	}
	return &Spec{
		Schema: SchemaURL,
		Mark:   MarkLine,
		Data:   Data{Values: values},
		Encoding: Encoding{
			X: &FieldDef{Field: timeCol, Type: Temporal, Title: timeCol},
			Y: &FieldDef{Field: valueCol, Type: Quantitative, Title: "Mean " + valueCol},
			Tooltip: []FieldDef{
				{Field: timeCol, Type: Temporal},
				{Field: valueCol, Type: Quantitative},
			},
		},
		Height: DefaultHeight,
	}, nil
}

// BuildBar aggregates valueCol per catCol and keeps the topN largest groups.
// Ties keep the order in which categories first appear. topN <= 0 means
// DefaultTopN.
func BuildBar(ds *dataset.Dataset, catCol, valueCol string, topN int, agg Aggregate) (*Spec, error) {
	if agg == "" {
		agg = AggMean
	}
	if agg != AggMean && agg != AggSum {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAggregate, agg)
	}
	if topN <= 0 {
		topN = DefaultTopN
	}
	cc, vc, err := columns(ds, catCol, valueCol)
	if err != nil {
		return nil, err
	}
	nums, err := numericValues(vc)
	if err != nil {
		return nil, err
	}
	groups := groupBy(cc.Values, nums, agg)
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].agg > groups[j].agg })
	if len(groups) > topN {
		groups = groups[:topN]
	}

	values := make([]map[string]any, len(groups))
	for i, g := range groups {
		values[i] = map[string]any{catCol: g.key.JSON(), valueCol: dataset.Number(g.agg).JSON()}
	}
	title := agg.title() + " " + valueCol
	return &Spec{
		Schema: SchemaURL,
		Mark:   MarkBar,
		Data:   Data{Values: values},
		Encoding: Encoding{
			X: &FieldDef{Field: valueCol, Type: Quantitative, Title: title},
			Y: &FieldDef{Field: catCol, Type: Nominal, Title: catCol, Sort: "-x"},
			Tooltip: []FieldDef{
				{Field: catCol, Type: Nominal},
				{Field: valueCol, Type: Quantitative, Title: title},
			},
		},
		Height: DefaultHeight,
	}, nil
}

// BuildHistogram embeds the numeric values of valueCol and leaves binning to
// the renderer. bins is clamped to [MinBins, MaxBins]; 0 means DefaultBins.
func BuildHistogram(ds *dataset.Dataset, valueCol string, bins int) (*Spec, error) {
	if ds.Empty() {
		return nil, ErrEmptyDataset
	}
	vc, ok := ds.Column(valueCol)
	if !ok {
		return nil, &InvalidColumnError{Column: valueCol, Reason: "not in dataset"}
	}
	nums, err := numericValues(vc)
	if err != nil {
		return nil, err
	}
	values := make([]map[string]any, 0, len(nums))
	for _, v := range nums {
		if f, ok := v.Float(); ok && finite(f) {
			values = append(values, map[string]any{valueCol: v.JSON()})
		}
	}
	bin := &Bin{MaxBins: ClampBins(bins)}
	return &Spec{
		Schema: SchemaURL,
		Mark:   MarkBar,
		Data:   Data{Values: values},
		Encoding: Encoding{
			X: &FieldDef{Field: valueCol, Type: Quantitative, Title: valueCol, Bin: bin},
			Y: &FieldDef{Type: Quantitative, Aggregate: "count", Title: "Count"},
			Tooltip: []FieldDef{
				{Field: valueCol, Type: Quantitative, Bin: bin},
				{Type: Quantitative, Aggregate: "count", Title: "Count"},
			},
		},
		Height: DefaultHeight,
	}, nil
}

// ClampBins maps a requested bin count into the supported range.
func ClampBins(bins int) int {
	switch {
	case bins == 0:
		return DefaultBins
	case bins < MinBins:
		return MinBins
	case bins > MaxBins:
		return MaxBins
	}
	return bins
}

func columns(ds *dataset.Dataset, key, value string) (dataset.Column, dataset.Column, error) {
	if ds.Empty() {
		return dataset.Column{}, dataset.Column{}, ErrEmptyDataset
	}
	kc, ok := ds.Column(key)
	if !ok {
		return dataset.Column{}, dataset.Column{}, &InvalidColumnError{Column: key, Reason: "not in dataset"}
	}
	vc, ok := ds.Column(value)
	if !ok {
		return dataset.Column{}, dataset.Column{}, &InvalidColumnError{Column: value, Reason: "not in dataset"}
	}
	return kc, vc, nil
}

// numericValues coerces a value column, failing when nothing is numeric.
func numericValues(c dataset.Column) ([]dataset.Value, error) {
	out := make([]dataset.Value, len(c.Values))
	n := 0
	for i, v := range c.Values {
		if nv, ok := dataset.CoerceNumber(v, dataset.NumberFormat{}); ok {
			out[i] = nv
			n++
		}
	}
	if n == 0 {
		return nil, &InvalidColumnError{Column: c.Name, Reason: "no numeric values"}
	}
	return out, nil
}

type group struct {
	key   dataset.Value
	sum   float64
	count int
	agg   float64
}

// groupBy reduces nums per key in first-seen key order. Missing keys are
// dropped, as are groups without a single numeric value and groups whose
// aggregate is not finite.
func groupBy(keys, nums []dataset.Value, agg Aggregate) []group {
	idx := make(map[string]int)
	var groups []group
	for i, k := range keys {
		if k.IsMissing() {
			continue
		}
		f, ok := nums[i].Float()
		if !ok {
			continue
		}
		j, seen := idx[k.Key()]
		if !seen {
			j = len(groups)
			idx[k.Key()] = j
			groups = append(groups, group{key: k})
		}
		groups[j].sum += f
		groups[j].count++
	}
	out := groups[:0]
	for _, g := range groups {
		if agg == AggSum {
			g.agg = g.sum
		} else {
			g.agg = g.sum / float64(g.count)
		}
		if finite(g.agg) {
			out = append(out, g)
		}
	}
	return out
}

func finite(f float64) bool { return !math.IsInf(f, 0) && !math.IsNaN(f) }
