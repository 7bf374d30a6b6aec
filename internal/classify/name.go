package classify

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/agenthub-cli/internal/dataset"
)

// NameHeuristicClassifier marks a column temporal when its name contains
// "date" or "time", case-insensitively, without looking at the values.
// Remaining columns go through the same numeric probe as the value-based
// classifier. A numeric column named "date" is therefore temporal here and
// numeric under ValueBasedClassifier.
type NameHeuristicClassifier struct {
	NumericThreshold float64
	Number           dataset.NumberFormat
}

var temporalNameHints = []string{"date", "time"}

// Classify implements ColumnClassifier.
func (c *NameHeuristicClassifier) Classify(ds *dataset.Dataset) (*Result, error) {
	if ds == nil {
		return nil, ErrNilDataset
	}
	res := &Result{Working: ds.Clone()}
	rows := ds.NumRows()
	for _, col := range ds.Columns() {
		if looksTemporal(col.Name) {
			res.add(col.Name, Temporal)
			continue
		}
		vals, ok := probeNumeric(col, rows, c.NumericThreshold, c.Number)
		if !ok {
			res.add(col.Name, Categorical)
			continue
		}
		if err := res.Working.SetValues(col.Name, vals); err != nil {
			return nil, fmt.Errorf("coerce %q: %w", col.Name, err)
		}
		res.add(col.Name, Numeric)
	}
	return res, nil
}

func looksTemporal(name string) bool {
	lower := strings.ToLower(name)
	for _, h := range temporalNameHints {
		if strings.Contains(lower, h) {
			return true
		}
	}
	return false
}
