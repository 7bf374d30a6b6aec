// Package schema renders the per-column description and row sample that
// are sent to an agent alongside a dataset.
package schema

import (
	"errors"
	"fmt"
	"strings"

	"github.com/KaramelBytes/agenthub-cli/internal/dataset"
)

// SampleRows is the number of rows serialized into SampleText.
const SampleRows = 10

// maxSamples is the number of distinct example values per column.
const maxSamples = 3

// ErrNilDataset is returned when Summarize is called without a dataset.
var ErrNilDataset = errors.New("schema: nil dataset")

// Summary is the textual form of a dataset snapshot.
type Summary struct {
	SchemaText string `json:"schema_text"`
	SampleText string `json:"sample_text"`
}

// Summarize describes every column in order and serializes the first rows
// as CSV. A dataset with zero columns yields empty text.
func Summarize(ds *dataset.Dataset) (Summary, error) {
	if ds == nil {
		return Summary{}, ErrNilDataset
	}
	lines := make([]string, 0, ds.NumCols())
	for _, c := range ds.Columns() {
		lines = append(lines, Line(c, ds.NumRows()))
	}
	var sb strings.Builder
	if err := dataset.WriteCSV(&sb, ds, SampleRows); err != nil {
		return Summary{}, fmt.Errorf("sample rows: %w", err)
	}
	return Summary{SchemaText: strings.Join(lines, "\n"), SampleText: sb.String()}, nil
}

// Line formats one column as "name (type) - Missing: x.x% - Samples: a, b, c".
func Line(c dataset.Column, rows int) string {
	pct := 0.0
	if rows > 0 {
		pct = 100 * float64(c.MissingCount()) / float64(rows)
	}
	return fmt.Sprintf("%s (%s) - Missing: %.1f%% - Samples: %s",
		c.Name, c.Type(), pct, strings.Join(Samples(c, maxSamples), ", "))
}

// Samples returns up to n distinct non-missing values in first-seen order.
func Samples(c dataset.Column, n int) []string {
	out := make([]string, 0, n)
	seen := make(map[string]struct{}, n)
	for _, v := range c.Values {
		if len(out) >= n {
			break
		}
		if v.IsMissing() {
			continue
		}
		if _, dup := seen[v.Key()]; dup {
			continue
		}
		seen[v.Key()] = struct{}{}
		out = append(out, v.String())
	}
	return out
}
