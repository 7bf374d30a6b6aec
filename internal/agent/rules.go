package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/KaramelBytes/agenthub-cli/internal/classify"
	"github.com/KaramelBytes/agenthub-cli/internal/dashboard"
	"github.com/KaramelBytes/agenthub-cli/internal/dataset"
)

var defaultVisuals = []string{
	"Histogram of a numeric column",
	"Bar chart of counts by category",
}

// RuleBased runs the local classify and compose pipeline over the sample
// rows of a request. It ignores the schema description.
type RuleBased struct {
	Classifier classify.ColumnClassifier
	TopN       int
	Bins       int
	Logger     *slog.Logger
}

// Analyze implements Agent.
func (a *RuleBased) Analyze(ctx context.Context, req Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ds, err := dataset.ReadCSV(strings.NewReader(req.SampleRows), dataset.DefaultLoadOptions())
	if err != nil {
		return nil, fmt.Errorf("%w: sample rows: %v", ErrInvalidRequest, err)
	}
	comp := &dashboard.Composer{Classifier: a.Classifier, Logger: a.Logger, TopN: a.TopN, Bins: a.Bins}
	d := comp.Compose(ds)

	resp := EmptyResponse()
	resp.ChartSpecs = append(resp.ChartSpecs, d.Charts...)
	for _, s := range d.Charts {
		resp.SuggestedVisuals = append(resp.SuggestedVisuals, s.Describe())
	}
	if len(resp.SuggestedVisuals) == 0 {
		resp.SuggestedVisuals = append(resp.SuggestedVisuals, defaultVisuals...)
	}
	resp.Summary = fmt.Sprintf(
		"Detected %d columns and %d rows. Temporal: %s, Numeric: %s, Categorical: %s. "+
			"Generated chart specs based on the detected column types.",
		ds.NumCols(), ds.NumRows(), listOrNone(d.Temporal), listOrNone(d.Numeric), listOrNone(d.Categorical))
	return resp, nil
}

func listOrNone(names []string) string {
	if len(names) == 0 {
		return "none"
	}
	return "[" + strings.Join(names, ", ") + "]"
}

var _ Agent = (*RuleBased)(nil)
