// Package dashboard composes the default set of charts for a dataset.
package dashboard

import (
	"log/slog"

	"github.com/KaramelBytes/agenthub-cli/internal/chart"
	"github.com/KaramelBytes/agenthub-cli/internal/classify"
	"github.com/KaramelBytes/agenthub-cli/internal/dataset"
)

// Dashboard is an ordered list of at most three charts plus the role sets
// they were derived from.
type Dashboard struct {
	Charts      []chart.Spec `json:"charts"`
	Numeric     []string     `json:"numeric"`
	Categorical []string     `json:"categorical"`
	Temporal    []string     `json:"temporal"`
	// Skipped describes charts that qualified but failed to build.
	Skipped []string `json:"skipped,omitempty"`
}

// Composer builds dashboards. The zero value is usable and classifies with
// the value-based strategy.
type Composer struct {
	Classifier classify.ColumnClassifier
	Logger     *slog.Logger
	TopN       int
	Bins       int
}

// New returns a Composer using c and logging to logger. Nil arguments fall
// back to defaults.
func New(c classify.ColumnClassifier, logger *slog.Logger) *Composer {
	return &Composer{Classifier: c, Logger: logger}
}

// Compose classifies ds once and appends, in order, a line chart (first
// temporal by first numeric), a bar chart (first categorical by first
// numeric, mean) and a histogram (first numeric). A chart whose columns are
// absent is omitted; one that fails to build is logged and skipped.
func (c *Composer) Compose(ds *dataset.Dataset) Dashboard {
	logger := c.logger()
	out := Dashboard{Charts: []chart.Spec{}}
	res, err := c.classifier().Classify(ds)
	if err != nil {
		logger.Warn("classification failed", "error", err)
		return out
	}
	out.Numeric, out.Categorical, out.Temporal = res.Numeric, res.Categorical, res.Temporal
	work := res.Working

	add := func(kind string, build func() (*chart.Spec, error)) {
		spec, err := build()
		if err != nil {
			logger.Warn("chart skipped", "chart", kind, "error", err)
			out.Skipped = append(out.Skipped, kind+": "+err.Error())
			return
		}
		out.Charts = append(out.Charts, *spec)
	}

	if len(res.Numeric) == 0 {
		logger.Debug("no numeric columns, dashboard empty")
		return out
	}
	num := res.Numeric[0]
	if len(res.Temporal) > 0 {
		add("line", func() (*chart.Spec, error) { return chart.BuildLine(work, res.Temporal[0], num) })
	}
	if len(res.Categorical) > 0 {
		add("bar", func() (*chart.Spec, error) {
			return chart.BuildBar(work, res.Categorical[0], num, c.topN(), chart.AggMean)
		})
	}
	add("histogram", func() (*chart.Spec, error) { return chart.BuildHistogram(work, num, c.bins()) })

	logger.Debug("dashboard composed", "charts", len(out.Charts), "skipped", len(out.Skipped))
	return out
}

func (c *Composer) classifier() classify.ColumnClassifier {
	if c.Classifier == nil {
		return &classify.ValueBasedClassifier{}
	}
	return c.Classifier
}

func (c *Composer) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.Logger
}

func (c *Composer) topN() int {
	if c.TopN <= 0 {
		return chart.DefaultTopN
	}
	return c.TopN
}

func (c *Composer) bins() int {
	if c.Bins <= 0 {
		return chart.DefaultBins
	}
	return c.Bins
}
