// Package chart builds declarative Vega-Lite chart specifications with the
// plotted rows embedded by value.
package chart

// SchemaURL is the Vega-Lite schema every spec declares.
const SchemaURL = "https://vega.github.io/schema/vega-lite/v5.json"

const (
	DefaultHeight = 300
	DefaultTopN   = 10
	DefaultBins   = 30
	MinBins       = 5
	MaxBins       = 60
)

// Marks.
const (
	MarkLine = "line"
	MarkBar  = "bar"
)

// Encoding types.
const (
	Nominal      = "nominal"
	Quantitative = "quantitative"
	Temporal     = "temporal"
)

// Spec is one chart. It holds no reference to the dataset it came from.
type Spec struct {
	Schema   string   `json:"$schema"`
	Title    string   `json:"title,omitempty"`
	Mark     string   `json:"mark"`
	Data     Data     `json:"data"`
	Encoding Encoding `json:"encoding"`
	Height   int      `json:"height"`
}

// Data carries the inline rows. Every value is JSON-native.
type Data struct {
	Values []map[string]any `json:"values"`
}

// Encoding maps channels to fields.
type Encoding struct {
	X       *FieldDef  `json:"x,omitempty"`
	Y       *FieldDef  `json:"y,omitempty"`
	Tooltip []FieldDef `json:"tooltip,omitempty"`
}

// FieldDef describes one channel.
type FieldDef struct {
	Field     string `json:"field,omitempty"`
	Type      string `json:"type"`
	Title     string `json:"title,omitempty"`
	Aggregate string `json:"aggregate,omitempty"`
	Bin       *Bin   `json:"bin,omitempty"`
	Sort      string `json:"sort,omitempty"`
}

// Bin is the declarative binning directive.
type Bin struct {
	MaxBins int `json:"maxbins"`
}

// Describe returns a short human-readable description of the chart.
func (s Spec) Describe() string {
	x, y := s.Encoding.X, s.Encoding.Y
	switch {
	case x != nil && x.Bin != nil:
		return "Histogram of " + x.Field
	case s.Mark == MarkLine && x != nil && y != nil:
		return "Line chart of " + y.Field + " over " + x.Field
	case s.Mark == MarkBar && x != nil && y != nil:
		return "Bar chart of " + x.Field + " by " + y.Field
	}
	return s.Mark + " chart"
}
