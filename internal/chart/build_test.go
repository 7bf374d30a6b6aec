package chart

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/agenthub-cli/internal/dataset"
)

func nums(fs ...float64) []dataset.Value {
	out := make([]dataset.Value, len(fs))
	for i, f := range fs {
		out[i] = dataset.Number(f)
	}
	return out
}

func texts(ss ...string) []dataset.Value {
	out := make([]dataset.Value, len(ss))
	for i, s := range ss {
		out[i] = dataset.ParseToken(s)
	}
	return out
}

func day(d int) dataset.Value {
	return dataset.Timestamp(time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC))
}

func TestBuildBarSumTieKeepsFirstSeenOrder(t *testing.T) {
	ds := dataset.MustNew(
		dataset.Column{Name: "C", Values: texts("A", "A", "B")},
		dataset.Column{Name: "V", Values: nums(1, 2, 3)},
	)
	spec, err := BuildBar(ds, "C", "V", 10, AggSum)
	require.NoError(t, err)
	require.Len(t, spec.Data.Values, 2)
	assert.Equal(t, map[string]any{"C": "A", "V": 3.0}, spec.Data.Values[0])
	assert.Equal(t, map[string]any{"C": "B", "V": 3.0}, spec.Data.Values[1])
	assert.Equal(t, MarkBar, spec.Mark)
	assert.Equal(t, Quantitative, spec.Encoding.X.Type)
	assert.Equal(t, "Sum V", spec.Encoding.X.Title)
	assert.Equal(t, Nominal, spec.Encoding.Y.Type)
	assert.Equal(t, "-x", spec.Encoding.Y.Sort)
}

func TestBuildBarMeanTopN(t *testing.T) {
	ds := dataset.MustNew(
		dataset.Column{Name: "C", Values: texts("a", "b", "c", "a", "", "d")},
		dataset.Column{Name: "V", Values: nums(1, 5, 3, 3, 100, 4)},
	)
	spec, err := BuildBar(ds, "C", "V", 2, AggMean)
	require.NoError(t, err)
	require.Len(t, spec.Data.Values, 2)
	assert.Equal(t, "b", spec.Data.Values[0]["C"])
	assert.Equal(t, "d", spec.Data.Values[1]["C"], "missing category must be dropped")
}

func TestBuildBarDefaults(t *testing.T) {
	cats := make([]string, 15)
	vals := make([]float64, 15)
	for i := range cats {
		cats[i] = string(rune('a' + i))
		vals[i] = float64(i)
	}
	ds := dataset.MustNew(
		dataset.Column{Name: "C", Values: texts(cats...)},
		dataset.Column{Name: "V", Values: nums(vals...)},
	)
	spec, err := BuildBar(ds, "C", "V", 0, "")
	require.NoError(t, err)
	assert.Len(t, spec.Data.Values, DefaultTopN)
	assert.Equal(t, "o", spec.Data.Values[0]["C"])
}

func TestBuildBarRejectsAggregate(t *testing.T) {
	ds := dataset.MustNew(
		dataset.Column{Name: "C", Values: texts("a")},
		dataset.Column{Name: "V", Values: nums(1)},
	)
	_, err := BuildBar(ds, "C", "V", 10, "median")
	assert.ErrorIs(t, err, ErrUnsupportedAggregate)

	_, err = ParseAggregate("max")
	assert.ErrorIs(t, err, ErrUnsupportedAggregate)
	agg, err := ParseAggregate("SUM")
	require.NoError(t, err)
	assert.Equal(t, AggSum, agg)
}

func TestBuildLineSortsAndAverages(t *testing.T) {
	ds := dataset.MustNew(
		dataset.Column{Name: "when", Values: []dataset.Value{day(3), day(1), day(3), dataset.Missing(), day(2)}},
		dataset.Column{Name: "v", Values: nums(4, 1, 6, 50, 2)},
	)
	spec, err := BuildLine(ds, "when", "v")
	require.NoError(t, err)
	require.Len(t, spec.Data.Values, 3)
	assert.Equal(t, "2024-01-01T00:00:00Z", spec.Data.Values[0]["when"])
	assert.Equal(t, "2024-01-02T00:00:00Z", spec.Data.Values[1]["when"])
	assert.Equal(t, map[string]any{"when": "2024-01-03T00:00:00Z", "v": 5.0}, spec.Data.Values[2])
	assert.Equal(t, Temporal, spec.Encoding.X.Type)
	assert.Equal(t, "Mean v", spec.Encoding.Y.Title)
	assert.Equal(t, DefaultHeight, spec.Height)
}

func TestBuildLineParsesTextTimes(t *testing.T) {
	ds := dataset.MustNew(
		dataset.Column{Name: "d", Values: texts("2024-02-02", "2024-02-01")},
		dataset.Column{Name: "v", Values: texts("2", "1")},
	)
	spec, err := BuildLine(ds, "d", "v")
	require.NoError(t, err)
	assert.Equal(t, "2024-02-01T00:00:00Z", spec.Data.Values[0]["d"])
	assert.Equal(t, 1.0, spec.Data.Values[0]["v"])
}

func TestBuildHistogram(t *testing.T) {
	ds := dataset.MustNew(dataset.Column{Name: "v", Values: []dataset.Value{
		dataset.Number(1), dataset.Missing(), dataset.Text("x"), dataset.Number(2.5),
	}})
	spec, err := BuildHistogram(ds, "v", 0)
	require.NoError(t, err)
	assert.Len(t, spec.Data.Values, 2)
	require.NotNil(t, spec.Encoding.X.Bin)
	assert.Equal(t, DefaultBins, spec.Encoding.X.Bin.MaxBins)
	assert.Equal(t, "count", spec.Encoding.Y.Aggregate)

	b, err := json.Marshal(spec)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"bin":{"maxbins":30}`)
	assert.Contains(t, string(b), `"$schema":"`+SchemaURL+`"`)
	assert.NotContains(t, string(b), `"field":""`)
}

func TestClampBins(t *testing.T) {
	assert.Equal(t, DefaultBins, ClampBins(0))
	assert.Equal(t, MinBins, ClampBins(2))
	assert.Equal(t, MinBins, ClampBins(-4))
	assert.Equal(t, 42, ClampBins(42))
	assert.Equal(t, MaxBins, ClampBins(500))
}

func TestHistogramOnAllMissingColumn(t *testing.T) {
	ds := dataset.MustNew(dataset.Column{Name: "X", Values: texts("", "NA", "")})
	_, err := BuildHistogram(ds, "X", 30)
	var ice *InvalidColumnError
	require.True(t, errors.As(err, &ice))
	assert.Equal(t, "X", ice.Column)
}

func TestBuildersRejectMissingColumnsAndEmptyData(t *testing.T) {
	ds := dataset.MustNew(
		dataset.Column{Name: "a", Values: texts("x")},
		dataset.Column{Name: "b", Values: nums(1)},
	)
	var ice *InvalidColumnError

	_, err := BuildLine(ds, "nope", "b")
	require.True(t, errors.As(err, &ice))
	assert.Equal(t, "nope", ice.Column)
	_, err = BuildBar(ds, "a", "nope", 5, AggMean)
	require.True(t, errors.As(err, &ice))
	_, err = BuildHistogram(ds, "nope", 10)
	require.True(t, errors.As(err, &ice))

	empty := dataset.MustNew(dataset.Column{Name: "a"}, dataset.Column{Name: "b"})
	_, err = BuildLine(empty, "a", "b")
	assert.ErrorIs(t, err, ErrEmptyDataset)
	_, err = BuildBar(nil, "a", "b", 5, AggMean)
	assert.ErrorIs(t, err, ErrEmptyDataset)
	_, err = BuildHistogram(dataset.MustNew(), "a", 5)
	assert.ErrorIs(t, err, ErrEmptyDataset)
}

func TestSpecDoesNotAliasDataset(t *testing.T) {
	ds := dataset.MustNew(
		dataset.Column{Name: "C", Values: texts("a")},
		dataset.Column{Name: "V", Values: nums(1)},
	)
	spec, err := BuildBar(ds, "C", "V", 5, AggSum)
	require.NoError(t, err)
	require.NoError(t, ds.SetValues("V", nums(99)))
	assert.Equal(t, 1.0, spec.Data.Values[0]["V"])
}

func TestDescribe(t *testing.T) {
	ds := dataset.MustNew(
		dataset.Column{Name: "C", Values: texts("a")},
		dataset.Column{Name: "V", Values: nums(1)},
	)
	bar, _ := BuildBar(ds, "C", "V", 5, AggMean)
	hist, _ := BuildHistogram(ds, "V", 5)
	assert.Equal(t, "Bar chart of V by C", bar.Describe())
	assert.Equal(t, "Histogram of V", hist.Describe())
}

func TestBuildersDropNonFiniteAggregates(t *testing.T) {
	ds, err := dataset.ReadCSV(strings.NewReader(
		"Date,Location,DataValue\n2024-01-01,A,1\n2024-01-02,B,inf\n2024-01-01,A,3\n2024-01-03,C,-inf\n2024-01-04,D,1e308\n2024-01-04,D,1e308\n",
	), dataset.DefaultLoadOptions())
	require.NoError(t, err)

	bar, err := BuildBar(ds, "Location", "DataValue", 10, AggSum)
	require.NoError(t, err)
	require.Len(t, bar.Data.Values, 1)
	assert.Equal(t, "A", bar.Data.Values[0]["Location"])
	_, err = json.Marshal(bar)
	require.NoError(t, err)

	line, err := BuildLine(ds, "Date", "DataValue")
	require.NoError(t, err)
	require.Len(t, line.Data.Values, 1)
	assert.Equal(t, 2.0, line.Data.Values[0]["DataValue"])
	_, err = json.Marshal(line)
	require.NoError(t, err)

	hist, err := BuildHistogram(ds, "DataValue", 0)
	require.NoError(t, err)
	assert.Len(t, hist.Data.Values, 4)
	_, err = json.Marshal(hist)
	require.NoError(t, err)
}
