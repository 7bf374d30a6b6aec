package dashboard

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/agenthub-cli/internal/chart"
	"github.com/KaramelBytes/agenthub-cli/internal/classify"
	"github.com/KaramelBytes/agenthub-cli/internal/dataset"
	"github.com/KaramelBytes/agenthub-cli/internal/testutil"
)

const sampleCSV = `Date,Location,DataValue
2024-01-01,Paris,10
2024-01-02,Lyon,12.5
2024-01-03,Paris,7
2024-01-04,Nice,3
2024-01-05,Lyon,8
`

func load(t *testing.T, in string) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.ReadCSV(strings.NewReader(in), dataset.DefaultLoadOptions())
	require.NoError(t, err)
	return ds
}

func TestComposeSampleDataset(t *testing.T) {
	d := New(nil, testutil.NewTestLogger(t)).Compose(load(t, sampleCSV))
	assert.Equal(t, []string{"Date"}, d.Temporal)
	assert.Equal(t, []string{"Location"}, d.Categorical)
	assert.Equal(t, []string{"DataValue"}, d.Numeric)
	require.Len(t, d.Charts, 3)

	line, bar, hist := d.Charts[0], d.Charts[1], d.Charts[2]
	assert.Equal(t, chart.MarkLine, line.Mark)
	assert.Equal(t, "Date", line.Encoding.X.Field)
	assert.Equal(t, "DataValue", line.Encoding.Y.Field)

	assert.Equal(t, chart.MarkBar, bar.Mark)
	assert.Equal(t, "Location", bar.Encoding.Y.Field)
	assert.Equal(t, "Mean DataValue", bar.Encoding.X.Title)
	assert.Len(t, bar.Data.Values, 3)

	require.NotNil(t, hist.Encoding.X.Bin)
	assert.Equal(t, 30, hist.Encoding.X.Bin.MaxBins)
	assert.Empty(t, d.Skipped)
}

func TestComposeOmitsChartsWithoutPrerequisites(t *testing.T) {
	cases := []struct {
		name  string
		csv   string
		marks []string
	}{
		{"numeric only", "a\n1\n2\n", []string{"histogram"}},
		{"categorical and numeric", "c,a\nx,1\ny,2\n", []string{"bar", "histogram"}},
		{"temporal and numeric", "d,a\n2024-01-01,1\n2024-01-02,2\n", []string{"line", "histogram"}},
		{"no numeric", "d,c\n2024-01-01,x\n2024-01-02,y\n", nil},
		{"no rows", "a,b\n", nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := New(nil, testutil.NewTestLogger(t)).Compose(load(t, tc.csv))
			var got []string
			for _, c := range d.Charts {
				got = append(got, kind(c))
			}
			assert.Equal(t, tc.marks, got)
			assert.NotNil(t, d.Charts)
		})
	}
}

func TestComposeUsesFirstColumnsInOrder(t *testing.T) {
	in := "z_cat,b_num,a_num,y_cat\nq,1,100,r\nw,2,200,s\n"
	d := New(nil, nil).Compose(load(t, in))
	require.Len(t, d.Charts, 2)
	assert.Equal(t, "z_cat", d.Charts[0].Encoding.Y.Field)
	assert.Equal(t, "b_num", d.Charts[1].Encoding.X.Field)
}

func TestComposeNilDatasetIsEmpty(t *testing.T) {
	logger, buf := testutil.NewCaptureLogger()
	d := New(&classify.NameHeuristicClassifier{}, logger).Compose(nil)
	assert.Empty(t, d.Charts)
	assert.Contains(t, buf.String(), "classification failed")
}

type fixedClassifier struct{ res *classify.Result }

func (f fixedClassifier) Classify(*dataset.Dataset) (*classify.Result, error) { return f.res, nil }

func TestComposeSkipsFailingChart(t *testing.T) {
	ds := load(t, "t,n\nsoon,1\nlater,2\n")
	// The numeric role names a column that does not exist, so every chart fails.
	res := &classify.Result{Working: ds, Temporal: []string{"t"}, Numeric: []string{"missing"}}
	logger, buf := testutil.NewCaptureLogger()
	d := New(fixedClassifier{res}, logger).Compose(ds)
	assert.Empty(t, d.Charts)
	require.Len(t, d.Skipped, 2)
	assert.True(t, strings.HasPrefix(d.Skipped[0], "line:"))
	assert.True(t, strings.HasPrefix(d.Skipped[1], "histogram:"))
	assert.Contains(t, buf.String(), "chart skipped")
}

func TestComposeHonorsTopNAndBins(t *testing.T) {
	c := &Composer{TopN: 1, Bins: 12}
	d := c.Compose(load(t, sampleCSV))
	require.Len(t, d.Charts, 3)
	assert.Len(t, d.Charts[1].Data.Values, 1)
	assert.Equal(t, 12, d.Charts[2].Encoding.X.Bin.MaxBins)
}

func kind(s chart.Spec) string {
	if s.Encoding.X != nil && s.Encoding.X.Bin != nil {
		return "histogram"
	}
	return s.Mark
}

func TestComposeWithInfiniteValuesMarshals(t *testing.T) {
	ds := load(t, "Location,DataValue\nA,1\nB,inf\nA,3\n")
	d := New(nil, testutil.NewTestLogger(t)).Compose(ds)
	require.Len(t, d.Charts, 2)
	_, err := json.Marshal(d)
	require.NoError(t, err)
}
