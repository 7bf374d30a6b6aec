package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/agenthub-cli/internal/chart"
	"github.com/KaramelBytes/agenthub-cli/internal/classify"
	"github.com/KaramelBytes/agenthub-cli/internal/testutil"
)

const sampleRows = `Date,Location,DataValue
2024-01-01,Paris,10
2024-01-02,Lyon,12.5
2024-01-03,Paris,7
2024-01-04,Nice,3
2024-01-05,Lyon,8
`

func TestRuleBasedAnalyze(t *testing.T) {
	a := &RuleBased{Logger: testutil.NewTestLogger(t)}
	resp, err := a.Analyze(context.Background(), Request{SampleRows: sampleRows})
	require.NoError(t, err)
	assert.Equal(t,
		"Detected 3 columns and 5 rows. Temporal: [Date], Numeric: [DataValue], Categorical: [Location]. "+
			"Generated chart specs based on the detected column types.",
		resp.Summary)
	require.Len(t, resp.ChartSpecs, 3)
	assert.Equal(t, chart.MarkLine, resp.ChartSpecs[0].Mark)
	assert.Equal(t, []string{
		"Line chart of DataValue over Date",
		"Bar chart of DataValue by Location",
		"Histogram of DataValue",
	}, resp.SuggestedVisuals)
}

func TestRuleBasedNoChartsUsesDefaults(t *testing.T) {
	a := &RuleBased{}
	resp, err := a.Analyze(context.Background(), Request{SampleRows: "city\nParis\nLyon\n"})
	require.NoError(t, err)
	assert.Empty(t, resp.ChartSpecs)
	assert.Equal(t, defaultVisuals, resp.SuggestedVisuals)
	assert.Contains(t, resp.Summary, "Temporal: none, Numeric: none, Categorical: [city]")
}

func TestRuleBasedNameHeuristic(t *testing.T) {
	a := &RuleBased{Classifier: &classify.NameHeuristicClassifier{}}
	resp, err := a.Analyze(context.Background(), Request{SampleRows: "date,v\n1,2\n3,4\n"})
	require.NoError(t, err)
	assert.Contains(t, resp.Summary, "Temporal: [date], Numeric: [v]")
}

func TestRuleBasedRejectsBadCSV(t *testing.T) {
	_, err := (&RuleBased{}).Analyze(context.Background(), Request{SampleRows: "a,b\n\"unterminated\n"})
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestKeywordAgent(t *testing.T) {
	cases := []struct {
		schema string
		want   []string
	}{
		{"OrderDate (datetime) - Missing: 0.0%", []string{"Line chart of value over time"}},
		{"Latitude (float)\nSaleTime (text)", []string{"Line chart of value over time", "Map of metric by location"}},
		{"price (float)", keywordDefaults},
	}
	for _, tc := range cases {
		resp, err := Keyword{}.Analyze(context.Background(), Request{SchemaDescription: tc.schema})
		require.NoError(t, err)
		assert.Equal(t, tc.want, resp.SuggestedVisuals, tc.schema)
		assert.Equal(t, keywordSummary, resp.Summary)
		assert.Empty(t, resp.ChartSpecs)
	}
}

type failingAgent struct{ err error }

func (f failingAgent) Analyze(context.Context, Request) (*Response, error) { return nil, f.err }

func TestWithFallback(t *testing.T) {
	for _, err := range []error{
		&UpstreamError{StatusCode: 502, RequestID: "r1"},
		&MalformedResponseError{Err: errors.New("eof")},
		context.DeadlineExceeded,
	} {
		logger, buf := testutil.NewCaptureLogger()
		resp, got := WithFallback(failingAgent{err}, logger).Analyze(context.Background(), Request{})
		require.NoError(t, got)
		assert.Equal(t, EmptyResponse(), resp)
		assert.Contains(t, buf.String(), "agent call failed")
	}
}

func TestWithFallbackPassesThrough(t *testing.T) {
	resp, err := WithFallback(Keyword{}, nil).Analyze(context.Background(), Request{SchemaDescription: "date"})
	require.NoError(t, err)
	assert.Equal(t, keywordSummary, resp.Summary)
}

func TestRegistry(t *testing.T) {
	assert.Equal(t, []string{ProviderKeywords, ProviderRemote, ProviderRules}, Providers())

	a, ok := Get(ProviderRemote, Config{Endpoint: "http://example.test/agent"})
	require.True(t, ok)
	c, isClient := a.(*Client)
	require.True(t, isClient)
	assert.Equal(t, "http://example.test/agent", c.Endpoint())

	a, ok = Get(ProviderRules, Config{TopN: 3})
	require.True(t, ok)
	assert.Equal(t, 3, a.(*RuleBased).TopN)

	_, ok = Get("nope", Config{})
	assert.False(t, ok)
}
