package agent

import (
	"context"
	"strings"
)

const keywordSummary = "This dataset appears to be tabular. Group by key categorical fields and examine trends over time. " +
	"Use filters for high-cardinality columns and handle missing values."

type keywordRule struct {
	words  []string
	visual string
}

var keywordRules = []keywordRule{
	{[]string{"date", "time"}, "Line chart of value over time"},
	{[]string{"location", "latitude", "longitude"}, "Map of metric by location"},
}

var keywordDefaults = []string{
	"Bar chart of a categorical column by a numeric metric",
	"Histogram of a numeric column",
}

// Keyword suggests visuals from words found in the schema description. It
// produces no chart specs.
type Keyword struct{}

// Analyze implements Agent.
func (Keyword) Analyze(ctx context.Context, req Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	schema := strings.ToLower(req.SchemaDescription)
	resp := EmptyResponse()
	resp.Summary = keywordSummary
	for _, r := range keywordRules {
		for _, w := range r.words {
			if strings.Contains(schema, w) {
				resp.SuggestedVisuals = append(resp.SuggestedVisuals, r.visual)
				break
			}
		}
	}
	if len(resp.SuggestedVisuals) == 0 {
		resp.SuggestedVisuals = append(resp.SuggestedVisuals, keywordDefaults...)
	}
	return resp, nil
}
