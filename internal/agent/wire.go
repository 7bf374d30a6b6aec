package agent

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/KaramelBytes/agenthub-cli/internal/chart"
)

// Request is the payload sent to an agent.
type Request struct {
	SchemaDescription string `json:"schema_description"`
	SampleRows        string `json:"sample_rows"`
}

// Response is what an agent answers. Decoding is tolerant: absent or
// wrong-typed fields become empty defaults instead of errors.
type Response struct {
	Summary          string       `json:"summary"`
	SuggestedVisuals []string     `json:"suggested_visuals"`
	ChartSpecs       []chart.Spec `json:"chart_specs"`
}

// EmptyResponse is the deterministic fallback answer.
func EmptyResponse() *Response {
	return &Response{SuggestedVisuals: []string{}, ChartSpecs: []chart.Spec{}}
}

// MarshalJSON always emits lists, never null.
func (r Response) MarshalJSON() ([]byte, error) {
	type plain Response
	p := plain(r)
	if p.SuggestedVisuals == nil {
		p.SuggestedVisuals = []string{}
	}
	if p.ChartSpecs == nil {
		p.ChartSpecs = []chart.Spec{}
	}
	return json.Marshal(p)
}

// UnmarshalJSON accepts any JSON object. A string summary is kept; visuals
// may be a list (non-strings dropped) or a single string; chart specs that
// are not well-formed objects are skipped.
func (r *Response) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	out := EmptyResponse()
	if raw, ok := fields["summary"]; ok {
		var s string
		if json.Unmarshal(raw, &s) == nil {
			out.Summary = s
		}
	}
	if raw, ok := fields["suggested_visuals"]; ok {
		out.SuggestedVisuals = decodeVisuals(raw)
	}
	if raw, ok := fields["chart_specs"]; ok {
		out.ChartSpecs = decodeSpecs(raw)
	}
	*r = *out
	return nil
}

func decodeVisuals(raw json.RawMessage) []string {
	out := []string{}
	var single string
	if json.Unmarshal(raw, &single) == nil {
		if single != "" {
			out = append(out, single)
		}
		return out
	}
	var items []json.RawMessage
	if json.Unmarshal(raw, &items) != nil {
		return out
	}
	for _, it := range items {
		var s string
		if bytes.Equal(bytes.TrimSpace(it), []byte("null")) {
			continue
		}
		if json.Unmarshal(it, &s) == nil {
			out = append(out, s)
		}
	}
	return out
}

func decodeSpecs(raw json.RawMessage) []chart.Spec {
	out := []chart.Spec{}
	var items []json.RawMessage
	if json.Unmarshal(raw, &items) != nil {
		return out
	}
	for _, it := range items {
		it = bytes.TrimSpace(it)
		if len(it) == 0 || it[0] != '{' {
			continue
		}
		var s chart.Spec
		if json.Unmarshal(it, &s) == nil {
			out = append(out, s)
		}
	}
	return out
}

// DecodeResponse parses an agent body. When the body is not a JSON object,
// the outermost {...} block embedded in it is tried, which covers models
// that wrap their JSON in prose or code fences.
func DecodeResponse(data []byte) (*Response, error) {
	var r Response
	trimmed := bytes.TrimSpace(data)
	err := errors.New("body is not a JSON object")
	if len(trimmed) > 0 && trimmed[0] == '{' {
		if err = json.Unmarshal(trimmed, &r); err == nil {
			return &r, nil
		}
	}
	if block := extractObject(trimmed); block != nil {
		if json.Unmarshal(block, &r) == nil {
			return &r, nil
		}
	}
	return nil, &MalformedResponseError{Body: truncate(data, 256), Err: err}
}

func extractObject(data []byte) []byte {
	start := bytes.IndexByte(data, '{')
	end := bytes.LastIndexByte(data, '}')
	if start < 0 || end <= start {
		return nil
	}
	return data[start : end+1]
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
