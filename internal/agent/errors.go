package agent

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidRequest marks requests an agent cannot interpret, such as
// sample rows that are not CSV.
var ErrInvalidRequest = errors.New("invalid agent request")

// UpstreamError reports a failed call to a remote agent: the endpoint was
// unreachable, timed out, or answered with a non-2xx status.
type UpstreamError struct {
	Endpoint   string
	StatusCode int
	Message    string
	RequestID  string
	RetryAfter time.Duration
	Err        error
}

func (e *UpstreamError) Error() string {
	if e == nil {
		return "upstream agent error"
	}
	msg := "upstream agent error"
	if e.StatusCode > 0 {
		msg = fmt.Sprintf("%s: status=%d", msg, e.StatusCode)
	} else if e.Endpoint != "" {
		msg = fmt.Sprintf("%s: endpoint unreachable at %s", msg, e.Endpoint)
	}
	if e.RequestID != "" {
		msg += " request_id=" + e.RequestID
	}
	if e.Message != "" {
		msg += " message=" + e.Message
	}
	if e.RetryAfter > 0 {
		msg += fmt.Sprintf(" retry_after=%ds", int(e.RetryAfter.Seconds()))
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// Retryable reports whether the failure is worth another attempt.
func (e *UpstreamError) Retryable() bool {
	return e.StatusCode == 0 || e.StatusCode == 429 || (e.StatusCode >= 500 && e.StatusCode <= 599)
}

// MalformedResponseError reports an agent body that is not a JSON object.
type MalformedResponseError struct {
	RequestID string
	Body      string
	Err       error
}

func (e *MalformedResponseError) Error() string {
	if e.RequestID != "" {
		return fmt.Sprintf("malformed agent response (request_id=%s): %v", e.RequestID, e.Err)
	}
	return fmt.Sprintf("malformed agent response: %v", e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }
