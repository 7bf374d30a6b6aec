package agent

import (
	"context"
	"errors"
	"log/slog"
)

type fallback struct {
	primary Agent
	logger  *slog.Logger
}

// WithFallback wraps primary so that any failure is logged and answered
// with EmptyResponse. The returned Agent never returns an error.
func WithFallback(primary Agent, logger *slog.Logger) Agent {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &fallback{primary: primary, logger: logger}
}

func (f *fallback) Analyze(ctx context.Context, req Request) (*Response, error) {
	resp, err := f.primary.Analyze(ctx, req)
	if err == nil && resp != nil {
		return resp, nil
	}
	attrs := []any{"error", err}
	var up *UpstreamError
	var mal *MalformedResponseError
	switch {
	case errors.As(err, &up):
		attrs = append(attrs, "kind", "upstream", "status", up.StatusCode, "request_id", up.RequestID)
	case errors.As(err, &mal):
		attrs = append(attrs, "kind", "malformed", "request_id", mal.RequestID)
	}
	f.logger.Warn("agent call failed, using empty response", attrs...)
	return EmptyResponse(), nil
}
