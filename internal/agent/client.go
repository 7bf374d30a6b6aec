package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// DefaultEndpoint is the agent URL used when none is configured.
const DefaultEndpoint = "http://localhost:8000/agent"

// maxBody caps how much of an agent response is read.
const maxBody = 8 << 20

// Client calls a remote agent over HTTP with retry and backoff.
type Client struct {
	httpClient       *http.Client
	endpoint         string
	retryMaxAttempts int
	retryBaseDelay   time.Duration
	retryMaxDelay    time.Duration
	sleep            func(context.Context, time.Duration) error
}

// NewClient returns a client for endpoint. Non-positive values select the
// defaults: 60s timeout, 3 attempts, 500ms base delay capped at 4s.
func NewClient(endpoint string, httpTimeout time.Duration, retryMax int, baseDelay, maxDelay time.Duration) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if httpTimeout <= 0 {
		httpTimeout = 60 * time.Second
	}
	if retryMax <= 0 {
		retryMax = 3
	}
	if baseDelay <= 0 {
		baseDelay = 500 * time.Millisecond
	}
	if maxDelay <= 0 {
		maxDelay = 4 * time.Second
	}
	return &Client{
		httpClient:       &http.Client{Timeout: httpTimeout},
		endpoint:         endpoint,
		retryMaxAttempts: retryMax,
		retryBaseDelay:   baseDelay,
		retryMaxDelay:    maxDelay,
		sleep:            sleepCtx,
	}
}

// Endpoint returns the URL the client posts to.
func (c *Client) Endpoint() string { return c.endpoint }

// Analyze posts req and decodes the agent's answer. All attempts share one
// X-Request-Id so retries can be correlated upstream.
func (c *Client) Analyze(ctx context.Context, req Request) (*Response, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	requestID := uuid.NewString()
	backoff := c.retryBaseDelay

	var lastErr error
	for attempt := 1; attempt <= c.retryMaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		resp, err := c.do(ctx, payload, requestID)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		var up *UpstreamError
		if !errors.As(err, &up) || !up.Retryable() || attempt == c.retryMaxAttempts {
			break
		}
		if up.StatusCode == 0 && !isRetryableNetErr(up.Err) {
			break
		}
		wait := withJitter(backoff)
		if up.RetryAfter > 0 {
			wait = up.RetryAfter
		}
		if c.retryMaxDelay > 0 && wait > c.retryMaxDelay {
			wait = c.retryMaxDelay
		}
		if err := c.sleep(ctx, wait); err != nil {
			return nil, err
		}
		backoff *= 2
	}
	return nil, lastErr
}

func (c *Client) do(ctx context.Context, payload []byte, requestID string) (*Response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-Id", requestID)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &UpstreamError{Endpoint: c.endpoint, RequestID: requestID, Err: err}
	}
	defer resp.Body.Close()

	if rid := extractRequestID(resp); rid != "" {
		requestID = rid
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 8<<10))
		up := &UpstreamError{
			Endpoint:   c.endpoint,
			StatusCode: resp.StatusCode,
			RequestID:  requestID,
			Message:    errorMessage(body),
		}
		if ra := resp.Header.Get("Retry-After"); ra != "" {
			if secs, err := parseRetryAfterSeconds(ra); err == nil && secs > 0 {
				up.RetryAfter = time.Duration(secs) * time.Second
			}
		}
		return nil, up
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, &UpstreamError{Endpoint: c.endpoint, StatusCode: resp.StatusCode, RequestID: requestID, Err: fmt.Errorf("read body: %w", err)}
	}
	out, err := DecodeResponse(body)
	if err != nil {
		var mal *MalformedResponseError
		if errors.As(err, &mal) {
			mal.RequestID = requestID
		}
		return nil, err
	}
	return out, nil
}

// errorMessage pulls a message from {"error": "..."}, {"error": {"message":
// "..."}}, {"message": "..."} or FastAPI's {"detail": "..."}.
func errorMessage(body []byte) string {
	var raw map[string]any
	if json.Unmarshal(body, &raw) != nil {
		return ""
	}
	switch v := raw["error"].(type) {
	case string:
		return v
	case map[string]any:
		if msg, ok := v["message"].(string); ok {
			return msg
		}
	}
	for _, k := range []string{"message", "detail"} {
		if msg, ok := raw[k].(string); ok {
			return msg
		}
	}
	return ""
}

func isRetryableNetErr(err error) bool {
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return true
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr) && opErr.Op == "dial"
}

// parseRetryAfterSeconds interprets a Retry-After value as seconds or an HTTP date.
func parseRetryAfterSeconds(v string) (int, error) {
	if s, err := strconv.Atoi(v); err == nil {
		return s, nil
	}
	if t, err := http.ParseTime(v); err == nil {
		d := time.Until(t)
		if d < 0 {
			d = 0
		}
		return int(d.Seconds()), nil
	}
	return 0, fmt.Errorf("invalid Retry-After: %q", v)
}

// extractRequestID pulls a best-effort request ID from common headers.
func extractRequestID(resp *http.Response) string {
	if resp == nil {
		return ""
	}
	for _, k := range []string{"X-Request-Id", "X-Amzn-Requestid", "X-Correlation-Id"} {
		if v := resp.Header.Get(k); v != "" {
			return v
		}
	}
	return ""
}

// withJitter returns d with +/- 20% jitter applied.
func withJitter(d time.Duration) time.Duration {
	if d <= 0 {
		return 500 * time.Millisecond
	}
	f := 0.8 + rand.Float64()*0.4
	out := time.Duration(float64(d) * f)
	if out <= 0 {
		return d
	}
	return out
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
