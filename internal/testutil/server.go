package testutil

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"syscall"
	"testing"
	"time"
)

// IPv4Server is an HTTP test server bound to 127.0.0.1. Some sandboxes
// refuse the [::1] listener httptest picks.
type IPv4Server struct {
	URL string
	srv *http.Server
	ln  net.Listener
}

// NewIPv4Server starts handler on an ephemeral loopback port and closes it
// when the test ends. The test is skipped when listening is not permitted.
func NewIPv4Server(t *testing.T, handler http.Handler) *IPv4Server {
	t.Helper()
	ln, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		if errors.Is(err, syscall.EACCES) || errors.Is(err, syscall.EPERM) {
			t.Skipf("skipping test: cannot open local listener (%v)", err)
		}
		t.Fatalf("listen tcp4: %v", err)
	}
	s := &IPv4Server{URL: "http://" + ln.Addr().String(), srv: &http.Server{Handler: handler}, ln: ln}
	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			panic(fmt.Sprintf("test server serve: %v", err))
		}
	}()
	t.Cleanup(s.Close)
	return s
}

// Close shuts the server down.
func (s *IPv4Server) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_ = s.srv.Shutdown(ctx)
}
