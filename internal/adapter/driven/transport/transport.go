// Package transport provides http.RoundTripper wrappers shared by the
// outbound API clients.
package transport

import (
	"log/slog"
	"net/http"
	"time"
)

// loggingTransport logs each outbound request with method, host, path,
// status, and duration.
type loggingTransport struct {
	next   http.RoundTripper
	logger *slog.Logger
}

// NewLogging wraps next so every request is logged at debug level. A nil next
// uses http.DefaultTransport; a nil logger uses slog.Default().
func NewLogging(next http.RoundTripper, logger *slog.Logger) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &loggingTransport{next: next, logger: logger}
}

// RoundTrip implements http.RoundTripper.
func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	resp, err := t.next.RoundTrip(req)

	attrs := []any{
		"method", req.Method,
		"host", req.URL.Host,
		"path", req.URL.Path,
		"duration", time.Since(start).Round(time.Microsecond),
	}
	if err != nil {
		t.logger.Debug("api request failed", append(attrs, "error", err)...)
		return nil, err
	}

	t.logger.Debug("api request", append(attrs, "status", resp.StatusCode)...)
	return resp, nil
}

// NewLoggingClient returns an http.Client whose transport logs through logger.
func NewLoggingClient(logger *slog.Logger) *http.Client {
	return &http.Client{Transport: NewLogging(nil, logger)}
}
