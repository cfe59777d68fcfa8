package sdk

import (
	"log/slog"
	"net/http"
	"time"
)

type options struct {
	timeout      time.Duration
	maxAttempts  int
	initialDelay time.Duration
	httpClient   *http.Client
	logger       *slog.Logger
}

func defaultOptions() options {
	return options{
		timeout:      30 * time.Second,
		maxAttempts:  1,
		initialDelay: 500 * time.Millisecond,
	}
}

// Option configures the SDK clients.
type Option func(*options)

// WithTimeout sets the per-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithRetry configures retry behaviour. The default is a single attempt.
func WithRetry(maxAttempts int, initialDelay time.Duration) Option {
	return func(o *options) {
		o.maxAttempts = maxAttempts
		o.initialDelay = initialDelay
	}
}

// WithHTTPClient replaces the HTTP client used by Client.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// WithLogger sets the logger used to report absorbed failures.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}
