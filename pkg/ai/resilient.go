package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/felixgeelhaar/fortify/timeout"
	"github.com/felixgeelhaar/taskdesk/pkg/domain/ai"
)

// DefaultTimeout bounds a single completion when no timeout is configured.
const DefaultTimeout = 30 * time.Second

// ResilienceConfig controls how completions are bounded.
// Completions are never retried: a failed call goes straight to the caller's fallback.
type ResilienceConfig struct {
	Timeout time.Duration
}

// DefaultResilienceConfig returns the default bounds.
func DefaultResilienceConfig() ResilienceConfig {
	return ResilienceConfig{Timeout: DefaultTimeout}
}

// ResilientProvider bounds every completion of the wrapped provider in time.
type ResilientProvider struct {
	inner ai.Provider
	cfg   ResilienceConfig
}

func NewResilientProvider(inner ai.Provider) *ResilientProvider {
	return NewResilientProviderWithConfig(inner, DefaultResilienceConfig())
}

func NewResilientProviderWithConfig(inner ai.Provider, cfg ResilienceConfig) *ResilientProvider {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &ResilientProvider{inner: inner, cfg: cfg}
}

func (p *ResilientProvider) ID() string {
	return p.inner.ID()
}

// Timeout returns the configured per-call bound.
func (p *ResilientProvider) Timeout() time.Duration {
	return p.cfg.Timeout
}

func (p *ResilientProvider) Complete(ctx context.Context, req ai.CompletionRequest) (*ai.CompletionResponse, error) {
	t := timeout.New[*ai.CompletionResponse](timeout.Config{
		DefaultTimeout: p.cfg.Timeout,
	})

	start := time.Now()
	resp, err := t.Execute(ctx, p.cfg.Timeout, func(ctx context.Context) (*ai.CompletionResponse, error) {
		return p.inner.Complete(ctx, req)
	})
	if err == nil {
		return resp, nil
	}

	// The caller giving up is not a timeout of ours.
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if errors.Is(err, context.DeadlineExceeded) || time.Since(start) >= p.cfg.Timeout {
		return nil, fmt.Errorf("%w after %s: %v", ErrTimeout, p.cfg.Timeout, err)
	}
	return nil, err
}
