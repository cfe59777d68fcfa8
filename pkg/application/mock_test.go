package application_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/felixgeelhaar/taskdesk/pkg/domain"
	"github.com/felixgeelhaar/taskdesk/pkg/domain/ai"
)

// stubProvider answers every completion with a fixed text or error.
type stubProvider struct {
	mu      sync.Mutex
	text    string
	err     error
	delay   time.Duration
	calls   int
	prompts []string
}

func (p *stubProvider) ID() string { return "stub:test-model" }

func (p *stubProvider) Complete(ctx context.Context, req ai.CompletionRequest) (*ai.CompletionResponse, error) {
	p.mu.Lock()
	p.calls++
	p.prompts = append(p.prompts, req.Prompt)
	p.mu.Unlock()

	if p.delay > 0 {
		select {
		case <-time.After(p.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if p.err != nil {
		return nil, p.err
	}
	return &ai.CompletionResponse{
		Text:  p.text,
		Model: "test-model",
		Usage: ai.TokenUsage{InputTokens: 12, OutputTokens: 7},
	}, nil
}

func (p *stubProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

var errOracleDown = errors.New("oracle down")

// memoryAuditRepo keeps events in memory.
type memoryAuditRepo struct {
	mu        sync.Mutex
	events    []domain.Event
	loadErr   error
	recordErr error
}

func (r *memoryAuditRepo) RecordEvent(e domain.Event) error {
	if r.recordErr != nil {
		return r.recordErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *memoryAuditRepo) LoadEvents() ([]domain.Event, error) {
	if r.loadErr != nil {
		return nil, r.loadErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Event, len(r.events))
	copy(out, r.events)
	return out, nil
}

// recordingAudit captures Log calls.
type recordingAudit struct {
	mu      sync.Mutex
	actions []string
	actors  []string
	meta    []map[string]interface{}
	err     error
}

func (a *recordingAudit) Log(action, actor string, metadata map[string]interface{}) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.actions = append(a.actions, action)
	a.actors = append(a.actors, actor)
	a.meta = append(a.meta, metadata)
	return a.err
}
