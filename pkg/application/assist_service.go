package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"

	infraai "github.com/felixgeelhaar/taskdesk/pkg/ai"
	"github.com/felixgeelhaar/taskdesk/pkg/domain"
	"github.com/felixgeelhaar/taskdesk/pkg/domain/ai"
	"github.com/felixgeelhaar/taskdesk/pkg/domain/assist"
)

// Audit actors for assistant calls.
const (
	ActorOracle   = "ai"
	ActorFallback = "fallback"
)

// Operation names used in logs and audit actions.
const (
	OpDescribe    = "describe"
	OpPriority    = "priority"
	OpSuggestions = "suggestions"
	OpAnalyze     = "analyze"
)

// MaxSuggestions caps the number of suggestions returned from the oracle.
const MaxSuggestions = 5

// PriorityErrorPolicy selects the answer used when the oracle fails mid-call
// while suggesting a priority.
type PriorityErrorPolicy string

const (
	// PriorityErrorConstant answers Important regardless of the task text.
	PriorityErrorConstant PriorityErrorPolicy = "constant"
	// PriorityErrorClassifier answers with the keyword classifier.
	PriorityErrorClassifier PriorityErrorPolicy = "classifier"
)

// ParsePriorityErrorPolicy accepts "constant" or "classifier". Empty means constant.
func ParsePriorityErrorPolicy(s string) (PriorityErrorPolicy, error) {
	switch PriorityErrorPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PriorityErrorConstant:
		return PriorityErrorConstant, nil
	case PriorityErrorClassifier:
		return PriorityErrorClassifier, nil
	default:
		return "", fmt.Errorf("unknown priority error policy %q (want constant or classifier)", s)
	}
}

const suggestionsSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "array",
  "minItems": 1,
  "items": {
    "type": "object",
    "required": ["title", "description", "priority"],
    "properties": {
      "title": { "type": "string", "minLength": 1 },
      "description": { "type": "string" },
      "priority": { "type": "string", "minLength": 1 }
    }
  }
}`

const analysisSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["priorityAnalysis", "bottlenecks", "recommendations", "productivityInsights"],
  "properties": {
    "priorityAnalysis": { "type": "string", "minLength": 1 },
    "bottlenecks": { "type": "string", "minLength": 1 },
    "recommendations": { "type": "string", "minLength": 1 },
    "productivityInsights": { "type": "string", "minLength": 1 }
  }
}`

var (
	suggestionsSchemaLoader = gojsonschema.NewStringLoader(suggestionsSchemaJSON)
	analysisSchemaLoader    = gojsonschema.NewStringLoader(analysisSchemaJSON)
)

// AssistService is the gateway between callers and the language model.
// Every operation has a deterministic fallback, so callers always get an answer.
type AssistService struct {
	provider  ai.Provider
	available bool
	timeout   time.Duration
	policy    PriorityErrorPolicy
	logger    *slog.Logger
	audit     domain.AuditLogger
}

// AssistOption configures an AssistService.
type AssistOption func(*AssistService)

func WithAssistLogger(logger *slog.Logger) AssistOption {
	return func(s *AssistService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithOracleTimeout bounds every model call. Non-positive values keep the default.
func WithOracleTimeout(d time.Duration) AssistOption {
	return func(s *AssistService) {
		if d > 0 {
			s.timeout = d
		}
	}
}

func WithPriorityErrorPolicy(p PriorityErrorPolicy) AssistOption {
	return func(s *AssistService) {
		if p != "" {
			s.policy = p
		}
	}
}

// WithAuditLogger records every call. Audit failures never affect responses.
func WithAuditLogger(audit domain.AuditLogger) AssistOption {
	return func(s *AssistService) {
		s.audit = audit
	}
}

// NewAssistService builds the gateway. The oracle is used only when both a
// provider and a credential are present; that decision is made once here.
func NewAssistService(provider ai.Provider, credential string, opts ...AssistOption) *AssistService {
	s := &AssistService{
		timeout: infraai.DefaultTimeout,
		policy:  PriorityErrorConstant,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.available = provider != nil && credential != ""
	if s.available {
		s.provider = infraai.NewResilientProviderWithConfig(provider, infraai.ResilienceConfig{Timeout: s.timeout})
	}
	return s
}

// Available reports whether the oracle is configured.
func (s *AssistService) Available() bool {
	return s.available
}

// Model returns the provider identifier, or "" when the oracle is unavailable.
func (s *AssistService) Model() string {
	if !s.available {
		return ""
	}
	return s.provider.ID()
}

// GenerateDescription drafts a description for a task title.
func (s *AssistService) GenerateDescription(ctx context.Context, title, taskContext string) (string, error) {
	if !s.available {
		s.fallback(OpDescribe, nil, infraai.ErrUnavailable)
		return assist.DescribeFallback(title, taskContext), nil
	}

	resp, err := s.complete(ctx, describePrompt(title, taskContext))
	if err == nil && strings.TrimSpace(resp.Text) == "" {
		err = infraai.ErrEmptyResponse
	}
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		s.fallback(OpDescribe, resp, err)
		return assist.DescribeFallback(title, taskContext), nil
	}

	s.record(OpDescribe, ActorOracle, resp, nil)
	return strings.TrimSpace(resp.Text), nil
}

// SuggestPriority picks one of the three priority labels for a task.
func (s *AssistService) SuggestPriority(ctx context.Context, title, description string) (assist.PriorityLabel, error) {
	if !s.available {
		s.fallback(OpPriority, nil, infraai.ErrUnavailable)
		return assist.Classify(title, description), nil
	}

	resp, err := s.complete(ctx, priorityPrompt(title, description))
	var label assist.PriorityLabel
	if err == nil {
		label, err = assist.ParsePriorityLabel(resp.Text)
		if err != nil {
			err = fmt.Errorf("%w: %v", infraai.ErrInvalidOutput, err)
		}
	}
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		s.fallback(OpPriority, resp, err)
		if s.policy == PriorityErrorClassifier {
			return assist.Classify(title, description), nil
		}
		return assist.PriorityImportant, nil
	}

	s.record(OpPriority, ActorOracle, resp, nil)
	return label, nil
}

// GenerateTaskSuggestions proposes up to five new tasks.
func (s *AssistService) GenerateTaskSuggestions(ctx context.Context, projectContext, employeeRole string) ([]assist.TaskSuggestion, error) {
	if !s.available {
		s.fallback(OpSuggestions, nil, infraai.ErrUnavailable)
		return assist.SuggestionsFallback(), nil
	}

	resp, err := s.complete(ctx, suggestionsPrompt(projectContext, employeeRole))
	var suggestions []assist.TaskSuggestion
	if err == nil {
		suggestions, err = parseSuggestions(resp.Text)
	}
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		s.fallback(OpSuggestions, resp, err)
		return assist.SuggestionsFallback(), nil
	}

	s.record(OpSuggestions, ActorOracle, resp, nil)
	return suggestions, nil
}

// AnalyzeTaskPerformance summarizes a task set in four short reports.
func (s *AssistService) AnalyzeTaskPerformance(ctx context.Context, tasks []assist.TaskSummary) (assist.Analysis, error) {
	if !s.available {
		s.fallback(OpAnalyze, nil, infraai.ErrUnavailable)
		return assist.AnalysisFallback(tasks), nil
	}

	resp, err := s.complete(ctx, analysisPrompt(tasks))
	var analysis assist.Analysis
	if err == nil {
		analysis, err = infraai.ExtractJSON[assist.Analysis](resp.Text, analysisSchemaLoader, nil)
	}
	if err != nil {
		if ctx.Err() != nil {
			return assist.Analysis{}, ctx.Err()
		}
		s.fallback(OpAnalyze, resp, err)
		return assist.AnalysisFallback(tasks), nil
	}

	s.record(OpAnalyze, ActorOracle, resp, nil)
	return analysis, nil
}

func (s *AssistService) complete(ctx context.Context, prompt string) (*ai.CompletionResponse, error) {
	resp, err := s.provider.Complete(ctx, ai.CompletionRequest{
		Prompt: prompt,
		System: assistSystemPrompt,
	})
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, infraai.ErrEmptyResponse
	}
	return resp, nil
}

// parseSuggestions extracts and normalizes the suggestion list from model output.
func parseSuggestions(raw string) ([]assist.TaskSuggestion, error) {
	suggestions, err := infraai.ExtractJSON[[]assist.TaskSuggestion](raw, suggestionsSchemaLoader, nil)
	if err != nil {
		return nil, err
	}
	for i := range suggestions {
		label, err := assist.ParsePriorityLabel(string(suggestions[i].Priority))
		if err != nil {
			return nil, fmt.Errorf("%w: suggestion %d: %v", infraai.ErrInvalidOutput, i, err)
		}
		suggestions[i].Priority = label
	}
	if len(suggestions) > MaxSuggestions {
		suggestions = suggestions[:MaxSuggestions]
	}
	return suggestions, nil
}

func (s *AssistService) fallback(op string, resp *ai.CompletionResponse, reason error) {
	s.logger.Warn("assistant fallback",
		"operation", op,
		"reason", reason.Error(),
		"oracle_available", s.available,
	)
	s.record(op, ActorFallback, resp, reason)
}

func (s *AssistService) record(op, actor string, resp *ai.CompletionResponse, reason error) {
	if s.audit == nil {
		return
	}

	source := "oracle"
	if actor == ActorFallback {
		source = "fallback"
	}
	metadata := map[string]interface{}{
		"source": source,
	}
	if reason != nil {
		metadata["reason"] = reasonCode(reason)
	}
	if s.available {
		metadata["model"] = s.provider.ID()
	}
	if resp != nil {
		metadata["input_tokens"] = resp.Usage.InputTokens
		metadata["output_tokens"] = resp.Usage.OutputTokens
	}

	if err := s.audit.Log("assist."+op, actor, metadata); err != nil {
		s.logger.Error("failed to record audit event", "operation", op, "error", err)
	}
}

// reasonCode maps a fallback cause to a stable audit value.
func reasonCode(err error) string {
	switch {
	case errors.Is(err, infraai.ErrUnavailable):
		return "unavailable"
	case errors.Is(err, infraai.ErrTimeout):
		return "timeout"
	case errors.Is(err, infraai.ErrInvalidOutput):
		return "invalid_output"
	case errors.Is(err, infraai.ErrEmptyResponse):
		return "empty_response"
	default:
		return "provider_error"
	}
}
