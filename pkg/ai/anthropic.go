package ai

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/taskdesk/pkg/domain/ai"
)

const (
	defaultAnthropicModel = "claude-3-5-sonnet-20240620"
	anthropicEndpoint     = "https://api.anthropic.com/v1/messages"
	anthropicVersion      = "2023-06-01"
)

// AnthropicProvider calls the Anthropic messages API.
type AnthropicProvider struct {
	Model  string
	APIKey string
	http   httpBackend
}

func NewAnthropicProvider(model, apiKey string, opts ...ProviderOption) *AnthropicProvider {
	if model == "" {
		model = defaultAnthropicModel
	}
	return &AnthropicProvider{
		Model:  model,
		APIKey: apiKey,
		http:   newHTTPBackend(anthropicEndpoint, opts),
	}
}

func (p *AnthropicProvider) ID() string {
	return "anthropic:" + p.Model
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	System      string             `json:"system,omitempty"`
	Messages    []anthropicMessage `json:"messages"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature float32            `json:"temperature,omitempty"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

func (p *AnthropicProvider) Complete(ctx context.Context, req ai.CompletionRequest) (*ai.CompletionResponse, error) {
	if p.APIKey == "" {
		return nil, fmt.Errorf("%w: Anthropic API key not provided (set ANTHROPIC_API_KEY)", ErrUnavailable)
	}

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1024
	}

	var aResp anthropicResponse
	headers := map[string]string{
		"x-api-key":         p.APIKey,
		"anthropic-version": anthropicVersion,
	}
	body := anthropicRequest{
		Model:       p.Model,
		System:      req.System,
		Messages:    []anthropicMessage{{Role: "user", Content: req.Prompt}},
		MaxTokens:   maxTokens,
		Temperature: req.Temperature,
	}
	if err := p.http.postJSON(ctx, "Anthropic", p.http.baseURL, headers, body, &aResp); err != nil {
		return nil, err
	}

	if len(aResp.Content) == 0 {
		return nil, fmt.Errorf("Anthropic: %w", ErrEmptyResponse)
	}

	return &ai.CompletionResponse{
		Text:  aResp.Content[0].Text,
		Model: p.Model,
		Usage: ai.TokenUsage{
			InputTokens:  aResp.Usage.InputTokens,
			OutputTokens: aResp.Usage.OutputTokens,
		},
	}, nil
}
