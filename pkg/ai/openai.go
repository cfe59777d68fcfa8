package ai

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/taskdesk/pkg/domain/ai"
)

const (
	defaultOpenAIModel = "gpt-4o"
	openAIEndpoint     = "https://api.openai.com/v1/chat/completions"
)

// OpenAIProvider calls the OpenAI chat completions API.
type OpenAIProvider struct {
	Model  string
	APIKey string
	http   httpBackend
}

func NewOpenAIProvider(model, apiKey string, opts ...ProviderOption) *OpenAIProvider {
	if model == "" {
		model = defaultOpenAIModel
	}
	return &OpenAIProvider{
		Model:  model,
		APIKey: apiKey,
		http:   newHTTPBackend(openAIEndpoint, opts),
	}
}

func (p *OpenAIProvider) ID() string {
	return "openai:" + p.Model
}

type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	Temperature float32         `json:"temperature,omitempty"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIResponse struct {
	Choices []struct {
		Message openAIMessage `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

func (p *OpenAIProvider) Complete(ctx context.Context, req ai.CompletionRequest) (*ai.CompletionResponse, error) {
	if p.APIKey == "" {
		return nil, fmt.Errorf("%w: OpenAI API key not provided (set OPENAI_API_KEY)", ErrUnavailable)
	}

	messages := make([]openAIMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, openAIMessage{Role: "system", Content: req.System})
	}
	messages = append(messages, openAIMessage{Role: "user", Content: req.Prompt})

	var oResp openAIResponse
	headers := map[string]string{"Authorization": "Bearer " + p.APIKey}
	body := openAIRequest{
		Model:       p.Model,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	if err := p.http.postJSON(ctx, "OpenAI", p.http.baseURL, headers, body, &oResp); err != nil {
		return nil, err
	}

	if len(oResp.Choices) == 0 {
		return nil, fmt.Errorf("OpenAI: %w", ErrEmptyResponse)
	}

	return &ai.CompletionResponse{
		Text:  oResp.Choices[0].Message.Content,
		Model: p.Model,
		Usage: ai.TokenUsage{
			InputTokens:  oResp.Usage.PromptTokens,
			OutputTokens: oResp.Usage.CompletionTokens,
		},
	}, nil
}
