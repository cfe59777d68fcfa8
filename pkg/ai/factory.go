package ai

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/taskdesk/pkg/domain/ai"
)

// Supported provider names.
const (
	ProviderGemini    = "gemini"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// CredentialEnv returns the environment variable that holds the API key for a provider.
func CredentialEnv(providerName string) string {
	switch strings.ToLower(providerName) {
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	case ProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	default:
		return "GEMINI_API_KEY"
	}
}

// NewProvider builds the named provider. An empty name selects Gemini.
func NewProvider(providerName, modelName, apiKey string, opts ...ProviderOption) (ai.Provider, error) {
	switch strings.ToLower(providerName) {
	case ProviderGemini, "":
		return NewGeminiProvider(modelName, apiKey, opts...), nil
	case ProviderOpenAI:
		return NewOpenAIProvider(modelName, apiKey, opts...), nil
	case ProviderAnthropic:
		return NewAnthropicProvider(modelName, apiKey, opts...), nil
	default:
		return nil, fmt.Errorf("%w: unsupported AI provider %q", ErrUnavailable, providerName)
	}
}
