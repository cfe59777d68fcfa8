package wiring

import (
	"github.com/felixgeelhaar/taskdesk/internal/infrastructure/config"
	infraai "github.com/felixgeelhaar/taskdesk/pkg/ai"
	domainai "github.com/felixgeelhaar/taskdesk/pkg/domain/ai"
)

// LoadAIProvider builds the configured oracle provider. The timeout wrapper is
// applied by the assistant service, not here.
func LoadAIProvider(cfg *config.Config, opts ...infraai.ProviderOption) (domainai.Provider, error) {
	return infraai.NewProvider(cfg.AI.Provider, cfg.AI.Model, cfg.AI.APIKey, opts...)
}
