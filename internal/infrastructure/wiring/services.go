package wiring

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/taskdesk/internal/infrastructure/config"
	infraai "github.com/felixgeelhaar/taskdesk/pkg/ai"
	"github.com/felixgeelhaar/taskdesk/pkg/application"
	"github.com/felixgeelhaar/taskdesk/pkg/infrastructure/api"
	"github.com/felixgeelhaar/taskdesk/pkg/storage"
)

// AppServices exposes the application services wired from configuration.
type AppServices struct {
	Assist *application.AssistService
	Audit  *application.AuditService // nil unless audit.enabled
}

// BuildAppServices constructs the assistant and, when enabled, its audit trail.
func BuildAppServices(cfg *config.Config, logger *slog.Logger, opts ...infraai.ProviderOption) (*AppServices, error) {
	if logger == nil {
		logger = slog.Default()
	}

	provider, err := LoadAIProvider(cfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("load AI provider: %w", err)
	}
	policy, err := application.ParsePriorityErrorPolicy(cfg.AI.PriorityErrorPolicy)
	if err != nil {
		return nil, err
	}

	services := &AppServices{}
	assistOpts := []application.AssistOption{
		application.WithAssistLogger(logger),
		application.WithOracleTimeout(cfg.OracleTimeout()),
		application.WithPriorityErrorPolicy(policy),
	}

	if cfg.Audit.Enabled {
		audit, err := BuildAuditService(cfg.Audit.Root)
		if err != nil {
			return nil, err
		}
		services.Audit = audit
		assistOpts = append(assistOpts, application.WithAuditLogger(audit))
	}

	services.Assist = application.NewAssistService(provider, cfg.AI.APIKey, assistOpts...)
	if !services.Assist.Available() {
		logger.Warn("no AI credential configured, assistant runs on fallbacks only",
			"provider", cfg.AI.Provider,
			"credential_env", infraai.CredentialEnv(cfg.AI.Provider),
		)
	}
	return services, nil
}

// BuildAuditService opens (and creates if needed) the audit trail under root.
func BuildAuditService(root string) (*application.AuditService, error) {
	repo := storage.NewFilesystemRepository(root)
	if err := repo.Initialize(); err != nil {
		return nil, fmt.Errorf("initialize audit storage: %w", err)
	}
	return application.NewAuditService(repo), nil
}

// BuildAPIServer wires the HTTP server around the assistant.
func BuildAPIServer(cfg *config.Config, services *AppServices, logger *slog.Logger) *api.Server {
	var auth api.Authenticator = api.NewTokenAuthenticator(cfg.Auth.Tokens)
	if cfg.Auth.Disabled {
		auth = api.AllowAll{}
	}
	return api.NewServer(cfg.Server.Addr, services.Assist,
		api.WithLogger(logger),
		api.WithAuthenticator(auth),
		api.WithTimeouts(
			time.Duration(cfg.Server.ReadTimeoutSec)*time.Second,
			time.Duration(cfg.Server.WriteTimeoutSec)*time.Second,
		),
	)
}
