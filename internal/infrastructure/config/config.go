package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	infraai "github.com/felixgeelhaar/taskdesk/pkg/ai"
	"github.com/felixgeelhaar/taskdesk/pkg/application"
)

// DefaultFile is read when no --config flag is given.
const DefaultFile = "taskdesk.yaml"

// Config is the taskdesk.yaml layout.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Auth   AuthConfig   `yaml:"auth"`
	AI     AIConfig     `yaml:"ai"`
	Audit  AuditConfig  `yaml:"audit"`
}

type ServerConfig struct {
	Addr            string `yaml:"addr"`
	ReadTimeoutSec  int    `yaml:"read_timeout_sec"`
	WriteTimeoutSec int    `yaml:"write_timeout_sec"`
}

type AuthConfig struct {
	Tokens   []string `yaml:"tokens"`
	Disabled bool     `yaml:"disabled"`
}

// AIConfig stores oracle settings. An empty model selects the provider default.
type AIConfig struct {
	Provider            string `yaml:"provider"`
	Model               string `yaml:"model"`
	TimeoutSec          int    `yaml:"timeout_sec"`
	PriorityErrorPolicy string `yaml:"priority_error_policy"`
	// APIKey is never read from the file; it comes from the provider's env var.
	APIKey string `yaml:"-"`
}

type AuditConfig struct {
	Enabled bool   `yaml:"enabled"`
	Root    string `yaml:"root"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Addr: ":8080", ReadTimeoutSec: 15, WriteTimeoutSec: 60},
		AI: AIConfig{
			Provider:            infraai.ProviderGemini,
			Model:               "gemini-pro",
			TimeoutSec:          int(infraai.DefaultTimeout / time.Second),
			PriorityErrorPolicy: string(application.PriorityErrorConstant),
		},
		Audit: AuditConfig{Root: "."},
	}
}

// Load reads path over the defaults and applies environment overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		// #nosec G304 -- Path is supplied by the operator
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to unmarshal config %s: %w", path, err)
			}
		case os.IsNotExist(err):
		default:
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overlays TASKDESK_* variables and resolves the provider credential.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv("TASKDESK_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := getenv("TASKDESK_AUTH_TOKENS"); v != "" {
		c.Auth.Tokens = splitList(v)
	}
	if v := getenv("TASKDESK_AI_PROVIDER"); v != "" {
		// A different provider has a different default model unless one is set too.
		if !strings.EqualFold(v, c.AI.Provider) {
			c.AI.Model = ""
		}
		c.AI.Provider = strings.ToLower(v)
	}
	if v := getenv("TASKDESK_AI_MODEL"); v != "" {
		c.AI.Model = v
	}
	if v := getenv("TASKDESK_AI_TIMEOUT_SEC"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid TASKDESK_AI_TIMEOUT_SEC %q", v)
		}
		c.AI.TimeoutSec = n
	}
	if v := getenv("TASKDESK_PRIORITY_ERROR_POLICY"); v != "" {
		c.AI.PriorityErrorPolicy = v
	}
	c.AI.APIKey = strings.TrimSpace(getenv(infraai.CredentialEnv(c.AI.Provider)))
	return nil
}

// Validate checks values that would otherwise fail later at startup.
func (c *Config) Validate() error {
	switch strings.ToLower(c.AI.Provider) {
	case infraai.ProviderGemini, infraai.ProviderOpenAI, infraai.ProviderAnthropic:
	default:
		return fmt.Errorf("unsupported AI provider %q", c.AI.Provider)
	}
	if _, err := application.ParsePriorityErrorPolicy(c.AI.PriorityErrorPolicy); err != nil {
		return err
	}
	if c.AI.TimeoutSec < 0 || c.Server.ReadTimeoutSec < 0 || c.Server.WriteTimeoutSec < 0 {
		return fmt.Errorf("timeouts must not be negative")
	}
	return nil
}

// RequireAuth fails when the server would run without any accepted token.
func (c *Config) RequireAuth() error {
	if c.Auth.Disabled || len(c.Auth.Tokens) > 0 {
		return nil
	}
	return fmt.Errorf("no auth tokens configured: set TASKDESK_AUTH_TOKENS or auth.tokens, or set auth.disabled for local use")
}

// OracleTimeout returns the configured oracle bound.
func (c *Config) OracleTimeout() time.Duration {
	return time.Duration(c.AI.TimeoutSec) * time.Second
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
