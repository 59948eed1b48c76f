package pageant

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config carries everything the agent needs at construction time. It replaces
// process-wide environment lookups: the CLI shell loads it once and passes it
// down, and tests build it literally.
type Config struct {
	Workspace WorkspaceConfig `yaml:"workspace"`
	Model     ModelConfig     `yaml:"model"`
	Agent     AgentConfig     `yaml:"agent"`
}

// WorkspaceConfig configures the workspace API client.
type WorkspaceConfig struct {
	// Token is the integration token sent as a bearer credential.
	Token string `yaml:"token"`

	// BaseURL overrides the API endpoint. Empty means the default.
	BaseURL string `yaml:"base_url"`

	// Version is the API version header value. Empty means the default.
	Version string `yaml:"version"`
}

// ModelConfig configures the LLM used for parse fallback.
type ModelConfig struct {
	// Provider selects the langchaingo backend ("openai", "anthropic", ...).
	Provider string `yaml:"provider"`

	// Name is the model identifier passed to the provider.
	Name string `yaml:"name"`

	// APIKey is the provider credential.
	APIKey string `yaml:"api_key"`
}

// AgentConfig configures orchestrator behavior.
type AgentConfig struct {
	// ConfirmGate gates destructive actions behind confirmation.
	// Defaults to true; disable only for scripted/batch use.
	ConfirmGate *bool `yaml:"confirm_gate"`

	// HeuristicsOnly disables the LLM parse fallback.
	HeuristicsOnly bool `yaml:"heuristics_only"`

	// FuzzyThreshold is the minimum title similarity for fuzzy page
	// resolution, in [0, 1]. Zero means the default (0.6).
	FuzzyThreshold float64 `yaml:"fuzzy_threshold"`
}

// ConfirmGateEnabled resolves the ConfirmGate default.
func (c AgentConfig) ConfirmGateEnabled() bool {
	if c.ConfirmGate == nil {
		return true
	}
	return *c.ConfirmGate
}

// LoadConfig reads a YAML config file and applies environment overrides.
// A missing file is not an error; the result is then environment-only.
//
// Environment overrides:
//
//	PAGEANT_WORKSPACE_TOKEN    workspace.token
//	PAGEANT_WORKSPACE_BASE_URL workspace.base_url
//	PAGEANT_MODEL_PROVIDER     model.provider
//	PAGEANT_MODEL_NAME         model.name
//	PAGEANT_MODEL_API_KEY      model.api_key
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		}
	}

	applyEnv(&cfg.Workspace.Token, "PAGEANT_WORKSPACE_TOKEN")
	applyEnv(&cfg.Workspace.BaseURL, "PAGEANT_WORKSPACE_BASE_URL")
	applyEnv(&cfg.Model.Provider, "PAGEANT_MODEL_PROVIDER")
	applyEnv(&cfg.Model.Name, "PAGEANT_MODEL_NAME")
	applyEnv(&cfg.Model.APIKey, "PAGEANT_MODEL_API_KEY")

	return cfg, nil
}

func applyEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
