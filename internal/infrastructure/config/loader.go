package config

import (
	"bytes"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// ConfigLoader loads the harness configuration from disk.
type ConfigLoader struct{}

// NewConfigLoader creates a new config loader.
func NewConfigLoader() *ConfigLoader {
	return &ConfigLoader{}
}

// Load loads the configuration from the specified path.
// If the file does not exist, returns DefaultConfig().
// Fields absent from the file keep their default values.
func (l *ConfigLoader) Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	//nolint:gosec // G304: path is user-provided config file, validated to exist above
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return l.Parse(data)
}

// Parse decodes a configuration document.
func (l *ConfigLoader) Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if len(bytes.TrimSpace(data)) == 0 {
		return cfg, nil
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.Overrides == nil {
		cfg.Overrides = map[string]string{}
	}
	if cfg.Query.Timeout == 0 {
		cfg.Query.Timeout = DefaultQueryTimeout
	}

	if err := NewVariableSubstitutor().Substitute(cfg); err != nil {
		return nil, fmt.Errorf("failed to substitute variables: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration as YAML.
func (l *ConfigLoader) Save(cfg *Config, path string) error {
	data, err := yaml.MarshalWithOptions(cfg, yaml.Indent(2))
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
