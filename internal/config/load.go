package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// PasswordEnvVar overrides the RAPI password from the config file when set.
const PasswordEnvVar = "GNT_RAPI_PASSWORD"

// DefaultPort is the standard Ganeti RAPI port.
const DefaultPort = 5080

// LoadFile reads and parses the configuration from a YAML file.
func LoadFile(path string) (*Config, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Load(data)
}

// Load parses configuration from YAML bytes, applies defaults and the
// environment password override, and validates the result.
func Load(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}

	// Defaults
	if cfg.Cluster.Port == 0 {
		cfg.Cluster.Port = DefaultPort
	}
	if cfg.Instance.State == "" {
		cfg.Instance.State = StatePresent
	}

	if pw := os.Getenv(PasswordEnvVar); pw != "" {
		cfg.Cluster.Password = pw
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}
