// Package cliconfig loads the YAML profile consumed by swellforms-cli.
package cliconfig

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds CLI defaults. Flags override any value set here.
type Config struct {
	BaseURL        string         `yaml:"base_url"`
	FormID         string         `yaml:"form_id"`
	TimeoutSeconds int            `yaml:"timeout_seconds"`
	Origin         string         `yaml:"origin"`
	FullURL        string         `yaml:"full_url"`
	Values         map[string]any `yaml:"values"`
}

// Load reads and parses the profile at path.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cliconfig: read %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("cliconfig: parse %s: %w", path, err)
	}
	return &cfg, nil
}
