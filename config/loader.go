package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Loader struct {
	configPath string
}

// NewLoader returns a loader for configPath. An empty path loads defaults only.
func NewLoader(configPath string) *Loader {
	return &Loader{configPath: configPath}
}

// Load reads the file, applies defaults and validates the result.
func (l *Loader) Load() (*Config, error) {
	cfg, err := l.Read()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, NewValidationError(l.configPath, err)
	}
	return cfg, nil
}

// Read is Load without validation, for callers that override fields before
// calling Validate themselves.
func (l *Loader) Read() (*Config, error) {
	cfg := NewConfig()
	if l.configPath != "" {
		c, err := os.ReadFile(l.configPath)
		if err != nil {
			return nil, NewReadError(l.configPath, err)
		}
		if err := yaml.Unmarshal(c, cfg); err != nil {
			return nil, NewParseError(l.configPath, err)
		}
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

func (l *Loader) getConfigPath() string {
	return l.configPath
}
