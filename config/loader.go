package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the global application configuration
var Config AppConfig

const (
	DefaultPort       = 16181
	DefaultMaxEntries = 64
)

// DefaultPaths are searched in order when LoadAppConfig gets no paths
var DefaultPaths = []string{"config.yml", "./config/config.yml"}

// LoadAppConfig loads and validates the application configuration. The first
// readable path wins.
func LoadAppConfig(paths ...string) error {
	if len(paths) == 0 {
		paths = DefaultPaths
	}
	var data []byte
	var err error
	for _, p := range paths {
		data, err = os.ReadFile(p)
		if err == nil {
			break
		}
	}
	if err != nil {
		return err
	}

	cfg, err := Parse(data)
	if err != nil {
		return err
	}
	Config = cfg
	return nil
}

// Parse decodes and validates a YAML document, then applies defaults
func Parse(data []byte) (AppConfig, error) {
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if err := validator.New().Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return cfg, fmt.Errorf("invalid config field %s: %w", verrs[0].Namespace(), err)
		}
		return cfg, err
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultPort
	}
	if cfg.Cache.MaxEntries == nil {
		entries := DefaultMaxEntries
		cfg.Cache.MaxEntries = &entries
	}
	return cfg, nil
}
