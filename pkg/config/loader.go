package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rhuss/llm-1min/pkg/debug"
)

// Load loads configuration from a layered set of sources.
//
// The loading order is:
//  1. Built-in defaults
//  2. YAML settings file (explicit path, ONEMIN_CONFIG env, <user config dir>/llm-1min/settings.yaml)
//  3. Environment variable overrides
//  4. File reference resolution (_file suffix)
//  5. Validation
func Load(configPath string) (*Config, error) {
	// Start with defaults.
	cfg := Defaults()

	// Discover and load YAML settings file.
	filePath := discoverConfigFile(configPath)
	if filePath != "" {
		if err := loadYAMLFile(filePath, &cfg); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", filePath, err)
		}
		debug.Log("config", "settings loaded", "path", filePath)
	}

	// Apply environment variable overrides.
	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, err
	}

	// Resolve _file references.
	if err := resolveFileReferences(&cfg); err != nil {
		return nil, fmt.Errorf("resolving file references: %w", err)
	}

	// Validate.
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return &cfg, nil
}

// discoverConfigFile finds the settings file using the discovery order:
// 1. Explicit configPath argument
// 2. ONEMIN_CONFIG environment variable
// 3. <user config dir>/llm-1min/settings.yaml, if it exists
//
// Returns empty string if no settings file is found. An explicit path
// that does not exist is returned as is so loading reports it.
func discoverConfigFile(configPath string) string {
	// Explicit path takes priority.
	if configPath != "" {
		return configPath
	}

	if envPath := os.Getenv("ONEMIN_CONFIG"); envPath != "" {
		return envPath
	}

	if dir, err := os.UserConfigDir(); err == nil {
		path := filepath.Join(dir, "llm-1min", "settings.yaml")
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// loadYAMLFile reads and parses a YAML file into the Config struct.
// Fields not present in the YAML retain their current (default) values.
// Unknown keys are rejected so typos do not go unnoticed.
func loadYAMLFile(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		// An empty file decodes to io.EOF; keep the defaults.
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	return nil
}

// applyEnvOverrides maps ONEMIN_* environment variables to config fields.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("ONEMIN_API_KEY"); v != "" {
		cfg.Provider.APIKey = v
	}
	if v := os.Getenv("ONEMIN_BASE_URL"); v != "" {
		cfg.Provider.BaseURL = v
	}
	if v := os.Getenv("ONEMIN_PROMPT_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("ONEMIN_PROMPT_TIMEOUT: %w", err)
		}
		cfg.Provider.PromptTimeout = d
	}
	if v := os.Getenv("ONEMIN_MODEL"); v != "" {
		cfg.Engine.DefaultModel = v
	}
	if v := os.Getenv("ONEMIN_OPTIONS_FILE"); v != "" {
		cfg.Options.Path = v
	}
	if v := os.Getenv("ONEMIN_KEYS_FILE"); v != "" {
		cfg.Credentials.KeysFile = v
	}
	if v := os.Getenv("ONEMIN_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("ONEMIN_DEBUG"); v != "" {
		cfg.Logging.Debug = v
	}
	if v := os.Getenv("ONEMIN_METRICS_ADDR"); v != "" {
		cfg.Observability.Metrics.Addr = v
		cfg.Observability.Metrics.Enabled = true
	}
	return nil
}

// resolveFileReferences reads _file fields and populates the corresponding value fields.
// The file is only read when the value field is empty.
func resolveFileReferences(cfg *Config) error {
	// provider.api_key_file -> provider.api_key
	if cfg.Provider.APIKeyFile != "" && cfg.Provider.APIKey == "" {
		val, err := readSecretFile(cfg.Provider.APIKeyFile)
		if err != nil {
			return fmt.Errorf("provider.api_key_file: %w", err)
		}
		cfg.Provider.APIKey = val
	}
	return nil
}

// readSecretFile reads a file and returns its content with surrounding whitespace trimmed.
func readSecretFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
