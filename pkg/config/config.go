// Package config provides the settings of the llm-1min client.
//
// Configuration is loaded with a layered approach:
//  1. Built-in defaults
//  2. YAML settings file (discovered or explicitly specified)
//  3. Environment variable overrides (ONEMIN_ prefix)
//  4. File reference resolution (_file suffix fields)
//  5. Validation
//
// These settings describe how the client runs (endpoint, timeouts, file
// locations, logging). Per-model prompt options are not part of them; they
// live in the JSON options document managed by storage/file.
package config

import (
	"time"

	"github.com/rhuss/llm-1min/pkg/provider/onemin"
)

// Config holds all configuration for the llm-1min client.
type Config struct {
	Provider      ProviderConfig      `yaml:"provider"`
	Engine        EngineConfig        `yaml:"engine"`
	Options       OptionsConfig       `yaml:"options"`
	Credentials   CredentialsConfig   `yaml:"credentials"`
	Logging       LoggingConfig       `yaml:"logging"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ProviderConfig holds the 1min.ai endpoint and per-call timeouts.
type ProviderConfig struct {
	BaseURL        string        `yaml:"base_url"`        // default: https://api.1min.ai
	APIKey         string        `yaml:"api_key"`         // optional, see credentials
	APIKeyFile     string        `yaml:"api_key_file"`    // _file variant for api_key
	CreateTimeout  time.Duration `yaml:"create_timeout"`  // default: 30s
	PromptTimeout  time.Duration `yaml:"prompt_timeout"`  // default: 60s
	RequestTimeout time.Duration `yaml:"request_timeout"` // default: 30s
}

// EngineConfig holds prompt pipeline settings.
type EngineConfig struct {
	DefaultModel string `yaml:"default_model"` // optional
	TitlePrefix  string `yaml:"title_prefix"`  // default: "LLM Chat - "
}

// OptionsConfig locates the options document.
type OptionsConfig struct {
	Path string `yaml:"path"` // default: platform config dir
}

// CredentialsConfig locates the host tool's key store.
type CredentialsConfig struct {
	KeysFile string `yaml:"keys_file"` // default: <llm user dir>/keys.json
	KeyName  string `yaml:"key_name"`  // default: "1min"
}

// LoggingConfig holds slog and debug category settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // TRACE, DEBUG, INFO, WARN, ERROR; default: INFO
	Debug string `yaml:"debug"` // comma-separated debug categories
}

// ObservabilityConfig holds monitoring and instrumentation settings.
type ObservabilityConfig struct {
	Metrics MetricsConfig `yaml:"metrics"`
}

// MetricsConfig holds Prometheus metrics endpoint settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"` // default: false
	Addr    string `yaml:"addr"`    // listen address, e.g. "127.0.0.1:9464"
}

// Defaults returns a Config with all default values filled in.
func Defaults() Config {
	client := onemin.DefaultConfig("")
	return Config{
		Provider: ProviderConfig{
			BaseURL:        client.BaseURL,
			CreateTimeout:  client.CreateTimeout,
			PromptTimeout:  client.PromptTimeout,
			RequestTimeout: client.RequestTimeout,
		},
		Engine: EngineConfig{
			TitlePrefix: "LLM Chat - ",
		},
		Credentials: CredentialsConfig{
			KeyName: "1min",
		},
		Logging: LoggingConfig{
			Level: "INFO",
		},
	}
}
