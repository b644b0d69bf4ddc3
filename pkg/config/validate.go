package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/rhuss/llm-1min/pkg/debug"
)

// Validate checks the configuration for required fields and valid values.
// Returns an error with a descriptive field path on failure.
func (c *Config) Validate() error {
	var errs []error

	// provider.base_url must be an absolute http(s) URL.
	if c.Provider.BaseURL == "" {
		errs = append(errs, fmt.Errorf("provider.base_url is required"))
	} else if u, err := url.Parse(c.Provider.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("provider.base_url must be an http or https URL, got %q", c.Provider.BaseURL))
	}

	// Timeouts must be positive.
	if c.Provider.CreateTimeout <= 0 {
		errs = append(errs, fmt.Errorf("provider.create_timeout must be > 0, got %v", c.Provider.CreateTimeout))
	}
	if c.Provider.PromptTimeout <= 0 {
		errs = append(errs, fmt.Errorf("provider.prompt_timeout must be > 0, got %v", c.Provider.PromptTimeout))
	}
	if c.Provider.RequestTimeout <= 0 {
		errs = append(errs, fmt.Errorf("provider.request_timeout must be > 0, got %v", c.Provider.RequestTimeout))
	}

	// logging.level must be a known value.
	switch strings.ToUpper(c.Logging.Level) {
	case "", "TRACE", "DEBUG", "INFO", "WARN", "WARNING", "ERROR":
		// valid
	default:
		errs = append(errs, fmt.Errorf("logging.level must be one of TRACE, DEBUG, INFO, WARN, ERROR, got %q", c.Logging.Level))
	}

	// logging.debug names debug categories.
	if err := debug.CheckCategories(c.Logging.Debug); err != nil {
		errs = append(errs, fmt.Errorf("logging.debug: %w", err))
	}

	// credentials.key_name is the entry looked up in the key store.
	if c.Credentials.KeyName == "" {
		errs = append(errs, fmt.Errorf("credentials.key_name is required"))
	}

	// Enabled metrics need somewhere to listen.
	if c.Observability.Metrics.Enabled && c.Observability.Metrics.Addr == "" {
		errs = append(errs, fmt.Errorf("observability.metrics.addr is required when metrics are enabled"))
	}

	return errors.Join(errs...)
}
