package config

import (
	"errors"
	"fmt"
	"net/url"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateGeneration(); err != nil {
		return err
	}
	if err := c.validateBackends(); err != nil {
		return err
	}
	if err := c.validateCoordinator(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateGeneration() error {
	switch c.Generation.Backend {
	case "chat", "ollama":
	default:
		return fmt.Errorf("generation.backend must be %q or %q, got %q", "chat", "ollama", c.Generation.Backend)
	}
	if c.Generation.DeadlineSeconds <= 0 {
		return errors.New("generation.deadline_seconds must be positive")
	}
	return nil
}

func (c *Config) validateBackends() error {
	if err := validateURL("backends.chat.base_url", c.Backends.Chat.BaseURL); err != nil {
		return err
	}
	return validateURL("backends.ollama.base_url", c.Backends.Ollama.BaseURL)
}

func (c *Config) validateCoordinator() error {
	return ensurePositiveMap(map[string]int{
		"coordinator.store_retry_attempts":     c.Coordinator.StoreRetryAttempts,
		"coordinator.store_retry_backoff_ms":   c.Coordinator.StoreRetryBackoffMS,
		"coordinator.stale_generation_seconds": c.Coordinator.StaleGenerationSeconds,
		"coordinator.sweep_interval_seconds":   c.Coordinator.SweepIntervalSeconds,
	})
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be %q or %q, got %q", "console", "json", c.Logging.Format)
	}
	return nil
}

func validateURL(field, value string) error {
	parsed, err := url.Parse(value)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("%s must be a valid URL, got %q", field, value)
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for field, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", field)
		}
	}
	return nil
}
