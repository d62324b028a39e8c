package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeGeneration()
	c.normalizeBackends()
	c.normalizeCoordinator()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	if c.Paths.APIBind == "" {
		c.Paths.APIBind = defaultAPIBind
	}
	return nil
}

func (c *Config) normalizeGeneration() {
	c.Generation.Backend = strings.ToLower(strings.TrimSpace(c.Generation.Backend))
	if c.Generation.Backend == "" {
		c.Generation.Backend = defaultBackendHint
	}
	if c.Generation.DeadlineSeconds <= 0 {
		c.Generation.DeadlineSeconds = defaultDeadlineSeconds
	}
}

func (c *Config) normalizeBackends() {
	if c.Backends.Chat.APIKey == "" {
		if value, ok := os.LookupEnv("GENFORGE_CHAT_API_KEY"); ok {
			c.Backends.Chat.APIKey = value
		}
	}
	c.Backends.Chat.BaseURL = strings.TrimSpace(c.Backends.Chat.BaseURL)
	if c.Backends.Chat.BaseURL == "" {
		c.Backends.Chat.BaseURL = defaultChatBaseURL
	}
	c.Backends.Chat.Model = strings.TrimSpace(c.Backends.Chat.Model)
	if c.Backends.Chat.Model == "" {
		c.Backends.Chat.Model = defaultChatModel
	}
	if c.Backends.Chat.TimeoutSeconds <= 0 {
		c.Backends.Chat.TimeoutSeconds = defaultChatTimeoutSeconds
	}

	c.Backends.Ollama.BaseURL = strings.TrimRight(strings.TrimSpace(c.Backends.Ollama.BaseURL), "/")
	if c.Backends.Ollama.BaseURL == "" {
		c.Backends.Ollama.BaseURL = defaultOllamaBaseURL
	}
	c.Backends.Ollama.Model = strings.TrimSpace(c.Backends.Ollama.Model)
	if c.Backends.Ollama.Model == "" {
		c.Backends.Ollama.Model = defaultOllamaModel
	}
	if c.Backends.Ollama.TimeoutSeconds <= 0 {
		c.Backends.Ollama.TimeoutSeconds = defaultOllamaTimeoutSeconds
	}
}

func (c *Config) normalizeCoordinator() {
	if c.Coordinator.StoreRetryAttempts <= 0 {
		c.Coordinator.StoreRetryAttempts = defaultStoreRetryAttempts
	}
	if c.Coordinator.StoreRetryBackoffMS <= 0 {
		c.Coordinator.StoreRetryBackoffMS = defaultStoreRetryBackoffMS
	}
	if c.Coordinator.StaleGenerationSeconds <= 0 {
		c.Coordinator.StaleGenerationSeconds = defaultStaleGenerationSeconds
	}
	if c.Coordinator.SweepIntervalSeconds <= 0 {
		c.Coordinator.SweepIntervalSeconds = defaultSweepIntervalSeconds
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
