package config

const (
	defaultDataDir                = "~/.local/share/genforge/data"
	defaultLogDir                 = "~/.local/share/genforge/logs"
	defaultAPIBind                = "127.0.0.1:8461"
	defaultBackendHint            = "ollama"
	defaultDeadlineSeconds        = 300
	defaultChatBaseURL            = "https://openrouter.ai/api/v1/chat/completions"
	defaultChatModel              = "google/gemini-3-flash-preview"
	defaultChatReferer            = "https://github.com/genforge/genforge"
	defaultChatTitle              = "Genforge Project Generator"
	defaultChatTimeoutSeconds     = 300
	defaultOllamaBaseURL          = "http://127.0.0.1:11434"
	defaultOllamaModel            = "llama3.1"
	defaultOllamaTimeoutSeconds   = 300
	defaultStoreRetryAttempts     = 3
	defaultStoreRetryBackoffMS    = 250
	defaultStaleGenerationSeconds = 900
	defaultSweepIntervalSeconds   = 60
	defaultLogFormat              = "console"
	defaultLogLevel               = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
			APIBind: defaultAPIBind,
		},
		Generation: Generation{
			Backend:         defaultBackendHint,
			DeadlineSeconds: defaultDeadlineSeconds,
		},
		Backends: Backends{
			Chat: ChatBackend{
				BaseURL:        defaultChatBaseURL,
				Model:          defaultChatModel,
				Referer:        defaultChatReferer,
				Title:          defaultChatTitle,
				TimeoutSeconds: defaultChatTimeoutSeconds,
			},
			Ollama: OllamaBackend{
				BaseURL:        defaultOllamaBaseURL,
				Model:          defaultOllamaModel,
				TimeoutSeconds: defaultOllamaTimeoutSeconds,
			},
		},
		Coordinator: Coordinator{
			StoreRetryAttempts:     defaultStoreRetryAttempts,
			StoreRetryBackoffMS:    defaultStoreRetryBackoffMS,
			StaleGenerationSeconds: defaultStaleGenerationSeconds,
			SweepIntervalSeconds:   defaultSweepIntervalSeconds,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
