package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"genforge/internal/config"
	"genforge/internal/project"
)

const defaultOllamaTimeout = 120 * time.Second

// OllamaBackend talks to a local Ollama instance via its generate API.
type OllamaBackend struct {
	cfg        config.OllamaBackend
	httpClient *http.Client
}

// OllamaOption customizes the Ollama backend.
type OllamaOption func(*OllamaBackend)

// WithOllamaHTTPClient overrides the default HTTP client.
func WithOllamaHTTPClient(client *http.Client) OllamaOption {
	return func(o *OllamaBackend) {
		if client != nil {
			o.httpClient = client
		}
	}
}

// NewOllamaBackend constructs an Ollama backend using the supplied configuration.
func NewOllamaBackend(cfg config.OllamaBackend, opts ...OllamaOption) *OllamaBackend {
	timeout := defaultOllamaTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	backend := &OllamaBackend{
		cfg: config.OllamaBackend{
			BaseURL:        strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
			Model:          strings.TrimSpace(cfg.Model),
			TimeoutSeconds: cfg.TimeoutSeconds,
		},
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(backend)
	}
	return backend
}

// Name implements Backend.
func (o *OllamaBackend) Name() string { return "ollama" }

type ollamaGenerateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	System string `json:"system,omitempty"`
	Stream bool   `json:"stream"`
}

type ollamaGenerateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
	Error    string `json:"error"`
}

// Generate implements Backend by requesting a JSON file plan from Ollama.
func (o *OllamaBackend) Generate(ctx context.Context, prompt string) ([]project.Artifact, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, errors.New("ollama generate: prompt required")
	}
	if o.cfg.BaseURL == "" {
		return nil, errors.New("ollama generate: base url required")
	}

	payload := ollamaGenerateRequest{
		Model:  o.cfg.Model,
		Prompt: buildFilePlanPrompt(prompt),
		System: filePlanSystemPrompt,
		Stream: false,
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("ollama request: encode body: %w", err)
	}

	endpoint := o.cfg.BaseURL + "/api/generate"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("ollama request: new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ollama request: http error: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("ollama request: read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ollama request: http %d: %s", resp.StatusCode, summarizePayloadSnippet(string(body)))
	}

	var decoded ollamaGenerateResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("ollama request: decode response: %w", err)
	}
	if decoded.Error != "" {
		return nil, fmt.Errorf("ollama request: api error: %s", decoded.Error)
	}
	if strings.TrimSpace(decoded.Response) == "" {
		return nil, errors.New("ollama request: empty response")
	}

	return DecodeFilePlan(decoded.Response)
}
