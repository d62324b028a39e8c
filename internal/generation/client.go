package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"genforge/internal/logging"
	"genforge/internal/metrics"
)

// DefaultDeadline bounds a single generation attempt when no deadline is
// configured.
const DefaultDeadline = 300 * time.Second

// Client normalizes backend calls into outcomes. Exactly one backend call is
// dispatched per Generate invocation, bounded by a hard deadline; any failure
// mode short of an unwritable fallback produces a degraded outcome carrying
// the deterministic skeleton.
type Client struct {
	registry *Registry
	deadline time.Duration
	logger   *slog.Logger
}

// NewClient constructs a generation client over the supplied registry.
func NewClient(registry *Registry, deadline time.Duration, logger *slog.Logger) *Client {
	if deadline <= 0 {
		deadline = DefaultDeadline
	}
	return &Client{
		registry: registry,
		deadline: deadline,
		logger:   logging.NewComponentLogger(logger, "generation"),
	}
}

// Deadline returns the configured per-call deadline.
func (c *Client) Deadline() time.Duration {
	return c.deadline
}

// Backends returns the names of the registered backends.
func (c *Client) Backends() []string {
	return c.registry.Names()
}

// Generate runs one backend call for the prompt and normalizes the result.
func (c *Client) Generate(ctx context.Context, prompt, backendHint string) Outcome {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return Outcome{Kind: OutcomeFailure, Reason: "prompt must not be empty"}
	}

	backend, err := c.registry.Resolve(backendHint)
	if err != nil {
		c.logger.Warn("no backend available, substituting fallback",
			logging.Error(err),
		)
		return Outcome{
			Kind:      OutcomeDegraded,
			Artifacts: FallbackArtifacts(prompt),
			Summary:   FallbackSummary("no backend available"),
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, c.deadline)
	defer cancel()

	started := time.Now()
	artifacts, err := backend.Generate(callCtx, prompt)
	elapsed := time.Since(started)

	if err != nil {
		metrics.IncBackendRequest(backend.Name(), "error")
		reason := classifyBackendFailure(callCtx, err)
		c.logger.Warn("backend call degraded, substituting fallback",
			logging.String(logging.FieldBackend, backend.Name()),
			logging.Duration("elapsed", elapsed),
			logging.String("reason", reason),
			logging.Error(err),
		)
		return Outcome{
			Kind:      OutcomeDegraded,
			Artifacts: FallbackArtifacts(prompt),
			Summary:   FallbackSummary(reason),
		}
	}

	if len(artifacts) == 0 {
		metrics.IncBackendRequest(backend.Name(), "empty")
		c.logger.Warn("backend returned no artifacts, substituting fallback",
			logging.String(logging.FieldBackend, backend.Name()),
			logging.Duration("elapsed", elapsed),
		)
		return Outcome{
			Kind:      OutcomeDegraded,
			Artifacts: FallbackArtifacts(prompt),
			Summary:   FallbackSummary("backend returned no artifacts"),
		}
	}

	metrics.IncBackendRequest(backend.Name(), "ok")
	c.logger.Info("backend call succeeded",
		logging.String(logging.FieldBackend, backend.Name()),
		logging.Int("artifact_count", len(artifacts)),
		logging.Duration("elapsed", elapsed),
	)
	return Outcome{
		Kind:      OutcomeSuccess,
		Artifacts: artifacts,
		Summary:   fmt.Sprintf("generated %d files via %s", len(artifacts), backend.Name()),
	}
}

func classifyBackendFailure(ctx context.Context, err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
		return "backend call exceeded deadline"
	case errors.Is(err, context.Canceled):
		return "backend call canceled"
	default:
		return "backend call failed"
	}
}
