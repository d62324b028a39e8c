package coordinator

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"genforge/internal/config"
	"genforge/internal/generation"
	"genforge/internal/logging"
	"genforge/internal/metrics"
	"genforge/internal/project"
	"genforge/internal/services"
)

// Coordinator drives each generation request through its lifecycle. Submit
// accepts work and returns immediately; the lifecycle itself runs on a
// background goroutine per request. All state lives in the store, guarded by
// compare-and-set transitions, so duplicate dispatches collapse to a single
// observable outcome.
type Coordinator struct {
	cfg    *config.Config
	store  *project.Store
	client *generation.Client
	logger *slog.Logger

	retryAttempts int
	retryBackoff  time.Duration
	staleAfter    time.Duration
	sweepInterval time.Duration

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	runCtx  context.Context
	wg      sync.WaitGroup
}

// New constructs a coordinator.
func New(cfg *config.Config, store *project.Store, client *generation.Client, logger *slog.Logger) *Coordinator {
	return &Coordinator{
		cfg:           cfg,
		store:         store,
		client:        client,
		logger:        logging.NewComponentLogger(logger, "coordinator"),
		retryAttempts: cfg.Coordinator.StoreRetryAttempts,
		retryBackoff:  time.Duration(cfg.Coordinator.StoreRetryBackoffMS) * time.Millisecond,
		staleAfter:    time.Duration(cfg.Coordinator.StaleGenerationSeconds) * time.Second,
		sweepInterval: time.Duration(cfg.Coordinator.SweepIntervalSeconds) * time.Second,
	}
}

// Start begins background processing: the stuck-generation sweeper plus
// re-dispatch of any pending records left over from a previous process.
func (c *Coordinator) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return errors.New("coordinator already running")
	}
	runCtx, cancel := context.WithCancel(ctx)
	c.runCtx = runCtx
	c.cancel = cancel
	c.running = true
	c.wg.Add(1)
	c.mu.Unlock()

	go c.runSweeper(runCtx)

	if err := c.redispatchPending(runCtx); err != nil {
		c.logger.Warn("pending re-dispatch failed; records remain until next start",
			logging.Error(err),
		)
	}

	return nil
}

// Stop terminates background processing and waits for in-flight runs. Runs
// interrupted here leave their records in Generating; no terminal status is
// invented for an unknown outcome.
func (c *Coordinator) Stop() {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	cancel := c.cancel
	c.running = false
	c.cancel = nil
	c.mu.Unlock()

	cancel()
	c.wg.Wait()
}

// Submit validates the prompt, creates the record, and schedules asynchronous
// execution. Storage failures surface to the caller; nothing is scheduled in
// that case.
func (c *Coordinator) Submit(ctx context.Context, prompt, backendHint string, metadata map[string]string) (*project.Project, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, services.Wrap(services.ErrValidation, "coordinator", "submit", "prompt must not be empty", nil)
	}

	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return nil, services.Wrap(services.ErrUnavailable, "coordinator", "submit", "coordinator is not running", nil)
	}
	runCtx := c.runCtx
	c.mu.Unlock()

	proj, err := c.store.Create(ctx, prompt, backendHint, metadata)
	if err != nil {
		return nil, err
	}

	metrics.IncProjectsSubmitted()
	c.logger.Info("project submitted",
		logging.String(logging.FieldProjectID, proj.ID),
		logging.String(logging.FieldBackend, proj.Backend),
	)

	c.dispatch(runCtx, proj.ID)
	return proj, nil
}

// Backends returns the names of the generation backends available to runs.
func (c *Coordinator) Backends() []string {
	return c.client.Backends()
}

func (c *Coordinator) dispatch(ctx context.Context, id string) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.Run(ctx, id)
	}()
}

// Run executes the lifecycle for one record. It is safe to invoke more than
// once per id: the MarkGenerating guard turns duplicate dispatches into
// no-ops, and the terminal CAS guarantees at most one observable terminal
// transition.
func (c *Coordinator) Run(ctx context.Context, id string) {
	logger := c.logger.With(logging.String(logging.FieldProjectID, id))
	ctx = services.WithProjectID(ctx, id)

	if err := c.withStoreRetry(ctx, logger, "mark generating", func() error {
		return c.store.MarkGenerating(ctx, id)
	}); err != nil {
		switch {
		case errors.Is(err, services.ErrConflict):
			logger.Debug("duplicate dispatch ignored", logging.Error(err))
		case errors.Is(err, services.ErrNotFound):
			logger.Warn("project vanished before generation", logging.Error(err))
		default:
			metrics.IncError("coordinator", "mark_generating")
			logger.Error("could not claim project; it stays pending until restart",
				logging.Error(err),
			)
		}
		return
	}
	metrics.IncStatusTransition(string(project.StatusPending), string(project.StatusGenerating))

	proj, err := c.store.Get(ctx, id)
	if err != nil {
		metrics.IncError("coordinator", "load_project")
		logger.Error("could not load claimed project; record stays generating",
			logging.Error(err),
		)
		return
	}

	started := time.Now()
	outcome := c.client.Generate(ctx, proj.Prompt, proj.Backend)
	elapsed := time.Since(started)

	if ctx.Err() != nil {
		// Shutdown mid-call. The true outcome is unknown; leave the record in
		// Generating for the sweeper and the next start to surface.
		logger.Warn("generation interrupted by shutdown; no terminal status written",
			logging.Duration("elapsed", elapsed),
		)
		return
	}

	metrics.IncGenerationOutcome(string(outcome.Kind))
	metrics.ObserveGenerationDuration(elapsed)
	if outcome.Kind == generation.OutcomeDegraded {
		metrics.IncFallbackServed()
	}

	status := outcome.TerminalStatus()
	summary := outcome.Summary
	artifacts := outcome.Artifacts
	if status == project.StatusFailed {
		summary = outcome.Reason
		artifacts = nil
	}

	err = c.withStoreRetry(ctx, logger, "update terminal", func() error {
		return c.store.UpdateTerminal(ctx, id, status, artifacts, summary)
	})
	switch {
	case err == nil:
		metrics.IncStatusTransition(string(project.StatusGenerating), string(status))
		logger.Info("project reached terminal status",
			logging.String(logging.FieldStatus, string(status)),
			logging.String(logging.FieldOutcome, string(outcome.Kind)),
			logging.Int("artifact_count", len(artifacts)),
			logging.Duration("elapsed", elapsed),
		)
	case errors.Is(err, services.ErrConflict):
		// A racing duplicate already wrote the terminal state. The store is
		// the single source of truth; discard this result silently.
		logger.Debug("terminal write lost the race; result discarded")
	default:
		metrics.IncTerminalWriteAbandoned()
		metrics.IncError("coordinator", "update_terminal")
		logger.Error("terminal write abandoned after retries; record is stuck in generating",
			logging.String(logging.FieldStatus, string(status)),
			logging.Error(err),
		)
	}
}

// withStoreRetry retries retryable store failures a bounded number of times
// with doubling backoff. Non-retryable classifications (validation, conflict,
// not found) return immediately.
func (c *Coordinator) withStoreRetry(ctx context.Context, logger *slog.Logger, op string, fn func() error) error {
	attempts := c.retryAttempts
	if attempts <= 0 {
		attempts = 1
	}
	backoff := c.retryBackoff

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if !services.IsRetryable(lastErr) || attempt == attempts {
			return lastErr
		}
		metrics.IncTerminalWriteRetry()
		logger.Warn("store operation failed; retrying",
			logging.String("operation", op),
			logging.Int("attempt", attempt),
			logging.Duration("backoff", backoff),
			logging.Error(lastErr),
		)
		select {
		case <-ctx.Done():
			return lastErr
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return lastErr
}

// redispatchPending resumes records accepted by a previous process that never
// got a runner. Duplicate dispatch is harmless thanks to the claim guard.
func (c *Coordinator) redispatchPending(ctx context.Context) error {
	pending, err := c.store.ListByStatus(ctx, project.StatusPending)
	if err != nil {
		return err
	}
	for _, proj := range pending {
		c.logger.Info("re-dispatching pending project from previous run",
			logging.String(logging.FieldProjectID, proj.ID),
		)
		c.dispatch(ctx, proj.ID)
	}
	return nil
}
