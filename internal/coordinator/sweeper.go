package coordinator

import (
	"context"
	"time"

	"genforge/internal/logging"
	"genforge/internal/metrics"
)

const maxSweepReportIDs = 10

// runSweeper periodically surfaces records stuck in Generating past the
// staleness threshold. It observes and reports only; it never rewrites
// status, since the true generation outcome is unknown.
func (c *Coordinator) runSweeper(ctx context.Context) {
	defer c.wg.Done()

	interval := c.sweepInterval
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.sweepOnce(ctx)
		}
	}
}

func (c *Coordinator) sweepOnce(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-c.staleAfter)
	stuck, err := c.store.GeneratingOlderThan(ctx, cutoff)
	if err != nil {
		metrics.IncError("sweeper", "list_stuck")
		c.logger.Warn("stuck-generation sweep failed", logging.Error(err))
		return
	}

	metrics.SetStuckGenerating(len(stuck))
	if len(stuck) == 0 {
		return
	}

	ids := make([]string, 0, maxSweepReportIDs)
	for i, proj := range stuck {
		if i >= maxSweepReportIDs {
			break
		}
		ids = append(ids, proj.ID)
	}
	c.logger.Warn("projects stuck in generating past staleness threshold",
		logging.Int("count", len(stuck)),
		logging.Duration("threshold", c.staleAfter),
		logging.Any("ids", ids),
	)
}
