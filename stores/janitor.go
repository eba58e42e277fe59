package stores

import (
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Janitor periodically prunes abandoned turns (no recorded answer) so they
// do not accumulate. Completed turns are never touched.
type Janitor struct {
	store     ConversationStore
	olderThan time.Duration
	logger    *log.Logger

	scheduler *cron.Cron
}

// NewJanitor creates a janitor that prunes abandoned turns older than the
// given age. A nil logger falls back to the standard logger.
func NewJanitor(store ConversationStore, olderThan time.Duration, logger *log.Logger) *Janitor {
	if logger == nil {
		logger = log.Default()
	}
	return &Janitor{store: store, olderThan: olderThan, logger: logger}
}

// Start registers the prune job under the given cron schedule (standard
// five-field spec, e.g. "0 3 * * *" for 3am daily) and starts the scheduler.
func (j *Janitor) Start(schedule string) error {
	if j.scheduler != nil {
		return fmt.Errorf("janitor already started")
	}

	c := cron.New()
	if _, err := c.AddFunc(schedule, j.runOnce); err != nil {
		return fmt.Errorf("invalid janitor schedule %q: %w", schedule, err)
	}
	j.scheduler = c
	c.Start()
	return nil
}

// Stop halts the scheduler. Safe to call before Start.
func (j *Janitor) Stop() {
	if j.scheduler != nil {
		j.scheduler.Stop()
		j.scheduler = nil
	}
}

func (j *Janitor) runOnce() {
	pruned, err := j.store.PruneAbandonedTurns(j.olderThan)
	if err != nil {
		j.logger.Printf("janitor: prune failed: %v", err)
		return
	}
	if pruned > 0 {
		j.logger.Printf("janitor: pruned %d abandoned turns", pruned)
	}
}
