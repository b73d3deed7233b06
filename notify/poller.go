// ABOUTME: Reminder polling loop with explicit start/stop lifecycle
// ABOUTME: Runs ProcessDue eagerly at start and then on a fixed cron cadence
package notify

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// DefaultPollInterval is the reference cadence for the due-reminder check.
const DefaultPollInterval = time.Minute

// Poller owns the periodic due-reminder check. Overlapping ticks are
// tolerated: a slow tick is never cancelled, and Stop only prevents new
// ticks from being scheduled.
type Poller struct {
	db       *sql.DB
	notifier Notifier

	mu      sync.Mutex
	cron    *cron.Cron
	started bool
}

func NewPoller(database *sql.DB, notifier Notifier) *Poller {
	return &Poller{db: database, notifier: notifier}
}

// Start runs one eager check and then schedules checks at the given
// interval. Starting an already-started poller is a no-op.
func (p *Poller) Start(interval time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return nil
	}
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	p.runOnce()

	c := cron.New()
	if _, err := c.AddFunc(fmt.Sprintf("@every %s", interval), p.runOnce); err != nil {
		return fmt.Errorf("failed to schedule reminder poll: %w", err)
	}
	c.Start()

	p.cron = c
	p.started = true
	return nil
}

// Stop halts scheduling of new ticks. An in-flight tick runs to completion.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return
	}
	p.cron.Stop()
	p.cron = nil
	p.started = false
}

func (p *Poller) runOnce() {
	if _, err := ProcessDue(p.db, p.notifier, time.Now()); err != nil {
		// Storage failures surface in the log; the next tick retries
		log.Printf("reminder poll failed: %v", err)
	}
}
