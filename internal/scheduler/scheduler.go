package scheduler

import (
	"log"
	"time"

	"github.com/go-co-op/gocron"
)

// Maintenance runs periodic housekeeping: pruning expired entries from the
// outbound response cache.
type Maintenance struct {
	scheduler *gocron.Scheduler
	interval  time.Duration
	prune     func() error
}

// New creates a Maintenance scheduler that calls prune every interval.
func New(interval time.Duration, prune func() error) *Maintenance {
	return &Maintenance{
		scheduler: gocron.NewScheduler(time.UTC),
		interval:  interval,
		prune:     prune,
	}
}

// Start schedules the pruning job and starts the underlying scheduler.
func (m *Maintenance) Start() error {
	minutes := int(m.interval.Minutes())
	if minutes <= 0 {
		minutes = 60
	}

	_, err := m.scheduler.Every(minutes).Minutes().Do(func() {
		if err := m.prune(); err != nil {
			log.Printf("scheduler: cache prune failed: %v", err)
		}
	})
	if err != nil {
		return err
	}

	m.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (m *Maintenance) Stop() {
	if m.scheduler != nil {
		m.scheduler.Stop()
	}
}
