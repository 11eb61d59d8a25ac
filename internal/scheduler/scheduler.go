// Package scheduler wires up the cron job that periodically refreshes the
// job snapshot. LISTEN/NOTIFY is the primary change signal; the cron tick is
// the safety net that recovers subscribers after a missed notification.
package scheduler

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"github.com/RamD446/allindiajobs/internal/store"
)

// Scheduler wraps robfig/cron and manages the refresh loop.
type Scheduler struct {
	cron  *cron.Cron
	store *store.Store
	spec  string // cron spec, e.g. "@every 5m"
}

// New creates a Scheduler that fires every intervalMinutes minutes.
func New(st *store.Store, intervalMinutes int) *Scheduler {
	return &Scheduler{
		cron:  cron.New(cron.WithLogger(cron.DefaultLogger)),
		store: st,
		spec:  fmt.Sprintf("@every %dm", intervalMinutes),
	}
}

// Start registers the refresh job and starts the scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		if err := s.store.Refresh(ctx); err != nil {
			log.Printf("[listing-service] Scheduled refresh error: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	log.Printf("[listing-service] Refresh cron started (%s)", s.spec)
	return nil
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("[listing-service] Refresh cron stopped")
}
