package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/eaglebank/eaglebank/internal/bank/store"
)

// HousekeepingService periodically reconciles the cross-aggregate invariant
// between users and accounts: a user's has_open_account flag must mirror
// whether they own any accounts. The flag is maintained transactionally on
// every account create/delete; this loop is the idempotent compensation path
// in case a past deployment or manual intervention left it askew.
type HousekeepingService struct {
	Store    store.Store
	Logger   *slog.Logger
	Interval time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a new housekeeping service with the given
// interval. If interval is 0 or negative, defaults to 1 hour.
func NewHousekeepingService(st store.Store, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = time.Hour
	}

	return &HousekeepingService{
		Store:    st,
		Logger:   logger,
		Interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background worker. Non-blocking; call Stop() to shut down.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop gracefully shuts down the background worker, blocking until any
// in-progress pass completes.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// Run a pass immediately on startup
	s.reconcile()

	for {
		select {
		case <-ticker.C:
			s.reconcile()
		case <-s.stopCh:
			return
		}
	}
}

// reconcile repairs user flags that disagree with the account table. A
// nonzero repair count means some past write skipped the transactional path
// and is worth alerting on.
func (s *HousekeepingService) reconcile() {
	ctx := context.Background()

	repaired, err := s.Store.Users().ReconcileOpenAccountFlags(ctx)
	if err != nil {
		s.Logger.Error("failed to reconcile open-account flags", "error", err)
		return
	}

	if repaired > 0 {
		s.Logger.Warn("repaired open-account flags out of sync with account table", "repaired", repaired)
	} else {
		s.Logger.Debug("open-account flags consistent")
	}
}
