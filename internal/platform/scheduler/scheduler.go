// Package scheduler runs the periodic rate refresh in the background,
// keeping the rates table warm between manual refresh calls.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	portssvc "github.com/fxrisk/fx_risk_app/internal/core/ports/services"
	"github.com/robfig/cron/v3"
)

// Scheduler owns the cron runner and the refresh job state.
type Scheduler struct {
	cron         *cron.Cron
	orchestrator portssvc.RateOrchestratorSvc
	rateStore    portssvc.RateStoreSvc
	baseCurrency string
	logger       *slog.Logger

	mu          sync.Mutex
	lastSuccess time.Time
	lastFailure time.Time
	lastError   string
}

// New creates a scheduler around the orchestrator and rate store.
func New(
	orchestrator portssvc.RateOrchestratorSvc,
	rateStore portssvc.RateStoreSvc,
	baseCurrency string,
	logger *slog.Logger,
) *Scheduler {
	return &Scheduler{
		cron:         cron.New(),
		orchestrator: orchestrator,
		rateStore:    rateStore,
		baseCurrency: baseCurrency,
		logger:       logger.With(slog.String("component", "scheduler")),
	}
}

// Start registers the refresh job under the given cron expression and starts
// the runner.
func (s *Scheduler) Start(schedule string) error {
	_, err := s.cron.AddFunc(schedule, s.runRefresh)
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("Scheduler started", slog.String("schedule", schedule))
	return nil
}

// Stop halts the runner, waiting for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Scheduler stopped")
}

// LastRun reports the most recent success and failure times and the last
// error message, for health reporting.
func (s *Scheduler) LastRun() (success, failure time.Time, lastError string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSuccess, s.lastFailure, s.lastError
}

func (s *Scheduler) runRefresh() {
	ctx := context.Background()

	snapshot, err := s.orchestrator.RefreshLatest(ctx, s.baseCurrency)
	if err != nil {
		s.recordFailure(err)
		s.logger.Error("Scheduled rate refresh failed", slog.String("error", err.Error()))
		return
	}

	if err := s.rateStore.PersistSnapshot(ctx, snapshot); err != nil {
		s.recordFailure(err)
		s.logger.Error("Scheduled snapshot persist failed", slog.String("error", err.Error()))
		return
	}

	s.mu.Lock()
	s.lastSuccess = time.Now().UTC()
	s.lastError = ""
	s.mu.Unlock()

	s.logger.Info("Scheduled rate refresh completed",
		slog.String("source", snapshot.Source),
		slog.Int("rates", len(snapshot.Rates)))
}

func (s *Scheduler) recordFailure(err error) {
	s.mu.Lock()
	s.lastFailure = time.Now().UTC()
	s.lastError = err.Error()
	s.mu.Unlock()
}
