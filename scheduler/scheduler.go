package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/chessleaguetracker/leagueboard/live"
	"github.com/chessleaguetracker/leagueboard/notify"
	"github.com/chessleaguetracker/leagueboard/services"
)

// Scheduler periodically refreshes the data snapshot and pushes refresh
// notifications to connected dashboard clients. When a notifier is
// configured it also sends a daily alert digest.
type Scheduler struct {
	s        gocron.Scheduler
	loader   *services.Loader
	leagues  services.LeagueService
	store    *services.SnapshotStore
	hub      *live.Hub
	notifier notify.Notifier
	interval time.Duration
	logger   *slog.Logger
}

func New(loader *services.Loader, leagues services.LeagueService, store *services.SnapshotStore, hub *live.Hub, notifier notify.Notifier, interval time.Duration, logger *slog.Logger) (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	return &Scheduler{
		s:        s,
		loader:   loader,
		leagues:  leagues,
		store:    store,
		hub:      hub,
		notifier: notifier,
		interval: interval,
		logger:   logger,
	}, nil
}

func (s *Scheduler) Start() error {
	_, err := s.s.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(s.refresh),
	)
	if err != nil {
		return fmt.Errorf("failed to create refresh job: %w", err)
	}

	if s.notifier != nil {
		_, err = s.s.NewJob(
			gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(8, 0, 0))),
			gocron.NewTask(s.sendDigest),
		)
		if err != nil {
			return fmt.Errorf("failed to create digest job: %w", err)
		}
	}

	s.s.Start()
	return nil
}

func (s *Scheduler) Stop() error {
	return s.s.Shutdown()
}

func (s *Scheduler) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := s.loader.Refresh(ctx); err != nil {
		s.logger.Error("scheduled refresh failed", "error", err)
		return
	}

	snapshot, err := s.store.Current()
	if err != nil {
		return
	}
	leagueNames, err := s.leagues.LeagueNames()
	if err != nil {
		return
	}
	s.hub.NotifyRefresh(snapshot.Version, leagueNames)
}

func (s *Scheduler) sendDigest() {
	digest, err := s.leagues.AlertDigest()
	if err != nil {
		s.logger.Error("failed to build alert digest", "error", err)
		return
	}
	if digest == "" {
		s.logger.Info("alert digest empty, nothing to send")
		return
	}
	if err := s.notifier.SendMessage(digest); err != nil {
		s.logger.Error("failed to send alert digest", "error", err)
	}
}
