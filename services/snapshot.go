package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/chessleaguetracker/leagueboard/models"
	"github.com/chessleaguetracker/leagueboard/storage"
)

// Snapshot is one immutable view of the three pipeline documents. Timeouts
// and Resignations may be nil when the secondary fetch failed; derivations
// must degrade gracefully. Version identifies the snapshot for memoization.
type Snapshot struct {
	Version          uint64
	LoadedAt         time.Time
	League           *models.LeagueData
	Timeouts         *models.TimeoutData
	Resignations     *models.EarlyResignationData
	ResignationIndex ResignationIndex
}

// SnapshotStore holds the current snapshot behind a read lock. Writers
// replace the whole snapshot; readers never see a partial update.
type SnapshotStore struct {
	mu      sync.RWMutex
	current *Snapshot
	version uint64
}

func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{}
}

// Current returns the latest snapshot, or ErrDataUnavailable before the
// first successful load.
func (s *SnapshotStore) Current() (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, ErrDataUnavailable
	}
	return s.current, nil
}

func (s *SnapshotStore) set(snapshot *Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.version++
	snapshot.Version = s.version
	s.current = snapshot
}

// LoaderConfig names the object keys of the three pipeline documents.
type LoaderConfig struct {
	LeagueKey      string
	TimeoutKey     string
	ResignationKey string
}

// Loader fetches the pipeline documents and publishes snapshots. The league
// document is required; timeout and resignation documents are optional and
// their fetch or decode failures only produce a warning.
type Loader struct {
	source       storage.DocumentSource
	store        *SnapshotStore
	resignations ResignationService
	cfg          LoaderConfig
	logger       *slog.Logger
}

func NewLoader(source storage.DocumentSource, store *SnapshotStore, resignations ResignationService, cfg LoaderConfig, logger *slog.Logger) *Loader {
	return &Loader{
		source:       source,
		store:        store,
		resignations: resignations,
		cfg:          cfg,
		logger:       logger,
	}
}

// Refresh fetches all documents in parallel and publishes a new snapshot.
// Returns an error only when the league document cannot be loaded; the
// previous snapshot stays current in that case.
func (l *Loader) Refresh(ctx context.Context) error {
	var (
		league       *models.LeagueData
		timeouts     *models.TimeoutData
		resignations *models.EarlyResignationData
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		body, err := l.source.Fetch(gctx, l.cfg.LeagueKey)
		if err != nil {
			return fmt.Errorf("failed to fetch league document: %w", err)
		}
		var data models.LeagueData
		if err := json.Unmarshal(body, &data); err != nil {
			return fmt.Errorf("failed to decode league document: %w", err)
		}
		league = &data
		return nil
	})

	g.Go(func() error {
		body, err := l.source.Fetch(gctx, l.cfg.TimeoutKey)
		if err != nil {
			l.logger.Warn("timeout document unavailable", "key", l.cfg.TimeoutKey, "error", err)
			return nil
		}
		var data models.TimeoutData
		if err := json.Unmarshal(body, &data); err != nil {
			l.logger.Warn("timeout document malformed", "key", l.cfg.TimeoutKey, "error", err)
			return nil
		}
		timeouts = &data
		return nil
	})

	g.Go(func() error {
		body, err := l.source.Fetch(gctx, l.cfg.ResignationKey)
		if err != nil {
			l.logger.Warn("resignation document unavailable", "key", l.cfg.ResignationKey, "error", err)
			return nil
		}
		var data models.EarlyResignationData
		if err := json.Unmarshal(body, &data); err != nil {
			l.logger.Warn("resignation document malformed", "key", l.cfg.ResignationKey, "error", err)
			return nil
		}
		resignations = &data
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	// Secondary fetch failures are swallowed above, so a cancelled load can
	// reach this point with a league document in hand. An abandoned refresh
	// must never publish.
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("refresh abandoned: %w", err)
	}

	snapshot := &Snapshot{
		LoadedAt:         time.Now(),
		League:           league,
		Timeouts:         timeouts,
		Resignations:     resignations,
		ResignationIndex: l.resignations.BuildIndex(resignations),
	}
	l.store.set(snapshot)

	l.logger.Info("snapshot refreshed",
		"version", snapshot.Version,
		"leagues", len(league.Leagues),
		"timeout_data", timeouts != nil,
		"resignation_data", resignations != nil,
	)
	return nil
}
