package datastore

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"go.uber.org/multierr"

	"github.com/crewscheduler/backend/internal/models"
)

// Store holds the current snapshot. Readers never block; reloads build a
// new snapshot and swap the pointer.
type Store struct {
	source Source
	logger zerolog.Logger
	now    func() time.Time

	reloadMu sync.Mutex
	current  atomic.Pointer[models.Snapshot]
}

func NewStore(source Source, logger zerolog.Logger) *Store {
	s := &Store{
		source: source,
		logger: logger.With().Str("component", "datastore").Str("source", source.Kind()).Logger(),
		now:    time.Now,
	}
	s.current.Store(models.ErrorSnapshot("❌ Error loading data file: data not loaded yet", source.Kind(), time.Time{}))
	return s
}

// NewStatic returns a store serving a fixed snapshot. Reload is a no-op.
func NewStatic(snap *models.Snapshot) *Store {
	s := &Store{logger: zerolog.Nop(), now: time.Now}
	s.current.Store(snap)
	return s
}

func (s *Store) Source() Source { return s.source }

func (s *Store) Snapshot() *models.Snapshot {
	return s.current.Load()
}

// Reload reads the source again. A failed reload keeps the last good
// snapshot in place; with no good snapshot yet, the failure itself becomes
// the current snapshot so replies can report it.
func (s *Store) Reload(ctx context.Context) (*models.Snapshot, error) {
	if s.source == nil {
		return s.Snapshot(), nil
	}
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	start := s.now()
	doc, err := s.source.Load(ctx)

	var recErr *MalformedRecordError
	if err != nil && !errors.As(err, &recErr) {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return s.Snapshot(), ctxErr
		}
		le := asLoadError(err)
		if prev := s.Snapshot(); prev.Loaded() {
			s.logger.Error().Err(err).Msg("reload failed, keeping previous snapshot")
			return prev, le
		}
		s.logger.Error().Err(err).Msg("data load failed")
		snap := models.ErrorSnapshot(le.Error(), s.source.Kind(), start)
		s.current.Store(snap)
		return snap, le
	}

	var warnings error
	if recErr != nil {
		warnings = recErr.Err
	}
	warnings = multierr.Append(warnings, validateDocument(doc))
	if warnings != nil {
		s.logger.Warn().
			Int("count", len(multierr.Errors(warnings))).
			Err(warnings).
			Msg("malformed records in data source")
	}

	snap := models.NewSnapshot(doc, s.source.Kind(), start)
	s.current.Store(snap)
	s.logger.Info().
		Interface("counts", snap.Counts()).
		Dur("took", s.now().Sub(start)).
		Msg("data snapshot loaded")
	return snap, nil
}
