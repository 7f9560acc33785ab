package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"transportsystem/avganger/internal/db/repositories"
	"transportsystem/avganger/internal/logging"
	"transportsystem/avganger/internal/models/entities"
)

// SQLStore keeps the collection in the departures table. Subscribers are
// in-process only; run a single instance per database or use RedisStore.
type SQLStore struct {
	backend string
	repo    *repositories.DepartureRepositoryGORM
	journal *repositories.WriteJournalRepo

	mu   sync.Mutex
	subs fanout
	now  func() time.Time
}

var (
	_ RemoteStore = (*SQLStore)(nil)
	_ RowCounter  = (*SQLStore)(nil)
)

// NewSQLStore creates a store over repo. journal may be nil.
func NewSQLStore(backend string, repo *repositories.DepartureRepositoryGORM, journal *repositories.WriteJournalRepo) *SQLStore {
	return &SQLStore{
		backend: backend,
		repo:    repo,
		journal: journal,
		now:     time.Now,
	}
}

func (s *SQLStore) Subscribe(ctx context.Context, onSnapshot SnapshotFunc) (Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load departures: %w", err)
	}

	onSnapshot(cloneRecords(records))
	return s.subs.add(onSnapshot), nil
}

func (s *SQLStore) ReplaceAll(ctx context.Context, records []entities.Departure) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.ReplaceAll(ctx, records); err != nil {
		return fmt.Errorf("replace departures: %w", err)
	}

	if s.journal != nil {
		if err := s.journal.Record(ctx, s.backend, len(records), s.now()); err != nil {
			logging.WithComponent("sql_store").Warnw("Failed to record departure write", "backend", s.backend, "error", err.Error())
		}
	}

	s.subs.deliver(records)
	return nil
}

// Journal returns the write journal, or nil when none is configured.
func (s *SQLStore) Journal() *repositories.WriteJournalRepo {
	return s.journal
}

func (s *SQLStore) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

// StoredCount returns the number of rows in the departures table.
func (s *SQLStore) StoredCount(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

func (s *SQLStore) Name() string { return s.backend }

func (s *SQLStore) Close() error { return nil }
