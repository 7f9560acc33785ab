package store

import (
	"context"
	"sync"

	"transportsystem/avganger/internal/constants"
	"transportsystem/avganger/internal/models/entities"
)

// MemoryStore keeps the collection in process memory. Snapshots are
// delivered synchronously inside ReplaceAll.
type MemoryStore struct {
	mu      sync.Mutex
	records []entities.Departure
	subs    fanout
}

var _ RemoteStore = (*MemoryStore)(nil)

func NewMemoryStore(initial ...entities.Departure) *MemoryStore {
	return &MemoryStore{records: cloneRecords(initial)}
}

func (s *MemoryStore) Subscribe(ctx context.Context, onSnapshot SnapshotFunc) (Subscription, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	onSnapshot(cloneRecords(s.records))
	return s.subs.add(onSnapshot), nil
}

func (s *MemoryStore) ReplaceAll(ctx context.Context, records []entities.Departure) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = cloneRecords(records)
	s.subs.deliver(s.records)
	return nil
}

func (s *MemoryStore) Ping(ctx context.Context) error { return ctx.Err() }

func (s *MemoryStore) Name() string { return string(constants.StoreBackendMemory) }

func (s *MemoryStore) Close() error { return nil }
