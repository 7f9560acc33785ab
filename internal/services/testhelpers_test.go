package services

import (
	"context"
	"sync"
	"testing"

	"transportsystem/avganger/internal/constants"
	"transportsystem/avganger/internal/logging"
	"transportsystem/avganger/internal/models/entities"
	"transportsystem/avganger/internal/store"

	"go.uber.org/zap"
)

func init() {
	logging.SetLogger(zap.NewNop())
}

// countingStore wraps a MemoryStore and counts writes.
type countingStore struct {
	*store.MemoryStore

	mu        sync.Mutex
	writes    int
	failWrite error
}

func (s *countingStore) ReplaceAll(ctx context.Context, records []entities.Departure) error {
	s.mu.Lock()
	fail := s.failWrite
	if fail == nil {
		s.writes++
	}
	s.mu.Unlock()

	if fail != nil {
		return fail
	}
	return s.MemoryStore.ReplaceAll(ctx, records)
}

func (s *countingStore) writeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

func setupRepo(t *testing.T, initial ...entities.Departure) (*DepartureRepository, *countingStore) {
	t.Helper()

	st := &countingStore{MemoryStore: store.NewMemoryStore(initial...)}
	repo := NewDepartureRepository(st, nil)
	if err := repo.Start(context.Background()); err != nil {
		t.Fatalf("Failed to start repository: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo, st
}

func dep(id int64, unit, destination, clock string) entities.Departure {
	return entities.Departure{
		ID:          id,
		UnitNumber:  unit,
		Destination: destination,
		Time:        clock,
		Gate:        "1",
		Type:        constants.TypeCar,
		Status:      constants.StatusWarehouse,
	}
}

func validForm(unit string) DepartureForm {
	return DepartureForm{
		UnitNumber:  unit,
		Destination: "MOLDE",
		Time:        "08:15",
		Gate:        "4",
		Type:        constants.TypeTrain,
		Status:      constants.StatusPlanned,
	}
}

func ids(records []entities.Departure) []int64 {
	out := make([]int64, len(records))
	for i, d := range records {
		out[i] = d.ID
	}
	return out
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
