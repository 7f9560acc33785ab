package services

import (
	"context"
	"errors"
	"testing"

	"transportsystem/avganger/internal/constants"
	"transportsystem/avganger/internal/models/entities"
)

func TestDepartureRepository_StartLoadsInitialSnapshot(t *testing.T) {
	repo, _ := setupRepo(t, dep(1, "A1", "MOLDE", "08:00"))

	snap := repo.Snapshot()
	if len(snap.Records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(snap.Records))
	}
	if snap.LastSync.IsZero() {
		t.Error("Expected LastSync to be set after the first snapshot")
	}
}

func TestDepartureRepository_CurrentIsACopy(t *testing.T) {
	repo, _ := setupRepo(t, dep(1, "A1", "MOLDE", "08:00"))

	current := repo.Current()
	current[0].UnitNumber = "CHANGED"

	if got := repo.Current()[0].UnitNumber; got != "A1" {
		t.Errorf("Expected A1, got %s", got)
	}
}

func TestDepartureRepository_MutateWritesThroughStore(t *testing.T) {
	repo, st := setupRepo(t)

	err := repo.Mutate(context.Background(), func(current []entities.Departure) ([]entities.Departure, error) {
		return append(current, dep(1, "A1", "MOLDE", "08:00")), nil
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if st.writeCount() != 1 {
		t.Errorf("Expected 1 write, got %d", st.writeCount())
	}
	if len(repo.Current()) != 1 {
		t.Errorf("Expected the snapshot to include the new record, got %d records", len(repo.Current()))
	}
}

func TestDepartureRepository_MutateErrorSkipsWrite(t *testing.T) {
	repo, st := setupRepo(t)
	boom := errors.New("boom")

	err := repo.Mutate(context.Background(), func([]entities.Departure) ([]entities.Departure, error) {
		return nil, boom
	})
	if !errors.Is(err, boom) {
		t.Errorf("Expected boom, got %v", err)
	}
	if st.writeCount() != 0 {
		t.Errorf("Expected no write, got %d", st.writeCount())
	}
}

func TestDepartureRepository_StoreFailureIsStoreWriteError(t *testing.T) {
	repo, st := setupRepo(t, dep(1, "A1", "MOLDE", "08:00"))
	st.failWrite = errors.New("connection refused")

	err := repo.Mutate(context.Background(), func([]entities.Departure) ([]entities.Departure, error) {
		return []entities.Departure{}, nil
	})
	if !IsCode(err, constants.ErrCodeStoreWrite) {
		t.Fatalf("Expected %s, got %v", constants.ErrCodeStoreWrite, err)
	}
	if len(repo.Current()) != 1 {
		t.Errorf("Expected local state unchanged, got %d records", len(repo.Current()))
	}
}

func TestDepartureRepository_OnChangeNotifiesUntilCancelled(t *testing.T) {
	repo, _ := setupRepo(t)

	var seen []int
	cancel := repo.OnChange(func(s Snapshot) {
		seen = append(seen, len(s.Records))
	})

	_ = repo.Mutate(context.Background(), func(current []entities.Departure) ([]entities.Departure, error) {
		return append(current, dep(1, "A1", "MOLDE", "08:00")), nil
	})
	cancel()
	_ = repo.Mutate(context.Background(), func(current []entities.Departure) ([]entities.Departure, error) {
		return append(current, dep(2, "B2", "MOLDE", "08:00")), nil
	})

	if len(seen) != 1 || seen[0] != 1 {
		t.Errorf("Expected one notification with 1 record, got %v", seen)
	}
}

func TestDepartureRepository_LocalStateFollowsStoreOnly(t *testing.T) {
	repo, st := setupRepo(t)

	// A write from another client reaches this repository through the store.
	if err := st.MemoryStore.ReplaceAll(context.Background(), []entities.Departure{dep(9, "Z9", "FØRDE", "10:00")}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if got := ids(repo.Current()); !equalIDs(got, []int64{9}) {
		t.Errorf("Expected [9], got %v", got)
	}
}
