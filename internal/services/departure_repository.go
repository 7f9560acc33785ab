package services

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"transportsystem/avganger/internal/constants"
	"transportsystem/avganger/internal/logging"
	"transportsystem/avganger/internal/metrics"
	"transportsystem/avganger/internal/models/entities"
	"transportsystem/avganger/internal/store"
)

// errNoWrite aborts a Mutate without writing and without an error.
var errNoWrite = errors.New("no write")

// Snapshot is the collection as last delivered by the store.
type Snapshot struct {
	Records  []entities.Departure `json:"data"`
	LastSync time.Time            `json:"lastSync"`
}

// DepartureRepository holds the latest snapshot from the remote store. Local
// state changes only when the store delivers a snapshot; every mutation goes
// through Mutate, which writes the whole collection back to the store.
type DepartureRepository struct {
	store   store.RemoteStore
	metrics *metrics.MetricsRegistry
	now     func() time.Time

	// SyncTimeout bounds how long Mutate waits for its own write to come back
	// as a snapshot. Stores that deliver synchronously never wait.
	SyncTimeout time.Duration

	mu       sync.RWMutex
	records  []entities.Departure
	lastSync time.Time
	changed  chan struct{}

	writeMu sync.Mutex

	obsMu     sync.Mutex
	nextObsID int
	observers map[int]func(Snapshot)

	sub store.Subscription
}

func NewDepartureRepository(st store.RemoteStore, m *metrics.MetricsRegistry) *DepartureRepository {
	return &DepartureRepository{
		store:       st,
		metrics:     m,
		now:         time.Now,
		SyncTimeout: 5 * time.Second,
		records:     []entities.Departure{},
		changed:     make(chan struct{}),
		observers:   make(map[int]func(Snapshot)),
	}
}

// Start subscribes to the store. The first snapshot has been applied when
// Start returns without error.
func (r *DepartureRepository) Start(ctx context.Context) error {
	sub, err := r.store.Subscribe(ctx, r.handleSnapshot)
	if err != nil {
		return err
	}
	r.sub = sub

	logging.Info("Departure repository subscribed", "backend", r.store.Name(), "departures", len(r.Current()))
	return nil
}

func (r *DepartureRepository) handleSnapshot(records []entities.Departure) {
	r.mu.Lock()
	r.records = slices.Clone(records)
	if r.records == nil {
		r.records = []entities.Departure{}
	}
	r.lastSync = r.now()
	snap := Snapshot{Records: slices.Clone(r.records), LastSync: r.lastSync}
	close(r.changed)
	r.changed = make(chan struct{})
	r.mu.Unlock()

	r.metrics.ObserveSnapshot(len(snap.Records))
	logging.Debug("Departure snapshot received", "backend", r.store.Name(), "departures", len(snap.Records))

	r.obsMu.Lock()
	observers := make([]func(Snapshot), 0, len(r.observers))
	for _, fn := range r.observers {
		observers = append(observers, fn)
	}
	r.obsMu.Unlock()

	for _, fn := range observers {
		fn(Snapshot{Records: slices.Clone(snap.Records), LastSync: snap.LastSync})
	}
}

// Current returns a copy of the current collection.
func (r *DepartureRepository) Current() []entities.Departure {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.records)
}

// Snapshot returns a copy of the collection with the time it arrived.
func (r *DepartureRepository) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return Snapshot{Records: slices.Clone(r.records), LastSync: r.lastSync}
}

// OnChange registers fn for every later snapshot. fn runs on the store's
// delivery goroutine and must not call Mutate.
func (r *DepartureRepository) OnChange(fn func(Snapshot)) (cancel func()) {
	r.obsMu.Lock()
	id := r.nextObsID
	r.nextObsID++
	r.observers[id] = fn
	r.obsMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			r.obsMu.Lock()
			delete(r.observers, id)
			r.obsMu.Unlock()
		})
	}
}

// Mutate runs fn on the current collection and writes its result to the
// store. Mutations in this process are serialized; writers in other
// processes are not, and the last write wins.
func (r *DepartureRepository) Mutate(ctx context.Context, fn func(current []entities.Departure) ([]entities.Departure, error)) error {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	next, err := fn(r.Current())
	if errors.Is(err, errNoWrite) {
		return nil
	}
	if err != nil {
		return err
	}
	if next == nil {
		next = []entities.Departure{}
	}

	r.mu.RLock()
	changed := r.changed
	r.mu.RUnlock()

	start := r.now()
	err = r.store.ReplaceAll(ctx, next)
	r.metrics.ObserveWrite(r.store.Name(), time.Since(start).Seconds(), err)
	if err != nil {
		logging.Error("Departure write failed", "backend", r.store.Name(), "departures", len(next), "error", err.Error())
		return newDepartureError(constants.ErrCodeStoreWrite, err)
	}
	logging.Info("Departures written", "backend", r.store.Name(), "departures", len(next))

	r.awaitSnapshot(ctx, changed)
	return nil
}

// awaitSnapshot waits until a snapshot newer than changed has been applied,
// so the next Mutate reads the collection this one wrote.
func (r *DepartureRepository) awaitSnapshot(ctx context.Context, changed <-chan struct{}) {
	timer := time.NewTimer(r.SyncTimeout)
	defer timer.Stop()

	select {
	case <-changed:
	case <-ctx.Done():
	case <-timer.C:
		logging.Warn("Timed out waiting for departure snapshot after write", "backend", r.store.Name())
	}
}

// Close stops the store subscription.
func (r *DepartureRepository) Close() error {
	if r.sub == nil {
		return nil
	}
	return r.sub.Close()
}
