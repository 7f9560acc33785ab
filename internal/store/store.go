// Package store holds the remote store adapters. A store keeps the whole
// departure collection and pushes a full snapshot to subscribers after every
// write. Writes always replace the entire collection; there is no version
// check, so concurrent writers race and the last ReplaceAll wins.
package store

import (
	"context"
	"slices"
	"sync"

	"transportsystem/avganger/internal/models/entities"
)

// SnapshotFunc receives the full collection. Implementations must not call
// ReplaceAll from inside the callback.
type SnapshotFunc func(records []entities.Departure)

// Subscription stops snapshot delivery when closed.
type Subscription interface {
	Close() error
}

// RemoteStore is the boundary to the shared collection.
type RemoteStore interface {
	// Subscribe delivers the current snapshot (possibly empty) before it
	// returns, then every later snapshot.
	Subscribe(ctx context.Context, onSnapshot SnapshotFunc) (Subscription, error)

	// ReplaceAll overwrites the whole collection.
	ReplaceAll(ctx context.Context, records []entities.Departure) error

	Ping(ctx context.Context) error
	Name() string
	Close() error
}

// RowCounter is implemented by stores backed by a table. The count is what
// the table holds, which can lag the in-memory collection while a write is
// in flight.
type RowCounter interface {
	StoredCount(ctx context.Context) (int64, error)
}

type closeFunc func() error

func (f closeFunc) Close() error { return f() }

// fanout delivers snapshots to in-process subscribers.
type fanout struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]SnapshotFunc
}

func (f *fanout) add(fn SnapshotFunc) Subscription {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.subs == nil {
		f.subs = make(map[int]SnapshotFunc)
	}
	id := f.nextID
	f.nextID++
	f.subs[id] = fn

	var once sync.Once
	return closeFunc(func() error {
		once.Do(func() {
			f.mu.Lock()
			delete(f.subs, id)
			f.mu.Unlock()
		})
		return nil
	})
}

func (f *fanout) deliver(records []entities.Departure) {
	f.mu.Lock()
	targets := make([]SnapshotFunc, 0, len(f.subs))
	for _, fn := range f.subs {
		targets = append(targets, fn)
	}
	f.mu.Unlock()

	for _, fn := range targets {
		fn(cloneRecords(records))
	}
}

func cloneRecords(records []entities.Departure) []entities.Departure {
	if records == nil {
		return []entities.Departure{}
	}
	return slices.Clone(records)
}
