package services

import (
	"sync"
	"time"
)

// IDMinter hands out millisecond timestamps as record ids. Two calls within
// the same millisecond still get distinct, increasing ids.
type IDMinter struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

func NewIDMinter() *IDMinter {
	return &IDMinter{now: time.Now}
}

// Next returns an id greater than every id returned before.
func (m *IDMinter) Next() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.now().UnixMilli()
	if id <= m.last {
		id = m.last + 1
	}
	m.last = id
	return id
}
