package services

import (
	"fmt"
	"sync"
	"time"

	"transportsystem/avganger/internal/common"
	"transportsystem/avganger/internal/constants"
	"transportsystem/avganger/internal/logging"
	"transportsystem/avganger/internal/metrics"

	"github.com/google/uuid"
)

// FormSession is the per-client state of the dashboard: its form, its table
// sort and the toasts not yet delivered.
type FormSession struct {
	ID        string
	CreatedAt time.Time
	Form      *FormController
	Signals   *SignalLog

	mu   sync.Mutex
	sort SortState
}

// Sort returns the current table sort.
func (s *FormSession) Sort() SortState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sort
}

// ToggleSort applies a column header click.
func (s *FormSession) ToggleSort(key string) (SortState, error) {
	if !constants.IsSortKey(key) {
		err := newValidationError("sort", constants.MsgBadSortKey)
		notifyError(s.Signals, err)
		return s.Sort(), err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sort.Toggle(key)
	return s.sort, nil
}

type FormSessionService struct {
	cache   common.SessionCache
	repo    *DepartureRepository
	ids     *IDMinter
	metrics *metrics.MetricsRegistry
	ttl     time.Duration
}

func NewFormSessionService(cache common.SessionCache, repo *DepartureRepository, ids *IDMinter, m *metrics.MetricsRegistry, ttl time.Duration) *FormSessionService {
	svc := &FormSessionService{
		cache:   cache,
		repo:    repo,
		ids:     ids,
		metrics: m,
		ttl:     ttl,
	}
	cache.OnEvicted(func(key string, value interface{}) {
		if session, ok := value.(*FormSession); ok {
			logging.Debug("Form session ended", "session_id", session.ID, "lifetime", time.Since(session.CreatedAt).String())
		}
	})
	return svc
}

// Create opens a new idle form session.
func (s *FormSessionService) Create() *FormSession {
	signals := NewSignalLog(s.metrics)
	session := &FormSession{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
		Form:      NewFormController(s.repo, s.ids, signals),
		Signals:   signals,
	}

	s.cache.Set(sessionKey(session.ID), session, s.ttl)
	s.metrics.ObserveFormSession()
	logging.Debug("Form session opened", "session_id", session.ID, "open_sessions", s.cache.ItemCount())
	return session
}

// Get returns the session and extends its lifetime.
func (s *FormSessionService) Get(id string) (*FormSession, error) {
	val, found := s.cache.Get(sessionKey(id))
	if !found {
		return nil, newDepartureError(constants.ErrCodeSessionNotFound, fmt.Errorf("session %q", id))
	}

	session, ok := val.(*FormSession)
	if !ok {
		return nil, newDepartureError(constants.ErrCodeSessionNotFound, fmt.Errorf("session %q has type %T", id, val))
	}

	s.cache.Set(sessionKey(id), session, s.ttl)
	return session, nil
}

// Close ends a session.
func (s *FormSessionService) Close(id string) {
	s.cache.Delete(sessionKey(id))
}

func sessionKey(id string) string {
	return string(constants.CachePrefixFormSession) + id
}
