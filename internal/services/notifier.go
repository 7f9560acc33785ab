package services

import (
	"errors"
	"sync"

	"transportsystem/avganger/internal/constants"
	"transportsystem/avganger/internal/metrics"
	"transportsystem/avganger/internal/models/entities"
)

type Signal = entities.Signal

// Notifier receives toast signals.
type Notifier interface {
	Notify(kind constants.SignalKind, message string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(kind constants.SignalKind, message string)

func (f NotifierFunc) Notify(kind constants.SignalKind, message string) { f(kind, message) }

// SignalLog buffers signals until the caller drains them into a response.
type SignalLog struct {
	mu      sync.Mutex
	signals []Signal
	metrics *metrics.MetricsRegistry
}

var _ Notifier = (*SignalLog)(nil)

func NewSignalLog(m *metrics.MetricsRegistry) *SignalLog {
	return &SignalLog{metrics: m}
}

func (l *SignalLog) Notify(kind constants.SignalKind, message string) {
	l.mu.Lock()
	l.signals = append(l.signals, Signal{Kind: kind, Message: message})
	l.mu.Unlock()

	l.metrics.ObserveSignal(string(kind))
}

// Drain returns the buffered signals in emission order and empties the log.
func (l *SignalLog) Drain() []Signal {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := l.signals
	l.signals = nil
	if out == nil {
		return []Signal{}
	}
	return out
}

func notify(n Notifier, kind constants.SignalKind, message string) {
	if n != nil {
		n.Notify(kind, message)
	}
}

// notifyError emits err as a toast. DepartureErrors carry their own kind:
// form problems are informational, everything else is an error.
func notifyError(n Notifier, err error) {
	kind := constants.SignalError
	message := constants.GetErrorMessage("")

	var depErr *DepartureError
	if errors.As(err, &depErr) {
		message = depErr.Message
		switch depErr.Code {
		case constants.ErrCodeValidation, constants.ErrCodeDuplicateUnit, constants.ErrCodeNotConfirmed:
			kind = constants.SignalInfo
		}
	}
	notify(n, kind, message)
}
