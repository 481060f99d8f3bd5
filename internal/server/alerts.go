package server

import (
	"log/slog"
	"sync"
	"time"
)

// LocalAlerts implements timer.AlertService with in-process deferred timers.
// At most one pending alert exists per identifier: scheduling under an
// existing identifier replaces the pending timer.
type LocalAlerts struct {
	log     *slog.Logger
	mu      sync.Mutex
	pending map[string]*time.Timer
	// OnFire is called when an alert fires, after it is removed from the
	// pending set. Optional.
	OnFire func(id, title, body string)
}

// NewLocalAlerts creates an alert service that logs fired alerts.
func NewLocalAlerts(log *slog.Logger) *LocalAlerts {
	return &LocalAlerts{log: log, pending: make(map[string]*time.Timer)}
}

// ScheduleOnce implements timer.AlertService.
func (a *LocalAlerts) ScheduleOnce(id string, fireAfter time.Duration, title, body string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if t, ok := a.pending[id]; ok {
		t.Stop()
	}
	a.pending[id] = time.AfterFunc(fireAfter, func() {
		a.mu.Lock()
		delete(a.pending, id)
		a.mu.Unlock()

		a.log.Info("alert fired", "id", id, "title", title, "body", body)
		if a.OnFire != nil {
			a.OnFire(id, title, body)
		}
	})
	return nil
}

// Cancel implements timer.AlertService.
func (a *LocalAlerts) Cancel(id string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if t, ok := a.pending[id]; ok {
		t.Stop()
		delete(a.pending, id)
	}
	return nil
}

// Pending reports whether an alert is scheduled under the identifier.
func (a *LocalAlerts) Pending(id string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, ok := a.pending[id]
	return ok
}
