// Package timer owns rest-timer state and keeps its surfaces (the in-app
// countdown, the deferred alert, and the external live-status session)
// consistent through one coordinator.
package timer

import (
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// AlertID is the fixed identifier for the rest-timer alert. Scheduling under
// the same identifier replaces any pending alert, so at most one exists
// system-wide.
const AlertID = "rest-timer"

// AlertService is the deferred OS alert collaborator.
type AlertService interface {
	ScheduleOnce(id string, fireAfter time.Duration, title, body string) error
	Cancel(id string) error
}

// LiveState is the content pushed to the live-status surface.
type LiveState struct {
	RemainingSec int       `json:"remaining_sec"`
	ExerciseName string    `json:"exercise_name,omitempty"`
	StartedAt    time.Time `json:"started_at"`
	EndsAt       time.Time `json:"ends_at"`
}

// LiveSession is one held live-status session handle.
type LiveSession interface {
	Update(state LiveState) error
	End(immediate bool) error
}

// LiveStatus is the external live-status surface collaborator.
type LiveStatus interface {
	// Available reports whether the surface can currently be used. Checked
	// once per Start, not retried.
	Available() bool
	RequestSession(initial LiveState) (LiveSession, error)
}

// State is the coordinator's lifecycle state.
type State int

const (
	Idle State = iota
	Running
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "idle"
}

// Snapshot is a read-only view of the coordinator for callers.
type Snapshot struct {
	State        string    `json:"state"`
	RemainingSec int       `json:"remaining_sec"`
	ExerciseName string    `json:"exercise_name,omitempty"`
	Label        string    `json:"label,omitempty"`
	StartedAt    time.Time `json:"started_at,omitzero"`
	EndsAt       time.Time `json:"ends_at,omitzero"`
}

// Coordinator is the single owner of rest-timer state. All mutation goes
// through its transition methods; a mutex makes them safe to call from the
// concurrent HTTP surface. External effects are fire-and-forget: a failure in
// one is logged and never blocks the other or the in-app countdown.
type Coordinator struct {
	alerts AlertService
	live   LiveStatus
	log    *slog.Logger
	now    func() time.Time

	mu        sync.Mutex
	state     State
	startedAt time.Time
	endTime   time.Time
	exercise  string
	label     string
	session   LiveSession
}

// NewCoordinator creates a Coordinator in the Idle state.
func NewCoordinator(alerts AlertService, live LiveStatus, log *slog.Logger) *Coordinator {
	return &Coordinator{alerts: alerts, live: live, log: log, now: time.Now}
}

// Start begins (or restarts) a rest timer. A non-positive duration or an
// unavailable live-status surface makes it a no-op. A prior run is replaced:
// its pending alert is superseded by scheduling under the same identifier and
// its live-status handle is released, last write wins.
func (c *Coordinator) Start(durationSec int, exerciseName, label string) {
	if durationSec <= 0 {
		return
	}
	if !c.live.Available() {
		c.log.Warn("live-status surface unavailable, rest timer not started")
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session != nil {
		if err := c.session.End(true); err != nil {
			c.log.Warn("ending previous live session", "error", err)
		}
		c.session = nil
	}

	now := c.now()
	c.state = Running
	c.startedAt = now
	c.endTime = now.Add(time.Duration(durationSec) * time.Second)
	c.exercise = exerciseName
	c.label = label

	c.scheduleAlertLocked()

	sess, err := c.live.RequestSession(c.liveStateLocked())
	if err != nil {
		c.log.Warn("live-status session request failed", "error", err)
		return
	}
	c.session = sess
}

// AddMinute extends a running timer by 60 seconds. The deferred alert is
// rescheduled for the new end time so all surfaces agree, and the same
// live-status handle receives the updated state. No-op while Idle.
func (c *Coordinator) AddMinute() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != Running {
		return
	}
	c.endTime = c.endTime.Add(time.Minute)
	c.scheduleAlertLocked()
	c.pushLiveLocked()
}

// Tick is the periodic foreground update. It refreshes the live-status
// session with the supplied remaining seconds and does not touch the deferred
// alert. No-op while Idle.
func (c *Coordinator) Tick(remainingSec int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != Running || c.session == nil {
		return
	}
	state := c.liveStateLocked()
	state.RemainingSec = remainingSec
	if err := c.session.Update(state); err != nil {
		c.log.Warn("live-status update failed", "error", err)
	}
}

// Skip ends the rest early. Equivalent to Stop.
func (c *Coordinator) Skip() { c.Stop() }

// Stop cancels the timer: the pending alert is cancelled by its fixed
// identifier and the live-status session is ended immediately with the
// handle released. No-op while Idle.
func (c *Coordinator) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != Running {
		return
	}
	c.state = Idle

	if err := c.alerts.Cancel(AlertID); err != nil {
		c.log.Warn("alert cancel failed", "error", err)
	}
	if c.session != nil {
		if err := c.session.End(true); err != nil {
			c.log.Warn("live-status end failed", "error", err)
		}
		c.session = nil
	}
}

// Snapshot returns the current timer state for read-only callers.
func (c *Coordinator) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{State: c.state.String()}
	if c.state == Running {
		snap.RemainingSec = int(c.endTime.Sub(c.now()).Round(time.Second) / time.Second)
		if snap.RemainingSec < 0 {
			snap.RemainingSec = 0
		}
		snap.ExerciseName = c.exercise
		snap.Label = c.label
		snap.StartedAt = c.startedAt
		snap.EndsAt = c.endTime
	}
	return snap
}

func (c *Coordinator) scheduleAlertLocked() {
	fireAfter := c.endTime.Sub(c.now())
	body := "זמן המנוחה הסתיים"
	if c.exercise != "" {
		body = fmt.Sprintf("זמן המנוחה הסתיים. הסט הבא: %s", c.exercise)
	}
	if err := c.alerts.ScheduleOnce(AlertID, fireAfter, "מנוחה", body); err != nil {
		c.log.Warn("alert scheduling failed", "error", err)
	}
}

func (c *Coordinator) liveStateLocked() LiveState {
	remaining := int(c.endTime.Sub(c.now()) / time.Second)
	if remaining < 0 {
		remaining = 0
	}
	return LiveState{
		RemainingSec: remaining,
		ExerciseName: c.exercise,
		StartedAt:    c.startedAt,
		EndsAt:       c.endTime,
	}
}

func (c *Coordinator) pushLiveLocked() {
	if c.session == nil {
		return
	}
	if err := c.session.Update(c.liveStateLocked()); err != nil {
		c.log.Warn("live-status update failed", "error", err)
	}
}
