package timer

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"
)

// fakeAlerts records schedule/cancel calls keyed by identifier.
type fakeAlerts struct {
	pending   map[string]time.Duration
	schedules int
	failNext  bool
}

func newFakeAlerts() *fakeAlerts {
	return &fakeAlerts{pending: make(map[string]time.Duration)}
}

func (f *fakeAlerts) ScheduleOnce(id string, fireAfter time.Duration, title, body string) error {
	if f.failNext {
		f.failNext = false
		return errors.New("quota exceeded")
	}
	f.pending[id] = fireAfter
	f.schedules++
	return nil
}

func (f *fakeAlerts) Cancel(id string) error {
	delete(f.pending, id)
	return nil
}

// fakeLive implements LiveStatus and hands out fakeSession handles.
type fakeLive struct {
	available  bool
	requestErr error
	sessions   []*fakeSession
}

func (f *fakeLive) Available() bool { return f.available }

func (f *fakeLive) RequestSession(initial LiveState) (LiveSession, error) {
	if f.requestErr != nil {
		return nil, f.requestErr
	}
	s := &fakeSession{last: initial}
	f.sessions = append(f.sessions, s)
	return s, nil
}

type fakeSession struct {
	last    LiveState
	updates int
	ended   bool
}

func (s *fakeSession) Update(state LiveState) error {
	s.last = state
	s.updates++
	return nil
}

func (s *fakeSession) End(immediate bool) error {
	s.ended = true
	return nil
}

func testCoordinator(alerts *fakeAlerts, live *fakeLive) *Coordinator {
	c := NewCoordinator(alerts, live, slog.New(slog.NewTextHandler(io.Discard, nil)))
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return base }
	return c
}

func TestStartSchedulesAlertAndSession(t *testing.T) {
	alerts := newFakeAlerts()
	live := &fakeLive{available: true}
	c := testCoordinator(alerts, live)

	c.Start(90, "Squat", "A")

	if d, ok := alerts.pending[AlertID]; !ok || d != 90*time.Second {
		t.Errorf("pending alert = %v, %v; want 90s under %q", d, ok, AlertID)
	}
	if len(live.sessions) != 1 {
		t.Fatalf("sessions = %d, want 1", len(live.sessions))
	}
	state := live.sessions[0].last
	if state.RemainingSec != 90 || state.ExerciseName != "Squat" {
		t.Errorf("initial live state = %+v", state)
	}
	if !state.EndsAt.Equal(state.StartedAt.Add(90 * time.Second)) {
		t.Errorf("ends at %v, started %v", state.EndsAt, state.StartedAt)
	}
}

// TestStartThenStop is the cancellation property: no alert remains pending
// under the fixed identifier and the live handle is released.
func TestStartThenStop(t *testing.T) {
	alerts := newFakeAlerts()
	live := &fakeLive{available: true}
	c := testCoordinator(alerts, live)

	c.Start(90, "Squat", "A")
	c.Stop()

	if _, ok := alerts.pending[AlertID]; ok {
		t.Error("alert still pending after stop")
	}
	if !live.sessions[0].ended {
		t.Error("live session not ended")
	}
	if snap := c.Snapshot(); snap.State != "idle" {
		t.Errorf("state = %q, want idle", snap.State)
	}
}

func TestStartInvalidDurationIsNoop(t *testing.T) {
	alerts := newFakeAlerts()
	live := &fakeLive{available: true}
	c := testCoordinator(alerts, live)

	c.Start(0, "", "")
	c.Start(-5, "", "")

	if alerts.schedules != 0 || len(live.sessions) != 0 {
		t.Errorf("no-op start had effects: schedules=%d sessions=%d", alerts.schedules, len(live.sessions))
	}
	if snap := c.Snapshot(); snap.State != "idle" {
		t.Errorf("state = %q, want idle", snap.State)
	}
}

func TestStartUnavailableSurfaceIsNoop(t *testing.T) {
	alerts := newFakeAlerts()
	live := &fakeLive{available: false}
	c := testCoordinator(alerts, live)

	c.Start(90, "Squat", "A")

	if alerts.schedules != 0 {
		t.Error("alert scheduled despite unavailable surface")
	}
	if snap := c.Snapshot(); snap.State != "idle" {
		t.Errorf("state = %q, want idle", snap.State)
	}
}

// TestStartReplacesPriorRun: last write wins; the old session handle is
// released and only one alert is pending.
func TestStartReplacesPriorRun(t *testing.T) {
	alerts := newFakeAlerts()
	live := &fakeLive{available: true}
	c := testCoordinator(alerts, live)

	c.Start(90, "Squat", "A")
	c.Start(120, "Bench", "B")

	if !live.sessions[0].ended {
		t.Error("first session not released")
	}
	if len(live.sessions) != 2 {
		t.Fatalf("sessions = %d, want 2", len(live.sessions))
	}
	if len(alerts.pending) != 1 {
		t.Errorf("pending alerts = %d, want 1", len(alerts.pending))
	}
	if d := alerts.pending[AlertID]; d != 120*time.Second {
		t.Errorf("pending alert duration = %v, want 120s", d)
	}
	if snap := c.Snapshot(); snap.ExerciseName != "Bench" {
		t.Errorf("exercise = %q, want Bench", snap.ExerciseName)
	}
}

// TestAddMinuteReschedulesAlert pins the extension policy: the alert moves to
// the new end time and the same session handle gets the update.
func TestAddMinuteReschedulesAlert(t *testing.T) {
	alerts := newFakeAlerts()
	live := &fakeLive{available: true}
	c := testCoordinator(alerts, live)

	c.Start(90, "Squat", "A")
	c.AddMinute()

	if d := alerts.pending[AlertID]; d != 150*time.Second {
		t.Errorf("alert fires after %v, want 150s", d)
	}
	if len(live.sessions) != 1 {
		t.Fatalf("add-minute must reuse the session handle, got %d sessions", len(live.sessions))
	}
	if live.sessions[0].last.RemainingSec != 150 {
		t.Errorf("live remaining = %d, want 150", live.sessions[0].last.RemainingSec)
	}
}

func TestAddMinuteWhileIdleIsNoop(t *testing.T) {
	alerts := newFakeAlerts()
	c := testCoordinator(alerts, &fakeLive{available: true})

	c.AddMinute()
	if alerts.schedules != 0 {
		t.Error("idle add-minute scheduled an alert")
	}
}

func TestTickUpdatesLiveOnly(t *testing.T) {
	alerts := newFakeAlerts()
	live := &fakeLive{available: true}
	c := testCoordinator(alerts, live)

	c.Start(90, "Squat", "A")
	schedulesBefore := alerts.schedules

	c.Tick(42)

	if alerts.schedules != schedulesBefore {
		t.Error("tick touched the deferred alert")
	}
	if live.sessions[0].last.RemainingSec != 42 {
		t.Errorf("live remaining = %d, want 42", live.sessions[0].last.RemainingSec)
	}
}

func TestTickAndStopWhileIdleAreNoops(t *testing.T) {
	alerts := newFakeAlerts()
	live := &fakeLive{available: true}
	c := testCoordinator(alerts, live)

	c.Tick(10)
	c.Stop()
	c.Skip()

	if alerts.schedules != 0 || len(live.sessions) != 0 {
		t.Error("idle operations had effects")
	}
}

// TestAlertFailureDoesNotBlockLive: a failing alert service never prevents
// the live-status session or the in-app countdown.
func TestAlertFailureDoesNotBlockLive(t *testing.T) {
	alerts := newFakeAlerts()
	alerts.failNext = true
	live := &fakeLive{available: true}
	c := testCoordinator(alerts, live)

	c.Start(90, "Squat", "A")

	if len(live.sessions) != 1 {
		t.Error("live session not requested after alert failure")
	}
	if snap := c.Snapshot(); snap.State != "running" || snap.RemainingSec != 90 {
		t.Errorf("snapshot = %+v, want running/90", snap)
	}
}

// TestSessionRequestFailure: the countdown and alert proceed without a live
// handle; later ticks are safe.
func TestSessionRequestFailure(t *testing.T) {
	alerts := newFakeAlerts()
	live := &fakeLive{available: true, requestErr: errors.New("denied")}
	c := testCoordinator(alerts, live)

	c.Start(90, "Squat", "A")

	if snap := c.Snapshot(); snap.State != "running" {
		t.Errorf("state = %q, want running", snap.State)
	}
	if _, ok := alerts.pending[AlertID]; !ok {
		t.Error("alert not scheduled")
	}
	c.Tick(30)
	c.Stop()
}

func TestBusBroadcast(t *testing.T) {
	bus := NewBus()
	a := bus.Subscribe(4)
	b := bus.Subscribe(4)

	bus.Publish(SignalSkipRest)
	bus.Publish(SignalAddRestMinute)

	for _, ch := range []<-chan Signal{a, b} {
		if got := <-ch; got != SignalSkipRest {
			t.Errorf("first signal = %q", got)
		}
		if got := <-ch; got != SignalAddRestMinute {
			t.Errorf("second signal = %q", got)
		}
	}
}

// TestBusFullSubscriberDrops: a saturated subscriber never blocks Publish.
func TestBusFullSubscriberDrops(t *testing.T) {
	bus := NewBus()
	ch := bus.Subscribe(1)

	bus.Publish(SignalLogSet)
	bus.Publish(SignalNextExercise) // dropped

	if got := <-ch; got != SignalLogSet {
		t.Errorf("signal = %q, want log-set", got)
	}
	select {
	case extra := <-ch:
		t.Errorf("unexpected buffered signal %q", extra)
	default:
	}
}

func TestKnownSignal(t *testing.T) {
	for _, s := range []Signal{SignalSkipRest, SignalStopRest, SignalAddRestMinute,
		SignalLogSet, SignalNextExercise, SignalStartRest, SignalFinishWorkout} {
		if !KnownSignal(s) {
			t.Errorf("%q not recognized", s)
		}
	}
	if KnownSignal("reboot") {
		t.Error("unknown signal accepted")
	}
}
