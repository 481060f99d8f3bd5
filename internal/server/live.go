package server

import (
	"sync"

	"github.com/claude/gymtracker/internal/timer"
)

// LiveHub implements timer.LiveStatus by fanning timer state out to SSE
// watchers. It holds at most one active session; a new request replaces the
// previous handle, matching the coordinator's last-write-wins policy.
type LiveHub struct {
	mu       sync.Mutex
	current  *timer.LiveState
	watchers map[chan timer.LiveState]struct{}
	gen      int
}

// NewLiveHub creates an empty hub.
func NewLiveHub() *LiveHub {
	return &LiveHub{watchers: make(map[chan timer.LiveState]struct{})}
}

// Available implements timer.LiveStatus. The in-process hub is always
// reachable; a real lock-screen surface would report permission state here.
func (h *LiveHub) Available() bool { return true }

// RequestSession implements timer.LiveStatus. The returned handle pushes
// updates to all watchers; an older handle that is still held becomes inert.
func (h *LiveHub) RequestSession(initial timer.LiveState) (timer.LiveSession, error) {
	h.mu.Lock()
	h.gen++
	sess := &hubSession{hub: h, gen: h.gen}
	h.current = &initial
	h.mu.Unlock()

	h.broadcast(initial)
	return sess, nil
}

// Current returns the last pushed state, if a session is active.
func (h *LiveHub) Current() (timer.LiveState, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.current == nil {
		return timer.LiveState{}, false
	}
	return *h.current, true
}

// Watch registers an SSE watcher. The cancel func must be called when the
// watcher goes away.
func (h *LiveHub) Watch() (<-chan timer.LiveState, func()) {
	ch := make(chan timer.LiveState, 8)
	h.mu.Lock()
	h.watchers[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		delete(h.watchers, ch)
		h.mu.Unlock()
	}
	return ch, cancel
}

func (h *LiveHub) broadcast(state timer.LiveState) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.watchers {
		select {
		case ch <- state:
		default:
		}
	}
}

// hubSession is one live-status handle. Only the newest generation may push;
// superseded handles become no-ops instead of clobbering the active session.
type hubSession struct {
	hub *LiveHub
	gen int
}

func (s *hubSession) Update(state timer.LiveState) error {
	s.hub.mu.Lock()
	if s.gen != s.hub.gen {
		s.hub.mu.Unlock()
		return nil
	}
	s.hub.current = &state
	s.hub.mu.Unlock()

	s.hub.broadcast(state)
	return nil
}

func (s *hubSession) End(immediate bool) error {
	s.hub.mu.Lock()
	if s.gen != s.hub.gen {
		s.hub.mu.Unlock()
		return nil
	}
	s.hub.current = nil
	s.hub.mu.Unlock()

	// A zero state tells watchers the timer is gone.
	s.hub.broadcast(timer.LiveState{})
	return nil
}
