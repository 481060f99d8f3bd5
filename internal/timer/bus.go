package timer

import "sync"

// Signal is a named, payload-free control event. Signals may originate
// outside the running UI (a lock-screen action, a shortcut invocation) and
// may arrive while the coordinator is Idle; subscribers must treat them as
// safely ignorable in that case.
type Signal string

const (
	SignalSkipRest      Signal = "skip-rest"
	SignalStopRest      Signal = "stop-rest"
	SignalAddRestMinute Signal = "add-rest-minute"
	SignalLogSet        Signal = "log-set"
	SignalNextExercise  Signal = "next-exercise"
	SignalStartRest     Signal = "start-rest"
	SignalFinishWorkout Signal = "finish-workout"
)

// KnownSignal reports whether s is one of the enumerated control events.
func KnownSignal(s Signal) bool {
	switch s {
	case SignalSkipRest, SignalStopRest, SignalAddRestMinute,
		SignalLogSet, SignalNextExercise, SignalStartRest, SignalFinishWorkout:
		return true
	}
	return false
}

// Bus broadcasts control events process-wide. Publishing is fire-and-forget:
// a subscriber whose buffer is full misses the signal rather than blocking
// the publisher.
type Bus struct {
	mu   sync.Mutex
	subs []chan Signal
}

// NewBus creates an empty Bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers a new subscriber and returns its channel. The buffer
// absorbs bursts; an overflowing subscriber drops signals.
func (b *Bus) Subscribe(buffer int) <-chan Signal {
	ch := make(chan Signal, buffer)
	b.mu.Lock()
	b.subs = append(b.subs, ch)
	b.mu.Unlock()
	return ch
}

// Publish broadcasts a signal to every subscriber without blocking.
func (b *Bus) Publish(sig Signal) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- sig:
		default:
		}
	}
}
