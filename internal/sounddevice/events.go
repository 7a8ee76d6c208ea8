package sounddevice

import "time"

// EventKind identifies a lifecycle transition.
type EventKind string

// Lifecycle event kinds.
const (
	EventCreated    EventKind = "created"
	EventRolledBack EventKind = "rolled_back"
	EventDestroyed  EventKind = "destroyed"
)

// Event describes one completed lifecycle transition.
//
// For EventRolledBack, Err is the constructor's error. For EventDestroyed,
// Err is the destructor's error (destruction still completed).
type Event struct {
	Kind       EventKind
	DeviceID   string
	DeviceType DeviceType
	InstanceID string
	Slot       int
	Remaining  int // instances left on the device after the transition
	Err        error
	At         time.Time
}

// Result returns the event's error as a Result code.
func (e Event) Result() Result {
	return ResultOf(e.Err)
}

// Observer receives lifecycle events synchronously on the caller's goroutine,
// with the device still locked by the caller. Implementations must not block
// and must not call back into the Manager; hand slow work to another
// goroutine as session.Service does.
type Observer interface {
	Observe(ev Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ev Event)

// Observe calls f(ev).
func (f ObserverFunc) Observe(ev Event) { f(ev) }

// noopObserver discards events.
type noopObserver struct{}

func (noopObserver) Observe(Event) {}
