package session

import (
	"sync"
	"sync/atomic"

	"github.com/nerrad567/gray-logic-audio/internal/sounddevice"
)

// eventQueueSize bounds lifecycle events waiting for delivery.
const eventQueueSize = 1024

// queued is one lifecycle event, or a flush barrier when ack is set.
type queued struct {
	ev  sounddevice.Event
	ack chan struct{}
}

// dispatcher delivers lifecycle events to observers on a single goroutine,
// in the order the core emitted them. Emitting never blocks: when the queue
// is full the event is dropped and counted.
type dispatcher struct {
	deliver func(sounddevice.Event)
	warn    func(msg string, args ...any)

	mu     sync.RWMutex // guards closed against sends on a closed queue
	closed bool
	queue  chan queued
	done   chan struct{}

	dropped atomic.Uint64
}

func newDispatcher(deliver func(sounddevice.Event), warn func(string, ...any)) *dispatcher {
	d := &dispatcher{
		deliver: deliver,
		warn:    warn,
		queue:   make(chan queued, eventQueueSize),
		done:    make(chan struct{}),
	}
	go d.run()
	return d
}

func (d *dispatcher) run() {
	defer close(d.done)

	for item := range d.queue {
		if item.ack != nil {
			close(item.ack)
			continue
		}
		d.deliver(item.ev)
	}
}

// emit queues ev for delivery. Events emitted after close are discarded.
func (d *dispatcher) emit(ev sounddevice.Event) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return
	}
	select {
	case d.queue <- queued{ev: ev}:
	default:
		n := d.dropped.Add(1)
		d.warn("lifecycle event queue full, event dropped",
			"device_id", ev.DeviceID,
			"instance_id", ev.InstanceID,
			"event", ev.Kind,
			"dropped_total", n,
		)
	}
}

// flush waits until every event queued before the call has been delivered.
func (d *dispatcher) flush() {
	ack := make(chan struct{})

	d.mu.RLock()
	if d.closed {
		d.mu.RUnlock()
		return
	}
	d.queue <- queued{ack: ack}
	d.mu.RUnlock()

	<-ack
}

// close delivers what is queued and stops the goroutine. Safe to call twice.
func (d *dispatcher) close() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	<-d.done
}
