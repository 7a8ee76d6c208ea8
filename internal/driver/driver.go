package driver

import (
	"fmt"
	"sync"

	"github.com/nerrad567/gray-logic-audio/internal/sounddevice"
)

// DefaultBufferSize is the wave ring buffer size used when Spec.BufferSize is 0.
const DefaultBufferSize = 16 * 1024

// Spec describes the driver to build for one device.
type Spec struct {
	Type sounddevice.DeviceType

	// MaxSessions limits concurrent instances. 0 means unlimited.
	MaxSessions int

	// BufferSize is the wave ring buffer size in bytes. Ignored by non-wave drivers.
	BufferSize int
}

// New returns the hooks for the device described by spec.
func New(spec Spec) (sounddevice.Hooks, error) {
	if spec.MaxSessions < 0 {
		return nil, fmt.Errorf("driver: max sessions must not be negative, got %d", spec.MaxSessions)
	}

	sessions := newSessionTable(spec.MaxSessions)

	switch spec.Type.Class() {
	case sounddevice.ClassWave:
		size := spec.BufferSize
		if size == 0 {
			size = DefaultBufferSize
		}
		if size < 0 {
			return nil, fmt.Errorf("driver: buffer size must not be negative, got %d", size)
		}
		return &waveDriver{
			sessions:   sessions,
			bufferSize: size,
			input:      spec.Type == sounddevice.DeviceTypeWaveIn,
		}, nil
	case sounddevice.ClassMIDI:
		return &midiDriver{sessions: sessions}, nil
	case sounddevice.ClassMixer:
		return &mixerDriver{sessions: sessions}, nil
	case sounddevice.ClassAux:
		return &auxDriver{sessions: sessions}, nil
	default:
		return nil, fmt.Errorf("%w: %q", sounddevice.ErrInvalidDeviceType, spec.Type)
	}
}

// sessionTable tracks which instances hold a session on a device.
type sessionTable struct {
	mu    sync.Mutex
	held  map[string]struct{}
	limit int
}

func newSessionTable(limit int) *sessionTable {
	return &sessionTable{
		held:  make(map[string]struct{}),
		limit: limit,
	}
}

// acquire reserves a session for inst or returns ErrAlreadyAllocated.
func (s *sessionTable) acquire(inst *sounddevice.Instance) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.limit > 0 && len(s.held) >= s.limit {
		return fmt.Errorf("%w: %d of %d sessions in use", sounddevice.ErrAlreadyAllocated, len(s.held), s.limit)
	}
	s.held[inst.ID()] = struct{}{}
	return nil
}

// release frees inst's session. It reports whether inst held one.
func (s *sessionTable) release(inst *sounddevice.Instance) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.held[inst.ID()]
	delete(s.held, inst.ID())
	return ok
}

// active returns the number of held sessions.
func (s *sessionTable) active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.held)
}
