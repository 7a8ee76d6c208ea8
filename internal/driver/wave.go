package driver

import (
	"fmt"

	"github.com/smallnest/ringbuffer"

	"github.com/nerrad567/gray-logic-audio/internal/sounddevice"
)

// WaveState is the type-specific state of a wave instance.
type WaveState struct {
	// Ring is the stream buffer shared with the instance's WaveStreamData.
	Ring *ringbuffer.RingBuffer

	// Input is true for capture (wave in), false for playback.
	Input bool
}

type waveDriver struct {
	sessions   *sessionTable
	bufferSize int
	input      bool
}

// Construct binds a ring buffer to the instance's stream data.
func (d *waveDriver) Construct(inst *sounddevice.Instance) error {
	stream := inst.Stream()
	if stream == nil {
		return fmt.Errorf("%w: wave instance without stream data", sounddevice.ErrNotSupported)
	}

	if err := d.sessions.acquire(inst); err != nil {
		return err
	}

	ring := ringbuffer.New(d.bufferSize)
	stream.Buffer = ring
	inst.State = &WaveState{Ring: ring, Input: d.input}

	return nil
}

// Destruct drops the ring buffer and releases the session.
func (d *waveDriver) Destruct(inst *sounddevice.Instance) error {
	held := d.sessions.release(inst)

	state, ok := inst.State.(*WaveState)
	if !ok || !held {
		return fmt.Errorf("%w: no wave session for instance %s", sounddevice.ErrInvalidHandle, inst.ID())
	}

	state.Ring.Reset()
	if stream := inst.Stream(); stream != nil {
		stream.Buffer = nil
	}
	inst.State = nil

	return nil
}
