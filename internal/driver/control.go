package driver

import (
	"fmt"

	"github.com/nerrad567/gray-logic-audio/internal/sounddevice"
)

// Volume levels for mixer lines and aux outputs.
const (
	VolumeMax  uint16 = 0xFFFF
	VolumeMute uint16 = 0
)

// MIDIPortState is the type-specific state of a MIDI instance.
type MIDIPortState struct {
	// Channels is a bit mask of enabled MIDI channels (bit 0 = channel 1).
	Channels uint16

	// RunningStatus is the last status byte sent or received, 0 if none.
	RunningStatus byte
}

// LineControl holds the controls of one mixer line.
type LineControl struct {
	Volume uint16
	Muted  bool
}

// MixerState is the type-specific state of a mixer instance.
type MixerState struct {
	Lines map[string]LineControl
}

// AuxState is the type-specific state of an aux instance.
type AuxState struct {
	Left  uint16
	Right uint16
}

type midiDriver struct {
	sessions *sessionTable
}

func (d *midiDriver) Construct(inst *sounddevice.Instance) error {
	if err := d.sessions.acquire(inst); err != nil {
		return err
	}
	inst.State = &MIDIPortState{Channels: 0xFFFF}
	return nil
}

func (d *midiDriver) Destruct(inst *sounddevice.Instance) error {
	return releaseState[*MIDIPortState](d.sessions, inst)
}

type mixerDriver struct {
	sessions *sessionTable
}

func (d *mixerDriver) Construct(inst *sounddevice.Instance) error {
	if err := d.sessions.acquire(inst); err != nil {
		return err
	}
	inst.State = &MixerState{
		Lines: map[string]LineControl{
			"master": {Volume: VolumeMax},
		},
	}
	return nil
}

func (d *mixerDriver) Destruct(inst *sounddevice.Instance) error {
	return releaseState[*MixerState](d.sessions, inst)
}

type auxDriver struct {
	sessions *sessionTable
}

func (d *auxDriver) Construct(inst *sounddevice.Instance) error {
	if err := d.sessions.acquire(inst); err != nil {
		return err
	}
	inst.State = &AuxState{Left: VolumeMax, Right: VolumeMax}
	return nil
}

func (d *auxDriver) Destruct(inst *sounddevice.Instance) error {
	return releaseState[*AuxState](d.sessions, inst)
}

// releaseState frees inst's session and clears its state, reporting
// ErrInvalidHandle if the state is not a T or no session was held.
func releaseState[T any](sessions *sessionTable, inst *sounddevice.Instance) error {
	held := sessions.release(inst)
	_, ok := inst.State.(T)
	inst.State = nil

	if !ok || !held {
		return fmt.Errorf("%w: no session for instance %s", sounddevice.ErrInvalidHandle, inst.ID())
	}
	return nil
}
