package driver

import (
	"errors"
	"testing"

	"github.com/nerrad567/gray-logic-audio/internal/sounddevice"
)

// setup builds a manager and a device backed by the driver for spec.
func setup(t *testing.T, spec Spec) (*sounddevice.Manager, *sounddevice.Device, sounddevice.Hooks) {
	t.Helper()

	hooks, err := New(spec)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	dev, err := sounddevice.NewDevice("dev-test", spec.Type, hooks)
	if err != nil {
		t.Fatalf("NewDevice() error = %v", err)
	}

	return sounddevice.NewManager(sounddevice.NewArenaAllocator(0)), dev, hooks
}

func TestNew_SelectsDriverByClass(t *testing.T) {
	tests := []struct {
		typ  sounddevice.DeviceType
		want any
	}{
		{sounddevice.DeviceTypeWaveIn, &waveDriver{}},
		{sounddevice.DeviceTypeWaveOut, &waveDriver{}},
		{sounddevice.DeviceTypeMIDIIn, &midiDriver{}},
		{sounddevice.DeviceTypeMIDIOut, &midiDriver{}},
		{sounddevice.DeviceTypeMixer, &mixerDriver{}},
		{sounddevice.DeviceTypeAux, &auxDriver{}},
	}

	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			hooks, err := New(Spec{Type: tt.typ})
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}

			var ok bool
			switch tt.want.(type) {
			case *waveDriver:
				_, ok = hooks.(*waveDriver)
			case *midiDriver:
				_, ok = hooks.(*midiDriver)
			case *mixerDriver:
				_, ok = hooks.(*mixerDriver)
			case *auxDriver:
				_, ok = hooks.(*auxDriver)
			}
			if !ok {
				t.Errorf("New(%s) = %T, want %T", tt.typ, hooks, tt.want)
			}
		})
	}
}

func TestNew_InvalidSpec(t *testing.T) {
	tests := []struct {
		name string
		spec Spec
	}{
		{"unknown type", Spec{Type: "video"}},
		{"negative sessions", Spec{Type: sounddevice.DeviceTypeAux, MaxSessions: -1}},
		{"negative buffer", Spec{Type: sounddevice.DeviceTypeWaveOut, BufferSize: -5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.spec); err == nil {
				t.Error("New() expected error, got nil")
			}
		})
	}
}

func TestWaveDriver_BindsRingBuffer(t *testing.T) {
	mgr, dev, _ := setup(t, Spec{Type: sounddevice.DeviceTypeWaveIn, BufferSize: 4096})

	inst, err := mgr.CreateInstance(dev)
	if err != nil {
		t.Fatalf("CreateInstance() error = %v", err)
	}

	state, ok := inst.State.(*WaveState)
	if !ok {
		t.Fatalf("State = %T, want *WaveState", inst.State)
	}
	if !state.Input {
		t.Error("wave_in state should be marked as input")
	}
	if state.Ring.Capacity() != 4096 {
		t.Errorf("ring capacity = %d, want 4096", state.Ring.Capacity())
	}
	if inst.Stream().Buffer != state.Ring {
		t.Error("stream buffer should be the instance ring buffer")
	}

	if err := mgr.DestroyInstance(inst); err != nil {
		t.Fatalf("DestroyInstance() error = %v", err)
	}
	if inst.State != nil {
		t.Error("State should be cleared after destroy")
	}
	if inst.Stream() == nil || inst.Stream().Buffer != nil {
		t.Errorf("Stream() after destroy = %+v, want buffer unbound", inst.Stream())
	}
}

func TestWaveDriver_DefaultBufferSize(t *testing.T) {
	mgr, dev, _ := setup(t, Spec{Type: sounddevice.DeviceTypeWaveOut})

	inst, err := mgr.CreateInstance(dev)
	if err != nil {
		t.Fatalf("CreateInstance() error = %v", err)
	}

	if got := inst.State.(*WaveState).Ring.Capacity(); got != DefaultBufferSize {
		t.Errorf("ring capacity = %d, want %d", got, DefaultBufferSize)
	}
}

func TestDrivers_SessionLimit(t *testing.T) {
	for _, typ := range sounddevice.AllDeviceTypes() {
		t.Run(string(typ), func(t *testing.T) {
			mgr, dev, hooks := setup(t, Spec{Type: typ, MaxSessions: 2})

			first, err := mgr.CreateInstance(dev)
			if err != nil {
				t.Fatalf("CreateInstance() #1 error = %v", err)
			}
			if _, err := mgr.CreateInstance(dev); err != nil {
				t.Fatalf("CreateInstance() #2 error = %v", err)
			}

			_, err = mgr.CreateInstance(dev)
			if !errors.Is(err, sounddevice.ErrAlreadyAllocated) {
				t.Fatalf("CreateInstance() #3 error = %v, want ErrAlreadyAllocated", err)
			}
			if dev.InstanceCount() != 2 {
				t.Errorf("InstanceCount() = %d, want 2", dev.InstanceCount())
			}

			if err := mgr.DestroyInstance(first); err != nil {
				t.Fatalf("DestroyInstance() error = %v", err)
			}
			if _, err := mgr.CreateInstance(dev); err != nil {
				t.Errorf("CreateInstance() after destroy error = %v", err)
			}

			if err := mgr.DestroyAllInstances(dev); err != nil {
				t.Fatalf("DestroyAllInstances() error = %v", err)
			}
			if got := sessionsOf(hooks).active(); got != 0 {
				t.Errorf("active sessions = %d, want 0", got)
			}
		})
	}
}

func TestDrivers_DestructWithoutStateReportsInvalidHandle(t *testing.T) {
	for _, typ := range sounddevice.AllDeviceTypes() {
		t.Run(string(typ), func(t *testing.T) {
			var dtorErr error
			hooks, err := New(Spec{Type: typ, MaxSessions: 1})
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}

			dev, err := sounddevice.NewDevice("dev-test", typ, hooks)
			if err != nil {
				t.Fatalf("NewDevice() error = %v", err)
			}

			mgr := sounddevice.NewManager(sounddevice.NewArenaAllocator(0))
			mgr.SetObserver(sounddevice.ObserverFunc(func(ev sounddevice.Event) {
				if ev.Kind == sounddevice.EventDestroyed {
					dtorErr = ev.Err
				}
			}))

			inst, err := mgr.CreateInstance(dev)
			if err != nil {
				t.Fatalf("CreateInstance() error = %v", err)
			}
			inst.State = "clobbered"

			if err := mgr.DestroyInstance(inst); err != nil {
				t.Fatalf("DestroyInstance() error = %v", err)
			}
			if !errors.Is(dtorErr, sounddevice.ErrInvalidHandle) {
				t.Errorf("destructor error = %v, want ErrInvalidHandle", dtorErr)
			}

			// The session was still released.
			if _, err := mgr.CreateInstance(dev); err != nil {
				t.Errorf("CreateInstance() after bad destroy error = %v", err)
			}
		})
	}
}

func TestControlDrivers_InitialState(t *testing.T) {
	t.Run("midi", func(t *testing.T) {
		mgr, dev, _ := setup(t, Spec{Type: sounddevice.DeviceTypeMIDIOut})
		inst, _ := mgr.CreateInstance(dev) //nolint:errcheck // unlimited sessions

		state, ok := inst.State.(*MIDIPortState)
		if !ok || state.Channels != 0xFFFF || state.RunningStatus != 0 {
			t.Errorf("State = %+v, want all channels enabled", inst.State)
		}
	})

	t.Run("mixer", func(t *testing.T) {
		mgr, dev, _ := setup(t, Spec{Type: sounddevice.DeviceTypeMixer})
		inst, _ := mgr.CreateInstance(dev) //nolint:errcheck // unlimited sessions

		state, ok := inst.State.(*MixerState)
		if !ok || state.Lines["master"].Volume != VolumeMax {
			t.Errorf("State = %+v, want master at full volume", inst.State)
		}
	})

	t.Run("aux", func(t *testing.T) {
		mgr, dev, _ := setup(t, Spec{Type: sounddevice.DeviceTypeAux})
		inst, _ := mgr.CreateInstance(dev) //nolint:errcheck // unlimited sessions

		state, ok := inst.State.(*AuxState)
		if !ok || state.Left != VolumeMax || state.Right != VolumeMax {
			t.Errorf("State = %+v, want full volume", inst.State)
		}
	})
}

// sessionsOf returns the session table behind a driver.
func sessionsOf(hooks sounddevice.Hooks) *sessionTable {
	switch d := hooks.(type) {
	case *waveDriver:
		return d.sessions
	case *midiDriver:
		return d.sessions
	case *mixerDriver:
		return d.sessions
	case *auxDriver:
		return d.sessions
	default:
		return nil
	}
}
