package sounddevice

import (
	"fmt"
	"time"
)

// DeviceType identifies the kind of logical multimedia device.
type DeviceType string //nolint:revive // sounddevice.DeviceType reads better than sounddevice.Type at call sites

// Device type constants. The set is closed; see AllDeviceTypes.
const (
	DeviceTypeWaveIn  DeviceType = "wave_in"
	DeviceTypeWaveOut DeviceType = "wave_out"
	DeviceTypeMIDIIn  DeviceType = "midi_in"
	DeviceTypeMIDIOut DeviceType = "midi_out"
	DeviceTypeMixer   DeviceType = "mixer"
	DeviceTypeAux     DeviceType = "aux"
)

// AllDeviceTypes returns all valid device type values.
func AllDeviceTypes() []DeviceType {
	return []DeviceType{
		DeviceTypeWaveIn, DeviceTypeWaveOut,
		DeviceTypeMIDIIn, DeviceTypeMIDIOut,
		DeviceTypeMixer, DeviceTypeAux,
	}
}

// Class groups device types that share type-specific initialisation.
type Class int

// Device classes.
const (
	ClassUnknown Class = iota
	ClassWave
	ClassMIDI
	ClassMixer
	ClassAux
)

// String returns the class name.
func (c Class) String() string {
	switch c {
	case ClassWave:
		return "wave"
	case ClassMIDI:
		return "midi"
	case ClassMixer:
		return "mixer"
	case ClassAux:
		return "aux"
	default:
		return "unknown"
	}
}

// Class returns the class of the device type, or ClassUnknown.
func (t DeviceType) Class() Class {
	switch t {
	case DeviceTypeWaveIn, DeviceTypeWaveOut:
		return ClassWave
	case DeviceTypeMIDIIn, DeviceTypeMIDIOut:
		return ClassMIDI
	case DeviceTypeMixer:
		return ClassMixer
	case DeviceTypeAux:
		return ClassAux
	default:
		return ClassUnknown
	}
}

// Valid reports whether t is one of the known device types.
func (t DeviceType) Valid() bool {
	return t.Class() != ClassUnknown
}

// ParseDeviceType converts a string to a DeviceType.
// Returns ErrInvalidDeviceType for unknown values.
func ParseDeviceType(s string) (DeviceType, error) {
	t := DeviceType(s)
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidDeviceType, s)
	}
	return t, nil
}

// Device is a logical multimedia endpoint owning zero or more instances.
//
// The instance list is append-only at the tail and is mutated only by the
// Manager. Callers must serialise lifecycle operations per device.
type Device struct {
	id        string
	typ       DeviceType
	hooks     Hooks
	instances []*Instance
}

// NewDevice creates a device with no instances.
//
// Returns ErrInvalidDeviceType for an unknown type and ErrInvalidParameter
// when hooks is nil.
func NewDevice(id string, typ DeviceType, hooks Hooks) (*Device, error) {
	if !typ.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDeviceType, typ)
	}
	if hooks == nil {
		return nil, fmt.Errorf("%w: hooks are required", ErrInvalidParameter)
	}
	return &Device{id: id, typ: typ, hooks: hooks}, nil
}

// ID returns the device identifier.
func (d *Device) ID() string { return d.id }

// Type returns the device type.
func (d *Device) Type() DeviceType { return d.typ }

// Hooks returns the type-specific hooks.
func (d *Device) Hooks() Hooks { return d.hooks }

// FirstInstance returns the head of the instance list, or nil when empty.
func (d *Device) FirstInstance() *Instance {
	if len(d.instances) == 0 {
		return nil
	}
	return d.instances[0]
}

// Instances returns the live instances in list order.
// The returned slice is a copy; the instances are not.
func (d *Device) Instances() []*Instance {
	out := make([]*Instance, len(d.instances))
	copy(out, d.instances)
	return out
}

// InstanceCount returns the number of live instances.
func (d *Device) InstanceCount() int {
	return len(d.instances)
}

// Instance is one open session against a Device.
type Instance struct {
	id        string
	slot      int
	createdAt time.Time

	device *Device
	stream *WaveStreamData

	// State is opaque type-specific state owned by the device's hooks.
	State any
}

// ID returns the instance's unique identifier.
func (i *Instance) ID() string { return i.id }

// Slot returns the instance's stable arena index.
func (i *Instance) Slot() int { return i.slot }

// CreatedAt returns when the instance was allocated (UTC).
func (i *Instance) CreatedAt() time.Time { return i.createdAt }

// Device returns the owning device, or nil if the instance is not listed.
func (i *Instance) Device() *Device { return i.device }

// Stream returns the wave stream data, or nil for non-wave devices.
func (i *Instance) Stream() *WaveStreamData { return i.stream }
