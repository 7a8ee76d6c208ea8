package sounddevice

import "slices"

// attach lists inst on dev, running the type-specific pre-initialisation
// step first. The instance must not already belong to a device.
func attach(dev *Device, inst *Instance) {
	invariant(dev != nil, "attach", "nil device")
	invariant(inst != nil, "attach", "nil instance")
	if inst.device != nil {
		invariant(false, "attach", "instance %s already listed on device %q", inst.id, inst.device.id)
	}

	inst.device = dev

	switch dev.typ.Class() {
	case ClassWave:
		err := initWaveStreamData(inst)
		invariant(err == nil, "attach", "wave stream init failed: %v", err)
	case ClassMIDI, ClassMixer, ClassAux:
		// No pre-initialisation.
	default:
		invariant(false, "attach", "device %q has unknown type %q", dev.id, dev.typ)
	}

	dev.instances = append(dev.instances, inst)
}

// detach removes inst from its owning device's list and clears the owner.
func detach(inst *Instance) {
	invariant(inst != nil, "detach", "nil instance")
	invariant(inst.device != nil, "detach", "instance %s is not listed", inst.id)

	dev := inst.device
	idx := slices.Index(dev.instances, inst)
	invariant(idx >= 0, "detach", "instance %s missing from device %q list", inst.id, dev.id)

	dev.instances = slices.Delete(dev.instances, idx, idx+1)
	inst.device = nil
}
