package sounddevice

// Hooks is the type-specific behaviour a driver supplies for a device.
//
// Construct runs after the instance has been listed and pre-initialised. A
// non-nil error aborts creation; the instance is unlisted and released and
// the error is returned to the caller unchanged.
//
// Destruct runs before the instance is unlisted. Its error is logged and
// observed but never stops destruction.
//
// Both are called synchronously on the caller's goroutine.
type Hooks interface {
	Construct(inst *Instance) error
	Destruct(inst *Instance) error
}

// HookFuncs adapts a pair of plain functions to Hooks.
// A nil function is treated as always succeeding.
type HookFuncs struct {
	Constructor func(inst *Instance) error
	Destructor  func(inst *Instance) error
}

// Construct calls h.Constructor.
func (h HookFuncs) Construct(inst *Instance) error {
	if h.Constructor == nil {
		return nil
	}
	return h.Constructor(inst)
}

// Destruct calls h.Destructor.
func (h HookFuncs) Destruct(inst *Instance) error {
	if h.Destructor == nil {
		return nil
	}
	return h.Destructor(inst)
}
