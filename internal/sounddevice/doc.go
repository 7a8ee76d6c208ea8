// Package sounddevice provides the instance lifecycle core for Gray Logic Audio.
//
// A Device is a logical multimedia endpoint (wave, MIDI, mixer or auxiliary).
// An Instance is one open session against a Device. This package owns the
// per-device ordered list of live instances and keeps it consistent across
// construction, type-specific initialisation, rollback on failure, single
// destruction and bulk teardown. Type-specific behaviour is delegated to a
// Hooks implementation supplied by a driver.
//
// # Architecture
//
//	┌──────────────────────────────────────────────────────────────────┐
//	│                    Instance Lifecycle Manager                     │
//	│                                                                   │
//	│  ┌────────────────┐   ┌────────────────┐   ┌────────────────┐     │
//	│  │   Allocator    │   │  List Manager  │   │    Manager     │     │
//	│  │ (allocator.go) │◀──│   (list.go)    │◀──│  (manager.go)  │     │
//	│  │                │   │                │   │                │     │
//	│  │ • Arena slots  │   │ • attach/detach│   │ • Create       │     │
//	│  │ • Free list    │   │ • Wave init    │   │ • Destroy      │     │
//	│  │ • Capacity     │   │ • Tail append  │   │ • DestroyAll   │     │
//	│  └────────────────┘   └────────────────┘   └────────────────┘     │
//	│                                                    │              │
//	└────────────────────────────────────────────────────│──────────────┘
//	                                                     ▼
//	                                        ┌────────────────────────┐
//	                                        │ Hooks (driver package) │
//	                                        │ • Construct / Destruct │
//	                                        └────────────────────────┘
//
// # Usage
//
//	mgr := sounddevice.NewManager(sounddevice.NewArenaAllocator(256))
//	mgr.SetLogger(log)
//
//	dev, err := sounddevice.NewDevice("speaker-lounge", sounddevice.DeviceTypeWaveOut, hooks)
//	if err != nil {
//	    return err
//	}
//
//	inst, err := mgr.CreateInstance(dev)
//	if err != nil {
//	    return err // ErrInvalidParameter, ErrOutOfMemory, or the constructor's error
//	}
//	defer mgr.DestroyInstance(inst)
//
// # Errors
//
// Recoverable failures are returned as errors: ErrInvalidParameter,
// ErrOutOfMemory, or whatever the constructor hook returned, unchanged.
// Destructor failures are logged and reported to the Observer but never fail
// DestroyInstance. Broken internal invariants (an instance attached twice, an
// instance missing from the list it claims to belong to) panic with an
// *InvariantError.
//
// # Thread Safety
//
// The Manager does not lock device lists. Callers must serialise all
// lifecycle operations against a given Device, for example with one mutex
// per device (see package session). The ArenaAllocator is safe for
// concurrent use because it is shared by every device.
package sounddevice
