// Package driver provides the reference sound drivers for Gray Logic Audio.
//
// A driver supplies the sounddevice.Hooks for one catalogued device. The
// driver is picked by device class:
//
//   - wave: binds a byte ring buffer to the instance's stream data
//   - midi: allocates MIDI port state (channel mask, running status)
//   - mixer: allocates a line control table
//   - aux: allocates a stereo volume
//
// Every driver enforces a per-device session limit. Once reached, Construct
// fails with sounddevice.ErrAlreadyAllocated, which the lifecycle manager
// turns into a rollback.
//
// Usage:
//
//	hooks, err := driver.New(driver.Spec{
//	    Type:        sounddevice.DeviceTypeWaveOut,
//	    MaxSessions: 4,
//	    BufferSize:  16384,
//	})
//	dev, err := sounddevice.NewDevice("speaker-lounge", sounddevice.DeviceTypeWaveOut, hooks)
package driver
