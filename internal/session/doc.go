// Package session is the serialising front end to the sounddevice core.
//
// The sounddevice.Manager takes no locks: it requires that every operation
// on one device is serialised by the caller. Service is that caller. It
// keeps a catalogue of devices, holds one mutex per device around each
// lifecycle call, and indexes open instances by ID so transports can refer
// to them by a string handle.
//
// Lifecycle events from the core are fanned out to every observer added with
// AddObserver (the journal, MQTT and InfluxDB sinks in the daemon). Delivery
// happens on one service goroutine, in emission order, so a slow sink never
// holds a device lock or delays Open and Close. The queue is bounded: when
// observers fall behind, events are dropped and counted (DroppedEvents).
// Flush waits for queued events; Shutdown delivers them and stops the
// goroutine.
//
// Usage:
//
//	svc := session.NewService(sounddevice.NewArenaAllocator(64))
//	defer svc.Shutdown()
//	svc.SetLogger(log)
//	svc.AddObserver(recorder)
//
//	hooks, _ := driver.New(driver.Spec{Type: sounddevice.DeviceTypeWaveOut})
//	err := svc.RegisterDevice("speaker-lounge", "Lounge speaker", sounddevice.DeviceTypeWaveOut, hooks)
//
//	info, err := svc.Open("speaker-lounge")
//	defer svc.Close(info.ID)
package session
