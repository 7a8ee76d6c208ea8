package sounddevice

import (
	"errors"
	"fmt"
	"time"
)

// Logger defines the logging interface used by the Manager.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Manager creates and destroys device instances.
//
// It is stateless apart from its collaborators: all instance bookkeeping
// lives on the Device. See the package documentation for locking rules.
type Manager struct {
	alloc    Allocator
	logger   Logger
	observer Observer
}

// NewManager creates a manager that obtains instance storage from alloc.
func NewManager(alloc Allocator) *Manager {
	return &Manager{
		alloc:    alloc,
		logger:   noopLogger{},
		observer: noopObserver{},
	}
}

// SetLogger sets the logger for the manager.
func (m *Manager) SetLogger(logger Logger) {
	if logger == nil {
		logger = noopLogger{}
	}
	m.logger = logger
}

// SetObserver sets the observer notified of lifecycle events.
func (m *Manager) SetObserver(observer Observer) {
	if observer == nil {
		observer = noopObserver{}
	}
	m.observer = observer
}

// CreateInstance allocates an instance, lists it on dev and runs the
// device's constructor hook.
//
// If the constructor fails the instance is unlisted and released before
// returning, and the constructor's error is returned unchanged with a nil
// instance.
//
// Returns:
//   - ErrInvalidParameter if dev is nil
//   - ErrOutOfMemory if the allocator is exhausted
//   - the constructor's error
func (m *Manager) CreateInstance(dev *Device) (inst *Instance, err error) {
	if dev == nil {
		return nil, ErrInvalidParameter
	}

	created, err := m.alloc.Allocate()
	if err != nil {
		if !errors.Is(err, ErrOutOfMemory) {
			err = fmt.Errorf("%w: %w", ErrOutOfMemory, err)
		}
		m.logger.Warn("instance allocation failed", "device_id", dev.id, "error", err)
		return nil, err
	}

	attach(dev, created)

	// Unwind in reverse order unless the constructor succeeds. This also
	// covers a panicking constructor.
	committed := false
	defer func() {
		if committed {
			return
		}
		r := recover()
		if r != nil {
			err = fmt.Errorf("instance constructor panicked: %v", r)
		}
		slot := created.slot
		detach(created)
		m.alloc.Release(created)
		m.logger.Error("instance constructor failed, rolled back",
			"device_id", dev.id,
			"device_type", dev.typ,
			"instance_id", created.id,
			"error", err,
		)
		m.observer.Observe(Event{
			Kind:       EventRolledBack,
			DeviceID:   dev.id,
			DeviceType: dev.typ,
			InstanceID: created.id,
			Slot:       slot,
			Remaining:  len(dev.instances),
			Err:        err,
			At:         time.Now().UTC(),
		})
		if r != nil {
			panic(r)
		}
	}()

	if err = dev.hooks.Construct(created); err != nil {
		return nil, err
	}
	committed = true

	m.logger.Debug("instance created",
		"device_id", dev.id,
		"device_type", dev.typ,
		"instance_id", created.id,
		"slot", created.slot,
	)
	m.observer.Observe(Event{
		Kind:       EventCreated,
		DeviceID:   dev.id,
		DeviceType: dev.typ,
		InstanceID: created.id,
		Slot:       created.slot,
		Remaining:  len(dev.instances),
		At:         time.Now().UTC(),
	})

	return created, nil
}

// DestroyInstance runs the destructor hook, unlists the instance and
// releases it.
//
// The destructor's error is logged and passed to the observer but does not
// stop teardown; DestroyInstance returns nil once the instance is gone.
//
// Returns:
//   - ErrInvalidParameter if inst is nil
func (m *Manager) DestroyInstance(inst *Instance) error {
	if inst == nil {
		return ErrInvalidParameter
	}

	dev := inst.device
	invariant(dev != nil, "destroy", "instance %s is not listed", inst.id)

	dtorErr := dev.hooks.Destruct(inst)
	if dtorErr != nil {
		m.logger.Warn("instance destructor failed, continuing teardown",
			"device_id", dev.id,
			"device_type", dev.typ,
			"instance_id", inst.id,
			"error", dtorErr,
		)
	}

	slot := inst.slot
	detach(inst)
	m.alloc.Release(inst)

	m.logger.Debug("instance destroyed",
		"device_id", dev.id,
		"instance_id", inst.id,
		"slot", slot,
	)
	m.observer.Observe(Event{
		Kind:       EventDestroyed,
		DeviceID:   dev.id,
		DeviceType: dev.typ,
		InstanceID: inst.id,
		Slot:       slot,
		Remaining:  len(dev.instances),
		Err:        dtorErr,
		At:         time.Now().UTC(),
	})

	return nil
}

// DestroyAllInstances destroys every instance of dev, head first, until the
// list is empty.
//
// Returns:
//   - ErrInvalidParameter if dev is nil
func (m *Manager) DestroyAllInstances(dev *Device) error {
	if dev == nil {
		return ErrInvalidParameter
	}

	count := 0
	for inst := dev.FirstInstance(); inst != nil; inst = dev.FirstInstance() {
		// DestroyInstance always unlists, so the head advances every pass.
		_ = m.DestroyInstance(inst) //nolint:errcheck // only fails for nil
		count++
	}

	if count > 0 {
		m.logger.Info("all device instances destroyed", "device_id", dev.id, "count", count)
	}
	return nil
}

// GetOwningDevice returns the device inst is listed on.
//
// Returns:
//   - ErrInvalidParameter if inst is nil
func (m *Manager) GetOwningDevice(inst *Instance) (*Device, error) {
	if inst == nil {
		return nil, ErrInvalidParameter
	}
	return inst.device, nil
}
