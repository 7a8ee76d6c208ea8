package session

import (
	"fmt"
	"slices"
	"sync"

	"github.com/nerrad567/gray-logic-audio/internal/sounddevice"
)

// Logger defines the logging interface used by the Service.
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

// entry is one catalogued device and the lock that serialises it.
type entry struct {
	mu   sync.Mutex
	dev  *sounddevice.Device
	name string
}

func (e *entry) status() DeviceStatus {
	e.mu.Lock()
	count := e.dev.InstanceCount()
	e.mu.Unlock()

	return DeviceStatus{
		ID:        e.dev.ID(),
		Name:      e.name,
		Type:      e.dev.Type(),
		Class:     e.dev.Type().Class().String(),
		Instances: count,
	}
}

// handle locates an open instance and the device entry that owns it.
type handle struct {
	inst  *sounddevice.Instance
	owner *entry
}

// Service serialises lifecycle calls per device and tracks open instances.
//
// All public methods are thread-safe. Lock order is device lock, then mu.
type Service struct {
	manager *sounddevice.Manager

	mu        sync.RWMutex
	devices   map[string]*entry
	order     []string          // registration order
	instances map[string]handle // open instances by ID

	obsMu     sync.RWMutex
	observers []sounddevice.Observer
	events    *dispatcher

	logger Logger
}

// NewService creates a service whose instances are drawn from alloc.
// It starts the event delivery goroutine; call Shutdown to stop it.
func NewService(alloc sounddevice.Allocator) *Service {
	s := &Service{
		manager:   sounddevice.NewManager(alloc),
		devices:   make(map[string]*entry),
		instances: make(map[string]handle),
		logger:    noopLogger{},
	}
	s.events = newDispatcher(s.fanOut, func(msg string, args ...any) {
		s.logger.Warn(msg, args...)
	})
	s.manager.SetObserver(sounddevice.ObserverFunc(s.events.emit))
	return s
}

// SetLogger sets the logger for the service and its manager.
func (s *Service) SetLogger(logger Logger) {
	if logger == nil {
		logger = noopLogger{}
	}
	s.logger = logger
	s.manager.SetLogger(logger)
}

// AddObserver registers an observer for lifecycle events.
func (s *Service) AddObserver(obs sounddevice.Observer) {
	if obs == nil {
		return
	}
	s.obsMu.Lock()
	s.observers = append(s.observers, obs)
	s.obsMu.Unlock()
}

// Flush blocks until every lifecycle event emitted so far has reached the
// observers. It returns immediately after Shutdown.
func (s *Service) Flush() {
	s.events.flush()
}

// DroppedEvents reports how many lifecycle events were discarded because
// observers fell behind.
func (s *Service) DroppedEvents() uint64 {
	return s.events.dropped.Load()
}

func (s *Service) fanOut(ev sounddevice.Event) {
	s.obsMu.RLock()
	defer s.obsMu.RUnlock()

	for _, obs := range s.observers {
		obs.Observe(ev)
	}
}

// RegisterDevice adds a device to the catalogue. An empty name defaults to id.
//
// Returns:
//   - ErrInvalidDeviceID if id is empty
//   - ErrDeviceExists if id is already catalogued
//   - sounddevice.ErrInvalidDeviceType for an unknown type
func (s *Service) RegisterDevice(id, name string, typ sounddevice.DeviceType, hooks sounddevice.Hooks) error {
	if id == "" {
		return ErrInvalidDeviceID
	}

	dev, err := sounddevice.NewDevice(id, typ, hooks)
	if err != nil {
		return fmt.Errorf("registering device %s: %w", id, err)
	}
	if name == "" {
		name = id
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.devices[id]; exists {
		return fmt.Errorf("%w: %s", ErrDeviceExists, id)
	}
	s.devices[id] = &entry{dev: dev, name: name}
	s.order = append(s.order, id)

	s.logger.Info("device registered", "device_id", id, "device_type", typ, "name", name)
	return nil
}

func (s *Service) lookup(id string) (*entry, error) {
	s.mu.RLock()
	e, ok := s.devices[id]
	s.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrDeviceNotFound, id)
	}
	return e, nil
}

// Open creates an instance on the device.
//
// Returns ErrDeviceNotFound, or any error from sounddevice.Manager.CreateInstance.
func (s *Service) Open(deviceID string) (InstanceInfo, error) {
	e, err := s.lookup(deviceID)
	if err != nil {
		return InstanceInfo{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	inst, err := s.manager.CreateInstance(e.dev)
	if err != nil {
		return InstanceInfo{}, err
	}

	s.mu.Lock()
	s.instances[inst.ID()] = handle{inst: inst, owner: e}
	s.mu.Unlock()

	return infoOf(inst, e.dev), nil
}

// Close destroys an open instance.
//
// Returns ErrInstanceNotFound if the instance is not open.
func (s *Service) Close(instanceID string) error {
	h, err := s.open(instanceID)
	if err != nil {
		return err
	}

	h.owner.mu.Lock()
	defer h.owner.mu.Unlock()

	// A concurrent Close or CloseAll may have won the race for the lock.
	s.mu.Lock()
	_, ok := s.instances[instanceID]
	delete(s.instances, instanceID)
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrInstanceNotFound, instanceID)
	}

	return s.manager.DestroyInstance(h.inst)
}

func (s *Service) open(instanceID string) (handle, error) {
	s.mu.RLock()
	h, ok := s.instances[instanceID]
	s.mu.RUnlock()

	if !ok {
		return handle{}, fmt.Errorf("%w: %s", ErrInstanceNotFound, instanceID)
	}
	return h, nil
}

// CloseAll destroys every instance of the device.
//
// Returns ErrDeviceNotFound if the device is not catalogued.
func (s *Service) CloseAll(deviceID string) error {
	e, err := s.lookup(deviceID)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	open := e.dev.Instances()
	if err := s.manager.DestroyAllInstances(e.dev); err != nil {
		return err
	}

	s.mu.Lock()
	for _, inst := range open {
		delete(s.instances, inst.ID())
	}
	s.mu.Unlock()

	return nil
}

// Shutdown closes every instance, visiting devices in reverse registration
// order, then delivers the remaining lifecycle events and stops delivery.
// Calling it again only repeats the (empty) drain.
func (s *Service) Shutdown() {
	s.mu.RLock()
	order := slices.Clone(s.order)
	s.mu.RUnlock()

	slices.Reverse(order)
	for _, id := range order {
		if err := s.CloseAll(id); err != nil {
			s.logger.Error("closing device instances", "device_id", id, "error", err)
		}
	}
	s.events.close()
	s.logger.Info("session service shut down", "devices", len(order), "events_dropped", s.DroppedEvents())
}

// Owner returns the ID of the device an open instance belongs to.
//
// Returns ErrInstanceNotFound if the instance is not open.
func (s *Service) Owner(instanceID string) (string, error) {
	h, err := s.open(instanceID)
	if err != nil {
		return "", err
	}

	h.owner.mu.Lock()
	defer h.owner.mu.Unlock()

	dev, err := s.manager.GetOwningDevice(h.inst)
	if err != nil || dev == nil {
		return "", fmt.Errorf("%w: %s", ErrInstanceNotFound, instanceID)
	}
	return dev.ID(), nil
}

// Devices returns a snapshot of the catalogue in registration order.
func (s *Service) Devices() []DeviceStatus {
	s.mu.RLock()
	entries := make([]*entry, 0, len(s.order))
	for _, id := range s.order {
		entries = append(entries, s.devices[id])
	}
	s.mu.RUnlock()

	out := make([]DeviceStatus, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.status())
	}
	return out
}

// Device returns a snapshot of one catalogued device.
//
// Returns ErrDeviceNotFound if the device is not catalogued.
func (s *Service) Device(deviceID string) (DeviceStatus, error) {
	e, err := s.lookup(deviceID)
	if err != nil {
		return DeviceStatus{}, err
	}

	return e.status(), nil
}

// Instances returns the device's open instances in list order.
//
// Returns ErrDeviceNotFound if the device is not catalogued.
func (s *Service) Instances(deviceID string) ([]InstanceInfo, error) {
	e, err := s.lookup(deviceID)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	open := e.dev.Instances()
	out := make([]InstanceInfo, 0, len(open))
	for _, inst := range open {
		out = append(out, infoOf(inst, e.dev))
	}
	return out, nil
}
