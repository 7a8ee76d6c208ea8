package session

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/nerrad567/gray-logic-audio/internal/driver"
	"github.com/nerrad567/gray-logic-audio/internal/sounddevice"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// orderHooks records destructor calls across devices.
type orderHooks struct {
	mu    *sync.Mutex
	log   *[]string
	name  string
	ctErr error
}

func (h orderHooks) Construct(*sounddevice.Instance) error { return h.ctErr }

func (h orderHooks) Destruct(*sounddevice.Instance) error {
	h.mu.Lock()
	*h.log = append(*h.log, h.name)
	h.mu.Unlock()
	return nil
}

func newService(t *testing.T) *Service {
	t.Helper()
	s := NewService(sounddevice.NewArenaAllocator(0))
	t.Cleanup(s.Shutdown)
	return s
}

func mustRegister(t *testing.T, s *Service, id string, spec driver.Spec) {
	t.Helper()

	hooks, err := driver.New(spec)
	if err != nil {
		t.Fatalf("driver.New() error = %v", err)
	}
	if err := s.RegisterDevice(id, "", spec.Type, hooks); err != nil {
		t.Fatalf("RegisterDevice(%s) error = %v", id, err)
	}
}

func TestRegisterDevice(t *testing.T) {
	s := newService(t)
	mustRegister(t, s, "speaker", driver.Spec{Type: sounddevice.DeviceTypeWaveOut})

	t.Run("duplicate", func(t *testing.T) {
		hooks, _ := driver.New(driver.Spec{Type: sounddevice.DeviceTypeAux}) //nolint:errcheck // valid spec
		err := s.RegisterDevice("speaker", "", sounddevice.DeviceTypeAux, hooks)
		if !errors.Is(err, ErrDeviceExists) {
			t.Errorf("RegisterDevice() error = %v, want ErrDeviceExists", err)
		}
	})

	t.Run("empty id", func(t *testing.T) {
		err := s.RegisterDevice("", "", sounddevice.DeviceTypeAux, sounddevice.HookFuncs{})
		if !errors.Is(err, ErrInvalidDeviceID) {
			t.Errorf("RegisterDevice() error = %v, want ErrInvalidDeviceID", err)
		}
	})

	t.Run("bad type", func(t *testing.T) {
		err := s.RegisterDevice("video", "", "video", sounddevice.HookFuncs{})
		if !errors.Is(err, sounddevice.ErrInvalidDeviceType) {
			t.Errorf("RegisterDevice() error = %v, want ErrInvalidDeviceType", err)
		}
	})

	devices := s.Devices()
	if len(devices) != 1 {
		t.Fatalf("Devices() len = %d, want 1", len(devices))
	}
	if devices[0].Name != "speaker" || devices[0].Class != "wave" {
		t.Errorf("Devices()[0] = %+v, want name defaulted to id and class wave", devices[0])
	}
}

func TestOpenClose(t *testing.T) {
	s := newService(t)
	mustRegister(t, s, "mic", driver.Spec{Type: sounddevice.DeviceTypeWaveIn})

	a, err := s.Open("mic")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	b, err := s.Open("mic")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if a.DeviceID != "mic" || a.DeviceType != sounddevice.DeviceTypeWaveIn {
		t.Errorf("Open() info = %+v", a)
	}

	owner, err := s.Owner(b.ID)
	if err != nil || owner != "mic" {
		t.Errorf("Owner() = %q, %v; want mic", owner, err)
	}

	list, err := s.Instances("mic")
	if err != nil {
		t.Fatalf("Instances() error = %v", err)
	}
	if len(list) != 2 || list[0].ID != a.ID || list[1].ID != b.ID {
		t.Errorf("Instances() = %+v, want [a b] in open order", list)
	}

	if err := s.Close(a.ID); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := s.Close(a.ID); !errors.Is(err, ErrInstanceNotFound) {
		t.Errorf("second Close() error = %v, want ErrInstanceNotFound", err)
	}
	if _, err := s.Owner(a.ID); !errors.Is(err, ErrInstanceNotFound) {
		t.Errorf("Owner() of closed error = %v, want ErrInstanceNotFound", err)
	}

	status, err := s.Device("mic")
	if err != nil || status.Instances != 1 {
		t.Errorf("Device() = %+v, %v; want 1 instance", status, err)
	}
}

func TestOpen_UnknownDevice(t *testing.T) {
	s := newService(t)

	if _, err := s.Open("nope"); !errors.Is(err, ErrDeviceNotFound) {
		t.Errorf("Open() error = %v, want ErrDeviceNotFound", err)
	}
	if err := s.CloseAll("nope"); !errors.Is(err, ErrDeviceNotFound) {
		t.Errorf("CloseAll() error = %v, want ErrDeviceNotFound", err)
	}
	if _, err := s.Instances("nope"); !errors.Is(err, ErrDeviceNotFound) {
		t.Errorf("Instances() error = %v, want ErrDeviceNotFound", err)
	}
}

func TestOpen_ConstructorFailureLeavesNothingOpen(t *testing.T) {
	s := newService(t)
	mustRegister(t, s, "midi", driver.Spec{Type: sounddevice.DeviceTypeMIDIOut, MaxSessions: 1})

	var events []sounddevice.Event
	s.AddObserver(sounddevice.ObserverFunc(func(ev sounddevice.Event) {
		events = append(events, ev)
	}))

	if _, err := s.Open("midi"); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	_, err := s.Open("midi")
	if !errors.Is(err, sounddevice.ErrAlreadyAllocated) {
		t.Fatalf("Open() error = %v, want ErrAlreadyAllocated", err)
	}

	list, _ := s.Instances("midi") //nolint:errcheck // device exists
	if len(list) != 1 {
		t.Errorf("Instances() len = %d, want 1", len(list))
	}

	s.Flush()
	if len(events) != 2 || events[1].Kind != sounddevice.EventRolledBack {
		t.Errorf("events = %+v, want created then rolled_back", events)
	}
	if events[1].Result() != sounddevice.ResultAllocated {
		t.Errorf("rollback result = %v, want %v", events[1].Result(), sounddevice.ResultAllocated)
	}
}

func TestCloseAll(t *testing.T) {
	s := newService(t)
	mustRegister(t, s, "mixer", driver.Spec{Type: sounddevice.DeviceTypeMixer})

	var ids []string
	for n := 0; n < 3; n++ {
		info, err := s.Open("mixer")
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		ids = append(ids, info.ID)
	}

	var destroyed []string
	s.AddObserver(sounddevice.ObserverFunc(func(ev sounddevice.Event) {
		if ev.Kind == sounddevice.EventDestroyed {
			destroyed = append(destroyed, ev.InstanceID)
		}
	}))

	if err := s.CloseAll("mixer"); err != nil {
		t.Fatalf("CloseAll() error = %v", err)
	}
	s.Flush()

	if fmt.Sprint(destroyed) != fmt.Sprint(ids) {
		t.Errorf("destroy order = %v, want %v", destroyed, ids)
	}
	for _, id := range ids {
		if err := s.Close(id); !errors.Is(err, ErrInstanceNotFound) {
			t.Errorf("Close(%s) after CloseAll error = %v, want ErrInstanceNotFound", id, err)
		}
	}
	if err := s.CloseAll("mixer"); err != nil {
		t.Errorf("CloseAll() on empty device error = %v", err)
	}
}

func TestShutdown_ReverseRegistrationOrder(t *testing.T) {
	s := newService(t)

	var mu sync.Mutex
	var log []string
	for _, id := range []string{"first", "second", "third"} {
		hooks := orderHooks{mu: &mu, log: &log, name: id}
		if err := s.RegisterDevice(id, "", sounddevice.DeviceTypeAux, hooks); err != nil {
			t.Fatalf("RegisterDevice() error = %v", err)
		}
		if _, err := s.Open(id); err != nil {
			t.Fatalf("Open() error = %v", err)
		}
	}

	s.Shutdown()

	want := []string{"third", "second", "first"}
	if fmt.Sprint(log) != fmt.Sprint(want) {
		t.Errorf("teardown order = %v, want %v", log, want)
	}
	for _, d := range s.Devices() {
		if d.Instances != 0 {
			t.Errorf("device %s still has %d instances", d.ID, d.Instances)
		}
	}
}

func TestConcurrentOpenClose(t *testing.T) {
	s := NewService(sounddevice.NewArenaAllocator(256))
	t.Cleanup(s.Shutdown)
	mustRegister(t, s, "a", driver.Spec{Type: sounddevice.DeviceTypeWaveOut, BufferSize: 512})
	mustRegister(t, s, "b", driver.Spec{Type: sounddevice.DeviceTypeAux})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(dev string) {
			defer wg.Done()
			for n := 0; n < 50; n++ {
				info, err := s.Open(dev)
				if err != nil {
					t.Errorf("Open(%s) error = %v", dev, err)
					return
				}
				if err := s.Close(info.ID); err != nil {
					t.Errorf("Close() error = %v", err)
					return
				}
			}
		}([]string{"a", "b"}[i%2])
	}
	wg.Wait()

	for _, d := range s.Devices() {
		if d.Instances != 0 {
			t.Errorf("device %s has %d instances, want 0", d.ID, d.Instances)
		}
	}
}

func TestSlowObserverDoesNotDelayLifecycle(t *testing.T) {
	s := newService(t)
	mustRegister(t, s, "aux", driver.Spec{Type: sounddevice.DeviceTypeAux})

	const delay = 200 * time.Millisecond
	var mu sync.Mutex
	var kinds []sounddevice.EventKind
	s.AddObserver(sounddevice.ObserverFunc(func(ev sounddevice.Event) {
		time.Sleep(delay)
		mu.Lock()
		kinds = append(kinds, ev.Kind)
		mu.Unlock()
	}))

	start := time.Now()
	info, err := s.Open("aux")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := s.Close(info.ID); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if elapsed := time.Since(start); elapsed >= delay {
		t.Errorf("Open+Close took %v, want well under the observer delay %v", elapsed, delay)
	}

	s.Shutdown()

	mu.Lock()
	defer mu.Unlock()
	want := []sounddevice.EventKind{sounddevice.EventCreated, sounddevice.EventDestroyed}
	if fmt.Sprint(kinds) != fmt.Sprint(want) {
		t.Errorf("delivered = %v, want %v", kinds, want)
	}
}

func TestShutdown_StopsDelivery(t *testing.T) {
	s := newService(t)
	mustRegister(t, s, "aux", driver.Spec{Type: sounddevice.DeviceTypeAux})

	var mu sync.Mutex
	var delivered int
	s.AddObserver(sounddevice.ObserverFunc(func(sounddevice.Event) {
		mu.Lock()
		delivered++
		mu.Unlock()
	}))

	if _, err := s.Open("aux"); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	s.Shutdown()
	s.Shutdown()
	s.Flush()

	// Events after shutdown are discarded rather than delivered.
	info, err := s.Open("aux")
	if err != nil {
		t.Fatalf("Open() after Shutdown error = %v", err)
	}
	if err := s.Close(info.ID); err != nil {
		t.Fatalf("Close() after Shutdown error = %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if delivered != 2 {
		t.Errorf("delivered = %d, want created and destroyed from before Shutdown", delivered)
	}
}

func TestDispatcher_DropsWhenFull(t *testing.T) {
	entered := make(chan struct{}, 1)
	release := make(chan struct{})
	var delivered atomic.Int64
	var warnings atomic.Int64

	d := newDispatcher(func(sounddevice.Event) {
		select {
		case entered <- struct{}{}:
		default:
		}
		<-release
		delivered.Add(1)
	}, func(string, ...any) { warnings.Add(1) })

	// The first event parks the delivery goroutine; the rest fill the queue.
	d.emit(sounddevice.Event{Kind: sounddevice.EventCreated})
	<-entered
	for n := 0; n < eventQueueSize+1; n++ {
		d.emit(sounddevice.Event{Kind: sounddevice.EventCreated})
	}

	if got := d.dropped.Load(); got != 1 {
		t.Errorf("dropped = %d, want 1", got)
	}
	if got := warnings.Load(); got != 1 {
		t.Errorf("warnings = %d, want 1", got)
	}

	close(release)
	d.close()

	if got := delivered.Load(); got != eventQueueSize+1 {
		t.Errorf("delivered = %d, want %d", got, eventQueueSize+1)
	}
}
