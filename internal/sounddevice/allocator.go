package sounddevice

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Allocator obtains and releases backing storage for instances.
//
// Allocate returns a zeroed instance (not listed, no state) or
// ErrOutOfMemory. Release must only be called with an instance that is no
// longer listed; anything else is a caller bug.
type Allocator interface {
	Allocate() (*Instance, error)
	Release(inst *Instance)
}

// ArenaAllocator hands out instances from a slot table.
//
// Each instance keeps a stable slot index for its whole life; released slots
// are reused. A positive capacity bounds the number of live instances.
//
// Thread Safety:
//   - All methods are safe for concurrent use.
type ArenaAllocator struct {
	mu       sync.Mutex
	slots    []*Instance
	free     []int
	live     int
	capacity int
}

// NewArenaAllocator creates an allocator holding at most capacity live
// instances. A capacity of 0 or less means unlimited.
func NewArenaAllocator(capacity int) *ArenaAllocator {
	if capacity < 0 {
		capacity = 0
	}
	return &ArenaAllocator{capacity: capacity}
}

// Allocate returns a fresh instance in a free slot.
func (a *ArenaAllocator) Allocate() (*Instance, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.capacity > 0 && a.live >= a.capacity {
		return nil, ErrOutOfMemory
	}

	var slot int
	if n := len(a.free); n > 0 {
		slot = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		slot = len(a.slots)
		a.slots = append(a.slots, nil)
	}

	inst := &Instance{
		id:        uuid.NewString(),
		slot:      slot,
		createdAt: time.Now().UTC(),
	}
	a.slots[slot] = inst
	a.live++

	return inst, nil
}

// Release returns the instance's slot to the free list.
func (a *ArenaAllocator) Release(inst *Instance) {
	invariant(inst != nil, "release", "nil instance")
	if inst.device != nil {
		invariant(false, "release", "instance %s is still listed on device %q", inst.id, inst.device.id)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	invariant(inst.slot >= 0 && inst.slot < len(a.slots) && a.slots[inst.slot] == inst,
		"release", "instance %s does not own slot %d", inst.id, inst.slot)

	a.slots[inst.slot] = nil
	a.free = append(a.free, inst.slot)
	a.live--
}

// Live returns the number of allocated instances.
func (a *ArenaAllocator) Live() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.live
}

// Capacity returns the configured capacity (0 = unlimited).
func (a *ArenaAllocator) Capacity() int {
	return a.capacity
}
