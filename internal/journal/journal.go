package journal

import (
	"context"
	"errors"
	"time"

	"github.com/nerrad567/gray-logic-audio/internal/sounddevice"
)

// ErrDeviceIDRequired is returned when an entry or query has no device ID.
var ErrDeviceIDRequired = errors.New("journal: device id is required")

// Entry is one journalled lifecycle event.
type Entry struct {
	ID         int64                  `json:"id"`
	DeviceID   string                 `json:"device_id"`
	DeviceType sounddevice.DeviceType `json:"device_type"`
	InstanceID string                 `json:"instance_id"`
	Event      sounddevice.EventKind  `json:"event"`
	Slot       int                    `json:"slot"`
	Remaining  int                    `json:"remaining"`

	// Result is the numeric result code of the hook error, 0 on success.
	Result sounddevice.Result `json:"result"`

	// Error is the hook error text, empty on success.
	Error string `json:"error,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// EntryFromEvent converts a lifecycle event to a journal entry.
func EntryFromEvent(ev sounddevice.Event) Entry {
	entry := Entry{
		DeviceID:   ev.DeviceID,
		DeviceType: ev.DeviceType,
		InstanceID: ev.InstanceID,
		Event:      ev.Kind,
		Slot:       ev.Slot,
		Remaining:  ev.Remaining,
		Result:     ev.Result(),
		CreatedAt:  ev.At,
	}
	if ev.Err != nil {
		entry.Error = ev.Err.Error()
	}
	return entry
}

// Repository stores and retrieves journal entries.
//
// Implementations must be thread-safe and use UTC timestamps.
type Repository interface {
	// Record appends an entry.
	Record(ctx context.Context, entry Entry) error

	// ListByDevice returns the device's most recent entries, newest first.
	ListByDevice(ctx context.Context, deviceID string, limit int) ([]Entry, error)

	// Prune deletes entries older than olderThan and returns the count removed.
	Prune(ctx context.Context, olderThan time.Duration) (int64, error)
}
