package session

import (
	"time"

	"github.com/nerrad567/gray-logic-audio/internal/sounddevice"
)

// DeviceStatus is a snapshot of one catalogued device.
type DeviceStatus struct {
	ID        string                 `json:"id"`
	Name      string                 `json:"name"`
	Type      sounddevice.DeviceType `json:"type"`
	Class     string                 `json:"class"`
	Instances int                    `json:"instances"`
}

// InstanceInfo is a snapshot of one open instance.
type InstanceInfo struct {
	ID         string                 `json:"id"`
	DeviceID   string                 `json:"device_id"`
	DeviceType sounddevice.DeviceType `json:"device_type"`
	Slot       int                    `json:"slot"`
	CreatedAt  time.Time              `json:"created_at"`
}

func infoOf(inst *sounddevice.Instance, dev *sounddevice.Device) InstanceInfo {
	return InstanceInfo{
		ID:         inst.ID(),
		DeviceID:   dev.ID(),
		DeviceType: dev.Type(),
		Slot:       inst.Slot(),
		CreatedAt:  inst.CreatedAt(),
	}
}
