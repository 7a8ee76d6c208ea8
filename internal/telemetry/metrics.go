package telemetry

import (
	"time"

	"github.com/nerrad567/gray-logic-audio/internal/sounddevice"
)

// MeasurementInstances is the InfluxDB measurement written per lifecycle event.
const MeasurementInstances = "audio_instances"

// PointWriter is the subset of the InfluxDB client used by Metrics.
type PointWriter interface {
	WritePointWithTime(measurement string, tags map[string]string, fields map[string]any, ts time.Time)
}

// Metrics writes one InfluxDB point per lifecycle event.
type Metrics struct {
	writer PointWriter
}

// NewMetrics creates a metrics exporter.
func NewMetrics(writer PointWriter) *Metrics {
	return &Metrics{writer: writer}
}

// Observe writes ev as an audio_instances point.
func (m *Metrics) Observe(ev sounddevice.Event) {
	at := ev.At
	if at.IsZero() {
		at = time.Now().UTC()
	}

	m.writer.WritePointWithTime(MeasurementInstances,
		map[string]string{
			"device_id":   ev.DeviceID,
			"device_type": string(ev.DeviceType),
			"event":       string(ev.Kind),
		},
		map[string]any{
			"result":    int(ev.Result()),
			"slot":      ev.Slot,
			"remaining": ev.Remaining,
		},
		at,
	)
}
