package telemetry

import (
	"encoding/json"
	"time"

	"github.com/nerrad567/gray-logic-audio/internal/infrastructure/mqtt"
	"github.com/nerrad567/gray-logic-audio/internal/sounddevice"
)

// MessagePublisher is the subset of the MQTT client used by Publisher.
type MessagePublisher interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
}

// EventPayload is the JSON body published for every lifecycle event.
type EventPayload struct {
	Event      sounddevice.EventKind  `json:"event"`
	DeviceID   string                 `json:"device_id"`
	DeviceType sounddevice.DeviceType `json:"device_type"`
	InstanceID string                 `json:"instance_id"`
	Slot       int                    `json:"slot"`
	Result     int                    `json:"result"`
	ResultName string                 `json:"result_name"`
	Error      string                 `json:"error,omitempty"`
	Timestamp  string                 `json:"timestamp"`
}

// InstancesPayload is the retained JSON body carrying a device's live count.
type InstancesPayload struct {
	DeviceID  string `json:"device_id"`
	Instances int    `json:"instances"`
	Timestamp string `json:"timestamp"`
}

// Publisher publishes lifecycle events to MQTT.
type Publisher struct {
	client MessagePublisher
	qos    byte
	topics mqtt.Topics
	logger Logger
}

// NewPublisher creates a publisher that sends events with the given QoS.
func NewPublisher(client MessagePublisher, qos byte) *Publisher {
	return &Publisher{
		client: client,
		qos:    qos,
		logger: noopLogger{},
	}
}

// SetLogger sets the logger for the publisher.
func (p *Publisher) SetLogger(logger Logger) {
	if logger == nil {
		logger = noopLogger{}
	}
	p.logger = logger
}

// Observe publishes ev and the device's updated instance count.
func (p *Publisher) Observe(ev sounddevice.Event) {
	at := ev.At
	if at.IsZero() {
		at = time.Now().UTC()
	}
	stamp := at.Format(time.RFC3339)

	body := EventPayload{
		Event:      ev.Kind,
		DeviceID:   ev.DeviceID,
		DeviceType: ev.DeviceType,
		InstanceID: ev.InstanceID,
		Slot:       ev.Slot,
		Result:     int(ev.Result()),
		ResultName: ev.Result().String(),
		Timestamp:  stamp,
	}
	if ev.Err != nil {
		body.Error = ev.Err.Error()
	}
	p.publish(p.topics.DeviceEvent(ev.DeviceID), body, false)

	p.publish(p.topics.DeviceInstances(ev.DeviceID), InstancesPayload{
		DeviceID:  ev.DeviceID,
		Instances: ev.Remaining,
		Timestamp: stamp,
	}, true)
}

func (p *Publisher) publish(topic string, body any, retained bool) {
	payload, err := json.Marshal(body)
	if err != nil {
		p.logger.Warn("failed to encode telemetry payload", "topic", topic, "error", err)
		return
	}

	if err := p.client.Publish(topic, payload, p.qos, retained); err != nil {
		p.logger.Warn("failed to publish lifecycle event", "topic", topic, "error", err)
		return
	}
	p.logger.Debug("lifecycle event published", "topic", topic)
}
