// Package telemetry exports instance lifecycle events to the message bus and
// the time-series database.
//
// Publisher and Metrics both implement sounddevice.Observer and are added to
// the session service at startup, which calls them from its event delivery
// goroutine. A slow broker or database delays later events by at most the
// underlying client's own timeout. Failures are never reported back to the
// lifecycle operation: events are logged and dropped.
//
// MQTT topics (see mqtt.Topics):
//
//	graylogic/audio/device/{device_id}/event      lifecycle event, not retained
//	graylogic/audio/device/{device_id}/instances  live instance count, retained
//
// InfluxDB measurement:
//
//	audio_instances  tags: device_id, device_type, event
//	                 fields: result, slot, remaining
package telemetry
