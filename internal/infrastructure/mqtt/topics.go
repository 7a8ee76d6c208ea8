package mqtt

import "fmt"

// TopicPrefix is the base of every topic published by the audio daemon.
const TopicPrefix = "graylogic/audio"

// Topics builds Gray Logic Audio MQTT topics.
//
//	topics := mqtt.Topics{}
//	topics.DeviceEvent("speaker-lounge")
//	// graylogic/audio/device/speaker-lounge/event
type Topics struct{}

// Status returns the daemon's retained online/offline topic (also the LWT topic).
//
// Example: graylogic/audio/status
func (Topics) Status() string {
	return TopicPrefix + "/status"
}

// DeviceEvent returns the topic carrying a device's lifecycle events.
//
// Example: graylogic/audio/device/mic-kitchen/event
func (Topics) DeviceEvent(deviceID string) string {
	return fmt.Sprintf("%s/device/%s/event", TopicPrefix, deviceID)
}

// DeviceInstances returns the retained topic carrying a device's live instance count.
//
// Example: graylogic/audio/device/mic-kitchen/instances
func (Topics) DeviceInstances(deviceID string) string {
	return fmt.Sprintf("%s/device/%s/instances", TopicPrefix, deviceID)
}
