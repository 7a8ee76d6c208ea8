// Package mqtt publishes Gray Logic Audio telemetry to the site MQTT broker.
//
// The daemon only publishes; it never takes commands over MQTT. Topics live
// under graylogic/audio (see Topics):
//
//	graylogic/audio/status                        retained online/offline (LWT)
//	graylogic/audio/device/{id}/event             lifecycle events
//	graylogic/audio/device/{id}/instances         retained live instance count
//
// Usage:
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	err = client.Publish(mqtt.Topics{}.DeviceEvent("mic-kitchen"), payload, 1, false)
package mqtt
