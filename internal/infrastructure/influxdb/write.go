package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WritePointWithTime queues a point with an explicit timestamp, such as the
// moment a lifecycle event happened rather than when it was exported.
// Points written after Close are dropped.
//
//	client.WritePointWithTime("audio_instances",
//	    map[string]string{"device_id": "mic-kitchen", "event": "created"},
//	    map[string]any{"slot": 3, "result": 0}, ev.At)
func (c *Client) WritePointWithTime(measurement string, tags map[string]string, fields map[string]any, ts time.Time) {
	if !c.IsConnected() {
		return
	}
	c.writeAPI.WritePoint(write.NewPoint(measurement, tags, fields, ts))
}
