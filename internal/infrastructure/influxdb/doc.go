// Package influxdb writes Gray Logic Audio metrics to InfluxDB v2.
//
// It wraps influxdb-client-go's non-blocking write API: points are batched
// per config (batch_size, flush_interval) and write failures arrive
// asynchronously on the SetOnError callback.
//
// Usage:
//
//	client, err := influxdb.Connect(cfg.InfluxDB)
//	if errors.Is(err, influxdb.ErrDisabled) {
//	    // metrics off
//	}
//	defer client.Close()
//
//	client.WritePointWithTime("audio_instances", tags, fields, ev.At)
package influxdb
