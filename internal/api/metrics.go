package api

import (
	"net/http"
	"runtime"
	"time"
)

// SystemMetrics represents the complete system metrics response.
type SystemMetrics struct {
	Timestamp     string         `json:"timestamp"`
	Version       string         `json:"version"`
	UptimeSeconds int64          `json:"uptime_seconds"`
	Runtime       RuntimeMetrics `json:"runtime"`
	Devices       DeviceMetrics  `json:"devices"`
}

// RuntimeMetrics contains Go runtime statistics.
type RuntimeMetrics struct {
	Goroutines    int     `json:"goroutines"`
	MemoryAllocMB float64 `json:"memory_alloc_mb"`
	MemoryTotalMB float64 `json:"memory_total_mb"`
	NumGC         uint32  `json:"num_gc"`
}

// DeviceMetrics summarises the catalogue.
type DeviceMetrics struct {
	Total     int            `json:"total"`
	Instances int            `json:"instances"`
	ByClass   map[string]int `json:"by_class"` // open instances per device class

	// EventsDropped counts lifecycle events lost because sinks fell behind.
	EventsDropped uint64 `json:"events_dropped"`
}

// handleMetrics returns runtime and catalogue statistics.
func (s *Server) handleMetrics(w http.ResponseWriter, _ *http.Request) {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	metrics := SystemMetrics{
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		Version:       s.version,
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
		Runtime: RuntimeMetrics{
			Goroutines:    runtime.NumGoroutine(),
			MemoryAllocMB: float64(memStats.Alloc) / 1024 / 1024,
			MemoryTotalMB: float64(memStats.TotalAlloc) / 1024 / 1024,
			NumGC:         memStats.NumGC,
		},
		Devices: DeviceMetrics{
			ByClass:       make(map[string]int),
			EventsDropped: s.devices.DroppedEvents(),
		},
	}

	for _, d := range s.devices.Devices() {
		metrics.Devices.Total++
		metrics.Devices.Instances += d.Instances
		metrics.Devices.ByClass[d.Class] += d.Instances
	}

	writeJSON(w, http.StatusOK, metrics)
}
