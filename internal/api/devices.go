package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/gray-logic-audio/internal/session"
)

const (
	maxDeviceIDLen      = 128
	defaultJournalLimit = 50
	maxJournalLimit     = 200
)

// handleListDevices returns the catalogue in registration order.
func (s *Server) handleListDevices(w http.ResponseWriter, _ *http.Request) {
	devices := s.devices.Devices()
	writeJSON(w, http.StatusOK, map[string]any{"devices": devices, "count": len(devices)})
}

// handleGetDevice returns one device with its live instance count.
func (s *Server) handleGetDevice(w http.ResponseWriter, r *http.Request) {
	deviceID, ok := deviceParam(w, r)
	if !ok {
		return
	}

	status, err := s.devices.Device(deviceID)
	if err != nil {
		s.writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// handleListInstances returns the device's open instances in list order.
func (s *Server) handleListInstances(w http.ResponseWriter, r *http.Request) {
	deviceID, ok := deviceParam(w, r)
	if !ok {
		return
	}

	instances, err := s.devices.Instances(deviceID)
	if err != nil {
		s.writeSessionError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"device_id": deviceID,
		"instances": instances,
		"count":     len(instances),
	})
}

// handleGetJournal returns the device's most recent lifecycle events.
//
// Query parameters:
//   - limit: 1..200, default 50
func (s *Server) handleGetJournal(w http.ResponseWriter, r *http.Request) {
	deviceID, ok := deviceParam(w, r)
	if !ok {
		return
	}

	limit, err := parseJournalLimit(r.URL.Query().Get("limit"))
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	if _, err := s.devices.Device(deviceID); err != nil {
		s.writeSessionError(w, err)
		return
	}

	if s.journal == nil {
		writeError(w, http.StatusServiceUnavailable, ErrCodeUnavailable, "journal unavailable")
		return
	}

	entries, err := s.journal.ListByDevice(r.Context(), deviceID, limit)
	if err != nil {
		s.logger.Error("loading journal", "device_id", deviceID, "error", err)
		writeInternalError(w, "failed to load journal")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"device_id": deviceID,
		"journal":   entries,
		"count":     len(entries),
	})
}

func deviceParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	deviceID := chi.URLParam(r, "id")
	if deviceID == "" || len(deviceID) > maxDeviceIDLen {
		writeBadRequest(w, "invalid device ID")
		return "", false
	}
	return deviceID, true
}

func (s *Server) writeSessionError(w http.ResponseWriter, err error) {
	if errors.Is(err, session.ErrDeviceNotFound) {
		writeNotFound(w, "device not found")
		return
	}
	s.logger.Error("session lookup failed", "error", err)
	writeInternalError(w, "failed to get device")
}

// parseJournalLimit parses the limit query parameter with bounds enforcement.
func parseJournalLimit(raw string) (int, error) {
	if raw == "" {
		return defaultJournalLimit, nil
	}

	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return 0, fmt.Errorf("invalid limit")
	}
	if limit > maxJournalLimit {
		return 0, fmt.Errorf("limit exceeds maximum")
	}

	return limit, nil
}
