package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nerrad567/gray-logic-audio/internal/infrastructure/config"
	"github.com/nerrad567/gray-logic-audio/internal/session"
	"github.com/nerrad567/gray-logic-audio/internal/sounddevice"
)

// freePort returns a TCP port that was free a moment ago.
func freePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("reserving port: %v", err)
	}
	defer ln.Close()
	return ln.Addr().(*net.TCPAddr).Port
}

// writeConfig writes a config with MQTT and InfluxDB disabled.
func writeConfig(t *testing.T, dbPath string, extra string) string {
	t.Helper()

	content := fmt.Sprintf(`
site:
  id: test-site

database:
  path: %q
  wal_mode: true
  busy_timeout: 5

mqtt:
  broker:
    host: ""

influxdb:
  enabled: false

logging:
  level: error
  format: text
  output: stderr

api:
  host: "127.0.0.1"
  port: %d
%s`, dbPath, freePort(t), extra)

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	t.Setenv("GRAYLOGIC_CONFIG", path)
	t.Setenv("GRAYLOGIC_MQTT_HOST", "")
	return path
}

func TestRun_InvalidConfig(t *testing.T) {
	t.Setenv("GRAYLOGIC_CONFIG", "/nonexistent/path/config.yaml")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := run(ctx); err == nil {
		t.Fatal("run() should fail with invalid config path")
	}
}

func TestRun_MissingDatabasePath(t *testing.T) {
	writeConfig(t, "", "")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := run(ctx); err == nil {
		t.Fatal("run() should fail with empty database path")
	}
}

func TestRun_UnknownDeviceType(t *testing.T) {
	writeConfig(t, filepath.Join(t.TempDir(), "audio.db"), `
audio:
  devices:
    - id: cam-1
      type: video
`)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := run(ctx); err == nil {
		t.Fatal("run() should fail with an unknown device type")
	}
}

func TestRun_StartupAndShutdown(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "audio.db")
	writeConfig(t, dbPath, `
audio:
  max_instances: 8
  devices:
    - id: speaker-lounge
      type: wave_out
      buffer_size: 4096
    - id: mixer-main
      type: mixer
      max_sessions: 2
`)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	if err := run(ctx); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if _, err := os.Stat(dbPath); err != nil {
		t.Errorf("database file not created: %v", err)
	}
}

func TestGetConfigPath_Default(t *testing.T) {
	t.Setenv("GRAYLOGIC_CONFIG", "")

	if path := getConfigPath(); path != defaultConfigPath {
		t.Errorf("getConfigPath() = %q, want %q", path, defaultConfigPath)
	}
}

func TestGetConfigPath_EnvOverride(t *testing.T) {
	expected := "/custom/path/config.yaml"
	t.Setenv("GRAYLOGIC_CONFIG", expected)

	if path := getConfigPath(); path != expected {
		t.Errorf("getConfigPath() = %q, want %q", path, expected)
	}
}

func TestRegisterDevices(t *testing.T) {
	svc := session.NewService(sounddevice.NewArenaAllocator(0))
	defer svc.Shutdown()

	err := registerDevices(svc, []config.AudioDeviceConfig{
		{ID: "mic-kitchen", Name: "Kitchen mic", Type: "wave_in", BufferSize: 2048},
		{ID: "synth", Type: "midi_out", MaxSessions: 1},
	})
	if err != nil {
		t.Fatalf("registerDevices() error = %v", err)
	}

	devices := svc.Devices()
	if len(devices) != 2 {
		t.Fatalf("Devices() len = %d, want 2", len(devices))
	}
	if devices[0].Name != "Kitchen mic" || devices[1].Class != "midi" {
		t.Errorf("Devices() = %+v", devices)
	}

	if _, err := svc.Open("synth"); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if _, err := svc.Open("synth"); !errors.Is(err, sounddevice.ErrAlreadyAllocated) {
		t.Errorf("second Open() error = %v, want ErrAlreadyAllocated from session limit", err)
	}

	t.Run("duplicate", func(t *testing.T) {
		err := registerDevices(svc, []config.AudioDeviceConfig{{ID: "synth", Type: "aux"}})
		if !errors.Is(err, session.ErrDeviceExists) {
			t.Errorf("registerDevices() error = %v, want ErrDeviceExists", err)
		}
	})

	t.Run("bad buffer", func(t *testing.T) {
		err := registerDevices(svc, []config.AudioDeviceConfig{{ID: "x", Type: "wave_out", BufferSize: -1}})
		if err == nil {
			t.Error("registerDevices() expected error for negative buffer size")
		}
	})
}
