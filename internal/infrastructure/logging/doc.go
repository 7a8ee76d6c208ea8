// Package logging provides structured logging for Gray Logic Audio.
//
// It wraps log/slog so every package logs with the same handler, level and
// default fields (service, version).
//
// Configuration (config.yaml):
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "json"     # json, text
//	  output: "stdout"   # stdout, stderr
//
// Usage:
//
//	logger := logging.New(cfg.Logging, version)
//	svc.SetLogger(logger.Component("session"))
//	logger.Info("device registered", "device_id", id)
//
// *Logger satisfies the small Logger interfaces declared by the domain
// packages (sounddevice, session, journal, telemetry) and the MQTT client.
package logging
