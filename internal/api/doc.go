// Package api implements the read-only diagnostics HTTP API for Gray Logic Audio.
//
// This package provides:
//   - Device catalogue listing with live instance counts
//   - Per-device open instance listing
//   - Per-device lifecycle journal (when a journal is configured)
//   - Component health and runtime metrics
//   - Middleware stack (request ID, logging, recovery)
//
// There is deliberately no create or destroy surface: instances are opened
// and closed by in-process clients through the session service.
//
// # Graceful Degradation
//
// The journal and every health check are optional. Without a journal the
// journal endpoint answers 503; a failing health check marks the service
// degraded without taking the API down.
package api
