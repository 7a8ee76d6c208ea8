package journal

import (
	"context"
	"time"

	"github.com/nerrad567/gray-logic-audio/internal/sounddevice"
)

// DefaultWriteTimeout bounds a single journal write.
const DefaultWriteTimeout = 2 * time.Second

// Logger defines the logging interface used by the Recorder.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Recorder writes lifecycle events to a Repository.
//
// It implements sounddevice.Observer. Write failures are logged and dropped;
// they never affect the lifecycle operation that produced the event.
type Recorder struct {
	repo    Repository
	timeout time.Duration
	logger  Logger
}

// NewRecorder creates a recorder. A timeout of 0 means DefaultWriteTimeout.
func NewRecorder(repo Repository, timeout time.Duration) *Recorder {
	if timeout <= 0 {
		timeout = DefaultWriteTimeout
	}
	return &Recorder{
		repo:    repo,
		timeout: timeout,
		logger:  noopLogger{},
	}
}

// SetLogger sets the logger for the recorder.
func (r *Recorder) SetLogger(logger Logger) {
	if logger == nil {
		logger = noopLogger{}
	}
	r.logger = logger
}

// Observe records ev.
func (r *Recorder) Observe(ev sounddevice.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	if err := r.repo.Record(ctx, EntryFromEvent(ev)); err != nil {
		r.logger.Warn("failed to journal instance event",
			"device_id", ev.DeviceID,
			"instance_id", ev.InstanceID,
			"event", ev.Kind,
			"error", err,
		)
	}
}
