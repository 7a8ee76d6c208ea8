package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/nerrad567/gray-logic-audio/internal/sounddevice"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200

	// timestampLayout sorts lexically, so created_at can be compared as text.
	timestampLayout = "2006-01-02T15:04:05.000Z"
)

// SQLiteRepository implements Repository over the instance_events table.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a repository on an open SQLite connection.
// The schema comes from the embedded migrations.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Record inserts an entry. A zero CreatedAt is stamped with the current time.
func (r *SQLiteRepository) Record(ctx context.Context, entry Entry) error {
	if entry.DeviceID == "" {
		return ErrDeviceIDRequired
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO instance_events
		 (device_id, device_type, instance_id, event, slot, remaining, result, error, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.DeviceID,
		string(entry.DeviceType),
		entry.InstanceID,
		string(entry.Event),
		entry.Slot,
		entry.Remaining,
		int(entry.Result),
		entry.Error,
		entry.CreatedAt.UTC().Format(timestampLayout),
	)
	if err != nil {
		return fmt.Errorf("inserting instance event: %w", err)
	}
	return nil
}

// ListByDevice returns up to limit entries for the device, newest first.
// A limit of 0 or less means 50; limits above 200 are clamped.
func (r *SQLiteRepository) ListByDevice(ctx context.Context, deviceID string, limit int) ([]Entry, error) {
	if deviceID == "" {
		return nil, ErrDeviceIDRequired
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, device_id, device_type, instance_id, event, slot, remaining, result, error, created_at
		 FROM instance_events
		 WHERE device_id = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		deviceID,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying instance events: %w", err)
	}
	defer rows.Close()

	entries := make([]Entry, 0, limit)
	for rows.Next() {
		var (
			e         Entry
			devType   string
			kind      string
			result    int
			createdAt string
		)
		if err := rows.Scan(&e.ID, &e.DeviceID, &devType, &e.InstanceID, &kind,
			&e.Slot, &e.Remaining, &result, &e.Error, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning instance event: %w", err)
		}

		e.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at %q: %w", createdAt, err)
		}
		e.DeviceType = sounddevice.DeviceType(devType)
		e.Event = sounddevice.EventKind(kind)
		e.Result = sounddevice.Result(result)

		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating instance events: %w", err)
	}

	return entries, nil
}

// Prune deletes entries older than olderThan.
func (r *SQLiteRepository) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	if olderThan <= 0 {
		return 0, fmt.Errorf("journal: retention must be positive, got %s", olderThan)
	}

	cutoff := time.Now().UTC().Add(-olderThan).Format(timestampLayout)
	result, err := r.db.ExecContext(ctx, "DELETE FROM instance_events WHERE created_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("deleting instance events: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("checking rows affected: %w", err)
	}
	return n, nil
}
