// Package journal persists instance lifecycle events to SQLite.
//
// Every created, rolled back or destroyed instance becomes one row in the
// instance_events table. The journal gives operators a local history of
// session churn and driver failures that survives restarts, even when the
// MQTT broker or InfluxDB are unavailable.
//
// Recorder plugs the repository into the session service as a
// sounddevice.Observer:
//
//	repo := journal.NewSQLiteRepository(db.DB)
//	rec := journal.NewRecorder(repo, 2*time.Second)
//	rec.SetLogger(log)
//	svc.AddObserver(rec)
package journal
