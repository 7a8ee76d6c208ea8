// Package database provides SQLite connectivity for Gray Logic Audio.
//
// This package manages:
//   - The connection (WAL mode, busy timeout, single writer)
//   - Schema migrations loaded from an fs.FS (embedded by package migrations)
//   - Health checks
//
// Usage:
//
//	db, err := database.Open(database.Config{
//	    Path:        cfg.Database.Path,
//	    WALMode:     cfg.Database.WALMode,
//	    BusyTimeout: cfg.Database.BusyTimeout,
//	})
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx); err != nil {
//	    return err
//	}
//
// Migrations are additive: new columns must be nullable or have defaults, and
// every .up.sql has a matching .down.sql.
package database
