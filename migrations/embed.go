// Package migrations embeds the SQL schema migrations into the binary.
//
// Importing this package registers the files with the database package, so
// DB.Migrate can run without the .sql files on disk.
package migrations

import (
	"embed"

	"github.com/nerrad567/gray-logic-audio/internal/infrastructure/database"
)

//go:embed *.sql
var migrationsFS embed.FS

func init() {
	database.MigrationsFS = migrationsFS
	database.MigrationsDir = "."
}
