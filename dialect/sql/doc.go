// Package sql implements the dialect driver interfaces on top of the
// standard database/sql package.
//
// Open returns a Driver bound to a registered database/sql driver name;
// OpenDB wraps an existing *sql.DB. Debug wraps any dialect.Driver with
// slog-based statement logging and counters:
//
//	drv, err := sql.Open(dialect.SQLite, "file:app.db")
//	if err != nil {
//		log.Fatal(err)
//	}
//	dbg := sql.Debug(drv, slog.Default(), sql.WithSlowThreshold(time.Second))
package sql
