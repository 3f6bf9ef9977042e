// Package dialect defines the database driver abstraction used by the
// repository layer.
//
// The Driver interface wraps a database connection with Exec, Query and Tx
// operations; the Tx interface adds commit and rollback. Both are
// implemented by the dialect/sql subpackage on top of database/sql.
//
// Opening a connection to the embedded engine:
//
//	drv, err := sql.Open(dialect.SQLite, "file:app.db")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer drv.Close()
//
// Only the SQLite dialect is targeted by this module; the abstraction
// exists so repositories can run against instrumented or mocked drivers in
// tests.
package dialect
