package dialect

import "context"

// SQLite is the dialect of the embedded engine targeted by this module.
// Placeholders are positional `?`; referential-integrity enforcement is
// enabled per connection via PRAGMA.
const SQLite = "sqlite"

// ExecQuerier wraps the two standard database operations.
//
// Exec executes a statement that returns no rows. If v is a *sql.Result,
// the execution result is assigned to it. Query executes a statement that
// returns rows, assigned to v, which must be a *sql.Rows wrapper. In both
// cases args must be a []any holding the statement parameters.
type ExecQuerier interface {
	Exec(ctx context.Context, query string, args, v any) error
	Query(ctx context.Context, query string, args, v any) error
}

// Driver is the minimal interface a database connection implements. It is
// the unit of connection ownership: whoever opened the driver closes it.
type Driver interface {
	ExecQuerier

	// Tx starts and returns a new transaction.
	Tx(ctx context.Context) (Tx, error)

	// Close closes the underlying connection.
	Close() error

	// Dialect returns the dialect name of the driver.
	Dialect() string
}

// Tx is a transaction-scoped ExecQuerier.
type Tx interface {
	ExecQuerier
	Commit() error
	Rollback() error
}
