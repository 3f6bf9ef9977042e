package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/wpachlinger/relic"
	"github.com/wpachlinger/relic/dialect"
	dsql "github.com/wpachlinger/relic/dialect/sql"

	_ "modernc.org/sqlite" // registers the embedded engine driver
)

// Repository maps entities of one type onto rows of one table. It owns a
// database connection when it opened the connection itself; an externally
// supplied driver is used but never closed.
//
// A repository is not safe for concurrent use; callers must serialize
// access to it and to its underlying connection.
type Repository[T relic.Element] struct {
	factory func() T
	drv     dialect.Driver
	tx      dialect.Tx
	owned   bool
	path    string
}

// Option configures a Repository.
type Option[T relic.Element] func(*Repository[T])

// WithDriver supplies an externally owned connection. The repository will
// use it for all operations but never close it.
func WithDriver[T relic.Element](drv dialect.Driver) Option[T] {
	return func(r *Repository[T]) {
		r.drv = drv
		r.owned = false
	}
}

// WithPath configures the database file path used by Open when called
// without an explicit path.
func WithPath[T relic.Element](path string) Option[T] {
	return func(r *Repository[T]) { r.path = path }
}

// New creates a repository for the entity type produced by factory. The
// factory is used to instantiate fresh entities when reconstructing rows.
func New[T relic.Element](factory func() T, opts ...Option[T]) *Repository[T] {
	r := &Repository[T]{factory: factory}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Open opens the SQLite database file at path (or the configured path when
// path is empty), enables foreign-key enforcement on the connection, and
// marks the connection as owned. Opening an already-open repository is a
// caller error; the existing connection is untouched.
func (r *Repository[T]) Open(path string) error {
	if r.drv != nil {
		return relic.ErrAlreadyOpen
	}
	if path == "" {
		path = r.path
	}
	if path == "" {
		return relic.ErrNoPath
	}
	// The _pragma DSN parameter applies to every pooled connection, not
	// just the one a plain PRAGMA statement would reach.
	drv, err := dsql.Open(dialect.SQLite, path+"?_pragma=foreign_keys(1)")
	if err != nil {
		return err
	}
	// sql.Open is lazy; fail fast on an unusable path.
	if err := drv.Exec(context.Background(), "PRAGMA foreign_keys = ON", []any{}, nil); err != nil {
		return errors.Join(&relic.ExecError{Stmt: "PRAGMA foreign_keys = ON", Err: err}, drv.Close())
	}
	r.drv = drv
	r.owned = true
	return nil
}

// Close releases the connection reference. A pending uncommitted
// transaction is rolled back. The underlying connection is closed only if
// the repository opened it itself; closing an already-closed repository is
// a no-op.
func (r *Repository[T]) Close() error {
	if r.drv == nil {
		return nil
	}
	var err error
	if r.tx != nil {
		err = r.tx.Rollback()
		r.tx = nil
	}
	if r.owned {
		err = errors.Join(err, r.drv.Close())
	}
	r.drv = nil
	r.owned = false
	return err
}

// ExecOption controls the commit behavior of a single mutating operation.
type ExecOption func(*execOptions)

type execOptions struct {
	commit bool
}

// NoCommit leaves the operation's transaction open instead of committing
// it. A later operation without NoCommit, or an explicit Commit, ends the
// transaction.
func NoCommit() ExecOption {
	return func(o *execOptions) { o.commit = false }
}

// Insert executes the entity's INSERT statement. If the attribute map
// declares an auto-increment key, the generated key is written back into
// the entity and returned; otherwise the number of inserted rows is
// returned.
func (r *Repository[T]) Insert(ctx context.Context, e T, opts ...ExecOption) (int64, error) {
	stmt, err := relic.InsertStatement(e)
	if err != nil {
		return 0, err
	}
	res, err := r.exec(ctx, stmt, opts)
	if err != nil {
		return 0, err
	}
	m := e.AttributeMap()
	if auto, ok := m.AutoKey(); ok {
		id, err := res.LastInsertId()
		if err != nil {
			return 0, &relic.ExecError{Stmt: stmt.Text, Err: err}
		}
		acc, ok := e.Accessors()[auto.Attr]
		if !ok {
			return 0, &relic.UnknownAttributeError{Table: m.Table(), Attr: auto.Attr}
		}
		if err := acc.Set(id); err != nil {
			return 0, err
		}
		return id, nil
	}
	return r.affected(stmt, res)
}

// Update executes the entity's UPDATE statement and returns the number of
// updated rows (0 or 1, since the WHERE clause matches the primary key).
func (r *Repository[T]) Update(ctx context.Context, e T, opts ...ExecOption) (int64, error) {
	stmt, err := relic.UpdateStatement(e)
	if err != nil {
		return 0, err
	}
	res, err := r.exec(ctx, stmt, opts)
	if err != nil {
		return 0, err
	}
	return r.affected(stmt, res)
}

// Delete executes the entity's DELETE statement and returns the number of
// deleted rows (0 or 1).
func (r *Repository[T]) Delete(ctx context.Context, e T, opts ...ExecOption) (int64, error) {
	stmt, err := relic.DeleteStatement(e)
	if err != nil {
		return 0, err
	}
	res, err := r.exec(ctx, stmt, opts)
	if err != nil {
		return 0, err
	}
	return r.affected(stmt, res)
}

// SelectByKey returns a freshly constructed entity loaded from the row
// matching key's primary key values, or relic.ErrNotFound if no row
// matches.
func (r *Repository[T]) SelectByKey(ctx context.Context, key T) (T, error) {
	var zero T
	stmt, err := relic.SelectByKeyStatement(key)
	if err != nil {
		return zero, err
	}
	entities, err := r.query(ctx, key.AttributeMap(), stmt, 1)
	if err != nil {
		return zero, err
	}
	if len(entities) == 0 {
		return zero, relic.ErrNotFound
	}
	return entities[0], nil
}

// SelectAll returns every row of the entity's table as freshly constructed
// entities, in ascending key order.
func (r *Repository[T]) SelectAll(ctx context.Context) ([]T, error) {
	e := r.factory()
	stmt := relic.SelectAllStatement(e)
	return r.query(ctx, e.AttributeMap(), stmt, 0)
}

// SelectWhere returns the rows matching the conjunction of the given
// criteria, in ascending key order.
func (r *Repository[T]) SelectWhere(ctx context.Context, criteria []relic.Criterion) ([]T, error) {
	e := r.factory()
	stmt, err := relic.SelectWhereStatement(e, criteria)
	if err != nil {
		return nil, err
	}
	return r.query(ctx, e.AttributeMap(), stmt, 0)
}

// Commit commits the pending transaction, if any.
func (r *Repository[T]) Commit() error {
	if r.tx == nil {
		return nil
	}
	err := r.tx.Commit()
	r.tx = nil
	if err != nil {
		return &relic.ExecError{Stmt: "COMMIT", Err: err}
	}
	return nil
}

// Rollback rolls back the pending transaction, if any.
func (r *Repository[T]) Rollback() error {
	if r.tx == nil {
		return nil
	}
	err := r.tx.Rollback()
	r.tx = nil
	if err != nil {
		return &relic.ExecError{Stmt: "ROLLBACK", Err: err}
	}
	return nil
}

// Do opens a repository on the given database file, runs fn with it, and
// closes it again, including on error.
func Do[T relic.Element](path string, factory func() T, fn func(*Repository[T]) error) error {
	r := New(factory)
	if err := r.Open(path); err != nil {
		return err
	}
	err := fn(r)
	return errors.Join(err, r.Close())
}

// exec runs one mutating statement in the pending transaction, beginning
// one if necessary, and commits unless NoCommit was given.
func (r *Repository[T]) exec(ctx context.Context, stmt *relic.Statement, opts []ExecOption) (sql.Result, error) {
	o := execOptions{commit: true}
	for _, opt := range opts {
		opt(&o)
	}
	if r.drv == nil {
		return nil, relic.ErrClosed
	}
	if r.tx == nil {
		tx, err := r.drv.Tx(ctx)
		if err != nil {
			return nil, &relic.ExecError{Stmt: stmt.Text, Err: err}
		}
		r.tx = tx
	}
	var res sql.Result
	if err := r.tx.Exec(ctx, stmt.Text, params(stmt), &res); err != nil {
		return nil, &relic.ExecError{Stmt: stmt.Text, Err: err}
	}
	if o.commit {
		tx := r.tx
		r.tx = nil
		if err := tx.Commit(); err != nil {
			return nil, &relic.ExecError{Stmt: stmt.Text, Err: err}
		}
	}
	return res, nil
}

// query runs one select statement and loads each row into a fresh entity.
// Rows are read from the pending transaction when one is open, so
// uncommitted changes are visible to their own repository.
func (r *Repository[T]) query(ctx context.Context, m *relic.Map, stmt *relic.Statement, limit int) ([]T, error) {
	if r.drv == nil {
		return nil, relic.ErrClosed
	}
	var q dialect.ExecQuerier = r.drv
	if r.tx != nil {
		q = r.tx
	}
	rows := &dsql.Rows{}
	if err := q.Query(ctx, stmt.Text, params(stmt), rows); err != nil {
		return nil, &relic.ExecError{Stmt: stmt.Text, Err: err}
	}
	defer rows.Close()
	var entities []T
	for rows.Next() {
		values, err := dsql.ScanValues(rows, len(m.ForSelect()))
		if err != nil {
			return nil, &relic.ExecError{Stmt: stmt.Text, Err: err}
		}
		row, err := m.ExpandRow(values)
		if err != nil {
			return nil, err
		}
		e := r.factory()
		if err := relic.LoadRow(e, row); err != nil {
			return nil, err
		}
		entities = append(entities, e)
		if limit > 0 && len(entities) == limit {
			break
		}
	}
	if err := rows.Err(); err != nil {
		return nil, &relic.ExecError{Stmt: stmt.Text, Err: err}
	}
	return entities, nil
}

func (r *Repository[T]) affected(stmt *relic.Statement, res sql.Result) (int64, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return 0, &relic.ExecError{Stmt: stmt.Text, Err: err}
	}
	return n, nil
}

func params(stmt *relic.Statement) []any {
	if stmt.Params == nil {
		return []any{}
	}
	return stmt.Params
}
