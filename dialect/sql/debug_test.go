package sql

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wpachlinger/relic/dialect"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDebugDriverStats(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	drv := Debug(OpenDB(dialect.SQLite, db), discard())

	mock.ExpectExec("DELETE FROM person").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT name FROM person").
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("John"))

	require.NoError(t, drv.Exec(context.Background(), "DELETE FROM person", []any{}, nil))
	var rows Rows
	require.NoError(t, drv.Query(context.Background(), "SELECT name FROM person", []any{}, &rows))
	rows.Close()

	snap := drv.Stats().Snapshot()
	assert.Equal(t, int64(1), snap.Execs)
	assert.Equal(t, int64(1), snap.Queries)
	assert.Equal(t, int64(0), snap.Errors)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDebugDriverCountsErrors(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	drv := Debug(OpenDB(dialect.SQLite, db), discard())

	mock.ExpectExec("DELETE FROM person").WillReturnError(context.DeadlineExceeded)

	err = drv.Exec(context.Background(), "DELETE FROM person", []any{}, nil)
	require.Error(t, err)
	assert.Equal(t, int64(1), drv.Stats().Snapshot().Errors)
}

func TestDebugDriverTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	drv := Debug(OpenDB(dialect.SQLite, db), discard(), WithSlowThreshold(time.Second))

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM person").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := drv.Tx(context.Background())
	require.NoError(t, err)
	require.NoError(t, tx.Exec(context.Background(), "DELETE FROM person", []any{}, nil))
	require.NoError(t, tx.Commit())

	assert.Equal(t, int64(1), drv.Stats().Snapshot().Execs)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSnapshotString(t *testing.T) {
	s := Snapshot{Queries: 2, Execs: 3, Errors: 1, Slow: 0, Duration: time.Millisecond}
	assert.Equal(t, "queries=2 execs=3 errors=1 slow=0 duration=1ms", s.String())
}
