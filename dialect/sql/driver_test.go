package sql

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wpachlinger/relic/dialect"
)

func TestExec(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	drv := OpenDB(dialect.SQLite, db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO person ( name ) VALUES ( ? )")).
		WithArgs("John").
		WillReturnResult(sqlmock.NewResult(0, 1))

	var res Result
	err = drv.Exec(context.Background(), "INSERT INTO person ( name ) VALUES ( ? )", []any{"John"}, &res)
	require.NoError(t, err)
	affected, err := res.RowsAffected()
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExecInvalidArgs(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	drv := OpenDB(dialect.SQLite, db)

	err = drv.Exec(context.Background(), "DELETE FROM person", "not-a-slice", nil)
	assert.Error(t, err)

	err = drv.Exec(context.Background(), "DELETE FROM person", []any{}, "bad-dest")
	assert.Error(t, err)
}

func TestQuery(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	drv := OpenDB(dialect.SQLite, db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT name, age FROM person")).
		WillReturnRows(sqlmock.NewRows([]string{"name", "age"}).
			AddRow("John", 35).
			AddRow("Jane", 41))

	var rows Rows
	err = drv.Query(context.Background(), "SELECT name, age FROM person", []any{}, &rows)
	require.NoError(t, err)
	defer rows.Close()

	var names []string
	for rows.Next() {
		values, err := ScanValues(&rows, 2)
		require.NoError(t, err)
		require.Len(t, values, 2)
		names = append(names, values[0].(string))
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, []string{"John", "Jane"}, names)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDriverTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	drv := OpenDB(dialect.SQLite, db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM person").WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	tx, err := drv.Tx(context.Background())
	require.NoError(t, err)
	require.NoError(t, tx.Exec(context.Background(), "DELETE FROM person", []any{}, nil))
	require.NoError(t, tx.Commit())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDriverRollback(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	drv := OpenDB(dialect.SQLite, db)

	mock.ExpectBegin()
	mock.ExpectRollback()

	tx, err := drv.Tx(context.Background())
	require.NoError(t, err)
	require.NoError(t, tx.Rollback())
	require.NoError(t, mock.ExpectationsWereMet())
}
