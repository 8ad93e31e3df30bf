package dbx

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func openLedger(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Exec(`CREATE TABLE donations (id INTEGER PRIMARY KEY, status TEXT NOT NULL)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO donations (id, status) VALUES (1, 'pending')`)
	require.NoError(t, err)
	return db
}

func status(t *testing.T, db *sql.DB) string {
	t.Helper()
	var s string
	require.NoError(t, db.QueryRow(`SELECT status FROM donations WHERE id = 1`).Scan(&s))
	return s
}

var errFrozen = errors.New("frozen")

// guardedVerify mirrors the read-check-write shape the repositories use.
func guardedVerify(ctx context.Context, tx DBTX) error {
	var s string
	if err := tx.QueryRowContext(ctx, `SELECT status FROM donations WHERE id = 1`).Scan(&s); err != nil {
		return err
	}
	if s == "frozen" {
		return errFrozen
	}
	_, err := tx.ExecContext(ctx, `UPDATE donations SET status = 'verified' WHERE id = 1`)
	return err
}

func TestWithTx_Commits(t *testing.T) {
	db := openLedger(t)
	require.NoError(t, WithTx(context.Background(), db, nil, guardedVerify))
	assert.Equal(t, "verified", status(t, db))
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	db := openLedger(t)
	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		if _, err := tx.ExecContext(ctx, `UPDATE donations SET status = 'frozen' WHERE id = 1`); err != nil {
			return err
		}
		return errFrozen
	})
	assert.ErrorIs(t, err, errFrozen)
	assert.Equal(t, "pending", status(t, db))
}

func TestWithTx_GuardRejects(t *testing.T) {
	db := openLedger(t)
	_, err := db.Exec(`UPDATE donations SET status = 'frozen' WHERE id = 1`)
	require.NoError(t, err)

	err = WithTx(context.Background(), db, nil, guardedVerify)
	assert.ErrorIs(t, err, errFrozen)
	assert.Equal(t, "frozen", status(t, db))
}

func TestWithTx_RollsBackAndRepanics(t *testing.T) {
	db := openLedger(t)
	assert.PanicsWithValue(t, "boom", func() {
		_ = WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
			_, _ = tx.ExecContext(ctx, `UPDATE donations SET status = 'verified' WHERE id = 1`)
			panic("boom")
		})
	})
	assert.Equal(t, "pending", status(t, db))
}

func TestWithTx_BeginAndCommitErrors(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin().WillReturnError(errors.New("db error: begin"))
	err = WithTx(context.Background(), db, nil, func(context.Context, DBTX) error { return nil })
	assert.EqualError(t, err, "db error: begin")

	mock.ExpectBegin()
	mock.ExpectCommit().WillReturnError(errors.New("db error: commit"))
	err = WithTx(context.Background(), db, nil, func(context.Context, DBTX) error { return nil })
	assert.EqualError(t, err, "db error: commit")

	require.NoError(t, mock.ExpectationsWereMet())
}
