package db_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/alexanderramin/waterfall/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) (*sql.DB, *db.SQLiteUnitOfWork) {
	t.Helper()
	database, err := db.OpenDB(db.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database, db.NewSQLiteUnitOfWork(database)
}

func insertPlan(ctx context.Context, tx db.DBTX, id, name string) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO plans (id, name, document, created_at, updated_at) VALUES (?, ?, '{}', 'now', 'now')`,
		id, name)
	return err
}

func planCount(t *testing.T, database *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM plans`).Scan(&n))
	return n
}

func TestWithinTx_CommitOnSuccess(t *testing.T) {
	database, uow := openTestDB(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := insertPlan(ctx, tx, "p1", "Alpha"); err != nil {
			return err
		}
		return insertPlan(ctx, tx, "p2", "Beta")
	})
	require.NoError(t, err)
	assert.Equal(t, 2, planCount(t, database))
}

func TestWithinTx_RollbackOnError(t *testing.T) {
	database, uow := openTestDB(t)
	deliberate := errors.New("deliberate failure")

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := insertPlan(ctx, tx, "p1", "Alpha"); err != nil {
			return err
		}
		return deliberate
	})
	assert.ErrorIs(t, err, deliberate)
	assert.Equal(t, 0, planCount(t, database))
}

func TestWithinTx_RollbackOnConstraintViolation(t *testing.T) {
	database, uow := openTestDB(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := insertPlan(ctx, tx, "p1", "Alpha"); err != nil {
			return err
		}
		return insertPlan(ctx, tx, "p2", "Alpha")
	})
	require.Error(t, err)
	assert.Equal(t, 0, planCount(t, database))
}

func TestWithinTx_RollbackOnPanic(t *testing.T) {
	database, uow := openTestDB(t)

	assert.Panics(t, func() {
		_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
			_ = insertPlan(ctx, tx, "p1", "Alpha")
			panic("boom")
		})
	})
	assert.Equal(t, 0, planCount(t, database))
}
