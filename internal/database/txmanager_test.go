package database

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithTx_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectCommit()

	txManager := NewTxManager(db)

	err = txManager.WithTx(context.Background(), func(ctx context.Context) error {
		tx := ctx.Value(txKey{})
		assert.NotNil(t, tx)
		assert.IsType(t, &sql.Tx{}, tx)
		return nil
	})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTx_RollbackOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectRollback()

	txManager := NewTxManager(db)

	err = txManager.WithTx(context.Background(), func(ctx context.Context) error {
		return assert.AnError
	})

	assert.Equal(t, assert.AnError, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	t.Run("Success_ReturnsDBWithoutTransaction", func(t *testing.T) {
		querier := GetTx(context.Background(), db)
		assert.Equal(t, db, querier)
	})

	t.Run("Success_ReturnsTransactionFromContext", func(t *testing.T) {
		mock.ExpectBegin()
		tx, err := db.Begin()
		require.NoError(t, err)

		ctx := context.WithValue(context.Background(), txKey{}, tx)
		querier := GetTx(ctx, db)
		assert.Equal(t, tx, querier)
	})
}
