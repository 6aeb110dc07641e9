package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/userhub/internal/user/domain"
)

func newMockDB(t *testing.T) (*PostgreSQLUserRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgreSQLUserRepository(db), mock
}

func userColumns() []string {
	return []string{
		"id", "name", "login", "email", "password", "is_active",
		"allow_features", "denied_features", "created_at", "updated_at",
	}
}

func TestPostgreSQLUserRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_InsertsUserAndGroups", func(t *testing.T) {
		repo, mock := newMockDB(t)
		groupID := uuid.Must(uuid.NewV7())
		user := &domain.User{
			ID:       uuid.Must(uuid.NewV7()),
			Name:     "John Doe",
			Login:    "john.doe",
			Email:    "john.doe@example.com",
			IsActive: true,
			GroupIDs: []uuid.UUID{groupID},
		}

		mock.ExpectExec("INSERT INTO users").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("DELETE FROM user_groups").
			WithArgs(user.ID).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec("INSERT INTO user_groups").
			WithArgs(user.ID, groupID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Create(ctx, user))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure_DuplicateLogin", func(t *testing.T) {
		repo, mock := newMockDB(t)
		user := &domain.User{ID: uuid.Must(uuid.NewV7()), Login: "john.doe"}

		mock.ExpectExec("INSERT INTO users").
			WillReturnError(errors.New(`pq: duplicate key value violates unique constraint "users_login_key"`))

		err := repo.Create(ctx, user)
		assert.ErrorIs(t, err, domain.ErrUserAlreadyExists)
	})
}

func TestPostgreSQLUserRepository_GetByLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_ScansArraysAndGroups", func(t *testing.T) {
		repo, mock := newMockDB(t)
		id := uuid.Must(uuid.NewV7())
		groupID := uuid.Must(uuid.NewV7())
		now := time.Now()

		mock.ExpectQuery("SELECT (.+) FROM users WHERE login").
			WithArgs("john.doe").
			WillReturnRows(sqlmock.NewRows(userColumns()).
				AddRow(id, "John Doe", "john.doe", "john.doe@example.com", "hash", true,
					[]byte("{FINANCEIRO}"), []byte("{RELATORIOS}"), now, now))
		mock.ExpectQuery("SELECT group_id FROM user_groups").
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows([]string{"group_id"}).AddRow(groupID))

		user, err := repo.GetByLogin(ctx, "john.doe")
		require.NoError(t, err)
		assert.Equal(t, id, user.ID)
		assert.Equal(t, []string{"FINANCEIRO"}, user.AllowFeatures)
		assert.Equal(t, []string{"RELATORIOS"}, user.DeniedFeatures)
		assert.Equal(t, []uuid.UUID{groupID}, user.GroupIDs)
	})

	t.Run("Failure_NotFound", func(t *testing.T) {
		repo, mock := newMockDB(t)

		mock.ExpectQuery("SELECT (.+) FROM users WHERE login").
			WithArgs("ghost").
			WillReturnRows(sqlmock.NewRows(userColumns()))

		_, err := repo.GetByLogin(ctx, "ghost")
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}

func TestPostgreSQLUserRepository_List(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_FillsGroupsPerUser", func(t *testing.T) {
		repo, mock := newMockDB(t)
		firstID := uuid.Must(uuid.NewV7())
		secondID := uuid.Must(uuid.NewV7())
		groupID := uuid.Must(uuid.NewV7())
		now := time.Now()

		mock.ExpectQuery("SELECT (.+) FROM users").
			WithArgs(0, 50).
			WillReturnRows(sqlmock.NewRows(userColumns()).
				AddRow(firstID, "John", "john", "john@example.com", "", true,
					[]byte("{}"), []byte("{}"), now, now).
				AddRow(secondID, "Jane", "jane", "jane@example.com", "", true,
					[]byte("{}"), []byte("{}"), now, now))
		mock.ExpectQuery("SELECT user_id, group_id FROM user_groups").
			WillReturnRows(sqlmock.NewRows([]string{"user_id", "group_id"}).
				AddRow(secondID, groupID))

		users, err := repo.List(ctx, 0, 50)
		require.NoError(t, err)
		require.Len(t, users, 2)
		assert.Empty(t, users[0].GroupIDs)
		assert.Equal(t, []uuid.UUID{groupID}, users[1].GroupIDs)
	})

	t.Run("Success_EmptyPage", func(t *testing.T) {
		repo, mock := newMockDB(t)

		mock.ExpectQuery("SELECT (.+) FROM users").
			WithArgs(100, 50).
			WillReturnRows(sqlmock.NewRows(userColumns()))

		users, err := repo.List(ctx, 100, 50)
		require.NoError(t, err)
		assert.Empty(t, users)
	})
}

func TestPostgreSQLUserRepository_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("Failure_NotFound", func(t *testing.T) {
		repo, mock := newMockDB(t)
		user := &domain.User{ID: uuid.Must(uuid.NewV7()), Name: "Ghost"}

		mock.ExpectExec("UPDATE users").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Update(ctx, user)
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}

func TestPostgreSQLUserRepository_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_RemovesRow", func(t *testing.T) {
		repo, mock := newMockDB(t)
		id := uuid.Must(uuid.NewV7())

		mock.ExpectExec("DELETE FROM users").
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Delete(ctx, id))
	})

	t.Run("Failure_NotFound", func(t *testing.T) {
		repo, mock := newMockDB(t)
		id := uuid.Must(uuid.NewV7())

		mock.ExpectExec("DELETE FROM users").
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete(ctx, id)
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}
