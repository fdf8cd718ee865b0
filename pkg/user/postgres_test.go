package user_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/linkauth/pkg/user"
)

var userCols = []string{"id", "email", "name", "is_active", "preferences", "created_at", "updated_at"}

func newPostgresRepo(t *testing.T) (*user.PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return user.NewPostgresRepository(db), mock
}

func TestPostgresRepository_Upsert(t *testing.T) {
	t.Parallel()

	repo, mock := newPostgresRepo(t)
	id := uuid.New()
	now := time.Now().UTC()

	mock.ExpectQuery(`(?s)INSERT\s+INTO\s+users.*ON\s+CONFLICT\s+\(email\)\s+DO\s+UPDATE.*RETURNING`).
		WithArgs(sqlmock.AnyArg(), "alice@example.com", "Alice", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow(id.String(), "alice@example.com", "Alice", true, []byte(`{"theme":"dark"}`), now, now))

	u, err := repo.Upsert(context.Background(), "alice@example.com", "Alice")
	require.NoError(t, err)
	assert.Equal(t, id, u.ID)
	assert.Equal(t, "Alice", u.Name)
	assert.True(t, u.IsActive)
	assert.Equal(t, "dark", u.Preferences["theme"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_Upsert_DBError(t *testing.T) {
	t.Parallel()

	repo, mock := newPostgresRepo(t)
	mock.ExpectQuery(`INSERT\s+INTO\s+users`).WillReturnError(errors.New("db down"))

	_, err := repo.Upsert(context.Background(), "alice@example.com", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")
}

func TestPostgresRepository_GetByID(t *testing.T) {
	t.Parallel()

	t.Run("found", func(t *testing.T) {
		t.Parallel()
		repo, mock := newPostgresRepo(t)
		id := uuid.New()
		now := time.Now().UTC()

		mock.ExpectQuery(`SELECT\s+id,\s*email.*FROM\s+users\s+WHERE\s+id\s*=\s*\$1`).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows(userCols).
				AddRow(id.String(), "bob@example.com", "", false, []byte(`null`), now, now))

		u, err := repo.GetByID(context.Background(), id)
		require.NoError(t, err)
		assert.False(t, u.IsActive)
		assert.NotNil(t, u.Preferences)
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()
		repo, mock := newPostgresRepo(t)
		mock.ExpectQuery(`FROM\s+users\s+WHERE\s+id`).WillReturnError(sql.ErrNoRows)

		_, err := repo.GetByID(context.Background(), uuid.New())
		require.ErrorIs(t, err, user.ErrNotFound)
	})
}

func TestPostgresRepository_GetByEmail_NotFound(t *testing.T) {
	t.Parallel()

	repo, mock := newPostgresRepo(t)
	mock.ExpectQuery(`FROM\s+users\s+WHERE\s+email\s*=\s*\$1`).
		WithArgs("nobody@example.com").
		WillReturnRows(sqlmock.NewRows(userCols))

	_, err := repo.GetByEmail(context.Background(), "nobody@example.com")
	require.ErrorIs(t, err, user.ErrNotFound)
}

func TestPostgresRepository_UpdateProfile(t *testing.T) {
	t.Parallel()

	repo, mock := newPostgresRepo(t)
	id := uuid.New()
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM\s+users\s+WHERE\s+id\s*=\s*\$1\s+FOR\s+UPDATE`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow(id.String(), "carol@example.com", "Carol", true, []byte(`{"lang":"en"}`), now, now))
	mock.ExpectQuery(`(?s)UPDATE\s+users\s+SET\s+name.*RETURNING`).
		WithArgs(id, "Caroline", `{"lang":"en","theme":"dark"}`, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow(id.String(), "carol@example.com", "Caroline", true, []byte(`{"lang":"en","theme":"dark"}`), now, now))
	mock.ExpectCommit()

	name := "Caroline"
	u, err := repo.UpdateProfile(context.Background(), id, user.ProfileUpdate{
		Name:        &name,
		Preferences: map[string]any{"theme": "dark"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Caroline", u.Name)
	assert.Equal(t, map[string]any{"lang": "en", "theme": "dark"}, u.Preferences)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_UpdateProfile_NotFound(t *testing.T) {
	t.Parallel()

	repo, mock := newPostgresRepo(t)
	mock.ExpectBegin()
	mock.ExpectQuery(`FOR\s+UPDATE`).WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	name := "x"
	_, err := repo.UpdateProfile(context.Background(), uuid.New(), user.ProfileUpdate{Name: &name})
	require.ErrorIs(t, err, user.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_SetActive(t *testing.T) {
	t.Parallel()

	t.Run("updated", func(t *testing.T) {
		t.Parallel()
		repo, mock := newPostgresRepo(t)
		id := uuid.New()
		mock.ExpectExec(`UPDATE\s+users\s+SET\s+is_active`).
			WithArgs(id, false, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.SetActive(context.Background(), id, false))
	})

	t.Run("missing", func(t *testing.T) {
		t.Parallel()
		repo, mock := newPostgresRepo(t)
		mock.ExpectExec(`UPDATE\s+users\s+SET\s+is_active`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		require.ErrorIs(t, repo.SetActive(context.Background(), uuid.New(), true), user.ErrNotFound)
	})
}
