package session_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/linkauth/pkg/session"
)

var lookupCols = []string{
	"id", "user_id", "session_token", "expires_at", "user_agent", "ip_address",
	"last_accessed", "created_at", "uid", "email", "name", "is_active",
}

func newPostgresRepo(t *testing.T) (*session.PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return session.NewPostgresRepository(db), mock
}

func TestPostgresRepository_Create(t *testing.T) {
	t.Parallel()

	repo, mock := newPostgresRepo(t)
	now := time.Now().UTC()
	s := &session.Session{
		ID:           uuid.New(),
		UserID:       uuid.New(),
		Token:        "tok",
		ExpiresAt:    now.Add(time.Hour),
		UserAgent:    "curl/8",
		LastAccessed: now,
		CreatedAt:    now,
	}

	mock.ExpectExec(`INSERT\s+INTO\s+user_sessions`).
		WithArgs(s.ID, s.UserID, "tok", s.ExpiresAt, "curl/8", nil, now, now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), s))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_Lookup(t *testing.T) {
	t.Parallel()

	repo, mock := newPostgresRepo(t)
	now := time.Now().UTC()
	sid, uid := uuid.New(), uuid.New()

	mock.ExpectQuery(`(?s)FROM\s+user_sessions\s+s\s+JOIN\s+users\s+u.*session_token\s+=\s+\$1\s+AND\s+s\.expires_at\s+>\s+\$2`).
		WithArgs("tok", now).
		WillReturnRows(sqlmock.NewRows(lookupCols).AddRow(
			sid.String(), uid.String(), "tok", now.Add(time.Hour), "curl/8", "",
			now, now, uid.String(), "alice@example.com", "Alice", false,
		))

	rec, err := repo.Lookup(context.Background(), "tok", now)
	require.NoError(t, err)
	assert.Equal(t, sid, rec.Session.ID)
	assert.Equal(t, uid, rec.Owner.ID)
	assert.Equal(t, "alice@example.com", rec.Owner.Email)
	assert.False(t, rec.Owner.IsActive)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_Lookup_NotFound(t *testing.T) {
	t.Parallel()

	repo, mock := newPostgresRepo(t)
	mock.ExpectQuery(`FROM\s+user_sessions`).WillReturnRows(sqlmock.NewRows(lookupCols))

	_, err := repo.Lookup(context.Background(), "tok", time.Now())
	require.ErrorIs(t, err, session.ErrNotFound)
}

func TestPostgresRepository_Lookup_DBError(t *testing.T) {
	t.Parallel()

	repo, mock := newPostgresRepo(t)
	mock.ExpectQuery(`FROM\s+user_sessions`).WillReturnError(errors.New("db down"))

	_, err := repo.Lookup(context.Background(), "tok", time.Now())
	require.Error(t, err)
	assert.NotErrorIs(t, err, session.ErrNotFound)
}

func TestPostgresRepository_Touch(t *testing.T) {
	t.Parallel()

	repo, mock := newPostgresRepo(t)
	at := time.Now().UTC()
	mock.ExpectExec(`UPDATE\s+user_sessions\s+SET\s+last_accessed\s+=\s+\$2.*last_accessed\s+<\s+\$2`).
		WithArgs("tok", at).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Touch(context.Background(), "tok", at))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_Deletes(t *testing.T) {
	t.Parallel()

	repo, mock := newPostgresRepo(t)
	uid := uuid.New()
	now := time.Now().UTC()

	mock.ExpectExec(`DELETE\s+FROM\s+user_sessions\s+WHERE\s+session_token\s+=\s+\$1`).
		WithArgs("tok").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE\s+FROM\s+user_sessions\s+WHERE\s+user_id\s+=\s+\$1`).
		WithArgs(uid).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE\s+FROM\s+user_sessions\s+WHERE\s+expires_at\s+<=\s+\$1`).
		WithArgs(now).WillReturnResult(sqlmock.NewResult(0, 5))

	ctx := context.Background()
	require.NoError(t, repo.Delete(ctx, "tok"))

	n, err := repo.DeleteByUserID(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = repo.DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)
	require.NoError(t, mock.ExpectationsWereMet())
}
