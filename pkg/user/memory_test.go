package user_test

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/linkauth/pkg/user"
)

func strPtr(s string) *string { return &s }

func TestMemoryRepository_Upsert(t *testing.T) {
	t.Parallel()

	repo := user.NewMemoryRepository()
	ctx := context.Background()

	created, err := repo.Upsert(ctx, "alice@example.com", "")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.True(t, created.IsActive)
	assert.Empty(t, created.Name)
	assert.NotNil(t, created.Preferences)

	again, err := repo.Upsert(ctx, "alice@example.com", "Alice")
	require.NoError(t, err)
	assert.Equal(t, created.ID, again.ID)
	assert.Equal(t, "Alice", again.Name, "empty name is filled in")

	third, err := repo.Upsert(ctx, "alice@example.com", "Someone Else")
	require.NoError(t, err)
	assert.Equal(t, "Alice", third.Name, "existing name is kept")

	_, err = repo.Upsert(ctx, "", "x")
	require.ErrorIs(t, err, user.ErrEmptyEmail)
}

func TestMemoryRepository_UpsertConcurrent(t *testing.T) {
	t.Parallel()

	repo := user.NewMemoryRepository()
	ctx := context.Background()

	ids := make(chan uuid.UUID, 20)
	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			u, err := repo.Upsert(ctx, "race@example.com", "")
			if err == nil {
				ids <- u.ID
			}
		}()
	}
	wg.Wait()
	close(ids)

	first := <-ids
	for id := range ids {
		assert.Equal(t, first, id)
	}
}

func TestMemoryRepository_Get(t *testing.T) {
	t.Parallel()

	repo := user.NewMemoryRepository()
	ctx := context.Background()
	u, err := repo.Upsert(ctx, "bob@example.com", "Bob")
	require.NoError(t, err)

	byID, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "bob@example.com", byID.Email)

	byEmail, err := repo.GetByEmail(ctx, "bob@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	_, err = repo.GetByID(ctx, uuid.New())
	require.ErrorIs(t, err, user.ErrNotFound)
	_, err = repo.GetByEmail(ctx, "nobody@example.com")
	require.ErrorIs(t, err, user.ErrNotFound)
}

func TestMemoryRepository_UpdateProfile(t *testing.T) {
	t.Parallel()

	repo := user.NewMemoryRepository()
	ctx := context.Background()
	u, err := repo.Upsert(ctx, "carol@example.com", "Carol")
	require.NoError(t, err)

	updated, err := repo.UpdateProfile(ctx, u.ID, user.ProfileUpdate{
		Preferences: map[string]any{"theme": "dark", "lang": "en"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Carol", updated.Name)
	assert.Equal(t, map[string]any{"theme": "dark", "lang": "en"}, updated.Preferences)

	updated, err = repo.UpdateProfile(ctx, u.ID, user.ProfileUpdate{
		Name:        strPtr("Caroline"),
		Preferences: map[string]any{"lang": nil, "tz": "UTC"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Caroline", updated.Name)
	assert.Equal(t, map[string]any{"theme": "dark", "tz": "UTC"}, updated.Preferences)
	assert.False(t, updated.UpdatedAt.Before(u.UpdatedAt))

	// returned maps are copies
	updated.Preferences["theme"] = "light"
	fresh, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "dark", fresh.Preferences["theme"])

	_, err = repo.UpdateProfile(ctx, uuid.New(), user.ProfileUpdate{Name: strPtr("x")})
	require.ErrorIs(t, err, user.ErrNotFound)
}

func TestMemoryRepository_SetActive(t *testing.T) {
	t.Parallel()

	repo := user.NewMemoryRepository()
	ctx := context.Background()
	u, err := repo.Upsert(ctx, "dave@example.com", "")
	require.NoError(t, err)

	require.NoError(t, repo.SetActive(ctx, u.ID, false))
	got, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	require.ErrorIs(t, repo.SetActive(ctx, uuid.New(), true), user.ErrNotFound)
}

func TestProfileUpdate_IsEmpty(t *testing.T) {
	t.Parallel()

	assert.True(t, user.ProfileUpdate{}.IsEmpty())
	assert.False(t, user.ProfileUpdate{Name: strPtr("")}.IsEmpty())
	assert.False(t, user.ProfileUpdate{Preferences: map[string]any{}}.IsEmpty())
}
