package magiclink_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/linkauth/pkg/magiclink"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func newClock() *clock {
	return &clock{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// countingRepo records how often the repository is consulted.
type countingRepo struct {
	magiclink.Repository
	consumes atomic.Int32
	failWith error
	dupes    int
}

func (r *countingRepo) Insert(ctx context.Context, t *magiclink.Token) error {
	if r.dupes > 0 {
		r.dupes--
		return magiclink.ErrDuplicateToken
	}
	if r.failWith != nil {
		return r.failWith
	}
	return r.Repository.Insert(ctx, t)
}

func (r *countingRepo) Consume(ctx context.Context, token string, now time.Time) (*magiclink.Token, error) {
	r.consumes.Add(1)
	if r.failWith != nil {
		return nil, r.failWith
	}
	return r.Repository.Consume(ctx, token, now)
}

func newStore(t *testing.T, c *clock) (*magiclink.Store, *magiclink.MemoryRepository) {
	t.Helper()
	repo := magiclink.NewMemoryRepository()
	s, err := magiclink.NewStore(repo, magiclink.WithClock(c.Now))
	require.NoError(t, err)
	return s, repo
}

func TestNewStore_RequiresRepository(t *testing.T) {
	t.Parallel()

	_, err := magiclink.NewStore(nil)
	require.ErrorIs(t, err, magiclink.ErrRepositoryRequired)
}

func TestStore_IssueAndRedeem(t *testing.T) {
	t.Parallel()

	c := newClock()
	s, _ := newStore(t, c)
	ctx := context.Background()

	issued, err := s.Issue(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Len(t, issued.Token, 64)
	assert.Equal(t, strings.ToLower(issued.Token), issued.Token)
	assert.Equal(t, c.Now().Add(magiclink.DefaultTTL), issued.ExpiresAt)

	email, err := s.Redeem(ctx, issued.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", email)

	_, err = s.Redeem(ctx, issued.Token)
	require.ErrorIs(t, err, magiclink.ErrInvalidOrExpired)
}

func TestStore_Issue_EmptyEmail(t *testing.T) {
	t.Parallel()

	s, _ := newStore(t, newClock())
	_, err := s.Issue(context.Background(), "")
	require.ErrorIs(t, err, magiclink.ErrEmptyEmail)
}

func TestStore_Issue_TokensAreUnique(t *testing.T) {
	t.Parallel()

	s, repo := newStore(t, newClock())
	seen := make(map[string]struct{})
	for range 50 {
		issued, err := s.Issue(context.Background(), "alice@example.com")
		require.NoError(t, err)
		_, dup := seen[issued.Token]
		require.False(t, dup)
		seen[issued.Token] = struct{}{}
	}
	assert.Equal(t, 50, repo.Len())
}

func TestStore_Issue_RetriesDuplicate(t *testing.T) {
	t.Parallel()

	repo := &countingRepo{Repository: magiclink.NewMemoryRepository(), dupes: 2}
	s, err := magiclink.NewStore(repo)
	require.NoError(t, err)

	_, err = s.Issue(context.Background(), "alice@example.com")
	require.NoError(t, err)
}

func TestStore_Issue_RepositoryError(t *testing.T) {
	t.Parallel()

	boom := errors.New("db down")
	repo := &countingRepo{Repository: magiclink.NewMemoryRepository(), failWith: boom}
	s, err := magiclink.NewStore(repo)
	require.NoError(t, err)

	_, err = s.Issue(context.Background(), "alice@example.com")
	require.ErrorIs(t, err, boom)
}

func TestStore_Redeem_Expiry(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		advance time.Duration
		wantErr bool
	}{
		{"just before expiry", magiclink.DefaultTTL - time.Second, false},
		{"exactly at expiry", magiclink.DefaultTTL, true},
		{"after expiry", magiclink.DefaultTTL + time.Minute, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := newClock()
			s, _ := newStore(t, c)
			issued, err := s.Issue(context.Background(), "alice@example.com")
			require.NoError(t, err)

			c.Advance(tt.advance)
			_, err = s.Redeem(context.Background(), issued.Token)
			if tt.wantErr {
				require.ErrorIs(t, err, magiclink.ErrInvalidOrExpired)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestStore_Redeem_MalformedSkipsRepository(t *testing.T) {
	t.Parallel()

	repo := &countingRepo{Repository: magiclink.NewMemoryRepository()}
	s, err := magiclink.NewStore(repo)
	require.NoError(t, err)

	for _, tok := range []string{
		"",
		"abc",
		strings.Repeat("A", 64),
		strings.Repeat("g", 64),
		strings.Repeat("a", 63),
		strings.Repeat("a", 65),
	} {
		_, err := s.Redeem(context.Background(), tok)
		require.ErrorIs(t, err, magiclink.ErrInvalidOrExpired)
	}
	assert.Zero(t, repo.consumes.Load())
}

func TestStore_Redeem_UnknownToken(t *testing.T) {
	t.Parallel()

	s, _ := newStore(t, newClock())
	_, err := s.Redeem(context.Background(), strings.Repeat("0", 64))
	require.ErrorIs(t, err, magiclink.ErrInvalidOrExpired)
}

func TestStore_Redeem_RepositoryError(t *testing.T) {
	t.Parallel()

	boom := errors.New("db down")
	repo := &countingRepo{Repository: magiclink.NewMemoryRepository(), failWith: boom}
	s, err := magiclink.NewStore(repo)
	require.NoError(t, err)

	_, err = s.Redeem(context.Background(), strings.Repeat("a", 64))
	require.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, magiclink.ErrInvalidOrExpired)
}

func TestStore_Redeem_ConcurrentSingleWinner(t *testing.T) {
	t.Parallel()

	s, _ := newStore(t, newClock())
	issued, err := s.Issue(context.Background(), "alice@example.com")
	require.NoError(t, err)

	const workers = 32
	var (
		wg   sync.WaitGroup
		wins atomic.Int32
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Redeem(context.Background(), issued.Token); err == nil {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
}

func TestStore_MultipleOutstandingLinks(t *testing.T) {
	t.Parallel()

	s, _ := newStore(t, newClock())
	ctx := context.Background()

	first, err := s.Issue(ctx, "alice@example.com")
	require.NoError(t, err)
	second, err := s.Issue(ctx, "alice@example.com")
	require.NoError(t, err)

	_, err = s.Redeem(ctx, second.Token)
	require.NoError(t, err)
	_, err = s.Redeem(ctx, first.Token)
	require.NoError(t, err)
}

func TestStore_Sweep(t *testing.T) {
	t.Parallel()

	c := newClock()
	s, repo := newStore(t, c)
	ctx := context.Background()

	used, err := s.Issue(ctx, "a@example.com")
	require.NoError(t, err)
	_, err = s.Redeem(ctx, used.Token)
	require.NoError(t, err)

	_, err = s.Issue(ctx, "b@example.com")
	require.NoError(t, err)

	c.Advance(10 * time.Minute)
	fresh, err := s.Issue(ctx, "c@example.com")
	require.NoError(t, err)

	c.Advance(6 * time.Minute) // b expired, c still valid

	n, err := s.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.Equal(t, 1, repo.Len())

	email, err := s.Redeem(ctx, fresh.Token)
	require.NoError(t, err)
	assert.Equal(t, "c@example.com", email)
}

func TestWithTTL(t *testing.T) {
	t.Parallel()

	c := newClock()
	s, err := magiclink.NewStore(magiclink.NewMemoryRepository(),
		magiclink.WithClock(c.Now), magiclink.WithTTL(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, time.Minute, s.TTL())

	issued, err := s.Issue(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, c.Now().Add(time.Minute), issued.ExpiresAt)
}
