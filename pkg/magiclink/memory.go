package magiclink

import (
	"context"
	"sync"
	"time"
)

// MemoryRepository keeps tokens in process memory.
type MemoryRepository struct {
	mu     sync.Mutex
	tokens map[string]*Token
}

// NewMemoryRepository creates an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{tokens: make(map[string]*Token)}
}

func (r *MemoryRepository) Insert(_ context.Context, t *Token) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tokens[t.Token]; exists {
		return ErrDuplicateToken
	}
	c := *t
	r.tokens[t.Token] = &c
	return nil
}

func (r *MemoryRepository) Consume(_ context.Context, token string, now time.Time) (*Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tokens[token]
	if !ok || t.UsedAt != nil || !t.ExpiresAt.After(now) {
		return nil, ErrNotFound
	}
	used := now
	t.UsedAt = &used

	c := *t
	return &c, nil
}

func (r *MemoryRepository) DeleteStale(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for k, t := range r.tokens {
		if t.UsedAt != nil || !t.ExpiresAt.After(now) {
			delete(r.tokens, k)
			n++
		}
	}
	return n, nil
}

// Len returns the number of stored tokens.
func (r *MemoryRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tokens)
}
