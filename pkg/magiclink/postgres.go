package magiclink

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrymomot/linkauth/pkg/pg"
)

// PostgresRepository stores tokens in the magic_link_tokens table.
type PostgresRepository struct {
	db pg.DBTX
}

// NewPostgresRepository creates a repository on db.
func NewPostgresRepository(db pg.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Insert(ctx context.Context, t *Token) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO magic_link_tokens (id, email, token, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		t.ID, t.Email, t.Token, t.ExpiresAt, t.CreatedAt,
	)
	if err != nil {
		if pg.IsDuplicateKeyError(err) {
			return ErrDuplicateToken
		}
		return fmt.Errorf("insert magic link token: %w", err)
	}
	return nil
}

// Consume is a single conditional UPDATE, so the database serialises
// concurrent redemptions of the same token.
func (r *PostgresRepository) Consume(ctx context.Context, token string, now time.Time) (*Token, error) {
	var (
		t    Token
		used sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, `
		UPDATE magic_link_tokens
		SET used_at = $2
		WHERE token = $1 AND used_at IS NULL AND expires_at > $2
		RETURNING id, email, token, expires_at, used_at, created_at`,
		token, now,
	).Scan(&t.ID, &t.Email, &t.Token, &t.ExpiresAt, &used, &t.CreatedAt)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("consume magic link token: %w", err)
	}
	if used.Valid {
		t.UsedAt = &used.Time
	}
	return &t, nil
}

func (r *PostgresRepository) DeleteStale(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM magic_link_tokens WHERE used_at IS NOT NULL OR expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("delete stale magic link tokens: %w", err)
	}
	return res.RowsAffected()
}
