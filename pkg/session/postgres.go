package session

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/linkauth/pkg/pg"
)

// PostgresRepository stores sessions in the user_sessions table.
type PostgresRepository struct {
	db pg.DBTX
}

// NewPostgresRepository creates a repository on db.
func NewPostgresRepository(db pg.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, s *Session) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user_sessions
			(id, user_id, session_token, expires_at, user_agent, ip_address, last_accessed, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		s.ID, s.UserID, s.Token, s.ExpiresAt,
		nullString(s.UserAgent), nullString(s.IPAddress),
		s.LastAccessed, s.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Lookup(ctx context.Context, token string, now time.Time) (*Record, error) {
	var rec Record
	err := r.db.QueryRowContext(ctx, `
		SELECT s.id, s.user_id, s.session_token, s.expires_at,
			COALESCE(s.user_agent, ''), COALESCE(s.ip_address, ''),
			s.last_accessed, s.created_at,
			u.id, u.email, COALESCE(u.name, ''), u.is_active
		FROM user_sessions s
		JOIN users u ON u.id = s.user_id
		WHERE s.session_token = $1 AND s.expires_at > $2`,
		token, now,
	).Scan(
		&rec.Session.ID, &rec.Session.UserID, &rec.Session.Token, &rec.Session.ExpiresAt,
		&rec.Session.UserAgent, &rec.Session.IPAddress,
		&rec.Session.LastAccessed, &rec.Session.CreatedAt,
		&rec.Owner.ID, &rec.Owner.Email, &rec.Owner.Name, &rec.Owner.IsActive,
	)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select session: %w", err)
	}
	return &rec, nil
}

func (r *PostgresRepository) Touch(ctx context.Context, token string, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE user_sessions SET last_accessed = $2 WHERE session_token = $1 AND last_accessed < $2`,
		token, at)
	if err != nil {
		return fmt.Errorf("touch session: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, token string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM user_sessions WHERE session_token = $1`, token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (r *PostgresRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM user_sessions WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("delete user sessions: %w", err)
	}
	return res.RowsAffected()
}

func (r *PostgresRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM user_sessions WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	return res.RowsAffected()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
