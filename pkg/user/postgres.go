package user

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/linkauth/pkg/pg"
)

const userColumns = `id, email, COALESCE(name, ''), is_active, preferences, created_at, updated_at`

// PostgresRepository stores users in the users table.
type PostgresRepository struct {
	db pg.DB
}

// NewPostgresRepository creates a repository on db.
func NewPostgresRepository(db pg.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Upsert(ctx context.Context, email, name string) (*User, error) {
	if email == "" {
		return nil, ErrEmptyEmail
	}

	now := time.Now().UTC()
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO users (id, email, name, is_active, preferences, created_at, updated_at)
		VALUES ($1, $2, NULLIF($3, ''), TRUE, '{}'::jsonb, $4, $4)
		ON CONFLICT (email) DO UPDATE SET name = COALESCE(users.name, EXCLUDED.name)
		RETURNING `+userColumns,
		uuid.New(), email, name, now,
	)

	u, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}
	return u, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	u, err := scanUser(row)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return u, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	u, err := scanUser(row)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

// UpdateProfile locks the row, merges the update and writes it back.
func (r *PostgresRepository) UpdateProfile(ctx context.Context, id uuid.UUID, upd ProfileUpdate) (*User, error) {
	var updated *User
	err := pg.WithTx(ctx, r.db, nil, func(ctx context.Context, tx pg.DBTX) error {
		row := tx.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1 FOR UPDATE`, id)
		u, err := scanUser(row)
		if err != nil {
			return err
		}

		upd.apply(u)
		prefs, err := json.Marshal(clonePreferences(u.Preferences))
		if err != nil {
			return fmt.Errorf("encode preferences: %w", err)
		}

		row = tx.QueryRowContext(ctx, `
			UPDATE users SET name = NULLIF($2, ''), preferences = $3, updated_at = $4
			WHERE id = $1
			RETURNING `+userColumns,
			id, u.Name, string(prefs), time.Now().UTC(),
		)
		updated, err = scanUser(row)
		return err
	})
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return updated, nil
}

func (r *PostgresRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET is_active = $2, updated_at = $3 WHERE id = $1`,
		id, active, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("set user active: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set user active: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*User, error) {
	var (
		u     User
		prefs []byte
	)
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.IsActive, &prefs, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	if len(prefs) > 0 {
		if err := json.Unmarshal(prefs, &u.Preferences); err != nil {
			return nil, errors.Join(errors.New("decode preferences"), err)
		}
	}
	if u.Preferences == nil {
		u.Preferences = map[string]any{}
	}
	return &u, nil
}
