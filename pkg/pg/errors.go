package pg

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrConnect           = errors.New("pg: could not connect")
	ErrEmptyConnString   = errors.New("pg: PG_CONN_URL is empty")
	ErrInvalidConnString = errors.New("pg: invalid connection string")
	ErrUnavailable       = errors.New("pg: unavailable")
	ErrMigrate           = errors.New("pg: migration failed")
	ErrNoMigrations      = errors.New("pg: no migrations filesystem")
)

// IsNotFoundError reports whether err means "no rows" from either pgx or database/sql.
func IsNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows)
}

// IsDuplicateKeyError detects unique constraint violations (SQLSTATE 23505).
func IsDuplicateKeyError(err error) bool {
	return hasCode(err, "23505")
}

// IsForeignKeyViolationError detects referential integrity violations (SQLSTATE 23503).
func IsForeignKeyViolationError(err error) bool {
	return hasCode(err, "23503")
}

func hasCode(err error, code string) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}
