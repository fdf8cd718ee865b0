// Package pg wires PostgreSQL into the service using the pgx/v5 driver.
//
// It opens a *pgxpool.Pool with retries, exposes the same pool through
// database/sql for repositories and goose, applies embedded migrations, and
// provides error classifiers so repositories never compare driver errors by
// hand.
//
// # Usage
//
//	var cfg pg.Config
//	if err := config.Load(&cfg); err != nil {
//	    return err
//	}
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, migrations.FS, cfg, log); err != nil {
//	    return err
//	}
//
//	db := pg.OpenDB(pool) // *sql.DB implementing pg.DBTX
//
// # Error Handling
//
// [IsNotFoundError] recognises both pgx.ErrNoRows and sql.ErrNoRows.
// [IsDuplicateKeyError] and [IsForeignKeyViolationError] unwrap
// *pgconn.PgError and compare SQLSTATE codes.
package pg
