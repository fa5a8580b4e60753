package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/niksmo/storefront/pkg/retry"
)

var _ port.KVStorage = SQL{}

const DefaultProfile = "default"

// SQL keeps the client storage in the kv table, one row set per profile.
type SQL struct {
	sqldb   sqldb
	profile string
}

func NewSQL(ctx context.Context, dsn, profile string) (SQL, error) {
	const op = "NewSQL"

	connConfig, err := pgx.ParseConfig(dsn)
	if err != nil {
		return SQL{}, fmt.Errorf("%s: %w", op, err)
	}
	connStr := stdlib.RegisterConnConfig(connConfig)
	db, err := sql.Open("pgx", connStr)
	if err != nil {
		return SQL{}, fmt.Errorf("%s: %w", op, err)
	}

	s := NewSQLWithDB(db, profile)
	if err := s.ping(ctx); err != nil {
		_ = db.Close()
		return SQL{}, fmt.Errorf("%s: %w", op, err)
	}
	return s, nil
}

func NewSQLWithDB(db sqldb, profile string) SQL {
	if profile == "" {
		profile = DefaultProfile
	}
	return SQL{db, profile}
}

func (s SQL) ping(ctx context.Context) error {
	const op = "SQL.ping"

	retryCfg := retry.RetryConfig{
		MaxAttempts: 5,
		Backoff:     retry.ExponentialBackoff(100 * time.Millisecond),
	}
	err := retry.Do(ctx, retryCfg, func() error {
		return s.sqldb.PingContext(ctx)
	})
	if err != nil {
		return fmt.Errorf("%s: database unavailable: %w", op, err)
	}
	slog.Info("database is available", "op", op)
	return nil
}

func (s SQL) Get(ctx context.Context, key string) (string, bool, error) {
	const op = "SQL.Get"

	if err := ctx.Err(); err != nil {
		return "", false, fmt.Errorf("%s: %w", op, err)
	}

	query := `SELECT value FROM kv WHERE profile = $1 AND key = $2;`

	var v string
	err := s.sqldb.QueryRowContext(ctx, query, s.profile, key).Scan(&v)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("%s: %w", op, s.mapErr(err))
	}
	return v, true, nil
}

func (s SQL) Set(ctx context.Context, key, value string) error {
	const op = "SQL.Set"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query := `
		INSERT INTO kv (profile, key, value, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (profile, key) DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = EXCLUDED.updated_at;
	`

	_, err := s.sqldb.ExecContext(ctx, query, s.profile, key, value)
	if err != nil {
		return fmt.Errorf("%s: failed to exec: %w", op, s.mapErr(err))
	}
	return nil
}

func (s SQL) Remove(ctx context.Context, key string) error {
	const op = "SQL.Remove"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query := `DELETE FROM kv WHERE profile = $1 AND key = $2;`

	_, err := s.sqldb.ExecContext(ctx, query, s.profile, key)
	if err != nil {
		return fmt.Errorf("%s: failed to exec: %w", op, s.mapErr(err))
	}
	return nil
}

func (s SQL) Close() {
	const op = "SQL.Close"
	log := slog.With("op", op)

	log.Info("closing sql database...")

	if err := s.sqldb.Close(); err != nil {
		log.Error("failed to close", "err", err)
		return
	}
	log.Info("sql database is closed")
}

func (SQL) mapErr(err error) error {
	if errors.Is(err, sql.ErrConnDone) {
		return ErrClosed
	}
	return err
}
