package storage

import (
	"context"
	"database/sql"
	"errors"
)

var ErrClosed = errors.New("storage is closed")

type sqldb interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	PingContext(ctx context.Context) error
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	Close() error
}
