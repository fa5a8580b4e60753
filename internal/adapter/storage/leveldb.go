package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/niksmo/storefront/internal/core/port"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
)

var _ port.KVStorage = LevelDB{}

// LevelDB is the on-disk client storage.
type LevelDB struct {
	db *leveldb.DB
}

func OpenLevelDB(path string) (LevelDB, error) {
	const op = "OpenLevelDB"

	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return LevelDB{}, fmt.Errorf("%s: %w", op, err)
	}
	slog.Info("leveldb storage is open", "op", op, "path", path)
	return LevelDB{db}, nil
}

func NewLevelDB(db *leveldb.DB) LevelDB {
	return LevelDB{db}
}

func (s LevelDB) Get(ctx context.Context, key string) (string, bool, error) {
	const op = "LevelDB.Get"

	if err := ctx.Err(); err != nil {
		return "", false, fmt.Errorf("%s: %w", op, err)
	}

	v, err := s.db.Get([]byte(key), nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("%s: %w", op, s.mapErr(err))
	}
	return string(v), true, nil
}

func (s LevelDB) Set(ctx context.Context, key, value string) error {
	const op = "LevelDB.Set"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err := s.db.Put([]byte(key), []byte(value), &opt.WriteOptions{Sync: true})
	if err != nil {
		return fmt.Errorf("%s: %w", op, s.mapErr(err))
	}
	return nil
}

func (s LevelDB) Remove(ctx context.Context, key string) error {
	const op = "LevelDB.Remove"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.db.Delete([]byte(key), &opt.WriteOptions{Sync: true}); err != nil {
		return fmt.Errorf("%s: %w", op, s.mapErr(err))
	}
	return nil
}

func (s LevelDB) Close() {
	const op = "LevelDB.Close"
	log := slog.With("op", op)

	log.Info("closing leveldb storage...")
	if err := s.db.Close(); err != nil {
		log.Error("failed to close", "err", err)
		return
	}
	log.Info("leveldb storage is closed")
}

func (LevelDB) mapErr(err error) error {
	if errors.Is(err, leveldb.ErrClosed) {
		return ErrClosed
	}
	return err
}
