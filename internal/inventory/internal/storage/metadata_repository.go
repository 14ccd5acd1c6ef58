package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"storecatalog/pkg/dbconnect"
)

// LastSyncKey - ключ в metadata, который обновляет ReplaceAll.
const LastSyncKey = "last_sync_products"

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

type MetadataRepository struct {
	db      *sql.DB
	dialect dbconnect.Dialect
}

func NewMetadataRepository(db *sql.DB, dialect dbconnect.Dialect) *MetadataRepository {
	return &MetadataRepository{db: db, dialect: dialect}
}

// Get возвращает значение и время обновления ключа. ("", nil, nil), если ключа нет.
func (r *MetadataRepository) Get(ctx context.Context, key string) (string, *time.Time, error) {
	var (
		value      sql.NullString
		lastUpdate sql.NullTime
	)
	err := r.db.QueryRowContext(ctx,
		r.dialect.Rebind("SELECT value, last_update FROM metadata WHERE key_name = ?"), key,
	).Scan(&value, &lastUpdate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil, nil
		}
		return "", nil, fmt.Errorf("failed to read metadata %s: %w", key, err)
	}
	if !lastUpdate.Valid {
		return value.String, nil, nil
	}
	t := lastUpdate.Time
	return value.String, &t, nil
}

// LastSync - время последней успешной замены каталога, nil если её ещё не было.
func (r *MetadataRepository) LastSync(ctx context.Context) (*time.Time, error) {
	_, t, err := r.Get(ctx, LastSyncKey)
	return t, err
}

func (r *MetadataRepository) Set(ctx context.Context, key, value string, at time.Time) error {
	return setMetadata(ctx, r.db, r.dialect, key, value, at)
}

func setMetadata(ctx context.Context, ex execer, dialect dbconnect.Dialect, key, value string, at time.Time) error {
	_, err := ex.ExecContext(ctx, dialect.Rebind(`
		INSERT INTO metadata (key_name, value, last_update)
		VALUES (?, ?, ?)
		ON CONFLICT (key_name) DO UPDATE SET value = EXCLUDED.value, last_update = EXCLUDED.last_update
	`), key, value, at.UTC())
	if err != nil {
		return fmt.Errorf("failed to write metadata %s: %w", key, err)
	}
	return nil
}
