package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dsavelev/remindsync/internal/client/models"
	"github.com/dsavelev/remindsync/internal/dbx"
	"github.com/dsavelev/remindsync/internal/logging"
)

// Keys of the kv table. The entire reminder sequence lives under one key;
// flags live under their own keys.
const (
	keyReminders    = "reminders"
	keyPushEnabled  = "notifications_enabled"
	keyVapidPublicK = "vapid_public_key"
)

// SQLiteRepository implements Repository over a kv table.
type SQLiteRepository struct {
	db  *sql.DB
	log logging.Logger
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given database.
func NewSQLiteRepository(db *sql.DB, log logging.Logger) *SQLiteRepository {
	return &SQLiteRepository{db: db, log: log}
}

func get(ctx context.Context, q dbx.DBTX, key string) ([]byte, error) {
	row := q.QueryRowContext(ctx, `SELECT value FROM kv WHERE key=?`, key)
	var v []byte
	if err := row.Scan(&v); err != nil {
		return nil, err
	}
	return v, nil
}

func put(ctx context.Context, q dbx.DBTX, key string, value []byte) error {
	query := `INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`
	if _, err := q.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("failed to upsert %s: %w", key, err)
	}
	return nil
}

// LoadReminders reads the full persisted set. Missing or unparseable data
// is treated as an empty set: the local copy is the source of truth and a
// corrupt blob must never take the application down.
func (r *SQLiteRepository) LoadReminders(ctx context.Context) []models.Reminder {
	v, err := get(ctx, r.db, keyReminders)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			r.log.Warn(ctx, "failed to read reminders, starting empty", "error", err)
		}
		return []models.Reminder{}
	}

	var rs []models.Reminder
	if err := json.Unmarshal(v, &rs); err != nil {
		r.log.Warn(ctx, "corrupted reminder data, starting empty", "error", err)
		return []models.Reminder{}
	}
	if rs == nil {
		rs = []models.Reminder{}
	}
	return rs
}

// SaveReminders overwrites the full persisted set.
func (r *SQLiteRepository) SaveReminders(ctx context.Context, rs []models.Reminder) error {
	v, err := json.Marshal(rs)
	if err != nil {
		return fmt.Errorf("failed to encode reminders: %w", err)
	}
	return put(ctx, r.db, keyReminders, v)
}

func (r *SQLiteRepository) NotificationsEnabled(ctx context.Context) bool {
	v, err := get(ctx, r.db, keyPushEnabled)
	if err != nil {
		return false
	}
	return string(v) == "true"
}

func (r *SQLiteRepository) VapidPublicKey(ctx context.Context) string {
	v, err := get(ctx, r.db, keyVapidPublicK)
	if err != nil {
		return ""
	}
	return string(v)
}

// EnableNotifications persists the enabled flag and the cached key in one
// transaction: the worker must never observe the flag without the key its
// resubscription path needs.
func (r *SQLiteRepository) EnableNotifications(ctx context.Context, vapidKey string) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := put(ctx, tx, keyVapidPublicK, []byte(vapidKey)); err != nil {
			return err
		}
		return put(ctx, tx, keyPushEnabled, []byte("true"))
	})
}
