package store

import (
	"context"

	"github.com/dsavelev/remindsync/internal/client/models"
)

// Repository is the durable, process-local persistence for the reminder set
// and the handful of flags the client keeps alongside it.
//
// The reminder set is read and written only whole: there is no row-level
// access, so the persisted copy never lags the in-memory copy by more than
// one operation and "last full write wins" is the only locking discipline
// the two processes (client and worker) need.
type Repository interface {
	// LoadReminders returns the persisted reminder set. It fails soft:
	// absent or corrupted data yields an empty slice, never an error.
	LoadReminders(ctx context.Context) []models.Reminder

	// SaveReminders overwrites the persisted set. Best effort: a failure
	// is returned for logging but callers do not retry or block on it.
	SaveReminders(ctx context.Context, rs []models.Reminder) error

	// NotificationsEnabled reports whether push setup completed before.
	NotificationsEnabled(ctx context.Context) bool

	// VapidPublicKey returns the key material cached at subscription time,
	// or "" when none was stored. The worker re-reads it when the push
	// transport invalidates a subscription and no foreground app exists.
	VapidPublicKey(ctx context.Context) string

	// EnableNotifications persists the enabled flag together with the key
	// material the worker's resubscription path needs, atomically.
	EnableNotifications(ctx context.Context, vapidKey string) error
}
