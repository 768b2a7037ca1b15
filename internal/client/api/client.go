// Package api talks to the remote authority's HTTP surface.
package api

import (
	"context"

	"github.com/dsavelev/remindsync/internal/client/models"
)

// SyncStats is the summary the authority returns for a full-set sync.
type SyncStats struct {
	Received  int    `json:"received"`
	Scheduled int    `json:"scheduled"`
	Message   string `json:"message,omitempty"`
}

// PushSubscription is the platform-generated subscription descriptor,
// opaque to the authority beyond addressing future pushes.
type PushSubscription struct {
	Endpoint string           `json:"endpoint"`
	Keys     SubscriptionKeys `json:"keys"`
}

type SubscriptionKeys struct {
	P256dh string `json:"p256dh"`
	Auth   string `json:"auth"`
}

// Client is the remote authority surface consumed by the core.
type Client interface {
	// Ping is the lightweight reachability probe (GET /). Any 2xx with a
	// JSON body counts as reachable.
	Ping(ctx context.Context) error

	// SyncReminders replaces the authority's mirror with the full local
	// set (POST /sync-reminders).
	SyncReminders(ctx context.Context, rs []models.Reminder) (*SyncStats, error)

	// VapidPublicKey fetches the base64url key that authorizes this
	// client's push subscription (GET /vapid-public-key).
	VapidPublicKey(ctx context.Context) (string, error)

	// Subscribe transmits the subscription descriptor so the authority
	// can address future pushes to this device (POST /subscribe).
	Subscribe(ctx context.Context, sub *PushSubscription) error
}
