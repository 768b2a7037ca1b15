// Package syncer pushes the entire local reminder set to the remote
// authority. Synchronization is "last writer wins, full replace": the
// client is the sole writer of reminder content, so the authority's mirror
// is simply overwritten on every round trip.
package syncer

import (
	"context"
	"sync/atomic"

	"github.com/dsavelev/remindsync/internal/client/api"
	"github.com/dsavelev/remindsync/internal/client/connectivity"
	"github.com/dsavelev/remindsync/internal/client/models"
	"github.com/dsavelev/remindsync/internal/common"
	"github.com/dsavelev/remindsync/internal/logging"
)

// Source yields the current full reminder set to transmit.
type Source func(ctx context.Context) []models.Reminder

// Coordinator serializes syncs with an in-flight guard. A request arriving
// while one is in flight is a no-op; correctness relies on the next trigger
// (mutation, reconnect, visibility) re-invoking Sync, not on queueing.
type Coordinator struct {
	client   api.Client
	source   Source
	monitor  *connectivity.Monitor
	log      logging.Logger
	inFlight atomic.Bool
}

func NewCoordinator(client api.Client, source Source, monitor *connectivity.Monitor, log logging.Logger) *Coordinator {
	return &Coordinator{client: client, source: source, monitor: monitor, log: log}
}

// Sync transmits the full local set. It returns common.ErrSyncInFlight when
// another sync holds the guard; callers treat that as a no-op. Any network
// or non-2xx failure downgrades connectivity to Offline and leaves the
// local set untouched; it is already the source of truth.
func (c *Coordinator) Sync(ctx context.Context) (*api.SyncStats, error) {
	if !c.inFlight.CompareAndSwap(false, true) {
		c.log.Debug(ctx, "sync skipped, another in flight")
		return nil, common.ErrSyncInFlight
	}
	defer c.inFlight.Store(false)

	rs := c.source(ctx)

	stats, err := c.client.SyncReminders(ctx, rs)
	if err != nil {
		c.log.Warn(ctx, "sync failed", "error", err, "count", len(rs))
		c.monitor.SetOffline(ctx)
		return nil, err
	}

	c.log.Info(ctx, "sync complete", "sent", len(rs), "received", stats.Received)
	return stats, nil
}

// TrySync runs Sync and swallows every error: sync failures are never fatal
// and an overlapping request is silent. Wired to the triggers
// that fire often (connectivity regained, mutations, visibility).
func (c *Coordinator) TrySync(ctx context.Context) {
	_, _ = c.Sync(ctx)
}
