// Package subscription performs the one-time handshake that authorizes the
// remote authority to push notifications to this device, and projects the
// user-visible subscription status.
package subscription

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/dsavelev/remindsync/internal/client/api"
	"github.com/dsavelev/remindsync/internal/client/connectivity"
	"github.com/dsavelev/remindsync/internal/client/store"
	"github.com/dsavelev/remindsync/internal/common"
	"github.com/dsavelev/remindsync/internal/logging"
)

// Permission is the platform notification-permission state.
type Permission string

const (
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
	PermissionDefault Permission = "default"
)

// Permissioner exposes the platform permission state and the interactive
// prompt that resolves an undecided one.
type Permissioner interface {
	State(ctx context.Context) Permission
	Request(ctx context.Context) (Permission, error)
}

// PushTransport is the platform push mechanism: the delivery worker side
// that creates subscriptions addressable by the remote authority.
type PushTransport interface {
	// Ready reports whether the delivery worker is registered and ready.
	Ready(ctx context.Context) error

	// Subscribe registers a push subscription authorized by the given
	// base64url application-server key and returns its descriptor.
	Subscribe(ctx context.Context, vapidPublicKey string) (*api.PushSubscription, error)
}

// Manager runs the strictly ordered setup sequence. Each step's failure
// aborts the whole sequence with a specific cause and no side effects
// beyond what already completed; the user may simply re-invoke.
type Manager struct {
	client    api.Client
	repo      store.Repository
	monitor   *connectivity.Monitor
	transport PushTransport
	perm      Permissioner
	log       logging.Logger
	busy      atomic.Bool
}

func NewManager(client api.Client, repo store.Repository, monitor *connectivity.Monitor, transport PushTransport, perm Permissioner, log logging.Logger) *Manager {
	return &Manager{
		client:    client,
		repo:      repo,
		monitor:   monitor,
		transport: transport,
		perm:      perm,
		log:       log,
	}
}

// Busy reports whether a setup sequence is currently in flight. The UI
// disables its trigger while true.
func (m *Manager) Busy() bool {
	return m.busy.Load()
}

// Enable runs steps 1-7 of the setup sequence. On success the enabled flag
// is persisted; on any abort it remains unset and the sequence may be
// retried by calling Enable again.
func (m *Manager) Enable(ctx context.Context) error {
	if !m.busy.CompareAndSwap(false, true) {
		return common.ErrSetupInProgress
	}
	defer m.busy.Store(false)

	// 1. delivery worker must be registered and ready
	if err := m.transport.Ready(ctx); err != nil {
		return fmt.Errorf("%w: %v", common.ErrWorkerUnavailable, err)
	}

	// 2. permission: prompt if undecided, abort if denied
	p := m.perm.State(ctx)
	if p == PermissionDefault {
		var err error
		p, err = m.perm.Request(ctx)
		if err != nil {
			return fmt.Errorf("permission request: %w", err)
		}
	}
	if p != PermissionGranted {
		return common.ErrPermissionDenied
	}

	// 3. connectivity must already be online; not retried here, the user
	// re-invokes after reconnecting
	if !m.monitor.Online() {
		return common.ErrNotConnected
	}

	// 4. fetch the application-server key identifying this install
	vapidKey, err := m.client.VapidPublicKey(ctx)
	if err != nil {
		return fmt.Errorf("fetch public key: %w", err)
	}

	// 5. register the push subscription with the transport
	sub, err := m.transport.Subscribe(ctx, vapidKey)
	if err != nil {
		return fmt.Errorf("register subscription: %w", err)
	}

	// 6. hand the descriptor to the authority for future addressing
	if err := m.client.Subscribe(ctx, sub); err != nil {
		return fmt.Errorf("transmit subscription: %w", err)
	}

	// 7. persist success; the key is cached alongside the flag for the
	// worker's resubscription path, which runs without a foreground app
	if err := m.repo.EnableNotifications(ctx, vapidKey); err != nil {
		m.log.Warn(ctx, "failed to persist subscription state", "error", err)
	}

	m.log.Info(ctx, "push notifications enabled", "endpoint", sub.Endpoint)
	return nil
}
