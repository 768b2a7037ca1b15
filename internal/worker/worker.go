// Package worker implements the delivery worker: the background execution
// context that outlives the foreground application, receives inbound push
// payloads, renders notifications, and routes interaction back to the
// application or the remote authority.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/dsavelev/remindsync/internal/client/api"
	"github.com/dsavelev/remindsync/internal/client/store"
	"github.com/dsavelev/remindsync/internal/common"
	"github.com/dsavelev/remindsync/internal/logging"
)

const openInstanceTimeout = 10 * time.Second

// Worker coordinates the delivery side. It shares no memory with the
// foreground application: the persisted store and the message channel are
// the only crossings.
type Worker struct {
	version   string
	baseURL   string
	origin    string
	handheld  bool
	cache     *AssetCache
	registry  *Registry
	notifier  Notifier
	opener    Opener
	repo      store.Repository
	authority api.Client
	log       logging.Logger

	mu  sync.Mutex
	sub *subscriptionState
}

// Options configures a Worker.
type Options struct {
	// Version identifies this worker build; activation drops caches of
	// any other version.
	Version string

	// BaseURL is the externally reachable address of the worker's own
	// gateway, used to mint push endpoints.
	BaseURL string

	// Origin is the foreground application origin that notification
	// clicks focus or open.
	Origin string

	// Handheld selects the simplified notification presentation. When
	// nil, it is derived from the runtime platform.
	Handheld *bool

	Cache     *AssetCache
	Notifier  Notifier
	Opener    Opener
	Repo      store.Repository
	Authority api.Client
	Log       logging.Logger
}

// New assembles a Worker. Cache, Repo and Authority are required.
func New(opts Options) (*Worker, error) {
	if opts.Cache == nil || opts.Repo == nil || opts.Authority == nil {
		return nil, fmt.Errorf("worker: cache, repo and authority are required")
	}
	log := opts.Log
	if log == nil {
		log = logging.Discard()
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = NewLogNotifier(log)
	}

	handheld := runtime.GOOS == "android" || runtime.GOOS == "ios"
	if opts.Handheld != nil {
		handheld = *opts.Handheld
	}

	return &Worker{
		version:   opts.Version,
		baseURL:   opts.BaseURL,
		origin:    opts.Origin,
		handheld:  handheld,
		cache:     opts.Cache,
		registry:  NewRegistry(),
		notifier:  notifier,
		opener:    opts.Opener,
		repo:      opts.Repo,
		authority: opts.Authority,
		log:       log,
	}, nil
}

// Version returns this worker build's identifier.
func (w *Worker) Version() string { return w.version }

// Registry exposes the foreground instance registry to the gateway.
func (w *Worker) Registry() *Registry { return w.registry }

// Install pre-populates the durable cache with the static assets needed to
// run offline. It does not wait for existing instances to close.
func (w *Worker) Install(ctx context.Context, assets map[string][]byte) error {
	if err := w.cache.Precache(ctx, assets); err != nil {
		return err
	}
	w.log.Info(ctx, "worker installed", "version", w.version)
	return nil
}

// Activate deletes caches of previous versions and takes control of all
// open instances immediately.
func (w *Worker) Activate(ctx context.Context) error {
	if err := w.cache.DropStale(ctx); err != nil {
		return err
	}
	w.log.Info(ctx, "worker activated", "version", w.version, "instances", w.registry.Len())
	return nil
}

// SkipWaiting is the application-initiated request to proceed straight to
// activation without waiting for existing instances.
func (w *Worker) SkipWaiting(ctx context.Context) {
	if err := w.Activate(ctx); err != nil {
		w.log.Warn(ctx, "skip-waiting activation failed", "error", err)
	}
}

// Subscribe creates a push subscription with fresh key material, bound to
// the given application-server key, and returns its descriptor. Called by
// the foreground application through the gateway during setup.
func (w *Worker) Subscribe(ctx context.Context, vapidPublicKey string) (*api.PushSubscription, error) {
	sub, err := newSubscription(vapidPublicKey)
	if err != nil {
		return nil, err
	}

	w.mu.Lock()
	w.sub = sub
	w.mu.Unlock()

	w.log.Info(ctx, "push subscription registered", "token", sub.Token)
	return sub.descriptor(w.baseURL), nil
}

// Resubscribe recreates an invalidated subscription from the key material
// persisted at setup time and re-transmits the descriptor to the remote
// authority. This path runs with no foreground application present.
func (w *Worker) Resubscribe(ctx context.Context) error {
	vapidKey := w.repo.VapidPublicKey(ctx)
	if vapidKey == "" {
		return fmt.Errorf("resubscribe: %w", common.ErrSubscriptionInvalid)
	}

	sub, err := w.Subscribe(ctx, vapidKey)
	if err != nil {
		return err
	}
	if err := w.authority.Subscribe(ctx, sub); err != nil {
		return fmt.Errorf("retransmit subscription: %w", err)
	}

	w.log.Info(ctx, "resubscribed after invalidation")
	return nil
}

// subscription returns the live subscription state, or nil.
func (w *Worker) subscription() *subscriptionState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.sub
}

// HandlePush processes one inbound push payload: resolve content against
// the defaults, render the platform notification, then best-effort notify
// any open foreground instances.
func (w *Worker) HandlePush(ctx context.Context, raw []byte) {
	n := Present(ParsePayload(raw), w.handheld)

	if err := w.notifier.Show(ctx, n); err != nil {
		w.log.Error(ctx, "failed to render notification", "error", err)
	}

	w.registry.Broadcast(ctx, Message{
		Type: MsgPushReceived,
		Data: map[string]any{"title": n.Title, "body": n.Body, "tag": n.Tag},
	})
}

// HandleNotificationAction routes a user interaction with a rendered
// notification. Dismiss closes it with no further effect; anything else
// (including the default tap) targets exactly one foreground instance,
// opening a new one when none exists.
func (w *Worker) HandleNotificationAction(ctx context.Context, action string, n Notification) error {
	if err := w.notifier.Close(ctx, n.Tag); err != nil {
		w.log.Warn(ctx, "failed to close notification", "tag", n.Tag, "error", err)
	}
	if action == "dismiss" {
		return nil
	}

	msg := Message{Type: MsgNotificationClicked, Data: n.Data}

	if inst := w.registry.FirstByOrigin(w.origin); inst != nil {
		if err := inst.Focus(ctx); err != nil {
			w.log.Warn(ctx, "failed to focus instance", "error", err)
		}
		return inst.Post(ctx, msg)
	}

	if w.opener == nil {
		return fmt.Errorf("no instance open and no opener configured")
	}

	inst, err := w.opener.Open(ctx, w.origin)
	if err != nil {
		return fmt.Errorf("open instance: %w", err)
	}
	return inst.Post(ctx, msg)
}
