package subscription

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dsavelev/remindsync/internal/client/api"
	"github.com/dsavelev/remindsync/internal/client/connectivity"
	"github.com/dsavelev/remindsync/internal/client/models"
	"github.com/dsavelev/remindsync/internal/common"
	"github.com/dsavelev/remindsync/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	pingErr   error
	keyErr    error
	subErr    error
	key       string
	subscribe []*api.PushSubscription
}

func (f *fakeClient) Ping(ctx context.Context) error { return f.pingErr }
func (f *fakeClient) SyncReminders(ctx context.Context, rs []models.Reminder) (*api.SyncStats, error) {
	return &api.SyncStats{}, nil
}
func (f *fakeClient) VapidPublicKey(ctx context.Context) (string, error) {
	if f.keyErr != nil {
		return "", f.keyErr
	}
	return f.key, nil
}
func (f *fakeClient) Subscribe(ctx context.Context, sub *api.PushSubscription) error {
	if f.subErr != nil {
		return f.subErr
	}
	f.subscribe = append(f.subscribe, sub)
	return nil
}

type fakeRepo struct {
	mu      sync.Mutex
	enabled bool
	vapid   string
}

func (f *fakeRepo) LoadReminders(ctx context.Context) []models.Reminder { return nil }
func (f *fakeRepo) SaveReminders(ctx context.Context, rs []models.Reminder) error {
	return nil
}
func (f *fakeRepo) NotificationsEnabled(ctx context.Context) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.enabled
}
func (f *fakeRepo) VapidPublicKey(ctx context.Context) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.vapid
}
func (f *fakeRepo) EnableNotifications(ctx context.Context, vapidKey string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.enabled = true
	f.vapid = vapidKey
	return nil
}

type fakeTransport struct {
	readyErr error
	subErr   error
	gotKey   string
	slow     time.Duration
}

func (f *fakeTransport) Ready(ctx context.Context) error { return f.readyErr }
func (f *fakeTransport) Subscribe(ctx context.Context, vapidPublicKey string) (*api.PushSubscription, error) {
	if f.slow > 0 {
		time.Sleep(f.slow)
	}
	if f.subErr != nil {
		return nil, f.subErr
	}
	f.gotKey = vapidPublicKey
	return &api.PushSubscription{
		Endpoint: "http://127.0.0.1:9999/push/tok",
		Keys:     api.SubscriptionKeys{P256dh: "p", Auth: "a"},
	}, nil
}

type fakePerm struct {
	state     Permission
	requested Permission
	reqErr    error
	requests  int
}

func (f *fakePerm) State(ctx context.Context) Permission { return f.state }
func (f *fakePerm) Request(ctx context.Context) (Permission, error) {
	f.requests++
	if f.reqErr != nil {
		return PermissionDefault, f.reqErr
	}
	f.state = f.requested
	return f.requested, nil
}

type fixture struct {
	client    *fakeClient
	repo      *fakeRepo
	monitor   *connectivity.Monitor
	transport *fakeTransport
	perm      *fakePerm
	mgr       *Manager
}

func newFixture(t *testing.T, online bool) *fixture {
	t.Helper()
	client := &fakeClient{key: "BServerKey"}
	repo := &fakeRepo{}
	transport := &fakeTransport{}
	perm := &fakePerm{state: PermissionGranted}
	monitor := connectivity.NewMonitor(client, logging.Discard())
	if online {
		monitor.Probe(context.Background())
	}
	mgr := NewManager(client, repo, monitor, transport, perm, logging.Discard())
	return &fixture{client: client, repo: repo, monitor: monitor, transport: transport, perm: perm, mgr: mgr}
}

func TestEnable_HappyPath(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	require.NoError(t, f.mgr.Enable(ctx))

	assert.Equal(t, "BServerKey", f.transport.gotKey)
	require.Len(t, f.client.subscribe, 1)
	assert.Equal(t, "http://127.0.0.1:9999/push/tok", f.client.subscribe[0].Endpoint)
	assert.True(t, f.repo.NotificationsEnabled(ctx))
	assert.Equal(t, "BServerKey", f.repo.VapidPublicKey(ctx))
}

func TestEnable_AbortWorkerUnavailable(t *testing.T) {
	f := newFixture(t, true)
	f.transport.readyErr = errors.New("no worker")

	err := f.mgr.Enable(context.Background())
	assert.ErrorIs(t, err, common.ErrWorkerUnavailable)
	assert.False(t, f.repo.NotificationsEnabled(context.Background()))
}

func TestEnable_AbortPermissionDenied(t *testing.T) {
	f := newFixture(t, true)
	f.perm.state = PermissionDenied

	err := f.mgr.Enable(context.Background())
	assert.ErrorIs(t, err, common.ErrPermissionDenied)
	assert.False(t, f.repo.NotificationsEnabled(context.Background()))
}

func TestEnable_PromptsWhenUndecided(t *testing.T) {
	f := newFixture(t, true)
	f.perm.state = PermissionDefault
	f.perm.requested = PermissionGranted

	require.NoError(t, f.mgr.Enable(context.Background()))
	assert.Equal(t, 1, f.perm.requests)
}

func TestEnable_PromptDeniedAborts(t *testing.T) {
	f := newFixture(t, true)
	f.perm.state = PermissionDefault
	f.perm.requested = PermissionDenied

	err := f.mgr.Enable(context.Background())
	assert.ErrorIs(t, err, common.ErrPermissionDenied)
}

func TestEnable_AbortOffline(t *testing.T) {
	f := newFixture(t, false)

	err := f.mgr.Enable(context.Background())
	assert.ErrorIs(t, err, common.ErrNotConnected)
	assert.False(t, f.repo.NotificationsEnabled(context.Background()))
}

func TestEnable_TransportFailureLeavesFlagUnset(t *testing.T) {
	f := newFixture(t, true)
	f.transport.subErr = errors.New("push service rejected")

	err := f.mgr.Enable(context.Background())
	assert.Error(t, err)
	assert.False(t, f.repo.NotificationsEnabled(context.Background()))
}

func TestEnable_AuthorityRejectionLeavesFlagUnset(t *testing.T) {
	f := newFixture(t, true)
	f.client.subErr = errors.New("500")

	err := f.mgr.Enable(context.Background())
	assert.Error(t, err)
	assert.False(t, f.repo.NotificationsEnabled(context.Background()))
}

func TestEnable_BusyGuard(t *testing.T) {
	f := newFixture(t, true)
	f.transport.slow = 50 * time.Millisecond
	ctx := context.Background()

	done := make(chan error, 1)
	go func() { done <- f.mgr.Enable(ctx) }()

	for !f.mgr.Busy() {
		time.Sleep(time.Millisecond)
	}

	err := f.mgr.Enable(ctx)
	assert.ErrorIs(t, err, common.ErrSetupInProgress)

	require.NoError(t, <-done)
	assert.False(t, f.mgr.Busy()) // trigger re-enabled after completion
}

func TestEnable_RetryAfterAbortSucceeds(t *testing.T) {
	f := newFixture(t, true)
	f.client.keyErr = errors.New("flaky")

	require.Error(t, f.mgr.Enable(context.Background()))
	assert.False(t, f.mgr.Busy())

	f.client.keyErr = nil
	require.NoError(t, f.mgr.Enable(context.Background()))
}

func TestStatus_Projection(t *testing.T) {
	ctx := context.Background()

	t.Run("blocked dominates", func(t *testing.T) {
		f := newFixture(t, true)
		f.perm.state = PermissionDenied
		f.repo.enabled = true
		assert.Equal(t, StatusBlocked, f.mgr.Status(ctx))
	})

	t.Run("ready", func(t *testing.T) {
		f := newFixture(t, true)
		f.repo.enabled = true
		assert.Equal(t, StatusReady, f.mgr.Status(ctx))
	})

	t.Run("needs connection", func(t *testing.T) {
		f := newFixture(t, false)
		assert.Equal(t, StatusNeedsConnection, f.mgr.Status(ctx))
	})

	t.Run("needs setup", func(t *testing.T) {
		f := newFixture(t, true)
		assert.Equal(t, StatusNeedsSetup, f.mgr.Status(ctx))
	})
}
