package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dsavelev/remindsync/internal/common"
)

type fakeInstance struct {
	mu      sync.Mutex
	id      string
	origin  string
	focused bool
	posted  []Message
	postErr error
}

func (f *fakeInstance) ID() string     { return f.id }
func (f *fakeInstance) Origin() string { return f.origin }

func (f *fakeInstance) Focus(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.focused = true
	return nil
}

func (f *fakeInstance) Post(ctx context.Context, msg Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.postErr != nil {
		return f.postErr
	}
	f.posted = append(f.posted, msg)
	return nil
}

func (f *fakeInstance) messages() []Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Message(nil), f.posted...)
}

func TestRegistry_RegisterUnregister(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, 0, r.Len())

	r.Register(&fakeInstance{id: "a", origin: "http://app"})
	r.Register(&fakeInstance{id: "b", origin: "http://app"})
	assert.Equal(t, 2, r.Len())

	r.Unregister("a")
	assert.Equal(t, 1, r.Len())

	r.Unregister("missing")
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_FirstByOrigin_RegistrationOrder(t *testing.T) {
	r := NewRegistry()
	first := &fakeInstance{id: "a", origin: "http://app"}
	r.Register(first)
	r.Register(&fakeInstance{id: "b", origin: "http://app"})
	r.Register(&fakeInstance{id: "c", origin: "http://other"})

	got := r.FirstByOrigin("http://app")
	require.NotNil(t, got)
	assert.Equal(t, "a", got.ID())

	assert.Nil(t, r.FirstByOrigin("http://unknown"))
}

func TestRegistry_Broadcast_BestEffort(t *testing.T) {
	r := NewRegistry()
	ok := &fakeInstance{id: "a", origin: "http://app"}
	broken := &fakeInstance{id: "b", origin: "http://app", postErr: errors.New("gone")}
	r.Register(broken)
	r.Register(ok)

	r.Broadcast(context.Background(), Message{Type: MsgPushReceived})

	msgs := ok.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, MsgPushReceived, msgs[0].Type)
}

func TestRegistry_WaitByOrigin_FindsLateRegistration(t *testing.T) {
	r := NewRegistry()

	go func() {
		time.Sleep(50 * time.Millisecond)
		r.Register(&fakeInstance{id: "late", origin: "http://app"})
	}()

	inst, err := r.WaitByOrigin(context.Background(), "http://app", time.Second)
	require.NoError(t, err)
	assert.Equal(t, "late", inst.ID())
}

func TestRegistry_WaitByOrigin_Timeout(t *testing.T) {
	r := NewRegistry()

	_, err := r.WaitByOrigin(context.Background(), "http://app", 50*time.Millisecond)
	assert.ErrorIs(t, err, common.ErrNotFound)
}
