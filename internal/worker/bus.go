package worker

import (
	"context"
	"sync"
	"time"

	"github.com/dsavelev/remindsync/internal/common"
)

// Instance is one open foreground application instance as seen from the
// worker: addressable by origin, focusable, and reachable by messages.
type Instance interface {
	ID() string
	Origin() string
	Focus(ctx context.Context) error
	Post(ctx context.Context, msg Message) error
}

// Registry tracks the foreground instances currently connected to the
// worker. Access is mutex-guarded; the worker and the gateway's connection
// handlers touch it from different goroutines.
type Registry struct {
	mu        sync.Mutex
	instances []Instance
}

func NewRegistry() *Registry {
	return &Registry{}
}

func (r *Registry) Register(inst Instance) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.instances = append(r.instances, inst)
}

func (r *Registry) Unregister(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.instances[:0]
	for _, inst := range r.instances {
		if inst.ID() != id {
			kept = append(kept, inst)
		}
	}
	r.instances = kept
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.instances)
}

// FirstByOrigin returns the first registered instance with the given
// origin, or nil. Registration order decides which of several matching
// instances is targeted.
func (r *Registry) FirstByOrigin(origin string) Instance {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, inst := range r.instances {
		if inst.Origin() == origin {
			return inst
		}
	}
	return nil
}

// Broadcast posts msg to every registered instance, best effort: a missing
// or unreachable instance is not an error.
func (r *Registry) Broadcast(ctx context.Context, msg Message) {
	r.mu.Lock()
	targets := make([]Instance, len(r.instances))
	copy(targets, r.instances)
	r.mu.Unlock()

	for _, inst := range targets {
		_ = inst.Post(ctx, msg)
	}
}

// WaitByOrigin polls until an instance with the given origin registers or
// the timeout elapses. Used after opening a new instance, which needs time
// to initialize before it can receive messages.
func (r *Registry) WaitByOrigin(ctx context.Context, origin string, timeout time.Duration) (Instance, error) {
	deadline := time.Now().Add(timeout)
	for {
		if inst := r.FirstByOrigin(origin); inst != nil {
			return inst, nil
		}
		if time.Now().After(deadline) {
			return nil, common.ErrNotFound
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(20 * time.Millisecond):
		}
	}
}

// Opener starts a new foreground instance for the given origin and returns
// it once it has registered with the worker.
type Opener interface {
	Open(ctx context.Context, origin string) (Instance, error)
}

// OpenerFunc adapts a function to the Opener interface.
type OpenerFunc func(ctx context.Context, origin string) (Instance, error)

func (f OpenerFunc) Open(ctx context.Context, origin string) (Instance, error) {
	return f(ctx, origin)
}
