// Package connectivity tracks whether the remote authority is reachable.
//
// The state machine is Offline → Connecting → Online, with Online → Offline
// on any failed probe or request. While offline a fixed-interval probe
// retries the authority; there is deliberately no backoff, which bounds
// worst-case reconnect latency at one interval.
package connectivity

import (
	"context"
	"sync"
	"time"

	"github.com/dsavelev/remindsync/internal/logging"
)

type State string

const (
	StateOffline    State = "offline"
	StateConnecting State = "connecting"
	StateOnline     State = "online"
)

// DefaultProbeInterval is the fixed offline retry interval.
const DefaultProbeInterval = 30 * time.Second

const probeTimeout = 5 * time.Second

// Pinger is the reachability probe, typically api.Client.Ping.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Monitor owns the connectivity state. All transitions funnel through
// setState so subscribers observe every change exactly once.
type Monitor struct {
	pinger   Pinger
	interval time.Duration
	log      logging.Logger

	mu       sync.Mutex
	state    State
	onChange []func(State)
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithInterval overrides the offline probe interval.
func WithInterval(d time.Duration) Option {
	return func(m *Monitor) { m.interval = d }
}

// NewMonitor returns a Monitor starting in the Offline state.
func NewMonitor(p Pinger, log logging.Logger, opts ...Option) *Monitor {
	m := &Monitor{
		pinger:   p,
		interval: DefaultProbeInterval,
		log:      log,
		state:    StateOffline,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// State returns the current connectivity state.
func (m *Monitor) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Online reports whether the authority is currently believed reachable.
func (m *Monitor) Online() bool {
	return m.State() == StateOnline
}

// OnChange registers a callback invoked on every state transition.
// Callbacks run on the transitioning goroutine and must not block.
func (m *Monitor) OnChange(fn func(State)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onChange = append(m.onChange, fn)
}

func (m *Monitor) setState(ctx context.Context, s State) {
	m.mu.Lock()
	if m.state == s {
		m.mu.Unlock()
		return
	}
	m.state = s
	subs := make([]func(State), len(m.onChange))
	copy(subs, m.onChange)
	m.mu.Unlock()

	m.log.Info(ctx, "connectivity changed", "state", string(s))
	for _, fn := range subs {
		fn(s)
	}
}

// Probe attempts one reachability check and returns the resulting state.
// Success moves to Online, failure to Offline; no other value is possible.
func (m *Monitor) Probe(ctx context.Context) State {
	m.setState(ctx, StateConnecting)

	pctx, cancel := context.WithTimeout(ctx, probeTimeout)
	err := m.pinger.Ping(pctx)
	cancel()

	if err != nil {
		m.log.Debug(ctx, "probe failed", "error", err)
		m.setState(ctx, StateOffline)
		return StateOffline
	}
	m.setState(ctx, StateOnline)
	return StateOnline
}

// SetOffline forces the Offline state immediately, bypassing the probe.
// Used for platform network-down events and failed authority requests.
func (m *Monitor) SetOffline(ctx context.Context) {
	m.setState(ctx, StateOffline)
}

// NetworkUp handles a platform network-up event by probing immediately
// instead of waiting for the ticker.
func (m *Monitor) NetworkUp(ctx context.Context) {
	m.Probe(ctx)
}

// Run probes at startup and then on a fixed ticker while the state is not
// Online. It blocks until ctx is cancelled.
func (m *Monitor) Run(ctx context.Context) {
	m.Probe(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if m.State() != StateOnline {
				m.Probe(ctx)
			}
		case <-ctx.Done():
			return
		}
	}
}
