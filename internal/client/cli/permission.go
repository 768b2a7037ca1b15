package cli

import (
	"bufio"
	"context"
	"io"
	"strings"
	"sync"

	"github.com/dsavelev/remindsync/internal/client/subscription"
)

// PromptPermissioner resolves the notification permission by asking the
// user on the terminal. The decision sticks for the session; a denial can
// only be cleared by restarting, mirroring platform permission semantics.
type PromptPermissioner struct {
	reader *bufio.Reader
	out    io.Writer

	mu    sync.Mutex
	state subscription.Permission
}

func NewPromptPermissioner(reader *bufio.Reader, out io.Writer) *PromptPermissioner {
	return &PromptPermissioner{reader: reader, out: out, state: subscription.PermissionDefault}
}

func (p *PromptPermissioner) State(ctx context.Context) subscription.Permission {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *PromptPermissioner) Request(ctx context.Context) (subscription.Permission, error) {
	answer, err := GetSimpleText(p.reader, "Allow notifications from RemindSync? (y/n)", p.out)
	if err != nil {
		return subscription.PermissionDefault, err
	}

	state := subscription.PermissionDenied
	if strings.EqualFold(answer, "y") || strings.EqualFold(answer, "yes") {
		state = subscription.PermissionGranted
	}

	p.mu.Lock()
	p.state = state
	p.mu.Unlock()
	return state, nil
}
