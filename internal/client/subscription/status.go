package subscription

import "context"

// Status is the user-facing projection of the subscription state. It is
// recomputed from (permission, persisted enabled flag, connectivity) on
// every observation rather than stored, so the three independent signals
// can never drift apart.
type Status string

const (
	StatusReady           Status = "enabled/ready"
	StatusBlocked         Status = "blocked"
	StatusNeedsConnection Status = "needs connection"
	StatusNeedsSetup      Status = "needs setup"
)

// Status derives the display status. Denied permission dominates: it is
// terminal for the session and only platform settings can clear it.
func (m *Manager) Status(ctx context.Context) Status {
	if m.perm.State(ctx) == PermissionDenied {
		return StatusBlocked
	}
	if m.repo.NotificationsEnabled(ctx) && m.perm.State(ctx) == PermissionGranted {
		return StatusReady
	}
	if !m.monitor.Online() {
		return StatusNeedsConnection
	}
	return StatusNeedsSetup
}
