// Package authority is an in-memory stand-in for the remote authority,
// implementing its HTTP contract for local runs and tests. It holds the
// mirrored reminder set and the device subscription, signs VAPID tokens,
// and exposes a manual push trigger. It deliberately contains no
// scheduling logic.
package authority

import (
	"sync"

	"github.com/dsavelev/remindsync/internal/client/api"
	"github.com/dsavelev/remindsync/internal/client/models"
)

// Storage is the mutex-guarded in-memory state of the stub.
type Storage struct {
	mu           sync.RWMutex
	reminders    []models.Reminder
	subscription *api.PushSubscription
	syncs        int
}

func NewStorage() *Storage {
	return &Storage{}
}

// ReplaceReminders applies full-replace semantics: the incoming set
// overwrites whatever was mirrored before.
func (s *Storage) ReplaceReminders(rs []models.Reminder) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reminders = make([]models.Reminder, len(rs))
	copy(s.reminders, rs)
	s.syncs++
	return len(s.reminders)
}

func (s *Storage) Reminders() []models.Reminder {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Reminder, len(s.reminders))
	copy(out, s.reminders)
	return out
}

func (s *Storage) SyncCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.syncs
}

func (s *Storage) SetSubscription(sub *api.PushSubscription) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscription = sub
}

func (s *Storage) Subscription() *api.PushSubscription {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.subscription
}
