// Package services holds the client-side application services.
package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dsavelev/remindsync/internal/client/models"
	"github.com/dsavelev/remindsync/internal/client/store"
	"github.com/dsavelev/remindsync/internal/common"
	"github.com/dsavelev/remindsync/internal/logging"
)

// ReminderService owns the canonical in-memory reminder set. Every mutation
// persists the full set before returning, then notifies the sync trigger.
type ReminderService interface {
	// List returns the set ordered ascending by scheduled time.
	List(ctx context.Context) []models.Reminder

	// Add creates a reminder from the given fields and returns it.
	Add(ctx context.Context, scheduledAt time.Time, note string, repeat models.Rule) (*models.Reminder, error)

	// Update edits an existing reminder's mutable fields.
	Update(ctx context.Context, id int64, scheduledAt time.Time, note string, repeat models.Rule) error

	// Remove deletes a reminder by id.
	Remove(ctx context.Context, id int64) error

	// Sweep discards completed one-shot reminders older than the retention
	// cutoff and reports how many were removed.
	Sweep(ctx context.Context) int
}

type reminderService struct {
	repo    store.Repository
	log     logging.Logger
	now     func() time.Time
	onDirty func(ctx context.Context)

	mu        sync.Mutex
	reminders []models.Reminder
	lastID    int64
}

// NewReminderService loads the persisted set and returns a service over it.
// onDirty fires after every successful mutation; the app wires it to the
// sync coordinator. It may be nil.
func NewReminderService(ctx context.Context, repo store.Repository, log logging.Logger, now func() time.Time, onDirty func(ctx context.Context)) ReminderService {
	if now == nil {
		now = time.Now
	}

	s := &reminderService{repo: repo, log: log, now: now, onDirty: onDirty}
	s.reminders = repo.LoadReminders(ctx)
	for _, r := range s.reminders {
		if r.ID > s.lastID {
			s.lastID = r.ID
		}
	}
	return s
}

func (s *reminderService) List(ctx context.Context) []models.Reminder {
	s.mu.Lock()
	out := make([]models.Reminder, len(s.reminders))
	copy(out, s.reminders)
	s.mu.Unlock()

	models.SortBySchedule(out)
	return out
}

// persistLocked writes the full set. A failure is logged, never retried,
// and never blocks the mutation that triggered it.
func (s *reminderService) persistLocked(ctx context.Context) {
	if err := s.repo.SaveReminders(ctx, s.reminders); err != nil {
		s.log.Error(ctx, "failed to persist reminders", "error", err)
	}
}

func (s *reminderService) dirty(ctx context.Context) {
	if s.onDirty != nil {
		s.onDirty(ctx)
	}
}

func (s *reminderService) Add(ctx context.Context, scheduledAt time.Time, note string, repeat models.Rule) (*models.Reminder, error) {
	now := s.now()
	r := models.Reminder{
		ScheduledAt: scheduledAt,
		Note:        note,
		Repeat:      repeat,
		CreatedAt:   now,
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.lastID = models.NextID(now, s.lastID)
	r.ID = s.lastID
	s.reminders = append(s.reminders, r)
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.dirty(ctx)
	return &r, nil
}

func (s *reminderService) Update(ctx context.Context, id int64, scheduledAt time.Time, note string, repeat models.Rule) error {
	s.mu.Lock()
	idx := -1
	for i := range s.reminders {
		if s.reminders[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return fmt.Errorf("reminder %d: %w", id, common.ErrNotFound)
	}

	r := s.reminders[idx]
	r.ScheduledAt = scheduledAt
	r.Note = note
	r.Repeat = repeat
	mod := s.now()
	r.ModifiedAt = &mod

	if err := r.Validate(); err != nil {
		s.mu.Unlock()
		return err
	}

	s.reminders[idx] = r
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.dirty(ctx)
	return nil
}

func (s *reminderService) Remove(ctx context.Context, id int64) error {
	s.mu.Lock()
	kept := s.reminders[:0]
	found := false
	for _, r := range s.reminders {
		if r.ID == id {
			found = true
			continue
		}
		kept = append(kept, r)
	}
	if !found {
		s.mu.Unlock()
		return fmt.Errorf("reminder %d: %w", id, common.ErrNotFound)
	}
	s.reminders = kept
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.dirty(ctx)
	return nil
}

func (s *reminderService) Sweep(ctx context.Context) int {
	now := s.now()

	s.mu.Lock()
	kept := s.reminders[:0]
	removed := 0
	for _, r := range s.reminders {
		if r.Expired(now) {
			removed++
			continue
		}
		kept = append(kept, r)
	}
	s.reminders = kept
	if removed > 0 {
		s.persistLocked(ctx)
	}
	s.mu.Unlock()

	if removed > 0 {
		s.log.Info(ctx, "retention sweep removed reminders", "count", removed)
		s.dirty(ctx)
	}
	return removed
}
