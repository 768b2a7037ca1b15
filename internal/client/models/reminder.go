// Package models defines the reminder entity and its repeat rules.
package models

import (
	"errors"
	"sort"
	"time"
)

// Rule describes how a reminder repeats after it first fires.
type Rule string

const (
	RuleOnce    Rule = "once"
	RuleDaily   Rule = "daily"
	RuleWeekly  Rule = "weekly"
	RuleMonthly Rule = "monthly"
)

var ErrEmptyNote = errors.New("reminder note must not be empty")

// Valid reports whether r is one of the known repeat rules.
func (r Rule) Valid() bool {
	switch r {
	case RuleOnce, RuleDaily, RuleWeekly, RuleMonthly:
		return true
	}
	return false
}

// Reminder is the sole persisted entity. The ID doubles as the creation
// timestamp in Unix milliseconds and never changes after creation.
type Reminder struct {
	ID          int64      `json:"id"`
	ScheduledAt time.Time  `json:"scheduledAt"`
	Note        string     `json:"note"`
	Repeat      Rule       `json:"repeatRule"`
	CreatedAt   time.Time  `json:"createdAt"`
	ModifiedAt  *time.Time `json:"modifiedAt,omitempty"`
}

// Validate checks the invariants that must hold at rest.
func (r Reminder) Validate() error {
	if r.Note == "" {
		return ErrEmptyNote
	}
	if !r.Repeat.Valid() {
		return errors.New("unknown repeat rule: " + string(r.Repeat))
	}
	return nil
}

// NextID allocates a creation-timestamp ID that is strictly greater than
// lastID, so IDs stay monotonic even when two reminders are created within
// the same millisecond.
func NextID(now time.Time, lastID int64) int64 {
	id := now.UnixMilli()
	if id <= lastID {
		id = lastID + 1
	}
	return id
}

// RetentionCutoff is how far in the past a completed one-shot reminder may
// sit before the sweep discards it.
const RetentionCutoff = 24 * time.Hour

// Expired reports whether the sweep should discard r at time now.
// Only one-shot reminders expire; the boundary is a strict "more than 24h
// in the past", so a reminder at exactly the cutoff is retained.
func (r Reminder) Expired(now time.Time) bool {
	if r.Repeat != RuleOnce {
		return false
	}
	return now.Sub(r.ScheduledAt) > RetentionCutoff
}

// SortBySchedule orders reminders ascending by scheduled time. This is the
// derived display order; storage order is not meaningful.
func SortBySchedule(rs []Reminder) {
	sort.SliceStable(rs, func(i, j int) bool {
		return rs[i].ScheduledAt.Before(rs[j].ScheduledAt)
	})
}
