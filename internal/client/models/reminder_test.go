package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNextID_Monotonic(t *testing.T) {
	now := time.UnixMilli(1700000000000)

	id1 := NextID(now, 0)
	assert.Equal(t, int64(1700000000000), id1)

	// same millisecond: must still increase
	id2 := NextID(now, id1)
	assert.Equal(t, id1+1, id2)

	// clock moved backwards: must still increase
	id3 := NextID(now.Add(-time.Second), id2)
	assert.Greater(t, id3, id2)
}

func TestReminder_Expired(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		r    Reminder
		want bool
	}{
		{
			name: "once, more than 24h past",
			r:    Reminder{Repeat: RuleOnce, ScheduledAt: now.Add(-24*time.Hour - time.Second)},
			want: true,
		},
		{
			name: "once, exactly 24h past is retained",
			r:    Reminder{Repeat: RuleOnce, ScheduledAt: now.Add(-24 * time.Hour)},
			want: false,
		},
		{
			name: "once, in the future",
			r:    Reminder{Repeat: RuleOnce, ScheduledAt: now.Add(time.Hour)},
			want: false,
		},
		{
			name: "daily never expires",
			r:    Reminder{Repeat: RuleDaily, ScheduledAt: now.Add(-48 * time.Hour)},
			want: false,
		},
		{
			name: "weekly never expires",
			r:    Reminder{Repeat: RuleWeekly, ScheduledAt: now.Add(-240 * time.Hour)},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.r.Expired(now))
		})
	}
}

func TestReminder_Validate(t *testing.T) {
	r := Reminder{Note: "call Bob", Repeat: RuleOnce, ScheduledAt: time.Now()}
	assert.NoError(t, r.Validate())

	r.Note = ""
	assert.ErrorIs(t, r.Validate(), ErrEmptyNote)

	r.Note = "x"
	r.Repeat = "fortnightly"
	assert.Error(t, r.Validate())
}

func TestSortBySchedule(t *testing.T) {
	a := Reminder{ID: 1, ScheduledAt: time.UnixMilli(3000)}
	b := Reminder{ID: 2, ScheduledAt: time.UnixMilli(1000)}
	c := Reminder{ID: 3, ScheduledAt: time.UnixMilli(2000)}

	rs := []Reminder{a, b, c}
	SortBySchedule(rs)

	assert.Equal(t, []int64{2, 3, 1}, []int64{rs[0].ID, rs[1].ID, rs[2].ID})
}
