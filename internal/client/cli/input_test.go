package cli

import (
	"bufio"
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dsavelev/remindsync/internal/client/models"
)

func reader(s string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(s))
}

func TestGetSimpleText(t *testing.T) {
	var out bytes.Buffer

	got, err := GetSimpleText(reader("  milk run  \n"), "Note", &out)
	require.NoError(t, err)
	assert.Equal(t, "milk run", got)
	assert.Contains(t, out.String(), "Note")
}

func TestGetSimpleText_PartialLineAtEOF(t *testing.T) {
	var out bytes.Buffer

	got, err := GetSimpleText(reader("no newline"), "Note", &out)
	require.NoError(t, err)
	assert.Equal(t, "no newline", got)
}

func TestGetTime(t *testing.T) {
	var out bytes.Buffer

	got, err := GetTime(reader("2026-09-01 09:30\n"), "When", &out)
	require.NoError(t, err)

	expected := time.Date(2026, 9, 1, 9, 30, 0, 0, time.Local)
	assert.True(t, got.Equal(expected))
}

func TestGetTime_Invalid(t *testing.T) {
	var out bytes.Buffer

	_, err := GetTime(reader("tomorrow\n"), "When", &out)
	assert.Error(t, err)
}

func TestGetRule(t *testing.T) {
	tests := []struct {
		input    string
		expected models.Rule
		wantErr  bool
	}{
		{input: "\n", expected: models.RuleOnce},
		{input: "daily\n", expected: models.RuleDaily},
		{input: "WEEKLY\n", expected: models.RuleWeekly},
		{input: "fortnightly\n", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			var out bytes.Buffer
			got, err := GetRule(reader(tt.input), &out)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestHumanizeUntil(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		at       time.Time
		expected string
	}{
		{name: "one hour out", at: now.Add(60 * time.Minute), expected: "in 1 h 0 min"},
		{name: "under an hour", at: now.Add(45 * time.Minute), expected: "in 45 min"},
		{name: "days out", at: now.Add(49 * time.Hour), expected: "in 2 d"},
		{name: "recently past", at: now.Add(-12 * time.Minute), expected: "12 min ago"},
		{name: "long past falls back to timestamp", at: now.Add(-3 * time.Hour), expected: now.Add(-3 * time.Hour).Format(timeLayout)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, humanizeUntil(now, tt.at))
		})
	}
}
