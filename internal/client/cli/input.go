package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dsavelev/remindsync/internal/client/models"
)

// timeLayout is the format reminders are entered and shown in.
const timeLayout = "2006-01-02 15:04"

// GetSimpleText prints a prompt to w and reads a single line of input from
// reader. The trailing newline is trimmed. If EOF occurs after some input
// was read, the partial line is returned.
func GetSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n> "); err != nil {
		return "", err
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// GetTime prompts until the user enters a parseable "YYYY-MM-DD HH:MM"
// timestamp, interpreted in the local timezone.
func GetTime(reader *bufio.Reader, prompt string, w io.Writer) (time.Time, error) {
	s, err := GetSimpleText(reader, prompt+" ("+timeLayout+")", w)
	if err != nil {
		return time.Time{}, err
	}
	ts, err := time.ParseInLocation(timeLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: %w", s, err)
	}
	return ts, nil
}

// GetRule prompts for a repeat rule, defaulting to "once" on empty input.
func GetRule(reader *bufio.Reader, w io.Writer) (models.Rule, error) {
	s, err := GetSimpleText(reader, "Repeat (once/daily/weekly/monthly, empty for once)", w)
	if err != nil {
		return "", err
	}
	if s == "" {
		return models.RuleOnce, nil
	}
	rule := models.Rule(strings.ToLower(s))
	if !rule.Valid() {
		return "", fmt.Errorf("unknown repeat rule %q", s)
	}
	return rule, nil
}

// humanizeUntil renders the distance to a scheduled time the way the list
// view shows it, e.g. "in 60 min" or "12 min ago".
func humanizeUntil(now, at time.Time) string {
	d := at.Sub(now).Round(time.Minute)
	switch {
	case d >= 24*time.Hour:
		return fmt.Sprintf("in %d d", int(d.Hours()/24))
	case d >= time.Hour:
		return fmt.Sprintf("in %d h %d min", int(d.Hours()), int(d.Minutes())%60)
	case d > 0:
		return fmt.Sprintf("in %d min", int(d.Minutes()))
	case d > -time.Hour:
		return fmt.Sprintf("%d min ago", -int(d.Minutes()))
	default:
		return at.Format(timeLayout)
	}
}
