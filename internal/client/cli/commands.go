package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/dsavelev/remindsync/internal/common"
)

func (a *App) Add(ctx context.Context) error {
	note, err := GetSimpleText(a.reader, "Note", os.Stdout)
	if err != nil {
		return err
	}
	at, err := GetTime(a.reader, "When", os.Stdout)
	if err != nil {
		return err
	}
	rule, err := GetRule(a.reader, os.Stdout)
	if err != nil {
		return err
	}

	r, err := a.reminders.Add(ctx, at, note, rule)
	if err != nil {
		return err
	}
	printlnFn(fmt.Sprintf("Added #%d: %q %s (%s)", r.ID, r.Note, humanizeUntil(time.Now(), r.ScheduledAt), r.Repeat))
	return nil
}

func (a *App) List(ctx context.Context) error {
	rs := a.reminders.List(ctx)
	if len(rs) == 0 {
		printlnFn("No reminders.")
		return nil
	}

	now := time.Now()
	for _, r := range rs {
		printlnFn(fmt.Sprintf("#%d  %s  %q  %s  (%s)",
			r.ID, r.ScheduledAt.Format(timeLayout), r.Note, humanizeUntil(now, r.ScheduledAt), r.Repeat))
	}
	return nil
}

func parseID(args []string) (int64, error) {
	if len(args) == 0 {
		return 0, errors.New("usage: <command> <id>")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", args[0])
	}
	return id, nil
}

func (a *App) Edit(ctx context.Context, args []string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}

	note, err := GetSimpleText(a.reader, "Note", os.Stdout)
	if err != nil {
		return err
	}
	at, err := GetTime(a.reader, "When", os.Stdout)
	if err != nil {
		return err
	}
	rule, err := GetRule(a.reader, os.Stdout)
	if err != nil {
		return err
	}

	if err := a.reminders.Update(ctx, id, at, note, rule); err != nil {
		return err
	}
	printlnFn(fmt.Sprintf("Updated #%d", id))
	return nil
}

func (a *App) Delete(ctx context.Context, args []string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}
	if err := a.reminders.Remove(ctx, id); err != nil {
		return err
	}
	printlnFn(fmt.Sprintf("Deleted #%d", id))
	return nil
}

func (a *App) Sync(ctx context.Context) error {
	stats, err := a.coordinator.Sync(ctx)
	if err != nil {
		if errors.Is(err, common.ErrSyncInFlight) {
			printlnFn("Sync already running.")
			return nil
		}
		return err
	}
	printlnFn(fmt.Sprintf("Synced %d reminder(s).", stats.Received))
	return nil
}

func (a *App) Notify(ctx context.Context) error {
	if a.subs.Busy() {
		printlnFn("Setup already in progress.")
		return nil
	}
	if err := a.subs.Enable(ctx); err != nil {
		return err
	}
	printlnFn("Push notifications enabled.")
	return nil
}

func (a *App) Status(ctx context.Context) error {
	printlnFn("Connectivity:  ", string(a.monitor.State()))
	printlnFn("Notifications: ", string(a.subs.Status(ctx)))
	return nil
}
