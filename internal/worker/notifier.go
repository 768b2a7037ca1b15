package worker

import (
	"context"

	"github.com/dsavelev/remindsync/internal/logging"
)

// Notifier renders platform notifications. The worker never fails a push
// because rendering failed; implementations log and move on.
type Notifier interface {
	// Show renders the notification, replacing any previous one with the
	// same tag.
	Show(ctx context.Context, n Notification) error

	// Close dismisses the notification with the given tag.
	Close(ctx context.Context, tag string) error
}

// LogNotifier writes notifications to the structured log. It is the default
// on platforms without a native notification backend and in tests.
type LogNotifier struct {
	log logging.Logger
}

func NewLogNotifier(log logging.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Show(ctx context.Context, notif Notification) error {
	n.log.Info(ctx, "notification",
		"title", notif.Title,
		"body", notif.Body,
		"tag", notif.Tag,
		"actions", len(notif.Actions),
		"persistent", notif.RequireInteraction,
	)
	return nil
}

func (n *LogNotifier) Close(ctx context.Context, tag string) error {
	n.log.Info(ctx, "notification closed", "tag", tag)
	return nil
}
