// Package cli is the foreground application: a small REPL owning the local
// reminder set and its synchronization triggers.
package cli

import (
	"bufio"
	"context"
	"database/sql"
	"log/slog"
	"os"

	"github.com/dsavelev/remindsync/internal/client/api"
	"github.com/dsavelev/remindsync/internal/client/config"
	"github.com/dsavelev/remindsync/internal/client/connectivity"
	"github.com/dsavelev/remindsync/internal/client/models"
	"github.com/dsavelev/remindsync/internal/client/services"
	"github.com/dsavelev/remindsync/internal/client/store"
	"github.com/dsavelev/remindsync/internal/client/subscription"
	"github.com/dsavelev/remindsync/internal/client/syncer"
	"github.com/dsavelev/remindsync/internal/logging"

	_ "modernc.org/sqlite"
)

type App struct {
	config      *config.Config
	log         logging.Logger
	db          *sql.DB
	monitor     *connectivity.Monitor
	coordinator *syncer.Coordinator
	reminders   services.ReminderService
	subs        *subscription.Manager
	reader      *bufio.Reader
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	log := logging.NewText(os.Stderr, slog.LevelWarn)

	db, err := store.OpenDatabase(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, err
	}

	repo := store.NewSQLiteRepository(db, log)
	client := api.NewHTTPClient(cfg.AuthorityAddr)
	monitor := connectivity.NewMonitor(client, log, connectivity.WithInterval(cfg.ProbeInterval))

	// the coordinator and the service reference each other through this
	// closure: a mutation while online triggers a sync
	var coordinator *syncer.Coordinator
	onDirty := func(ctx context.Context) {
		if monitor.Online() {
			coordinator.TrySync(ctx)
		}
	}

	reminders := services.NewReminderService(ctx, repo, log, nil, onDirty)
	coordinator = syncer.NewCoordinator(client, func(ctx context.Context) []models.Reminder {
		return reminders.List(ctx)
	}, monitor, log)

	// reconnecting triggers a sync of whatever changed while offline
	monitor.OnChange(func(s connectivity.State) {
		if s == connectivity.StateOnline {
			go coordinator.TrySync(context.Background())
		}
	})

	reader := bufio.NewReader(os.Stdin)
	perm := NewPromptPermissioner(reader, os.Stdout)
	transport := subscription.NewWorkerTransport(cfg.WorkerAddr)
	subs := subscription.NewManager(client, repo, monitor, transport, perm, log)

	return &App{
		config:      cfg,
		log:         log,
		db:          db,
		monitor:     monitor,
		coordinator: coordinator,
		reminders:   reminders,
		subs:        subs,
		reader:      reader,
	}, nil
}

// Run performs the startup sequence and enters the REPL: retention sweep,
// background probe loop, then an initial sync attempt once online.
func (a *App) Run(ctx context.Context) {
	defer a.db.Close()

	a.reminders.Sweep(ctx)

	go a.monitor.Run(ctx)

	a.Root(ctx)
}

// Visible is the foreground-visibility trigger: while believed online it
// syncs rather than probes; the probe ticker catches staleness within one
// interval regardless.
func (a *App) Visible(ctx context.Context) {
	if a.monitor.Online() {
		a.coordinator.TrySync(ctx)
	}
}
