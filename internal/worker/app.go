package worker

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dsavelev/remindsync/internal/client/api"
	"github.com/dsavelev/remindsync/internal/client/store"
	"github.com/dsavelev/remindsync/internal/logging"
	"github.com/dsavelev/remindsync/internal/worker/config"

	_ "modernc.org/sqlite"
)

// precacheAssets is the application shell: the static assets fetched at
// install time so the foreground application can load while offline.
var precacheAssets = []string{"/", "/app.js", "/styles.css", "/manifest.json"}

const shutdownTimeout = 5 * time.Second

// App assembles and runs the delivery worker daemon.
type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	worker  *Worker
	gateway *Gateway
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewJSON(os.Stdout, slog.LevelInfo)

	db, err := store.OpenDatabase(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	cache, err := NewAssetCache(cfg.CacheDir, cfg.Version, logger)
	if err != nil {
		return nil, fmt.Errorf("cache init error: %w", err)
	}

	repo := store.NewSQLiteRepository(db, logger)
	authority := api.NewHTTPClient(cfg.AuthorityAddr)

	// The opener closes over the worker before it exists: with no process
	// manager to spawn a foreground instance, opening means waiting for
	// one to connect to the event stream.
	var w *Worker
	opener := OpenerFunc(func(ctx context.Context, origin string) (Instance, error) {
		return w.Registry().WaitByOrigin(ctx, origin, openInstanceTimeout)
	})

	w, err = New(Options{
		Version:   cfg.Version,
		BaseURL:   cfg.BaseURL,
		Origin:    cfg.OriginAddr,
		Cache:     cache,
		Repo:      repo,
		Authority: authority,
		Opener:    opener,
		Log:       logger,
	})
	if err != nil {
		return nil, err
	}

	gateway, err := NewGateway(w, GatewayConfig{
		AuthorityURL:   cfg.AuthorityAddr,
		OriginURL:      cfg.OriginAddr,
		AllowedOrigins: cfg.AllowedOrigins,
	}, logger)
	if err != nil {
		return nil, err
	}

	return &App{config: cfg, logger: logger, db: db, worker: w, gateway: gateway}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// install fetches the application shell from the origin and seeds the
// versioned cache. A missing asset is logged and skipped; a cold cache
// only means more misses later.
func (app *App) install(ctx context.Context) {
	client := &http.Client{Timeout: 15 * time.Second}
	assets := make(map[string][]byte)

	for _, asset := range precacheAssets {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, app.config.OriginAddr+asset, nil)
		if err != nil {
			continue
		}
		resp, err := client.Do(req)
		if err != nil {
			app.logger.Warn(ctx, "precache fetch failed", "asset", asset, "error", err.Error())
			continue
		}
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil || resp.StatusCode != http.StatusOK {
			app.logger.Warn(ctx, "precache fetch failed", "asset", asset, "status", resp.StatusCode)
			continue
		}
		assets[asset] = body
	}

	if err := app.worker.Install(ctx, assets); err != nil {
		app.logger.Error(ctx, "install failed", "error", err.Error())
	}
	if err := app.worker.Activate(ctx); err != nil {
		app.logger.Error(ctx, "activate failed", "error", err.Error())
	}
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	srv := &http.Server{
		Addr: app.config.Addr,
		Handler: app.gateway.Router(GatewayConfig{
			AuthorityURL:   app.config.AuthorityAddr,
			OriginURL:      app.config.OriginAddr,
			AllowedOrigins: app.config.AllowedOrigins,
		}),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(shutdownCtx, "shutdown error", "error", err.Error())
		}
	}()

	app.logger.Info(ctx, "worker gateway listening", "addr", app.config.Addr, "version", app.config.Version)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run installs and activates this worker version, restores the push
// subscription if notifications were previously enabled, and serves the
// gateway until interrupted.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer app.db.Close()

	app.logger.Info(ctx, "Starting worker...")

	app.initSignalHandler(cancelFunc)

	app.install(ctx)

	if app.worker.repo.NotificationsEnabled(ctx) {
		go func() {
			if err := app.worker.Resubscribe(ctx); err != nil {
				app.logger.Warn(ctx, "resubscribe failed", "error", err.Error())
			}
		}()
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()
}
