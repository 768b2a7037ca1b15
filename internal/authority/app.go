package authority

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dsavelev/remindsync/internal/authority/config"
	"github.com/dsavelev/remindsync/internal/logging"
)

const shutdownTimeout = 5 * time.Second

// App assembles and runs the authority stub.
type App struct {
	config  *config.Config
	logger  logging.Logger
	handler *Handler
}

func NewApp(cfg *config.Config) (*App, error) {
	logger := logging.NewJSON(os.Stdout, slog.LevelInfo)

	keys, err := GenerateVapidKeys()
	if err != nil {
		return nil, fmt.Errorf("vapid init error: %w", err)
	}

	storage := NewStorage()
	pusher := NewPusher(keys, logger)
	handler := NewHandler(storage, keys, pusher, logger)

	return &App{config: cfg, logger: logger, handler: handler}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	srv := &http.Server{Addr: app.config.Addr, Handler: app.handler.Router()}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(shutdownCtx, "shutdown error", "error", err.Error())
		}
	}()

	app.logger.Info(ctx, "authority listening", "addr", app.config.Addr)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves the authority until interrupted.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting authority...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()
}
