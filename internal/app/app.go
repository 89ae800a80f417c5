// Package app wires Config, Store, LockManager, EventBus, RateLimiter, and
// the HTTP façade together and owns the process's run loop.
package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/Humans-Not-Required/agent-docs/internal/config"
	"github.com/Humans-Not-Required/agent-docs/internal/eventbus"
	"github.com/Humans-Not-Required/agent-docs/internal/httpapi"
	"github.com/Humans-Not-Required/agent-docs/internal/lockmgr"
	"github.com/Humans-Not-Required/agent-docs/internal/logging"
	"github.com/Humans-Not-Required/agent-docs/internal/ratelimit"
	"github.com/Humans-Not-Required/agent-docs/internal/store"
)

// App is the assembled, runnable server.
type App struct {
	config *config.Config
	logger logging.Logger
	store  *store.Store
	server *http.Server
}

// rateLimitWindow is the fixed window over which the workspace-create
// limiter counts calls per IP; the count resets once it elapses.
const rateLimitWindow = time.Hour

// New wires every component and builds the HTTP server, but does not start
// listening.
func New(ctx context.Context, cfg *config.Config, logger logging.Logger) (*App, error) {
	st, err := store.Open(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("app: open store: %w", err)
	}

	locks := lockmgr.New(st)
	bus := eventbus.New()
	limiter := ratelimit.New(rateLimitWindow, cfg.WorkspaceRateLimit)

	handler := httpapi.New(httpapi.Deps{
		Store:              st,
		Locks:              locks,
		Bus:                bus,
		Limiter:            limiter,
		Logger:             logger,
		WorkspaceRateLimit: cfg.WorkspaceRateLimit,
		DefaultLockTTL:     time.Duration(cfg.LockTTLSeconds) * time.Second,
	})

	srv := &http.Server{
		Addr:    cfg.Address + ":" + cfg.Port,
		Handler: handler.Router(cfg.StaticDir),
	}

	return &App{config: cfg, logger: logger, store: st, server: srv}, nil
}

// Run starts the HTTP server and blocks until ctx is cancelled or a
// terminating signal arrives, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	a.initSignalHandler(cancel)

	var wg sync.WaitGroup
	serveErr := make(chan error, 1)

	wg.Add(1)
	go func() {
		defer wg.Done()
		a.logger.Info(ctx, "starting server", "addr", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- err
			cancel()
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		wg.Wait()
		_ = a.store.Close()
		return err
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.Error(ctx, "graceful shutdown failed", "err", err)
	}
	wg.Wait()
	return a.store.Close()
}

func (a *App) initSignalHandler(cancel context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		<-sigs
		cancel()
	}()
}
