package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"TradeCore/internal/domain/repository"
	"TradeCore/internal/safety"
	"TradeCore/pkg/cache"
	"TradeCore/pkg/config"
	xhttp "TradeCore/pkg/http"
	applogger "TradeCore/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg      *config.Config
	log      *applogger.Logger
	watchdog *safety.Watchdog

	httpServer  *xhttp.Server
	httpHandler xhttp.Handler

	store     cache.Store
	journal   repository.DecisionJournal
	publisher repository.DecisionPublisher
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	handler xhttp.Handler,
	watchdog *safety.Watchdog,
	store cache.Store,
	journal repository.DecisionJournal,
	publisher repository.DecisionPublisher,
) *App {
	return &App{
		cfg:         cfg,
		log:         log,
		httpHandler: handler,
		watchdog:    watchdog,
		store:       store,
		journal:     journal,
		publisher:   publisher,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a.httpServer = xhttp.NewServer(a.httpHandler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithServerTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)

	// Dead-man supervision for autonomous principals
	go a.watchdog.Run(ctx)
	a.log.Info("watchdog started",
		applogger.Duration("poll_interval", a.cfg.Watchdog.PollInterval),
		applogger.Duration("heartbeat_timeout", a.cfg.Watchdog.HeartbeatTimeout),
	)

	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}
	a.log.Info("decision core running",
		applogger.String("environment", a.cfg.Environment),
		applogger.Int("port", a.cfg.Server.Port),
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
	}

	if err := a.publisher.Close(); err != nil {
		a.log.Warn("publisher close error", applogger.Error(err))
	}
	if err := a.journal.Close(); err != nil {
		a.log.Warn("journal close error", applogger.Error(err))
	}
	if err := a.store.Close(); err != nil {
		a.log.Warn("store close error", applogger.Error(err))
	}

	a.log.Info("shutdown complete")
	return nil
}
