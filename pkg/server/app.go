package server

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	xhttp "AgriCast/pkg/http"
	applogger "AgriCast/pkg/logger"
)

// Closer is an infrastructure resource released at shutdown.
type Closer struct {
	Name string
	io.Closer
}

// Closers are released in reverse order of construction.
type Closers []Closer

// App owns the HTTP server and the resources it depends on.
type App struct {
	l               *applogger.Logger
	httpServer      *xhttp.Server
	closers         Closers
	shutdownTimeout time.Duration
}

// New creates a new App instance with all dependencies.
func New(l *applogger.Logger, srv *xhttp.Server, closers Closers, shutdownTimeout time.Duration) *App {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	return &App{l: l, httpServer: srv, closers: closers, shutdownTimeout: shutdownTimeout}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.RunContext(ctx)
}

// RunContext serves until ctx is done or the listener fails, then shuts down.
func (a *App) RunContext(ctx context.Context) error {
	if err := a.httpServer.Start(); err != nil {
		a.l.Error("http server start error", applogger.Error(err))
		return err
	}

	var runErr error
	select {
	case <-ctx.Done():
		a.l.Info("shutdown signal received")
	case runErr = <-a.httpServer.Errors():
	}

	if err := a.shutdown(); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
	defer cancel()

	var errs []error
	if err := a.httpServer.Stop(ctx); err != nil {
		a.l.Error("http shutdown error", applogger.Error(err))
		errs = append(errs, err)
	}
	// Flush collected errors while the publisher is still open.
	a.l.RemoveCollector()
	for i := len(a.closers) - 1; i >= 0; i-- {
		c := a.closers[i]
		if err := c.Close(); err != nil {
			a.l.Warn("close error", applogger.String("resource", c.Name), applogger.Error(err))
			errs = append(errs, err)
		}
	}

	a.l.Info("shutdown complete")
	return errors.Join(errs...)
}
