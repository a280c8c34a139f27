package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"drively/pkg/config"
	"drively/pkg/contracts"
	"drively/pkg/middleware"

	"github.com/julienschmidt/httprouter"
)

// Application owns the router, the middleware chain, and the HTTP
// server lifecycle including graceful shutdown.
type Application struct {
	cfg    *config.Config
	router *httprouter.Router

	idempotencyStore *middleware.InMemoryIdempotencyStore
	rateLimiter      *middleware.ClientRateLimiter

	onShutdown []func()
}

func NewApplication(cfg *config.Config) *Application {
	return &Application{
		cfg:              cfg,
		router:           httprouter.New(),
		idempotencyStore: middleware.NewInMemoryIdempotencyStore(cfg.IdempotencyTTL),
		rateLimiter:      middleware.NewClientRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow, cfg.Log),
	}
}

func (a *Application) RegisterHandlers(handlers ...contracts.Handler) {
	for _, h := range handlers {
		h.RegisterRoutes(a.router)
	}
}

// OnShutdown registers a hook to run after the HTTP server has
// drained, before the store connections close.
func (a *Application) OnShutdown(fn func()) {
	a.onShutdown = append(a.onShutdown, fn)
}

func (a *Application) handler() http.Handler {
	var h http.Handler = a.router

	// Innermost first: the request passes through this list in
	// reverse order.
	h = middleware.Idempotency(a.idempotencyStore, "Idempotency-Key")(h)
	h = middleware.RequestTimeout(a.cfg.RequestTimeout)(h)
	h = middleware.MaxRequestSize(int64(a.cfg.MaxRequestSize))(h)
	h = middleware.ContentTypeValidation(a.cfg.Log)(h)
	h = middleware.RateLimit(a.rateLimiter)(h)
	h = middleware.RequestLogging(a.cfg.Log)(h)
	h = middleware.Recovery(a.cfg.Log)(h)

	return h
}

// Run blocks until SIGINT/SIGTERM, then drains in-flight requests,
// runs shutdown hooks, and closes store connections.
func (a *Application) Run() {
	server := &http.Server{
		Addr:         ":" + a.cfg.Port,
		Handler:      a.handler(),
		ReadTimeout:  a.cfg.ReadTimeout,
		WriteTimeout: a.cfg.WriteTimeout,
		IdleTimeout:  a.cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		a.cfg.Log.Info("HTTP server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		a.cfg.Log.Fatal("HTTP server failed", "error", err)
	case sig := <-stop:
		a.cfg.Log.Info("Shutdown signal received", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		a.cfg.Log.Error("HTTP server shutdown failed", "error", err)
	}

	a.idempotencyStore.Stop()
	a.rateLimiter.Stop()
	for _, fn := range a.onShutdown {
		fn()
	}

	a.cfg.GracefulShutdown()
	a.cfg.Log.Info("Shutdown complete")
}
