// Package server wires the publisher components together and runs the HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/aqall/publisher/internal/api"
	"github.com/aqall/publisher/internal/api/handlers"
	"github.com/aqall/publisher/internal/api/middleware"
	"github.com/aqall/publisher/internal/auth"
	"github.com/aqall/publisher/internal/config"
	"github.com/aqall/publisher/internal/database"
	"github.com/aqall/publisher/internal/directory"
	"github.com/aqall/publisher/internal/metrics"
	"github.com/aqall/publisher/internal/publish"
	"github.com/aqall/publisher/internal/reconciler"
	"github.com/aqall/publisher/internal/registrar"
	"github.com/aqall/publisher/internal/verify"
)

// Runner orchestrates startup, serving and shutdown.
type Runner struct {
	logger *slog.Logger
}

// NewRunner creates a new server runner with the given logger.
func NewRunner(logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{logger: logger}
}

// Run starts the publisher with the given configuration and blocks until
// SIGINT or SIGTERM.
//
// Server lifecycle:
//  1. Open the database and apply migrations
//  2. Build registrar client, directory, reconciler, verifier and publisher
//  3. Listen on server.host:server.port
//  4. Wait for shutdown signal (SIGINT/SIGTERM)
//  5. Drain in-flight requests within server.shutdown_timeout, then close the database
func (r *Runner) Run(cfg *config.Config) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	return r.RunWithContext(ctx, cfg)
}

// RunWithContext listens on the configured address and serves until ctx is canceled.
func (r *Runner) RunWithContext(ctx context.Context, cfg *config.Config) error {
	addr := net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))
	l, err := listenTCP(ctx, addr, cfg.Server.ReusePort)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return r.Serve(ctx, cfg, l)
}

// Serve runs the API on l until ctx is canceled or the server fails. l is
// closed on return.
func (r *Runner) Serve(ctx context.Context, cfg *config.Config, l net.Listener) error {
	app, err := r.build(cfg)
	if err != nil {
		l.Close()
		return err
	}
	defer app.close(r.logger)

	r.logStartup(cfg, l.Addr().String())

	errCh := make(chan error, 1)
	go func() { errCh <- app.server.Serve(l) }()

	select {
	case <-ctx.Done():
		// shutdown requested
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("api server: %w", err)
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Server.ShutdownTimeout)
	defer cancel()
	r.logger.Info("shutting down", "timeout", cfg.Server.ShutdownTimeout)
	if err := app.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

type app struct {
	db     *database.DB
	server *api.Server
}

func (a *app) close(logger *slog.Logger) {
	if err := a.db.Close(); err != nil {
		logger.Error("failed to close database", "err", err)
	}
}

// build constructs every component from cfg. Each run gets its own metrics
// registry.
func (r *Runner) build(cfg *config.Config) (*app, error) {
	m := metrics.New(metrics.NewRegistry())

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", cfg.Database.Path, err)
	}

	client := registrar.New(cfg.Registrar, registrar.WithLogger(r.logger), registrar.WithMetrics(m))
	if missing := cfg.Registrar.MissingCredentials(); len(missing) > 0 {
		r.logger.Warn("registrar not configured, publishing will fail until it is", "missing", missing)
	}

	reserved := cfg.Publish.ReservedLabels
	if len(reserved) == 0 {
		reserved = directory.DefaultReserved
	}
	dir := directory.New(db,
		directory.WithReserved(reserved),
		directory.WithLogger(r.logger),
		directory.WithMetrics(m),
	)

	rec := reconciler.New(client, r.logger)
	if cfg.Publish.DefaultIP == "" {
		r.logger.Warn("publish.default_ip is empty, publish requests must carry an ip")
	}
	pub := publish.New(publish.Config{
		Directory:  dir,
		Reconciler: rec,
		Checker:    verify.NewChecker(cfg.Verify.Resolver, cfg.Verify.Timeout),
		DefaultIP:  cfg.Publish.DefaultIP,
		Logger:     r.logger,
		Metrics:    m,
	})

	verifier := auth.NewVerifier(cfg.Auth.JWTSecret)
	if !verifier.Enabled() {
		r.logger.Warn("auth.jwt_secret is empty, trusting the " + middleware.UserIDHeader + " header")
	}

	srv := api.New(cfg, handlers.Deps{Registrar: client, Reconciler: rec, Publisher: pub, Database: db}, api.Options{
		Verifier: verifier,
		Metrics:  m,
		Logger:   r.logger,
	})
	return &app{db: db, server: srv}, nil
}

// logStartup logs server configuration at startup.
func (r *Runner) logStartup(cfg *config.Config, addr string) {
	r.logger.Info(
		"api listening",
		"addr", addr,
		"zone", cfg.Registrar.Domain,
		"provider", cfg.Registrar.Provider,
		"database", cfg.Database.Path,
		"cors_origin", cfg.Server.CORSOrigin,
		"static_dir", cfg.Server.StaticDir,
	)
	r.logger.Info("rate limits", "effective", middleware.FormatRateLimitsLog(cfg.RateLimit))
}
