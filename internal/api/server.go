// Package api provides the publisher REST API.
// It exposes the zone record routes used by the editor, the subdomain
// publishing routes, health, statistics and metrics via a Gin-based HTTP server.
package api

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aqall/publisher/internal/api/handlers"
	"github.com/aqall/publisher/internal/api/middleware"
	"github.com/aqall/publisher/internal/auth"
	"github.com/aqall/publisher/internal/config"
	"github.com/aqall/publisher/internal/metrics"
)

// Server is the publisher REST API server.
type Server struct {
	cfg        *config.Config
	logger     *slog.Logger
	engine     *gin.Engine
	httpServer *http.Server
}

// Options carries the collaborators that are not handler dependencies.
type Options struct {
	// Verifier checks bearer tokens on owner routes. Nil or disabled means
	// the X-User-ID header is trusted.
	Verifier *auth.Verifier
	Metrics  *metrics.Metrics
	Logger   *slog.Logger
}

func New(cfg *config.Config, deps handlers.Deps, opts Options) *Server {
	if cfg == nil {
		panic("api.New: cfg is nil")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestID())
	engine.Use(middleware.SlogRequestLogger(logger))
	engine.Use(middleware.CORS(cfg.Server.CORSOrigin))

	h := handlers.New(cfg, deps, logger)
	RegisterRoutes(engine, h, cfg, opts.Verifier, opts.Metrics, logger)
	if cfg.Server.StaticDir != "" {
		MountSPA(engine, cfg.Server.StaticDir, logger)
	}

	addr := net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		// Publishing waits on registrar retries.
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{cfg: cfg, logger: logger, engine: engine, httpServer: httpServer}
}

func (s *Server) Addr() string {
	if s.httpServer == nil {
		return ""
	}
	return s.httpServer.Addr
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Serve accepts connections on l until Shutdown.
func (s *Server) Serve(l net.Listener) error {
	return s.httpServer.Serve(l)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
