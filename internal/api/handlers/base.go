// Package handlers implements the REST API endpoint handlers for the publisher.
//
// REST API Endpoints:
//
// System:
//   - GET /health - Liveness
//   - GET /api/stats - Process statistics, database and registrar status
//
// Zone records (editor tooling, optional X-API-Key):
//   - GET /api/dns/records - List all zone records
//   - GET /api/dns/check/:subdomain - Whether an A record exists
//   - POST /api/dns/create - Point a label at an address
//   - DELETE /api/dns/:subdomain - Remove a label's A record
//
// Subdomains (owner identified by bearer token):
//   - POST /api/subdomains - Claim and publish
//   - GET /api/subdomains - Caller's subdomains
//   - DELETE /api/subdomains/:subdomain - Release and unpublish
//   - GET /api/subdomains/:subdomain/verify - Public DNS propagation
//   - GET /api/sites/:subdomain - Resolve an active subdomain (public)
//
// @title Aqall Publisher API
// @version 1.0
// @description Publishes editor websites under subdomains of the hosting zone.
//
// @license.name MIT
// @license.url https://opensource.org/licenses/MIT
//
// @host localhost:3001
// @BasePath /
//
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package handlers

import (
	"log/slog"
	"time"

	"github.com/aqall/publisher/internal/config"
	"github.com/aqall/publisher/internal/publish"
	"github.com/aqall/publisher/internal/reconciler"
	"github.com/aqall/publisher/internal/registrar"
)

// Database is the part of the store reported by /api/stats.
type Database interface {
	Health() error
	SchemaVersion() (uint, error)
}

// Deps are the services the handlers call.
type Deps struct {
	Registrar  *registrar.Client
	Reconciler *reconciler.Reconciler
	Publisher  *publish.Service
	Database   Database
}

// Handler contains dependencies for API handlers.
type Handler struct {
	cfg        *config.Config
	registrar  *registrar.Client
	reconciler *reconciler.Reconciler
	publisher  *publish.Service
	db         Database
	logger     *slog.Logger
	startTime  time.Time
	now        func() time.Time
}

// New creates a new Handler.
func New(cfg *config.Config, deps Deps, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		cfg:        cfg,
		registrar:  deps.Registrar,
		reconciler: deps.Reconciler,
		publisher:  deps.Publisher,
		db:         deps.Database,
		logger:     logger,
		startTime:  time.Now(),
		now:        time.Now,
	}
}
