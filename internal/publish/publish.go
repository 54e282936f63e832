// Package publish composes the directory and the reconciler into the
// publish and unpublish flows used by the API.
//
// A publish is strictly ordered: claim the name, write the A record, then
// mark the claim active or failed. A claim rejected by the directory never
// reaches the registrar.
package publish

import (
	"context"
	"fmt"
	"log/slog"
	"net"

	"github.com/aqall/publisher/internal/directory"
	"github.com/aqall/publisher/internal/metrics"
	"github.com/aqall/publisher/internal/reconciler"
	"github.com/aqall/publisher/internal/registrar"
	"github.com/aqall/publisher/internal/verify"
)

// Request asks for Subdomain to serve WebsiteID on behalf of OwnerID.
type Request struct {
	OwnerID   string
	WebsiteID string
	Subdomain string
	// IP defaults to the configured hosting server address.
	IP string
}

// Result is a completed publish.
type Result struct {
	Record   directory.Record `json:"subdomain"`
	Hostname string           `json:"hostname"`
	IP       string           `json:"ip"`
	Action   registrar.Action `json:"action"`
}

type Service struct {
	directory  *directory.Service
	reconciler *reconciler.Reconciler
	checker    *verify.Checker
	defaultIP  string
	logger     *slog.Logger
	metrics    *metrics.Metrics
}

// Config holds the collaborators of a Service.
type Config struct {
	Directory  *directory.Service
	Reconciler *reconciler.Reconciler
	Checker    *verify.Checker
	DefaultIP  string
	Logger     *slog.Logger
	Metrics    *metrics.Metrics
}

func New(cfg Config) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		directory:  cfg.Directory,
		reconciler: cfg.Reconciler,
		checker:    cfg.Checker,
		defaultIP:  cfg.DefaultIP,
		logger:     logger.With("component", "publish"),
		metrics:    cfg.Metrics,
	}
}

// Publish claims the subdomain and points it at the hosting server.
//
// Directory errors (*directory.NameTakenError, *directory.InvalidNameError)
// are returned as they are. Registrar failures mark the claim failed and are
// wrapped, so errors.As still finds *registrar.RegistrarError or
// *registrar.ConfigurationError.
func (s *Service) Publish(ctx context.Context, req Request) (Result, error) {
	ip := req.IP
	if ip == "" {
		ip = s.defaultIP
	}
	if parsed := net.ParseIP(ip); parsed == nil || parsed.To4() == nil {
		return Result{}, fmt.Errorf("%w: %q", registrar.ErrInvalidIP, ip)
	}

	rec, err := s.directory.Claim(ctx, req.OwnerID, req.WebsiteID, req.Subdomain)
	if err != nil {
		s.metrics.IncPublish(metrics.OutcomeError)
		return Result{}, err
	}

	res, err := s.reconciler.Reconcile(ctx, rec.Subdomain, ip)
	if err != nil {
		s.metrics.IncPublish(metrics.OutcomeError)
		// The request context may already be done; the status must still land.
		if _, markErr := s.directory.MarkFailed(context.WithoutCancel(ctx), rec.ID); markErr != nil {
			s.logger.Error("failed to mark subdomain failed", "subdomain", rec.Subdomain, "err", markErr)
		}
		s.logger.Warn("publish failed", "subdomain", rec.Subdomain, "owner", req.OwnerID, "err", err)
		return Result{}, fmt.Errorf("publish %s: %w", rec.Subdomain, err)
	}

	rec, err = s.directory.MarkActive(context.WithoutCancel(ctx), rec.ID)
	if err != nil {
		s.metrics.IncPublish(metrics.OutcomeError)
		return Result{}, fmt.Errorf("publish %s: %w", res.Hostname, err)
	}

	s.metrics.IncPublish(metrics.OutcomeSuccess)
	s.logger.Info("subdomain published", "hostname", res.Hostname, "ip", ip, "action", res.Action, "website", req.WebsiteID)
	return Result{Record: rec, Hostname: res.Hostname, IP: ip, Action: res.Action}, nil
}

// Unpublish releases ownerID's claim and removes its A record. Ownership is
// checked first, so a caller who does not own the name never reaches the
// registrar.
func (s *Service) Unpublish(ctx context.Context, ownerID, name string) (directory.Record, error) {
	rec, err := s.directory.Release(ctx, ownerID, name)
	if err != nil {
		return directory.Record{}, err
	}
	if err := s.reconciler.Remove(ctx, rec.Subdomain); err != nil {
		s.logger.Error("released subdomain but A record removal failed", "subdomain", rec.Subdomain, "err", err)
		return rec, fmt.Errorf("unpublish %s: %w", rec.Subdomain, err)
	}
	s.logger.Info("subdomain unpublished", "subdomain", rec.Subdomain, "owner", ownerID)
	return rec, nil
}

// List returns ownerID's subdomains, newest first.
func (s *Service) List(ctx context.Context, ownerID string) ([]directory.Record, error) {
	return s.directory.ListForOwner(ctx, ownerID)
}

// Resolve maps an active subdomain to its record.
func (s *Service) Resolve(ctx context.Context, name string) (directory.Record, error) {
	return s.directory.Resolve(ctx, name)
}

// CheckUnclaimed reports a *directory.NameTakenError when name is held in
// the directory. Raw zone edits call it so they cannot clobber a published site.
func (s *Service) CheckUnclaimed(ctx context.Context, name string) error {
	return s.directory.CheckUnclaimed(ctx, name)
}

// Verify checks public DNS for ownerID's subdomain. The expected address is
// the one in the zone, or the default IP when the registrar cannot tell.
func (s *Service) Verify(ctx context.Context, ownerID, name string) (verify.Result, error) {
	rec, err := s.directory.Get(ctx, name)
	if err != nil {
		return verify.Result{}, err
	}
	if rec.OwnerID != ownerID {
		return verify.Result{}, &directory.NotOwnerError{Subdomain: rec.Subdomain, OwnerID: ownerID}
	}

	expected := s.defaultIP
	if a, ok := s.reconciler.Lookup(ctx, rec.Subdomain); ok {
		expected = a.Data
	}
	return s.checker.Check(ctx, s.reconciler.Hostname(rec.Subdomain), expected)
}
