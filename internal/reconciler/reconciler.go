// Package reconciler turns a "publish name at ip" intent into one registrar write.
package reconciler

import (
	"context"
	"log/slog"

	"github.com/aqall/publisher/internal/registrar"
)

// Registrar is the part of *registrar.Client the reconciler needs.
type Registrar interface {
	ListRecords(ctx context.Context) []registrar.Record
	UpsertARecord(ctx context.Context, name, ip string) (registrar.UpsertResult, error)
	DeleteARecord(ctx context.Context, name string) error
	Hostname(name string) string
}

// Result describes a completed reconciliation.
type Result struct {
	Hostname string           `json:"hostname"`
	Action   registrar.Action `json:"action"`
}

type Reconciler struct {
	registrar Registrar
	logger    *slog.Logger
}

func New(r Registrar, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{registrar: r, logger: logger.With("component", "reconciler")}
}

// Reconcile points subdomain at ip and returns the published hostname.
// Registrar errors are returned unchanged; there are no retries here.
func (r *Reconciler) Reconcile(ctx context.Context, subdomain, ip string) (Result, error) {
	// The lookup only picks the log line; UpsertARecord re-derives existence.
	if existing, ok := registrar.FindA(r.registrar.ListRecords(ctx), subdomain); ok {
		r.logger.Info("updating A record", "subdomain", subdomain, "from", existing.Data, "to", ip)
	} else {
		r.logger.Info("creating A record", "subdomain", subdomain, "ip", ip)
	}

	res, err := r.registrar.UpsertARecord(ctx, subdomain, ip)
	if err != nil {
		return Result{}, err
	}
	return Result{Hostname: r.registrar.Hostname(subdomain), Action: res.Action}, nil
}

// Hostname returns the fully qualified name for subdomain.
func (r *Reconciler) Hostname(subdomain string) string {
	return r.registrar.Hostname(subdomain)
}

// Lookup returns the A record currently published for subdomain. A failed
// registrar lookup reads as not found.
func (r *Reconciler) Lookup(ctx context.Context, subdomain string) (registrar.Record, bool) {
	return registrar.FindA(r.registrar.ListRecords(ctx), subdomain)
}

// Remove deletes the A record for subdomain. A record that is already gone
// counts as removed.
func (r *Reconciler) Remove(ctx context.Context, subdomain string) error {
	err := r.registrar.DeleteARecord(ctx, subdomain)
	if registrar.IsNotFound(err) {
		r.logger.Info("A record already absent", "subdomain", subdomain)
		return nil
	}
	return err
}
