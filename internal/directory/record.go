// Package directory tracks who owns which subdomain and whether its DNS
// record has been provisioned.
//
// The registrar is the source of truth for DNS; the directory is the source
// of truth for ownership. An active record is expected to have exactly one
// matching A record, but the two converge eventually rather than atomically.
package directory

import (
	"context"
	"errors"
	"time"
)

// Status is the provisioning state of a subdomain.
type Status string

const (
	StatusPending Status = "pending"
	StatusActive  Status = "active"
	StatusFailed  Status = "failed"
)

// Record is one claimed subdomain.
type Record struct {
	ID        string    `json:"id"`
	Subdomain string    `json:"subdomainName"`
	OwnerID   string    `json:"ownerId"`
	WebsiteID string    `json:"websiteId"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ErrNoRecord is returned by a Store when no row matches.
var ErrNoRecord = errors.New("no subdomain record")

// Store persists subdomain records. Implementations must make ClaimSubdomain
// a single atomic check-and-write.
type Store interface {
	// ClaimSubdomain inserts rec, or takes over the existing row for
	// rec.Subdomain when it belongs to rec.OwnerID or has status failed.
	// The existing id and creation time are kept when the owner is unchanged.
	// claimed is false when another owner holds the name.
	ClaimSubdomain(ctx context.Context, rec Record) (stored Record, claimed bool, err error)
	GetSubdomain(ctx context.Context, name string) (Record, error)
	GetSubdomainByID(ctx context.Context, id string) (Record, error)
	// SetSubdomainStatus changes the status and updated time of a record.
	// It leaves the row untouched when the status already matches.
	SetSubdomainStatus(ctx context.Context, id string, status Status, at time.Time) (Record, error)
	// DeleteSubdomain removes the row for id if it is still owned by ownerID.
	DeleteSubdomain(ctx context.Context, id, ownerID string) error
	ListSubdomainsByOwner(ctx context.Context, ownerID string) ([]Record, error)
}
