package directory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aqall/publisher/internal/metrics"
)

// Claim outcome labels.
const (
	claimOutcomeClaimed   = "claimed"
	claimOutcomeNameTaken = "name_taken"
	claimOutcomeError     = "error"
)

// ErrOwnerRequired is returned when a claim or release has no owner.
var ErrOwnerRequired = errors.New("owner id is required")

// Service enforces subdomain ownership on top of a Store.
type Service struct {
	store    Store
	reserved map[string]struct{}
	logger   *slog.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
	newID    func() string
}

type Option func(*Service)

// WithReserved replaces DefaultReserved.
func WithReserved(labels []string) Option {
	return func(s *Service) {
		s.reserved = make(map[string]struct{}, len(labels))
		for _, l := range labels {
			s.reserved[strings.ToLower(strings.TrimSpace(l))] = struct{}{}
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New creates a Service over store.
func New(store Store, opts ...Option) *Service {
	s := &Service{
		store:  store,
		logger: slog.Default(),
		now:    time.Now,
		newID:  uuid.NewString,
	}
	WithReserved(DefaultReserved)(s)
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "directory")
	return s
}

// ValidateName normalizes name and rejects reserved labels.
func (s *Service) ValidateName(name string) (string, error) {
	n, err := NormalizeName(name)
	if err != nil {
		return "", err
	}
	if _, ok := s.reserved[n]; ok {
		return "", &InvalidNameError{Name: name, Reason: "name is reserved"}
	}
	return n, nil
}

// Claim reserves name for ownerID and returns the pending record.
//
// A name nobody holds is inserted. A name the owner already holds is reset
// to pending with the new websiteID. A failed claim by someone else is
// taken over. Any other existing claim yields *NameTakenError.
func (s *Service) Claim(ctx context.Context, ownerID, websiteID, name string) (Record, error) {
	if ownerID == "" {
		return Record{}, ErrOwnerRequired
	}
	n, err := s.ValidateName(name)
	if err != nil {
		return Record{}, err
	}

	now := s.now().UTC()
	rec, claimed, err := s.store.ClaimSubdomain(ctx, Record{
		ID:        s.newID(),
		Subdomain: n,
		OwnerID:   ownerID,
		WebsiteID: websiteID,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		s.metrics.IncClaim(claimOutcomeError)
		return Record{}, fmt.Errorf("claim %s: %w", n, err)
	}
	if !claimed {
		s.metrics.IncClaim(claimOutcomeNameTaken)
		s.logger.Info("subdomain claim rejected", "subdomain", n, "owner", ownerID)
		return Record{}, &NameTakenError{Subdomain: n}
	}

	s.metrics.IncClaim(claimOutcomeClaimed)
	s.logger.Info("subdomain claimed", "subdomain", n, "owner", ownerID, "id", rec.ID)
	return rec, nil
}

// MarkActive records that the registrar accepted the A record.
func (s *Service) MarkActive(ctx context.Context, id string) (Record, error) {
	return s.setStatus(ctx, id, StatusActive)
}

// MarkFailed records that provisioning failed.
func (s *Service) MarkFailed(ctx context.Context, id string) (Record, error) {
	return s.setStatus(ctx, id, StatusFailed)
}

func (s *Service) setStatus(ctx context.Context, id string, status Status) (Record, error) {
	rec, err := s.store.SetSubdomainStatus(ctx, id, status, s.now().UTC())
	if errors.Is(err, ErrNoRecord) {
		return Record{}, &NotFoundError{ID: id}
	}
	if err != nil {
		return Record{}, fmt.Errorf("mark %s %s: %w", id, status, err)
	}
	return rec, nil
}

// Release deletes ownerID's claim on name. The caller removes the A record.
func (s *Service) Release(ctx context.Context, ownerID, name string) (Record, error) {
	if ownerID == "" {
		return Record{}, ErrOwnerRequired
	}
	n, err := NormalizeName(name)
	if err != nil {
		return Record{}, err
	}

	rec, err := s.Get(ctx, n)
	if err != nil {
		return Record{}, err
	}
	if rec.OwnerID != ownerID {
		return Record{}, &NotOwnerError{Subdomain: n, OwnerID: ownerID}
	}

	err = s.store.DeleteSubdomain(ctx, rec.ID, ownerID)
	if errors.Is(err, ErrNoRecord) {
		// Taken over or released concurrently.
		return Record{}, &NotFoundError{Subdomain: n}
	}
	if err != nil {
		return Record{}, fmt.Errorf("release %s: %w", n, err)
	}

	s.logger.Info("subdomain released", "subdomain", n, "owner", ownerID)
	return rec, nil
}

// ListForOwner returns ownerID's records, newest first.
func (s *Service) ListForOwner(ctx context.Context, ownerID string) ([]Record, error) {
	recs, err := s.store.ListSubdomainsByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list subdomains for %s: %w", ownerID, err)
	}
	if recs == nil {
		recs = []Record{}
	}
	return recs, nil
}

// Get returns the record for name in any status.
func (s *Service) Get(ctx context.Context, name string) (Record, error) {
	n, err := NormalizeName(name)
	if err != nil {
		return Record{}, err
	}
	rec, err := s.store.GetSubdomain(ctx, n)
	if errors.Is(err, ErrNoRecord) {
		return Record{}, &NotFoundError{Subdomain: n}
	}
	if err != nil {
		return Record{}, fmt.Errorf("get %s: %w", n, err)
	}
	return rec, nil
}

// CheckUnclaimed returns a *NameTakenError when name is held by a pending or
// active claim. Unknown and failed names are free.
func (s *Service) CheckUnclaimed(ctx context.Context, name string) error {
	rec, err := s.Get(ctx, name)
	var nf *NotFoundError
	if errors.As(err, &nf) {
		return nil
	}
	if err != nil {
		return err
	}
	if rec.Status == StatusFailed {
		return nil
	}
	return &NameTakenError{Subdomain: rec.Subdomain}
}

// Resolve returns the record for name only if it is active.
func (s *Service) Resolve(ctx context.Context, name string) (Record, error) {
	rec, err := s.Get(ctx, name)
	if err != nil {
		return Record{}, err
	}
	if rec.Status != StatusActive {
		return Record{}, &NotFoundError{Subdomain: rec.Subdomain}
	}
	return rec, nil
}
