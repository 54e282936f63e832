// Package registrar manages A records in the zone that hosts published sites.
package registrar

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/time/rate"

	"github.com/aqall/publisher/internal/config"
	"github.com/aqall/publisher/internal/metrics"
)

// Client wraps a Provider with configuration checks, retries, throttling,
// logging and metrics. It is safe for concurrent use.
type Client struct {
	cfg        config.RegistrarConfig
	provider   Provider
	logger     *slog.Logger
	metrics    *metrics.Metrics
	limiter    *rate.Limiter
	newBackOff func() backoff.BackOff
}

// Option customizes a Client.
type Option func(*Client)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetrics records every provider call on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithProvider replaces the backend selected from the configuration.
func WithProvider(p Provider) Option {
	return func(c *Client) { c.provider = p }
}

// WithBackOff sets the retry schedule. Tests use backoff.ZeroBackOff.
func WithBackOff(fn func() backoff.BackOff) Option {
	return func(c *Client) { c.newBackOff = fn }
}

// New builds a Client for cfg. The provider is chosen by cfg.Provider; an
// empty provider means GoDaddy.
func New(cfg config.RegistrarConfig, opts ...Option) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	httpClient := &http.Client{Timeout: timeout}

	c := &Client{
		cfg:    cfg,
		logger: slog.Default(),
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 500 * time.Millisecond
			b.MaxInterval = 5 * time.Second
			return b
		},
	}
	switch cfg.Provider {
	case config.ProviderCloudflare:
		c.provider = NewCloudflare(cfg, httpClient)
	default:
		c.provider = NewGoDaddy(cfg, httpClient)
	}
	if cfg.RequestsPerMinute > 0 {
		c.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)), cfg.RequestsPerMinute)
	}

	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("component", "registrar", "provider", c.provider.Name())
	return c
}

// Provider names the registrar backend in use.
func (c *Client) Provider() string { return c.provider.Name() }

// Zone returns the managed domain, e.g. "aqall.dev".
func (c *Client) Zone() string { return c.cfg.Domain }

// Hostname returns the fully qualified name of a subdomain label.
func (c *Client) Hostname(name string) string { return name + "." + c.cfg.Domain }

// Configured reports whether write operations can be attempted.
func (c *Client) Configured() bool { return len(c.cfg.MissingCredentials()) == 0 }

func (c *Client) checkConfig() error {
	if missing := c.cfg.MissingCredentials(); len(missing) > 0 {
		return &ConfigurationError{Missing: missing}
	}
	return nil
}

// ListRecords returns every record in the zone. Any failure is logged and
// reported as an empty slice, so callers must read empty as "unknown".
func (c *Client) ListRecords(ctx context.Context) []Record {
	records, err := c.ListRecordsStrict(ctx)
	if err != nil {
		c.logger.Error("failed to list DNS records", "err", err)
		return []Record{}
	}
	return records
}

// ListRecordsStrict is ListRecords with the error returned.
func (c *Client) ListRecordsStrict(ctx context.Context) ([]Record, error) {
	if err := c.checkConfig(); err != nil {
		return nil, err
	}
	var records []Record
	err := c.call(ctx, "list", func(ctx context.Context) error {
		var err error
		records, err = c.provider.List(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []Record{}
	}
	return records, nil
}

// HasARecord reports whether an A record named name exists. A failed lookup
// reads as false.
func (c *Client) HasARecord(ctx context.Context, name string) bool {
	_, ok := FindA(c.ListRecords(ctx), name)
	return ok
}

// UpsertARecord points name at ip, replacing an existing A record or
// creating a new one.
func (c *Client) UpsertARecord(ctx context.Context, name, ip string) (UpsertResult, error) {
	if err := c.checkConfig(); err != nil {
		return UpsertResult{}, err
	}
	if parsed := net.ParseIP(ip); parsed == nil || parsed.To4() == nil {
		return UpsertResult{}, fmt.Errorf("%w: %q", ErrInvalidIP, ip)
	}

	existing, err := c.ListRecordsStrict(ctx)
	if err != nil {
		return UpsertResult{}, fmt.Errorf("look up %s: %w", name, err)
	}

	rec := Record{Type: RecordTypeA, Name: name, Data: ip, TTL: DefaultTTL}
	if _, ok := FindA(existing, name); ok {
		if err := c.call(ctx, "replace", func(ctx context.Context) error {
			return c.provider.Replace(ctx, rec)
		}); err != nil {
			return UpsertResult{}, err
		}
		c.logger.Info("updated A record", "name", name, "ip", ip)
		return UpsertResult{Action: ActionUpdated, Record: rec}, nil
	}

	if err := c.call(ctx, "create", func(ctx context.Context) error {
		return c.provider.Create(ctx, rec)
	}); err != nil {
		return UpsertResult{}, err
	}
	c.logger.Info("created A record", "name", name, "ip", ip)
	return UpsertResult{Action: ActionCreated, Record: rec}, nil
}

// DeleteARecord removes every A record named name. A missing record is a
// *RegistrarError with status 404; see IsNotFound.
func (c *Client) DeleteARecord(ctx context.Context, name string) error {
	if err := c.checkConfig(); err != nil {
		return err
	}
	err := c.call(ctx, "delete", func(ctx context.Context) error {
		return c.provider.Delete(ctx, RecordTypeA, name)
	})
	if err != nil {
		return err
	}
	c.logger.Info("deleted A record", "name", name)
	return nil
}

// call runs one provider operation under the limiter with bounded retries.
func (c *Client) call(ctx context.Context, op string, fn func(context.Context) error) error {
	maxRetries := c.cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	attempt := 0
	operation := func() error {
		attempt++
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return backoff.Permanent(err)
			}
		}

		start := time.Now()
		err := fn(ctx)
		elapsed := time.Since(start)

		switch {
		case err == nil:
			c.metrics.ObserveRegistrar(op, metrics.OutcomeSuccess, elapsed)
			return nil
		case isRetryable(err) && ctx.Err() == nil && attempt <= maxRetries:
			c.metrics.ObserveRegistrar(op, metrics.OutcomeRetry, elapsed)
			c.logger.Warn("registrar call failed, retrying", "op", op, "attempt", attempt, "err", err)
			return err
		default:
			c.metrics.ObserveRegistrar(op, metrics.OutcomeError, elapsed)
			return backoff.Permanent(err)
		}
	}

	b := backoff.WithContext(backoff.WithMaxRetries(c.newBackOff(), uint64(maxRetries)), ctx)
	err := backoff.Retry(operation, b)
	if err == nil {
		return nil
	}

	var perm *backoff.PermanentError
	if errors.As(err, &perm) {
		err = perm.Err
	}
	c.logger.Error("registrar call failed", "op", op, "attempts", attempt, "err", err)
	return err
}
