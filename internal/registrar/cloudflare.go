package registrar

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/cloudflare/cloudflare-go"

	"github.com/aqall/publisher/internal/config"
)

// Cloudflare manages one zone through the Cloudflare v4 API.
//
// Cloudflare reports names as FQDNs; this provider converts them to labels
// relative to the zone so callers see the same shape as with GoDaddy.
type Cloudflare struct {
	cfg        config.RegistrarConfig
	httpClient *http.Client
	transport  *statusTransport

	mu     sync.Mutex
	api    *cloudflare.API
	zoneID string
}

// NewCloudflare creates a Cloudflare provider. The API client and the zone id
// are resolved on first use so a process can start without credentials.
func NewCloudflare(cfg config.RegistrarConfig, httpClient *http.Client) *Cloudflare {
	hc := *httpClient
	base := hc.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	st := &statusTransport{base: base}
	hc.Transport = st
	return &Cloudflare{cfg: cfg, httpClient: &hc, transport: st}
}

func (c *Cloudflare) Name() string { return config.ProviderCloudflare }

// zone returns the API client and zone identifier, looking the zone up once.
func (c *Cloudflare) zone(ctx context.Context) (*cloudflare.API, *cloudflare.ResourceContainer, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.api == nil {
		opts := []cloudflare.Option{
			cloudflare.HTTPClient(c.httpClient),
			// Client owns retries and throttling.
			cloudflare.UsingRetryPolicy(0, 0, 0),
			cloudflare.UsingRateLimit(1000),
		}
		if c.cfg.BaseURL != "" {
			opts = append(opts, cloudflare.BaseURL(c.cfg.BaseURL))
		}
		api, err := cloudflare.NewWithAPIToken(c.cfg.APIKey, opts...)
		if err != nil {
			return nil, nil, fmt.Errorf("cloudflare client: %w", err)
		}
		c.api = api
	}

	if c.zoneID == "" {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		// ZoneIDByName takes no context, so its status lands in last.
		c.transport.last.Store(0)
		id, err := c.api.ZoneIDByName(c.cfg.Domain)
		if err != nil {
			status := int(c.transport.last.Load())
			if status < 400 && strings.Contains(strings.ToLower(err.Error()), "could not be found") {
				status = http.StatusNotFound
			}
			return nil, nil, cloudflareError("zone", status, err)
		}
		c.zoneID = id
	}
	return c.api, cloudflare.ZoneIdentifier(c.zoneID), nil
}

func (c *Cloudflare) List(ctx context.Context) ([]Record, error) {
	api, rc, err := c.zone(ctx)
	if err != nil {
		return nil, err
	}
	ctx, status := trackStatus(ctx)
	recs, _, err := api.ListDNSRecords(ctx, rc, cloudflare.ListDNSRecordsParams{})
	if err != nil {
		return nil, cloudflareError("list", *status, err)
	}

	out := make([]Record, 0, len(recs))
	for _, r := range recs {
		out = append(out, Record{Type: r.Type, Name: c.label(r.Name), Data: r.Content, TTL: r.TTL})
	}
	return out, nil
}

func (c *Cloudflare) Create(ctx context.Context, rec Record) error {
	api, rc, err := c.zone(ctx)
	if err != nil {
		return err
	}
	ctx, status := trackStatus(ctx)
	_, err = api.CreateDNSRecord(ctx, rc, cloudflare.CreateDNSRecordParams{
		Type:    rec.Type,
		Name:    c.fqdn(rec.Name),
		Content: rec.Data,
		TTL:     rec.TTL,
	})
	if err != nil {
		return cloudflareError("create", *status, err)
	}
	return nil
}

func (c *Cloudflare) Replace(ctx context.Context, rec Record) error {
	api, rc, err := c.zone(ctx)
	if err != nil {
		return err
	}
	ids, err := c.find(ctx, api, rc, rec.Type, rec.Name)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return &RegistrarError{Op: "replace", Status: http.StatusNotFound, Body: "no " + rec.Type + " record named " + rec.Name}
	}

	for _, id := range ids {
		ctx, status := trackStatus(ctx)
		_, err := api.UpdateDNSRecord(ctx, rc, cloudflare.UpdateDNSRecordParams{
			ID:      id,
			Type:    rec.Type,
			Name:    c.fqdn(rec.Name),
			Content: rec.Data,
			TTL:     rec.TTL,
		})
		if err != nil {
			return cloudflareError("replace", *status, err)
		}
	}
	return nil
}

func (c *Cloudflare) Delete(ctx context.Context, recordType, name string) error {
	api, rc, err := c.zone(ctx)
	if err != nil {
		return err
	}
	ids, err := c.find(ctx, api, rc, recordType, name)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return &RegistrarError{Op: "delete", Status: http.StatusNotFound, Body: "no " + recordType + " record named " + name}
	}

	for _, id := range ids {
		ctx, status := trackStatus(ctx)
		if err := api.DeleteDNSRecord(ctx, rc, id); err != nil {
			return cloudflareError("delete", *status, err)
		}
	}
	return nil
}

func (c *Cloudflare) find(ctx context.Context, api *cloudflare.API, rc *cloudflare.ResourceContainer, recordType, name string) ([]string, error) {
	ctx, status := trackStatus(ctx)
	recs, _, err := api.ListDNSRecords(ctx, rc, cloudflare.ListDNSRecordsParams{
		Type: recordType,
		Name: c.fqdn(name),
	})
	if err != nil {
		return nil, cloudflareError("list", *status, err)
	}
	ids := make([]string, 0, len(recs))
	for _, r := range recs {
		ids = append(ids, r.ID)
	}
	return ids, nil
}

func (c *Cloudflare) fqdn(label string) string {
	if label == "" || label == "@" {
		return c.cfg.Domain
	}
	return label + "." + c.cfg.Domain
}

func (c *Cloudflare) label(fqdn string) string {
	fqdn = strings.TrimSuffix(fqdn, ".")
	if fqdn == c.cfg.Domain {
		return "@"
	}
	return strings.TrimSuffix(fqdn, "."+c.cfg.Domain)
}

// cloudflareError maps a cloudflare-go error to a RegistrarError when the
// API answered with an HTTP status, keeping transport errors as they are.
func cloudflareError(op string, status int, err error) error {
	if status >= 400 {
		return &RegistrarError{Op: op, Status: status, Body: truncateBody([]byte(err.Error()))}
	}
	return fmt.Errorf("registrar %s: %w", op, err)
}

// statusTransport records the status of each response into a holder
// carried by the request context, or into last when there is none.
// cloudflare-go hides the status behind its own error types.
type statusTransport struct {
	base http.RoundTripper
	last atomic.Int32
}

type statusKey struct{}

func (t *statusTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if resp != nil {
		if holder, ok := req.Context().Value(statusKey{}).(*int); ok {
			*holder = resp.StatusCode
		} else {
			t.last.Store(int32(resp.StatusCode))
		}
	}
	return resp, err
}

func trackStatus(ctx context.Context) (context.Context, *int) {
	status := new(int)
	return context.WithValue(ctx, statusKey{}, status), status
}
