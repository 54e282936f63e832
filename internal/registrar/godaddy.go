package registrar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/aqall/publisher/internal/config"
)

// GoDaddyBaseURL is the production GoDaddy API root.
const GoDaddyBaseURL = "https://api.godaddy.com/v1"

// GoDaddy talks to the GoDaddy Domains API for a single zone.
type GoDaddy struct {
	baseURL    string
	domain     string
	key        string
	secret     string
	httpClient *http.Client
}

// NewGoDaddy creates a GoDaddy provider. httpClient carries the request timeout.
func NewGoDaddy(cfg config.RegistrarConfig, httpClient *http.Client) *GoDaddy {
	base := cfg.BaseURL
	if base == "" {
		base = GoDaddyBaseURL
	}
	return &GoDaddy{
		baseURL:    base,
		domain:     cfg.Domain,
		key:        cfg.APIKey,
		secret:     cfg.APISecret,
		httpClient: httpClient,
	}
}

func (g *GoDaddy) Name() string { return config.ProviderGoDaddy }

// goDaddyValue is the body element of PUT /records/{type}/{name}.
type goDaddyValue struct {
	Data string `json:"data"`
	TTL  int    `json:"ttl"`
}

// List returns every record in the zone.
func (g *GoDaddy) List(ctx context.Context) ([]Record, error) {
	var records []Record
	if err := g.do(ctx, "list", http.MethodGet, g.recordsPath(), nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// Create adds a record with PATCH, which appends to the zone.
func (g *GoDaddy) Create(ctx context.Context, rec Record) error {
	return g.do(ctx, "create", http.MethodPatch, g.recordsPath(), []Record{rec}, nil)
}

// Replace overwrites all records of the same type and name.
func (g *GoDaddy) Replace(ctx context.Context, rec Record) error {
	body := []goDaddyValue{{Data: rec.Data, TTL: rec.TTL}}
	return g.do(ctx, "replace", http.MethodPut, g.namedPath(rec.Type, rec.Name), body, nil)
}

// Delete removes all records of recordType named name.
func (g *GoDaddy) Delete(ctx context.Context, recordType, name string) error {
	return g.do(ctx, "delete", http.MethodDelete, g.namedPath(recordType, name), nil, nil)
}

func (g *GoDaddy) recordsPath() string {
	return "/domains/" + url.PathEscape(g.domain) + "/records"
}

func (g *GoDaddy) namedPath(recordType, name string) string {
	return g.recordsPath() + "/" + url.PathEscape(recordType) + "/" + url.PathEscape(name)
}

func (g *GoDaddy) do(ctx context.Context, op, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", op, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create %s request: %w", op, err)
	}
	req.Header.Set("Authorization", fmt.Sprintf("sso-key %s:%s", g.key, g.secret))
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("registrar %s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &RegistrarError{Op: op, Status: resp.StatusCode, Body: truncateBody(b)}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", op, err)
	}
	return nil
}
