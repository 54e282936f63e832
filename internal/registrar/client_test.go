package registrar_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/cenkalti/backoff/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aqall/publisher/internal/config"
	"github.com/aqall/publisher/internal/logging"
	"github.com/aqall/publisher/internal/metrics"
	"github.com/aqall/publisher/internal/registrar"
	"github.com/aqall/publisher/internal/registrar/registrartest"
)

func newClient(cfg config.RegistrarConfig, opts ...registrar.Option) *registrar.Client {
	opts = append([]registrar.Option{
		registrar.WithLogger(logging.Discard()),
		registrar.WithBackOff(func() backoff.BackOff { return &backoff.ZeroBackOff{} }),
	}, opts...)
	return registrar.New(cfg, opts...)
}

// =============================================================================
// Configuration
// =============================================================================

func TestClient_MissingCredentialsFailFast(t *testing.T) {
	fake := registrartest.New(t)
	cfg := fake.Config()
	cfg.APIKey = ""
	cfg.APISecret = ""
	c := newClient(cfg)
	ctx := context.Background()

	_, err := c.UpsertARecord(ctx, "blog", "203.0.113.10")
	var ce *registrar.ConfigurationError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, []string{"registrar.api_key", "registrar.api_secret"}, ce.Missing)

	err = c.DeleteARecord(ctx, "blog")
	assert.True(t, registrar.IsConfigurationError(err))

	records := c.ListRecords(ctx)
	assert.NotNil(t, records)
	assert.Empty(t, records)
	assert.False(t, c.HasARecord(ctx, "blog"))
	assert.False(t, c.Configured())

	assert.Equal(t, 0, fake.TotalRequests())
}

func TestClient_ZoneAndHostname(t *testing.T) {
	fake := registrartest.New(t)
	c := newClient(fake.Config())

	assert.Equal(t, "aqall.dev", c.Zone())
	assert.Equal(t, "blog.aqall.dev", c.Hostname("blog"))
	assert.True(t, c.Configured())
}

// =============================================================================
// Upsert
// =============================================================================

func TestClient_UpsertCreatesMissingRecord(t *testing.T) {
	fake := registrartest.New(t,
		registrar.Record{Type: "CNAME", Name: "blog", Data: "elsewhere.example.", TTL: 600},
	)
	c := newClient(fake.Config())

	res, err := c.UpsertARecord(context.Background(), "blog", "203.0.113.10")
	require.NoError(t, err)

	assert.Equal(t, registrar.ActionCreated, res.Action)
	assert.Equal(t, 1, fake.Requests(http.MethodPatch))
	assert.Equal(t, 0, fake.Requests(http.MethodPut))
	assert.Equal(t, []registrar.Record{
		{Type: "A", Name: "blog", Data: "203.0.113.10", TTL: 3600},
	}, fake.ARecords("blog"))
}

func TestClient_UpsertReplacesExistingRecord(t *testing.T) {
	fake := registrartest.New(t,
		registrar.Record{Type: "A", Name: "blog", Data: "198.51.100.1", TTL: 600},
		registrar.Record{Type: "A", Name: "shop", Data: "198.51.100.2", TTL: 600},
	)
	c := newClient(fake.Config())

	res, err := c.UpsertARecord(context.Background(), "blog", "203.0.113.10")
	require.NoError(t, err)

	assert.Equal(t, registrar.ActionUpdated, res.Action)
	assert.Equal(t, 0, fake.Requests(http.MethodPatch))
	assert.Equal(t, 1, fake.Requests(http.MethodPut))
	assert.Equal(t, []registrar.Record{
		{Type: "A", Name: "blog", Data: "203.0.113.10", TTL: 3600},
	}, fake.ARecords("blog"))
	assert.Len(t, fake.ARecords("shop"), 1)
}

func TestClient_UpsertAlwaysWritesDefaultTTL(t *testing.T) {
	t.Setenv("PUBLISHER_REGISTRAR_TTL", "60")
	cfg, err := config.Load("")
	require.NoError(t, err)

	fake := registrartest.New(t,
		registrar.Record{Type: "A", Name: "shop", Data: "198.51.100.2", TTL: 60},
	)
	fc := fake.Config()
	cfg.Registrar.Domain = fc.Domain
	cfg.Registrar.APIKey = fc.APIKey
	cfg.Registrar.APISecret = fc.APISecret
	cfg.Registrar.BaseURL = fc.BaseURL
	cfg.Registrar.RequestsPerMinute = 0
	c := newClient(cfg.Registrar)
	ctx := context.Background()

	res, err := c.UpsertARecord(ctx, "blog", "203.0.113.10")
	require.NoError(t, err)
	assert.Equal(t, registrar.DefaultTTL, res.Record.TTL)

	_, err = c.UpsertARecord(ctx, "shop", "203.0.113.11")
	require.NoError(t, err)

	assert.Equal(t, []registrar.Record{{Type: "A", Name: "blog", Data: "203.0.113.10", TTL: 3600}}, fake.ARecords("blog"))
	assert.Equal(t, []registrar.Record{{Type: "A", Name: "shop", Data: "203.0.113.11", TTL: 3600}}, fake.ARecords("shop"))
}

func TestClient_UpsertTwiceKeepsSingleRecord(t *testing.T) {
	fake := registrartest.New(t)
	c := newClient(fake.Config())
	ctx := context.Background()

	_, err := c.UpsertARecord(ctx, "blog", "203.0.113.10")
	require.NoError(t, err)
	res, err := c.UpsertARecord(ctx, "blog", "203.0.113.11")
	require.NoError(t, err)

	assert.Equal(t, registrar.ActionUpdated, res.Action)
	require.Len(t, fake.ARecords("blog"), 1)
	assert.Equal(t, "203.0.113.11", fake.ARecords("blog")[0].Data)
}

func TestClient_UpsertRejectsInvalidIP(t *testing.T) {
	fake := registrartest.New(t)
	c := newClient(fake.Config())

	for _, ip := range []string{"", "not-an-ip", "2001:db8::1", "300.1.1.1"} {
		_, err := c.UpsertARecord(context.Background(), "blog", ip)
		assert.ErrorIs(t, err, registrar.ErrInvalidIP, ip)
	}
	assert.Equal(t, 0, fake.TotalRequests())
}

func TestClient_UpsertDoesNotCreateWhenLookupFails(t *testing.T) {
	fake := registrartest.New(t)
	fake.FailNext(403)
	c := newClient(fake.Config())

	_, err := c.UpsertARecord(context.Background(), "blog", "203.0.113.10")

	var re *registrar.RegistrarError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, http.StatusForbidden, re.Status)
	assert.Equal(t, 0, fake.Requests(http.MethodPatch))
}

func TestClient_WrongCredentials(t *testing.T) {
	fake := registrartest.New(t)
	cfg := fake.Config()
	cfg.APISecret = "wrong"
	c := newClient(cfg)

	_, err := c.UpsertARecord(context.Background(), "blog", "203.0.113.10")

	var re *registrar.RegistrarError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, http.StatusUnauthorized, re.Status)
	assert.Contains(t, re.Body, "UNABLE_TO_AUTHENTICATE")
}

// =============================================================================
// Delete
// =============================================================================

func TestClient_DeleteRemovesRecord(t *testing.T) {
	fake := registrartest.New(t,
		registrar.Record{Type: "A", Name: "blog", Data: "203.0.113.10", TTL: 3600},
	)
	c := newClient(fake.Config())

	require.NoError(t, c.DeleteARecord(context.Background(), "blog"))
	assert.Empty(t, fake.ARecords("blog"))
}

func TestClient_DeleteMissingIsNotFound(t *testing.T) {
	fake := registrartest.New(t)
	c := newClient(fake.Config())

	err := c.DeleteARecord(context.Background(), "ghost")
	require.Error(t, err)
	assert.True(t, registrar.IsNotFound(err))
	assert.Equal(t, 1, fake.Requests(http.MethodDelete))
}

// =============================================================================
// List
// =============================================================================

func TestClient_HasARecordIsExactMatch(t *testing.T) {
	fake := registrartest.New(t,
		registrar.Record{Type: "A", Name: "Blog", Data: "203.0.113.10", TTL: 3600},
		registrar.Record{Type: "TXT", Name: "shop", Data: "v=spf1", TTL: 3600},
	)
	c := newClient(fake.Config())
	ctx := context.Background()

	assert.True(t, c.HasARecord(ctx, "Blog"))
	assert.False(t, c.HasARecord(ctx, "blog"))
	assert.False(t, c.HasARecord(ctx, "shop"))
}

func TestClient_ListRecordsSwallowsFailures(t *testing.T) {
	fake := registrartest.New(t)
	fake.FailNext(500, 500, 500, 500)
	c := newClient(fake.Config())

	records := c.ListRecords(context.Background())
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestClient_ListRecordsStrictReturnsError(t *testing.T) {
	fake := registrartest.New(t)
	fake.FailNext(404)
	c := newClient(fake.Config())

	_, err := c.ListRecordsStrict(context.Background())
	assert.True(t, registrar.IsNotFound(err))
}

// =============================================================================
// Retries
// =============================================================================

func TestClient_RetriesTransientFailures(t *testing.T) {
	tests := []struct {
		name     string
		failures []int
	}{
		{"server errors", []int{503, 502}},
		{"rate limited", []int{429}},
		{"mixed", []int{500, 429, 504}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := registrartest.New(t,
				registrar.Record{Type: "A", Name: "blog", Data: "203.0.113.10", TTL: 3600},
			)
			fake.FailNext(tt.failures...)
			c := newClient(fake.Config())

			records, err := c.ListRecordsStrict(context.Background())
			require.NoError(t, err)
			assert.Len(t, records, 1)
			assert.Equal(t, len(tt.failures)+1, fake.Requests(http.MethodGet))
		})
	}
}

func TestClient_DoesNotRetryClientErrors(t *testing.T) {
	fake := registrartest.New(t)
	fake.FailNext(422)
	c := newClient(fake.Config())

	_, err := c.ListRecordsStrict(context.Background())

	var re *registrar.RegistrarError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, 422, re.Status)
	assert.Equal(t, 1, fake.Requests(http.MethodGet))
}

func TestClient_GivesUpAfterMaxRetries(t *testing.T) {
	fake := registrartest.New(t)
	fake.FailNext(500, 500, 500, 500, 500)
	cfg := fake.Config()
	cfg.MaxRetries = 2
	c := newClient(cfg)

	_, err := c.ListRecordsStrict(context.Background())

	var re *registrar.RegistrarError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, 500, re.Status)
	assert.Equal(t, 3, fake.Requests(http.MethodGet))
}

func TestClient_CanceledContextIsNotRetried(t *testing.T) {
	fake := registrartest.New(t)
	c := newClient(fake.Config())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.ListRecordsStrict(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.LessOrEqual(t, fake.TotalRequests(), 1)
}

func TestClient_RecordsMetrics(t *testing.T) {
	fake := registrartest.New(t)
	fake.FailNext(503)
	reg := prometheus.NewRegistry()
	c := newClient(fake.Config(), registrar.WithMetrics(metrics.New(reg)))

	_, err := c.UpsertARecord(context.Background(), "blog", "203.0.113.10")
	require.NoError(t, err)

	// list: retry + success, create: success
	n, err := testutil.GatherAndCount(reg, "publisher_registrar_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestClient_ExhaustedRetriesRecordError(t *testing.T) {
	fake := registrartest.New(t)
	fake.FailNext(500, 503, 500)
	cfg := fake.Config()
	cfg.MaxRetries = 2
	reg := prometheus.NewRegistry()
	c := newClient(cfg, registrar.WithMetrics(metrics.New(reg)))

	_, err := c.ListRecordsStrict(context.Background())
	require.Error(t, err)
	assert.Equal(t, 3, fake.Requests(http.MethodGet))

	expected := `
# HELP publisher_registrar_requests_total Registrar API calls by operation and outcome.
# TYPE publisher_registrar_requests_total counter
publisher_registrar_requests_total{op="list",outcome="error"} 1
publisher_registrar_requests_total{op="list",outcome="retry"} 2
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "publisher_registrar_requests_total"))
}

// =============================================================================
// Provider injection
// =============================================================================

type stubProvider struct {
	records []registrar.Record
	created []registrar.Record
	err     error
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) List(context.Context) ([]registrar.Record, error) {
	return s.records, s.err
}

func (s *stubProvider) Create(_ context.Context, rec registrar.Record) error {
	s.created = append(s.created, rec)
	return s.err
}

func (s *stubProvider) Replace(context.Context, registrar.Record) error { return s.err }

func (s *stubProvider) Delete(context.Context, string, string) error { return s.err }

func TestClient_WithProvider(t *testing.T) {
	stub := &stubProvider{}
	cfg := config.RegistrarConfig{Domain: "aqall.dev", APIKey: "k", APISecret: "s"}
	c := newClient(cfg, registrar.WithProvider(stub))

	res, err := c.UpsertARecord(context.Background(), "blog", "203.0.113.10")
	require.NoError(t, err)
	assert.Equal(t, registrar.ActionCreated, res.Action)
	assert.Equal(t, []registrar.Record{{Type: "A", Name: "blog", Data: "203.0.113.10", TTL: 3600}}, stub.created)
}

func TestClient_TransportErrorsAreRetried(t *testing.T) {
	stub := &stubProvider{err: errors.New("connection reset by peer")}
	cfg := config.RegistrarConfig{Domain: "aqall.dev", APIKey: "k", APISecret: "s", MaxRetries: 2}
	calls := 0
	c := newClient(cfg, registrar.WithProvider(&countingProvider{Provider: stub, calls: &calls}))

	_, err := c.ListRecordsStrict(context.Background())
	require.Error(t, err)
	assert.Equal(t, 3, calls)
}

type countingProvider struct {
	registrar.Provider
	calls *int
}

func (p *countingProvider) List(ctx context.Context) ([]registrar.Record, error) {
	*p.calls++
	return p.Provider.List(ctx)
}
