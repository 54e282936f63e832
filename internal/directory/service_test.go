package directory_test

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aqall/publisher/internal/database"
	"github.com/aqall/publisher/internal/directory"
	"github.com/aqall/publisher/internal/logging"
	"github.com/aqall/publisher/internal/metrics"
)

// clock advances one second per call.
type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

func newService(t *testing.T, opts ...directory.Option) *directory.Service {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "directory.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	c := &clock{t: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)}
	opts = append([]directory.Option{
		directory.WithLogger(logging.Discard()),
		directory.WithClock(c.Now),
	}, opts...)
	return directory.New(db, opts...)
}

// =============================================================================
// Claim
// =============================================================================

func TestClaim_NewName(t *testing.T) {
	svc := newService(t)

	rec, err := svc.Claim(context.Background(), "u1", "w1", "  Acme ")
	require.NoError(t, err)

	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, "acme", rec.Subdomain)
	assert.Equal(t, "u1", rec.OwnerID)
	assert.Equal(t, "w1", rec.WebsiteID)
	assert.Equal(t, directory.StatusPending, rec.Status)
}

func TestClaim_SameOwnerRepublishes(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	first, err := svc.Claim(ctx, "u1", "w1", "acme")
	require.NoError(t, err)
	_, err = svc.MarkFailed(ctx, first.ID)
	require.NoError(t, err)

	second, err := svc.Claim(ctx, "u1", "w2", "acme")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "w2", second.WebsiteID)
	assert.Equal(t, directory.StatusPending, second.Status)
	assert.True(t, second.UpdatedAt.After(first.UpdatedAt))
}

func TestClaim_OtherOwnerGetsNameTaken(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	rec, err := svc.Claim(ctx, "u1", "w1", "acme")
	require.NoError(t, err)
	_, err = svc.MarkActive(ctx, rec.ID)
	require.NoError(t, err)

	_, err = svc.Claim(ctx, "u2", "w2", "ACME")
	var taken *directory.NameTakenError
	require.ErrorAs(t, err, &taken)
	assert.Equal(t, "acme", taken.Subdomain)
}

func TestClaim_FailedNameIsReleasedToOthers(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	rec, err := svc.Claim(ctx, "u1", "w1", "acme")
	require.NoError(t, err)
	_, err = svc.MarkFailed(ctx, rec.ID)
	require.NoError(t, err)

	taken, err := svc.Claim(ctx, "u2", "w2", "acme")
	require.NoError(t, err)
	assert.Equal(t, "u2", taken.OwnerID)
	assert.NotEqual(t, rec.ID, taken.ID)
}

func TestClaim_InvalidNames(t *testing.T) {
	svc := newService(t)

	tests := []string{"", "   ", "a.b", "-acme", "acme-", "ac_me", "ac me", "www", "API",
		"abcdefghijabcdefghijabcdefghijabcdefghijabcdefghijabcdefghijabcd"}
	for _, name := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Claim(context.Background(), "u1", "w1", name)
			var invalid *directory.InvalidNameError
			assert.ErrorAs(t, err, &invalid)
		})
	}
}

func TestClaim_CustomReserved(t *testing.T) {
	svc := newService(t, directory.WithReserved([]string{"Status"}))
	ctx := context.Background()

	_, err := svc.Claim(ctx, "u1", "w1", "status")
	var invalid *directory.InvalidNameError
	assert.ErrorAs(t, err, &invalid)

	_, err = svc.Claim(ctx, "u1", "w1", "www")
	assert.NoError(t, err)
}

func TestClaim_RequiresOwner(t *testing.T) {
	svc := newService(t)
	_, err := svc.Claim(context.Background(), "", "w1", "acme")
	assert.ErrorIs(t, err, directory.ErrOwnerRequired)
}

func TestClaim_ConcurrentOwners(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	const n = 12
	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		won   int
		taken int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.Claim(ctx, fmt.Sprintf("u%d", i), "w", "acme")
			mu.Lock()
			defer mu.Unlock()
			var nt *directory.NameTakenError
			switch {
			case err == nil:
				won++
			case assert.ErrorAs(t, err, &nt):
				taken++
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, won)
	assert.Equal(t, n-1, taken)
}

func TestClaim_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	svc := newService(t, directory.WithMetrics(metrics.New(reg)))
	ctx := context.Background()

	_, err := svc.Claim(ctx, "u1", "w1", "acme")
	require.NoError(t, err)
	_, err = svc.Claim(ctx, "u2", "w1", "acme")
	require.Error(t, err)

	n, err := testutil.GatherAndCount(reg, "publisher_directory_claims_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

// =============================================================================
// Status transitions
// =============================================================================

func TestMarkActive_Idempotent(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	rec, err := svc.Claim(ctx, "u1", "w1", "acme")
	require.NoError(t, err)

	active, err := svc.MarkActive(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, directory.StatusActive, active.Status)
	assert.True(t, active.UpdatedAt.After(rec.UpdatedAt))

	again, err := svc.MarkActive(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, directory.StatusActive, again.Status)
	assert.True(t, again.UpdatedAt.Equal(active.UpdatedAt))
}

func TestMarkFailed_UnknownID(t *testing.T) {
	svc := newService(t)

	_, err := svc.MarkFailed(context.Background(), "missing")
	var nf *directory.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "missing", nf.ID)
}

// =============================================================================
// Release, list, resolve
// =============================================================================

func TestRelease(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.Claim(ctx, "u1", "w1", "acme")
	require.NoError(t, err)

	_, err = svc.Release(ctx, "u2", "acme")
	var notOwner *directory.NotOwnerError
	require.ErrorAs(t, err, &notOwner)

	rec, err := svc.Release(ctx, "u1", "ACME")
	require.NoError(t, err)
	assert.Equal(t, "acme", rec.Subdomain)

	_, err = svc.Get(ctx, "acme")
	var nf *directory.NotFoundError
	assert.ErrorAs(t, err, &nf)

	_, err = svc.Release(ctx, "u1", "acme")
	assert.ErrorAs(t, err, &nf)
}

func TestListForOwner(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	for _, name := range []string{"one", "two", "three"} {
		_, err := svc.Claim(ctx, "u1", "w", name)
		require.NoError(t, err)
	}
	_, err := svc.Claim(ctx, "u2", "w", "four")
	require.NoError(t, err)

	recs, err := svc.ListForOwner(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, "three", recs[0].Subdomain)
	assert.Equal(t, "one", recs[2].Subdomain)

	recs, err = svc.ListForOwner(ctx, "nobody")
	require.NoError(t, err)
	assert.NotNil(t, recs)
	assert.Empty(t, recs)
}

func TestResolve_OnlyActive(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	rec, err := svc.Claim(ctx, "u1", "w1", "acme")
	require.NoError(t, err)

	var nf *directory.NotFoundError
	_, err = svc.Resolve(ctx, "acme")
	assert.ErrorAs(t, err, &nf)

	_, err = svc.MarkActive(ctx, rec.ID)
	require.NoError(t, err)

	got, err := svc.Resolve(ctx, "Acme")
	require.NoError(t, err)
	assert.Equal(t, "w1", got.WebsiteID)

	_, err = svc.Resolve(ctx, "nothing")
	assert.ErrorAs(t, err, &nf)
}

func TestCheckUnclaimed(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	assert.NoError(t, svc.CheckUnclaimed(ctx, "ghost"))

	pending, err := svc.Claim(ctx, "u1", "w1", "acme")
	require.NoError(t, err)
	var taken *directory.NameTakenError
	require.ErrorAs(t, svc.CheckUnclaimed(ctx, "ACME"), &taken)
	assert.Equal(t, "acme", taken.Subdomain)

	_, err = svc.MarkActive(ctx, pending.ID)
	require.NoError(t, err)
	assert.ErrorAs(t, svc.CheckUnclaimed(ctx, "acme"), &taken)

	failed, err := svc.Claim(ctx, "u1", "w2", "shop")
	require.NoError(t, err)
	_, err = svc.MarkFailed(ctx, failed.ID)
	require.NoError(t, err)
	assert.NoError(t, svc.CheckUnclaimed(ctx, "shop"))

	var invalid *directory.InvalidNameError
	assert.ErrorAs(t, svc.CheckUnclaimed(ctx, "a.b"), &invalid)
}
