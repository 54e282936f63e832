package reconciler_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aqall/publisher/internal/logging"
	"github.com/aqall/publisher/internal/reconciler"
	"github.com/aqall/publisher/internal/registrar"
	"github.com/aqall/publisher/internal/registrar/registrartest"
)

func setup(t *testing.T, seed ...registrar.Record) (*reconciler.Reconciler, *registrartest.Server) {
	t.Helper()
	fake := registrartest.New(t, seed...)
	client := registrar.New(fake.Config(),
		registrar.WithLogger(logging.Discard()),
		registrar.WithBackOff(func() backoff.BackOff { return &backoff.ZeroBackOff{} }),
	)
	return reconciler.New(client, logging.Discard()), fake
}

func TestReconcile_CreatesRecord(t *testing.T) {
	r, fake := setup(t)

	res, err := r.Reconcile(context.Background(), "acme", "203.0.113.5")
	require.NoError(t, err)

	assert.Equal(t, "acme.aqall.dev", res.Hostname)
	assert.Equal(t, registrar.ActionCreated, res.Action)
	assert.Equal(t, []registrar.Record{
		{Type: "A", Name: "acme", Data: "203.0.113.5", TTL: 3600},
	}, fake.ARecords("acme"))
}

func TestReconcile_UpdatesInPlace(t *testing.T) {
	r, fake := setup(t,
		registrar.Record{Type: "A", Name: "acme", Data: "198.51.100.7", TTL: 600},
	)
	before := len(fake.Records())

	res, err := r.Reconcile(context.Background(), "acme", "203.0.113.5")
	require.NoError(t, err)

	assert.Equal(t, registrar.ActionUpdated, res.Action)
	assert.Len(t, fake.Records(), before)
	require.Len(t, fake.ARecords("acme"), 1)
	assert.Equal(t, "203.0.113.5", fake.ARecords("acme")[0].Data)
}

func TestReconcile_TwiceLeavesOneRecord(t *testing.T) {
	r, fake := setup(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := r.Reconcile(ctx, "acme", "203.0.113.5")
		require.NoError(t, err)
	}
	assert.Len(t, fake.ARecords("acme"), 1)
}

func TestReconcile_PropagatesRegistrarError(t *testing.T) {
	r, fake := setup(t)
	// list (swallowed by ListRecords), then the strict lookup inside upsert
	fake.FailNext(400, 400)

	_, err := r.Reconcile(context.Background(), "acme", "203.0.113.5")

	var re *registrar.RegistrarError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, http.StatusBadRequest, re.Status)
	assert.Empty(t, fake.ARecords("acme"))
}

func TestRemove(t *testing.T) {
	r, fake := setup(t,
		registrar.Record{Type: "A", Name: "acme", Data: "203.0.113.5", TTL: 3600},
	)
	ctx := context.Background()

	require.NoError(t, r.Remove(ctx, "acme"))
	assert.Empty(t, fake.ARecords("acme"))

	// Already gone.
	require.NoError(t, r.Remove(ctx, "acme"))
}

func TestRemove_PropagatesOtherErrors(t *testing.T) {
	r, fake := setup(t)
	fake.FailNext(http.StatusForbidden)

	err := r.Remove(context.Background(), "acme")

	var re *registrar.RegistrarError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, http.StatusForbidden, re.Status)
}

func TestLookup(t *testing.T) {
	r, _ := setup(t,
		registrar.Record{Type: "A", Name: "acme", Data: "203.0.113.5", TTL: 3600},
	)
	ctx := context.Background()

	rec, ok := r.Lookup(ctx, "acme")
	require.True(t, ok)
	assert.Equal(t, "203.0.113.5", rec.Data)

	_, ok = r.Lookup(ctx, "other")
	assert.False(t, ok)
	assert.Equal(t, "other.aqall.dev", r.Hostname("other"))
}
