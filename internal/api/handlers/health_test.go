package handlers_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aqall/publisher/internal/api/models"
	"github.com/aqall/publisher/internal/config"
)

func TestHealth(t *testing.T) {
	env := newTestEnv(t, nil)

	w := env.do(http.MethodGet, "/health", "", "")

	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[models.HealthResponse](t, w)
	assert.True(t, resp.Success)
	assert.Equal(t, "Aqall Backend API is running", resp.Message)
	assert.WithinDuration(t, time.Now(), resp.Timestamp, time.Minute)
	assert.Zero(t, env.fake.TotalRequests(), "health must not call the registrar")
}

func TestStats(t *testing.T) {
	env := newTestEnv(t, nil)

	w := env.do(http.MethodGet, "/api/stats", "", "")

	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[models.ServerStatsResponse](t, w)
	assert.True(t, resp.Success)
	assert.Positive(t, resp.GoRoutines)
	assert.Positive(t, resp.NumCPU)
	assert.Equal(t, "aqall.dev", resp.Registrar.Zone)
	assert.True(t, resp.Registrar.Configured)
	assert.True(t, resp.Database.Healthy)
	assert.Equal(t, uint(1), resp.Database.SchemaVersion)
	assert.Contains(t, resp.Database.Path, "handlers.db")
	assert.Empty(t, resp.Database.Error)
}

func TestStats_Unconfigured(t *testing.T) {
	env := newTestEnv(t, func(c *config.RegistrarConfig) { c.APIKey = "" })

	w := env.do(http.MethodGet, "/api/stats", "", "")

	resp := decode[models.ServerStatsResponse](t, w)
	assert.False(t, resp.Registrar.Configured)
	assert.Equal(t, "godaddy", resp.Registrar.Provider)
	assert.NotContains(t, w.Body.String(), "test-secret")
}
