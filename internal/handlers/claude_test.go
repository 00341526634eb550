package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robinbaebae/sprt/internal/claude/scanner"
	"github.com/robinbaebae/sprt/internal/config"
	"github.com/robinbaebae/sprt/internal/models"
	"github.com/robinbaebae/sprt/internal/services"
)

// stubProber serves fixed rate-limit headers, counting probes.
type stubProber struct {
	calls int
}

func (s *stubProber) ProbeRateLimits() (http.Header, error) {
	s.calls++
	h := http.Header{}
	h.Set("anthropic-ratelimit-unified-status", "allowed")
	h.Set("anthropic-ratelimit-unified-5h-utilization", "0.25")
	return h, nil
}

func newClaudeApp(t *testing.T) (*fiber.App, *stubProber) {
	t.Helper()

	// Point the runtime at an empty Claude directory so tests never read
	// the developer's real credentials or stats cache
	claudeDir := t.TempDir()
	previous := config.Runtime
	config.Runtime = &config.RuntimeConfig{
		ClaudeDir:   claudeDir,
		ProjectsDir: filepath.Join(claudeDir, "projects"),
		SprtDir:     filepath.Join(claudeDir, "sprt"),
	}
	t.Cleanup(func() { config.Runtime = previous })

	prober := &stubProber{}
	handler := NewClaudeHandler(
		scanner.NewScanner(t.TempDir()),
		services.NewRateLimitService(prober),
	)

	app := fiber.New()
	app.Get("/v1/claude/sessions", handler.GetActiveSessions)
	app.Get("/v1/claude/projects", handler.GetProjectUsage)
	app.Get("/v1/claude/realtime", handler.GetRealtimeStats)
	app.Get("/v1/claude/rate-limits", handler.GetRateLimits)
	return app, prober
}

func TestGetActiveSessions_EmptyDir(t *testing.T) {
	app, _ := newClaudeApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/claude/sessions", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestGetProjectUsage_EmptyDir(t *testing.T) {
	app, _ := newClaudeApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/claude/projects", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestGetRealtimeStats_WithoutCredentials(t *testing.T) {
	app, _ := newClaudeApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/claude/realtime", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var stats models.RealtimeStats
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&stats))
	assert.Equal(t, "unknown", stats.PlanType)
}

func TestGetRateLimits(t *testing.T) {
	app, _ := newClaudeApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/claude/rate-limits", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var info models.RateLimitInfo
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&info))
	assert.Equal(t, "allowed", info.Status)
	require.NotNil(t, info.FiveHour)
	assert.Equal(t, 0.25, info.FiveHour.Utilization)
}

func TestGetRateLimits_ForceProbesAgain(t *testing.T) {
	app, prober := newClaudeApp(t)

	_, err := app.Test(httptest.NewRequest("GET", "/v1/claude/rate-limits", nil))
	require.NoError(t, err)
	_, err = app.Test(httptest.NewRequest("GET", "/v1/claude/rate-limits", nil))
	require.NoError(t, err)
	assert.Equal(t, 1, prober.calls)

	_, err = app.Test(httptest.NewRequest("GET", "/v1/claude/rate-limits?force=true", nil))
	require.NoError(t, err)
	assert.Equal(t, 2, prober.calls)
}
