package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robinbaebae/sprt/internal/claude/scanner"
	"github.com/robinbaebae/sprt/internal/git"
	"github.com/robinbaebae/sprt/internal/git/executor"
	"github.com/robinbaebae/sprt/internal/models"
	"github.com/robinbaebae/sprt/internal/services"
	"github.com/robinbaebae/sprt/internal/storage"
)

// stubSummarizer returns one canned response.
type stubSummarizer struct {
	response string
}

func (s *stubSummarizer) Summarize(system, prompt string) (string, error) {
	return s.response, nil
}

func newTestApp(t *testing.T) (*fiber.App, *storage.Store) {
	t.Helper()
	empty := t.TempDir()
	store := storage.NewStore(t.TempDir())
	devlogs := services.NewDevLogService(store,
		git.NewHarvester(empty, executor.NewInMemoryExecutor()),
		scanner.NewScanner(empty),
		&stubSummarizer{response: `{"summary":"ok","sprint_score":60}`})

	handler := NewDevLogHandler(devlogs)

	app := fiber.New()
	app.Post("/v1/devlogs/generate", handler.Generate)
	app.Get("/v1/devlogs/:type/:date", handler.Get)
	app.Get("/v1/devlogs/:type", handler.List)
	app.Get("/v1/git/activity", handler.GetGitActivity)
	return app, store
}

func TestGenerate_InvalidBody(t *testing.T) {
	app, _ := newTestApp(t)

	req := httptest.NewRequest("POST", "/v1/devlogs/generate", strings.NewReader("not json"))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestGenerate_InvalidDate(t *testing.T) {
	app, _ := newTestApp(t)

	req := httptest.NewRequest("POST", "/v1/devlogs/generate",
		strings.NewReader(`{"date":"03/14/2026","log_type":"daily"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Contains(t, body["error"], "YYYY-MM-DD")
}

func TestGenerate_InvalidLogType(t *testing.T) {
	app, _ := newTestApp(t)

	req := httptest.NewRequest("POST", "/v1/devlogs/generate",
		strings.NewReader(`{"date":"2026-03-14","log_type":"hourly"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestGenerate_NoActivityIsConflict(t *testing.T) {
	app, _ := newTestApp(t)

	req := httptest.NewRequest("POST", "/v1/devlogs/generate",
		strings.NewReader(`{"date":"2026-03-14","log_type":"daily"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 409, resp.StatusCode)
}

func TestGet_NotFound(t *testing.T) {
	app, _ := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/devlogs/daily/2026-03-14", nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestGet_ReturnsStoredLog(t *testing.T) {
	app, store := newTestApp(t)
	require.NoError(t, store.Save(&models.DevLog{
		ID:      "2026-03-14-42",
		Date:    "2026-03-14",
		LogType: models.LogTypeDaily,
		Summary: "Shipped it.",
	}))

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/devlogs/daily/2026-03-14", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var devlog models.DevLog
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&devlog))
	assert.Equal(t, "Shipped it.", devlog.Summary)
}

func TestGet_InvalidType(t *testing.T) {
	app, _ := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/devlogs/hourly/2026-03-14", nil))
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestList(t *testing.T) {
	app, store := newTestApp(t)
	for _, date := range []string{"2026-03-12", "2026-03-13", "2026-03-14"} {
		require.NoError(t, store.Save(&models.DevLog{
			ID: date + "-1", Date: date, LogType: models.LogTypeDaily,
		}))
	}

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/devlogs/daily?limit=2", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var logs []models.DevLog
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&logs))
	require.Len(t, logs, 2)
	assert.Equal(t, "2026-03-14", logs[0].Date)
}

func TestList_InvalidLimit(t *testing.T) {
	app, _ := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/devlogs/daily?limit=zero", nil))
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestGetGitActivity_RequiresDate(t *testing.T) {
	app, _ := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/git/activity", nil))
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestGetGitActivity_EmptyWhenNoRepos(t *testing.T) {
	app, _ := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/git/activity?date=2026-03-14", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}
