package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robinbaebae/sprt/internal/models"
)

func sampleLog(date, logType string) *models.DevLog {
	return &models.DevLog{
		ID:          date + "-42",
		Date:        date,
		LogType:     logType,
		Summary:     "Did things.",
		Highlights:  []string{"a", "b"},
		SprintScore: 75,
	}
}

func TestSaveAndGet(t *testing.T) {
	store := NewStore(t.TempDir())
	saved := sampleLog("2026-03-14", models.LogTypeDaily)
	require.NoError(t, store.Save(saved))

	got, err := store.Get("2026-03-14", models.LogTypeDaily)
	require.NoError(t, err)
	assert.Equal(t, saved.ID, got.ID)
	assert.Equal(t, saved.Summary, got.Summary)
	assert.Equal(t, saved.Highlights, got.Highlights)
}

func TestGet_NotFound(t *testing.T) {
	store := NewStore(t.TempDir())
	_, err := store.Get("2026-03-14", models.LogTypeDaily)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGet_TypesAreSeparate(t *testing.T) {
	store := NewStore(t.TempDir())
	require.NoError(t, store.Save(sampleLog("2026-03-09", models.LogTypeWeekly)))

	_, err := store.Get("2026-03-09", models.LogTypeDaily)
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := store.Get("2026-03-09", models.LogTypeWeekly)
	require.NoError(t, err)
	assert.Equal(t, models.LogTypeWeekly, got.LogType)
}

func TestMonthlyLogsKeyByMonth(t *testing.T) {
	root := t.TempDir()
	store := NewStore(root)
	require.NoError(t, store.Save(sampleLog("2026-03-01", models.LogTypeMonthly)))

	_, err := os.Stat(filepath.Join(root, "devlogs", "monthly", "2026-03.json"))
	require.NoError(t, err)

	// Any date within the month resolves to the same document
	got, err := store.Get("2026-03-20", models.LogTypeMonthly)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-01", got.Date)
}

func TestList_NewestFirstWithLimit(t *testing.T) {
	store := NewStore(t.TempDir())
	for _, date := range []string{"2026-03-12", "2026-03-14", "2026-03-13"} {
		require.NoError(t, store.Save(sampleLog(date, models.LogTypeDaily)))
	}

	logs, err := store.List(models.LogTypeDaily, 2)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "2026-03-14", logs[0].Date)
	assert.Equal(t, "2026-03-13", logs[1].Date)
}

func TestList_EmptyWhenDirMissing(t *testing.T) {
	store := NewStore(t.TempDir())
	logs, err := store.List(models.LogTypeDaily, 10)
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestList_SkipsMalformedFiles(t *testing.T) {
	root := t.TempDir()
	store := NewStore(root)
	require.NoError(t, store.Save(sampleLog("2026-03-14", models.LogTypeDaily)))

	dir := filepath.Join(root, "devlogs", "daily")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "2026-03-15.json"), []byte("{broken"), 0644))

	logs, err := store.List(models.LogTypeDaily, 10)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "2026-03-14", logs[0].Date)
}
