package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTranscript(t *testing.T, projectsDir, project, session string, lines ...string) string {
	t.Helper()
	dir := filepath.Join(projectsDir, project)
	require.NoError(t, os.MkdirAll(dir, 0755))

	path := filepath.Join(dir, session+".jsonl")
	content := ""
	for _, line := range lines {
		content += line + "\n"
	}
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func assistantLine(timestamp, model string, input, output int64) string {
	return fmt.Sprintf(`{"type":"assistant","timestamp":%q,"message":{"model":%q,"usage":{"input_tokens":%d,"output_tokens":%d}}}`,
		timestamp, model, input, output)
}

func TestSessionSummaries_AggregatesOneSession(t *testing.T) {
	projectsDir := t.TempDir()
	writeTranscript(t, projectsDir, "-Users-alice-app", "session-1",
		assistantLine("2026-03-14T10:00:00Z", "claude-sonnet-4-20250514", 100, 50),
		assistantLine("2026-03-14T10:30:00Z", "claude-sonnet-4-20250514", 200, 75),
		`{"type":"user","timestamp":"2026-03-14T10:31:00Z"}`,
	)

	summaries := NewScanner(projectsDir).SessionSummaries("2026-03-14")
	require.Len(t, summaries, 1)

	s := summaries[0]
	assert.Equal(t, "session-1", s.SessionID)
	assert.Equal(t, "-Users-alice-app", s.Project)
	assert.Equal(t, int64(2), s.MessageCount)
	assert.Equal(t, int64(300), s.InputTokens)
	assert.Equal(t, int64(125), s.OutputTokens)
	assert.Equal(t, int64(30), s.DurationMinutes)
}

func TestSessionSummaries_CountsMessagesWithoutUsage(t *testing.T) {
	projectsDir := t.TempDir()
	writeTranscript(t, projectsDir, "-Users-alice-app", "session-1",
		`{"type":"assistant","timestamp":"2026-03-14T10:00:00Z","message":{"model":"claude-sonnet-4-20250514"}}`,
	)

	summaries := NewScanner(projectsDir).SessionSummaries("2026-03-14")
	require.Len(t, summaries, 1)
	assert.Equal(t, int64(1), summaries[0].MessageCount)
	assert.Equal(t, int64(0), summaries[0].InputTokens)
}

func TestSessionSummaries_FiltersByDate(t *testing.T) {
	projectsDir := t.TempDir()
	writeTranscript(t, projectsDir, "-Users-alice-app", "session-1",
		assistantLine("2026-03-13T23:59:00Z", "m", 10, 10),
		assistantLine("2026-03-14T00:01:00Z", "m", 20, 20),
	)

	summaries := NewScanner(projectsDir).SessionSummaries("2026-03-14")
	require.Len(t, summaries, 1)
	assert.Equal(t, int64(1), summaries[0].MessageCount)
	assert.Equal(t, int64(20), summaries[0].InputTokens)

	assert.Empty(t, NewScanner(projectsDir).SessionSummaries("2026-03-12"))
}

func TestSessionSummaries_SkipsMalformedLines(t *testing.T) {
	projectsDir := t.TempDir()
	writeTranscript(t, projectsDir, "-Users-alice-app", "session-1",
		`not json at all "type":"assistant"`,
		assistantLine("2026-03-14T10:00:00Z", "m", 5, 5),
	)

	summaries := NewScanner(projectsDir).SessionSummaries("2026-03-14")
	require.Len(t, summaries, 1)
	assert.Equal(t, int64(1), summaries[0].MessageCount)
}

func TestSessionSummaries_SkipsStaleFiles(t *testing.T) {
	projectsDir := t.TempDir()
	path := writeTranscript(t, projectsDir, "-Users-alice-app", "session-1",
		assistantLine("2026-03-14T10:00:00Z", "m", 5, 5),
	)
	stale := time.Now().Add(-8 * 24 * time.Hour)
	require.NoError(t, os.Chtimes(path, stale, stale))

	assert.Empty(t, NewScanner(projectsDir).SessionSummaries("2026-03-14"))
}

func TestRealtimeStats_TodayAndWeek(t *testing.T) {
	projectsDir := t.TempDir()
	now := time.Now().UTC()
	today := now.Add(-2 * time.Minute).Format(time.RFC3339)
	thisWeek := now.Add(-3 * 24 * time.Hour).Format(time.RFC3339)
	lastMonth := now.Add(-30 * 24 * time.Hour).Format(time.RFC3339)

	writeTranscript(t, projectsDir, "-Users-alice-app", "session-1",
		assistantLine(today, "claude-sonnet-4-20250514", 100, 50),
		assistantLine(thisWeek, "claude-opus-4", 200, 100),
		assistantLine(lastMonth, "claude-opus-4", 999, 999),
	)

	stats := NewScanner(projectsDir).RealtimeStats(nil)

	assert.Equal(t, int64(1), stats.TodayMessages)
	assert.Equal(t, int64(2), stats.WeekMessages)
	assert.Equal(t, int64(100), stats.TodayTokens.Input)
	assert.Equal(t, int64(300), stats.WeekTokens.Input)
	assert.Equal(t, int64(150), stats.TodayModelTokens["claude-sonnet-4-20250514"])
	assert.Equal(t, int64(300), stats.WeekModelTokens["claude-opus-4"])
	assert.Equal(t, int64(1), stats.ActiveSessions)
	assert.Equal(t, "unknown", stats.PlanType)
}

func TestRealtimeStats_SkipsIdleFiles(t *testing.T) {
	projectsDir := t.TempDir()
	now := time.Now().UTC()
	path := writeTranscript(t, projectsDir, "-Users-alice-app", "session-1",
		assistantLine(now.Format(time.RFC3339), "m", 100, 50),
	)
	idle := time.Now().Add(-72 * time.Hour)
	require.NoError(t, os.Chtimes(path, idle, idle))

	stats := NewScanner(projectsDir).RealtimeStats(nil)
	assert.Equal(t, int64(0), stats.WeekMessages)
	assert.Equal(t, int64(0), stats.ActiveSessions)
}

func TestRealtimeStats_UsesCredentialsPlan(t *testing.T) {
	stats := NewScanner(t.TempDir()).RealtimeStats(&Credentials{
		SubscriptionType: "max",
		RateLimitTier:    "default_claude_max_20x",
	})
	assert.Equal(t, "max", stats.PlanType)
	assert.Equal(t, "default_claude_max_20x", stats.RateLimitTier)
}

func TestRealtimeStats_MissingProjectsDir(t *testing.T) {
	stats := NewScanner(filepath.Join(t.TempDir(), "missing")).RealtimeStats(nil)
	assert.Equal(t, int64(0), stats.WeekMessages)
	assert.Equal(t, int64(0), stats.ActiveSessions)
}

func TestActiveSessions_SortedNewestFirst(t *testing.T) {
	projectsDir := t.TempDir()
	older := writeTranscript(t, projectsDir, "-Users-alice-app", "old-session",
		assistantLine("2026-03-14T10:00:00Z", "m", 1, 1),
	)
	writeTranscript(t, projectsDir, "-Users-alice-web", "new-session",
		assistantLine("2026-03-14T11:00:00Z", "m", 1, 1),
		assistantLine("2026-03-14T11:01:00Z", "m", 1, 1),
	)
	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(older, past, past))

	sessions := NewScanner(projectsDir).ActiveSessions()
	require.Len(t, sessions, 2)
	assert.Equal(t, "new-session", sessions[0].SessionID)
	assert.Equal(t, int64(2), sessions[0].MessageCount)
	assert.Equal(t, "old-session", sessions[1].SessionID)
}

func TestProjectUsage_GroupsByProject(t *testing.T) {
	projectsDir := t.TempDir()
	writeTranscript(t, projectsDir, "-Users-alice-app", "s1",
		assistantLine("2026-03-14T10:00:00Z", "m", 1, 1),
	)
	writeTranscript(t, projectsDir, "-Users-alice-app", "s2",
		assistantLine("2026-03-14T10:00:00Z", "m", 1, 1),
		assistantLine("2026-03-14T10:01:00Z", "m", 1, 1),
	)
	writeTranscript(t, projectsDir, "-Users-alice-web", "s3",
		assistantLine("2026-03-14T10:00:00Z", "m", 1, 1),
	)

	usages := NewScanner(projectsDir).ProjectUsage()
	require.Len(t, usages, 2)
	assert.Equal(t, "-Users-alice-app", usages[0].Project)
	assert.Equal(t, int64(2), usages[0].SessionCount)
	assert.Equal(t, int64(3), usages[0].TotalMessages)
	assert.Equal(t, "-Users-alice-web", usages[1].Project)
}

func TestDurationMinutes(t *testing.T) {
	assert.Equal(t, int64(90), durationMinutes("2026-03-14T10:00:00Z", "2026-03-14T11:30:00Z"))
	assert.Equal(t, int64(0), durationMinutes("2026-03-14T11:00:00Z", "2026-03-14T10:00:00Z"))
	assert.Equal(t, int64(0), durationMinutes("garbage", "2026-03-14T10:00:00Z"))
}
