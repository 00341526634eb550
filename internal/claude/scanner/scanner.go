// Package scanner reads Claude Code session transcripts and derives
// activity statistics from them.
package scanner

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/robinbaebae/sprt/internal/claude/paths"
	"github.com/robinbaebae/sprt/internal/logger"
	"github.com/robinbaebae/sprt/internal/models"
)

const (
	// Files idle longer than this are skipped by the realtime scan. Weekly
	// figures undercount sessions inactive beyond the cutoff; accepted.
	realtimeScanCutoff = 48 * time.Hour
	// A session counts as active when its file changed within this window
	activeSessionWindow = 5 * time.Hour
	// Summary-for-date scans only files touched within the last week
	summaryScanCutoff = 7 * 24 * time.Hour

	maxActiveSessions = 20
	maxProjectUsage   = 10

	// Cheap pre-filter applied before JSON-parsing a transcript line
	assistantMarker = `"type":"assistant"`
)

// Scanner reads session transcript files under a Claude projects directory.
// All reads are best effort: unreadable files and malformed lines are
// skipped, a missing projects directory yields empty results.
type Scanner struct {
	projectsDir string
}

// NewScanner creates a scanner over the given projects directory.
func NewScanner(projectsDir string) *Scanner {
	return &Scanner{projectsDir: projectsDir}
}

// transcriptRecord is the subset of a transcript line we care about.
type transcriptRecord struct {
	Type      string `json:"type"`
	Timestamp string `json:"timestamp"`
	Message   *struct {
		Model string `json:"model"`
		Usage *struct {
			InputTokens              int64 `json:"input_tokens"`
			OutputTokens             int64 `json:"output_tokens"`
			CacheReadInputTokens     int64 `json:"cache_read_input_tokens"`
			CacheCreationInputTokens int64 `json:"cache_creation_input_tokens"`
		} `json:"usage"`
	} `json:"message"`
}

// transcriptFile is one discovered session file.
type transcriptFile struct {
	path      string
	project   string // encoded project directory name
	sessionID string
	modTime   time.Time
}

// listTranscripts returns all session files under projects/*/*.jsonl.
func (s *Scanner) listTranscripts() []transcriptFile {
	if _, err := os.Stat(s.projectsDir); err != nil {
		return nil
	}

	matches, err := filepath.Glob(filepath.Join(s.projectsDir, "*", "*.jsonl"))
	if err != nil {
		logger.Warnf("Transcript glob failed: %v", err)
		return nil
	}

	var files []transcriptFile
	for _, path := range matches {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		files = append(files, transcriptFile{
			path:      path,
			project:   filepath.Base(filepath.Dir(path)),
			sessionID: strings.TrimSuffix(filepath.Base(path), ".jsonl"),
			modTime:   info.ModTime(),
		})
	}
	return files
}

// scanAssistantRecords streams a transcript file line by line, invoking fn
// for each parseable assistant record. Errors and junk lines are skipped.
func scanAssistantRecords(path string, fn func(rec *transcriptRecord)) {
	file, err := os.Open(path)
	if err != nil {
		return
	}
	defer file.Close()

	sc := bufio.NewScanner(file)
	// Transcript lines carry full message content and can be large
	sc.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)

	for sc.Scan() {
		line := sc.Text()
		if line == "" || !strings.Contains(line, assistantMarker) {
			continue
		}

		var rec transcriptRecord
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			continue
		}
		if rec.Type != "assistant" {
			continue
		}
		fn(&rec)
	}
}

// RealtimeStats builds the live snapshot: today's and the trailing week's
// message and token counts, per-model token totals, and the number of
// sessions with recent file activity.
func (s *Scanner) RealtimeStats(creds *Credentials) *models.RealtimeStats {
	stats := &models.RealtimeStats{
		PlanType:         "unknown",
		RateLimitTier:    "unknown",
		TodayModelTokens: make(map[string]int64),
		WeekModelTokens:  make(map[string]int64),
	}
	if creds != nil {
		stats.PlanType = creds.SubscriptionType
		stats.RateLimitTier = creds.RateLimitTier
	}

	now := time.Now().UTC()
	todayStr := time.Now().Format("2006-01-02") // local timezone
	weekAgo := now.Add(-7 * 24 * time.Hour)
	var lastActivity time.Time

	for _, f := range s.listTranscripts() {
		if time.Since(f.modTime) > realtimeScanCutoff {
			continue
		}
		if time.Since(f.modTime) < activeSessionWindow {
			stats.ActiveSessions++
		}

		scanAssistantRecords(f.path, func(rec *transcriptRecord) {
			ts, err := time.Parse(time.RFC3339, rec.Timestamp)
			if err != nil {
				return
			}
			if ts.After(lastActivity) {
				lastActivity = ts
			}
			if ts.Before(weekAgo) {
				return
			}

			isToday := ts.Local().Format("2006-01-02") == todayStr

			stats.WeekMessages++
			if isToday {
				stats.TodayMessages++
			}

			if rec.Message == nil || rec.Message.Usage == nil {
				return
			}
			usage := rec.Message.Usage
			model := rec.Message.Model
			if model == "" {
				model = "unknown"
			}
			total := usage.InputTokens + usage.OutputTokens +
				usage.CacheReadInputTokens + usage.CacheCreationInputTokens

			stats.WeekTokens.Input += usage.InputTokens
			stats.WeekTokens.Output += usage.OutputTokens
			stats.WeekTokens.CacheRead += usage.CacheReadInputTokens
			stats.WeekTokens.CacheCreation += usage.CacheCreationInputTokens
			stats.WeekModelTokens[model] += total

			if isToday {
				stats.TodayTokens.Input += usage.InputTokens
				stats.TodayTokens.Output += usage.OutputTokens
				stats.TodayTokens.CacheRead += usage.CacheReadInputTokens
				stats.TodayTokens.CacheCreation += usage.CacheCreationInputTokens
				stats.TodayModelTokens[model] += total
			}
		})
	}

	if !lastActivity.IsZero() {
		stats.LastActivity = lastActivity.Format(time.RFC3339)
	}
	return stats
}

// SessionSummaries returns one summary per transcript file that has at least
// one assistant record on the given date (YYYY-MM-DD). The date is matched
// as a literal prefix of the timestamp string, not as a timezone-aware
// comparison, matching how transcripts are written.
func (s *Scanner) SessionSummaries(date string) []models.SessionSummary {
	var summaries []models.SessionSummary

	for _, f := range s.listTranscripts() {
		if time.Since(f.modTime) > summaryScanCutoff {
			continue
		}

		summary := models.SessionSummary{
			SessionID:   f.sessionID,
			Project:     f.project,
			ProjectPath: paths.DecodeProjectPath(f.project),
		}

		scanAssistantRecords(f.path, func(rec *transcriptRecord) {
			if !strings.HasPrefix(rec.Timestamp, date) {
				return
			}
			summary.MessageCount++
			if summary.FirstMessage == "" {
				summary.FirstMessage = rec.Timestamp
			}
			summary.LastMessage = rec.Timestamp

			if rec.Message != nil && rec.Message.Usage != nil {
				summary.InputTokens += rec.Message.Usage.InputTokens
				summary.OutputTokens += rec.Message.Usage.OutputTokens
				summary.CacheRead += rec.Message.Usage.CacheReadInputTokens
			}
		})

		if summary.MessageCount == 0 {
			continue
		}
		summary.DurationMinutes = durationMinutes(summary.FirstMessage, summary.LastMessage)
		summaries = append(summaries, summary)
	}

	return summaries
}

// durationMinutes returns whole minutes between two RFC3339 timestamps,
// floored at zero. Unparseable inputs yield zero.
func durationMinutes(first, last string) int64 {
	f, err1 := time.Parse(time.RFC3339, first)
	l, err2 := time.Parse(time.RFC3339, last)
	if err1 != nil || err2 != nil {
		return 0
	}
	minutes := int64(l.Sub(f).Minutes())
	if minutes < 0 {
		return 0
	}
	return minutes
}

// ActiveSessions lists the most recently active sessions, newest first,
// capped at 20. Only files modified within the last 48 hours qualify.
func (s *Scanner) ActiveSessions() []models.SessionInfo {
	var sessions []models.SessionInfo

	for _, f := range s.listTranscripts() {
		if time.Since(f.modTime) > realtimeScanCutoff {
			continue
		}
		sessions = append(sessions, models.SessionInfo{
			SessionID:    f.sessionID,
			Project:      f.project,
			MessageCount: countLines(f.path),
			LastActive:   f.modTime.UTC().Format(time.RFC3339),
		})
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].LastActive > sessions[j].LastActive
	})
	if len(sessions) > maxActiveSessions {
		sessions = sessions[:maxActiveSessions]
	}
	return sessions
}

// ProjectUsage lists per-project session and message totals across all
// transcripts, most messages first, capped at 10. Projects are keyed by
// their encoded directory name.
func (s *Scanner) ProjectUsage() []models.ProjectUsage {
	byProject := make(map[string]*models.ProjectUsage)

	for _, f := range s.listTranscripts() {
		usage, ok := byProject[f.project]
		if !ok {
			usage = &models.ProjectUsage{Project: f.project}
			byProject[f.project] = usage
		}
		usage.SessionCount++
		usage.TotalMessages += countLines(f.path)
	}

	usages := make([]models.ProjectUsage, 0, len(byProject))
	for _, u := range byProject {
		usages = append(usages, *u)
	}
	sort.Slice(usages, func(i, j int) bool {
		return usages[i].TotalMessages > usages[j].TotalMessages
	})
	if len(usages) > maxProjectUsage {
		usages = usages[:maxProjectUsage]
	}
	return usages
}

// countLines counts the lines of a file, zero on any error.
func countLines(path string) int64 {
	file, err := os.Open(path)
	if err != nil {
		return 0
	}
	defer file.Close()

	var count int64
	sc := bufio.NewScanner(file)
	sc.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)
	for sc.Scan() {
		count++
	}
	return count
}
