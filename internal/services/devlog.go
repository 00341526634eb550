package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/robinbaebae/sprt/internal/claude/scanner"
	"github.com/robinbaebae/sprt/internal/git"
	"github.com/robinbaebae/sprt/internal/logger"
	"github.com/robinbaebae/sprt/internal/models"
	"github.com/robinbaebae/sprt/internal/storage"
)

// Domain failure reasons the UI messages differently from crashes.
var (
	// ErrNoActivity means neither git nor sessions had data for the date.
	ErrNoActivity = errors.New("no activity found for this date, nothing to generate")
	// ErrNoDailyLogs means a weekly log was requested for a week without
	// any generated daily logs.
	ErrNoDailyLogs = errors.New("no daily logs found for this week, generate daily logs first")
)

const devlogSystemPrompt = `You are a development journal writer for SPRT (Sprint), a developer productivity tool.
Given git commits, Claude Code session data, and code statistics, write a concise daily development log.

Respond ONLY with valid JSON (no markdown fences, no extra text) in this exact format:
{
  "summary": "2-3 sentence overview of what was accomplished",
  "highlights": ["key accomplishment 1", "key accomplishment 2", ...],
  "sprint_score": 75,
  "project_notes": {
    "project-name": ["key change 1", "key change 2"]
  }
}

Guidelines:
- summary: Focus on outcomes, not process. Be specific about features/fixes.
- highlights: 3-5 bullet points of the most important accomplishments.
- sprint_score: 0-100 based on productivity. Consider commits, code volume, session duration.
  - 90-100: Exceptional day (many commits, major features)
  - 70-89: Productive day (steady progress)
  - 50-69: Moderate day (some progress)
  - 30-49: Light day (minor work)
  - 0-29: Minimal activity
- project_notes: Key changes per project (used for project cards).
- Write in English. Keep it factual and concise.`

const weeklySystemPrompt = `You are a development journal writer for SPRT (Sprint).
Given a collection of daily development logs, write a weekly summary report.

Respond ONLY with valid JSON (no markdown fences, no extra text) in this exact format:
{
  "summary": "3-5 sentence weekly overview",
  "highlights": ["weekly highlight 1", "weekly highlight 2", ...],
  "sprint_score": 75,
  "project_notes": {
    "project-name": ["key change 1", "key change 2"]
  }
}

Guidelines:
- Summarize the week's progress at a high level.
- Identify patterns (e.g., "focused heavily on X project").
- sprint_score is the week's average productivity.
- Write in English.`

// Summarizer produces the natural-language summary for a rendered prompt.
// AnthropicService is the production implementation; tests inject counters.
type Summarizer interface {
	Summarize(system, prompt string) (string, error)
}

// DevLogService orchestrates devlog generation: collect activity, build the
// prompt, call the summarizer, parse its constrained JSON response, persist.
// Generation is idempotent per (date, logType): an existing stored log is
// returned without touching the summarizer.
type DevLogService struct {
	store      *storage.Store
	harvester  *git.Harvester
	scanner    *scanner.Scanner
	summarizer Summarizer
}

// NewDevLogService wires the generator's collaborators.
func NewDevLogService(store *storage.Store, harvester *git.Harvester, sc *scanner.Scanner, summarizer Summarizer) *DevLogService {
	return &DevLogService{
		store:      store,
		harvester:  harvester,
		scanner:    sc,
		summarizer: summarizer,
	}
}

// Generate returns the devlog for (date, logType), generating and persisting
// it when no stored copy exists.
func (s *DevLogService) Generate(date, logType string) (*models.DevLog, error) {
	existing, err := s.store.Get(date, logType)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	switch logType {
	case models.LogTypeDaily:
		return s.generateDaily(date)
	case models.LogTypeWeekly:
		return s.generateWeekly(date)
	default:
		return nil, fmt.Errorf("unknown log type: %s", logType)
	}
}

// Get returns the stored devlog, storage.ErrNotFound when absent.
func (s *DevLogService) Get(date, logType string) (*models.DevLog, error) {
	return s.store.Get(date, logType)
}

// List returns up to limit stored devlogs of a type, newest first.
func (s *DevLogService) List(logType string, limit int) ([]models.DevLog, error) {
	return s.store.List(logType, limit)
}

// GitActivity exposes raw harvested activity for a date to the UI layer.
func (s *DevLogService) GitActivity(date string) []models.GitActivity {
	return s.harvester.CollectActivity(date)
}

// aiResponse is the constrained JSON shape the summarizer must return.
type aiResponse struct {
	Summary      string              `json:"summary"`
	Highlights   []string            `json:"highlights"`
	SprintScore  *int                `json:"sprint_score"`
	ProjectNotes map[string][]string `json:"project_notes"`
}

// parseAIResponse parses the summarizer's reply strictly as JSON. A parse
// failure is fatal for the request: no retries, no repair heuristics.
// Missing fields take defaults.
func parseAIResponse(text string) (*aiResponse, error) {
	var parsed aiResponse
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %v. Raw: %s", err, text)
	}

	if parsed.Summary == "" {
		parsed.Summary = "No summary generated."
	}
	if parsed.Highlights == nil {
		parsed.Highlights = []string{}
	}
	if parsed.SprintScore == nil {
		defaultScore := 50
		parsed.SprintScore = &defaultScore
	}
	if parsed.ProjectNotes == nil {
		parsed.ProjectNotes = map[string][]string{}
	}
	return &parsed, nil
}

// newLogID derives a devlog id from the date plus a coarse sub-second
// disambiguator. Reduces, not eliminates, collision risk on rapid retries.
func newLogID(prefix, date string) string {
	return fmt.Sprintf("%s%s-%d", prefix, date, time.Now().UnixMilli()%10000)
}

func (s *DevLogService) generateDaily(date string) (*models.DevLog, error) {
	gitData := s.harvester.CollectActivity(date)
	sessions := s.scanner.SessionSummaries(date)

	if len(gitData) == 0 && len(sessions) == 0 {
		return nil, ErrNoActivity
	}

	stats := BuildStats(gitData, sessions)
	projectsWorked := BuildProjectWork(gitData, sessions)

	prompt := buildDailyPrompt(date, gitData, sessions, stats)
	logger.Debugf("Generating daily devlog for %s (%d repos, %d sessions)", date, len(gitData), len(sessions))

	text, err := s.summarizer.Summarize(devlogSystemPrompt, prompt)
	if err != nil {
		return nil, err
	}
	parsed, err := parseAIResponse(text)
	if err != nil {
		return nil, err
	}

	// Project notes from the model overwrite matching entries' key changes
	for i := range projectsWorked {
		if notes, ok := parsed.ProjectNotes[projectsWorked[i].Name]; ok {
			projectsWorked[i].KeyChanges = notes
		}
	}

	devlog := &models.DevLog{
		ID:             newLogID("", date),
		Date:           date,
		LogType:        models.LogTypeDaily,
		GeneratedAt:    time.Now().UTC().Format(time.RFC3339),
		Summary:        parsed.Summary,
		Highlights:     parsed.Highlights,
		ProjectsWorked: projectsWorked,
		Stats:          stats,
		SprintScore:    *parsed.SprintScore,
	}

	if err := s.store.Save(devlog); err != nil {
		return nil, err
	}
	return devlog, nil
}

func (s *DevLogService) generateWeekly(weekStart string) (*models.DevLog, error) {
	startDate, err := time.Parse("2006-01-02", weekStart)
	if err != nil {
		return nil, fmt.Errorf("invalid week start date %q: %w", weekStart, err)
	}

	var dailyLogs []models.DevLog
	var allStats models.DevLogStats
	allProjects := make(map[string]*models.ProjectWork)

	for i := 0; i < 7; i++ {
		day := startDate.AddDate(0, 0, i).Format("2006-01-02")
		log, err := s.store.Get(day, models.LogTypeDaily)
		if err != nil {
			// Missing days are skipped, never regenerated here
			continue
		}

		allStats.TotalCommits += log.Stats.TotalCommits
		allStats.TotalMessages += log.Stats.TotalMessages
		allStats.TotalTokens += log.Stats.TotalTokens
		allStats.TotalFilesChanged += log.Stats.TotalFilesChanged
		allStats.TotalInsertions += log.Stats.TotalInsertions
		allStats.TotalDeletions += log.Stats.TotalDeletions
		allStats.ActiveHours += log.Stats.ActiveHours

		for _, pw := range log.ProjectsWorked {
			entry, ok := allProjects[pw.Name]
			if !ok {
				entry = &models.ProjectWork{Name: pw.Name, Path: pw.Path, KeyChanges: []string{}}
				allProjects[pw.Name] = entry
			}
			entry.Commits += pw.Commits
			entry.Messages += pw.Messages
			entry.Tokens += pw.Tokens
			entry.DurationMinutes += pw.DurationMinutes
		}

		dailyLogs = append(dailyLogs, *log)
	}

	if len(dailyLogs) == 0 {
		return nil, ErrNoDailyLogs
	}
	allStats.ProjectsCount = len(allProjects)

	prompt := buildWeeklyPrompt(dailyLogs)
	text, err := s.summarizer.Summarize(weeklySystemPrompt, prompt)
	if err != nil {
		return nil, err
	}
	parsed, err := parseAIResponse(text)
	if err != nil {
		return nil, err
	}

	projectsWorked := make([]models.ProjectWork, 0, len(allProjects))
	for _, p := range allProjects {
		projectsWorked = append(projectsWorked, *p)
	}
	sortProjectWork(projectsWorked)

	devlog := &models.DevLog{
		ID:             newLogID("w-", weekStart),
		Date:           weekStart,
		LogType:        models.LogTypeWeekly,
		GeneratedAt:    time.Now().UTC().Format(time.RFC3339),
		Summary:        parsed.Summary,
		Highlights:     parsed.Highlights,
		ProjectsWorked: projectsWorked,
		Stats:          allStats,
		SprintScore:    *parsed.SprintScore,
	}

	if err := s.store.Save(devlog); err != nil {
		return nil, err
	}
	return devlog, nil
}

// buildDailyPrompt renders the deterministic text block the summarizer sees:
// overview stats, per-repo commit lines, then per-session lines.
func buildDailyPrompt(date string, gitData []models.GitActivity, sessions []models.SessionSummary, stats models.DevLogStats) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Generate a daily development log for %s.\n\n", date)
	fmt.Fprintf(&b,
		"## Overview Stats\n- Commits: %d\n- Messages: %d\n- Tokens: %d\n- Files changed: %d (+%d -%d)\n- Active hours: %.1f\n- Projects: %d\n\n",
		stats.TotalCommits, stats.TotalMessages, stats.TotalTokens,
		stats.TotalFilesChanged, stats.TotalInsertions, stats.TotalDeletions,
		stats.ActiveHours, stats.ProjectsCount)

	if len(gitData) > 0 {
		b.WriteString("## Git Activity\n")
		for _, g := range gitData {
			fmt.Fprintf(&b, "### %s (branch: %s)\n", g.RepoName, g.Branch)
			for _, c := range g.Commits {
				hash := c.Hash
				if len(hash) > 7 {
					hash = hash[:7]
				}
				fmt.Fprintf(&b, "- [%s] %s (+%d -%d)\n", hash, c.Message, c.Insertions, c.Deletions)
			}
			b.WriteString("\n")
		}
	}

	if len(sessions) > 0 {
		b.WriteString("## Claude Code Sessions\n")
		for i := range sessions {
			s := &sessions[i]
			name := projectNameForSession(s)
			fmt.Fprintf(&b, "- Project: %s, Messages: %d, Duration: %dmin, Tokens: %d\n",
				name, s.MessageCount, s.DurationMinutes, s.InputTokens+s.OutputTokens)
		}
	}

	return b.String()
}

// buildWeeklyPrompt renders one block per constituent daily log.
func buildWeeklyPrompt(dailyLogs []models.DevLog) string {
	var b strings.Builder
	b.WriteString("Generate a weekly summary from these daily logs:\n\n")

	for _, log := range dailyLogs {
		fmt.Fprintf(&b, "## %s\nScore: %d/100\nSummary: %s\nHighlights:\n",
			log.Date, log.SprintScore, log.Summary)
		for _, h := range log.Highlights {
			fmt.Fprintf(&b, "- %s\n", h)
		}
		fmt.Fprintf(&b, "Stats: %d commits, %d messages, %.1fh active\n\n",
			log.Stats.TotalCommits, log.Stats.TotalMessages, log.Stats.ActiveHours)
	}

	return b.String()
}
