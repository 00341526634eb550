package models

// LogType values accepted by the devlog store. Monthly is reserved for the
// storage path scheme; no generator produces it yet.
const (
	LogTypeDaily   = "daily"
	LogTypeWeekly  = "weekly"
	LogTypeMonthly = "monthly"
)

// DevLog is a generated development summary for a day or a week.
type DevLog struct {
	// Identifier derived from the date plus a sub-second disambiguator
	ID string `json:"id"`
	// Day (daily) or week-start (weekly) in YYYY-MM-DD
	Date string `json:"date"`
	// One of daily, weekly, monthly
	LogType string `json:"logType"`
	// RFC3339 generation timestamp
	GeneratedAt string `json:"generatedAt"`
	// Natural-language summary from the model
	Summary string `json:"summary"`
	// Ordered highlight bullets
	Highlights []string `json:"highlights"`
	// Per-project merged activity
	ProjectsWorked []ProjectWork `json:"projectsWorked"`
	// Global roll-up statistics
	Stats DevLogStats `json:"stats"`
	// 0-100 productivity score assigned by the model
	SprintScore int `json:"sprintScore"`
}

// ProjectWork is the merged activity view for one project, unified by the
// resolved project name across git and session sources.
type ProjectWork struct {
	Name            string   `json:"name"`
	Path            string   `json:"path"`
	Commits         int      `json:"commits"`
	Messages        int64    `json:"messages"`
	Tokens          int64    `json:"tokens"`
	DurationMinutes int64    `json:"durationMinutes"`
	KeyChanges      []string `json:"keyChanges"`
}

// DevLogStats is the global roll-up across all projects for one devlog.
type DevLogStats struct {
	TotalCommits      int     `json:"totalCommits"`
	TotalMessages     int64   `json:"totalMessages"`
	TotalTokens       int64   `json:"totalTokens"`
	TotalFilesChanged int     `json:"totalFilesChanged"`
	TotalInsertions   int     `json:"totalInsertions"`
	TotalDeletions    int     `json:"totalDeletions"`
	ActiveHours       float64 `json:"activeHours"`
	ProjectsCount     int     `json:"projectsCount"`
}

// SessionSummary is the per-transcript aggregate for one calendar date.
// Built fresh for each generation request, never persisted on its own.
type SessionSummary struct {
	SessionID       string `json:"sessionId"`
	Project         string `json:"project"`     // raw encoded directory name
	ProjectPath     string `json:"projectPath"` // resolved filesystem path
	MessageCount    int64  `json:"messageCount"`
	InputTokens     int64  `json:"inputTokens"`
	OutputTokens    int64  `json:"outputTokens"`
	CacheRead       int64  `json:"cacheRead"`
	DurationMinutes int64  `json:"durationMinutes"`
	FirstMessage    string `json:"firstMessage,omitempty"`
	LastMessage     string `json:"lastMessage,omitempty"`
}

// TotalTokens returns the token sum counted toward devlog stats.
func (s *SessionSummary) TotalTokens() int64 {
	return s.InputTokens + s.OutputTokens + s.CacheRead
}
