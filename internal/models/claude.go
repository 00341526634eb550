package models

// StatsCache mirrors ~/.claude/stats-cache.json, the aggregate statistics
// file Claude Code maintains itself. We consume it verbatim and re-expose it.
type StatsCache struct {
	Version                      int                   `json:"version,omitempty"`
	LastComputedDate             string                `json:"lastComputedDate,omitempty"`
	DailyActivity                []DailyActivity       `json:"dailyActivity"`
	DailyModelTokens             []DailyModelTokens    `json:"dailyModelTokens"`
	ModelUsage                   map[string]ModelUsage `json:"modelUsage"`
	TotalSessions                int64                 `json:"totalSessions"`
	TotalMessages                int64                 `json:"totalMessages"`
	LongestSession               *LongestSession       `json:"longestSession,omitempty"`
	FirstSessionDate             string                `json:"firstSessionDate,omitempty"`
	HourCounts                   map[string]int64      `json:"hourCounts,omitempty"`
	TotalSpeculationTimeSavedMs  int64                 `json:"totalSpeculationTimeSavedMs,omitempty"`
}

// DailyActivity is one day's message/session/tool-call counts.
type DailyActivity struct {
	Date          string `json:"date"`
	MessageCount  int64  `json:"messageCount"`
	SessionCount  int64  `json:"sessionCount"`
	ToolCallCount int64  `json:"toolCallCount"`
}

// DailyModelTokens is one day's token totals keyed by model name.
type DailyModelTokens struct {
	Date          string           `json:"date"`
	TokensByModel map[string]int64 `json:"tokensByModel"`
}

// ModelUsage is the lifetime usage for a single model.
type ModelUsage struct {
	InputTokens              int64    `json:"inputTokens"`
	OutputTokens             int64    `json:"outputTokens"`
	CacheReadInputTokens     *int64   `json:"cacheReadInputTokens,omitempty"`
	CacheCreationInputTokens *int64   `json:"cacheCreationInputTokens,omitempty"`
	WebSearchRequests        *int64   `json:"webSearchRequests,omitempty"`
	CostUSD                  *float64 `json:"costUSD,omitempty"`
	ContextWindow            *int64   `json:"contextWindow,omitempty"`
	MaxOutputTokens          *int64   `json:"maxOutputTokens,omitempty"`
}

// LongestSession identifies the longest recorded session.
type LongestSession struct {
	SessionID    string `json:"sessionId"`
	Duration     int64  `json:"duration"`
	MessageCount int64  `json:"messageCount"`
	Timestamp    string `json:"timestamp"`
}

// SessionInfo is a lightweight listing entry for a recently active session.
type SessionInfo struct {
	SessionID    string `json:"sessionId"`
	Project      string `json:"project"`
	MessageCount int64  `json:"messageCount"`
	LastActive   string `json:"lastActive"`
}

// ProjectUsage is the per-project session/message totals listing entry.
type ProjectUsage struct {
	Project       string `json:"project"`
	SessionCount  int64  `json:"sessionCount"`
	TotalMessages int64  `json:"totalMessages"`
}

// TokenUsage groups token counts by category.
type TokenUsage struct {
	Input         int64 `json:"input"`
	Output        int64 `json:"output"`
	CacheRead     int64 `json:"cacheRead"`
	CacheCreation int64 `json:"cacheCreation"`
}

// RealtimeStats is the live snapshot assembled from transcript files:
// today in the local timezone, the trailing 7 days in UTC. Only files
// modified within the last 48 hours are scanned, so weekly figures
// undercount sessions idle for longer - an accepted approximation.
type RealtimeStats struct {
	LastActivity     string           `json:"lastActivity,omitempty"`
	TodayMessages    int64            `json:"todayMessages"`
	TodayTokens      TokenUsage       `json:"todayTokens"`
	WeekMessages     int64            `json:"weekMessages"`
	WeekTokens       TokenUsage       `json:"weekTokens"`
	ActiveSessions   int64            `json:"activeSessions"`
	PlanType         string           `json:"planType"`
	RateLimitTier    string           `json:"rateLimitTier"`
	TodayModelTokens map[string]int64 `json:"todayModelTokens"`
	WeekModelTokens  map[string]int64 `json:"weekModelTokens"`
}

// UsageClaim is one rate-limit window parsed from the unified headers.
type UsageClaim struct {
	Utilization float64 `json:"utilization"` // 0.0 - 1.0
	Reset       *int64  `json:"reset,omitempty"`
	Status      string  `json:"status"` // allowed, allowed_warning, rejected
}

// RateLimitInfo is the plan/quota state read from the API's
// anthropic-ratelimit-unified-* response headers.
type RateLimitInfo struct {
	Status                string      `json:"status"`
	RepresentativeClaim   string      `json:"representativeClaim,omitempty"`
	FiveHour              *UsageClaim `json:"fiveHour,omitempty"`
	SevenDay              *UsageClaim `json:"sevenDay,omitempty"`
	SevenDaySonnet        *UsageClaim `json:"sevenDaySonnet,omitempty"`
	OverageStatus         string      `json:"overageStatus,omitempty"`
	OverageDisabledReason string      `json:"overageDisabledReason,omitempty"`
	OverageReset          *int64      `json:"overageReset,omitempty"`
	FallbackPercentage    *float64    `json:"fallbackPercentage,omitempty"`
	CheckedAt             string      `json:"checkedAt"`
}
