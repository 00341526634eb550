package services

import (
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/robinbaebae/sprt/internal/models"
)

const rateLimitCacheTTL = 60 * time.Second

// RateLimitProber obtains the unified rate-limit headers, normally an
// AnthropicService.
type RateLimitProber interface {
	ProbeRateLimits() (http.Header, error)
}

// RateLimitService caches the account's rate-limit state. A single slot is
// enough: only the local operator's account exists. Concurrent callers past
// an expired cache may both probe; last writer wins.
type RateLimitService struct {
	prober RateLimitProber

	mu        sync.Mutex
	cached    *models.RateLimitInfo
	fetchedAt time.Time
}

// NewRateLimitService creates a rate-limit service over the given prober.
func NewRateLimitService(prober RateLimitProber) *RateLimitService {
	return &RateLimitService{prober: prober}
}

// GetRateLimits returns the cached state when fresh (60s), otherwise probes
// the API. force bypasses the cache.
func (s *RateLimitService) GetRateLimits(force bool) (*models.RateLimitInfo, error) {
	if !force {
		s.mu.Lock()
		if s.cached != nil && time.Since(s.fetchedAt) < rateLimitCacheTTL {
			info := *s.cached
			s.mu.Unlock()
			return &info, nil
		}
		s.mu.Unlock()
	}

	headers, err := s.prober.ProbeRateLimits()
	if err != nil {
		return nil, fmt.Errorf("rate limit probe failed: %w", err)
	}

	info := parseRateLimitHeaders(headers)

	s.mu.Lock()
	s.cached = info
	s.fetchedAt = time.Now()
	s.mu.Unlock()

	return info, nil
}

// CachedUtilization returns the five-hour utilization from the cache without
// probing, for callers that must not block (the tray title updater).
func (s *RateLimitService) CachedUtilization() (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached == nil || s.cached.FiveHour == nil {
		return 0, false
	}
	return s.cached.FiveHour.Utilization, true
}

// parseRateLimitHeaders reads the anthropic-ratelimit-unified-* header
// family into a RateLimitInfo.
func parseRateLimitHeaders(headers http.Header) *models.RateLimitInfo {
	getStr := func(name string) string {
		return headers.Get(name)
	}
	getF64 := func(name string) *float64 {
		if v, err := strconv.ParseFloat(getStr(name), 64); err == nil {
			return &v
		}
		return nil
	}
	getI64 := func(name string) *int64 {
		if v, err := strconv.ParseInt(getStr(name), 10, 64); err == nil {
			return &v
		}
		return nil
	}

	parseClaim := func(window string) *models.UsageClaim {
		utilization := getF64(fmt.Sprintf("anthropic-ratelimit-unified-%s-utilization", window))
		if utilization == nil {
			return nil
		}
		status := getStr(fmt.Sprintf("anthropic-ratelimit-unified-%s-status", window))
		if status == "" {
			status = "unknown"
		}
		return &models.UsageClaim{
			Utilization: *utilization,
			Reset:       getI64(fmt.Sprintf("anthropic-ratelimit-unified-%s-reset", window)),
			Status:      status,
		}
	}

	status := getStr("anthropic-ratelimit-unified-status")
	if status == "" {
		status = "unknown"
	}

	return &models.RateLimitInfo{
		Status:                status,
		RepresentativeClaim:   getStr("anthropic-ratelimit-unified-representative-claim"),
		FiveHour:              parseClaim("5h"),
		SevenDay:              parseClaim("7d"),
		SevenDaySonnet:        parseClaim("7d_sonnet"),
		OverageStatus:         getStr("anthropic-ratelimit-unified-overage-status"),
		OverageDisabledReason: getStr("anthropic-ratelimit-unified-overage-disabled-reason"),
		OverageReset:          getI64("anthropic-ratelimit-unified-overage-reset"),
		FallbackPercentage:    getF64("anthropic-ratelimit-unified-fallback-percentage"),
		CheckedAt:             time.Now().UTC().Format(time.RFC3339),
	}
}
