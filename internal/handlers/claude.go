// Package handlers exposes the aggregation pipeline over HTTP for the
// menu-bar UI.
package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/robinbaebae/sprt/internal/claude/scanner"
	"github.com/robinbaebae/sprt/internal/config"
	"github.com/robinbaebae/sprt/internal/services"
)

// ClaudeHandler handles Claude Code usage and rate-limit endpoints.
type ClaudeHandler struct {
	scanner   *scanner.Scanner
	rateLimit *services.RateLimitService
}

// NewClaudeHandler creates a new Claude handler.
func NewClaudeHandler(sc *scanner.Scanner, rateLimit *services.RateLimitService) *ClaudeHandler {
	return &ClaudeHandler{
		scanner:   sc,
		rateLimit: rateLimit,
	}
}

// GetStatsCache returns the pre-aggregated stats cache maintained by Claude
// Code itself, passed through verbatim.
func (h *ClaudeHandler) GetStatsCache(c *fiber.Ctx) error {
	cache, err := scanner.ReadStatsCache(config.Runtime.StatsCachePath())
	if err != nil {
		return c.Status(500).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(cache)
}

// GetActiveSessions returns sessions with transcript activity inside the
// five-hour window, newest first.
func (h *ClaudeHandler) GetActiveSessions(c *fiber.Ctx) error {
	return c.JSON(h.scanner.ActiveSessions())
}

// GetProjectUsage returns per-project usage over the last week, heaviest
// first.
func (h *ClaudeHandler) GetProjectUsage(c *fiber.Ctx) error {
	return c.JSON(h.scanner.ProjectUsage())
}

// GetRealtimeStats returns today/this-week token and message counts scanned
// directly from transcripts, plus the account plan when credentials are
// readable.
func (h *ClaudeHandler) GetRealtimeStats(c *fiber.Ctx) error {
	creds, err := scanner.ReadCredentials(config.Runtime.CredentialsPath())
	if err != nil {
		// Stats still work without credentials, plan fields stay empty
		creds = nil
	}
	return c.JSON(h.scanner.RealtimeStats(creds))
}

// GetRateLimits returns the account's unified rate-limit state. The result
// is cached for a minute; ?force=true bypasses the cache.
func (h *ClaudeHandler) GetRateLimits(c *fiber.Ctx) error {
	force := c.Query("force") == "true"

	info, err := h.rateLimit.GetRateLimits(force)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(info)
}
