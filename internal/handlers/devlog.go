package handlers

import (
	"errors"
	"regexp"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/robinbaebae/sprt/internal/models"
	"github.com/robinbaebae/sprt/internal/services"
	"github.com/robinbaebae/sprt/internal/storage"
)

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

const defaultListLimit = 30

// DevLogHandler handles devlog generation and retrieval endpoints.
type DevLogHandler struct {
	devlogs *services.DevLogService
}

// NewDevLogHandler creates a new devlog handler.
func NewDevLogHandler(devlogs *services.DevLogService) *DevLogHandler {
	return &DevLogHandler{devlogs: devlogs}
}

// GenerateRequest is the body of POST /v1/devlogs/generate.
type GenerateRequest struct {
	Date    string `json:"date"`
	LogType string `json:"log_type"`
}

func validLogType(logType string) bool {
	switch logType {
	case models.LogTypeDaily, models.LogTypeWeekly, models.LogTypeMonthly:
		return true
	}
	return false
}

// Generate creates the devlog for (date, log_type), returning the stored
// copy when one already exists. Absence of activity is a 409, not a 500: the
// request was fine, there is just nothing to write about.
func (h *DevLogHandler) Generate(c *fiber.Ctx) error {
	var req GenerateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	if !datePattern.MatchString(req.Date) {
		return c.Status(400).JSON(fiber.Map{
			"error": "date must be YYYY-MM-DD",
		})
	}
	if !validLogType(req.LogType) {
		return c.Status(400).JSON(fiber.Map{
			"error": "log_type must be daily, weekly, or monthly",
		})
	}

	devlog, err := h.devlogs.Generate(req.Date, req.LogType)
	if err != nil {
		if errors.Is(err, services.ErrNoActivity) || errors.Is(err, services.ErrNoDailyLogs) {
			return c.Status(409).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(500).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(devlog)
}

// Get returns the stored devlog for a type and date.
func (h *DevLogHandler) Get(c *fiber.Ctx) error {
	logType := c.Params("type")
	date := c.Params("date")
	if !validLogType(logType) {
		return c.Status(400).JSON(fiber.Map{
			"error": "log_type must be daily, weekly, or monthly",
		})
	}

	devlog, err := h.devlogs.Get(date, logType)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return c.Status(404).JSON(fiber.Map{
				"error": "devlog not found",
			})
		}
		return c.Status(500).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(devlog)
}

// List returns stored devlogs of a type, newest first, capped by ?limit=.
func (h *DevLogHandler) List(c *fiber.Ctx) error {
	logType := c.Params("type")
	if !validLogType(logType) {
		return c.Status(400).JSON(fiber.Map{
			"error": "log_type must be daily, weekly, or monthly",
		})
	}

	limit := defaultListLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return c.Status(400).JSON(fiber.Map{
				"error": "limit must be a positive integer",
			})
		}
		limit = parsed
	}

	logs, err := h.devlogs.List(logType, limit)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(logs)
}

// GetGitActivity returns raw per-repository git activity for a date,
// without generating anything.
func (h *DevLogHandler) GetGitActivity(c *fiber.Ctx) error {
	date := c.Query("date")
	if !datePattern.MatchString(date) {
		return c.Status(400).JSON(fiber.Map{
			"error": "date query parameter must be YYYY-MM-DD",
		})
	}
	return c.JSON(h.devlogs.GitActivity(date))
}
