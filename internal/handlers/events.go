package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/robinbaebae/sprt/internal/services"
)

const longPollTimeout = 25 * time.Second

// EventsHandler long-polls filesystem change notifications for the UI, which
// refreshes its panels when transcripts or devlogs change on disk.
type EventsHandler struct {
	watcher *services.WatcherService
}

// NewEventsHandler creates a new events handler.
func NewEventsHandler(watcher *services.WatcherService) *EventsHandler {
	return &EventsHandler{watcher: watcher}
}

// Poll blocks until a change notification arrives or the poll window
// elapses. A timeout is a normal response with changed=false, so clients
// just poll again.
func (h *EventsHandler) Poll(c *fiber.Ctx) error {
	timer := time.NewTimer(longPollTimeout)
	defer timer.Stop()

	select {
	case kind, ok := <-h.watcher.Events():
		if !ok {
			return c.Status(503).JSON(fiber.Map{
				"error": "watcher stopped",
			})
		}
		return c.JSON(fiber.Map{
			"changed": true,
			"kind":    kind,
		})
	case <-timer.C:
		return c.JSON(fiber.Map{
			"changed": false,
		})
	case <-c.Context().Done():
		return nil
	}
}
