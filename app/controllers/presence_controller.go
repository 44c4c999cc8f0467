package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/LwandleM/SafeSuburb/internal/pkg/usercontext"
)

// HandlePresenceHeartbeat marks the session user as active. Dashboards call
// this periodically while open; the online window closes on its own once
// the heartbeats stop.
func HandlePresenceHeartbeat(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)
	if err := deps.Presence.Heartbeat(c.Context(), userID); err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{"online": true})
}

// HandlePresenceOnline answers which of the requested users are online.
func HandlePresenceOnline(c *fiber.Ctx) error {
	ids := parseIDList(c)
	if len(ids) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "bad_request",
			"message": "ids query parameter required",
		})
	}

	online, err := deps.Presence.OnlineSet(c.Context(), ids)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{"online": online})
}
