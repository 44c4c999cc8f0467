package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/LwandleM/SafeSuburb/internal/pkg/security"
	"github.com/LwandleM/SafeSuburb/internal/pkg/usercontext"
)

// wsTicketTTL is deliberately short: a ticket is fetched right before the
// websocket dial and used once.
const wsTicketTTL = 30 * time.Second

// HandleRealtimeTicket issues a short-lived ticket for the websocket
// changefeed. The ws server runs on its own listener without access to the
// session cookie, so the ticket carries the identity over.
func HandleRealtimeTicket(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)
	ticket, err := security.GenerateWSTicket(userID, wsTicketTTL, deps.WSSecret)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{
		"ticket":     ticket,
		"expires_in": int(wsTicketTTL.Seconds()),
	})
}

// HandleGetToasts returns the session user's pending toasts, newest first.
// The user's own inserts never show up here.
func HandleGetToasts(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)
	return c.JSON(fiber.Map{
		"toasts": deps.Toasts.ActiveFor(userID),
	})
}

// HandleDismissToast hides a toast for the session user only.
func HandleDismissToast(c *fiber.Ctx) error {
	toastID := c.Params("id")
	userID := usercontext.GetUserID(c)
	if !deps.Toasts.Dismiss(userID, toastID) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   "not_found",
			"message": "Toast not found",
		})
	}
	return c.JSON(fiber.Map{"dismissed": true})
}
