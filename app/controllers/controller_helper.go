package controllers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/LwandleM/SafeSuburb/app/models"
	"github.com/LwandleM/SafeSuburb/app/repository"
	"github.com/LwandleM/SafeSuburb/internal/pkg/authz"
	"github.com/LwandleM/SafeSuburb/internal/pkg/feed"
	"github.com/LwandleM/SafeSuburb/internal/pkg/usercontext"
)

// actorFromSession builds the authorization subject for the current request.
func actorFromSession(c *fiber.Ctx) authz.Actor {
	uc := usercontext.GetUserContext(c)
	return authz.Actor{UserID: uc.UserID, Role: uc.Role, Approved: uc.Approved}
}

// parseIDParam reads the :id path parameter.
func parseIDParam(c *fiber.Ctx) (uint, error) {
	raw := c.Params("id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}

// parseViewMode reads the ?view= query, defaulting to the all-reports view.
func parseViewMode(c *fiber.Ctx) string {
	if c.Query("view") == feed.ViewMine {
		return feed.ViewMine
	}
	return feed.ViewAll
}

// parseIDList reads a comma-separated ?ids= query.
func parseIDList(c *fiber.Ctx) []uint {
	raw := c.Query("ids")
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]uint, 0, len(parts))
	for _, p := range parts {
		if v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 64); err == nil && v > 0 {
			ids = append(ids, uint(v))
		}
	}
	return ids
}

// errorResponse maps domain errors onto the API's error envelope. Not-found
// and forbidden are deliberately the same answer so the API does not leak
// which records exist.
func errorResponse(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFoundOrForbidden),
		errors.Is(err, gorm.ErrRecordNotFound),
		errors.Is(err, feed.ErrNoSuchItem):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   "not_found",
			"message": "Record not found",
		})
	case errors.Is(err, repository.ErrDuplicateOB):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":   "conflict",
			"message": "A report with this OB number already exists",
		})
	case errors.Is(err, repository.ErrDuplicateEmail):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":   "conflict",
			"message": "An account with this email already exists",
		})
	case errors.Is(err, feed.ErrUnauthenticated):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":   "unauthorized",
			"message": "login required",
		})
	case errors.Is(err, feed.ErrConfirmationRequired):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "confirmation_required",
			"message": "Deletion must be confirmed",
		})
	case errors.Is(err, models.ErrInvalidStatus),
		errors.Is(err, models.ErrValidation):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":   "validation_failed",
			"message": err.Error(),
		})
	}

	var vErrs validator.ValidationErrors
	if errors.As(err, &vErrs) {
		fields := make([]string, 0, len(vErrs))
		for _, fe := range vErrs {
			fields = append(fields, fe.Field())
		}
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":   "validation_failed",
			"message": "Invalid fields: " + strings.Join(fields, ", "),
		})
	}

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error":   "internal_server_error",
		"message": "Something went wrong",
	})
}

// feedItemsResponse is the common list envelope.
func feedItemsResponse(c *fiber.Ctx, ctrl *feed.Controller, items []feed.Item) error {
	payloads := make([]any, 0, len(items))
	for _, it := range items {
		payloads = append(payloads, it.Payload)
	}
	return c.JSON(fiber.Map{
		"items":       payloads,
		"total_count": ctrl.TotalCount(),
		"has_more":    ctrl.HasMore(),
	})
}
