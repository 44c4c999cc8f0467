package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/LwandleM/SafeSuburb/app/models"
	"github.com/LwandleM/SafeSuburb/app/repository"
	"github.com/LwandleM/SafeSuburb/internal/pkg/jobqueue"
)

// HandleBatchProfiles resolves user IDs to display profiles in one query.
// Unknown IDs come back as a placeholder profile instead of an error so a
// dashboard row never fails to render over a deleted reporter.
func HandleBatchProfiles(c *fiber.Ctx) error {
	ids := parseIDList(c)
	if len(ids) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "bad_request",
			"message": "ids query parameter required",
		})
	}

	profiles, err := repository.GetGlobalFactory().GetRepositories().User.BatchFetchProfiles(ids)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{"profiles": profiles})
}

// HandleAdminListUsers pages through all accounts.
func HandleAdminListUsers(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	perPage := c.QueryInt("per_page", 25)
	if perPage < 1 || perPage > 100 {
		perPage = 25
	}

	repo := repository.GetGlobalFactory().GetRepositories().User
	users, err := repo.List((page-1)*perPage, perPage)
	if err != nil {
		return errorResponse(c, err)
	}
	total, err := repo.Count()
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"users":       users,
		"total_count": total,
		"page":        page,
	})
}

// HandleAdminSearchUsers searches accounts by name or email.
func HandleAdminSearchUsers(c *fiber.Ctx) error {
	q := c.Query("q")
	if q == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "bad_request",
			"message": "q query parameter required",
		})
	}

	users, err := repository.GetGlobalFactory().GetRepositories().User.Search(q)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{"users": users})
}

// HandleAdminApproveUser approves an account and queues the notification
// mail. Approval is what unlocks filing reports.
func HandleAdminApproveUser(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid id"})
	}

	repo := repository.GetGlobalFactory().GetRepositories().User
	user, err := repo.GetByID(id)
	if err != nil {
		return errorResponse(c, err)
	}

	if err := repo.Approve(id); err != nil {
		return errorResponse(c, err)
	}

	if deps.Jobs != nil {
		payload := jobqueue.ApprovalMailJobPayload{UserID: user.ID, Email: user.Email, Name: user.Name}
		if _, err := deps.Jobs.EnqueueJob(jobqueue.JobTypeApprovalMail, payload.ToMap()); err != nil {
			log.Errorf("[Admin] enqueueing approval mail for %d: %v", user.ID, err)
		}
	}

	log.Infof("[Admin] approved account %d (%s)", user.ID, user.Email)
	return c.JSON(fiber.Map{"id": id, "approved": true})
}

type roleRequest struct {
	Role string `json:"role"`
}

// HandleAdminSetUserRole changes an account's role.
func HandleAdminSetUserRole(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid id"})
	}

	var req roleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}
	switch req.Role {
	case models.ROLE_USER, models.ROLE_MODERATOR, models.ROLE_ADMIN:
	default:
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":   "validation_failed",
			"message": "Unknown role",
		})
	}

	if err := repository.GetGlobalFactory().GetRepositories().User.SetRole(id, req.Role); err != nil {
		return errorResponse(c, err)
	}

	log.Infof("[Admin] set role of account %d to %s", id, req.Role)
	return c.JSON(fiber.Map{"id": id, "role": req.Role})
}

// HandleAdminDeleteUser removes an account permanently. Unlike reports,
// account removal is a hard delete; the user's reports survive and render
// with a placeholder profile.
func HandleAdminDeleteUser(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid id"})
	}

	if err := repository.GetGlobalFactory().GetRepositories().User.HardDelete(id); err != nil {
		return errorResponse(c, err)
	}

	if deps.Feeds != nil {
		deps.Feeds.DropUser(id)
	}

	log.Infof("[Admin] deleted account %d", id)
	return c.JSON(fiber.Map{"id": id, "deleted": true})
}
