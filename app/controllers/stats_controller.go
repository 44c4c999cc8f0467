package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/LwandleM/SafeSuburb/app/repository"
	"github.com/LwandleM/SafeSuburb/internal/pkg/statistics"
)

// HandleGetStats returns the community dashboard counters for both report
// kinds. Counters degrade independently: a failing count shows as zero.
func HandleGetStats(c *fiber.Ctx) error {
	repos := repository.GetGlobalFactory().GetRepositories()
	return c.JSON(fiber.Map{
		"stats": statistics.GetAllStats(repos),
	})
}
