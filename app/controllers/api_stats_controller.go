package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lumapanel/lumapanel/internal/pkg/statistics"
)

// HandleAdminDashboardStats returns the cached dashboard aggregates.
func HandleAdminDashboardStats(c *fiber.Ctx) error {
	statistics.UpdateCacheIfNeeded()

	stats, err := statistics.GetDashboardStats()
	if err != nil {
		return errInternal(c, "Failed to load dashboard statistics")
	}

	return c.JSON(stats)
}
