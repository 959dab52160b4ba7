package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/genbuddy/GenBuddy/app/repository"
	"github.com/genbuddy/GenBuddy/internal/pkg/usercontext"
)

// HandleGetUsage returns used/limit/remaining for every metered feature in
// the caller's current billing period.
// @Summary Get current usage report
// @Tags account
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/usage [get]
func HandleGetUsage(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)
	report, err := getEntitlementService().Report(userID)
	if err != nil {
		return storageFailure(c)
	}
	return c.JSON(fiber.Map{
		"tier":         report.Tier,
		"period_start": report.PeriodStart.UTC().Format(time.RFC3339),
		"period_end":   report.PeriodEnd.UTC().Format(time.RFC3339),
		"features":     report.Features,
	})
}

// HandleGetUsageHistory returns the caller's raw monthly counters across all
// periods, newest first. Rows from closed periods are kept, not reset.
// @Summary Get usage history
// @Tags account
// @Produce json
// @Router /api/v1/usage/history [get]
func HandleGetUsageHistory(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)
	records, err := repository.GetUsageRepository().ListByUser(userID)
	if err != nil {
		return storageFailure(c)
	}
	return c.JSON(fiber.Map{"records": records})
}
