package controllers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/genbuddy/GenBuddy/app/models"
	"github.com/genbuddy/GenBuddy/app/repository"
	"github.com/genbuddy/GenBuddy/internal/pkg/entitlements"
)

type adminSubscriptionRequest struct {
	Tier             string     `json:"tier"`
	Status           string     `json:"status"`
	CurrentPeriodEnd *time.Time `json:"current_period_end"`
}

// HandleAdminSetSubscription writes a user's subscription row. This is the
// manual counterpart of the billing sync: support upgrades, comps and
// downgrades all go through here. Takes effect on the user's next request,
// the entitlement evaluator reads the row fresh every time.
// @Summary Set a user's subscription (admin)
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Router /api/v1/admin/users/{id}/subscription [put]
func HandleAdminSetSubscription(c *fiber.Ctx) error {
	userID, err := c.ParamsInt("id")
	if err != nil || userID < 1 {
		return badRequest(c, "A user ID is required")
	}

	repos := repository.GetGlobalRepositories()
	user, err := repos.User.GetByID(uint(userID))
	if err != nil || user == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   "not_found",
			"message": "User not found",
		})
	}

	var req adminSubscriptionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	tier := entitlements.NormalizeTier(req.Tier)
	status := strings.ToLower(strings.TrimSpace(req.Status))
	if status == "" {
		status = models.SubscriptionStatusActive
	}

	previous, _ := repos.Subscription.EffectiveTier(user.ID)

	sub := &models.Subscription{
		UserID:           user.ID,
		Tier:             string(tier),
		Status:           status,
		Provider:         "manual",
		CurrentPeriodEnd: req.CurrentPeriodEnd,
	}
	if err := repos.Subscription.Upsert(sub); err != nil {
		return storageFailure(c)
	}

	return c.JSON(fiber.Map{
		"user_id": user.ID,
		"tier":    tier,
		"status":  status,
		"upgrade": entitlements.IsUpgrade(previous, tier),
		"limits":  entitlements.LimitsFor(tier),
	})
}

// HandleAdminGetUserUsage returns another user's current usage report.
// @Summary Get a user's usage report (admin)
// @Tags admin
// @Produce json
// @Param id path int true "User ID"
// @Router /api/v1/admin/users/{id}/usage [get]
func HandleAdminGetUserUsage(c *fiber.Ctx) error {
	userID, err := c.ParamsInt("id")
	if err != nil || userID < 1 {
		return badRequest(c, "A user ID is required")
	}
	report, err := getEntitlementService().Report(uint(userID))
	if err != nil {
		return storageFailure(c)
	}
	return c.JSON(report)
}
