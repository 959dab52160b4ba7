package controllers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/genbuddy/GenBuddy/app/models"
	"github.com/genbuddy/GenBuddy/app/repository"
	"github.com/genbuddy/GenBuddy/internal/pkg/database"
	"github.com/genbuddy/GenBuddy/internal/pkg/entitlements"
	"github.com/genbuddy/GenBuddy/internal/pkg/usercontext"
)

// HandleGetProfile returns the account, its effective tier and the plan
// limits, so clients can render the account page in one request.
// @Summary Get account profile
// @Tags account
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/user/profile [get]
func HandleGetProfile(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)

	repos := repository.GetGlobalRepositories()
	user, err := repos.User.GetByID(userID)
	if err != nil {
		return storageFailure(c)
	}

	tier, err := repos.Subscription.EffectiveTier(userID)
	if err != nil {
		tier = entitlements.TierFree
	}

	treeCount, err := repos.Tree.CountByUserID(userID)
	if err != nil {
		treeCount = 0
	}

	var keyInfo fiber.Map
	if db := database.GetDB(); db != nil {
		if settings, err := models.GetOrCreateUserSettings(db, userID); err == nil {
			keyInfo = fiber.Map{
				"active":       settings.HasActiveAPIKey(),
				"prefix":       settings.APIKeyPrefix,
				"created_at":   formatTimePtr(settings.APIKeyCreatedAt),
				"last_used_at": formatTimePtr(settings.APIKeyLastUsedAt),
			}
		}
	}

	return c.JSON(fiber.Map{
		"user": fiber.Map{
			"id":            user.ID,
			"name":          user.Name,
			"email":         user.Email,
			"role":          user.Role,
			"status":        user.Status,
			"last_login_at": formatTimePtr(user.LastLoginAt),
		},
		"tier":       tier,
		"limits":     entitlements.LimitsFor(tier),
		"tree_count": treeCount,
		"api_key":    keyInfo,
	})
}

// HandleIssueAPIKey creates (or rotates) the caller's API key. The raw
// secret appears exactly once in this response; only its hash is stored.
// @Summary Issue or rotate the API key
// @Tags account
// @Produce json
// @Router /api/v1/user/api-key [post]
func HandleIssueAPIKey(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)
	db := database.GetDB()
	if db == nil {
		return storageFailure(c)
	}

	settings, err := models.GetOrCreateUserSettings(db, userID)
	if err != nil {
		return storageFailure(c)
	}
	rawKey, err := settings.IssueAPIKey()
	if err != nil {
		log.Printf("api key generation failed for user %d: %v", userID, err)
		return storageFailure(c)
	}
	if err := db.Save(settings).Error; err != nil {
		return storageFailure(c)
	}

	return c.JSON(fiber.Map{
		"api_key": rawKey,
		"prefix":  settings.APIKeyPrefix,
		"message": "Store this key now, it will not be shown again",
	})
}

// HandleRevokeAPIKey revokes the caller's API key.
// @Summary Revoke the API key
// @Tags account
// @Router /api/v1/user/api-key [delete]
func HandleRevokeAPIKey(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)
	db := database.GetDB()
	if db == nil {
		return storageFailure(c)
	}

	settings, err := models.GetOrCreateUserSettings(db, userID)
	if err != nil {
		return storageFailure(c)
	}
	settings.RevokeAPIKey()
	if err := db.Save(settings).Error; err != nil {
		return storageFailure(c)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
