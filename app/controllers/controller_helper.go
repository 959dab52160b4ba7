package controllers

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/genbuddy/GenBuddy/app/models"
	"github.com/genbuddy/GenBuddy/app/repository"
	"github.com/genbuddy/GenBuddy/internal/pkg/ai"
	"github.com/genbuddy/GenBuddy/internal/pkg/database"
	"github.com/genbuddy/GenBuddy/internal/pkg/entitlements"
	"github.com/genbuddy/GenBuddy/internal/pkg/mail"
)

// Shared session/locals keys
const (
	AUTH_KEY       = "authenticated"
	USER_ID        = "user_id"
	USER_NAME      = "username"
	USER_IS_ADMIN  = "isAdmin"
	FROM_PROTECTED = "from_protected"
)

// Upload limits for tool routes
const (
	MaxDocumentUploadBytes = 10 << 20 // 10 MiB
	MaxPhotoUploadBytes    = 10 << 20
	MaxDNATextBytes        = 256 << 10 // pasted match/ethnicity exports
)

var (
	aiClient       *ai.Client
	entitlementSvc *entitlements.Service

	validate = validator.New()
)

// InitializeToolControllers wires the AI client and the entitlement service.
// Called once during router installation, after the repository factory exists.
func InitializeToolControllers() {
	repos := repository.GetGlobalRepositories()
	aiClient = ai.NewClientFromEnv()
	entitlementSvc = entitlements.NewService(repos.Subscription, repos.Usage)
}

// SetToolDependencies overrides the wired dependencies; used by tests.
func SetToolDependencies(client *ai.Client, svc *entitlements.Service) {
	aiClient = client
	entitlementSvc = svc
}

func getEntitlementService() *entitlements.Service {
	if entitlementSvc == nil {
		panic("tool controllers not initialized. Call InitializeToolControllers first.")
	}
	return entitlementSvc
}

func getAIClient() *ai.Client {
	if aiClient == nil {
		panic("tool controllers not initialized. Call InitializeToolControllers first.")
	}
	return aiClient
}

// respondDenied maps a denying access decision onto the API error contract.
// Every denial carries tier, usage and limit so the client can render an
// upgrade prompt without a second round trip.
func respondDenied(c *fiber.Ctx, d entitlements.AccessDecision) error {
	switch d.Reason {
	case entitlements.ReasonUnauthenticated:
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":      "unauthorized",
			"error_code": d.Reason,
			"message":    "login required",
		})
	case entitlements.ReasonFeatureUnavailable:
		return c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{
			"error":      "payment_required",
			"error_code": d.Reason,
			"message":    fmt.Sprintf("Your %s plan does not include %s analysis. Upgrade to unlock it.", d.Tier, d.Feature),
			"tier":       d.Tier,
			"limit":      d.Limit,
		})
	case entitlements.ReasonLimitExceeded:
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"error":         "limit_exceeded",
			"error_code":    d.Reason,
			"message":       fmt.Sprintf("You have used all %d %s analyses included in your plan this month.", d.Limit, d.Feature),
			"tier":          d.Tier,
			"current_usage": d.CurrentUsage,
			"limit":         d.Limit,
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":      "internal_server_error",
			"error_code": entitlements.ReasonUnknownError,
			"message":    "Access check failed, please try again",
		})
	}
}

// respondUpstreamError maps provider failures onto 502 without charging usage.
func respondUpstreamError(c *fiber.Ctx, err error) error {
	msg := "The analysis service rejected the request"
	if errors.Is(err, ai.ErrUnavailable) {
		msg = "The analysis service is temporarily unavailable, please try again"
	}
	log.Printf("upstream analysis call failed: %v", err)
	return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
		"error":      "bad_gateway",
		"error_code": "UPSTREAM_FAILURE",
		"message":    msg,
	})
}

// setUsageHeaders writes the usage headers for metered responses. Unlimited
// tiers get no headers.
func setUsageHeaders(c *fiber.Ctx, count int64, limit int) {
	if limit == entitlements.Unlimited {
		return
	}
	remaining := int64(limit) - count
	if remaining < 0 {
		remaining = 0
	}
	c.Set("X-Usage-Current", fmt.Sprintf("%d", count))
	c.Set("X-Usage-Limit", fmt.Sprintf("%d", limit))
	c.Set("X-Usage-Remaining", fmt.Sprintf("%d", remaining))
}

// recordUsageAfterSuccess counts one completed invocation and decorates the
// response. The provider call already succeeded at this point; if the
// increment fails the result is still returned (an undercount is preferable
// to discarding a paid-for analysis) and only the headers are omitted.
func recordUsageAfterSuccess(c *fiber.Ctx, userID uint, feature entitlements.FeatureKey, limit int) {
	count, err := getEntitlementService().Record(userID, feature)
	if err != nil {
		log.Printf("usage increment failed for user %d feature %s: %v", userID, feature, err)
		return
	}
	setUsageHeaders(c, count, limit)

	if limit != entitlements.Unlimited && count >= int64(limit) {
		go sendQuotaNotice(userID, feature, limit)
	}
}

// sendQuotaNotice mails the user once per period when a quota is used up.
func sendQuotaNotice(userID uint, feature entitlements.FeatureKey, limit int) {
	db := database.GetDB()
	if db == nil {
		return
	}
	settings, err := models.GetOrCreateUserSettings(db, userID)
	if err != nil {
		log.Printf("quota notice: failed to load settings for user %d: %v", userID, err)
		return
	}
	periodStart := entitlements.PeriodStart(time.Now())
	if !settings.ShouldSendQuotaNotice(periodStart) {
		return
	}

	user, err := repository.GetGlobalRepositories().User.GetByID(userID)
	if err != nil {
		return
	}
	if err := mail.SendQuotaNotice(user.Email, string(feature), limit); err != nil {
		return
	}

	now := time.Now()
	settings.QuotaNoticeSentAt = &now
	if err := db.Save(settings).Error; err != nil {
		log.Printf("quota notice: failed to persist sent timestamp for user %d: %v", userID, err)
	}
}

func formatTimePtr(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}
