package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/genbuddy/GenBuddy/app/controllers"
	"github.com/genbuddy/GenBuddy/app/repository"
	"github.com/genbuddy/GenBuddy/internal/pkg/entitlements"
	"github.com/genbuddy/GenBuddy/internal/pkg/session"
	"github.com/genbuddy/GenBuddy/internal/pkg/usercontext"
)

// UserContextMiddleware resolves the session into a request identity. Every
// downstream handler reads the identity through the usercontext package
// instead of touching the session itself.
func UserContextMiddleware(c *fiber.Ctx) error {
	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		setAnonymousContext(c)
		return c.Next()
	}

	userID := sess.Get(controllers.USER_ID)
	if userID == nil {
		setAnonymousContext(c)
		return c.Next()
	}

	username := session.GetSessionValue(c, controllers.USER_NAME)
	isAdmin := sess.Get(controllers.USER_IS_ADMIN)

	// The tier shown in the context is resolved fresh from the subscription
	// row. Access decisions resolve it again themselves; a stale session
	// value must never widen access.
	tier := entitlements.TierFree
	if repos := repository.GetGlobalRepositories(); repos != nil {
		if t, err := repos.Subscription.EffectiveTier(userID.(uint)); err == nil {
			tier = t
		}
	}

	uc := usercontext.UserContext{
		UserID:     userID.(uint),
		Username:   username,
		IsLoggedIn: true,
		IsAdmin:    isAdmin != nil && isAdmin.(bool),
		Tier:       string(tier),
	}
	usercontext.Set(c, uc)

	c.Locals(controllers.FROM_PROTECTED, true)
	c.Locals(controllers.USER_NAME, username)
	c.Locals(controllers.USER_ID, userID.(uint))
	c.Locals(controllers.USER_IS_ADMIN, uc.IsAdmin)

	return c.Next()
}

func setAnonymousContext(c *fiber.Ctx) {
	usercontext.Set(c, usercontext.UserContext{})
	c.Locals(controllers.FROM_PROTECTED, false)
	c.Locals(controllers.USER_IS_ADMIN, false)
}
