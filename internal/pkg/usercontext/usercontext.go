package usercontext

import "github.com/gofiber/fiber/v2"

const localKey = "USER_CONTEXT"

// UserContext carries the authenticated identity for one request. Anonymous
// requests get the zero value.
type UserContext struct {
	UserID     uint   `json:"user_id"`
	Username   string `json:"username"`
	IsLoggedIn bool   `json:"is_logged_in"`
	IsAdmin    bool   `json:"is_admin"`
	Tier       string `json:"tier"`
}

// Set attaches the identity to the request; used by the session and API key
// middlewares.
func Set(c *fiber.Ctx, uc UserContext) {
	c.Locals(localKey, uc)
}

// Get returns the request's identity, or an anonymous context when no
// middleware has run.
func Get(c *fiber.Ctx) UserContext {
	if uc, ok := c.Locals(localKey).(UserContext); ok {
		return uc
	}
	return UserContext{}
}

func IsLoggedIn(c *fiber.Ctx) bool {
	return Get(c).IsLoggedIn
}

func IsAdmin(c *fiber.Ctx) bool {
	return Get(c).IsAdmin
}

// GetUserID returns the current user's ID, 0 for anonymous requests.
func GetUserID(c *fiber.Ctx) uint {
	return Get(c).UserID
}
