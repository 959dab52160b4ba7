package controllers

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/genbuddy/GenBuddy/app/models"
	"github.com/genbuddy/GenBuddy/app/repository"
	"github.com/genbuddy/GenBuddy/internal/pkg/mail"
	"github.com/genbuddy/GenBuddy/internal/pkg/session"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleRegister creates a new account on the free tier and sends the
// activation mail.
// @Summary Register a new account
// @Tags auth
// @Accept json
// @Produce json
// @Router /api/v1/auth/register [post]
func HandleRegister(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if len(req.Password) < 6 {
		return badRequest(c, "Name, a valid email and a password of at least 6 characters are required")
	}
	user, err := models.CreateUser(strings.TrimSpace(req.Name), email, req.Password)
	if err != nil {
		return badRequest(c, "Name, a valid email and a password of at least 6 characters are required")
	}
	if err := user.GenerateActivationToken(); err != nil {
		return storageFailure(c)
	}

	repos := repository.GetGlobalRepositories()
	if existing, err := repos.User.GetByEmail(email); err == nil && existing != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":   "conflict",
			"message": "An account with this email already exists",
		})
	}

	if err := repos.User.Create(user); err != nil {
		log.Printf("register: creating user failed: %v", err)
		return storageFailure(c)
	}
	// Every account starts with a free subscription row so entitlement
	// lookups never depend on billing having run.
	if _, err := repos.Subscription.EnsureDefault(user.ID); err != nil {
		log.Printf("register: creating default subscription for user %d failed: %v", user.ID, err)
	}

	go func(email, token string) {
		if err := mail.SendActivationMail(email, token); err != nil {
			log.Printf("register: sending activation mail failed: %v", err)
		}
	}(user.Email, user.ActivationToken)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Account created, check your mail for the activation link",
		"user_id": user.ID,
	})
}

// HandleActivate activates an account via the mailed token.
// @Summary Activate an account
// @Tags auth
// @Produce json
// @Param token query string true "Activation token"
// @Router /api/v1/auth/activate [get]
func HandleActivate(c *fiber.Ctx) error {
	token := strings.TrimSpace(c.Query("token"))
	if token == "" {
		return badRequest(c, "An activation token is required")
	}

	repos := repository.GetGlobalRepositories()
	user, err := repos.User.GetByActivationToken(token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return badRequest(c, "Invalid or already used activation token")
		}
		return storageFailure(c)
	}

	user.Status = models.STATUS_ACTIVE
	user.ActivationToken = ""
	if err := repos.User.Update(user); err != nil {
		return storageFailure(c)
	}
	return c.JSON(fiber.Map{"message": "Account activated, you can log in now"})
}

// HandleLogin verifies credentials and starts a session.
// @Summary Log in
// @Tags auth
// @Accept json
// @Produce json
// @Router /api/v1/auth/login [post]
func HandleLogin(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	repos := repository.GetGlobalRepositories()
	user, err := repos.User.GetByEmail(strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil || !user.CheckPassword(req.Password) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":   "unauthorized",
			"message": "Invalid email or password",
		})
	}
	if !user.IsActive() {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error":   "forbidden",
			"message": "Account is not activated",
		})
	}

	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		return storageFailure(c)
	}
	sess.Set(AUTH_KEY, true)
	sess.Set(USER_ID, user.ID)
	sess.Set(USER_NAME, user.Name)
	sess.Set(USER_IS_ADMIN, user.Role == models.ROLE_ADMIN)
	if err := sess.Save(); err != nil {
		return storageFailure(c)
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := repos.User.Update(user); err != nil {
		log.Printf("login: updating last login for user %d failed: %v", user.ID, err)
	}

	return c.JSON(fiber.Map{
		"message": "Logged in",
		"user": fiber.Map{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
		},
	})
}

// HandleLogout destroys the session.
// @Summary Log out
// @Tags auth
// @Router /api/v1/auth/logout [post]
func HandleLogout(c *fiber.Ctx) error {
	sess, err := session.GetSessionStore().Get(c)
	if err == nil {
		if err := sess.Destroy(); err != nil {
			log.Printf("logout: destroying session failed: %v", err)
		}
	}
	return c.JSON(fiber.Map{"message": "Logged out"})
}
