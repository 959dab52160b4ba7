package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/genbuddy/GenBuddy/app/controllers"
	"github.com/genbuddy/GenBuddy/internal/pkg/middleware"
	"github.com/genbuddy/GenBuddy/internal/pkg/session"
)

type HttpRouter struct {
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	// init session
	session.NewSessionStore()

	// Apply UserContext middleware globally as first middleware
	app.Use(middleware.UserContextMiddleware)

	// Wire the AI client and entitlement service into the tool controllers
	controllers.InitializeToolControllers()

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
}

func NewHttpRouter() *HttpRouter {
	return &HttpRouter{}
}
