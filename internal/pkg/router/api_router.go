package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	apiv1 "github.com/genbuddy/GenBuddy/internal/api/v1"
	"github.com/genbuddy/GenBuddy/internal/pkg/middleware"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", limiter.New())
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Genealogy Buddy API",
		})
	})

	// API v1 routes. A supplied API key overrides the session context so
	// script clients and the web app share the same endpoints.
	v1 := api.Group("/v1", middleware.SessionOrAPIKeyMiddleware())
	apiServer := apiv1.NewAPIServer()
	apiv1.RegisterHandlers(v1, apiServer)
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
