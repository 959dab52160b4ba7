package main

import (
	"fmt"
	"log"
	"os"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/genbuddy/GenBuddy/app/repository"
	"github.com/genbuddy/GenBuddy/internal/pkg/cache"
	"github.com/genbuddy/GenBuddy/internal/pkg/database"
	"github.com/genbuddy/GenBuddy/internal/pkg/env"
	"github.com/genbuddy/GenBuddy/internal/pkg/router"
	"github.com/genbuddy/GenBuddy/internal/pkg/storage"
)

func main() {
	app := NewApplication()
	err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000")))
	log.Fatal(err)
}

func NewApplication() *fiber.App {
	env.SetupEnvFile()
	database.SetupDatabase()
	cache.SetupCache()
	storage.Setup()
	repository.InitializeFactory(database.GetDB())

	// Resolve the project root so the binary works from cmd/genbuddy too
	basePaths := []string{
		"./",
		"../../",
	}
	basePath := ""
	for _, path := range basePaths {
		if _, err := os.Stat(path + "public"); !os.IsNotExist(err) {
			basePath = path
			break
		}
	}
	if basePath == "" {
		basePath = "./"
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 20 << 20,
	})

	app.Use(recover.New(), logger.New())
	app.Get("/metrics", monitor.New())

	openAPICfg := swagger.Config{
		BasePath: "/docs/api/",
		FilePath: basePath + "public/docs/v1/openapi.yml",
		Path:     "v1",
	}
	app.Use(swagger.New(openAPICfg))

	router.InstallRouter(app)

	return app
}
