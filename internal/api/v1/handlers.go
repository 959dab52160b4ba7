package apiv1

import (
	"github.com/gofiber/fiber/v2"

	"github.com/genbuddy/GenBuddy/app/controllers"
	"github.com/genbuddy/GenBuddy/internal/pkg/middleware"
)

// APIServer exposes the versioned JSON API. Handlers delegate to the
// controllers so session and API key clients share one implementation.
type APIServer struct{}

// NewAPIServer creates a new API server instance
func NewAPIServer() *APIServer {
	return &APIServer{}
}

// Pong is the ping response body.
type Pong struct {
	Ping string `json:"ping"`
}

// GetPing handles the ping endpoint
func (s *APIServer) GetPing(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(Pong{Ping: "pong"})
}

// RegisterHandlers attaches all v1 routes to the given router group.
func RegisterHandlers(r fiber.Router, s *APIServer) {
	r.Get("/ping", s.GetPing)

	// Account lifecycle; register/login/activate are the only routes an
	// anonymous caller can reach.
	auth := r.Group("/auth")
	auth.Post("/register", controllers.HandleRegister)
	auth.Get("/activate", controllers.HandleActivate)
	auth.Post("/login", controllers.HandleLogin)
	auth.Post("/logout", middleware.RequireAuth, controllers.HandleLogout)

	// Metered AI tools
	tools := r.Group("/tools", middleware.RequireAuth)
	tools.Post("/documents", controllers.HandleAnalyzeDocument)
	tools.Get("/documents", controllers.HandleListDocumentAnalyses)
	tools.Post("/dna", controllers.HandleAnalyzeDNA)
	tools.Get("/dna", controllers.HandleListDNAAnalyses)
	tools.Post("/photos", controllers.HandleAnalyzePhoto)
	tools.Get("/photos", controllers.HandleListPhotoAnalyses)
	tools.Post("/research", controllers.HandleResearchQuestion)
	tools.Get("/research", controllers.HandleListResearchQueries)

	r.Get("/analyses/:uuid/status", middleware.RequireAuth, controllers.HandleGetAnalysisStatus)

	// Family trees; creation is metered, everything below a tree is not.
	trees := r.Group("/trees", middleware.RequireAuth)
	trees.Post("/", controllers.HandleCreateTree)
	trees.Get("/", controllers.HandleListTrees)
	trees.Get("/:uuid", controllers.HandleGetTree)
	trees.Put("/:uuid", controllers.HandleUpdateTree)
	trees.Delete("/:uuid", controllers.HandleDeleteTree)
	trees.Post("/:uuid/persons", controllers.HandleAddPerson)
	trees.Put("/:uuid/persons/:id", controllers.HandleUpdatePerson)
	trees.Delete("/:uuid/persons/:id", controllers.HandleDeletePerson)

	// Admin surface; the manual counterpart of the billing sync
	admin := r.Group("/admin", middleware.RequireAdmin)
	admin.Put("/users/:id/subscription", controllers.HandleAdminSetSubscription)
	admin.Get("/users/:id/usage", controllers.HandleAdminGetUserUsage)

	// Account views
	r.Get("/usage", middleware.RequireAuth, controllers.HandleGetUsage)
	r.Get("/usage/history", middleware.RequireAuth, controllers.HandleGetUsageHistory)
	user := r.Group("/user", middleware.RequireAuth)
	user.Get("/profile", controllers.HandleGetProfile)
	user.Post("/api-key", controllers.HandleIssueAPIKey)
	user.Delete("/api-key", controllers.HandleRevokeAPIKey)
}
