package controllers

import (
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/genbuddy/GenBuddy/app/models"
	"github.com/genbuddy/GenBuddy/app/repository"
	"github.com/genbuddy/GenBuddy/internal/pkg/entitlements"
	"github.com/genbuddy/GenBuddy/internal/pkg/usercontext"
)

type researchRequest struct {
	Question string `json:"question" validate:"required,max=4000"`
}

// HandleResearchQuestion answers a free-form genealogy research question.
// @Summary Ask a genealogy research question
// @Tags tools
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/tools/research [post]
func HandleResearchQuestion(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)

	decision := getEntitlementService().Check(userID, entitlements.FeatureResearch)
	if !decision.Allowed {
		return respondDenied(c, decision)
	}

	var req researchRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	question := strings.TrimSpace(req.Question)
	if question == "" {
		return badRequest(c, "question is required")
	}
	if len(question) > 4000 {
		return badRequest(c, "question may be at most 4000 characters")
	}

	result, err := getAIClient().Research(c.Context(), question)
	if err != nil {
		return respondUpstreamError(c, err)
	}

	query := &models.ResearchQuery{
		UUID:             uuid.New().String(),
		UserID:           userID,
		Question:         question,
		Model:            result.Model,
		Answer:           result.Text,
		PromptTokens:     result.Usage.InputTokens,
		CompletionTokens: result.Usage.OutputTokens,
	}
	if err := repository.GetAnalysisRepository().CreateResearchQuery(query); err != nil {
		log.Printf("research query %s: persisting result failed: %v", query.UUID, err)
	}

	recordUsageAfterSuccess(c, userID, entitlements.FeatureResearch, decision.Limit)

	return c.JSON(fiber.Map{
		"uuid":       query.UUID,
		"question":   question,
		"model":      result.Model,
		"answer":     result.Text,
		"created_at": query.CreatedAt.UTC().Format(time.RFC3339),
	})
}

// HandleListResearchQueries returns the caller's past research questions.
// @Summary List research questions
// @Tags tools
// @Produce json
// @Router /api/v1/tools/research [get]
func HandleListResearchQueries(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)
	offset, limit := paginationParams(c)
	queries, err := repository.GetAnalysisRepository().ListResearchQueries(userID, offset, limit)
	if err != nil {
		return storageFailure(c)
	}
	return c.JSON(fiber.Map{"queries": queries})
}
