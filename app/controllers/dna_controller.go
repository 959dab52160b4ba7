package controllers

import (
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/genbuddy/GenBuddy/app/models"
	"github.com/genbuddy/GenBuddy/app/repository"
	"github.com/genbuddy/GenBuddy/internal/pkg/cache"
	"github.com/genbuddy/GenBuddy/internal/pkg/entitlements"
	"github.com/genbuddy/GenBuddy/internal/pkg/usercontext"
)

type dnaAnalyzeRequest struct {
	RawData string `json:"raw_data" validate:"required"`
}

const dnaExcerptLen = 2000

// HandleAnalyzeDNA interprets pasted DNA ethnicity or match data. The raw
// export is never stored in full, only a short excerpt for the history view.
// @Summary Interpret DNA ethnicity or match data
// @Tags tools
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/tools/dna [post]
func HandleAnalyzeDNA(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)

	decision := getEntitlementService().Check(userID, entitlements.FeatureDNA)
	if !decision.Allowed {
		return respondDenied(c, decision)
	}

	var req dnaAnalyzeRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	raw := strings.TrimSpace(req.RawData)
	if raw == "" {
		return badRequest(c, "raw_data is required")
	}
	if len(raw) > MaxDNATextBytes {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{
			"error":   "input_too_large",
			"message": "DNA data may be at most 256 KB of text",
		})
	}

	analysisUUID := uuid.New().String()
	_ = cache.SetAnalysisStatus(analysisUUID, cache.STATUS_PROCESSING)

	result, err := getAIClient().AnalyzeDNA(c.Context(), raw)
	if err != nil {
		_ = cache.SetAnalysisStatus(analysisUUID, cache.STATUS_FAILED)
		return respondUpstreamError(c, err)
	}

	excerpt := raw
	if len(excerpt) > dnaExcerptLen {
		excerpt = excerpt[:dnaExcerptLen]
	}
	analysis := &models.DNAAnalysis{
		UUID:             analysisUUID,
		UserID:           userID,
		InputExcerpt:     excerpt,
		Model:            result.Model,
		Result:           result.Text,
		PromptTokens:     result.Usage.InputTokens,
		CompletionTokens: result.Usage.OutputTokens,
	}
	if err := repository.GetAnalysisRepository().CreateDNAAnalysis(analysis); err != nil {
		log.Printf("dna analysis %s: persisting result failed: %v", analysisUUID, err)
	}
	_ = cache.SetAnalysisStatus(analysisUUID, cache.STATUS_COMPLETED)

	recordUsageAfterSuccess(c, userID, entitlements.FeatureDNA, decision.Limit)

	return c.JSON(fiber.Map{
		"uuid":       analysisUUID,
		"model":      result.Model,
		"result":     result.Text,
		"created_at": analysis.CreatedAt.UTC().Format(time.RFC3339),
	})
}

// HandleListDNAAnalyses returns the caller's past DNA analyses.
// @Summary List DNA analyses
// @Tags tools
// @Produce json
// @Router /api/v1/tools/dna [get]
func HandleListDNAAnalyses(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)
	offset, limit := paginationParams(c)
	analyses, err := repository.GetAnalysisRepository().ListDNAAnalyses(userID, offset, limit)
	if err != nil {
		return storageFailure(c)
	}
	return c.JSON(fiber.Map{"analyses": analyses})
}
