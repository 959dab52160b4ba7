package controllers

import (
	"io"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/genbuddy/GenBuddy/app/models"
	"github.com/genbuddy/GenBuddy/app/repository"
	"github.com/genbuddy/GenBuddy/internal/pkg/cache"
	"github.com/genbuddy/GenBuddy/internal/pkg/entitlements"
	"github.com/genbuddy/GenBuddy/internal/pkg/storage"
	"github.com/genbuddy/GenBuddy/internal/pkg/upload"
	"github.com/genbuddy/GenBuddy/internal/pkg/usercontext"
)

// HandleAnalyzePhoto dates and describes an uploaded historical photograph.
// @Summary Analyze a historical photograph
// @Tags tools
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Photograph"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/tools/photos [post]
func HandleAnalyzePhoto(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)

	decision := getEntitlementService().Check(userID, entitlements.FeaturePhotos)
	if !decision.Allowed {
		return respondDenied(c, decision)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "A photo file is required")
	}
	if fileHeader.Size > MaxPhotoUploadBytes {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{
			"error":   "file_too_large",
			"message": "Photos may be at most 10 MB",
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return badRequest(c, "Could not read the uploaded file")
	}
	defer file.Close()
	data, err := io.ReadAll(io.LimitReader(file, MaxPhotoUploadBytes+1))
	if err != nil || len(data) == 0 {
		return badRequest(c, "Could not read the uploaded file")
	}

	mimeType, err := upload.ValidatePhotoBySniff(fileHeader.Filename, data)
	if err != nil {
		return badRequest(c, err.Error())
	}

	analysisUUID := uuid.New().String()
	_ = cache.SetAnalysisStatus(analysisUUID, cache.STATUS_PROCESSING)

	objectKey := ""
	if client := storage.GetClient(); client != nil {
		objectKey = client.ObjectKey("photos", analysisUUID, strings.ToLower(filepath.Ext(fileHeader.Filename)), time.Now())
		if err := client.PutObject(c.Context(), objectKey, mimeType, data); err != nil {
			log.Printf("photo upload: storing original failed: %v", err)
			_ = cache.SetAnalysisStatus(analysisUUID, cache.STATUS_FAILED)
			return storageFailure(c)
		}
	}

	result, err := getAIClient().AnalyzePhoto(c.Context(), mimeType, data)
	if err != nil {
		_ = cache.SetAnalysisStatus(analysisUUID, cache.STATUS_FAILED)
		return respondUpstreamError(c, err)
	}

	analysis := &models.PhotoAnalysis{
		UUID:             analysisUUID,
		UserID:           userID,
		FileName:         fileHeader.Filename,
		MimeType:         mimeType,
		ObjectKey:        objectKey,
		Model:            result.Model,
		Result:           result.Text,
		PromptTokens:     result.Usage.InputTokens,
		CompletionTokens: result.Usage.OutputTokens,
	}
	if err := repository.GetAnalysisRepository().CreatePhotoAnalysis(analysis); err != nil {
		log.Printf("photo analysis %s: persisting result failed: %v", analysisUUID, err)
	}
	_ = cache.SetAnalysisStatus(analysisUUID, cache.STATUS_COMPLETED)

	recordUsageAfterSuccess(c, userID, entitlements.FeaturePhotos, decision.Limit)

	return c.JSON(fiber.Map{
		"uuid":       analysisUUID,
		"file_name":  fileHeader.Filename,
		"mime_type":  mimeType,
		"model":      result.Model,
		"result":     result.Text,
		"created_at": analysis.CreatedAt.UTC().Format(time.RFC3339),
	})
}

// HandleListPhotoAnalyses returns the caller's past photo analyses.
// @Summary List photo analyses
// @Tags tools
// @Produce json
// @Router /api/v1/tools/photos [get]
func HandleListPhotoAnalyses(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)
	offset, limit := paginationParams(c)
	analyses, err := repository.GetAnalysisRepository().ListPhotoAnalyses(userID, offset, limit)
	if err != nil {
		return storageFailure(c)
	}
	return c.JSON(fiber.Map{"analyses": analyses})
}
