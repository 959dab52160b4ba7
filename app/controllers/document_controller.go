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

// HandleAnalyzeDocument transcribes and analyzes an uploaded historical
// document (scan or plain text). The flow is the template for every metered
// tool route: check entitlement, do the work, then record usage only after
// the provider call succeeded.
// @Summary Analyze a historical document
// @Tags tools
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Document scan or text file"
// @Param hint formData string false "Context hint for the analysis"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/tools/documents [post]
func HandleAnalyzeDocument(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)

	decision := getEntitlementService().Check(userID, entitlements.FeatureDocuments)
	if !decision.Allowed {
		return respondDenied(c, decision)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "A document file is required")
	}
	if fileHeader.Size > MaxDocumentUploadBytes {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{
			"error":   "file_too_large",
			"message": "Documents may be at most 10 MB",
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return badRequest(c, "Could not read the uploaded file")
	}
	defer file.Close()
	data, err := io.ReadAll(io.LimitReader(file, MaxDocumentUploadBytes+1))
	if err != nil || len(data) == 0 {
		return badRequest(c, "Could not read the uploaded file")
	}

	mimeType, err := upload.ValidateDocumentBySniff(fileHeader.Filename, data)
	if err != nil {
		return badRequest(c, err.Error())
	}

	analysisUUID := uuid.New().String()
	_ = cache.SetAnalysisStatus(analysisUUID, cache.STATUS_PROCESSING)

	objectKey := ""
	if client := storage.GetClient(); client != nil {
		objectKey = client.ObjectKey("documents", analysisUUID, strings.ToLower(filepath.Ext(fileHeader.Filename)), time.Now())
		if err := client.PutObject(c.Context(), objectKey, mimeType, data); err != nil {
			log.Printf("document upload: storing original failed: %v", err)
			_ = cache.SetAnalysisStatus(analysisUUID, cache.STATUS_FAILED)
			return storageFailure(c)
		}
	}

	hint := strings.TrimSpace(c.FormValue("hint"))
	result, err := getAIClient().AnalyzeDocument(c.Context(), mimeType, data, hint)
	if err != nil {
		_ = cache.SetAnalysisStatus(analysisUUID, cache.STATUS_FAILED)
		return respondUpstreamError(c, err)
	}

	analysis := &models.DocumentAnalysis{
		UUID:             analysisUUID,
		UserID:           userID,
		FileName:         fileHeader.Filename,
		MimeType:         mimeType,
		ObjectKey:        objectKey,
		Hint:             hint,
		Model:            result.Model,
		Result:           result.Text,
		PromptTokens:     result.Usage.InputTokens,
		CompletionTokens: result.Usage.OutputTokens,
	}
	if err := repository.GetAnalysisRepository().CreateDocumentAnalysis(analysis); err != nil {
		// The provider call succeeded, so the result is still delivered and
		// the invocation still counts.
		log.Printf("document analysis %s: persisting result failed: %v", analysisUUID, err)
	}
	_ = cache.SetAnalysisStatus(analysisUUID, cache.STATUS_COMPLETED)

	recordUsageAfterSuccess(c, userID, entitlements.FeatureDocuments, decision.Limit)

	return c.JSON(fiber.Map{
		"uuid":       analysisUUID,
		"file_name":  fileHeader.Filename,
		"mime_type":  mimeType,
		"model":      result.Model,
		"result":     result.Text,
		"created_at": analysis.CreatedAt.UTC().Format(time.RFC3339),
	})
}

// HandleListDocumentAnalyses returns the caller's past document analyses.
// @Summary List document analyses
// @Tags tools
// @Produce json
// @Router /api/v1/tools/documents [get]
func HandleListDocumentAnalyses(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)
	offset, limit := paginationParams(c)
	analyses, err := repository.GetAnalysisRepository().ListDocumentAnalyses(userID, offset, limit)
	if err != nil {
		return storageFailure(c)
	}
	return c.JSON(fiber.Map{"analyses": analyses})
}

// HandleGetAnalysisStatus reports the processing state of any analysis by
// UUID. States live in Redis with a short TTL; unknown UUIDs return pending.
// @Summary Get analysis processing status
// @Tags tools
// @Produce json
// @Param uuid path string true "Analysis UUID"
// @Router /api/v1/analyses/{uuid}/status [get]
func HandleGetAnalysisStatus(c *fiber.Ctx) error {
	analysisUUID := c.Params("uuid")
	if analysisUUID == "" {
		return badRequest(c, "An analysis UUID is required")
	}
	status, err := cache.GetAnalysisStatus(analysisUUID)
	if err != nil || status == "" {
		status = cache.STATUS_PENDING
	}
	return c.JSON(fiber.Map{"uuid": analysisUUID, "status": status})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error":   "bad_request",
		"message": message,
	})
}

func storageFailure(c *fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error":      "internal_server_error",
		"error_code": "STORAGE_FAILURE",
		"message":    "Saving data failed, please try again",
	})
}

func paginationParams(c *fiber.Ctx) (offset, limit int) {
	limit = c.QueryInt("limit", 20)
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset = c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}
	return offset, limit
}
