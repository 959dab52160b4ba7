package repository

import (
	"gorm.io/gorm"

	"github.com/genbuddy/GenBuddy/app/models"
)

type analysisRepository struct {
	db *gorm.DB
}

// NewAnalysisRepository creates an analysis repository backed by GORM.
func NewAnalysisRepository(db *gorm.DB) AnalysisRepository {
	return &analysisRepository{db: db}
}

func (r *analysisRepository) CreateDocumentAnalysis(a *models.DocumentAnalysis) error {
	return r.db.Create(a).Error
}

func (r *analysisRepository) GetDocumentAnalysisByUUID(uuid string) (*models.DocumentAnalysis, error) {
	var a models.DocumentAnalysis
	if err := r.db.Where("uuid = ?", uuid).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *analysisRepository) ListDocumentAnalyses(userID uint, offset, limit int) ([]models.DocumentAnalysis, error) {
	var list []models.DocumentAnalysis
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Offset(offset).Limit(limit).Find(&list).Error
	return list, err
}

func (r *analysisRepository) CreateDNAAnalysis(a *models.DNAAnalysis) error {
	return r.db.Create(a).Error
}

func (r *analysisRepository) GetDNAAnalysisByUUID(uuid string) (*models.DNAAnalysis, error) {
	var a models.DNAAnalysis
	if err := r.db.Where("uuid = ?", uuid).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *analysisRepository) ListDNAAnalyses(userID uint, offset, limit int) ([]models.DNAAnalysis, error) {
	var list []models.DNAAnalysis
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Offset(offset).Limit(limit).Find(&list).Error
	return list, err
}

func (r *analysisRepository) CreatePhotoAnalysis(a *models.PhotoAnalysis) error {
	return r.db.Create(a).Error
}

func (r *analysisRepository) GetPhotoAnalysisByUUID(uuid string) (*models.PhotoAnalysis, error) {
	var a models.PhotoAnalysis
	if err := r.db.Where("uuid = ?", uuid).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *analysisRepository) ListPhotoAnalyses(userID uint, offset, limit int) ([]models.PhotoAnalysis, error) {
	var list []models.PhotoAnalysis
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Offset(offset).Limit(limit).Find(&list).Error
	return list, err
}

func (r *analysisRepository) CreateResearchQuery(q *models.ResearchQuery) error {
	return r.db.Create(q).Error
}

func (r *analysisRepository) GetResearchQueryByUUID(uuid string) (*models.ResearchQuery, error) {
	var q models.ResearchQuery
	if err := r.db.Where("uuid = ?", uuid).First(&q).Error; err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *analysisRepository) ListResearchQueries(userID uint, offset, limit int) ([]models.ResearchQuery, error) {
	var list []models.ResearchQuery
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Offset(offset).Limit(limit).Find(&list).Error
	return list, err
}
