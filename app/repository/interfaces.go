package repository

import (
	"time"

	"github.com/genbuddy/GenBuddy/app/models"
	"github.com/genbuddy/GenBuddy/internal/pkg/entitlements"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByActivationToken(token string) (*models.User, error)
	GetByAPIKeyHash(hash string) (*models.User, *models.UserSettings, error)
	Update(user *models.User) error
	Delete(id uint) error
	Count() (int64, error)
}

// SubscriptionRepository reads and writes subscription rows. The entitlement
// evaluator consumes it through the EffectiveTier method; everything else is
// for registration defaults and the billing sync boundary.
type SubscriptionRepository interface {
	GetByUserID(userID uint) (*models.Subscription, error)
	Upsert(sub *models.Subscription) error
	EnsureDefault(userID uint) (*models.Subscription, error)
	// EffectiveTier satisfies entitlements.SubscriptionStore. A missing row
	// resolves to the free tier; a store error is returned so the caller can
	// fail closed.
	EffectiveTier(userID uint) (entitlements.Tier, error)
}

// UsageRepository persists monthly usage counters and satisfies
// entitlements.UsageStore. Increment must be atomic at the database level.
type UsageRepository interface {
	CountFor(userID uint, feature entitlements.FeatureKey, periodStart time.Time) (int64, error)
	Increment(userID uint, feature entitlements.FeatureKey, periodStart time.Time) (int64, error)
	CountsFor(userID uint, periodStart time.Time) (map[entitlements.FeatureKey]int64, error)
	ListByUser(userID uint) ([]models.UsageRecord, error)
}

// AnalysisRepository persists tool results.
type AnalysisRepository interface {
	CreateDocumentAnalysis(a *models.DocumentAnalysis) error
	GetDocumentAnalysisByUUID(uuid string) (*models.DocumentAnalysis, error)
	ListDocumentAnalyses(userID uint, offset, limit int) ([]models.DocumentAnalysis, error)

	CreateDNAAnalysis(a *models.DNAAnalysis) error
	GetDNAAnalysisByUUID(uuid string) (*models.DNAAnalysis, error)
	ListDNAAnalyses(userID uint, offset, limit int) ([]models.DNAAnalysis, error)

	CreatePhotoAnalysis(a *models.PhotoAnalysis) error
	GetPhotoAnalysisByUUID(uuid string) (*models.PhotoAnalysis, error)
	ListPhotoAnalyses(userID uint, offset, limit int) ([]models.PhotoAnalysis, error)

	CreateResearchQuery(q *models.ResearchQuery) error
	GetResearchQueryByUUID(uuid string) (*models.ResearchQuery, error)
	ListResearchQueries(userID uint, offset, limit int) ([]models.ResearchQuery, error)
}

// TreeRepository defines family tree and person operations
type TreeRepository interface {
	Create(tree *models.FamilyTree) error
	GetByID(id uint) (*models.FamilyTree, error)
	GetByUUID(uuid string) (*models.FamilyTree, error)
	ListByUser(userID uint) ([]models.FamilyTree, error)
	Update(tree *models.FamilyTree) error
	Delete(id uint) error
	CountByUserID(userID uint) (int64, error)

	CreatePerson(person *models.Person) error
	GetPerson(id uint) (*models.Person, error)
	ListPersons(treeID uint) ([]models.Person, error)
	UpdatePerson(person *models.Person) error
	DeletePerson(id uint) error
}
