package repository

import (
	"sync"

	"gorm.io/gorm"
)

// Repositories bundles every repository implementation.
type Repositories struct {
	User         UserRepository
	Subscription SubscriptionRepository
	Usage        UsageRepository
	Analysis     AnalysisRepository
	Tree         TreeRepository
}

// NewRepositories creates all repository implementations backed by the given DB
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Subscription: NewSubscriptionRepository(db),
		Usage:        NewUsageRepository(db),
		Analysis:     NewAnalysisRepository(db),
		Tree:         NewTreeRepository(db),
	}
}

// Factory manages repository instances and ensures they are singletons
type Factory struct {
	db    *gorm.DB
	repos *Repositories
	once  sync.Once
}

// NewFactory creates a new repository factory
func NewFactory(db *gorm.DB) *Factory {
	return &Factory{
		db: db,
	}
}

// GetRepositories returns a singleton instance of all repositories
func (f *Factory) GetRepositories() *Repositories {
	f.once.Do(func() {
		f.repos = NewRepositories(f.db)
	})
	return f.repos
}

// GetUserRepository returns the user repository instance
func (f *Factory) GetUserRepository() UserRepository {
	return f.GetRepositories().User
}

// GetSubscriptionRepository returns the subscription repository instance
func (f *Factory) GetSubscriptionRepository() SubscriptionRepository {
	return f.GetRepositories().Subscription
}

// GetUsageRepository returns the usage repository instance
func (f *Factory) GetUsageRepository() UsageRepository {
	return f.GetRepositories().Usage
}

// GetAnalysisRepository returns the analysis repository instance
func (f *Factory) GetAnalysisRepository() AnalysisRepository {
	return f.GetRepositories().Analysis
}

// GetTreeRepository returns the tree repository instance
func (f *Factory) GetTreeRepository() TreeRepository {
	return f.GetRepositories().Tree
}

// Global factory instance
var globalFactory *Factory
var factoryOnce sync.Once

// InitializeFactory initializes the global repository factory
func InitializeFactory(db *gorm.DB) {
	factoryOnce.Do(func() {
		globalFactory = NewFactory(db)
	})
}

// GetGlobalFactory returns the global repository factory instance
func GetGlobalFactory() *Factory {
	if globalFactory == nil {
		panic("Repository factory not initialized. Call InitializeFactory first.")
	}
	return globalFactory
}

// GetGlobalRepositories returns the global repositories instance
func GetGlobalRepositories() *Repositories {
	return GetGlobalFactory().GetRepositories()
}

// Package-level shortcuts for controllers and middleware.

func GetUserRepository() UserRepository {
	return GetGlobalFactory().GetUserRepository()
}

func GetSubscriptionRepository() SubscriptionRepository {
	return GetGlobalFactory().GetSubscriptionRepository()
}

func GetUsageRepository() UsageRepository {
	return GetGlobalFactory().GetUsageRepository()
}

func GetAnalysisRepository() AnalysisRepository {
	return GetGlobalFactory().GetAnalysisRepository()
}

func GetTreeRepository() TreeRepository {
	return GetGlobalFactory().GetTreeRepository()
}

// SetGlobalRepositories overrides the global repositories; used by tests.
func SetGlobalRepositories(repos *Repositories) {
	factoryOnce.Do(func() {})
	globalFactory = &Factory{repos: repos}
	globalFactory.once.Do(func() {})
}
