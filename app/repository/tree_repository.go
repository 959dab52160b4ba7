package repository

import (
	"gorm.io/gorm"

	"github.com/genbuddy/GenBuddy/app/models"
)

type treeRepository struct {
	db *gorm.DB
}

// NewTreeRepository creates a family tree repository backed by GORM.
func NewTreeRepository(db *gorm.DB) TreeRepository {
	return &treeRepository{db: db}
}

func (r *treeRepository) Create(tree *models.FamilyTree) error {
	return r.db.Create(tree).Error
}

func (r *treeRepository) GetByID(id uint) (*models.FamilyTree, error) {
	var tree models.FamilyTree
	if err := r.db.First(&tree, id).Error; err != nil {
		return nil, err
	}
	return &tree, nil
}

func (r *treeRepository) GetByUUID(uuid string) (*models.FamilyTree, error) {
	var tree models.FamilyTree
	if err := r.db.Where("uuid = ?", uuid).First(&tree).Error; err != nil {
		return nil, err
	}
	return &tree, nil
}

func (r *treeRepository) ListByUser(userID uint) ([]models.FamilyTree, error) {
	var trees []models.FamilyTree
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&trees).Error
	return trees, err
}

func (r *treeRepository) Update(tree *models.FamilyTree) error {
	return r.db.Save(tree).Error
}

func (r *treeRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tree_id = ?", id).Delete(&models.Person{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.FamilyTree{}, id).Error
	})
}

func (r *treeRepository) CountByUserID(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.FamilyTree{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *treeRepository) CreatePerson(person *models.Person) error {
	return r.db.Create(person).Error
}

func (r *treeRepository) GetPerson(id uint) (*models.Person, error) {
	var person models.Person
	if err := r.db.First(&person, id).Error; err != nil {
		return nil, err
	}
	return &person, nil
}

func (r *treeRepository) ListPersons(treeID uint) ([]models.Person, error) {
	var persons []models.Person
	err := r.db.Where("tree_id = ?", treeID).Order("surname ASC, given_name ASC").Find(&persons).Error
	return persons, err
}

func (r *treeRepository) UpdatePerson(person *models.Person) error {
	return r.db.Save(person).Error
}

func (r *treeRepository) DeletePerson(id uint) error {
	return r.db.Delete(&models.Person{}, id).Error
}
