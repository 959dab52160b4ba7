package models

import (
	"time"

	"gorm.io/gorm"
)

// FamilyTree is a user-owned tree of persons. Creating a tree consumes quota;
// editing persons inside it does not.
type FamilyTree struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UUID        string         `gorm:"type:varchar(36);uniqueIndex" json:"uuid"`
	UserID      uint           `gorm:"not null;index" json:"user_id"`
	Name        string         `gorm:"type:varchar(150);not null" json:"name" validate:"required,min=1,max=150"`
	Description string         `gorm:"type:text" json:"description" validate:"max=2000"`
	Persons     []Person       `gorm:"foreignKey:TreeID" json:"persons,omitempty"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// Person is one individual inside a family tree. Parent links are plain row
// references; consistency across trees is not enforced at the DB level.
type Person struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	TreeID    uint           `gorm:"not null;index" json:"tree_id"`
	GivenName string         `gorm:"type:varchar(150)" json:"given_name" validate:"max=150"`
	Surname   string         `gorm:"type:varchar(150)" json:"surname" validate:"max=150"`
	Gender    string         `gorm:"type:varchar(16);default:''" json:"gender" validate:"omitempty,oneof=male female other unknown"`
	BirthYear *int           `json:"birth_year,omitempty"`
	DeathYear *int           `json:"death_year,omitempty"`
	FatherID  *uint          `json:"father_id,omitempty"`
	MotherID  *uint          `json:"mother_id,omitempty"`
	Notes     string         `gorm:"type:text" json:"notes" validate:"max=4000"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
