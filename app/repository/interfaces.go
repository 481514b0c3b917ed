package repository

import (
	"github.com/ManuelReschke/WalletFox/app/models"
	"gorm.io/gorm"
)

// TutorialPageRepository defines the interface for tutorial page operations
type TutorialPageRepository interface {
	Create(page *models.TutorialPage) error
	GetByID(id uint) (*models.TutorialPage, error)
	GetBySlug(slug string) (*models.TutorialPage, error)
	GetActive() ([]models.TutorialPage, error)
	Update(page *models.TutorialPage) error
	Delete(id uint) error
	SlugExists(slug string) (bool, error)
}

// Repositories struct holds all repository instances
type Repositories struct {
	TutorialPage TutorialPageRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		TutorialPage: NewTutorialPageRepository(db),
	}
}
