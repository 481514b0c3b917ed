package repository

import (
	"github.com/ManuelReschke/WalletFox/app/models"
	"gorm.io/gorm"
)

// tutorialPageRepository implements the TutorialPageRepository interface
type tutorialPageRepository struct {
	db *gorm.DB
}

// NewTutorialPageRepository creates a new tutorial page repository instance
func NewTutorialPageRepository(db *gorm.DB) TutorialPageRepository {
	return &tutorialPageRepository{db: db}
}

// Create creates a new tutorial page in the database
func (r *tutorialPageRepository) Create(page *models.TutorialPage) error {
	return r.db.Create(page).Error
}

// GetByID retrieves a tutorial page by its ID
func (r *tutorialPageRepository) GetByID(id uint) (*models.TutorialPage, error) {
	var page models.TutorialPage
	err := r.db.First(&page, id).Error
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// GetBySlug retrieves an active tutorial page by its slug
func (r *tutorialPageRepository) GetBySlug(slug string) (*models.TutorialPage, error) {
	var page models.TutorialPage
	err := r.db.Where("slug = ? AND is_active = ?", slug, true).First(&page).Error
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// GetActive retrieves all active tutorial pages in display order
func (r *tutorialPageRepository) GetActive() ([]models.TutorialPage, error) {
	var pages []models.TutorialPage
	err := r.db.Where("is_active = ?", true).Order("position ASC, id ASC").Find(&pages).Error
	return pages, err
}

// Update updates an existing tutorial page in the database
func (r *tutorialPageRepository) Update(page *models.TutorialPage) error {
	return r.db.Save(page).Error
}

// Delete soft deletes a tutorial page by its ID
func (r *tutorialPageRepository) Delete(id uint) error {
	return r.db.Delete(&models.TutorialPage{}, id).Error
}

// SlugExists checks if a slug already exists
func (r *tutorialPageRepository) SlugExists(slug string) (bool, error) {
	var count int64
	err := r.db.Model(&models.TutorialPage{}).Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}
