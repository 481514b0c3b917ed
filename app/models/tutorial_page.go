package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// TutorialPage is an educational page walking through one of the demo flows.
// Content is seeded by migrations and read-only at runtime.
type TutorialPage struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Title     string         `gorm:"type:varchar(255);not null" json:"title" validate:"required,min=1,max=255"`
	Slug      string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"slug" validate:"required,min=1,max=255"`
	Content   string         `gorm:"type:longtext;not null" json:"content" validate:"required,min=1"`
	Position  int            `gorm:"default:0" json:"position"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	ViewCount int64          `gorm:"default:0" json:"view_count"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (p *TutorialPage) Validate() error {
	v := validator.New()
	return v.Struct(p)
}

func FindTutorialPageBySlug(db *gorm.DB, slug string) (*TutorialPage, error) {
	var page TutorialPage
	err := db.Where("slug = ? AND is_active = ?", slug, true).First(&page).Error
	if err != nil {
		return nil, err
	}
	return &page, nil
}

func FindTutorialPageByID(db *gorm.DB, id uint) (*TutorialPage, error) {
	var page TutorialPage
	err := db.First(&page, id).Error
	if err != nil {
		return nil, err
	}
	return &page, nil
}

func GetActiveTutorialPages(db *gorm.DB) ([]TutorialPage, error) {
	var pages []TutorialPage
	err := db.Where("is_active = ?", true).Order("position ASC, id ASC").Find(&pages).Error
	return pages, err
}
