package database

import (
	"gorm.io/gorm"
)

var DB *gorm.DB

// GetDB returns the shared database handle set up by SetupDatabase
func GetDB() *gorm.DB {
	return DB
}
