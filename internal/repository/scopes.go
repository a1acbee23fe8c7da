package repository

import (
	"gorm.io/gorm"
)

// OwnedBy restricts a GORM query to tasks belonging to ownerID
func OwnedBy(ownerID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("owner_id = ?", ownerID)
	}
}

// NewestFirst orders tasks by creation time, most recent first
func NewestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC")
}
