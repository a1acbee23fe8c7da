package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Task struct {
	ID          string    `gorm:"primarykey;size:36" json:"id"`
	Title       string    `gorm:"size:100;not null" json:"title"`
	Subject     string    `gorm:"size:50;not null" json:"subject"`
	Description string    `gorm:"size:500" json:"description"`
	DueDate     time.Time `gorm:"not null" json:"dueDate"`
	IsCompleted bool      `gorm:"not null" json:"isCompleted"`
	OwnerID     string    `gorm:"size:128;not null;index:idx_tasks_owner_created,priority:1" json:"ownerId"`
	CreatedAt   time.Time `gorm:"not null;index:idx_tasks_owner_created,priority:2" json:"createdAt"`
}

// TableName returns the table name for Task.
func (Task) TableName() string {
	return "tasks"
}

// BeforeCreate assigns a UUID when the caller has not set an ID.
func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
