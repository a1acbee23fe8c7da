package repository

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"

	apierrors "github.com/yukikurage/study-planner-api/internal/errors"
	"github.com/yukikurage/study-planner-api/internal/models"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// dbError marks lost connections and deadlines as ErrServiceUnavailable
func dbError(err error) error {
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", apierrors.ErrServiceUnavailable, err)
	}
	return err
}

// List retrieves the owner's tasks, newest first
func (r *GormTaskRepository) List(ctx context.Context, ownerID string) ([]models.Task, error) {
	tasks := []models.Task{}
	if err := r.db.WithContext(ctx).
		Scopes(OwnedBy(ownerID), NewestFirst).
		Find(&tasks).Error; err != nil {
		return nil, dbError(err)
	}
	return tasks, nil
}

// FindByID finds a task by ID within the owner's tasks
func (r *GormTaskRepository) FindByID(ctx context.Context, ownerID, id string) (*models.Task, error) {
	var task models.Task
	err := r.db.WithContext(ctx).
		Scopes(OwnedBy(ownerID)).
		Where("id = ?", id).
		First(&task).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, dbError(err)
	}
	return &task, nil
}

// Create creates a new task
func (r *GormTaskRepository) Create(ctx context.Context, task *models.Task) error {
	return dbError(r.db.WithContext(ctx).Create(task).Error)
}

// Update writes the mutable fields. ID, OwnerID and CreatedAt are never updated.
func (r *GormTaskRepository) Update(ctx context.Context, task *models.Task) error {
	result := r.db.WithContext(ctx).
		Model(&models.Task{}).
		Scopes(OwnedBy(task.OwnerID)).
		Where("id = ?", task.ID).
		Updates(map[string]interface{}{
			"title":        task.Title,
			"subject":      task.Subject,
			"description":  task.Description,
			"due_date":     task.DueDate,
			"is_completed": task.IsCompleted,
		})
	return dbError(result.Error)
}

// Delete hard deletes a task
func (r *GormTaskRepository) Delete(ctx context.Context, ownerID, id string) error {
	result := r.db.WithContext(ctx).
		Scopes(OwnedBy(ownerID)).
		Where("id = ?", id).
		Delete(&models.Task{})
	if result.Error != nil {
		return dbError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}
