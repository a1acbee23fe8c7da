package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	apierrors "github.com/yukikurage/study-planner-api/internal/errors"
	"github.com/yukikurage/study-planner-api/internal/models"
	"github.com/yukikurage/study-planner-api/internal/repository"
	"github.com/yukikurage/study-planner-api/internal/validation"
)

var (
	ErrTaskNotFound    = repository.ErrTaskNotFound
	ErrOwnerIDRequired = fmt.Errorf("owner id is required: %w", apierrors.ErrUnauthenticated)
)

// TaskService applies validation and ownership rules on top of a TaskRepository.
type TaskService struct {
	taskRepo repository.TaskRepository
	now      func() time.Time
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		now:      time.Now,
	}
}

// CreateTaskInput represents input for creating a task.
// DueDate is the raw client value; see validation.ParseDueDate.
type CreateTaskInput struct {
	Title       string
	Subject     string
	Description string
	DueDate     string
	IsCompleted bool
}

// UpdateTaskInput represents a partial update. Nil fields are left unchanged.
type UpdateTaskInput struct {
	Title       *string
	Subject     *string
	Description *string
	DueDate     *string
	IsCompleted *bool
}

// ListTasks returns the owner's tasks, newest first. An owner with no tasks gets an empty slice.
func (s *TaskService) ListTasks(ctx context.Context, ownerID string) ([]models.Task, error) {
	if ownerID == "" {
		return nil, ErrOwnerIDRequired
	}

	tasks, err := s.taskRepo.List(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	return tasks, nil
}

// GetTask returns one of the owner's tasks
func (s *TaskService) GetTask(ctx context.Context, ownerID, taskID string) (*models.Task, error) {
	if ownerID == "" {
		return nil, ErrOwnerIDRequired
	}
	return s.findOwned(ctx, ownerID, taskID)
}

// CreateTask validates the input and persists a task owned by ownerID
func (s *TaskService) CreateTask(ctx context.Context, ownerID string, input CreateTaskInput) (*models.Task, error) {
	if ownerID == "" {
		return nil, ErrOwnerIDRequired
	}

	fields, err := validation.New(input.Title, input.Subject, input.Description, input.DueDate)
	if err != nil {
		return nil, err
	}

	task := &models.Task{
		Title:       fields.Title,
		Subject:     fields.Subject,
		Description: fields.Description,
		DueDate:     *fields.DueDate,
		IsCompleted: input.IsCompleted,
		OwnerID:     ownerID,
		CreatedAt:   s.now(),
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// UpdateTask applies the supplied fields to one of the owner's tasks
func (s *TaskService) UpdateTask(ctx context.Context, ownerID, taskID string, input UpdateTaskInput) (*models.Task, error) {
	if ownerID == "" {
		return nil, ErrOwnerIDRequired
	}

	task, err := s.findOwned(ctx, ownerID, taskID)
	if err != nil {
		return nil, err
	}

	fields := validation.Fields{
		Title:       task.Title,
		Subject:     task.Subject,
		Description: task.Description,
		DueDate:     &task.DueDate,
	}
	badDue := false
	if input.Title != nil {
		fields.Title = strings.TrimSpace(*input.Title)
	}
	if input.Subject != nil {
		fields.Subject = strings.TrimSpace(*input.Subject)
	}
	if input.Description != nil {
		fields.Description = *input.Description
	}
	if input.DueDate != nil {
		fields.DueDate, badDue = validation.DueDateFrom(*input.DueDate)
	}
	if err := validation.Validate(fields, badDue); err != nil {
		return nil, err
	}

	task.Title = fields.Title
	task.Subject = fields.Subject
	task.Description = fields.Description
	task.DueDate = *fields.DueDate
	if input.IsCompleted != nil {
		task.IsCompleted = *input.IsCompleted
	}

	if err := s.taskRepo.Update(ctx, task); err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

// ToggleTaskCompletion flips isCompleted on one of the owner's tasks
func (s *TaskService) ToggleTaskCompletion(ctx context.Context, ownerID, taskID string) (*models.Task, error) {
	if ownerID == "" {
		return nil, ErrOwnerIDRequired
	}

	task, err := s.findOwned(ctx, ownerID, taskID)
	if err != nil {
		return nil, err
	}

	task.IsCompleted = !task.IsCompleted
	if err := s.taskRepo.Update(ctx, task); err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to toggle task: %w", err)
	}

	return task, nil
}

// DeleteTask deletes one of the owner's tasks
func (s *TaskService) DeleteTask(ctx context.Context, ownerID, taskID string) error {
	if ownerID == "" {
		return ErrOwnerIDRequired
	}

	if err := s.taskRepo.Delete(ctx, ownerID, taskID); err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// findOwned loads a task matched by id and owner
func (s *TaskService) findOwned(ctx context.Context, ownerID, taskID string) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, ownerID, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}
