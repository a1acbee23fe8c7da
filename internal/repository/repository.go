package repository

import (
	"context"
	"fmt"

	apierrors "github.com/yukikurage/study-planner-api/internal/errors"
	"github.com/yukikurage/study-planner-api/internal/models"
)

// ErrTaskNotFound is returned when no task matches both the id and the owner.
// A task owned by someone else is reported the same way as a missing one.
var ErrTaskNotFound = fmt.Errorf("task %w", apierrors.ErrNotFound)

// TaskRepository defines owner-scoped data access for tasks.
// Every method filters by owner; there is no unscoped lookup.
type TaskRepository interface {
	// List returns the owner's tasks, newest createdAt first
	List(ctx context.Context, ownerID string) ([]models.Task, error)

	// FindByID finds a task by id and owner
	FindByID(ctx context.Context, ownerID, id string) (*models.Task, error)

	// Create persists a new task and assigns its ID
	Create(ctx context.Context, task *models.Task) error

	// Update saves the mutable fields of a task matched by ID and OwnerID
	Update(ctx context.Context, task *models.Task) error

	// Delete removes a task matched by id and owner
	Delete(ctx context.Context, ownerID, id string) error
}
