package dto

import (
	"time"

	"github.com/yukikurage/study-planner-api/internal/models"
)

// CreateTaskRequest is the POST /api/tasks body. Any ownerId, id or
// createdAt sent by the client is not part of the request and is dropped.
type CreateTaskRequest struct {
	Title       string `json:"title"`
	Subject     string `json:"subject"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate"`
	IsCompleted bool   `json:"isCompleted"`
}

// UpdateTaskRequest is the PUT /api/tasks/:id body; omitted fields are unchanged
type UpdateTaskRequest struct {
	Title       *string `json:"title,omitempty"`
	Subject     *string `json:"subject,omitempty"`
	Description *string `json:"description,omitempty"`
	DueDate     *string `json:"dueDate,omitempty"`
	IsCompleted *bool   `json:"isCompleted,omitempty"`
}

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Subject     string    `json:"subject"`
	Description string    `json:"description"`
	DueDate     time.Time `json:"dueDate"`
	IsCompleted bool      `json:"isCompleted"`
	OwnerID     string    `json:"ownerId"`
	CreatedAt   time.Time `json:"createdAt"`
}

// TaskListResponse is the GET /api/tasks envelope
type TaskListResponse struct {
	Success bool      `json:"success"`
	Count   int       `json:"count"`
	Data    []TaskDTO `json:"data"`
}

// TaskResponse wraps a single task
type TaskResponse struct {
	Success bool    `json:"success"`
	Data    TaskDTO `json:"data"`
}

// EmptyResponse is returned by DELETE; data is an empty object, never null
type EmptyResponse struct {
	Success bool     `json:"success"`
	Data    struct{} `json:"data"`
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	return TaskDTO{
		ID:          task.ID,
		Title:       task.Title,
		Subject:     task.Subject,
		Description: task.Description,
		DueDate:     task.DueDate,
		IsCompleted: task.IsCompleted,
		OwnerID:     task.OwnerID,
		CreatedAt:   task.CreatedAt,
	}
}

// ToTaskListResponse converts a slice of tasks to TaskListResponse
func ToTaskListResponse(tasks []models.Task) TaskListResponse {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task)
	}

	return TaskListResponse{
		Success: true,
		Count:   len(items),
		Data:    items,
	}
}

// ToTaskResponse wraps a task in the success envelope
func ToTaskResponse(task models.Task) TaskResponse {
	return TaskResponse{Success: true, Data: ToTaskDTO(task)}
}
