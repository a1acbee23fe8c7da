package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yukikurage/study-planner-api/internal/dto"
	apierrors "github.com/yukikurage/study-planner-api/internal/errors"
	"github.com/yukikurage/study-planner-api/internal/middleware"
	"github.com/yukikurage/study-planner-api/internal/services"
)

type TaskHandler struct {
	taskService *services.TaskService
	logger      zerolog.Logger
}

func NewTaskHandler(taskService *services.TaskService, logger zerolog.Logger) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		logger:      logger,
	}
}

// ListTasks returns all tasks owned by the current user, newest first
func (h *TaskHandler) ListTasks(c *gin.Context) {
	ownerID, exists := middleware.GetOwnerID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	tasks, err := h.taskService.ListTasks(c.Request.Context(), ownerID)
	if err != nil {
		h.respondTaskError(c, err, "Server Error: Could not retrieve tasks")
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks))
}

// GetTask returns a specific task by ID
func (h *TaskHandler) GetTask(c *gin.Context) {
	ownerID, exists := middleware.GetOwnerID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	task, err := h.taskService.GetTask(c.Request.Context(), ownerID, c.Param("id"))
	if err != nil {
		h.respondTaskError(c, err, "Server Error: Could not retrieve task")
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskResponse(*task))
}

// CreateTask creates a new task owned by the current user
func (h *TaskHandler) CreateTask(c *gin.Context) {
	ownerID, exists := middleware.GetOwnerID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), ownerID, services.CreateTaskInput{
		Title:       req.Title,
		Subject:     req.Subject,
		Description: req.Description,
		DueDate:     req.DueDate,
		IsCompleted: req.IsCompleted,
	})
	if err != nil {
		h.respondTaskError(c, err, "Server Error: Could not save task")
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskResponse(*task))
}

// UpdateTask applies a partial update to a task
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	ownerID, exists := middleware.GetOwnerID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	var req dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.UpdateTask(c.Request.Context(), ownerID, c.Param("id"), services.UpdateTaskInput{
		Title:       req.Title,
		Subject:     req.Subject,
		Description: req.Description,
		DueDate:     req.DueDate,
		IsCompleted: req.IsCompleted,
	})
	if err != nil {
		h.respondTaskError(c, err, "Server Error: Could not update task")
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskResponse(*task))
}

// ToggleTask flips the completion flag of a task
func (h *TaskHandler) ToggleTask(c *gin.Context) {
	ownerID, exists := middleware.GetOwnerID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	task, err := h.taskService.ToggleTaskCompletion(c.Request.Context(), ownerID, c.Param("id"))
	if err != nil {
		h.respondTaskError(c, err, "Server Error: Could not update task")
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskResponse(*task))
}

// DeleteTask deletes a task
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	ownerID, exists := middleware.GetOwnerID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	if err := h.taskService.DeleteTask(c.Request.Context(), ownerID, c.Param("id")); err != nil {
		h.respondTaskError(c, err, "Server Error: Could not delete task")
		return
	}

	c.JSON(http.StatusOK, dto.EmptyResponse{Success: true})
}

func (h *TaskHandler) respondTaskError(c *gin.Context, err error, internalMessage string) {
	switch apierrors.KindOf(err) {
	case apierrors.KindValidation:
		apierrors.BadRequest(c, err.Error())
	case apierrors.KindNotFound:
		apierrors.NotFound(c, "Task not found")
	case apierrors.KindUnauthenticated:
		apierrors.Unauthorized(c, "")
	case apierrors.KindUnavailable:
		h.logger.Error().Err(err).Str("path", c.FullPath()).Msg("store unavailable")
		apierrors.ServiceUnavailable(c, "")
	case apierrors.KindInternal:
		h.logger.Error().Err(err).Str("path", c.FullPath()).Msg("task operation failed")
		apierrors.InternalError(c, internalMessage)
	}
}
