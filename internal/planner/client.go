// Package planner is the terminal-side projection of a user's tasks: an API
// client, a Board holding the current snapshot with locally pending
// mutations, and the derived display state.
package planner

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/yukikurage/study-planner-api/internal/constants"
	"github.com/yukikurage/study-planner-api/internal/dto"
	apierrors "github.com/yukikurage/study-planner-api/internal/errors"
)

// API is the set of task operations the Board needs
type API interface {
	ListTasks(ctx context.Context) ([]dto.TaskDTO, error)
	CreateTask(ctx context.Context, req dto.CreateTaskRequest) (*dto.TaskDTO, error)
	UpdateTask(ctx context.Context, id string, req dto.UpdateTaskRequest) (*dto.TaskDTO, error)
	DeleteTask(ctx context.Context, id string) error
}

// Client calls the task API over HTTP
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient creates a Client for the API at baseURL. Every call is bounded
// by timeout; zero selects the default.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = constants.DefaultClientTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: timeout},
	}
}

// ListTasks fetches the caller's tasks, newest first
func (c *Client) ListTasks(ctx context.Context) ([]dto.TaskDTO, error) {
	var resp dto.TaskListResponse
	if err := c.do(ctx, http.MethodGet, "/api/tasks", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		resp.Data = []dto.TaskDTO{}
	}
	return resp.Data, nil
}

// CreateTask creates a task and returns it as stored
func (c *Client) CreateTask(ctx context.Context, req dto.CreateTaskRequest) (*dto.TaskDTO, error) {
	var resp dto.TaskResponse
	if err := c.do(ctx, http.MethodPost, "/api/tasks", req, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// UpdateTask applies a partial update
func (c *Client) UpdateTask(ctx context.Context, id string, req dto.UpdateTaskRequest) (*dto.TaskDTO, error) {
	var resp dto.TaskResponse
	if err := c.do(ctx, http.MethodPut, "/api/tasks/"+url.PathEscape(id), req, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// ToggleTask flips a task's completion flag server-side
func (c *Client) ToggleTask(ctx context.Context, id string) (*dto.TaskDTO, error) {
	var resp dto.TaskResponse
	if err := c.do(ctx, http.MethodPatch, "/api/tasks/"+url.PathEscape(id)+"/toggle", nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// DeleteTask deletes a task
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/tasks/"+url.PathEscape(id), nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w: %v", method, path, apierrors.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s %s: %w: %v", method, path, apierrors.ErrServiceUnavailable, err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decode %s %s response: %w", method, path, err)
		}
		return nil
	}

	return responseError(resp.StatusCode, raw)
}

// responseError maps a non-2xx response onto the shared error kinds. Only
// gateway and 503 responses mean the API is unreachable; any other server
// error is reported as is.
func responseError(status int, body []byte) error {
	var apiErr apierrors.APIError
	_ = json.Unmarshal(body, &apiErr)
	message := apiErr.Message
	if message == "" {
		message = http.StatusText(status)
	}

	switch {
	case status == http.StatusUnauthorized:
		return fmt.Errorf("%s: %w", message, apierrors.ErrUnauthenticated)
	case status == http.StatusNotFound:
		return fmt.Errorf("%s: %w", message, apierrors.ErrNotFound)
	case status == http.StatusBadRequest:
		return apierrors.NewValidationError([]string{message})
	case status == http.StatusBadGateway, status == http.StatusServiceUnavailable, status == http.StatusGatewayTimeout:
		return fmt.Errorf("%w: %s", apierrors.ErrServiceUnavailable, message)
	default:
		return apierrors.NewAPIError(message)
	}
}

// IsUnavailable reports whether err means the API could not be reached
func IsUnavailable(err error) bool {
	return errors.Is(err, apierrors.ErrServiceUnavailable)
}
