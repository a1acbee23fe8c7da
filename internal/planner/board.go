package planner

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/yukikurage/study-planner-api/internal/constants"
	"github.com/yukikurage/study-planner-api/internal/dto"
	apierrors "github.com/yukikurage/study-planner-api/internal/errors"
	"github.com/yukikurage/study-planner-api/internal/validation"
)

// ErrStaleResponse is returned by Refresh when a newer fetch was issued
// while this one was in flight. The snapshot is left untouched.
var ErrStaleResponse = errors.New("stale task list response discarded")

// OpKind names a pending mutation
type OpKind string

const (
	OpCreate OpKind = "create"
	OpToggle OpKind = "toggle"
	OpDelete OpKind = "delete"
)

// PendingOp is a mutation applied locally while the API was unreachable.
// A toggle records the completion state it sets, so replay is idempotent.
type PendingOp struct {
	Kind      OpKind                 `json:"kind"`
	TaskID    string                 `json:"taskId"`
	Input     *dto.CreateTaskRequest `json:"input,omitempty"`
	Completed *bool                  `json:"completed,omitempty"`
	QueuedAt  time.Time              `json:"queuedAt"`
}

// Item is one display row
type Item struct {
	Task    dto.TaskDTO
	Label   string
	Pending bool
}

// DroppedOp is a pending mutation the API rejected during Sync
type DroppedOp struct {
	Op  PendingOp
	Err error
}

// SyncReport summarises a Sync run
type SyncReport struct {
	Applied   int
	Dropped   []DroppedOp
	Remaining int
}

// Board holds the last fetched task list plus pending local mutations
type Board struct {
	api API
	now func() time.Time

	mu      sync.Mutex
	remote  []dto.TaskDTO
	pending []PendingOp
	seq     uint64
	offline bool

	syncMu sync.Mutex
}

// NewBoard creates a Board backed by api, restoring state if given
func NewBoard(api API, state *State) *Board {
	b := &Board{api: api, now: time.Now}
	if state != nil {
		b.remote = append([]dto.TaskDTO(nil), state.Tasks...)
		b.pending = append([]PendingOp(nil), state.Pending...)
	}
	return b
}

// Refresh fetches the task list. Only the response to the most recently
// issued fetch is applied.
func (b *Board) Refresh(ctx context.Context) error {
	b.mu.Lock()
	b.seq++
	seq := b.seq
	b.mu.Unlock()

	tasks, err := b.api.ListTasks(ctx)

	b.mu.Lock()
	defer b.mu.Unlock()
	if seq != b.seq {
		return ErrStaleResponse
	}
	if err != nil {
		b.offline = IsUnavailable(err)
		return err
	}
	b.offline = false
	b.remote = tasks
	return nil
}

// Add creates a task. If the API is unreachable the task is kept locally
// under a local- id and queued for Sync.
func (b *Board) Add(ctx context.Context, req dto.CreateTaskRequest) error {
	if _, err := validation.New(req.Title, req.Subject, req.Description, req.DueDate); err != nil {
		return err
	}

	_, err := b.api.CreateTask(ctx, req)
	if err == nil {
		return b.refreshAfterMutation(ctx)
	}
	if !IsUnavailable(err) {
		return err
	}

	input := req
	b.enqueue(PendingOp{
		Kind:   OpCreate,
		TaskID: constants.LocalTaskIDPrefix + uuid.NewString(),
		Input:  &input,
	}, true)
	return nil
}

// Toggle flips a task's completion flag by updating isCompleted
func (b *Board) Toggle(ctx context.Context, id string) error {
	task, ok := b.lookup(id)
	if !ok {
		return fmt.Errorf("task %s: %w", id, apierrors.ErrNotFound)
	}
	completed := !task.IsCompleted
	op := PendingOp{Kind: OpToggle, TaskID: id, Completed: &completed}
	if isLocalID(id) {
		b.enqueue(op, false)
		return nil
	}

	_, err := b.api.UpdateTask(ctx, id, dto.UpdateTaskRequest{IsCompleted: &completed})
	if err == nil {
		return b.refreshAfterMutation(ctx)
	}
	if !IsUnavailable(err) {
		return err
	}
	b.enqueue(op, true)
	return nil
}

// Delete removes a task
func (b *Board) Delete(ctx context.Context, id string) error {
	if _, ok := b.lookup(id); !ok {
		return fmt.Errorf("task %s: %w", id, apierrors.ErrNotFound)
	}
	if isLocalID(id) {
		b.enqueue(PendingOp{Kind: OpDelete, TaskID: id}, false)
		return nil
	}

	err := b.api.DeleteTask(ctx, id)
	if err == nil {
		return b.refreshAfterMutation(ctx)
	}
	if !IsUnavailable(err) {
		return err
	}
	b.enqueue(PendingOp{Kind: OpDelete, TaskID: id}, true)
	return nil
}

// Sync replays pending mutations in order. It stops at the first
// unavailable or unauthenticated error; mutations the API rejects as not
// found or invalid are dropped and reported.
func (b *Board) Sync(ctx context.Context) (SyncReport, error) {
	b.syncMu.Lock()
	defer b.syncMu.Unlock()

	var report SyncReport
	ids := map[string]string{}

	for {
		b.mu.Lock()
		if len(b.pending) == 0 {
			b.mu.Unlock()
			break
		}
		op := b.pending[0]
		b.mu.Unlock()

		if err := b.replay(ctx, op, ids); err != nil {
			switch apierrors.KindOf(err) {
			case apierrors.KindNotFound, apierrors.KindValidation:
				report.Dropped = append(report.Dropped, DroppedOp{Op: op, Err: err})
			default:
				b.mu.Lock()
				b.offline = IsUnavailable(err)
				b.remapPending(ids)
				report.Remaining = len(b.pending)
				b.mu.Unlock()
				return report, err
			}
		} else {
			report.Applied++
		}

		b.mu.Lock()
		b.pending = b.pending[1:]
		b.mu.Unlock()
	}

	if err := b.Refresh(ctx); err != nil && !errors.Is(err, ErrStaleResponse) {
		return report, err
	}
	return report, nil
}

func (b *Board) replay(ctx context.Context, op PendingOp, ids map[string]string) error {
	id := op.TaskID
	if mapped, ok := ids[id]; ok {
		id = mapped
	}

	switch op.Kind {
	case OpCreate:
		if op.Input == nil {
			return apierrors.NewValidationError([]string{"pending create has no input"})
		}
		created, err := b.api.CreateTask(ctx, *op.Input)
		if err != nil {
			return err
		}
		ids[op.TaskID] = created.ID
		b.mu.Lock()
		b.remote = append(b.remote, *created)
		b.mu.Unlock()
		return nil
	case OpToggle:
		if isLocalID(id) {
			return fmt.Errorf("task %s was never created: %w", id, apierrors.ErrNotFound)
		}
		if op.Completed == nil {
			return apierrors.NewValidationError([]string{"pending toggle has no target state"})
		}
		_, err := b.api.UpdateTask(ctx, id, dto.UpdateTaskRequest{IsCompleted: op.Completed})
		return err
	case OpDelete:
		if isLocalID(id) {
			return fmt.Errorf("task %s was never created: %w", id, apierrors.ErrNotFound)
		}
		return b.api.DeleteTask(ctx, id)
	default:
		return apierrors.NewValidationError([]string{fmt.Sprintf("unknown pending operation %q", op.Kind)})
	}
}

// remapPending rewrites local ids of already replayed creates so the
// remaining queue refers to server ids. Caller holds b.mu.
func (b *Board) remapPending(ids map[string]string) {
	for i := range b.pending {
		if mapped, ok := ids[b.pending[i].TaskID]; ok {
			b.pending[i].TaskID = mapped
		}
	}
}

// Items returns the display rows: the fetched list with pending mutations
// applied, incomplete first, then by due date.
func (b *Board) Items(now time.Time) []Item {
	b.mu.Lock()
	tasks, pendingIDs := b.viewLocked()
	b.mu.Unlock()

	SortForDisplay(tasks)

	items := make([]Item, 0, len(tasks))
	for _, t := range tasks {
		items = append(items, Item{
			Task:    t,
			Label:   UrgencyLabel(t, now),
			Pending: pendingIDs[t.ID],
		})
	}
	return items
}

// Offline reports whether the last API call found the service unreachable
func (b *Board) Offline() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.offline
}

// PendingCount returns the number of queued mutations
func (b *Board) PendingCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}

// Snapshot returns the state to persist between runs
func (b *Board) Snapshot() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return State{
		Tasks:   append([]dto.TaskDTO(nil), b.remote...),
		Pending: append([]PendingOp(nil), b.pending...),
		SavedAt: b.now(),
	}
}

func (b *Board) refreshAfterMutation(ctx context.Context) error {
	if err := b.Refresh(ctx); err != nil && !errors.Is(err, ErrStaleResponse) {
		return err
	}
	return nil
}

// enqueue queues op. offline is set when op was queued because the API
// could not be reached.
func (b *Board) enqueue(op PendingOp, offline bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	op.QueuedAt = b.now()
	b.pending = append(b.pending, op)
	if offline {
		b.offline = true
	}
}

// lookup finds id in the current view, pending mutations included
func (b *Board) lookup(id string) (dto.TaskDTO, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	tasks, _ := b.viewLocked()
	for _, t := range tasks {
		if t.ID == id {
			return t, true
		}
	}
	return dto.TaskDTO{}, false
}

// viewLocked applies pending mutations to a copy of the fetched list.
// Caller holds b.mu.
func (b *Board) viewLocked() ([]dto.TaskDTO, map[string]bool) {
	tasks := append([]dto.TaskDTO(nil), b.remote...)
	pendingIDs := map[string]bool{}

	for _, op := range b.pending {
		switch op.Kind {
		case OpCreate:
			if op.Input == nil {
				continue
			}
			tasks = append(tasks, localTask(op))
			pendingIDs[op.TaskID] = true
		case OpToggle:
			for i := range tasks {
				if tasks[i].ID == op.TaskID && op.Completed != nil {
					tasks[i].IsCompleted = *op.Completed
					pendingIDs[op.TaskID] = true
				}
			}
		case OpDelete:
			for i := range tasks {
				if tasks[i].ID == op.TaskID {
					tasks = append(tasks[:i], tasks[i+1:]...)
					delete(pendingIDs, op.TaskID)
					break
				}
			}
		}
	}
	return tasks, pendingIDs
}

func localTask(op PendingOp) dto.TaskDTO {
	due, _ := validation.ParseDueDate(op.Input.DueDate)
	return dto.TaskDTO{
		ID:          op.TaskID,
		Title:       strings.TrimSpace(op.Input.Title),
		Subject:     strings.TrimSpace(op.Input.Subject),
		Description: op.Input.Description,
		DueDate:     due,
		IsCompleted: op.Input.IsCompleted,
		CreatedAt:   op.QueuedAt,
	}
}

func isLocalID(id string) bool {
	return strings.HasPrefix(id, constants.LocalTaskIDPrefix)
}
