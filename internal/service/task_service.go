package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/phrazzld/taskhub/internal/domain"
	"github.com/phrazzld/taskhub/internal/events"
	"github.com/phrazzld/taskhub/internal/platform/logger"
	"github.com/phrazzld/taskhub/internal/store"
)

// CreateTaskInput carries the caller-supplied fields of a new task.
type CreateTaskInput struct {
	Title string
	Due   *time.Time
}

// TaskService provides task-related operations.
type TaskService interface {
	// CreateTask validates the input, assigns an ID and creation time, and
	// persists the task.
	CreateTask(ctx context.Context, input CreateTaskInput) (*domain.Task, error)

	// ListTasks returns tasks whose title contains query case-insensitively,
	// newest first. An empty query lists every task.
	ListTasks(ctx context.Context, query string) ([]*domain.Task, error)
}

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	taskStore store.TaskStore
	emitter   events.Emitter
	logger    *slog.Logger
}

// NewTaskService creates a new TaskService. The emitter is optional; when it
// is nil no events are published.
func NewTaskService(
	taskStore store.TaskStore,
	emitter events.Emitter,
	log *slog.Logger,
) (TaskService, error) {
	if taskStore == nil {
		return nil, &TaskServiceError{
			Operation: "create_service",
			Message:   "taskStore cannot be nil",
		}
	}
	if log == nil {
		log = slog.Default()
	}

	return &taskServiceImpl{
		taskStore: taskStore,
		emitter:   emitter,
		logger:    log.With("component", "task_service"),
	}, nil
}

// CreateTask implements TaskService.CreateTask
func (s *taskServiceImpl) CreateTask(
	ctx context.Context,
	input CreateTaskInput,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := domain.NewTask(input.Title, input.Due)
	if err != nil {
		log.Debug("rejected invalid task", "error", err)
		return nil, err
	}

	if err := s.taskStore.Insert(ctx, task); err != nil {
		log.Error("failed to insert task", "error", err, "task_id", task.ID)
		return nil, NewTaskServiceError("create_task", "failed to save task", err)
	}

	log.Info("task created", "task_id", task.ID)
	s.emitCreated(ctx, log, task)

	return task, nil
}

// ListTasks implements TaskService.ListTasks
func (s *taskServiceImpl) ListTasks(ctx context.Context, query string) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	query = strings.TrimSpace(query)

	tasks, err := s.taskStore.Query(ctx, store.TaskFilter{Query: query})
	if err != nil {
		log.Error("failed to query tasks", "error", err, "query_length", len(query))
		return nil, NewTaskServiceError("list_tasks", "failed to list tasks", err)
	}
	if tasks == nil {
		tasks = []*domain.Task{}
	}

	log.Debug("listed tasks", "count", len(tasks), "query_length", len(query))
	return tasks, nil
}

// emitCreated publishes a task.created event. The task is already stored, so
// emit failures are logged and otherwise ignored.
func (s *taskServiceImpl) emitCreated(ctx context.Context, log *slog.Logger, task *domain.Task) {
	if s.emitter == nil {
		return
	}

	event, err := events.NewEvent(events.TypeTaskCreated, task)
	if err != nil {
		log.Error("failed to build task event", "error", err, "task_id", task.ID)
		return
	}
	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		log.Warn("failed to emit task event", "error", err, "task_id", task.ID)
	}
}
