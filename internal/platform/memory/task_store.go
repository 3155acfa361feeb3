package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/taskhub/internal/domain"
	"github.com/phrazzld/taskhub/internal/store"
)

// TaskStore implements store.TaskStore with a mutex-guarded slice.
type TaskStore struct {
	mu    sync.RWMutex
	tasks []*domain.Task
	ids   map[uuid.UUID]struct{}
}

// NewTaskStore creates an empty TaskStore.
func NewTaskStore() *TaskStore {
	return &TaskStore{
		ids: make(map[uuid.UUID]struct{}),
	}
}

// Ensure TaskStore implements store.TaskStore interface
var _ store.TaskStore = (*TaskStore)(nil)

// Insert implements store.TaskStore.Insert.
// The stored value is a copy, so later changes by the caller are not visible.
func (s *TaskStore) Insert(ctx context.Context, task *domain.Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := task.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.ids[task.ID]; exists {
		return store.ErrTaskExists
	}

	s.tasks = append(s.tasks, cloneTask(task))
	s.ids[task.ID] = struct{}{}
	return nil
}

// Query implements store.TaskStore.Query
func (s *TaskStore) Query(ctx context.Context, filter store.TaskFilter) ([]*domain.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	result := make([]*domain.Task, 0, len(s.tasks))
	for _, task := range s.tasks {
		if filter.Matches(task) {
			result = append(result, cloneTask(task))
		}
	}
	s.mu.RUnlock()

	store.SortNewestFirst(result)
	return result, nil
}

// Ping implements store.TaskStore.Ping. The memory store is always reachable.
func (s *TaskStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Close implements store.TaskStore.Close
func (s *TaskStore) Close() error {
	return nil
}

func cloneTask(task *domain.Task) *domain.Task {
	c := *task
	if task.Due != nil {
		due := *task.Due
		c.Due = &due
	}
	return &c
}
