package api

import (
	"context"

	"github.com/phrazzld/taskhub/internal/domain"
	"github.com/phrazzld/taskhub/internal/service"
)

// mockTaskService is a function-field implementation of service.TaskService.
type mockTaskService struct {
	createFn func(ctx context.Context, input service.CreateTaskInput) (*domain.Task, error)
	listFn   func(ctx context.Context, query string) ([]*domain.Task, error)

	createCalls int
	lastQuery   string
}

func (m *mockTaskService) CreateTask(
	ctx context.Context,
	input service.CreateTaskInput,
) (*domain.Task, error) {
	m.createCalls++
	return m.createFn(ctx, input)
}

func (m *mockTaskService) ListTasks(ctx context.Context, query string) ([]*domain.Task, error) {
	m.lastQuery = query
	return m.listFn(ctx, query)
}

// pingerFunc adapts a function to the Pinger interface.
type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error {
	return f(ctx)
}
