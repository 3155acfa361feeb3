package api

import (
	"time"

	"github.com/phrazzld/taskhub/internal/domain"
)

// CreateTaskRequest represents the request body for creating a new task.
// Due is optional and accepts YYYY-MM-DD or an RFC 3339 timestamp.
type CreateTaskRequest struct {
	Title string `json:"title" validate:"required"`
	Due   string `json:"due,omitempty"`
}

// TaskResponse represents a task on the wire.
type TaskResponse struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Due       *time.Time `json:"due,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

// taskToResponse converts a domain.Task to a TaskResponse
func taskToResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		ID:        task.ID.String(),
		Title:     task.Title,
		Due:       task.Due,
		CreatedAt: task.CreatedAt,
	}
}

// tasksToResponse converts tasks to responses. The result is never nil so
// that an empty listing encodes as [].
func tasksToResponse(tasks []*domain.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, taskToResponse(task))
	}
	return out
}
