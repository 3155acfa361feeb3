package store

import (
	"context"
	"slices"
	"strings"

	"github.com/phrazzld/taskhub/internal/domain"
)

// TaskFilter narrows a task query. The zero value matches every task.
type TaskFilter struct {
	// Query is matched as a literal, case-insensitive substring of the title.
	Query string
}

// Matches reports whether task satisfies the filter.
func (f TaskFilter) Matches(task *domain.Task) bool {
	if f.Query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(task.Title), strings.ToLower(f.Query))
}

// TaskStore defines the interface for task data persistence.
type TaskStore interface {
	// Insert saves a new task atomically. It validates the task first and
	// returns the domain validation error unchanged if the data is invalid.
	// Returns ErrTaskExists if a task with the same ID is already stored.
	Insert(ctx context.Context, task *domain.Task) error

	// Query returns every task matching filter, most recently created first.
	// Returns an empty slice, never nil, when nothing matches.
	Query(ctx context.Context, filter TaskFilter) ([]*domain.Task, error)

	// Ping verifies that the backing database is reachable.
	Ping(ctx context.Context) error

	// Close releases any resources held by the store.
	Close() error
}

// SortNewestFirst orders tasks by creation time descending, breaking ties by
// ID descending so that the order is deterministic.
func SortNewestFirst(tasks []*domain.Task) {
	slices.SortStableFunc(tasks, func(a, b *domain.Task) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(b.ID.String(), a.ID.String())
	})
}

// likeEscaper escapes the SQL LIKE wildcards and the escape character itself.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike returns s with LIKE metacharacters escaped using backslash, so
// that it matches literally inside a LIKE or ILIKE pattern.
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}
