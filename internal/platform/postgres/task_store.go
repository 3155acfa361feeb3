package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/phrazzld/taskhub/internal/domain"
	"github.com/phrazzld/taskhub/internal/platform/logger"
	"github.com/phrazzld/taskhub/internal/store"
)

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the TaskStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store"), slog.String("backend", "postgres")),
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

const insertTaskQuery = `
	INSERT INTO tasks (id, title, due, created_at)
	VALUES ($1, $2, $3, $4)
`

const queryTasksQuery = `
	SELECT id, title, due, created_at
	FROM tasks
	WHERE $1::text = '' OR title ILIKE '%' || $1::text || '%'
	ORDER BY created_at DESC, id DESC
`

// Insert implements store.TaskStore.Insert
// Returns validation errors from the domain Task if data is invalid.
// Returns store.ErrTaskExists on an ID collision and store.ErrInvalidEntity
// when a table constraint rejects the row.
func (s *PostgresTaskStore) Insert(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during insert",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	_, err := s.db.ExecContext(ctx, insertTaskQuery,
		task.ID,
		task.Title,
		nullTime(task.Due),
		task.CreatedAt.UTC(),
	)
	if err != nil {
		mapped := MapError(err)
		log.Error("failed to insert task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return store.NewStoreError("task", "insert", "failed to insert task", mapped)
	}

	log.Debug("task inserted", slog.String("task_id", task.ID.String()))
	return nil
}

// Query implements store.TaskStore.Query
func (s *PostgresTaskStore) Query(ctx context.Context, filter store.TaskFilter) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, queryTasksQuery, store.EscapeLike(filter.Query))
	if err != nil {
		log.Error("failed to query tasks", slog.String("error", err.Error()))
		return nil, store.NewStoreError("task", "query", "failed to query tasks", MapError(err))
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warn("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	tasks := make([]*domain.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, store.NewStoreError("task", "query", "failed to scan task", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("task", "query", "failed to iterate tasks", MapError(err))
	}

	log.Debug("queried tasks", slog.Int("count", len(tasks)))
	return tasks, nil
}

// Ping implements store.TaskStore.Ping. A store built on a transaction is
// reachable for as long as the transaction is open.
func (s *PostgresTaskStore) Ping(ctx context.Context) error {
	pinger, ok := s.db.(interface{ PingContext(context.Context) error })
	if !ok {
		return nil
	}
	if err := pinger.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	return nil
}

// Close implements store.TaskStore.Close. It closes the connection pool when
// the store owns one.
func (s *PostgresTaskStore) Close() error {
	if closer, ok := s.db.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var task domain.Task
	var due sql.NullTime

	if err := row.Scan(&task.ID, &task.Title, &due, &task.CreatedAt); err != nil {
		return nil, err
	}

	task.CreatedAt = task.CreatedAt.UTC()
	if due.Valid {
		d := due.Time.UTC()
		task.Due = &d
	}
	return &task, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}
