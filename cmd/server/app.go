package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/taskhub/internal/config"
	"github.com/phrazzld/taskhub/internal/events"
	"github.com/phrazzld/taskhub/internal/service"
	"github.com/phrazzld/taskhub/internal/store"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	taskStore    store.TaskStore
	eventEmitter *events.InMemoryEmitter
	taskService  service.TaskService
}

// newApplication creates a new application instance around an already opened
// task store. The application takes ownership of the store and closes it
// during cleanup.
func newApplication(cfg *config.Config, logger *slog.Logger, taskStore store.TaskStore) (*application, error) {
	if taskStore == nil {
		return nil, fmt.Errorf("task store cannot be nil")
	}

	app := &application{
		config:    cfg,
		logger:    logger,
		taskStore: taskStore,
	}

	app.eventEmitter = events.NewInMemoryEmitter(logger)
	app.eventEmitter.RegisterHandler(events.AuditLogHandler(logger))

	var err error
	app.taskService, err = service.NewTaskService(taskStore, app.eventEmitter, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}

	logger.Info("application initialized successfully")
	return app, nil
}

// Run starts the HTTP server and blocks until ctx is canceled or the server
// fails. Resources are released before it returns.
func (app *application) Run(ctx context.Context) error {
	defer app.cleanup()

	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.taskStore != nil {
		if err := app.taskStore.Close(); err != nil {
			app.logger.Error("error closing task store", "error", err)
		}
	}

	app.logger.Info("application shutdown completed")
}
