package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	"github.com/phrazzld/taskhub/internal/config"
	"github.com/phrazzld/taskhub/internal/platform/memory"
	"github.com/phrazzld/taskhub/internal/platform/migrations"
	"github.com/phrazzld/taskhub/internal/platform/mongo"
	"github.com/phrazzld/taskhub/internal/platform/postgres"
	"github.com/phrazzld/taskhub/internal/platform/sqlite"
	"github.com/phrazzld/taskhub/internal/store"
)

// connectTimeout bounds connecting to and migrating the configured backend.
const connectTimeout = 10 * time.Second

// openStore connects to the backend selected by cfg.Database.Driver. SQL
// backends are migrated to the latest schema before use.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (store.TaskStore, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	switch cfg.Database.Driver {
	case config.DriverMongo:
		s, err := mongo.Connect(ctx, cfg.Database.URL, cfg.Database.Name, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to mongo: %w", err)
		}
		logger.Info("mongo connection established", slog.String("database", cfg.Database.Name))
		return s, nil

	case config.DriverPostgres:
		db, err := setupPostgres(ctx, cfg.Database.URL)
		if err != nil {
			return nil, err
		}
		if err := migrations.Run(ctx, db, migrations.DialectPostgres, migrations.CommandUp, logger); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to migrate postgres: %w", err)
		}
		logger.Info("postgres connection established")
		return postgres.NewPostgresTaskStore(db, logger), nil

	case config.DriverSQLite:
		s, err := sqlite.Open(ctx, cfg.Database.URL, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite: %w", err)
		}
		logger.Info("sqlite database opened", slog.String("path", cfg.Database.URL))
		return s, nil

	case config.DriverMemory:
		logger.Warn("using in-memory task store; tasks are lost on restart")
		return memory.NewTaskStore(), nil

	default:
		return nil, fmt.Errorf("unsupported database driver: %q", cfg.Database.Driver)
	}
}

// setupPostgres opens a pgx connection pool and verifies it is reachable.
func setupPostgres(ctx context.Context, url string) (*sql.DB, error) {
	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// runMigrations executes a goose command against the configured SQL backend.
func runMigrations(ctx context.Context, cfg *config.Config, command string, logger *slog.Logger) error {
	var (
		db      *sql.DB
		dialect string
		err     error
	)

	switch cfg.Database.Driver {
	case config.DriverPostgres:
		dialect = migrations.DialectPostgres
		db, err = setupPostgres(ctx, cfg.Database.URL)
	case config.DriverSQLite:
		dialect = migrations.DialectSQLite
		db, err = sql.Open(sqlite.DriverName, cfg.Database.URL)
	default:
		return fmt.Errorf("migrations are not supported for driver %q", cfg.Database.Driver)
	}
	if err != nil {
		return err
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			logger.Error("error closing database connection", "error", cerr)
		}
	}()

	if err := migrations.Run(ctx, db, dialect, command, logger); err != nil {
		return fmt.Errorf("migration %s failed: %w", command, err)
	}
	return nil
}
