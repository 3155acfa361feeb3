package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskhub/internal/domain"
	"github.com/phrazzld/taskhub/internal/platform/logger"
	"github.com/phrazzld/taskhub/internal/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// CollectionName is the collection holding task documents.
const CollectionName = "tasks"

// disconnectTimeout bounds how long Close waits for the driver to shut down.
const disconnectTimeout = 5 * time.Second

// taskDocument is the stored form of a task.
type taskDocument struct {
	ID        string     `bson:"_id"`
	Title     string     `bson:"title"`
	Due       *time.Time `bson:"due,omitempty"`
	CreatedAt time.Time  `bson:"createdAt"`
}

// TaskStore implements the store.TaskStore interface on a MongoDB collection.
type TaskStore struct {
	client     *mongo.Client
	collection *mongo.Collection
	logger     *slog.Logger
}

// Ensure TaskStore implements store.TaskStore interface
var _ store.TaskStore = (*TaskStore)(nil)

// Connect dials MongoDB at uri, verifies the connection and ensures the
// collection indexes exist. The returned store owns the client.
func Connect(ctx context.Context, uri, database string, log *slog.Logger) (*TaskStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("%w: ping mongodb: %v", store.ErrUnavailable, err)
	}

	s := NewTaskStore(client, database, log)
	if err := s.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

// NewTaskStore creates a TaskStore over an existing client. If log is nil,
// a default logger will be used.
func NewTaskStore(client *mongo.Client, database string, log *slog.Logger) *TaskStore {
	if client == nil {
		panic("client cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &TaskStore{
		client:     client,
		collection: client.Database(database).Collection(CollectionName),
		logger:     log.With(slog.String("component", "task_store"), slog.String("backend", "mongo")),
	}
}

// EnsureIndexes creates the index backing newest-first listing.
func (s *TaskStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}},
		Options: options.Index().SetName("createdAt_desc"),
	})
	if err != nil {
		return store.NewStoreError("task", "create_index", "failed to create createdAt index", err)
	}
	return nil
}

// Insert implements store.TaskStore.Insert
func (s *TaskStore) Insert(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during insert",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	if _, err := s.collection.InsertOne(ctx, toDocument(task)); err != nil {
		log.Error("failed to insert task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return store.NewStoreError("task", "insert", "failed to insert task", MapError(err))
	}

	log.Debug("task inserted", slog.String("task_id", task.ID.String()))
	return nil
}

// Query implements store.TaskStore.Query
func (s *TaskStore) Query(ctx context.Context, filter store.TaskFilter) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := s.collection.Find(ctx, buildFilter(filter), opts)
	if err != nil {
		log.Error("failed to query tasks", slog.String("error", err.Error()))
		return nil, store.NewStoreError("task", "query", "failed to query tasks", MapError(err))
	}
	defer func() {
		if closeErr := cursor.Close(ctx); closeErr != nil {
			log.Warn("failed to close cursor", slog.String("error", closeErr.Error()))
		}
	}()

	tasks := make([]*domain.Task, 0)
	for cursor.Next(ctx) {
		var doc taskDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, store.NewStoreError("task", "query", "failed to decode task", err)
		}
		task, err := fromDocument(doc)
		if err != nil {
			return nil, store.NewStoreError("task", "query", "failed to decode task", err)
		}
		tasks = append(tasks, task)
	}
	if err := cursor.Err(); err != nil {
		return nil, store.NewStoreError("task", "query", "failed to iterate tasks", MapError(err))
	}

	return tasks, nil
}

// Ping implements store.TaskStore.Ping
func (s *TaskStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	return nil
}

// Close implements store.TaskStore.Close
func (s *TaskStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), disconnectTimeout)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// buildFilter translates a TaskFilter into a MongoDB query document. The
// substring is quoted so that user input never acts as a pattern.
func buildFilter(filter store.TaskFilter) bson.M {
	if filter.Query == "" {
		return bson.M{}
	}
	return bson.M{
		"title": primitive.Regex{Pattern: regexp.QuoteMeta(filter.Query), Options: "i"},
	}
}

// MapError maps driver errors to store sentinel errors.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", store.ErrTaskExists, err)
	case mongo.IsNetworkError(err), mongo.IsTimeout(err),
		errors.Is(err, mongo.ErrClientDisconnected):
		return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	return err
}

func toDocument(task *domain.Task) taskDocument {
	doc := taskDocument{
		ID:        task.ID.String(),
		Title:     task.Title,
		CreatedAt: task.CreatedAt.UTC(),
	}
	if task.Due != nil {
		d := task.Due.UTC()
		doc.Due = &d
	}
	return doc
}

func fromDocument(doc taskDocument) (*domain.Task, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("parse task id %q: %w", doc.ID, err)
	}
	task := &domain.Task{
		ID:        id,
		Title:     doc.Title,
		CreatedAt: doc.CreatedAt.UTC(),
	}
	if doc.Due != nil {
		d := doc.Due.UTC()
		task.Due = &d
	}
	return task, nil
}
