package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	driver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/taskplanner/planner-api/internal/domain"
	"github.com/taskplanner/planner-api/internal/platform/logger"
	"github.com/taskplanner/planner-api/internal/store"
)

// CollectionName is the collection holding task documents.
const CollectionName = "tasks"

// Connect opens a client for uri and verifies it with a ping. timeout bounds
// both server selection and the initial connection.
func Connect(ctx context.Context, uri string, timeout time.Duration) (*driver.Client, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout)

	client, err := driver.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", MapError(err))
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", MapError(err))
	}

	return client, nil
}

// TaskStore implements store.TaskStore over a MongoDB collection.
type TaskStore struct {
	coll   *driver.Collection
	logger *slog.Logger
}

var (
	_ store.TaskStore = (*TaskStore)(nil)
	_ store.Pinger    = (*TaskStore)(nil)
)

// NewTaskStore creates a store over db's tasks collection.
func NewTaskStore(db *driver.Database, logger *slog.Logger) *TaskStore {
	if db == nil {
		panic("db cannot be nil") // ALLOW-PANIC
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskStore{
		coll:   db.Collection(CollectionName),
		logger: logger.With(slog.String("component", "mongo_task_store")),
	}
}

// EnsureIndexes creates the {userId, datetime} index used by owner listings.
func (s *TaskStore) EnsureIndexes(ctx context.Context) error {
	model := driver.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "datetime", Value: 1}},
		Options: options.Index().SetName("userId_datetime"),
	}
	if _, err := s.coll.Indexes().CreateOne(ctx, model); err != nil {
		return fmt.Errorf("failed to create task index: %w", MapError(err))
	}
	return nil
}

// Ping implements store.Pinger.
func (s *TaskStore) Ping(ctx context.Context) error {
	if err := s.coll.Database().Client().Ping(ctx, readpref.Primary()); err != nil {
		return MapError(err)
	}
	return nil
}

// Create implements store.TaskStore.
func (s *TaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	if _, err := s.coll.InsertOne(ctx, toDocument(task)); err != nil {
		log.Error("failed to insert task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return store.NewStoreError("task", "create", "insert failed", MapError(err))
	}

	log.Debug("task created",
		slog.String("task_id", task.ID.String()),
		slog.String("owner_id", task.OwnerID))
	return nil
}

// GetByID implements store.TaskStore.
func (s *TaskStore) GetByID(ctx context.Context, ownerID string, id uuid.UUID) (*domain.Task, error) {
	var doc taskDocument
	err := s.coll.FindOne(ctx, ownerFilter(ownerID, id)).Decode(&doc)
	if err != nil {
		if errors.Is(err, driver.ErrNoDocuments) {
			return nil, store.ErrTaskNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to find task",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return nil, store.NewStoreError("task", "get", "find failed", MapError(err))
	}
	return doc.toTask()
}

// ListByOwner implements store.TaskStore. MongoDB sorts missing datetimes
// first, so ordering is applied after loading.
func (s *TaskStore) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	cursor, err := s.coll.Find(ctx, bson.M{"userId": ownerID})
	if err != nil {
		log.Error("failed to list tasks",
			slog.String("error", err.Error()),
			slog.String("owner_id", ownerID))
		return nil, store.NewStoreError("task", "list", "find failed", MapError(err))
	}
	defer func() { _ = cursor.Close(ctx) }()

	tasks := make([]*domain.Task, 0)
	for cursor.Next(ctx) {
		var doc taskDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, store.NewStoreError("task", "list", "decode failed", err)
		}
		task, err := doc.toTask()
		if err != nil {
			log.Warn("skipping unreadable task document",
				slog.String("error", err.Error()),
				slog.String("owner_id", ownerID))
			continue
		}
		tasks = append(tasks, task)
	}
	if err := cursor.Err(); err != nil {
		return nil, store.NewStoreError("task", "list", "cursor failed", MapError(err))
	}

	store.SortByDatetime(tasks)
	return tasks, nil
}

// Update implements store.TaskStore. Only mutable fields are written.
func (s *TaskStore) Update(ctx context.Context, task *domain.Task) error {
	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	update := bson.M{"$set": bson.M{
		"title":       task.Title,
		"description": task.Description,
		"category":    task.Category,
		"datetime":    task.Datetime,
		"priority":    string(task.Priority),
		"completed":   task.Completed,
		"updatedAt":   task.UpdatedAt,
	}}

	result, err := s.coll.UpdateOne(ctx, ownerFilter(task.OwnerID, task.ID), update)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to update task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return store.NewStoreError("task", "update", "update failed", MapError(err))
	}
	if result.MatchedCount == 0 {
		return store.ErrTaskNotFound
	}
	return nil
}

// Delete implements store.TaskStore.
func (s *TaskStore) Delete(ctx context.Context, ownerID string, id uuid.UUID) error {
	result, err := s.coll.DeleteOne(ctx, ownerFilter(ownerID, id))
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return store.NewStoreError("task", "delete", "delete failed", MapError(err))
	}
	if result.DeletedCount == 0 {
		return store.ErrTaskNotFound
	}
	return nil
}

func ownerFilter(ownerID string, id uuid.UUID) bson.M {
	return bson.M{"_id": id.String(), "userId": ownerID}
}
