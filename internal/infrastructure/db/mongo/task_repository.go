package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ngo-crm/feedback-crm/internal/core/domain"
)

const (
	collectionTasks    = "tasks"
	collectionCounters = "counters"
	taskCounterID      = "tasks"
)

// TaskRepository implements ports.TaskRepository using MongoDB. References
// are allocated from a counter document so concurrent submissions never share
// one.
type TaskRepository struct {
	col      *mongo.Collection
	counters *mongo.Collection
}

func NewTaskRepository(db *mongo.Database) *TaskRepository {
	return &TaskRepository{
		col:      db.Collection(collectionTasks),
		counters: db.Collection(collectionCounters),
	}
}

// taskDocument stores the numeric part of the reference for creation ordering.
type taskDocument struct {
	domain.Task `bson:",inline"`
	Seq         int64 `bson:"seq"`
}

type counterDocument struct {
	ID  string `bson:"_id"`
	Seq int64  `bson:"seq"`
}

func (r *TaskRepository) List(ctx context.Context) ([]*domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "seq", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []taskDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}

	tasks := make([]*domain.Task, 0, len(docs))
	for i := range docs {
		t := docs[i].Task
		tasks = append(tasks, &t)
	}
	return tasks, nil
}

func (r *TaskRepository) FindByID(ctx context.Context, id string) (*domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc taskDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("find task: %w", err)
	}
	return &doc.Task, nil
}

// Create inserts a task and raises the reference counter past its number,
// so seeded references are never handed out again.
func (r *TaskRepository) Create(ctx context.Context, task *domain.Task) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	seq := domain.ReferenceNumber(task.ID)
	if _, err := r.col.InsertOne(ctx, taskDocument{Task: *task, Seq: seq}); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: reference %s already exists", domain.ErrInvalidTask, task.ID)
		}
		return fmt.Errorf("insert task: %w", err)
	}

	if seq > 0 {
		_, err := r.counters.UpdateOne(ctx,
			bson.M{"_id": taskCounterID},
			bson.M{"$max": bson.M{"seq": seq}},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			return fmt.Errorf("advance task counter: %w", err)
		}
	}
	return nil
}

// Update writes the mutable lifecycle fields only if the stored version
// still matches task.Version.
func (r *TaskRepository) Update(ctx context.Context, task *domain.Task) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{
		"status":     task.Status,
		"assignee":   task.Assignee,
		"updated_at": task.UpdatedAt,
		"due_date":   task.DueDate,
		"version":    task.Version + 1,
	}
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": task.ID, "version": task.Version},
		bson.M{"$set": set},
	)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	if res.MatchedCount == 0 {
		n, err := r.col.CountDocuments(ctx, bson.M{"_id": task.ID})
		if err != nil {
			return fmt.Errorf("check task: %w", err)
		}
		if n == 0 {
			return domain.ErrTaskNotFound
		}
		return domain.ErrVersionConflict
	}
	task.Version++
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

// NextReference atomically increments the task counter.
func (r *TaskRepository) NextReference(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var counter counterDocument
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": taskCounterID},
		bson.M{"$inc": bson.M{"seq": 1}},
		opts,
	).Decode(&counter)
	if err != nil {
		return "", fmt.Errorf("next task reference: %w", err)
	}
	return domain.FormatReference(counter.Seq), nil
}

// ReplaceAssignee hands every open task of from over to to.
func (r *TaskRepository) ReplaceAssignee(ctx context.Context, from, to string, at time.Time) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{
		"assignee": from,
		"status":   bson.M{"$ne": domain.StatusClosed},
	}
	// $max keeps updated_at from moving before a date already stored.
	update := bson.M{
		"$set": bson.M{"assignee": to},
		"$max": bson.M{"updated_at": domain.DateOf(at)},
		"$inc": bson.M{"version": 1},
	}
	res, err := r.col.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, fmt.Errorf("replace assignee: %w", err)
	}
	return int(res.ModifiedCount), nil
}

// EnsureIndexes creates necessary indexes on the tasks collection.
func (r *TaskRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "seq", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "assignee", Value: 1}, {Key: "status", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
