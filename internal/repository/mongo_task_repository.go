package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	apierrors "github.com/yukikurage/study-planner-api/internal/errors"
	"github.com/yukikurage/study-planner-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TaskCollection is the MongoDB collection holding task documents
const TaskCollection = "tasks"

// taskDocument is the stored shape of a task. Field names match the
// collection written by earlier versions of the planner.
type taskDocument struct {
	ID          primitive.ObjectID `bson:"_id"`
	Title       string             `bson:"title"`
	Subject     string             `bson:"subject"`
	Description string             `bson:"description,omitempty"`
	DueDate     time.Time          `bson:"dueDate"`
	IsCompleted bool               `bson:"isCompleted"`
	OwnerID     string             `bson:"user_id"`
	CreatedAt   time.Time          `bson:"createdAt"`
}

func (d taskDocument) toModel() models.Task {
	return models.Task{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Subject:     d.Subject,
		Description: d.Description,
		DueDate:     d.DueDate,
		IsCompleted: d.IsCompleted,
		OwnerID:     d.OwnerID,
		CreatedAt:   d.CreatedAt,
	}
}

// MongoTaskRepository is a MongoDB implementation of TaskRepository
type MongoTaskRepository struct {
	coll *mongo.Collection
}

// NewMongoTaskRepository creates a TaskRepository backed by the given collection
func NewMongoTaskRepository(coll *mongo.Collection) TaskRepository {
	return &MongoTaskRepository{coll: coll}
}

// ownedFilter matches a single task by id and owner. An id that is not a
// valid ObjectID cannot match anything.
func ownedFilter(ownerID, id string) (bson.M, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrTaskNotFound
	}
	return bson.M{"_id": oid, "user_id": ownerID}, nil
}

// storeError wraps a driver error. Network failures and timeouts are
// reported as ErrServiceUnavailable.
func storeError(op string, err error) error {
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
		return fmt.Errorf("%s: %w: %v", op, apierrors.ErrServiceUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// List retrieves the owner's tasks, newest first
func (r *MongoTaskRepository) List(ctx context.Context, ownerID string) ([]models.Task, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"user_id": ownerID}, opts)
	if err != nil {
		return nil, storeError("find tasks", err)
	}
	defer cursor.Close(ctx)

	var docs []taskDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, storeError("decode tasks", err)
	}

	tasks := make([]models.Task, 0, len(docs))
	for _, d := range docs {
		tasks = append(tasks, d.toModel())
	}
	return tasks, nil
}

// FindByID finds a task by ID within the owner's tasks
func (r *MongoTaskRepository) FindByID(ctx context.Context, ownerID, id string) (*models.Task, error) {
	filter, err := ownedFilter(ownerID, id)
	if err != nil {
		return nil, err
	}

	var doc taskDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrTaskNotFound
		}
		return nil, storeError("find task", err)
	}

	task := doc.toModel()
	return &task, nil
}

// Create inserts a new task document and sets task.ID to its ObjectID hex
func (r *MongoTaskRepository) Create(ctx context.Context, task *models.Task) error {
	doc := taskDocument{
		ID:          primitive.NewObjectID(),
		Title:       task.Title,
		Subject:     task.Subject,
		Description: task.Description,
		DueDate:     task.DueDate,
		IsCompleted: task.IsCompleted,
		OwnerID:     task.OwnerID,
		CreatedAt:   task.CreatedAt,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return storeError("insert task", err)
	}
	task.ID = doc.ID.Hex()
	return nil
}

// Update sets the mutable fields of a task matched by ID and OwnerID
func (r *MongoTaskRepository) Update(ctx context.Context, task *models.Task) error {
	filter, err := ownedFilter(task.OwnerID, task.ID)
	if err != nil {
		return err
	}

	update := bson.M{"$set": bson.M{
		"title":       task.Title,
		"subject":     task.Subject,
		"description": task.Description,
		"dueDate":     task.DueDate,
		"isCompleted": task.IsCompleted,
	}}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return storeError("update task", err)
	}
	if res.MatchedCount == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// Delete removes a task matched by id and owner
func (r *MongoTaskRepository) Delete(ctx context.Context, ownerID, id string) error {
	filter, err := ownedFilter(ownerID, id)
	if err != nil {
		return err
	}

	res, err := r.coll.DeleteOne(ctx, filter)
	if err != nil {
		return storeError("delete task", err)
	}
	if res.DeletedCount == 0 {
		return ErrTaskNotFound
	}
	return nil
}
