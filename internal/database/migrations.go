package database

import (
	"context"
	"fmt"

	"github.com/yukikurage/study-planner-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/gorm"
)

// OwnerCreatedIndex serves the owner-scoped, newest-first task listing
const OwnerCreatedIndex = "idx_tasks_owner_created"

// Migrate creates or updates the tasks table and its indexes
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Task{}); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	if err := AddIndexes(db); err != nil {
		return fmt.Errorf("failed to add indexes: %w", err)
	}
	return nil
}

// AddIndexes creates any index declared on the Task model that is missing
func AddIndexes(db *gorm.DB) error {
	migrator := db.Migrator()
	for _, name := range []string{OwnerCreatedIndex} {
		if migrator.HasIndex(&models.Task{}, name) {
			continue
		}
		if err := migrator.CreateIndex(&models.Task{}, name); err != nil {
			return fmt.Errorf("failed to create index %s: %w", name, err)
		}
	}
	return nil
}

// EnsureMongoIndexes creates the owner/createdAt index on the tasks collection.
// Creating an index that already exists with the same keys is a no-op.
func EnsureMongoIndexes(ctx context.Context, coll *mongo.Collection) error {
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "createdAt", Value: -1}},
		Options: options.Index().SetName(OwnerCreatedIndex),
	})
	if err != nil {
		return fmt.Errorf("failed to create index %s: %w", OwnerCreatedIndex, err)
	}
	return nil
}
