package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Sahitha-chunduri/projectflow/internal/models"
)

// MongoActivityRepository is a MongoDB implementation of ActivityRepository
type MongoActivityRepository struct {
	collection *mongo.Collection
}

// NewActivityRepository creates a new ActivityRepository backed by the
// activities collection
func NewActivityRepository(db *mongo.Database) ActivityRepository {
	return &MongoActivityRepository{collection: db.Collection("activities")}
}

// Create appends an activity record
func (r *MongoActivityRepository) Create(ctx context.Context, activity *models.Activity) error {
	if activity.ID.IsZero() {
		activity.ID = primitive.NewObjectID()
	}
	_, err := r.collection.InsertOne(ctx, activity)
	return err
}
