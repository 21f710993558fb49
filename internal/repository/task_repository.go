package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Sahitha-chunduri/projectflow/internal/models"
)

// MongoTaskRepository is a MongoDB implementation of TaskRepository
type MongoTaskRepository struct {
	collection *mongo.Collection
}

// NewTaskRepository creates a new TaskRepository backed by the tasks collection
func NewTaskRepository(db *mongo.Database) TaskRepository {
	return &MongoTaskRepository{collection: db.Collection("tasks")}
}

// visibilityFilter matches tasks the user created or is assigned to.
func visibilityFilter(userID primitive.ObjectID) bson.M {
	return bson.M{
		"$or": bson.A{
			bson.M{"createdBy": userID},
			bson.M{"assignedTo": userID},
		},
	}
}

// Create inserts a new task
func (r *MongoTaskRepository) Create(ctx context.Context, task *models.Task) error {
	if task.ID.IsZero() {
		task.ID = primitive.NewObjectID()
	}
	_, err := r.collection.InsertOne(ctx, task)
	return err
}

// FindByID finds a task by ID
func (r *MongoTaskRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Task, error) {
	var task models.Task
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&task)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &task, nil
}

// Update replaces a task document
func (r *MongoTaskRepository) Update(ctx context.Context, task *models.Task) error {
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": task.ID}, task)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete hard-deletes a task
func (r *MongoTaskRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns non-archived tasks visible to the filter's user
func (r *MongoTaskRepository) List(ctx context.Context, filter TaskFilter) ([]models.Task, error) {
	query := visibilityFilter(filter.UserID)
	query["isArchived"] = false

	if filter.ProjectName != nil {
		query["projectName"] = *filter.ProjectName
	}
	if filter.Status != nil {
		query["status"] = *filter.Status
	}
	if filter.Priority != nil {
		query["priority"] = *filter.Priority
	}
	if filter.AssignedTo != nil {
		query["assignedTo"] = *filter.AssignedTo
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	tasks := []models.Task{}
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListByProject returns all non-archived tasks of a project, newest first.
// Visibility is the caller's concern: once a user passes the project
// visibility gate the full task set is exposed.
func (r *MongoTaskRepository) ListByProject(ctx context.Context, projectName string) ([]models.Task, error) {
	query := bson.M{
		"projectName": projectName,
		"isArchived":  false,
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	tasks := []models.Task{}
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// HasVisibleTask reports whether the user can see at least one non-archived
// task with the given project name
func (r *MongoTaskRepository) HasVisibleTask(ctx context.Context, projectName string, userID primitive.ObjectID) (bool, error) {
	query := visibilityFilter(userID)
	query["projectName"] = projectName
	query["isArchived"] = false

	count, err := r.collection.CountDocuments(ctx, query, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListProjects aggregates the distinct non-empty project names visible to the
// user. The creator reported per project is whichever document the pipeline
// visits first for that group, not necessarily the earliest one.
func (r *MongoTaskRepository) ListProjects(ctx context.Context, userID primitive.ObjectID) ([]ProjectSummary, error) {
	match := visibilityFilter(userID)
	match["isArchived"] = false
	match["projectName"] = bson.M{"$nin": bson.A{"", nil}}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{
			"_id":        "$projectName",
			"taskCount":  bson.M{"$sum": 1},
			"lastUpdate": bson.M{"$max": "$updatedAt"},
			"createdBy":  bson.M{"$first": "$createdBy"},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "lastUpdate", Value: -1}}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	summaries := []ProjectSummary{}
	if err := cursor.All(ctx, &summaries); err != nil {
		return nil, err
	}
	return summaries, nil
}
