package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Sahitha-chunduri/projectflow/internal/models"
)

// ErrNotFound is returned when a document does not exist.
var ErrNotFound = errors.New("repository: not found")

// ErrDuplicate is returned when a unique index rejects a write.
var ErrDuplicate = errors.New("repository: duplicate key")

// TaskFilter holds filtering options for listing tasks. UserID is mandatory:
// listings only ever return tasks the user created or is assigned to.
type TaskFilter struct {
	UserID      primitive.ObjectID
	ProjectName *string
	Status      *models.TaskStatus
	Priority    *models.TaskPriority
	AssignedTo  *primitive.ObjectID
}

// ProjectSummary is one row of the project aggregation: a distinct project
// name with its task count, most recent update, and the creator of the first
// task the pipeline encountered for that group.
type ProjectSummary struct {
	Name       string             `bson:"_id" json:"name"`
	TaskCount  int64              `bson:"taskCount" json:"taskCount"`
	LastUpdate time.Time          `bson:"lastUpdate" json:"lastUpdate"`
	CreatedBy  primitive.ObjectID `bson:"createdBy" json:"createdBy"`
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create inserts a new task
	Create(ctx context.Context, task *models.Task) error

	// FindByID finds a task by ID
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Task, error)

	// Update replaces a task document
	Update(ctx context.Context, task *models.Task) error

	// Delete hard-deletes a task
	Delete(ctx context.Context, id primitive.ObjectID) error

	// List returns non-archived tasks visible to the filter's user
	List(ctx context.Context, filter TaskFilter) ([]models.Task, error)

	// ListByProject returns all non-archived tasks of a project, newest first,
	// regardless of who can see them
	ListByProject(ctx context.Context, projectName string) ([]models.Task, error)

	// HasVisibleTask reports whether the user created or is assigned to at
	// least one non-archived task with the given project name
	HasVisibleTask(ctx context.Context, projectName string, userID primitive.ObjectID) (bool, error)

	// ListProjects aggregates the distinct projects visible to the user,
	// sorted by most recent update
	ListProjects(ctx context.Context, userID primitive.ObjectID) ([]ProjectSummary, error)
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create inserts a new user
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(ctx context.Context, username string) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// FindManyByIDs returns the users for the given IDs, keyed by ID
	FindManyByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.User, error)

	// ListActive returns all active users
	ListActive(ctx context.Context) ([]models.User, error)

	// Update replaces a user document
	Update(ctx context.Context, user *models.User) error
}

// ActivityRepository defines the interface for the append-only activity log
type ActivityRepository interface {
	// Create appends an activity record
	Create(ctx context.Context, activity *models.Activity) error
}

// ContactRepository defines the interface for contact data access
type ContactRepository interface {
	// Create inserts a new contact
	Create(ctx context.Context, contact *models.Contact) error

	// FindByID finds a contact by ID
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Contact, error)

	// List returns a page of the owner's active contacts plus the total count
	List(ctx context.Context, ownerID primitive.ObjectID, offset, limit int) ([]models.Contact, int64, error)

	// Update replaces a contact document
	Update(ctx context.Context, contact *models.Contact) error
}
