// Package testutil provides in-memory repository implementations for tests.
// They mirror the query semantics of the Mongo repositories closely enough
// that service and handler behavior can be exercised without a database.
package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Sahitha-chunduri/projectflow/internal/models"
	"github.com/Sahitha-chunduri/projectflow/internal/repository"
)

// FakeTaskRepository is an in-memory TaskRepository.
type FakeTaskRepository struct {
	mu    sync.Mutex
	tasks []models.Task
}

// NewFakeTaskRepository creates an empty FakeTaskRepository.
func NewFakeTaskRepository() *FakeTaskRepository {
	return &FakeTaskRepository{}
}

func (r *FakeTaskRepository) Create(_ context.Context, task *models.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if task.ID.IsZero() {
		task.ID = primitive.NewObjectID()
	}
	r.tasks = append(r.tasks, *task)
	return nil
}

func (r *FakeTaskRepository) FindByID(_ context.Context, id primitive.ObjectID) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.tasks {
		if r.tasks[i].ID == id {
			task := r.tasks[i]
			return &task, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *FakeTaskRepository) Update(_ context.Context, task *models.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.tasks {
		if r.tasks[i].ID == task.ID {
			r.tasks[i] = *task
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *FakeTaskRepository) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.tasks {
		if r.tasks[i].ID == id {
			r.tasks = append(r.tasks[:i], r.tasks[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func visible(task *models.Task, userID primitive.ObjectID) bool {
	return task.CreatedBy == userID || (task.AssignedTo != nil && *task.AssignedTo == userID)
}

func newestFirst(tasks []models.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})
}

func (r *FakeTaskRepository) List(_ context.Context, filter repository.TaskFilter) ([]models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := []models.Task{}
	for i := range r.tasks {
		task := r.tasks[i]
		if task.IsArchived || !visible(&task, filter.UserID) {
			continue
		}
		if filter.ProjectName != nil && task.ProjectName != *filter.ProjectName {
			continue
		}
		if filter.Status != nil && task.Status != *filter.Status {
			continue
		}
		if filter.Priority != nil && task.Priority != *filter.Priority {
			continue
		}
		if filter.AssignedTo != nil && (task.AssignedTo == nil || *task.AssignedTo != *filter.AssignedTo) {
			continue
		}
		result = append(result, task)
	}
	newestFirst(result)
	return result, nil
}

func (r *FakeTaskRepository) ListByProject(_ context.Context, projectName string) ([]models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := []models.Task{}
	for i := range r.tasks {
		if r.tasks[i].ProjectName == projectName && !r.tasks[i].IsArchived {
			result = append(result, r.tasks[i])
		}
	}
	newestFirst(result)
	return result, nil
}

func (r *FakeTaskRepository) HasVisibleTask(_ context.Context, projectName string, userID primitive.ObjectID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.tasks {
		if r.tasks[i].ProjectName == projectName && !r.tasks[i].IsArchived && visible(&r.tasks[i], userID) {
			return true, nil
		}
	}
	return false, nil
}

func (r *FakeTaskRepository) ListProjects(_ context.Context, userID primitive.ObjectID) ([]repository.ProjectSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order := []string{}
	groups := map[string]*repository.ProjectSummary{}
	for i := range r.tasks {
		task := r.tasks[i]
		if task.IsArchived || task.ProjectName == "" || !visible(&task, userID) {
			continue
		}
		summary, ok := groups[task.ProjectName]
		if !ok {
			summary = &repository.ProjectSummary{
				Name:       task.ProjectName,
				LastUpdate: task.UpdatedAt,
				CreatedBy:  task.CreatedBy,
			}
			groups[task.ProjectName] = summary
			order = append(order, task.ProjectName)
		}
		summary.TaskCount++
		if task.UpdatedAt.After(summary.LastUpdate) {
			summary.LastUpdate = task.UpdatedAt
		}
	}

	result := make([]repository.ProjectSummary, 0, len(order))
	for _, name := range order {
		result = append(result, *groups[name])
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].LastUpdate.After(result[j].LastUpdate)
	})
	return result, nil
}

// FakeUserRepository is an in-memory UserRepository.
type FakeUserRepository struct {
	mu    sync.Mutex
	users []models.User
}

// NewFakeUserRepository creates an empty FakeUserRepository.
func NewFakeUserRepository() *FakeUserRepository {
	return &FakeUserRepository{}
}

func (r *FakeUserRepository) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	for i := range r.users {
		if r.users[i].Username == user.Username || r.users[i].Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	r.users = append(r.users, *user)
	return nil
}

func (r *FakeUserRepository) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.users {
		if r.users[i].ID == id {
			user := r.users[i]
			return &user, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *FakeUserRepository) FindByUsername(_ context.Context, username string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.users {
		if r.users[i].Username == username {
			user := r.users[i]
			return &user, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *FakeUserRepository) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.users {
		if r.users[i].Email == email {
			user := r.users[i]
			return &user, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *FakeUserRepository) FindManyByIDs(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make(map[primitive.ObjectID]models.User, len(ids))
	for _, id := range ids {
		for i := range r.users {
			if r.users[i].ID == id {
				result[id] = r.users[i]
			}
		}
	}
	return result, nil
}

func (r *FakeUserRepository) ListActive(_ context.Context) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := []models.User{}
	for i := range r.users {
		if r.users[i].IsActive {
			result = append(result, r.users[i])
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].FirstName < result[j].FirstName
	})
	return result, nil
}

func (r *FakeUserRepository) Update(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.users {
		if r.users[i].ID != user.ID && (r.users[i].Username == user.Username || r.users[i].Email == user.Email) {
			return repository.ErrDuplicate
		}
	}
	for i := range r.users {
		if r.users[i].ID == user.ID {
			r.users[i] = *user
			return nil
		}
	}
	return repository.ErrNotFound
}

// FakeActivityRepository is an in-memory ActivityRepository.
type FakeActivityRepository struct {
	mu         sync.Mutex
	activities []models.Activity
}

// NewFakeActivityRepository creates an empty FakeActivityRepository.
func NewFakeActivityRepository() *FakeActivityRepository {
	return &FakeActivityRepository{}
}

func (r *FakeActivityRepository) Create(_ context.Context, activity *models.Activity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if activity.ID.IsZero() {
		activity.ID = primitive.NewObjectID()
	}
	r.activities = append(r.activities, *activity)
	return nil
}

// Activities returns a copy of the recorded activity log.
func (r *FakeActivityRepository) Activities() []models.Activity {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Activity{}, r.activities...)
}

// FakeContactRepository is an in-memory ContactRepository.
type FakeContactRepository struct {
	mu       sync.Mutex
	contacts []models.Contact
}

// NewFakeContactRepository creates an empty FakeContactRepository.
func NewFakeContactRepository() *FakeContactRepository {
	return &FakeContactRepository{}
}

func (r *FakeContactRepository) duplicateLocked(contact *models.Contact) bool {
	if contact.Email == "" {
		return false
	}
	for i := range r.contacts {
		if r.contacts[i].ID != contact.ID &&
			r.contacts[i].UserID == contact.UserID &&
			strings.EqualFold(r.contacts[i].Email, contact.Email) {
			return true
		}
	}
	return false
}

func (r *FakeContactRepository) Create(_ context.Context, contact *models.Contact) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if contact.ID.IsZero() {
		contact.ID = primitive.NewObjectID()
	}
	if r.duplicateLocked(contact) {
		return repository.ErrDuplicate
	}
	r.contacts = append(r.contacts, *contact)
	return nil
}

func (r *FakeContactRepository) FindByID(_ context.Context, id primitive.ObjectID) (*models.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.contacts {
		if r.contacts[i].ID == id {
			contact := r.contacts[i]
			return &contact, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *FakeContactRepository) List(_ context.Context, ownerID primitive.ObjectID, offset, limit int) ([]models.Contact, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	matching := []models.Contact{}
	for i := range r.contacts {
		if r.contacts[i].UserID == ownerID && r.contacts[i].IsActive {
			matching = append(matching, r.contacts[i])
		}
	}
	sort.SliceStable(matching, func(i, j int) bool {
		return matching[i].Name < matching[j].Name
	})

	total := int64(len(matching))
	if offset >= len(matching) {
		return []models.Contact{}, total, nil
	}
	end := offset + limit
	if end > len(matching) {
		end = len(matching)
	}
	return matching[offset:end], total, nil
}

func (r *FakeContactRepository) Update(_ context.Context, contact *models.Contact) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.duplicateLocked(contact) {
		return repository.ErrDuplicate
	}
	for i := range r.contacts {
		if r.contacts[i].ID == contact.ID {
			r.contacts[i] = *contact
			return nil
		}
	}
	return repository.ErrNotFound
}
