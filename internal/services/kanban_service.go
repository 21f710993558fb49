package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Sahitha-chunduri/projectflow/internal/models"
	"github.com/Sahitha-chunduri/projectflow/internal/repository"
)

var (
	ErrTaskNotFound         = errors.New("task not found")
	ErrProjectNotFound      = errors.New("project not found")
	ErrNotTaskCreator       = errors.New("only the task creator can perform this action")
	ErrTaskPermissionDenied = errors.New("user does not have permission to modify this task")
	ErrTitleRequired        = errors.New("title is required")
	ErrProjectNameRequired  = errors.New("project name is required")
	ErrInvalidAssignee      = errors.New("assignee does not exist")
	ErrInvalidStatus        = errors.New("invalid task status")
	ErrInvalidPriority      = errors.New("invalid task priority")
)

// Permission is the access level required to act on a task.
type Permission int

const (
	// PermWrite covers reads and edits: creator or current assignee.
	PermWrite Permission = iota
	// PermDelete is creator-only.
	PermDelete
)

// KanbanService handles board aggregation and task mutations.
type KanbanService struct {
	taskRepo   repository.TaskRepository
	userRepo   repository.UserRepository
	activities *ActivityRecorder
}

// NewKanbanService creates a new KanbanService.
func NewKanbanService(taskRepo repository.TaskRepository, userRepo repository.UserRepository, activities *ActivityRecorder) *KanbanService {
	return &KanbanService{
		taskRepo:   taskRepo,
		userRepo:   userRepo,
		activities: activities,
	}
}

// canActOn is the single capability check for task mutations. Update and move
// require the caller to be the creator or the current assignee; delete is
// restricted to the creator.
func canActOn(task *models.Task, userID primitive.ObjectID, perm Permission) bool {
	switch perm {
	case PermDelete:
		return task.CreatedBy == userID
	default:
		return task.VisibleTo(userID)
	}
}

// ListProjects returns the distinct projects visible to the user together with
// the users needed to render each project's creator.
func (s *KanbanService) ListProjects(ctx context.Context, userID primitive.ObjectID) ([]repository.ProjectSummary, map[primitive.ObjectID]models.User, error) {
	summaries, err := s.taskRepo.ListProjects(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list projects: %w", err)
	}

	creatorIDs := make([]primitive.ObjectID, 0, len(summaries))
	for _, summary := range summaries {
		creatorIDs = append(creatorIDs, summary.CreatedBy)
	}
	users, err := s.userRepo.FindManyByIDs(ctx, creatorIDs)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve project creators: %w", err)
	}

	return summaries, users, nil
}

// GetBoard returns every non-archived task of a project once the caller has
// passed the visibility gate: the caller must see at least one task of the
// project, otherwise the project does not exist as far as they are concerned.
func (s *KanbanService) GetBoard(ctx context.Context, userID primitive.ObjectID, projectName string) ([]models.Task, map[primitive.ObjectID]models.User, error) {
	visible, err := s.taskRepo.HasVisibleTask(ctx, projectName, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to check project visibility: %w", err)
	}
	if !visible {
		return nil, nil, ErrProjectNotFound
	}

	tasks, err := s.taskRepo.ListByProject(ctx, projectName)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch project tasks: %w", err)
	}

	users, err := s.resolveTaskUsers(ctx, tasks)
	if err != nil {
		return nil, nil, err
	}
	return tasks, users, nil
}

// CreateTaskInput represents input for creating a task. AssignedTo is the raw
// request value: it must be a well-formed 24-character hex ID that resolves to
// an existing user, or empty.
type CreateTaskInput struct {
	ProjectName string
	Title       string
	Description string
	AssignedTo  string
	Priority    models.TaskPriority
	Category    string
	DueDate     *time.Time
	Tags        []string
}

// CreateTask creates a task owned by the caller and records a task_created
// activity best-effort.
func (s *KanbanService) CreateTask(ctx context.Context, userID primitive.ObjectID, input CreateTaskInput) (*models.Task, map[primitive.ObjectID]models.User, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, nil, ErrTitleRequired
	}
	projectName := strings.TrimSpace(input.ProjectName)
	if projectName == "" {
		return nil, nil, ErrProjectNameRequired
	}

	var assignedTo *primitive.ObjectID
	if input.AssignedTo != "" {
		id, err := primitive.ObjectIDFromHex(input.AssignedTo)
		if err != nil {
			return nil, nil, ErrInvalidAssignee
		}
		if _, err := s.userRepo.FindByID(ctx, id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, nil, ErrInvalidAssignee
			}
			return nil, nil, fmt.Errorf("failed to verify assignee: %w", err)
		}
		assignedTo = &id
	}

	priority := input.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !priority.Valid() {
		return nil, nil, ErrInvalidPriority
	}

	category := input.Category
	if category == "" {
		category = "task"
	}
	tags := input.Tags
	if tags == nil {
		tags = []string{}
	}

	task := &models.Task{
		ProjectName: projectName,
		Title:       title,
		Description: input.Description,
		AssignedTo:  assignedTo,
		CreatedBy:   userID,
		Status:      models.TaskStatusTodo,
		Priority:    priority,
		Category:    category,
		DueDate:     input.DueDate,
		Tags:        tags,
		IsArchived:  false,
		CreatedAt:   now(),
		UpdatedAt:   now(),
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.activities.Record(userID, models.ActionTaskCreated, "task", task.ID, projectName,
		fmt.Sprintf("Task %q created", task.Title), nil)

	users, err := s.resolveTaskUsers(ctx, []models.Task{*task})
	if err != nil {
		return nil, nil, err
	}
	return task, users, nil
}

// UpdateTaskInput represents a partial task update. Nil fields are left
// untouched. AssignedTo distinguishes absent (nil) from clearing (pointer to
// empty string) from reassignment (pointer to hex ID).
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Status      *models.TaskStatus
	Priority    *models.TaskPriority
	Category    *string
	DueDate     *time.Time
	ClearDue    bool
	Tags        *[]string
	AssignedTo  *string
	IsArchived  *bool
}

// UpdateTask applies only the provided fields. Transitioning into completed
// stamps completedAt/completedBy; transitioning away leaves the stamps as they
// are. A status_changed activity is recorded only if the status actually
// changed.
func (s *KanbanService) UpdateTask(ctx context.Context, userID, taskID primitive.ObjectID, input UpdateTaskInput) (*models.Task, map[primitive.ObjectID]models.User, error) {
	task, err := s.loadForPermission(ctx, taskID, userID, PermWrite)
	if err != nil {
		return nil, nil, err
	}

	previousStatus := task.Status

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, nil, ErrTitleRequired
		}
		task.Title = title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, nil, ErrInvalidStatus
		}
		s.applyStatus(task, *input.Status, userID)
	}
	if input.Priority != nil {
		if !input.Priority.Valid() {
			return nil, nil, ErrInvalidPriority
		}
		task.Priority = *input.Priority
	}
	if input.Category != nil {
		task.Category = *input.Category
	}
	if input.ClearDue {
		task.DueDate = nil
	} else if input.DueDate != nil {
		task.DueDate = input.DueDate
	}
	if input.Tags != nil {
		task.Tags = *input.Tags
	}
	if input.AssignedTo != nil {
		if *input.AssignedTo == "" {
			task.AssignedTo = nil
		} else {
			id, err := primitive.ObjectIDFromHex(*input.AssignedTo)
			if err != nil {
				return nil, nil, ErrInvalidAssignee
			}
			if _, err := s.userRepo.FindByID(ctx, id); err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return nil, nil, ErrInvalidAssignee
				}
				return nil, nil, fmt.Errorf("failed to verify assignee: %w", err)
			}
			task.AssignedTo = &id
		}
	}
	if input.IsArchived != nil {
		task.IsArchived = *input.IsArchived
	}
	task.UpdatedAt = now()

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, nil, fmt.Errorf("failed to update task: %w", err)
	}

	if task.Status != previousStatus {
		s.recordStatusChange(userID, task, previousStatus)
	}

	users, err := s.resolveTaskUsers(ctx, []models.Task{*task})
	if err != nil {
		return nil, nil, err
	}
	return task, users, nil
}

// MoveTask sets only the task's status. Unlike UpdateTask it always records a
// status_changed activity, even for a move to the same column.
func (s *KanbanService) MoveTask(ctx context.Context, userID, taskID primitive.ObjectID, status models.TaskStatus) (*models.Task, map[primitive.ObjectID]models.User, error) {
	if !status.Valid() {
		return nil, nil, ErrInvalidStatus
	}

	task, err := s.loadForPermission(ctx, taskID, userID, PermWrite)
	if err != nil {
		return nil, nil, err
	}

	previousStatus := task.Status
	s.applyStatus(task, status, userID)
	task.UpdatedAt = now()

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, nil, fmt.Errorf("failed to move task: %w", err)
	}

	s.recordStatusChange(userID, task, previousStatus)

	users, err := s.resolveTaskUsers(ctx, []models.Task{*task})
	if err != nil {
		return nil, nil, err
	}
	return task, users, nil
}

// DeleteTask hard-deletes a task. Creator only.
func (s *KanbanService) DeleteTask(ctx context.Context, userID, taskID primitive.ObjectID) error {
	task, err := s.loadForPermission(ctx, taskID, userID, PermDelete)
	if err != nil {
		return err
	}

	if err := s.taskRepo.Delete(ctx, taskID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}

	s.activities.Record(userID, models.ActionTaskDeleted, "task", task.ID, task.ProjectName,
		fmt.Sprintf("Task %q deleted", task.Title), nil)
	return nil
}

// ListProjectMembers returns the unique users who created or are assigned to
// any task of the project, in encounter order. Same visibility gate as the
// board.
func (s *KanbanService) ListProjectMembers(ctx context.Context, userID primitive.ObjectID, projectName string) ([]models.User, error) {
	visible, err := s.taskRepo.HasVisibleTask(ctx, projectName, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check project visibility: %w", err)
	}
	if !visible {
		return nil, ErrProjectNotFound
	}

	tasks, err := s.taskRepo.ListByProject(ctx, projectName)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch project tasks: %w", err)
	}

	seen := make(map[primitive.ObjectID]struct{})
	memberIDs := make([]primitive.ObjectID, 0, len(tasks))
	collect := func(id primitive.ObjectID) {
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		memberIDs = append(memberIDs, id)
	}
	for i := range tasks {
		collect(tasks[i].CreatedBy)
		if tasks[i].AssignedTo != nil {
			collect(*tasks[i].AssignedTo)
		}
	}

	users, err := s.userRepo.FindManyByIDs(ctx, memberIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project members: %w", err)
	}

	members := make([]models.User, 0, len(memberIDs))
	for _, id := range memberIDs {
		if user, ok := users[id]; ok {
			members = append(members, user)
		}
	}
	return members, nil
}

// ListTasksInput represents optional exact-match filters for listing tasks.
type ListTasksInput struct {
	ProjectName *string
	Status      *models.TaskStatus
	Priority    *models.TaskPriority
	AssignedTo  *primitive.ObjectID
}

// ListTasks returns the caller's visible, non-archived tasks with optional
// filters applied.
func (s *KanbanService) ListTasks(ctx context.Context, userID primitive.ObjectID, input ListTasksInput) ([]models.Task, map[primitive.ObjectID]models.User, error) {
	filter := repository.TaskFilter{
		UserID:      userID,
		ProjectName: input.ProjectName,
		Status:      input.Status,
		Priority:    input.Priority,
		AssignedTo:  input.AssignedTo,
	}

	tasks, err := s.taskRepo.List(ctx, filter)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	users, err := s.resolveTaskUsers(ctx, tasks)
	if err != nil {
		return nil, nil, err
	}
	return tasks, users, nil
}

// loadForPermission fetches a task and enforces the capability check.
func (s *KanbanService) loadForPermission(ctx context.Context, taskID, userID primitive.ObjectID, perm Permission) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if !canActOn(task, userID, perm) {
		if perm == PermDelete {
			return nil, ErrNotTaskCreator
		}
		return nil, ErrTaskPermissionDenied
	}
	return task, nil
}

// applyStatus sets the status and stamps completion metadata on the
// transition into completed. Stamps from an earlier completion are kept when
// the task later leaves the column.
func (s *KanbanService) applyStatus(task *models.Task, status models.TaskStatus, userID primitive.ObjectID) {
	previous := task.Status
	task.Status = status
	if status == models.TaskStatusCompleted && previous != models.TaskStatusCompleted {
		completedAt := now()
		task.CompletedAt = &completedAt
		task.CompletedBy = &userID
	}
}

func (s *KanbanService) recordStatusChange(userID primitive.ObjectID, task *models.Task, previous models.TaskStatus) {
	s.activities.Record(userID, models.ActionStatusChanged, "task", task.ID, task.ProjectName,
		fmt.Sprintf("Task %q moved from %s to %s", task.Title, previous, task.Status),
		map[string]any{"from": string(previous), "to": string(task.Status)})
}

// resolveTaskUsers loads the creator and assignee records for a set of tasks.
func (s *KanbanService) resolveTaskUsers(ctx context.Context, tasks []models.Task) (map[primitive.ObjectID]models.User, error) {
	seen := make(map[primitive.ObjectID]struct{})
	ids := make([]primitive.ObjectID, 0, len(tasks)*2)
	for i := range tasks {
		if _, ok := seen[tasks[i].CreatedBy]; !ok {
			seen[tasks[i].CreatedBy] = struct{}{}
			ids = append(ids, tasks[i].CreatedBy)
		}
		if tasks[i].AssignedTo != nil {
			if _, ok := seen[*tasks[i].AssignedTo]; !ok {
				seen[*tasks[i].AssignedTo] = struct{}{}
				ids = append(ids, *tasks[i].AssignedTo)
			}
		}
	}

	users, err := s.userRepo.FindManyByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve task users: %w", err)
	}
	return users, nil
}
