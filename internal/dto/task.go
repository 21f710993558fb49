package dto

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Sahitha-chunduri/projectflow/internal/models"
	"github.com/Sahitha-chunduri/projectflow/internal/repository"
)

// TaskDTO represents a task in API responses, with creator and assignee
// populated as display references.
type TaskDTO struct {
	ID          string              `json:"id"`
	ProjectName string              `json:"projectName"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	AssignedTo  *UserRefDTO         `json:"assignedTo"`
	CreatedBy   *UserRefDTO         `json:"createdBy"`
	Status      models.TaskStatus   `json:"status"`
	Priority    models.TaskPriority `json:"priority"`
	Category    string              `json:"category"`
	DueDate     *time.Time          `json:"dueDate"`
	Tags        []string            `json:"tags"`
	IsArchived  bool                `json:"isArchived"`
	CompletedAt *time.Time          `json:"completedAt,omitempty"`
	CompletedBy string              `json:"completedBy,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// BoardDTO is the 4-column view of a project's task set.
type BoardDTO struct {
	Project string               `json:"project"`
	Columns map[string][]TaskDTO `json:"columns"`
}

// ProjectDTO represents one entry of the project list.
type ProjectDTO struct {
	Name       string      `json:"name"`
	TaskCount  int64       `json:"taskCount"`
	LastUpdate time.Time   `json:"lastUpdate"`
	CreatedBy  *UserRefDTO `json:"createdBy"`
}

// ProjectMemberDTO represents a contributor of a project. Role is a constant
// label: no role hierarchy is derived from task data.
type ProjectMemberDTO struct {
	UserRefDTO
	Role string `json:"role"`
}

// ToTaskDTO converts a Task model to TaskDTO, resolving user references from
// the supplied map.
func ToTaskDTO(task models.Task, users map[primitive.ObjectID]models.User) TaskDTO {
	dto := TaskDTO{
		ID:          task.ID.Hex(),
		ProjectName: task.ProjectName,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		Priority:    task.Priority,
		Category:    task.Category,
		DueDate:     task.DueDate,
		Tags:        task.Tags,
		IsArchived:  task.IsArchived,
		CompletedAt: task.CompletedAt,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
	if dto.Tags == nil {
		dto.Tags = []string{}
	}

	if creator, ok := users[task.CreatedBy]; ok {
		ref := ToUserRefDTO(creator)
		dto.CreatedBy = &ref
	}
	if task.AssignedTo != nil {
		if assignee, ok := users[*task.AssignedTo]; ok {
			ref := ToUserRefDTO(assignee)
			dto.AssignedTo = &ref
		}
	}
	if task.CompletedBy != nil {
		dto.CompletedBy = task.CompletedBy.Hex()
	}

	return dto
}

// ToTaskDTOs converts a slice of tasks
func ToTaskDTOs(tasks []models.Task, users map[primitive.ObjectID]models.User) []TaskDTO {
	dtos := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		dtos[i] = ToTaskDTO(task, users)
	}
	return dtos
}

// ToBoardDTO buckets a project's tasks into the four fixed columns. Tasks
// whose status is not a board column (cancelled, or anything unknown) are
// dropped from the view entirely.
func ToBoardDTO(projectName string, tasks []models.Task, users map[primitive.ObjectID]models.User) BoardDTO {
	columns := make(map[string][]TaskDTO, len(models.BoardColumns))
	for _, status := range models.BoardColumns {
		columns[string(status)] = []TaskDTO{}
	}

	for _, task := range tasks {
		column, ok := columns[string(task.Status)]
		if !ok {
			continue
		}
		columns[string(task.Status)] = append(column, ToTaskDTO(task, users))
	}

	return BoardDTO{
		Project: projectName,
		Columns: columns,
	}
}

// ToProjectDTOs converts project summaries, resolving each creator reference.
func ToProjectDTOs(summaries []repository.ProjectSummary, users map[primitive.ObjectID]models.User) []ProjectDTO {
	dtos := make([]ProjectDTO, len(summaries))
	for i, summary := range summaries {
		dtos[i] = ProjectDTO{
			Name:       summary.Name,
			TaskCount:  summary.TaskCount,
			LastUpdate: summary.LastUpdate,
		}
		if creator, ok := users[summary.CreatedBy]; ok {
			ref := ToUserRefDTO(creator)
			dtos[i].CreatedBy = &ref
		}
	}
	return dtos
}

// ToProjectMemberDTOs labels every contributor with the constant role.
func ToProjectMemberDTOs(members []models.User) []ProjectMemberDTO {
	dtos := make([]ProjectMemberDTO, len(members))
	for i, member := range members {
		dtos[i] = ProjectMemberDTO{
			UserRefDTO: ToUserRefDTO(member),
			Role:       "contributor",
		}
	}
	return dtos
}
