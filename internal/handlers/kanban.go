package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Sahitha-chunduri/projectflow/internal/dto"
	apierrors "github.com/Sahitha-chunduri/projectflow/internal/errors"
	"github.com/Sahitha-chunduri/projectflow/internal/middleware"
	"github.com/Sahitha-chunduri/projectflow/internal/models"
	"github.com/Sahitha-chunduri/projectflow/internal/services"
)

// KanbanHandler coordinates board and task HTTP handlers.
type KanbanHandler struct {
	kanbanService *services.KanbanService
	authService   *services.AuthService
}

// NewKanbanHandler creates a new KanbanHandler.
func NewKanbanHandler(kanbanService *services.KanbanService, authService *services.AuthService) *KanbanHandler {
	return &KanbanHandler{
		kanbanService: kanbanService,
		authService:   authService,
	}
}

// ListProjects returns the distinct projects visible to the caller, most
// recently updated first.
func (h *KanbanHandler) ListProjects(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "", "Not authenticated")
		return
	}

	summaries, users, err := h.kanbanService.ListProjects(c.Request.Context(), userID)
	if err != nil {
		respondKanbanError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"projects": dto.ToProjectDTOs(summaries, users),
	})
}

// GetBoard returns the 4-column board for a project.
func (h *KanbanHandler) GetBoard(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "", "Not authenticated")
		return
	}

	projectName := projectNameParam(c)
	tasks, users, err := h.kanbanService.GetBoard(c.Request.Context(), userID, projectName)
	if err != nil {
		respondKanbanError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToBoardDTO(projectName, tasks, users))
}

// CreateTask creates a task in a project, owned by the caller.
func (h *KanbanHandler) CreateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "", "Not authenticated")
		return
	}

	type CreateTaskRequest struct {
		Title       string     `json:"title" binding:"required"`
		Description string     `json:"description"`
		AssignedTo  string     `json:"assignedTo"`
		Priority    string     `json:"priority"`
		Category    string     `json:"category"`
		DueDate     *time.Time `json:"dueDate"`
		Tags        []string   `json:"tags"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, users, err := h.kanbanService.CreateTask(c.Request.Context(), userID, services.CreateTaskInput{
		ProjectName: projectNameParam(c),
		Title:       req.Title,
		Description: req.Description,
		AssignedTo:  req.AssignedTo,
		Priority:    models.TaskPriority(req.Priority),
		Category:    req.Category,
		DueDate:     req.DueDate,
		Tags:        req.Tags,
	})
	if err != nil {
		respondKanbanError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task, users))
}

// UpdateTask applies a partial update. The raw body is parsed as a map so
// that provided-but-null fields can be told apart from absent ones.
func (h *KanbanHandler) UpdateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "", "Not authenticated")
		return
	}

	taskID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		apierrors.BadRequest(c, "Invalid task ID")
		return
	}

	var rawReq map[string]any
	if err := c.ShouldBindJSON(&rawReq); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input, err := buildUpdateInput(rawReq)
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	task, users, err := h.kanbanService.UpdateTask(c.Request.Context(), userID, taskID, *input)
	if err != nil {
		respondKanbanError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task, users))
}

// MoveTask performs a status-only transition.
func (h *KanbanHandler) MoveTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "", "Not authenticated")
		return
	}

	taskID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		apierrors.BadRequest(c, "Invalid task ID")
		return
	}

	type MoveTaskRequest struct {
		Status string `json:"status" binding:"required"`
	}

	var req MoveTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, users, err := h.kanbanService.MoveTask(c.Request.Context(), userID, taskID, models.TaskStatus(req.Status))
	if err != nil {
		respondKanbanError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task, users))
}

// DeleteTask hard-deletes a task. Creator only.
func (h *KanbanHandler) DeleteTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "", "Not authenticated")
		return
	}

	taskID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		apierrors.BadRequest(c, "Invalid task ID")
		return
	}

	if err := h.kanbanService.DeleteTask(c.Request.Context(), userID, taskID); err != nil {
		respondKanbanError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task deleted successfully",
	})
}

// ListProjectMembers returns the unique contributors of a project.
func (h *KanbanHandler) ListProjectMembers(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "", "Not authenticated")
		return
	}

	members, err := h.kanbanService.ListProjectMembers(c.Request.Context(), userID, projectNameParam(c))
	if err != nil {
		respondKanbanError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"members": dto.ToProjectMemberDTOs(members),
	})
}

// ListTasks returns the caller's visible tasks with optional exact-match
// filters on project, status, priority and assignee.
func (h *KanbanHandler) ListTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "", "Not authenticated")
		return
	}

	var input services.ListTasksInput
	if project := c.Query("project"); project != "" {
		input.ProjectName = &project
	}
	if status := c.Query("status"); status != "" {
		s := models.TaskStatus(status)
		input.Status = &s
	}
	if priority := c.Query("priority"); priority != "" {
		p := models.TaskPriority(priority)
		input.Priority = &p
	}
	if assignee := c.Query("assignedTo"); assignee != "" {
		id, err := primitive.ObjectIDFromHex(assignee)
		if err != nil {
			apierrors.BadRequest(c, "Invalid assignedTo filter")
			return
		}
		input.AssignedTo = &id
	}

	tasks, users, err := h.kanbanService.ListTasks(c.Request.Context(), userID, input)
	if err != nil {
		respondKanbanError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks": dto.ToTaskDTOs(tasks, users),
	})
}

// ListUsers returns the active users for assignment pickers.
func (h *KanbanHandler) ListUsers(c *gin.Context) {
	users, err := h.authService.ListActiveUsers(c.Request.Context())
	if err != nil {
		apierrors.InternalError(c, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": dto.ToUserRefDTOs(users),
	})
}

// projectNameParam returns the URL-decoded project name path parameter.
func projectNameParam(c *gin.Context) string {
	name := c.Param("name")
	if decoded, err := url.PathUnescape(name); err == nil {
		return decoded
	}
	return name
}

// buildUpdateInput maps the raw request body onto a partial update,
// rejecting wrongly typed fields.
func buildUpdateInput(raw map[string]any) (*services.UpdateTaskInput, error) {
	input := &services.UpdateTaskInput{}

	stringField := func(key string) (*string, error) {
		value, ok := raw[key]
		if !ok {
			return nil, nil
		}
		str, ok := value.(string)
		if !ok {
			return nil, errors.New("Invalid " + key)
		}
		return &str, nil
	}

	var err error
	if input.Title, err = stringField("title"); err != nil {
		return nil, err
	}
	if input.Description, err = stringField("description"); err != nil {
		return nil, err
	}
	if input.Category, err = stringField("category"); err != nil {
		return nil, err
	}

	if value, ok := raw["status"]; ok {
		str, ok := value.(string)
		if !ok {
			return nil, errors.New("Invalid status")
		}
		status := models.TaskStatus(str)
		input.Status = &status
	}
	if value, ok := raw["priority"]; ok {
		str, ok := value.(string)
		if !ok {
			return nil, errors.New("Invalid priority")
		}
		priority := models.TaskPriority(str)
		input.Priority = &priority
	}

	if value, ok := raw["dueDate"]; ok {
		if value == nil {
			input.ClearDue = true
		} else if str, ok := value.(string); ok {
			parsed, err := time.Parse(time.RFC3339, str)
			if err != nil {
				return nil, errors.New("Invalid dueDate")
			}
			input.DueDate = &parsed
		} else {
			return nil, errors.New("Invalid dueDate")
		}
	}

	if value, ok := raw["assignedTo"]; ok {
		if value == nil {
			empty := ""
			input.AssignedTo = &empty
		} else if str, ok := value.(string); ok {
			input.AssignedTo = &str
		} else {
			return nil, errors.New("Invalid assignedTo")
		}
	}

	if value, ok := raw["tags"]; ok {
		items, ok := value.([]any)
		if !ok {
			return nil, errors.New("Invalid tags")
		}
		tags := make([]string, 0, len(items))
		for _, item := range items {
			str, ok := item.(string)
			if !ok {
				return nil, errors.New("Invalid tags")
			}
			tags = append(tags, str)
		}
		input.Tags = &tags
	}

	if value, ok := raw["isArchived"]; ok {
		flag, ok := value.(bool)
		if !ok {
			return nil, errors.New("Invalid isArchived")
		}
		input.IsArchived = &flag
	}

	return input, nil
}

func respondKanbanError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrProjectNameRequired),
		errors.Is(err, services.ErrInvalidAssignee),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrInvalidPriority):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrNotTaskCreator),
		errors.Is(err, services.ErrTaskPermissionDenied):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrProjectNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		apierrors.InternalError(c, err.Error())
	}
}
