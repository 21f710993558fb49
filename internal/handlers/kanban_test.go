package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Sahitha-chunduri/projectflow/internal/dto"
)

// KanbanHandlerTestSuite defines the test suite for board and task endpoints
type KanbanHandlerTestSuite struct {
	suite.Suite
	env *testEnv
}

// SetupTest runs before each test
func (suite *KanbanHandlerTestSuite) SetupTest() {
	suite.env = newTestEnv()
}

func (suite *KanbanHandlerTestSuite) createTaskHTTP(token, project string, body map[string]any) dto.TaskDTO {
	w := suite.env.do(suite.T(), http.MethodPost, "/api/kanban/projects/"+project+"/tasks", token, body)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var task dto.TaskDTO
	decodeBody(suite.T(), w, &task)
	return task
}

func (suite *KanbanHandlerTestSuite) TestEndpointsRequireAuth() {
	w := suite.env.do(suite.T(), http.MethodGet, "/api/kanban/projects", "", nil)
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *KanbanHandlerTestSuite) TestCreateTask_Success() {
	user, token := suite.env.createUser(suite.T(), "alice")

	task := suite.createTaskHTTP(token, "Launch", map[string]any{
		"title":       "Design review",
		"description": "Review the new layout",
	})

	suite.Equal("Launch", task.ProjectName)
	suite.Equal("Design review", task.Title)
	suite.EqualValues("todo", task.Status)
	suite.EqualValues("medium", task.Priority)
	suite.Require().NotNil(task.CreatedBy)
	suite.Equal(user.ID.Hex(), task.CreatedBy.ID)
	suite.Nil(task.AssignedTo)
}

func (suite *KanbanHandlerTestSuite) TestCreateTask_MissingTitle() {
	_, token := suite.env.createUser(suite.T(), "alice")

	w := suite.env.do(suite.T(), http.MethodPost, "/api/kanban/projects/Launch/tasks", token, map[string]any{
		"description": "no title",
	})
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *KanbanHandlerTestSuite) TestCreateTask_UnknownAssignee() {
	_, token := suite.env.createUser(suite.T(), "alice")

	w := suite.env.do(suite.T(), http.MethodPost, "/api/kanban/projects/Launch/tasks", token, map[string]any{
		"title":      "Design review",
		"assignedTo": primitive.NewObjectID().Hex(),
	})
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *KanbanHandlerTestSuite) TestCreateTask_WithAssignee() {
	_, token := suite.env.createUser(suite.T(), "alice")
	bob, _ := suite.env.createUser(suite.T(), "bob")

	task := suite.createTaskHTTP(token, "Launch", map[string]any{
		"title":      "Design review",
		"assignedTo": bob.ID.Hex(),
	})

	suite.Require().NotNil(task.AssignedTo)
	suite.Equal(bob.ID.Hex(), task.AssignedTo.ID)
	suite.Equal("bob@example.com", task.AssignedTo.Email)
}

func (suite *KanbanHandlerTestSuite) TestGetBoard_BucketsIntoColumns() {
	_, token := suite.env.createUser(suite.T(), "alice")
	suite.createTaskHTTP(token, "Launch", map[string]any{"title": "One"})
	task := suite.createTaskHTTP(token, "Launch", map[string]any{"title": "Two"})

	move := suite.env.do(suite.T(), http.MethodPut, "/api/kanban/tasks/"+task.ID+"/move", token, map[string]any{
		"status": "review",
	})
	suite.Require().Equal(http.StatusOK, move.Code)

	w := suite.env.do(suite.T(), http.MethodGet, "/api/kanban/projects/Launch/board", token, nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	var board dto.BoardDTO
	decodeBody(suite.T(), w, &board)
	suite.Equal("Launch", board.Project)
	suite.Require().Len(board.Columns, 4)
	suite.Len(board.Columns["todo"], 1)
	suite.Len(board.Columns["review"], 1)
	suite.Empty(board.Columns["in-progress"])
	suite.Empty(board.Columns["completed"])
}

func (suite *KanbanHandlerTestSuite) TestGetBoard_ForeignProjectNotFound() {
	_, aliceToken := suite.env.createUser(suite.T(), "alice")
	_, bobToken := suite.env.createUser(suite.T(), "bob")
	suite.createTaskHTTP(aliceToken, "Launch", map[string]any{"title": "One"})

	w := suite.env.do(suite.T(), http.MethodGet, "/api/kanban/projects/Launch/board", bobToken, nil)
	suite.Equal(http.StatusNotFound, w.Code)

	// Nonexistent projects answer identically.
	w = suite.env.do(suite.T(), http.MethodGet, "/api/kanban/projects/Ghost/board", bobToken, nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *KanbanHandlerTestSuite) TestGetBoard_EncodedProjectName() {
	_, token := suite.env.createUser(suite.T(), "alice")
	suite.createTaskHTTP(token, "Website%20Redesign", map[string]any{"title": "One"})

	w := suite.env.do(suite.T(), http.MethodGet, "/api/kanban/projects/Website%20Redesign/board", token, nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	var board dto.BoardDTO
	decodeBody(suite.T(), w, &board)
	suite.Equal("Website Redesign", board.Project)
}

func (suite *KanbanHandlerTestSuite) TestUpdateTask_PartialUpdate() {
	_, token := suite.env.createUser(suite.T(), "alice")
	task := suite.createTaskHTTP(token, "Launch", map[string]any{"title": "One", "description": "keep me"})

	w := suite.env.do(suite.T(), http.MethodPut, "/api/kanban/tasks/"+task.ID, token, map[string]any{
		"title": "Renamed",
	})
	suite.Require().Equal(http.StatusOK, w.Code)

	var updated dto.TaskDTO
	decodeBody(suite.T(), w, &updated)
	suite.Equal("Renamed", updated.Title)
	suite.Equal("keep me", updated.Description)
}

func (suite *KanbanHandlerTestSuite) TestUpdateTask_NullClearsDueDateAndAssignee() {
	_, token := suite.env.createUser(suite.T(), "alice")
	bob, _ := suite.env.createUser(suite.T(), "bob")
	task := suite.createTaskHTTP(token, "Launch", map[string]any{
		"title":      "One",
		"assignedTo": bob.ID.Hex(),
		"dueDate":    "2026-09-01T00:00:00Z",
	})
	suite.Require().NotNil(task.AssignedTo)
	suite.Require().NotNil(task.DueDate)

	w := suite.env.do(suite.T(), http.MethodPut, "/api/kanban/tasks/"+task.ID, token, map[string]any{
		"assignedTo": nil,
		"dueDate":    nil,
	})
	suite.Require().Equal(http.StatusOK, w.Code)

	var updated dto.TaskDTO
	decodeBody(suite.T(), w, &updated)
	suite.Nil(updated.AssignedTo)
	suite.Nil(updated.DueDate)
}

func (suite *KanbanHandlerTestSuite) TestUpdateTask_WrongFieldType() {
	_, token := suite.env.createUser(suite.T(), "alice")
	task := suite.createTaskHTTP(token, "Launch", map[string]any{"title": "One"})

	w := suite.env.do(suite.T(), http.MethodPut, "/api/kanban/tasks/"+task.ID, token, map[string]any{
		"title": 42,
	})
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *KanbanHandlerTestSuite) TestUpdateTask_StrangerForbidden() {
	_, aliceToken := suite.env.createUser(suite.T(), "alice")
	_, bobToken := suite.env.createUser(suite.T(), "bob")
	task := suite.createTaskHTTP(aliceToken, "Launch", map[string]any{"title": "One"})

	w := suite.env.do(suite.T(), http.MethodPut, "/api/kanban/tasks/"+task.ID, bobToken, map[string]any{
		"title": "Hijacked",
	})
	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *KanbanHandlerTestSuite) TestMoveTask_ToCompleted() {
	user, token := suite.env.createUser(suite.T(), "alice")
	task := suite.createTaskHTTP(token, "Launch", map[string]any{"title": "One"})

	w := suite.env.do(suite.T(), http.MethodPut, "/api/kanban/tasks/"+task.ID+"/move", token, map[string]any{
		"status": "completed",
	})
	suite.Require().Equal(http.StatusOK, w.Code)

	var moved dto.TaskDTO
	decodeBody(suite.T(), w, &moved)
	suite.EqualValues("completed", moved.Status)
	suite.NotNil(moved.CompletedAt)
	suite.Equal(user.ID.Hex(), moved.CompletedBy)
}

func (suite *KanbanHandlerTestSuite) TestMoveTask_InvalidStatus() {
	_, token := suite.env.createUser(suite.T(), "alice")
	task := suite.createTaskHTTP(token, "Launch", map[string]any{"title": "One"})

	w := suite.env.do(suite.T(), http.MethodPut, "/api/kanban/tasks/"+task.ID+"/move", token, map[string]any{
		"status": "archived",
	})
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *KanbanHandlerTestSuite) TestMoveTask_MalformedID() {
	_, token := suite.env.createUser(suite.T(), "alice")

	w := suite.env.do(suite.T(), http.MethodPut, "/api/kanban/tasks/not-hex/move", token, map[string]any{
		"status": "review",
	})
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *KanbanHandlerTestSuite) TestDeleteTask_AssigneeForbidden() {
	_, aliceToken := suite.env.createUser(suite.T(), "alice")
	bob, bobToken := suite.env.createUser(suite.T(), "bob")
	task := suite.createTaskHTTP(aliceToken, "Launch", map[string]any{
		"title":      "One",
		"assignedTo": bob.ID.Hex(),
	})

	w := suite.env.do(suite.T(), http.MethodDelete, "/api/kanban/tasks/"+task.ID, bobToken, nil)
	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *KanbanHandlerTestSuite) TestDeleteTask_CreatorSucceeds() {
	_, token := suite.env.createUser(suite.T(), "alice")
	task := suite.createTaskHTTP(token, "Launch", map[string]any{"title": "One"})

	w := suite.env.do(suite.T(), http.MethodDelete, "/api/kanban/tasks/"+task.ID, token, nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	w = suite.env.do(suite.T(), http.MethodPut, "/api/kanban/tasks/"+task.ID, token, map[string]any{"title": "Back"})
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *KanbanHandlerTestSuite) TestListProjects() {
	_, token := suite.env.createUser(suite.T(), "alice")
	suite.createTaskHTTP(token, "Launch", map[string]any{"title": "One"})
	suite.createTaskHTTP(token, "Launch", map[string]any{"title": "Two"})
	suite.createTaskHTTP(token, "Website", map[string]any{"title": "Three"})

	w := suite.env.do(suite.T(), http.MethodGet, "/api/kanban/projects", token, nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	var body struct {
		Projects []dto.ProjectDTO `json:"projects"`
	}
	decodeBody(suite.T(), w, &body)
	suite.Require().Len(body.Projects, 2)
	suite.Equal("Website", body.Projects[0].Name)
	suite.EqualValues(1, body.Projects[0].TaskCount)
	suite.Equal("Launch", body.Projects[1].Name)
	suite.EqualValues(2, body.Projects[1].TaskCount)
	suite.Require().NotNil(body.Projects[0].CreatedBy)
	suite.Equal("alice", body.Projects[0].CreatedBy.FirstName)
}

func (suite *KanbanHandlerTestSuite) TestListProjectMembers() {
	_, aliceToken := suite.env.createUser(suite.T(), "alice")
	bob, _ := suite.env.createUser(suite.T(), "bob")
	suite.createTaskHTTP(aliceToken, "Launch", map[string]any{
		"title":      "One",
		"assignedTo": bob.ID.Hex(),
	})

	w := suite.env.do(suite.T(), http.MethodGet, "/api/kanban/projects/Launch/members", aliceToken, nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	var body struct {
		Members []dto.ProjectMemberDTO `json:"members"`
	}
	decodeBody(suite.T(), w, &body)
	suite.Require().Len(body.Members, 2)
	suite.Equal("contributor", body.Members[0].Role)
	suite.Equal("contributor", body.Members[1].Role)
}

func (suite *KanbanHandlerTestSuite) TestListTasks_WithFilters() {
	_, token := suite.env.createUser(suite.T(), "alice")
	suite.createTaskHTTP(token, "Launch", map[string]any{"title": "One"})
	suite.createTaskHTTP(token, "Website", map[string]any{"title": "Two", "priority": "high"})

	w := suite.env.do(suite.T(), http.MethodGet, "/api/kanban/tasks?project=Launch", token, nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	var body struct {
		Tasks []dto.TaskDTO `json:"tasks"`
	}
	decodeBody(suite.T(), w, &body)
	suite.Require().Len(body.Tasks, 1)
	suite.Equal("One", body.Tasks[0].Title)

	w = suite.env.do(suite.T(), http.MethodGet, "/api/kanban/tasks?priority=high", token, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	decodeBody(suite.T(), w, &body)
	suite.Require().Len(body.Tasks, 1)
	suite.Equal("Two", body.Tasks[0].Title)
}

func (suite *KanbanHandlerTestSuite) TestListTasks_BadAssigneeFilter() {
	_, token := suite.env.createUser(suite.T(), "alice")

	w := suite.env.do(suite.T(), http.MethodGet, "/api/kanban/tasks?assignedTo=nope", token, nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *KanbanHandlerTestSuite) TestListUsers_ReturnsActiveDirectory() {
	_, token := suite.env.createUser(suite.T(), "alice")
	suite.env.createUser(suite.T(), "bob")

	w := suite.env.do(suite.T(), http.MethodGet, "/api/kanban/users", token, nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	var body struct {
		Users []dto.UserRefDTO `json:"users"`
	}
	decodeBody(suite.T(), w, &body)
	suite.Len(body.Users, 2)
}

func TestKanbanHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(KanbanHandlerTestSuite))
}
