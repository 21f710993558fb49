package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Sahitha-chunduri/projectflow/internal/middleware"
	"github.com/Sahitha-chunduri/projectflow/internal/models"
	"github.com/Sahitha-chunduri/projectflow/internal/services"
	"github.com/Sahitha-chunduri/projectflow/internal/testutil"
)

// testEnv wires the full HTTP surface against in-memory repositories.
type testEnv struct {
	router       *gin.Engine
	tokens       *services.TokenService
	recorder     *services.ActivityRecorder
	authService  *services.AuthService
	taskRepo     *testutil.FakeTaskRepository
	userRepo     *testutil.FakeUserRepository
	activityRepo *testutil.FakeActivityRepository
	contactRepo  *testutil.FakeContactRepository
}

func newTestEnv() *testEnv {
	gin.SetMode(gin.TestMode)

	env := &testEnv{
		taskRepo:     testutil.NewFakeTaskRepository(),
		userRepo:     testutil.NewFakeUserRepository(),
		activityRepo: testutil.NewFakeActivityRepository(),
		contactRepo:  testutil.NewFakeContactRepository(),
	}

	log := logrus.New()
	log.SetOutput(io.Discard)

	env.tokens = services.NewTokenService("access-secret", "refresh-secret")
	env.recorder = services.NewActivityRecorder(env.activityRepo, log)
	env.authService = services.NewAuthService(env.userRepo, env.tokens)
	kanbanService := services.NewKanbanService(env.taskRepo, env.userRepo, env.recorder)
	contactService := services.NewContactService(env.contactRepo)

	authHandler := NewAuthHandler(env.authService, false)
	kanbanHandler := NewKanbanHandler(kanbanService, env.authService)
	contactHandler := NewContactHandler(contactService)

	requireAuth := middleware.RequireAuth(env.tokens)

	r := gin.New()
	api := r.Group("/api")

	user := api.Group("/user")
	user.POST("/register", authHandler.Register)
	user.POST("/login", authHandler.Login)
	user.POST("/refresh", authHandler.Refresh)
	user.POST("/logout", authHandler.Logout)
	user.GET("/profile", requireAuth, authHandler.GetProfile)
	user.PUT("/profile", requireAuth, authHandler.UpdateProfile)

	kanban := api.Group("/kanban")
	kanban.Use(requireAuth)
	kanban.GET("/projects", kanbanHandler.ListProjects)
	kanban.GET("/projects/:name/board", kanbanHandler.GetBoard)
	kanban.POST("/projects/:name/tasks", kanbanHandler.CreateTask)
	kanban.GET("/projects/:name/members", kanbanHandler.ListProjectMembers)
	kanban.PUT("/tasks/:id", kanbanHandler.UpdateTask)
	kanban.PUT("/tasks/:id/move", kanbanHandler.MoveTask)
	kanban.DELETE("/tasks/:id", kanbanHandler.DeleteTask)
	kanban.GET("/tasks", kanbanHandler.ListTasks)
	kanban.GET("/users", kanbanHandler.ListUsers)

	contacts := api.Group("/contacts")
	contacts.Use(requireAuth)
	contacts.GET("", contactHandler.ListContacts)
	contacts.POST("", contactHandler.CreateContact)
	contacts.GET("/:id", contactHandler.GetContact)
	contacts.PUT("/:id", contactHandler.UpdateContact)
	contacts.DELETE("/:id", contactHandler.DeleteContact)

	env.router = r
	return env
}

// createUser registers a user directly through the service and returns the
// user together with a valid access token.
func (env *testEnv) createUser(t *testing.T, username string) (*models.User, string) {
	t.Helper()
	user, err := env.authService.Register(context.Background(), services.RegisterInput{
		Username:  username,
		Email:     username + "@example.com",
		Password:  "password123",
		FirstName: username,
		LastName:  "Test",
	})
	if err != nil {
		t.Fatalf("failed to create user %s: %v", username, err)
	}
	token, err := env.tokens.GenerateAccessToken(user)
	if err != nil {
		t.Fatalf("failed to issue token for %s: %v", username, err)
	}
	return user, token
}

// do performs a request against the test router. A non-empty token is sent as
// a bearer header; a non-nil body is JSON-encoded.
func (env *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, target any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), target); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
}
