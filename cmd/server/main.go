package main

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Sahitha-chunduri/projectflow/internal/config"
	"github.com/Sahitha-chunduri/projectflow/internal/database"
	"github.com/Sahitha-chunduri/projectflow/internal/handlers"
	"github.com/Sahitha-chunduri/projectflow/internal/middleware"
	"github.com/Sahitha-chunduri/projectflow/internal/repository"
	"github.com/Sahitha-chunduri/projectflow/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := database.Disconnect(ctx); err != nil {
			log.WithError(err).Warn("failed to disconnect from database")
		}
	}()

	if err := database.EnsureIndexes(database.GetDB()); err != nil {
		log.WithError(err).Fatal("failed to create indexes")
	}

	// Repositories
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	contactRepo := repository.NewContactRepository(db)

	// Services
	tokenService := services.NewTokenService(cfg.AccessTokenSecret, cfg.RefreshTokenSecret)
	authService := services.NewAuthService(userRepo, tokenService)
	activityRecorder := services.NewActivityRecorder(activityRepo, log)
	kanbanService := services.NewKanbanService(taskRepo, userRepo, activityRecorder)
	contactService := services.NewContactService(contactRepo)
	defer activityRecorder.Wait()

	// Handlers
	isProduction := cfg.GinMode == gin.ReleaseMode
	authHandler := handlers.NewAuthHandler(authService, isProduction)
	kanbanHandler := handlers.NewKanbanHandler(kanbanService, authService)
	contactHandler := handlers.NewContactHandler(contactService)

	// Initialize Gin router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.CORSOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	requireAuth := middleware.RequireAuth(tokenService)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "ProjectFlow API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// User routes
		user := api.Group("/user")
		{
			user.POST("/register", authHandler.Register)
			user.POST("/login", authHandler.Login)
			user.POST("/refresh", authHandler.Refresh)
			user.POST("/logout", authHandler.Logout)
			user.GET("/profile", requireAuth, authHandler.GetProfile)
			user.PUT("/profile", requireAuth, authHandler.UpdateProfile)
		}

		// Kanban routes (protected)
		kanban := api.Group("/kanban")
		kanban.Use(requireAuth)
		{
			kanban.GET("/projects", kanbanHandler.ListProjects)
			kanban.GET("/projects/:name/board", kanbanHandler.GetBoard)
			kanban.POST("/projects/:name/tasks", kanbanHandler.CreateTask)
			kanban.GET("/projects/:name/members", kanbanHandler.ListProjectMembers)
			kanban.PUT("/tasks/:id", kanbanHandler.UpdateTask)
			kanban.PUT("/tasks/:id/move", kanbanHandler.MoveTask)
			kanban.DELETE("/tasks/:id", kanbanHandler.DeleteTask)
			kanban.GET("/tasks", kanbanHandler.ListTasks)
			kanban.GET("/users", kanbanHandler.ListUsers)
		}

		// Contact routes (protected)
		contacts := api.Group("/contacts")
		contacts.Use(requireAuth)
		{
			contacts.GET("", contactHandler.ListContacts)
			contacts.POST("", contactHandler.CreateContact)
			contacts.GET("/:id", contactHandler.GetContact)
			contacts.PUT("/:id", contactHandler.UpdateContact)
			contacts.DELETE("/:id", contactHandler.DeleteContact)
		}
	}

	// Start server
	log.WithField("port", cfg.Port).Info("server starting")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.WithError(err).Fatal("failed to start server")
	}
}
