package main

import (
	"errors"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/mtakagi/discussion-board-api/internal/config"
	"github.com/mtakagi/discussion-board-api/internal/constants"
	"github.com/mtakagi/discussion-board-api/internal/database"
	"github.com/mtakagi/discussion-board-api/internal/handlers"
	"github.com/mtakagi/discussion-board-api/internal/middleware"
	"github.com/mtakagi/discussion-board-api/internal/models"
	"github.com/mtakagi/discussion-board-api/internal/repository"
	"github.com/mtakagi/discussion-board-api/internal/services"
	"github.com/mtakagi/discussion-board-api/internal/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Token signing secret
	utils.SetTokenSecret(cfg.JWTSecret)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Create the default superuser on first start
	if err := ensureDefaultSuperuser(database.GetDB()); err != nil {
		log.Fatalf("Failed to ensure default superuser: %v", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(database.GetDB())
	topicRepo := repository.NewTopicRepository(database.GetDB())
	taskRepo := repository.NewTaskRepository(database.GetDB())

	// Initialize services
	authService := services.NewAuthService(userRepo)
	userService := services.NewUserService(userRepo)
	topicService := services.NewTopicService(topicRepo, userRepo)
	taskService := services.NewTaskService(taskRepo, topicRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService, authService)
	topicHandler := handlers.NewTopicHandler(topicService)
	taskHandler := handlers.NewTaskHandler(taskService)

	// Initialize Gin router
	r := gin.Default()

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Discussion Board API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public except /me)
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
		}

		// User routes (protected)
		users := api.Group("/users")
		users.Use(middleware.RequireAuth())
		{
			users.GET("", userHandler.ListUsers)
			users.GET("/:id", userHandler.GetUser)
			users.PUT("/:id", userHandler.UpdateUser)
			users.DELETE("/:id", middleware.RequireSuperuser(), userHandler.DeleteUser)
		}

		// Topic routes (protected)
		topics := api.Group("/topics")
		topics.Use(middleware.RequireAuth())
		{
			topics.POST("", topicHandler.CreateTopic)
			topics.GET("", topicHandler.ListTopics)
			topics.GET("/:id", topicHandler.GetTopic)
			topics.PUT("/:id", topicHandler.UpdateTopic)
			topics.DELETE("/:id", topicHandler.DeleteTopic)
			topics.POST("/:id/subscribe", topicHandler.Subscribe)
			topics.DELETE("/:id/unsubscribe", topicHandler.Unsubscribe)
			topics.POST("/:id/members", topicHandler.AddMember)
			topics.DELETE("/:id/members/:user_id", topicHandler.RemoveMember)
			topics.GET("/:id/tasks", taskHandler.ListTopicTasks)
		}

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(middleware.RequireAuth())
		{
			tasks.GET("", taskHandler.ListMyTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("/:id", taskHandler.GetTask)
			tasks.PUT("/:id", taskHandler.UpdateTask)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
			tasks.POST("/:id/assign", taskHandler.AssignTask)
		}
	}

	// Start server
	log.Printf("Server starting on :%s", cfg.ServerPort)
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// ensureDefaultSuperuser creates the bootstrap superuser account if no user
// with the default email exists yet.
func ensureDefaultSuperuser(db *gorm.DB) error {
	var existing models.User
	err := db.Where("email = ?", constants.DefaultSuperuserEmail).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(constants.DefaultSuperuserPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	superuser := models.User{
		Name:         constants.DefaultSuperuserName,
		Email:        constants.DefaultSuperuserEmail,
		PasswordHash: string(hash),
		AuthLevel:    models.AuthLevelSuperuser,
	}
	if err := db.Create(&superuser).Error; err != nil {
		return err
	}

	log.Printf("Default superuser created: %s", constants.DefaultSuperuserEmail)
	return nil
}
