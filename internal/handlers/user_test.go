package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mtakagi/discussion-board-api/internal/database"
	"github.com/mtakagi/discussion-board-api/internal/dto"
	"github.com/mtakagi/discussion-board-api/internal/middleware"
	"github.com/mtakagi/discussion-board-api/internal/models"
	"github.com/mtakagi/discussion-board-api/internal/repository"
	"github.com/mtakagi/discussion-board-api/internal/services"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type userTestEnv struct {
	db     *gorm.DB
	router *gin.Engine
}

func setupUserTestEnv(t *testing.T) userTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Topic{},
		&models.TopicMember{},
		&models.Task{},
	)
	require.NoError(t, err)

	database.SetDB(db)

	userRepo := repository.NewUserRepository(db)
	authService := services.NewAuthService(userRepo)
	userService := services.NewUserService(userRepo)
	handler := NewUserHandler(userService, authService)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	users := r.Group("/api/users")
	users.Use(middleware.RequireAuth())
	{
		users.GET("", handler.ListUsers)
		users.GET("/:id", handler.GetUser)
		users.PUT("/:id", handler.UpdateUser)
		users.DELETE("/:id", middleware.RequireSuperuser(), handler.DeleteUser)
	}

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return userTestEnv{db: db, router: r}
}

func createTestSuperuser(t *testing.T, db *gorm.DB, name, email string) models.User {
	t.Helper()

	user := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: "hashedpassword",
		AuthLevel:    models.AuthLevelSuperuser,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func TestUserHandler_ListUsers_Search(t *testing.T) {
	env := setupUserTestEnv(t)
	alice := createTestUser(t, env.db, "Alice", "alice@example.com")
	createTestUser(t, env.db, "Bob", "bob@example.com")

	w := authedRequest(t, env.router, http.MethodGet, "/api/users?search=ALICE", nil, alice.ID)

	require.Equal(t, http.StatusOK, w.Code)

	var resp []dto.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	require.Equal(t, "alice@example.com", resp[0].Email)
}

func TestUserHandler_UpdateUser_Self(t *testing.T) {
	env := setupUserTestEnv(t)
	alice := createTestUser(t, env.db, "Alice", "alice@example.com")

	w := authedRequest(t, env.router, http.MethodPut, fmt.Sprintf("/api/users/%d", alice.ID), map[string]string{
		"name":  "Alice Cooper",
		"phone": "555-0101",
	}, alice.ID)

	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "Alice Cooper", resp.Name)
	require.Equal(t, "555-0101", resp.Phone)
}

func TestUserHandler_UpdateUser_OtherForbidden(t *testing.T) {
	env := setupUserTestEnv(t)
	alice := createTestUser(t, env.db, "Alice", "alice@example.com")
	bob := createTestUser(t, env.db, "Bob", "bob@example.com")

	w := authedRequest(t, env.router, http.MethodPut, fmt.Sprintf("/api/users/%d", bob.ID), map[string]string{
		"name": "Hijacked",
	}, alice.ID)

	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestUserHandler_UpdateUser_AuthLevelDroppedForNonSuperuser(t *testing.T) {
	env := setupUserTestEnv(t)
	alice := createTestUser(t, env.db, "Alice", "alice@example.com")

	// Self-update succeeds, but the privilege escalation field is ignored.
	w := authedRequest(t, env.router, http.MethodPut, fmt.Sprintf("/api/users/%d", alice.ID), map[string]string{
		"name":       "Alice Cooper",
		"auth_level": "superuser",
	}, alice.ID)

	require.Equal(t, http.StatusOK, w.Code)

	var stored models.User
	require.NoError(t, env.db.First(&stored, alice.ID).Error)
	require.Equal(t, "Alice Cooper", stored.Name)
	require.Equal(t, models.AuthLevelUser, stored.AuthLevel)
}

func TestUserHandler_UpdateUser_AuthLevelBySuperuser(t *testing.T) {
	env := setupUserTestEnv(t)
	root := createTestSuperuser(t, env.db, "Root", "root@example.com")
	alice := createTestUser(t, env.db, "Alice", "alice@example.com")

	w := authedRequest(t, env.router, http.MethodPut, fmt.Sprintf("/api/users/%d", alice.ID), map[string]string{
		"auth_level": "superuser",
	}, root.ID)

	require.Equal(t, http.StatusOK, w.Code)

	var stored models.User
	require.NoError(t, env.db.First(&stored, alice.ID).Error)
	require.Equal(t, models.AuthLevelSuperuser, stored.AuthLevel)
}

func TestUserHandler_DeleteUser_RequiresSuperuser(t *testing.T) {
	env := setupUserTestEnv(t)
	alice := createTestUser(t, env.db, "Alice", "alice@example.com")
	bob := createTestUser(t, env.db, "Bob", "bob@example.com")

	w := authedRequest(t, env.router, http.MethodDelete, fmt.Sprintf("/api/users/%d", bob.ID), nil, alice.ID)

	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestUserHandler_DeleteUser_BySuperuser(t *testing.T) {
	env := setupUserTestEnv(t)
	root := createTestSuperuser(t, env.db, "Root", "root@example.com")
	bob := createTestUser(t, env.db, "Bob", "bob@example.com")

	w := authedRequest(t, env.router, http.MethodDelete, fmt.Sprintf("/api/users/%d", bob.ID), nil, root.ID)

	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	require.NoError(t, env.db.Model(&models.User{}).Where("id = ?", bob.ID).Count(&count).Error)
	require.Equal(t, int64(0), count)

	// Deleted users vanish from the directory.
	w = authedRequest(t, env.router, http.MethodGet, fmt.Sprintf("/api/users/%d", bob.ID), nil, root.ID)
	require.Equal(t, http.StatusNotFound, w.Code)
}
