package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mtakagi/discussion-board-api/internal/models"
	"github.com/mtakagi/discussion-board-api/internal/utils"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func bearerToken(t *testing.T, userID uint64) string {
	t.Helper()

	token, err := utils.GenerateToken(userID)
	require.NoError(t, err)
	return token
}

func createTestUser(t *testing.T, db *gorm.DB, name, email string) models.User {
	t.Helper()

	user := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: "hashedpassword",
		AuthLevel:    models.AuthLevelUser,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func createTestTopic(t *testing.T, db *gorm.DB, name string, owner models.User) models.Topic {
	t.Helper()

	topic := models.Topic{
		Name:      name,
		CreatorID: owner.ID,
	}
	require.NoError(t, db.Create(&topic).Error)

	member := models.TopicMember{
		TopicID:  topic.ID,
		UserID:   owner.ID,
		Role:     models.RoleOwner,
		JoinedAt: time.Now(),
	}
	require.NoError(t, db.Create(&member).Error)

	return topic
}

func addTestMember(t *testing.T, db *gorm.DB, topicID uint64, user models.User, role models.TopicRole) models.TopicMember {
	t.Helper()

	member := models.TopicMember{
		TopicID:  topicID,
		UserID:   user.ID,
		Role:     role,
		JoinedAt: time.Now(),
	}
	require.NoError(t, db.Create(&member).Error)
	return member
}

// authedRequest performs a request through the router carrying a real bearer
// token for the given user.
func authedRequest(t *testing.T, r *gin.Engine, method, url string, payload any, userID uint64) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if payload != nil {
		body, err := json.Marshal(payload)
		require.NoError(t, err)
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}
	req.Header.Set("Authorization", "Bearer "+bearerToken(t, userID))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
