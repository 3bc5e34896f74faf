package repository_test

import (
	"testing"
	"time"

	"github.com/mtakagi/discussion-board-api/internal/models"
	"github.com/mtakagi/discussion-board-api/internal/repository"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTopicRepoDB(t *testing.T) *gorm.DB {
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

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return db
}

func seedUser(t *testing.T, db *gorm.DB, email string) models.User {
	t.Helper()

	user := models.User{
		Name:         email,
		Email:        email,
		PasswordHash: "hashedpassword",
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func TestTopicRepository_CreateWithOwner(t *testing.T) {
	db := setupTopicRepoDB(t)
	repo := repository.NewTopicRepository(db)
	alice := seedUser(t, db, "alice@example.com")

	topic := models.Topic{Name: "General", CreatorID: alice.ID}
	owner := models.TopicMember{UserID: alice.ID, JoinedAt: time.Now()}

	require.NoError(t, repo.CreateWithOwner(&topic, &owner))
	require.NotZero(t, topic.ID)
	require.Equal(t, topic.ID, owner.TopicID)
	require.Equal(t, models.RoleOwner, owner.Role)

	var stored models.TopicMember
	require.NoError(t, db.Where("topic_id = ?", topic.ID).First(&stored).Error)
	require.Equal(t, models.RoleOwner, stored.Role)
}

func TestTopicRepository_CreateWithOwner_RollsBack(t *testing.T) {
	db := setupTopicRepoDB(t)
	repo := repository.NewTopicRepository(db)
	alice := seedUser(t, db, "alice@example.com")

	// Force the member insert to fail so the whole transaction unwinds.
	require.NoError(t, db.Migrator().DropTable(&models.TopicMember{}))

	topic := models.Topic{Name: "General", CreatorID: alice.ID}
	owner := models.TopicMember{UserID: alice.ID, JoinedAt: time.Now()}

	require.Error(t, repo.CreateWithOwner(&topic, &owner))

	var count int64
	require.NoError(t, db.Model(&models.Topic{}).Count(&count).Error)
	require.Equal(t, int64(0), count)
}

func TestTopicRepository_List_MemberFilter(t *testing.T) {
	db := setupTopicRepoDB(t)
	repo := repository.NewTopicRepository(db)
	alice := seedUser(t, db, "alice@example.com")
	bob := seedUser(t, db, "bob@example.com")

	mine := models.Topic{Name: "Mine", CreatorID: alice.ID}
	require.NoError(t, repo.CreateWithOwner(&mine, &models.TopicMember{UserID: alice.ID, JoinedAt: time.Now()}))
	theirs := models.Topic{Name: "Theirs", CreatorID: bob.ID}
	require.NoError(t, repo.CreateWithOwner(&theirs, &models.TopicMember{UserID: bob.ID, JoinedAt: time.Now()}))

	topics, err := repo.List("", &alice.ID)
	require.NoError(t, err)
	require.Len(t, topics, 1)
	require.Equal(t, "Mine", topics[0].Name)

	all, err := repo.List("", nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
}

func TestTopicRepository_Delete_RemovesDependents(t *testing.T) {
	db := setupTopicRepoDB(t)
	repo := repository.NewTopicRepository(db)
	alice := seedUser(t, db, "alice@example.com")

	topic := models.Topic{Name: "General", CreatorID: alice.ID}
	require.NoError(t, repo.CreateWithOwner(&topic, &models.TopicMember{UserID: alice.ID, JoinedAt: time.Now()}))

	task := models.Task{
		TopicID:     topic.ID,
		Title:       "Task",
		CreatedByID: alice.ID,
		Status:      models.TaskStatusPending,
	}
	require.NoError(t, db.Create(&task).Error)

	require.NoError(t, repo.Delete(topic.ID))

	var topicCount, memberCount, taskCount int64
	require.NoError(t, db.Model(&models.Topic{}).Count(&topicCount).Error)
	require.NoError(t, db.Model(&models.TopicMember{}).Count(&memberCount).Error)
	require.NoError(t, db.Model(&models.Task{}).Count(&taskCount).Error)
	require.Equal(t, int64(0), topicCount)
	require.Equal(t, int64(0), memberCount)
	require.Equal(t, int64(0), taskCount)
}
