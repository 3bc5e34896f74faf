package repository

import (
	"strings"

	"github.com/mtakagi/discussion-board-api/internal/models"
	"gorm.io/gorm"
)

// GormTopicRepository is a GORM implementation of TopicRepository
type GormTopicRepository struct {
	db *gorm.DB
}

// NewTopicRepository creates a new TopicRepository
func NewTopicRepository(db *gorm.DB) TopicRepository {
	return &GormTopicRepository{db: db}
}

// CreateWithOwner creates the topic and the creator's owner membership
// atomically. A topic must never exist without exactly one owner row.
func (r *GormTopicRepository) CreateWithOwner(topic *models.Topic, owner *models.TopicMember) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(topic).Error; err != nil {
			return err
		}

		owner.TopicID = topic.ID
		owner.Role = models.RoleOwner

		return tx.Create(owner).Error
	})
}

// FindByID finds a topic by ID
func (r *GormTopicRepository) FindByID(id uint64) (*models.Topic, error) {
	var topic models.Topic
	if err := r.db.First(&topic, id).Error; err != nil {
		return nil, err
	}
	return &topic, nil
}

// FindByIDWithMembers finds a topic with creator and members preloaded
func (r *GormTopicRepository) FindByIDWithMembers(id uint64) (*models.Topic, error) {
	var topic models.Topic
	if err := r.db.
		Preload("Creator").
		Preload("Members").
		Preload("Members.User").
		First(&topic, id).Error; err != nil {
		return nil, err
	}
	return &topic, nil
}

// List retrieves topics with optional search and membership filters
func (r *GormTopicRepository) List(search string, memberUserID *uint64) ([]models.Topic, error) {
	var topics []models.Topic
	query := r.db.Model(&models.Topic{})

	if search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}

	if memberUserID != nil {
		query = query.
			Joins("JOIN topic_members ON topic_members.topic_id = topics.id").
			Where("topic_members.user_id = ?", *memberUserID)
	}

	if err := query.Find(&topics).Error; err != nil {
		return nil, err
	}
	return topics, nil
}

// Update persists changes to a topic
func (r *GormTopicRepository) Update(topic *models.Topic) error {
	return r.db.Save(topic).Error
}

// Delete removes a topic together with its memberships and tasks in one
// transaction.
func (r *GormTopicRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("topic_id = ?", id).Delete(&models.Task{}).Error; err != nil {
			return err
		}

		if err := tx.Where("topic_id = ?", id).Delete(&models.TopicMember{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Topic{}, id).Error
	})
}

// CountMembers returns the number of members of a topic
func (r *GormTopicRepository) CountMembers(topicID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.TopicMember{}).
		Where("topic_id = ?", topicID).
		Count(&count).Error
	return count, err
}

// CountTasks returns the number of tasks in a topic
func (r *GormTopicRepository) CountTasks(topicID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.Task{}).
		Where("topic_id = ?", topicID).
		Count(&count).Error
	return count, err
}

// FindMember finds a specific topic membership
func (r *GormTopicRepository) FindMember(topicID, userID uint64) (*models.TopicMember, error) {
	var member models.TopicMember
	if err := r.db.Where("topic_id = ? AND user_id = ?", topicID, userID).
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// AddMember creates a membership row
func (r *GormTopicRepository) AddMember(member *models.TopicMember) error {
	return r.db.Create(member).Error
}

// UpdateMember persists a role change to an existing membership
func (r *GormTopicRepository) UpdateMember(member *models.TopicMember) error {
	return r.db.Save(member).Error
}

// RemoveMember deletes a membership row
func (r *GormTopicRepository) RemoveMember(topicID, userID uint64) error {
	return r.db.Where("topic_id = ? AND user_id = ?", topicID, userID).
		Delete(&models.TopicMember{}).Error
}
