package repository

import (
	"github.com/mtakagi/discussion-board-api/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// List retrieves users, optionally filtered by a case-insensitive
	// substring match on name or email
	List(search string) ([]models.User, error)

	// Update persists changes to a user
	Update(user *models.User) error

	// Delete removes a user
	Delete(id uint64) error
}

// TopicRepository defines the interface for topic and membership data access
type TopicRepository interface {
	// CreateWithOwner creates a topic and enrolls its creator as owner
	// within a single transaction
	CreateWithOwner(topic *models.Topic, owner *models.TopicMember) error

	// FindByID finds a topic by ID
	FindByID(id uint64) (*models.Topic, error)

	// FindByIDWithMembers finds a topic with its creator and members
	// (including member user records) preloaded
	FindByIDWithMembers(id uint64) (*models.Topic, error)

	// List retrieves topics. search applies a case-insensitive substring
	// match on name or description; memberUserID restricts to topics the
	// given user is a member of.
	List(search string, memberUserID *uint64) ([]models.Topic, error)

	// Update persists changes to a topic
	Update(topic *models.Topic) error

	// Delete removes a topic and all of its memberships and tasks
	Delete(id uint64) error

	// CountMembers returns the number of members of a topic
	CountMembers(topicID uint64) (int64, error)

	// CountTasks returns the number of tasks in a topic
	CountTasks(topicID uint64) (int64, error)

	// FindMember finds a specific topic membership
	FindMember(topicID, userID uint64) (*models.TopicMember, error)

	// AddMember creates a membership row
	AddMember(member *models.TopicMember) error

	// UpdateMember persists a role change to an existing membership
	UpdateMember(member *models.TopicMember) error

	// RemoveMember deletes a membership row
	RemoveMember(topicID, userID uint64) error
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// ListByTopic retrieves all tasks of a topic with workers preloaded
	ListByTopic(topicID uint64) ([]models.Task, error)

	// ListByWorker retrieves all tasks assigned to a worker with the
	// owning topic preloaded
	ListByWorker(workerID uint64) ([]models.Task, error)

	// Update persists changes to a task
	Update(task *models.Task) error

	// Delete removes a task
	Delete(id uint64) error
}
