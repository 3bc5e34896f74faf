package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mtakagi/discussion-board-api/internal/authz"
	"github.com/mtakagi/discussion-board-api/internal/models"
	"github.com/mtakagi/discussion-board-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTopicNotFound         = errors.New("topic not found")
	ErrInvalidTopicName      = errors.New("topic name cannot be empty")
	ErrTopicForbidden        = errors.New("not authorized for this topic")
	ErrAlreadyMember         = errors.New("already subscribed to this topic")
	ErrNotMember             = errors.New("not subscribed to this topic")
	ErrOwnerCannotLeave      = errors.New("owner cannot unsubscribe; delete the topic instead")
	ErrMemberNotFound        = errors.New("topic member not found")
	ErrCannotRemoveOwner     = errors.New("cannot remove the topic owner")
	ErrCannotChangeOwnerRole = errors.New("cannot change the owner's role")
)

// TopicService provides topic directory and membership registry operations.
type TopicService struct {
	topicRepo repository.TopicRepository
	userRepo  repository.UserRepository
}

// NewTopicService creates a new TopicService.
func NewTopicService(topicRepo repository.TopicRepository, userRepo repository.UserRepository) *TopicService {
	return &TopicService{
		topicRepo: topicRepo,
		userRepo:  userRepo,
	}
}

// TopicSummary is a topic annotated with read-time computed fields.
type TopicSummary struct {
	Topic       models.Topic
	MemberCount int64
	TaskCount   int64
	// Role is the requesting user's membership role, RoleNone if none.
	Role models.TopicRole
}

// CreateTopicInput represents parameters to create a new topic.
type CreateTopicInput struct {
	Name        string
	Description string
}

// CreateTopic creates a topic and enrolls the creator as owner in a single
// transaction.
func (s *TopicService) CreateTopic(actor models.User, input CreateTopicInput) (*TopicSummary, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrInvalidTopicName
	}

	topic := &models.Topic{
		Name:        input.Name,
		Description: input.Description,
		CreatorID:   actor.ID,
	}

	owner := &models.TopicMember{
		UserID:   actor.ID,
		Role:     models.RoleOwner,
		JoinedAt: time.Now(),
	}

	if err := s.topicRepo.CreateWithOwner(topic, owner); err != nil {
		return nil, fmt.Errorf("failed to create topic: %w", err)
	}

	return &TopicSummary{
		Topic:       *topic,
		MemberCount: 1,
		TaskCount:   0,
		Role:        models.RoleOwner,
	}, nil
}

// ListTopics returns topics matching the filters, each annotated with live
// member/task counts and the actor's role.
func (s *TopicService) ListTopics(actor models.User, search string, mineOnly bool) ([]TopicSummary, error) {
	var memberUserID *uint64
	if mineOnly {
		memberUserID = &actor.ID
	}

	topics, err := s.topicRepo.List(search, memberUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list topics: %w", err)
	}

	summaries := make([]TopicSummary, 0, len(topics))
	for _, topic := range topics {
		summary, err := s.annotate(topic, actor.ID)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, *summary)
	}

	return summaries, nil
}

// GetTopic returns a topic with creator, members, and computed fields.
func (s *TopicService) GetTopic(actor models.User, topicID uint64) (*models.Topic, *TopicSummary, error) {
	topic, err := s.topicRepo.FindByIDWithMembers(topicID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrTopicNotFound
		}
		return nil, nil, fmt.Errorf("failed to find topic: %w", err)
	}

	summary, err := s.annotate(*topic, actor.ID)
	if err != nil {
		return nil, nil, err
	}

	return topic, summary, nil
}

// UpdateTopicInput carries optional topic changes.
type UpdateTopicInput struct {
	Name        *string
	Description *string
}

// UpdateTopic updates name/description. Requires owner or admin membership,
// or superuser.
func (s *TopicService) UpdateTopic(actor models.User, topicID uint64, input UpdateTopicInput) (*TopicSummary, error) {
	topic, err := s.topicRepo.FindByID(topicID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTopicNotFound
		}
		return nil, fmt.Errorf("failed to find topic: %w", err)
	}

	role, err := s.roleOf(topicID, actor.ID)
	if err != nil {
		return nil, err
	}
	if !authz.Allows(actor.IsSuperuser(), role, authz.OpTopicUpdate) {
		return nil, ErrTopicForbidden
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, ErrInvalidTopicName
		}
		topic.Name = *input.Name
	}
	if input.Description != nil {
		topic.Description = *input.Description
	}

	if err := s.topicRepo.Update(topic); err != nil {
		return nil, fmt.Errorf("failed to update topic: %w", err)
	}

	return s.annotate(*topic, actor.ID)
}

// DeleteTopic removes a topic with all memberships and tasks. Requires owner
// membership or superuser.
func (s *TopicService) DeleteTopic(actor models.User, topicID uint64) error {
	if _, err := s.topicRepo.FindByID(topicID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTopicNotFound
		}
		return fmt.Errorf("failed to find topic: %w", err)
	}

	role, err := s.roleOf(topicID, actor.ID)
	if err != nil {
		return err
	}
	if !authz.Allows(actor.IsSuperuser(), role, authz.OpTopicDelete) {
		return ErrTopicForbidden
	}

	if err := s.topicRepo.Delete(topicID); err != nil {
		return fmt.Errorf("failed to delete topic: %w", err)
	}

	return nil
}

// Subscribe enrolls the actor as a plain member.
func (s *TopicService) Subscribe(actor models.User, topicID uint64) (*models.TopicMember, error) {
	if _, err := s.topicRepo.FindByID(topicID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTopicNotFound
		}
		return nil, fmt.Errorf("failed to find topic: %w", err)
	}

	if _, err := s.topicRepo.FindMember(topicID, actor.ID); err == nil {
		return nil, ErrAlreadyMember
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to verify membership: %w", err)
	}

	member := &models.TopicMember{
		TopicID:  topicID,
		UserID:   actor.ID,
		Role:     models.RoleMember,
		JoinedAt: time.Now(),
	}

	if err := s.topicRepo.AddMember(member); err != nil {
		return nil, fmt.Errorf("failed to subscribe: %w", err)
	}

	member.User = actor
	return member, nil
}

// Unsubscribe removes the actor's own membership. The owner can never leave;
// ownership ends only with topic deletion.
func (s *TopicService) Unsubscribe(actor models.User, topicID uint64) error {
	member, err := s.topicRepo.FindMember(topicID, actor.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotMember
		}
		return fmt.Errorf("failed to find membership: %w", err)
	}

	if member.Role == models.RoleOwner {
		return ErrOwnerCannotLeave
	}

	if err := s.topicRepo.RemoveMember(topicID, actor.ID); err != nil {
		return fmt.Errorf("failed to unsubscribe: %w", err)
	}

	return nil
}

// AddMember adds a user to the topic with the given role, or updates the
// role in place if the user is already a member. Requires owner/admin
// membership or superuser. The owner row is immutable: a topic has exactly
// one owner, assigned at creation.
func (s *TopicService) AddMember(actor models.User, topicID, userID uint64, role models.TopicRole) (*models.TopicMember, error) {
	if _, err := s.topicRepo.FindByID(topicID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTopicNotFound
		}
		return nil, fmt.Errorf("failed to find topic: %w", err)
	}

	actorRole, err := s.roleOf(topicID, actor.ID)
	if err != nil {
		return nil, err
	}
	if !authz.Allows(actor.IsSuperuser(), actorRole, authz.OpMemberManage) {
		return nil, ErrTopicForbidden
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	existing, err := s.topicRepo.FindMember(topicID, userID)
	if err == nil {
		if existing.Role == models.RoleOwner {
			return nil, ErrCannotChangeOwnerRole
		}
		existing.Role = role
		if err := s.topicRepo.UpdateMember(existing); err != nil {
			return nil, fmt.Errorf("failed to update member role: %w", err)
		}
		existing.User = *user
		return existing, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to verify membership: %w", err)
	}

	member := &models.TopicMember{
		TopicID:  topicID,
		UserID:   userID,
		Role:     role,
		JoinedAt: time.Now(),
	}

	if err := s.topicRepo.AddMember(member); err != nil {
		return nil, fmt.Errorf("failed to add member: %w", err)
	}

	member.User = *user
	return member, nil
}

// RemoveMember removes a member. Requires owner/admin membership or
// superuser; removing the owner is denied regardless of caller privilege.
func (s *TopicService) RemoveMember(actor models.User, topicID, userID uint64) error {
	actorRole, err := s.roleOf(topicID, actor.ID)
	if err != nil {
		return err
	}
	if !authz.Allows(actor.IsSuperuser(), actorRole, authz.OpMemberManage) {
		return ErrTopicForbidden
	}

	member, err := s.topicRepo.FindMember(topicID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMemberNotFound
		}
		return fmt.Errorf("failed to find member: %w", err)
	}

	if !authz.MemberRemovalAllowed(member.Role) {
		return ErrCannotRemoveOwner
	}

	if err := s.topicRepo.RemoveMember(topicID, userID); err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}

	return nil
}

// roleOf resolves a user's role in a topic, RoleNone when not a member.
func (s *TopicService) roleOf(topicID, userID uint64) (models.TopicRole, error) {
	member, err := s.topicRepo.FindMember(topicID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RoleNone, nil
		}
		return models.RoleNone, fmt.Errorf("failed to resolve membership: %w", err)
	}
	return member.Role, nil
}

func (s *TopicService) annotate(topic models.Topic, userID uint64) (*TopicSummary, error) {
	memberCount, err := s.topicRepo.CountMembers(topic.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count members: %w", err)
	}

	taskCount, err := s.topicRepo.CountTasks(topic.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}

	role, err := s.roleOf(topic.ID, userID)
	if err != nil {
		return nil, err
	}

	return &TopicSummary{
		Topic:       topic,
		MemberCount: memberCount,
		TaskCount:   taskCount,
		Role:        role,
	}, nil
}
