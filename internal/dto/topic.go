package dto

import (
	"time"

	"github.com/mtakagi/discussion-board-api/internal/models"
	"github.com/mtakagi/discussion-board-api/internal/services"
)

// TopicDTO represents a topic in API responses. MemberCount, TaskCount, and
// UserRole are computed at read time, not stored.
type TopicDTO struct {
	ID          uint64            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	CreatorID   uint64            `json:"creator_id"`
	CreatedAt   time.Time         `json:"created_at"`
	MemberCount int64             `json:"member_count"`
	TaskCount   int64             `json:"task_count"`
	UserRole    *models.TopicRole `json:"user_role"`
}

// TopicMemberDTO represents a member in a topic
type TopicMemberDTO struct {
	ID       uint64           `json:"id"`
	UserID   uint64           `json:"user_id"`
	Role     models.TopicRole `json:"role"`
	JoinedAt time.Time        `json:"joined_at"`
	User     UserDTO          `json:"user"`
}

// TopicDetailDTO represents detailed topic information
type TopicDetailDTO struct {
	TopicDTO
	Creator UserDTO          `json:"creator"`
	Members []TopicMemberDTO `json:"members"`
}

// ToTopicDTO converts an annotated topic summary to DTO
func ToTopicDTO(summary services.TopicSummary) TopicDTO {
	dto := TopicDTO{
		ID:          summary.Topic.ID,
		Name:        summary.Topic.Name,
		Description: summary.Topic.Description,
		CreatorID:   summary.Topic.CreatorID,
		CreatedAt:   summary.Topic.CreatedAt,
		MemberCount: summary.MemberCount,
		TaskCount:   summary.TaskCount,
	}
	if summary.Role != models.RoleNone {
		role := summary.Role
		dto.UserRole = &role
	}
	return dto
}

// ToTopicDTOs converts a slice of topic summaries
func ToTopicDTOs(summaries []services.TopicSummary) []TopicDTO {
	dtos := make([]TopicDTO, len(summaries))
	for i, summary := range summaries {
		dtos[i] = ToTopicDTO(summary)
	}
	return dtos
}

// ToTopicMemberDTO converts a membership to DTO
func ToTopicMemberDTO(member models.TopicMember) TopicMemberDTO {
	return TopicMemberDTO{
		ID:       member.ID,
		UserID:   member.UserID,
		Role:     member.Role,
		JoinedAt: member.JoinedAt,
		User:     ToUserDTO(member.User),
	}
}

// ToTopicDetailDTO converts a topic with preloaded creator and members
func ToTopicDetailDTO(topic models.Topic, summary services.TopicSummary) TopicDetailDTO {
	members := make([]TopicMemberDTO, len(topic.Members))
	for i, member := range topic.Members {
		members[i] = ToTopicMemberDTO(member)
	}

	return TopicDetailDTO{
		TopicDTO: ToTopicDTO(summary),
		Creator:  ToUserDTO(topic.Creator),
		Members:  members,
	}
}
