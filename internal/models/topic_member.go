package models

import "time"

type TopicRole string

const (
	RoleOwner  TopicRole = "owner"
	RoleAdmin  TopicRole = "admin"
	RoleMember TopicRole = "member"

	// RoleNone marks the absence of a membership row.
	RoleNone TopicRole = ""
)

// TopicMember holds the single role a user has in a topic. The (topic, user)
// pair is unique; re-adding a member updates the role in place.
type TopicMember struct {
	ID       uint64    `gorm:"primarykey" json:"id"`
	TopicID  uint64    `gorm:"not null;uniqueIndex:idx_topic_user" json:"topic_id"`
	UserID   uint64    `gorm:"not null;uniqueIndex:idx_topic_user" json:"user_id"`
	Role     TopicRole `gorm:"type:varchar(20);not null;default:'member'" json:"role"`
	JoinedAt time.Time `json:"joined_at"`

	// Relations
	Topic Topic `gorm:"foreignKey:TopicID" json:"topic,omitempty"`
	User  User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
