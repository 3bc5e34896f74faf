package models

import "time"

type Topic struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	Name        string    `gorm:"type:varchar(200);not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	CreatorID   uint64    `gorm:"not null" json:"creator_id"`
	CreatedAt   time.Time `json:"created_at"`

	// Relations
	Creator User          `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
	Members []TopicMember `gorm:"foreignKey:TopicID" json:"members,omitempty"`
	Tasks   []Task        `gorm:"foreignKey:TopicID" json:"tasks,omitempty"`
}
