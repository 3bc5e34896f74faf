package models

import "time"

// TaskStatusPending is the initial status of every task. Status is advisory:
// any string set by a caller with update privilege is stored as-is, there is
// no enforced transition graph.
const TaskStatusPending = "pending"

type Task struct {
	ID          uint64     `gorm:"primarykey" json:"id"`
	TopicID     uint64     `gorm:"not null" json:"topic_id"`
	Title       string     `gorm:"type:varchar(200);not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	WorkerID    *uint64    `json:"worker_id"`
	CreatedByID uint64     `gorm:"not null" json:"created_by_id"`
	StartTime   *time.Time `json:"start_time"`
	EndTime     *time.Time `json:"end_time"`
	Status      string     `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	CreatedAt   time.Time  `json:"created_at"`

	// Relations
	Topic     Topic `gorm:"foreignKey:TopicID" json:"topic,omitempty"`
	Worker    *User `gorm:"foreignKey:WorkerID" json:"worker,omitempty"`
	CreatedBy User  `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
}
