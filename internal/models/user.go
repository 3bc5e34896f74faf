package models

import "time"

type AuthLevel string

const (
	AuthLevelSuperuser AuthLevel = "superuser"
	AuthLevelUser      AuthLevel = "user"
)

type User struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	Name         string    `gorm:"type:varchar(100);not null" json:"name"`
	Email        string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"email"`
	Phone        string    `gorm:"type:varchar(20)" json:"phone,omitempty"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	AuthLevel    AuthLevel `gorm:"type:varchar(20);not null;default:'user'" json:"auth_level"`
	CreatedAt    time.Time `json:"created_at"`

	// Relations
	CreatedTopics []Topic       `gorm:"foreignKey:CreatorID" json:"-"`
	Memberships   []TopicMember `gorm:"foreignKey:UserID" json:"-"`
	AssignedTasks []Task        `gorm:"foreignKey:WorkerID" json:"-"`
}

// IsSuperuser reports whether the user holds the global superuser level.
func (u User) IsSuperuser() bool {
	return u.AuthLevel == AuthLevelSuperuser
}
