package entities

import (
	"time"

	"github.com/google/uuid"
)

type Timestamp struct {
	CreatedAt time.Time `gorm:"type:timestamp" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:timestamp" json:"updated_at"`
}

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	Username     string    `gorm:"uniqueIndex;not null" json:"username"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	PasswordHash string    `json:"-"`
	AvatarURL    string    `json:"avatar,omitempty"`
	Role         string    `json:"role"` // "user" or "admin"

	Recipes []*Recipe `gorm:"foreignKey:AuthorID" json:"recipes,omitempty"`
	Timestamp
}

type Subscription struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	FollowerID uuid.UUID `gorm:"type:uuid;not null;index:idx_subscription_pair,unique" json:"follower_id"`
	FollowedID uuid.UUID `gorm:"type:uuid;not null;index:idx_subscription_pair,unique" json:"followed_id"`
	CreatedAt  time.Time `gorm:"type:timestamp" json:"created_at"`

	Follower *User `gorm:"foreignKey:FollowerID" json:"-"`
	Followed *User `gorm:"foreignKey:FollowedID" json:"-"`
}
