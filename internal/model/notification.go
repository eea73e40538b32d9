package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	NotificationLike     = "like"
	NotificationComment  = "comment"
	NotificationRating   = "rating"
	NotificationBookmark = "bookmark"
)

type Notification struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    string    `gorm:"size:36;not null;index" json:"user_id"`
	ActorID   string    `gorm:"size:36;not null" json:"actor_id"`
	RecipeID  string    `gorm:"size:36" json:"recipe_id,omitempty"`
	Kind      string    `gorm:"size:20;not null" json:"kind"`
	Message   string    `gorm:"size:500;not null" json:"message"`
	Read      bool      `gorm:"not null;default:false" json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

func (n *Notification) BeforeCreate(_ *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}

type NotificationList struct {
	Notifications []Notification `json:"notifications"`
	Unread        int64          `json:"unread"`
}
