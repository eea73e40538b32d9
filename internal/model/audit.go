package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AuditEntry struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`
	Action        string    `gorm:"size:80;not null;index" json:"action"`
	ActorID       string    `gorm:"size:36;index" json:"actor_id,omitempty"`
	ActorUsername string    `gorm:"size:80" json:"actor_username,omitempty"`
	ActorIP       string    `gorm:"size:64" json:"actor_ip,omitempty"`
	Resource      string    `gorm:"size:200" json:"resource,omitempty"`
	Status        string    `gorm:"size:20;not null" json:"status"`
	Details       string    `gorm:"type:text" json:"details,omitempty"`
	OccurredAt    time.Time `gorm:"not null;index" json:"occurred_at"`
}

func (e *AuditEntry) BeforeCreate(_ *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

const (
	AuditStatusSuccess = "success"
	AuditStatusFailed  = "failed"
)

type AuditActor struct {
	UserID   string
	Username string
	IP       string
}

type AuditQuery struct {
	Action  string
	ActorID string
	Status  string
	Page    int
	Limit   int
}

type AuditList struct {
	Entries []AuditEntry `json:"entries"`
}

type AdminStats struct {
	Users           int64 `json:"users"`
	Recipes         int64 `json:"recipes"`
	Comments        int64 `json:"comments"`
	ContactMessages int64 `json:"contact_messages"`
	RevokedTokens   int   `json:"revoked_tokens"`
}
