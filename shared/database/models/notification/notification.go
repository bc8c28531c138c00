package notification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationType is the closed set of alert kinds the system emits.
type NotificationType string

const (
	TypeFindingAssigned      NotificationType = "finding_assigned"
	TypeFindingDueSoon       NotificationType = "finding_due_soon"
	TypeFindingOverdue       NotificationType = "finding_overdue"
	TypeFindingStatusChanged NotificationType = "finding_status_changed"
	TypeCommentAdded         NotificationType = "comment_added"
	TypeAuditStatusChanged   NotificationType = "audit_status_changed"
)

// Notification is a per-user alert created as a side effect of another
// entity's mutation.
type Notification struct {
	ID                uuid.UUID        `json:"id" gorm:"type:uuid;primary_key"`
	UserID            uuid.UUID        `json:"user_id" gorm:"type:uuid;not null;index"`
	Type              NotificationType `json:"type" gorm:"type:varchar(50);not null"`
	Title             string           `json:"title" gorm:"type:varchar(200);not null"`
	Message           string           `json:"message" gorm:"type:text;not null"`
	RelatedEntityType string           `json:"related_entity_type,omitempty" gorm:"type:varchar(50)"`
	RelatedEntityID   *uuid.UUID       `json:"related_entity_id,omitempty" gorm:"type:uuid"`
	Read              bool             `json:"read" gorm:"not null;default:false;index"`
	CreatedAt         time.Time        `json:"created_at" gorm:"autoCreateTime;index"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for Notification
func (Notification) TableName() string {
	return "notifications"
}

// WebSocketMessage is the push format for live notification delivery.
type WebSocketMessage struct {
	Type              NotificationType `json:"type"`
	Title             string           `json:"title"`
	Message           string           `json:"message"`
	RelatedEntityType string           `json:"related_entity_type,omitempty"`
	RelatedEntityID   *uuid.UUID       `json:"related_entity_id,omitempty"`
	Timestamp         time.Time        `json:"timestamp"`
}
