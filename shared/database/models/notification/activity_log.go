package notification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ActivityLog is an append-only audit-trail entry. Rows are written in
// the same transaction as the mutation they describe and are never
// updated or deleted by the system.
type ActivityLog struct {
	ID         uuid.UUID              `json:"id" gorm:"type:uuid;primary_key"`
	UserID     *uuid.UUID             `json:"user_id,omitempty" gorm:"type:uuid;index"`
	EntityType string                 `json:"entity_type" gorm:"type:varchar(50);not null;index"`
	EntityID   uuid.UUID              `json:"entity_id" gorm:"type:uuid;not null;index"`
	Action     string                 `json:"action" gorm:"type:varchar(50);not null"` // e.g. "created", "updated", "deleted"
	Details    map[string]interface{} `json:"details,omitempty" gorm:"serializer:json"`
	CreatedAt  time.Time              `json:"created_at" gorm:"autoCreateTime;index"`
}

func (a *ActivityLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for ActivityLog
func (ActivityLog) TableName() string {
	return "activity_logs"
}
