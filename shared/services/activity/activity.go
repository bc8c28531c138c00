// Package activity records the append-only audit trail of mutations.
package activity

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"auditgate-backend/shared/database/models/notification"
	"auditgate-backend/shared/logger"
)

// Entity types recorded in the trail.
const (
	EntityOrganization = "organization"
	EntityUser         = "user"
	EntityProject      = "project"
	EntityAudit        = "audit"
	EntityFinding      = "finding"
	EntityTemplate     = "template"
	EntityEvidence     = "evidence"
	EntityComment      = "comment"
)

// Actions recorded in the trail.
const (
	ActionCreated      = "created"
	ActionUpdated      = "updated"
	ActionDeleted      = "deleted"
	ActionCopied       = "copied"
	ActionAssigned     = "assigned"
	ActionUnassigned   = "unassigned"
	ActionUploaded     = "uploaded"
	ActionCommented    = "commented"
	ActionExported     = "exported"
	ActionStatusChange = "status_changed"
)

// Log appends one activity entry. Pass the request transaction so the
// entry commits or rolls back together with the mutation it describes.
func Log(tx *gorm.DB, userID *uuid.UUID, entityType string, entityID uuid.UUID, action string, details map[string]interface{}) error {
	entry := notification.ActivityLog{
		UserID:     userID,
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		Details:    details,
	}
	if err := tx.Create(&entry).Error; err != nil {
		logger.LogError("activity", "Log", entityType+"/"+action, err)
		return err
	}
	return nil
}

// Changes builds the {old, new} detail map for the fields that actually
// changed between two snapshots.
func Changes(pairs map[string][2]interface{}) map[string]interface{} {
	details := make(map[string]interface{}, len(pairs))
	for field, v := range pairs {
		if v[0] == v[1] {
			continue
		}
		details[field] = map[string]interface{}{"old": v[0], "new": v[1]}
	}
	return details
}
