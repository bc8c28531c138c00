// Package notify creates per-user notifications and pushes them to
// live websocket connections. The database row is the source of truth;
// the push is best effort.
package notify

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"auditgate-backend/shared/database/models"
	"auditgate-backend/shared/database/models/notification"
)

// Related entity types carried on notifications.
const (
	EntityFinding = "finding"
	EntityAudit   = "audit"
)

// Create persists one notification inside the caller's transaction and
// pushes it to the recipient's websocket connection if one is open.
func Create(tx *gorm.DB, userID uuid.UUID, notifType notification.NotificationType, title, message, relatedEntityType string, relatedEntityID *uuid.UUID) error {
	n := notification.Notification{
		UserID:            userID,
		Type:              notifType,
		Title:             title,
		Message:           message,
		RelatedEntityType: relatedEntityType,
		RelatedEntityID:   relatedEntityID,
	}
	if err := tx.Create(&n).Error; err != nil {
		return err
	}

	// Push after persisting; a closed connection is not an error.
	GetWebSocketManager().SendToUser(userID.String(), &notification.WebSocketMessage{
		Type:              notifType,
		Title:             title,
		Message:           message,
		RelatedEntityType: relatedEntityType,
		RelatedEntityID:   relatedEntityID,
		Timestamp:         time.Now(),
	})
	return nil
}

// FindingAssigned notifies the new assignee. firstAssignment selects
// the creation-time wording.
func FindingAssigned(tx *gorm.DB, finding *models.Finding, assigneeID uuid.UUID, firstAssignment bool) error {
	title := "Bulgu Atandı"
	if firstAssignment {
		title = "Yeni Bulgu Atandı"
	}
	id := finding.ID
	return Create(tx, assigneeID, notification.TypeFindingAssigned, title,
		fmt.Sprintf("%q bulgusu size atandı", finding.Title),
		EntityFinding, &id)
}

// FindingStatusChanged notifies the assignee unless they made the
// change themselves.
func FindingStatusChanged(tx *gorm.DB, finding *models.Finding, actorID uuid.UUID) error {
	if finding.AssignedToUserID == nil || *finding.AssignedToUserID == actorID {
		return nil
	}
	id := finding.ID
	return Create(tx, *finding.AssignedToUserID, notification.TypeFindingStatusChanged, "Bulgu Durumu Değişti",
		fmt.Sprintf("%q bulgusunun durumu %q olarak güncellendi", finding.Title, finding.Status),
		EntityFinding, &id)
}

// CommentAdded notifies the assignee unless they wrote the comment.
func CommentAdded(tx *gorm.DB, finding *models.Finding, actorID uuid.UUID) error {
	if finding.AssignedToUserID == nil || *finding.AssignedToUserID == actorID {
		return nil
	}
	id := finding.ID
	return Create(tx, *finding.AssignedToUserID, notification.TypeCommentAdded, "Bulguya Yorum Eklendi",
		fmt.Sprintf("%q bulgusuna yorum eklendi", finding.Title),
		EntityFinding, &id)
}

// AuditStatusChanged notifies every user assigned to the audit's
// project, skipping the actor.
func AuditStatusChanged(tx *gorm.DB, audit *models.Audit, actorID uuid.UUID) error {
	var assignments []models.ProjectAssignment
	if err := tx.Where("project_id = ?", audit.ProjectID).Find(&assignments).Error; err != nil {
		return err
	}

	id := audit.ID
	message := fmt.Sprintf("%q denetiminin durumu %q olarak güncellendi", audit.Name, audit.Status)
	for _, a := range assignments {
		if a.UserID == actorID {
			continue
		}
		if err := Create(tx, a.UserID, notification.TypeAuditStatusChanged, "Denetim Durumu Değişti", message, EntityAudit, &id); err != nil {
			return err
		}
	}
	return nil
}

// CheckDueDates scans findings with an assignee and a due date and
// raises due-soon (within 3 days) and overdue notifications. Each
// (user, type, finding) pair is notified at most once, so repeated
// runs create nothing new.
func CheckDueDates(db *gorm.DB) (created int, err error) {
	now := time.Now()
	threeDaysLater := now.Add(72 * time.Hour)
	openStatuses := []models.FindingStatus{models.FindingStatusOpen, models.FindingStatusInProgress}

	var dueSoon []models.Finding
	err = db.Where("due_date IS NOT NULL AND due_date > ? AND due_date <= ?", now, threeDaysLater).
		Where("status IN ?", openStatuses).
		Where("assigned_to_user_id IS NOT NULL").
		Find(&dueSoon).Error
	if err != nil {
		return 0, err
	}

	var overdue []models.Finding
	err = db.Where("due_date IS NOT NULL AND due_date < ?", now).
		Where("status IN ?", openStatuses).
		Where("assigned_to_user_id IS NOT NULL").
		Find(&overdue).Error
	if err != nil {
		return 0, err
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		for _, finding := range dueSoon {
			daysLeft := int(finding.DueDate.Sub(now).Hours() / 24)
			n, err := createOnce(tx, finding, notification.TypeFindingDueSoon, "Bulgu Yakında Son Tarih",
				fmt.Sprintf("%q bulgusu yakında son tarih (%d gün kaldı)", finding.Title, daysLeft))
			if err != nil {
				return err
			}
			created += n
		}

		for _, finding := range overdue {
			daysOverdue := int(now.Sub(*finding.DueDate).Hours() / 24)
			n, err := createOnce(tx, finding, notification.TypeFindingOverdue, "Bulgu Son Tarih Geçti",
				fmt.Sprintf("%q bulgusu son tarih geçti (%d gün)", finding.Title, daysOverdue))
			if err != nil {
				return err
			}
			created += n
		}
		return nil
	})
	return created, err
}

func createOnce(tx *gorm.DB, finding models.Finding, notifType notification.NotificationType, title, message string) (int, error) {
	var count int64
	err := tx.Model(&notification.Notification{}).
		Where("user_id = ? AND type = ? AND related_entity_type = ? AND related_entity_id = ?",
			*finding.AssignedToUserID, notifType, EntityFinding, finding.ID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	id := finding.ID
	if err := Create(tx, *finding.AssignedToUserID, notifType, title, message, EntityFinding, &id); err != nil {
		return 0, err
	}
	return 1, nil
}
