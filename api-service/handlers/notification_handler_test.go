package handlers

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"auditgate-backend/shared/database/models"
	"auditgate-backend/shared/database/models/notification"
)

func seedNotification(t *testing.T, db *gorm.DB, userID uuid.UUID, read bool) notification.Notification {
	t.Helper()
	n := notification.Notification{
		UserID:  userID,
		Type:    notification.TypeFindingAssigned,
		Title:   "Yeni Bulgu Atandı",
		Message: "test",
		Read:    read,
	}
	if err := db.Create(&n).Error; err != nil {
		t.Fatalf("failed to create notification: %v", err)
	}
	return n
}

func TestNotificationsScopedToOwner(t *testing.T) {
	db, _ := setupTest(t)
	router := newTestRouter(db)

	org := createOrganization(t, db, "Acme")
	owner, token := createUser(t, db, "owner@acme.com", models.RoleAuditor, &org.ID)
	other, _ := createUser(t, db, "other@acme.com", models.RoleAuditor, &org.ID)

	mine := seedNotification(t, db, owner.ID, false)
	seedNotification(t, db, owner.ID, true)
	foreign := seedNotification(t, db, other.ID, false)

	w := doRequest(t, router, http.MethodGet, "/api/v1/notifications", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	data := decodeData(t, w)
	items := data["items"].([]interface{})
	if len(items) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(items))
	}

	w = doRequest(t, router, http.MethodGet, "/api/v1/notifications?read=false", token, nil)
	data = decodeData(t, w)
	items = data["items"].([]interface{})
	if len(items) != 1 {
		t.Fatalf("expected 1 unread notification, got %d", len(items))
	}

	w = doRequest(t, router, http.MethodGet, "/api/v1/notifications/unread/count", token, nil)
	data = decodeData(t, w)
	if int(data["count"].(float64)) != 1 {
		t.Errorf("expected unread count 1, got %v", data["count"])
	}

	// Someone else's notification cannot be read or deleted.
	w = doRequest(t, router, http.MethodPut, "/api/v1/notifications/"+foreign.ID.String()+"/read", token, nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403 for foreign notification, got %d", w.Code)
	}
	w = doRequest(t, router, http.MethodDelete, "/api/v1/notifications/"+foreign.ID.String(), token, nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403 for foreign delete, got %d", w.Code)
	}

	w = doRequest(t, router, http.MethodPut, "/api/v1/notifications/"+mine.ID.String()+"/read", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 marking own notification, got %d", w.Code)
	}
	w = doRequest(t, router, http.MethodGet, "/api/v1/notifications/unread/count", token, nil)
	data = decodeData(t, w)
	if int(data["count"].(float64)) != 0 {
		t.Errorf("expected unread count 0 after read, got %v", data["count"])
	}
}

func TestMarkAllNotificationsRead(t *testing.T) {
	db, _ := setupTest(t)
	router := newTestRouter(db)

	org := createOrganization(t, db, "Acme")
	owner, token := createUser(t, db, "owner@acme.com", models.RoleAuditor, &org.ID)

	seedNotification(t, db, owner.ID, false)
	seedNotification(t, db, owner.ID, false)
	seedNotification(t, db, owner.ID, true)

	w := doRequest(t, router, http.MethodPut, "/api/v1/notifications/read-all", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	data := decodeData(t, w)
	if int(data["updated"].(float64)) != 2 {
		t.Errorf("expected 2 updated, got %v", data["updated"])
	}

	var unread int64
	db.Model(&notification.Notification{}).Where("user_id = ? AND read = ?", owner.ID, false).Count(&unread)
	if unread != 0 {
		t.Errorf("expected no unread rows, got %d", unread)
	}
}

func TestCheckDueDatesRequiresPlatformAdmin(t *testing.T) {
	db, _ := setupTest(t)
	router := newTestRouter(db)

	org := createOrganization(t, db, "Acme")
	_, auditorToken := createUser(t, db, "auditor@acme.com", models.RoleAuditor, &org.ID)
	_, adminToken := createUser(t, db, "admin@test.com", models.RolePlatformAdmin, nil)

	w := doRequest(t, router, http.MethodPost, "/api/v1/notifications/check-due-dates", auditorToken, nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for auditor, got %d", w.Code)
	}

	w = doRequest(t, router, http.MethodPost, "/api/v1/notifications/check-due-dates", adminToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for platform admin, got %d: %s", w.Code, w.Body.String())
	}
	data := decodeData(t, w)
	if data["message"] != "Due date check completed" {
		t.Errorf("unexpected message %v", data["message"])
	}
}
