package handlers

import (
	"net/http"
	"testing"

	"auditgate-backend/shared/database/models"
	"auditgate-backend/shared/database/models/notification"
)

func TestUpdateOrganizationRecordsOnlyChangedFields(t *testing.T) {
	db, _ := setupTest(t)
	router := newTestRouter(db)

	org := createOrganization(t, db, "Acme")
	_, token := createUser(t, db, "admin@test.com", models.RolePlatformAdmin, nil)

	// Name stays the same, description actually changes.
	w := doRequest(t, router, http.MethodPut, "/api/v1/organizations/"+org.ID.String(), token,
		map[string]interface{}{"name": "Acme", "description": "Security consultancy"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var entry notification.ActivityLog
	err := db.Where("entity_type = ? AND entity_id = ? AND action = ?", "organization", org.ID, "updated").
		First(&entry).Error
	if err != nil {
		t.Fatalf("update activity entry not found: %v", err)
	}
	changes, ok := entry.Details["changes"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected changes map in details, got %v", entry.Details)
	}
	if _, present := changes["name"]; present {
		t.Error("unchanged name must not appear in changes")
	}
	desc, ok := changes["description"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected description change, got %v", changes)
	}
	if desc["old"] != "" || desc["new"] != "Security consultancy" {
		t.Errorf("unexpected description diff: %v", desc)
	}
}
