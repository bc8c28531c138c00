package handlers

import (
	"net/http"
	"testing"

	"auditgate-backend/shared/database/models"
)

func TestDeleteOwnAccountRejected(t *testing.T) {
	db, _ := setupTest(t)
	router := newTestRouter(db)

	admin, token := createUser(t, db, "admin@test.com", models.RolePlatformAdmin, nil)

	w := doRequest(t, router, http.MethodDelete, "/api/v1/users/"+admin.ID.String(), token, nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", w.Code, w.Body.String())
	}
	if msg := decodeError(t, w); msg != "You cannot delete your own account. Please contact an administrator." {
		t.Errorf("unexpected message %q", msg)
	}

	var count int64
	db.Model(&models.User{}).Where("id = ?", admin.ID).Count(&count)
	if count != 1 {
		t.Error("account must survive a self-delete attempt")
	}
}

func TestOrgAdminCannotGrantPlatformAdmin(t *testing.T) {
	db, _ := setupTest(t)
	router := newTestRouter(db)

	org := createOrganization(t, db, "Acme")
	_, token := createUser(t, db, "orgadmin@acme.com", models.RoleOrgAdmin, &org.ID)

	w := doRequest(t, router, http.MethodPost, "/api/v1/users", token, CreateUserRequest{
		Email:          "evil@acme.com",
		Password:       "password123",
		FullName:       "Evil Admin",
		Role:           models.RolePlatformAdmin,
		OrganizationID: &org.ID,
	})
	if w.Code != http.StatusForbidden {
		t.Fatalf("create: expected 403, got %d: %s", w.Code, w.Body.String())
	}

	// Promotion of an existing user is rejected the same way
	target, _ := createUser(t, db, "member@acme.com", models.RoleAuditor, &org.ID)
	role := models.RolePlatformAdmin
	w = doRequest(t, router, http.MethodPut, "/api/v1/users/"+target.ID.String(), token,
		UpdateUserRequest{Role: &role})
	if w.Code != http.StatusForbidden {
		t.Fatalf("promote: expected 403, got %d: %s", w.Code, w.Body.String())
	}
}

func TestOrgAdminCannotCreateUserInOtherOrganization(t *testing.T) {
	db, _ := setupTest(t)
	router := newTestRouter(db)

	orgA := createOrganization(t, db, "Org A")
	orgB := createOrganization(t, db, "Org B")
	_, token := createUser(t, db, "orgadmin@a.com", models.RoleOrgAdmin, &orgA.ID)

	w := doRequest(t, router, http.MethodPost, "/api/v1/users", token, CreateUserRequest{
		Email:          "new@b.com",
		Password:       "password123",
		FullName:       "Cross Org",
		Role:           models.RoleAuditor,
		OrganizationID: &orgB.ID,
	})
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", w.Code, w.Body.String())
	}
}

func TestDuplicateEmailRejected(t *testing.T) {
	db, _ := setupTest(t)
	router := newTestRouter(db)

	org := createOrganization(t, db, "Acme")
	_, token := createUser(t, db, "admin@test.com", models.RolePlatformAdmin, nil)
	createUser(t, db, "taken@acme.com", models.RoleAuditor, &org.ID)

	w := doRequest(t, router, http.MethodPost, "/api/v1/users", token, CreateUserRequest{
		Email:          "taken@acme.com",
		Password:       "password123",
		FullName:       "Duplicate",
		Role:           models.RoleAuditor,
		OrganizationID: &org.ID,
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
	if msg := decodeError(t, w); msg != "Email already registered" {
		t.Errorf("unexpected message %q", msg)
	}
}

func TestUserListScopes(t *testing.T) {
	db, _ := setupTest(t)
	router := newTestRouter(db)

	orgA := createOrganization(t, db, "Org A")
	orgB := createOrganization(t, db, "Org B")

	_, platformToken := createUser(t, db, "admin@test.com", models.RolePlatformAdmin, nil)
	_, orgAdminToken := createUser(t, db, "orgadmin@a.com", models.RoleOrgAdmin, &orgA.ID)
	auditor, auditorToken := createUser(t, db, "auditor@a.com", models.RoleAuditor, &orgA.ID)
	createUser(t, db, "other@b.com", models.RoleAuditor, &orgB.ID)

	listLen := func(token string) int {
		w := doRequest(t, router, http.MethodGet, "/api/v1/users", token, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
		data := decodeData(t, w)
		return len(data["items"].([]interface{}))
	}

	if got := listLen(platformToken); got != 4 {
		t.Errorf("platform admin should see everyone, got %d", got)
	}
	if got := listLen(orgAdminToken); got != 2 {
		t.Errorf("org admin should see own organization only, got %d", got)
	}
	if got := listLen(auditorToken); got != 1 {
		t.Errorf("auditor should see only themselves, got %d", got)
	}

	// The auditor's single row is their own
	w := doRequest(t, router, http.MethodGet, "/api/v1/users", auditorToken, nil)
	data := decodeData(t, w)
	entry := data["items"].([]interface{})[0].(map[string]interface{})
	if entry["id"] != auditor.ID.String() {
		t.Errorf("auditor listing leaked another user: %v", entry["id"])
	}
}

func TestDeleteUserCleansAssignments(t *testing.T) {
	db, _ := setupTest(t)
	router := newTestRouter(db)

	org := createOrganization(t, db, "Acme")
	project := createProject(t, db, org.ID, "Web platform")
	_, token := createUser(t, db, "admin@test.com", models.RolePlatformAdmin, nil)
	target, _ := createUser(t, db, "leaving@acme.com", models.RoleAuditor, &org.ID)
	assignToProject(t, db, project.ID, target.ID)

	w := doRequest(t, router, http.MethodDelete, "/api/v1/users/"+target.ID.String(), token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var assignments, users int64
	db.Model(&models.ProjectAssignment{}).Where("user_id = ?", target.ID).Count(&assignments)
	db.Model(&models.User{}).Where("id = ?", target.ID).Count(&users)
	if assignments != 0 || users != 0 {
		t.Errorf("delete left rows behind: assignments=%d users=%d", assignments, users)
	}
}
