package handlers

import (
	"net/http"
	"testing"

	"auditgate-backend/shared/database/models"
)

func TestDeleteProjectCascades(t *testing.T) {
	db, store := setupTest(t)
	router := newTestRouter(db)

	org := createOrganization(t, db, "Acme")
	project := createProject(t, db, org.ID, "Doomed project")
	auditor, _ := createUser(t, db, "auditor@acme.com", models.RoleAuditor, &org.ID)
	assignToProject(t, db, project.ID, auditor.ID)
	_, token := createUser(t, db, "admin@test.com", models.RolePlatformAdmin, nil)

	audit := createAudit(t, db, project.ID, "Q3 review")
	finding := createFinding(t, db, audit.ID, "Bulgu")
	comment := models.FindingComment{FindingID: finding.ID, UserID: auditor.ID, Comment: "not"}
	if err := db.Create(&comment).Error; err != nil {
		t.Fatalf("failed to create comment: %v", err)
	}

	w := doUpload(t, router, "/api/v1/findings/"+finding.ID.String()+"/evidences", token, "proof.png", []byte("png"))
	if w.Code != http.StatusCreated {
		t.Fatalf("upload: expected 201, got %d: %s", w.Code, w.Body.String())
	}

	w = doRequest(t, router, http.MethodDelete, "/api/v1/projects/"+project.ID.String(), token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var count int64
	db.Model(&models.Project{}).Where("id = ?", project.ID).Count(&count)
	if count != 0 {
		t.Error("project row survived deletion")
	}
	db.Model(&models.Audit{}).Where("project_id = ?", project.ID).Count(&count)
	if count != 0 {
		t.Error("audit rows survived deletion")
	}
	db.Model(&models.Finding{}).Where("audit_id = ?", audit.ID).Count(&count)
	if count != 0 {
		t.Error("finding rows survived deletion")
	}
	db.Model(&models.FindingComment{}).Where("finding_id = ?", finding.ID).Count(&count)
	if count != 0 {
		t.Error("comment rows survived deletion")
	}
	db.Model(&models.Evidence{}).Where("finding_id = ?", finding.ID).Count(&count)
	if count != 0 {
		t.Error("evidence rows survived deletion")
	}
	db.Model(&models.ProjectAssignment{}).Where("project_id = ?", project.ID).Count(&count)
	if count != 0 {
		t.Error("assignment rows survived deletion")
	}
	if store.count() != 0 {
		t.Errorf("cascade left %d blobs in storage", store.count())
	}
}

func TestCopyProjectCreatesEmptyProject(t *testing.T) {
	db, _ := setupTest(t)
	router := newTestRouter(db)

	org := createOrganization(t, db, "Acme")
	project := createProject(t, db, org.ID, "Source project")
	createAudit(t, db, project.ID, "Existing audit")
	_, token := createUser(t, db, "orgadmin@acme.com", models.RoleOrgAdmin, &org.ID)

	w := doRequest(t, router, http.MethodPost, "/api/v1/projects/"+project.ID.String()+"/copy", token,
		map[string]string{"new_name": "Fresh copy"})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var copied models.Project
	if err := db.First(&copied, "name = ?", "Fresh copy").Error; err != nil {
		t.Fatalf("copy not found: %v", err)
	}
	if copied.OrganizationID != org.ID {
		t.Error("copy must stay in the source organization")
	}

	var audits int64
	db.Model(&models.Audit{}).Where("project_id = ?", copied.ID).Count(&audits)
	if audits != 0 {
		t.Errorf("project copy must not carry audits, got %d", audits)
	}
}

func TestOrgAdminCannotCreateProjectElsewhere(t *testing.T) {
	db, _ := setupTest(t)
	router := newTestRouter(db)

	orgA := createOrganization(t, db, "Org A")
	orgB := createOrganization(t, db, "Org B")
	_, token := createUser(t, db, "orgadmin@a.com", models.RoleOrgAdmin, &orgA.ID)

	w := doRequest(t, router, http.MethodPost, "/api/v1/projects", token, map[string]interface{}{
		"name":            "Cross org",
		"organization_id": orgB.ID,
	})
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", w.Code, w.Body.String())
	}
}

func TestProjectListNarrowedForAuditor(t *testing.T) {
	db, _ := setupTest(t)
	router := newTestRouter(db)

	org := createOrganization(t, db, "Acme")
	assigned := createProject(t, db, org.ID, "Mine")
	foreign := createProject(t, db, org.ID, "Not mine")
	auditor, token := createUser(t, db, "auditor@acme.com", models.RoleAuditor, &org.ID)
	assignToProject(t, db, assigned.ID, auditor.ID)

	w := doRequest(t, router, http.MethodGet, "/api/v1/projects", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	data := decodeData(t, w)
	items := data["items"].([]interface{})
	if len(items) != 1 {
		t.Fatalf("expected 1 project, got %d", len(items))
	}

	w = doRequest(t, router, http.MethodGet, "/api/v1/projects/"+foreign.ID.String(), token, nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403 for unassigned project, got %d", w.Code)
	}
}
