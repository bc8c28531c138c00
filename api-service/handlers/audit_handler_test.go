package handlers

import (
	"net/http"
	"testing"
	"time"

	"auditgate-backend/shared/database/models"
	"auditgate-backend/shared/database/models/notification"
)

func TestCreateAuditSeedsFindingsFromTemplate(t *testing.T) {
	db, _ := setupTest(t)
	router := newTestRouter(db)

	template := createSystemTemplate(t, db)
	org := createOrganization(t, db, "Acme")
	project := createProject(t, db, org.ID, "Web platform")
	_, token := createUser(t, db, "orgadmin@acme.com", models.RoleOrgAdmin, &org.ID)

	w := doRequest(t, router, http.MethodPost, "/api/v1/audits", token, CreateAuditRequest{
		Name:       "Q3 review",
		Standard:   models.StandardISO27001,
		ProjectID:  project.ID,
		TemplateID: &template.ID,
		Language:   "en",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var audit models.Audit
	if err := db.First(&audit, "name = ?", "Q3 review").Error; err != nil {
		t.Fatalf("audit not found: %v", err)
	}
	if audit.Status != models.AuditStatusPlanning {
		t.Errorf("expected planning status, got %s", audit.Status)
	}

	var findings []models.Finding
	if err := db.Where("audit_id = ?", audit.ID).Order("created_at ASC").Find(&findings).Error; err != nil {
		t.Fatalf("failed to load findings: %v", err)
	}
	if len(findings) != 2 {
		t.Fatalf("expected 2 seeded findings, got %d", len(findings))
	}

	titles := map[string]bool{}
	for _, finding := range findings {
		titles[finding.Title] = true
	}
	if !titles["Information security policies"] || !titles["Access control"] {
		t.Errorf("expected English titles, got %v", titles)
	}

	var seeded int64
	db.Model(&notification.ActivityLog{}).
		Where("entity_id = ? AND action = ?", audit.ID, "findings_created_from_template").
		Count(&seeded)
	if seeded != 1 {
		t.Errorf("expected one seeding activity entry, got %d", seeded)
	}
}

func TestCreateAuditClampsUnsupportedLanguage(t *testing.T) {
	db, _ := setupTest(t)
	router := newTestRouter(db)

	template := createSystemTemplate(t, db)
	org := createOrganization(t, db, "Acme")
	project := createProject(t, db, org.ID, "Web platform")
	_, token := createUser(t, db, "orgadmin@acme.com", models.RoleOrgAdmin, &org.ID)

	w := doRequest(t, router, http.MethodPost, "/api/v1/audits", token, CreateAuditRequest{
		Name:       "Yerel denetim",
		Standard:   models.StandardISO27001,
		ProjectID:  project.ID,
		TemplateID: &template.ID,
		Language:   "de",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var finding models.Finding
	if err := db.First(&finding, "title = ?", "Bilgi güvenliği politikaları").Error; err != nil {
		t.Errorf("expected Turkish fallback titles: %v", err)
	}
}

func TestCopyAuditResetsStatusAndKeepsAssignments(t *testing.T) {
	db, _ := setupTest(t)
	router := newTestRouter(db)

	org := createOrganization(t, db, "Acme")
	project := createProject(t, db, org.ID, "Web platform")
	auditor, _ := createUser(t, db, "auditor@acme.com", models.RoleAuditor, &org.ID)
	_, token := createUser(t, db, "orgadmin@acme.com", models.RoleOrgAdmin, &org.ID)

	audit := createAudit(t, db, project.ID, "Original")
	db.Model(&audit).Update("status", models.AuditStatusCompleted)

	due := time.Now().Add(7 * 24 * time.Hour)
	finding := models.Finding{
		AuditID:          audit.ID,
		Title:            "Zayıf parola politikası",
		Severity:         models.SeverityHigh,
		Status:           models.FindingStatusResolved,
		AssignedToUserID: &auditor.ID,
		DueDate:          &due,
	}
	if err := db.Create(&finding).Error; err != nil {
		t.Fatalf("failed to create finding: %v", err)
	}
	comment := models.FindingComment{FindingID: finding.ID, UserID: auditor.ID, Comment: "İncelendi"}
	if err := db.Create(&comment).Error; err != nil {
		t.Fatalf("failed to create comment: %v", err)
	}

	w := doRequest(t, router, http.MethodPost, "/api/v1/audits/"+audit.ID.String()+"/copy", token,
		CopyAuditRequest{NewName: "Rerun"})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var copied models.Audit
	if err := db.First(&copied, "name = ?", "Rerun").Error; err != nil {
		t.Fatalf("copy not found: %v", err)
	}
	if copied.Status != models.AuditStatusPlanning {
		t.Errorf("copy must start in planning, got %s", copied.Status)
	}
	if copied.ProjectID != project.ID {
		t.Errorf("copy must stay in the same project")
	}

	var copiedFindings []models.Finding
	if err := db.Where("audit_id = ?", copied.ID).Find(&copiedFindings).Error; err != nil {
		t.Fatalf("failed to load copied findings: %v", err)
	}
	if len(copiedFindings) != 1 {
		t.Fatalf("expected 1 copied finding, got %d", len(copiedFindings))
	}
	got := copiedFindings[0]
	if got.AssignedToUserID == nil || *got.AssignedToUserID != auditor.ID {
		t.Error("copied finding lost its assignment")
	}
	if got.DueDate == nil {
		t.Error("copied finding lost its due date")
	}

	// Comments do not travel with the copy
	var commentCount int64
	db.Model(&models.FindingComment{}).Where("finding_id = ?", got.ID).Count(&commentCount)
	if commentCount != 0 {
		t.Errorf("expected no comments on the copy, got %d", commentCount)
	}
}

func TestUpdateAuditStatusNotifiesProjectAssignees(t *testing.T) {
	db, _ := setupTest(t)
	router := newTestRouter(db)

	org := createOrganization(t, db, "Acme")
	project := createProject(t, db, org.ID, "Web platform")
	auditorA, _ := createUser(t, db, "a@acme.com", models.RoleAuditor, &org.ID)
	auditorB, _ := createUser(t, db, "b@acme.com", models.RoleAuditor, &org.ID)
	assignToProject(t, db, project.ID, auditorA.ID)
	assignToProject(t, db, project.ID, auditorB.ID)
	_, token := createUser(t, db, "admin@test.com", models.RolePlatformAdmin, nil)

	audit := createAudit(t, db, project.ID, "Q3 review")

	status := models.AuditStatusInProgress
	w := doRequest(t, router, http.MethodPut, "/api/v1/audits/"+audit.ID.String(), token,
		UpdateAuditRequest{Status: &status})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var notifications []notification.Notification
	if err := db.Where("type = ?", notification.TypeAuditStatusChanged).Find(&notifications).Error; err != nil {
		t.Fatalf("failed to load notifications: %v", err)
	}
	if len(notifications) != 2 {
		t.Fatalf("expected both assignees notified, got %d", len(notifications))
	}
	for _, n := range notifications {
		if n.Title != "Denetim Durumu Değişti" {
			t.Errorf("unexpected title %q", n.Title)
		}
		if n.UserID != auditorA.ID && n.UserID != auditorB.ID {
			t.Errorf("notification sent to unexpected user %s", n.UserID)
		}
	}

	// A second identical update changes nothing and notifies no one
	w = doRequest(t, router, http.MethodPut, "/api/v1/audits/"+audit.ID.String(), token,
		UpdateAuditRequest{Status: &status})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var count int64
	db.Model(&notification.Notification{}).Where("type = ?", notification.TypeAuditStatusChanged).Count(&count)
	if count != 2 {
		t.Errorf("no-op update must not notify again, got %d notifications", count)
	}
}

func TestAuditListNarrowedForAuditor(t *testing.T) {
	db, _ := setupTest(t)
	router := newTestRouter(db)

	org := createOrganization(t, db, "Acme")
	assigned := createProject(t, db, org.ID, "Assigned project")
	other := createProject(t, db, org.ID, "Other project")
	auditor, token := createUser(t, db, "auditor@acme.com", models.RoleAuditor, &org.ID)
	assignToProject(t, db, assigned.ID, auditor.ID)

	visible := createAudit(t, db, assigned.ID, "Visible audit")
	hidden := createAudit(t, db, other.ID, "Hidden audit")

	w := doRequest(t, router, http.MethodGet, "/api/v1/audits", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	data := decodeData(t, w)
	items := data["items"].([]interface{})
	if len(items) != 1 {
		t.Fatalf("expected 1 visible audit, got %d", len(items))
	}
	entry := items[0].(map[string]interface{})
	if entry["id"] != visible.ID.String() {
		t.Errorf("wrong audit visible: %v", entry["id"])
	}

	// The unassigned audit exists but is out of scope
	w = doRequest(t, router, http.MethodGet, "/api/v1/audits/"+hidden.ID.String(), token, nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403 for unassigned audit, got %d", w.Code)
	}
}

func TestUpdateAuditUnchangedDateNotTracked(t *testing.T) {
	db, _ := setupTest(t)
	router := newTestRouter(db)

	org := createOrganization(t, db, "Acme")
	project := createProject(t, db, org.ID, "Proj")
	audit := createAudit(t, db, project.ID, "Q1 review")
	date := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	if err := db.Model(&audit).Update("audit_date", date).Error; err != nil {
		t.Fatalf("failed to set audit date: %v", err)
	}
	_, token := createUser(t, db, "orgadmin@acme.com", models.RoleOrgAdmin, &org.ID)

	updatedLogs := func() int64 {
		var count int64
		db.Model(&notification.ActivityLog{}).
			Where("entity_type = ? AND entity_id = ? AND action = ?", "audit", audit.ID, "updated").
			Count(&count)
		return count
	}

	// Resubmitting the same date is a no-op.
	w := doRequest(t, router, http.MethodPut, "/api/v1/audits/"+audit.ID.String(), token,
		map[string]string{"audit_date": date.Format(time.RFC3339)})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if n := updatedLogs(); n != 0 {
		t.Fatalf("expected no update entries for unchanged date, got %d", n)
	}

	moved := date.AddDate(0, 0, 7)
	w = doRequest(t, router, http.MethodPut, "/api/v1/audits/"+audit.ID.String(), token,
		map[string]string{"audit_date": moved.Format(time.RFC3339)})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if n := updatedLogs(); n != 1 {
		t.Errorf("expected 1 update entry after moving the date, got %d", n)
	}
}
