package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"gorm.io/gorm"

	"auditgate-backend/shared/database/models"
	"auditgate-backend/shared/database/models/notification"
)

// findingFixture builds an org, project, audit and two users: the
// org admin acting and an auditor assigned to the project.
type findingFixture struct {
	org     models.Organization
	project models.Project
	audit   models.Audit

	admin      models.User
	adminToken string

	auditor      models.User
	auditorToken string
}

func newFindingFixture(t *testing.T, db *gorm.DB) findingFixture {
	t.Helper()
	f := findingFixture{}
	f.org = createOrganization(t, db, "Acme")
	f.project = createProject(t, db, f.org.ID, "Web platform")
	f.audit = createAudit(t, db, f.project.ID, "Q3 review")
	f.admin, f.adminToken = createUser(t, db, "orgadmin@acme.com", models.RoleOrgAdmin, &f.org.ID)
	f.auditor, f.auditorToken = createUser(t, db, "auditor@acme.com", models.RoleAuditor, &f.org.ID)
	assignToProject(t, db, f.project.ID, f.auditor.ID)
	return f
}

func TestCreateFindingWithAssigneeNotifies(t *testing.T) {
	db, _ := setupTest(t)
	router := newTestRouter(db)
	f := newFindingFixture(t, db)

	w := doRequest(t, router, http.MethodPost, "/api/v1/findings", f.adminToken, CreateFindingRequest{
		AuditID:          f.audit.ID,
		Title:            "Zayıf parola politikası",
		Severity:         models.SeverityHigh,
		AssignedToUserID: &f.auditor.ID,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var n notification.Notification
	if err := db.First(&n, "user_id = ?", f.auditor.ID).Error; err != nil {
		t.Fatalf("assignee notification missing: %v", err)
	}
	if n.Type != notification.TypeFindingAssigned {
		t.Errorf("unexpected type %s", n.Type)
	}
	if n.Title != "Yeni Bulgu Atandı" {
		t.Errorf("unexpected title %q", n.Title)
	}
	expected := fmt.Sprintf("%q bulgusu size atandı", "Zayıf parola politikası")
	if n.Message != expected {
		t.Errorf("unexpected message %q, want %q", n.Message, expected)
	}
}

func TestCreateFindingSelfAssignmentDoesNotNotify(t *testing.T) {
	db, _ := setupTest(t)
	router := newTestRouter(db)
	f := newFindingFixture(t, db)

	w := doRequest(t, router, http.MethodPost, "/api/v1/findings", f.auditorToken, CreateFindingRequest{
		AuditID:          f.audit.ID,
		Title:            "Kendi bulgum",
		AssignedToUserID: &f.auditor.ID,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var count int64
	db.Model(&notification.Notification{}).Count(&count)
	if count != 0 {
		t.Errorf("self-assignment must not notify, got %d notifications", count)
	}
}

func TestUpdateFindingReassignmentAndStatus(t *testing.T) {
	db, _ := setupTest(t)
	router := newTestRouter(db)
	f := newFindingFixture(t, db)

	finding := createFinding(t, db, f.audit.ID, "Eksik loglama")

	// Reassignment notifies the new assignee with the update wording
	w := doRequest(t, router, http.MethodPut, "/api/v1/findings/"+finding.ID.String(), f.adminToken,
		UpdateFindingRequest{AssignedToUserID: &f.auditor.ID})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var assigned notification.Notification
	if err := db.First(&assigned, "type = ?", notification.TypeFindingAssigned).Error; err != nil {
		t.Fatalf("assignment notification missing: %v", err)
	}
	if assigned.Title != "Bulgu Atandı" {
		t.Errorf("unexpected title %q", assigned.Title)
	}

	// A status change notifies the current assignee
	status := models.FindingStatusInProgress
	w = doRequest(t, router, http.MethodPut, "/api/v1/findings/"+finding.ID.String(), f.adminToken,
		UpdateFindingRequest{Status: &status})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var statusChanged notification.Notification
	if err := db.First(&statusChanged, "type = ?", notification.TypeFindingStatusChanged).Error; err != nil {
		t.Fatalf("status notification missing: %v", err)
	}
	if statusChanged.UserID != f.auditor.ID {
		t.Errorf("status notification sent to wrong user")
	}
	expected := fmt.Sprintf("%q bulgusunun durumu %q olarak güncellendi", "Eksik loglama", "in_progress")
	if statusChanged.Message != expected {
		t.Errorf("unexpected message %q, want %q", statusChanged.Message, expected)
	}

	// Change tracking records old and new values
	var entries []notification.ActivityLog
	if err := db.Where("entity_id = ? AND action = ?", finding.ID, "updated").Find(&entries).Error; err != nil {
		t.Fatalf("failed to load activity: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 update entries, got %d", len(entries))
	}
	found := false
	for _, entry := range entries {
		changes, ok := entry.Details["changes"].(map[string]interface{})
		if !ok {
			t.Fatalf("update entry missing changes detail: %v", entry.Details)
		}
		if statusChange, ok := changes["status"].(map[string]interface{}); ok {
			found = true
			if statusChange["old"] != "open" || statusChange["new"] != "in_progress" {
				t.Errorf("unexpected status change %v", statusChange)
			}
		}
	}
	if !found {
		t.Error("status change not tracked in activity details")
	}
}

func TestUpdateFindingStatusByAssigneeDoesNotNotify(t *testing.T) {
	db, _ := setupTest(t)
	router := newTestRouter(db)
	f := newFindingFixture(t, db)

	finding := models.Finding{
		AuditID:          f.audit.ID,
		Title:            "Kendi işim",
		Severity:         models.SeverityLow,
		Status:           models.FindingStatusOpen,
		AssignedToUserID: &f.auditor.ID,
	}
	if err := db.Create(&finding).Error; err != nil {
		t.Fatalf("failed to create finding: %v", err)
	}

	status := models.FindingStatusResolved
	w := doRequest(t, router, http.MethodPut, "/api/v1/findings/"+finding.ID.String(), f.auditorToken,
		UpdateFindingRequest{Status: &status})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var count int64
	db.Model(&notification.Notification{}).Count(&count)
	if count != 0 {
		t.Errorf("assignee changing their own finding must not notify, got %d", count)
	}
}

func TestUploadEvidenceValidationOrder(t *testing.T) {
	db, _ := setupTest(t)
	router := newTestRouter(db)
	f := newFindingFixture(t, db)

	finding := createFinding(t, db, f.audit.ID, "Kanıt gerekli")
	path := "/api/v1/findings/" + finding.ID.String() + "/evidences"

	// Size wins over extension checks
	w := doUpload(t, router, path, f.adminToken, "dump.exe", bytes.Repeat([]byte("x"), 2048))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("oversize: expected 400, got %d", w.Code)
	}
	if msg := decodeError(t, w); !strings.HasPrefix(msg, "File too large.") {
		t.Errorf("oversize: unexpected message %q", msg)
	}

	// Blocked extension beats the allowlist message
	w = doUpload(t, router, path, f.adminToken, "payload.exe", []byte("MZ"))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("blocked ext: expected 400, got %d", w.Code)
	}
	if msg := decodeError(t, w); msg != "File type '.exe' is not allowed for security reasons" {
		t.Errorf("blocked ext: unexpected message %q", msg)
	}

	// Unknown extension falls through to the allowlist
	w = doUpload(t, router, path, f.adminToken, "data.xyz", []byte("data"))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("unknown ext: expected 400, got %d", w.Code)
	}
	if msg := decodeError(t, w); !strings.Contains(msg, "Allowed types:") {
		t.Errorf("unknown ext: unexpected message %q", msg)
	}
}

func TestUploadAndDownloadEvidence(t *testing.T) {
	db, store := setupTest(t)
	router := newTestRouter(db)
	f := newFindingFixture(t, db)

	finding := createFinding(t, db, f.audit.ID, "Kanıt gerekli")
	content := []byte("evidence content")

	w := doUpload(t, router, "/api/v1/findings/"+finding.ID.String()+"/evidences", f.adminToken, "note.txt", content)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var evidence models.Evidence
	if err := db.First(&evidence, "finding_id = ?", finding.ID).Error; err != nil {
		t.Fatalf("evidence row missing: %v", err)
	}
	if evidence.FileName != "note.txt" {
		t.Errorf("original filename lost: %q", evidence.FileName)
	}
	if evidence.FilePath == "note.txt" {
		t.Error("stored object name must be generated, not the upload filename")
	}
	if !strings.HasSuffix(evidence.FilePath, ".txt") {
		t.Errorf("object name should keep the extension: %q", evidence.FilePath)
	}
	if store.count() != 1 {
		t.Errorf("expected 1 stored blob, got %d", store.count())
	}

	w = doRequest(t, router, http.MethodGet, "/api/v1/findings/evidences/"+evidence.ID.String()+"/download", f.auditorToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("download: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !bytes.Equal(w.Body.Bytes(), content) {
		t.Error("downloaded content differs from upload")
	}
	if disposition := w.Header().Get("Content-Disposition"); !strings.Contains(disposition, "note.txt") {
		t.Errorf("download should carry the original filename, got %q", disposition)
	}
}

func TestDeleteFindingRemovesEvidenceAndComments(t *testing.T) {
	db, store := setupTest(t)
	router := newTestRouter(db)
	f := newFindingFixture(t, db)

	finding := createFinding(t, db, f.audit.ID, "Temizlenecek")

	w := doUpload(t, router, "/api/v1/findings/"+finding.ID.String()+"/evidences", f.adminToken, "note.txt", []byte("x"))
	if w.Code != http.StatusCreated {
		t.Fatalf("upload: expected 201, got %d", w.Code)
	}
	comment := models.FindingComment{FindingID: finding.ID, UserID: f.admin.ID, Comment: "not"}
	if err := db.Create(&comment).Error; err != nil {
		t.Fatalf("failed to create comment: %v", err)
	}

	w = doRequest(t, router, http.MethodDelete, "/api/v1/findings/"+finding.ID.String(), f.adminToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	if store.count() != 0 {
		t.Errorf("expected evidence blobs removed, %d left", store.count())
	}
	var evidences, comments, findings int64
	db.Model(&models.Evidence{}).Where("finding_id = ?", finding.ID).Count(&evidences)
	db.Model(&models.FindingComment{}).Where("finding_id = ?", finding.ID).Count(&comments)
	db.Model(&models.Finding{}).Where("id = ?", finding.ID).Count(&findings)
	if evidences != 0 || comments != 0 || findings != 0 {
		t.Errorf("cascade left rows behind: evidences=%d comments=%d findings=%d", evidences, comments, findings)
	}
}

func TestCommentNotifiesAssignee(t *testing.T) {
	db, _ := setupTest(t)
	router := newTestRouter(db)
	f := newFindingFixture(t, db)

	finding := models.Finding{
		AuditID:          f.audit.ID,
		Title:            "Yorum testi",
		Severity:         models.SeverityLow,
		Status:           models.FindingStatusOpen,
		AssignedToUserID: &f.auditor.ID,
	}
	if err := db.Create(&finding).Error; err != nil {
		t.Fatalf("failed to create finding: %v", err)
	}

	w := doRequest(t, router, http.MethodPost, "/api/v1/findings/"+finding.ID.String()+"/comments", f.adminToken,
		CreateCommentRequest{Comment: "Lütfen inceleyin"})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var n notification.Notification
	if err := db.First(&n, "type = ?", notification.TypeCommentAdded).Error; err != nil {
		t.Fatalf("comment notification missing: %v", err)
	}
	if n.UserID != f.auditor.ID {
		t.Error("comment notification sent to wrong user")
	}
	if n.Title != "Bulguya Yorum Eklendi" {
		t.Errorf("unexpected title %q", n.Title)
	}

	// The assignee commenting on their own finding stays silent
	w = doRequest(t, router, http.MethodPost, "/api/v1/findings/"+finding.ID.String()+"/comments", f.auditorToken,
		CreateCommentRequest{Comment: "Bakıyorum"})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}
	var count int64
	db.Model(&notification.Notification{}).Where("type = ?", notification.TypeCommentAdded).Count(&count)
	if count != 1 {
		t.Errorf("self-comment must not notify, got %d", count)
	}
}

func TestDeleteCommentPermissions(t *testing.T) {
	db, _ := setupTest(t)
	router := newTestRouter(db)
	f := newFindingFixture(t, db)

	finding := createFinding(t, db, f.audit.ID, "Yorum silme")

	comment := models.FindingComment{FindingID: finding.ID, UserID: f.admin.ID, Comment: "Admin notu"}
	if err := db.Create(&comment).Error; err != nil {
		t.Fatalf("failed to create comment: %v", err)
	}

	// A non-owner auditor cannot delete someone else's comment
	w := doRequest(t, router, http.MethodDelete, "/api/v1/findings/comments/"+comment.ID.String(), f.auditorToken, nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}

	// The owner can
	w = doRequest(t, router, http.MethodDelete, "/api/v1/findings/comments/"+comment.ID.String(), f.adminToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var count int64
	db.Model(&models.FindingComment{}).Where("id = ?", comment.ID).Count(&count)
	if count != 0 {
		t.Error("comment not deleted")
	}
}
