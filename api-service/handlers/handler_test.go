package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"auditgate-backend/api-service/middleware"
	"auditgate-backend/shared/config"
	"auditgate-backend/shared/database"
	"auditgate-backend/shared/database/models"
	"auditgate-backend/shared/storage"
	utils "auditgate-backend/shared/utils/auth"
)

// memStorage is an in-memory storage.Service used by the tests.
type memStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newMemStorage() *memStorage {
	return &memStorage{objects: map[string][]byte{}}
}

func (m *memStorage) Save(_ context.Context, objectName string, reader io.Reader, _ int64) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[objectName] = data
	return nil
}

func (m *memStorage) Open(_ context.Context, objectName string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[objectName]
	if !ok {
		return nil, fmt.Errorf("object %s not found", objectName)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *memStorage) Remove(_ context.Context, objectName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, objectName)
	return nil
}

func (m *memStorage) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}

// setupTest wires an in-memory database and storage backend behind the
// process-wide globals the handlers use.
func setupTest(t *testing.T) (*gorm.DB, *memStorage) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	config.SetConfig(&config.Config{
		JWTSecret:             "test-secret",
		JWTExpireHours:        "1",
		DefaultLanguage:       "tr",
		SupportedLanguages:    []string{"tr", "en"},
		EvidenceStorage:       "local",
		UploadDir:             t.TempDir(),
		MaxUploadSize:         1024,
		AllowedFileExtensions: []string{".pdf", ".png", ".txt"},
		BlockedFileExtensions: []string{".exe", ".sh"},
		FrontendURL:           "http://localhost:3000",
	})

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get db instance: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	database.DB = db

	store := newMemStorage()
	storage.SetService(store)

	return db, store
}

// newTestRouter registers the API routes the way main does.
func newTestRouter(db *gorm.DB) *gin.Engine {
	router := gin.New()

	api := router.Group("/api/v1")
	api.POST("/auth/login", Login)

	authorized := api.Group("")
	authorized.Use(middleware.AuthMiddleware(db))
	{
		authorized.GET("/auth/me", GetMe)
		authorized.POST("/auth/change-password", ChangePassword)

		authorized.GET("/organizations", GetOrganizations)
		authorized.GET("/organizations/:id", GetOrganization)
		authorized.POST("/organizations", CreateOrganization)
		authorized.PUT("/organizations/:id", UpdateOrganization)
		authorized.DELETE("/organizations/:id", DeleteOrganization)

		authorized.GET("/users", GetUsers)
		authorized.GET("/users/:id", GetUser)
		authorized.POST("/users", CreateUser)
		authorized.PUT("/users/:id", UpdateUser)
		authorized.DELETE("/users/:id", DeleteUser)

		authorized.GET("/projects", GetProjects)
		authorized.GET("/projects/:id", GetProject)
		authorized.POST("/projects", CreateProject)
		authorized.PUT("/projects/:id", UpdateProject)
		authorized.DELETE("/projects/:id", DeleteProject)
		authorized.POST("/projects/:id/copy", CopyProject)

		authorized.GET("/templates", GetTemplates)
		authorized.GET("/templates/:id", GetTemplate)
		authorized.POST("/templates", CreateTemplate)
		authorized.PUT("/templates/:id", UpdateTemplate)
		authorized.DELETE("/templates/:id", DeleteTemplate)
		authorized.POST("/templates/:id/copy", CopyTemplate)
		authorized.POST("/templates/:id/items", CreateTemplateItem)
		authorized.PUT("/templates/:id/items/:item_id", UpdateTemplateItem)
		authorized.DELETE("/templates/:id/items/:item_id", DeleteTemplateItem)

		authorized.GET("/audits", GetAudits)
		authorized.GET("/audits/:id", GetAudit)
		authorized.POST("/audits", CreateAudit)
		authorized.PUT("/audits/:id", UpdateAudit)
		authorized.DELETE("/audits/:id", DeleteAudit)
		authorized.POST("/audits/:id/copy", CopyAudit)

		authorized.GET("/findings", GetFindings)
		authorized.GET("/findings/:id", GetFinding)
		authorized.POST("/findings", CreateFinding)
		authorized.PUT("/findings/:id", UpdateFinding)
		authorized.DELETE("/findings/:id", DeleteFinding)

		authorized.POST("/findings/:id/evidences", UploadEvidence)
		authorized.GET("/findings/evidences/:id/download", DownloadEvidence)
		authorized.DELETE("/findings/evidences/:id", DeleteEvidence)

		authorized.GET("/findings/:id/comments", GetComments)
		authorized.POST("/findings/:id/comments", CreateComment)
		authorized.DELETE("/findings/comments/:id", DeleteComment)

		authorized.GET("/notifications", GetNotifications)
		authorized.GET("/notifications/unread/count", GetUnreadCount)
		authorized.PUT("/notifications/:id/read", MarkNotificationRead)
		authorized.PUT("/notifications/read-all", MarkAllNotificationsRead)
		authorized.DELETE("/notifications/:id", DeleteNotification)
		authorized.POST("/notifications/check-due-dates", CheckDueDates)

		authorized.GET("/activity", GetActivityLogs)
		authorized.GET("/activity/:entity_type/:entity_id", GetEntityActivityLogs)

		authorized.GET("/analytics/dashboard", GetDashboardStats)
		authorized.GET("/analytics/findings-timeline", GetFindingsTimeline)

		authorized.GET("/reports/audit/:id/excel", ExportAuditReport)
	}

	return router
}

func createOrganization(t *testing.T, db *gorm.DB, name string) models.Organization {
	t.Helper()
	org := models.Organization{Name: name, IsActive: true}
	if err := db.Create(&org).Error; err != nil {
		t.Fatalf("failed to create organization: %v", err)
	}
	return org
}

func createUser(t *testing.T, db *gorm.DB, email string, role models.UserRole, orgID *uuid.UUID) (models.User, string) {
	t.Helper()
	hashed, err := utils.HashPassword("password123")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := models.User{
		Email:          email,
		HashedPassword: hashed,
		FullName:       "Test User",
		Role:           role,
		IsActive:       true,
		OrganizationID: orgID,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	token, err := utils.GenerateJWT(user.ID, user.Email)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	return user, token
}

func createProject(t *testing.T, db *gorm.DB, orgID uuid.UUID, name string) models.Project {
	t.Helper()
	project := models.Project{Name: name, OrganizationID: orgID}
	if err := db.Create(&project).Error; err != nil {
		t.Fatalf("failed to create project: %v", err)
	}
	return project
}

func assignToProject(t *testing.T, db *gorm.DB, projectID, userID uuid.UUID) {
	t.Helper()
	assignment := models.ProjectAssignment{ProjectID: projectID, UserID: userID}
	if err := db.Create(&assignment).Error; err != nil {
		t.Fatalf("failed to assign user: %v", err)
	}
}

func createAudit(t *testing.T, db *gorm.DB, projectID uuid.UUID, name string) models.Audit {
	t.Helper()
	audit := models.Audit{
		Name:      name,
		Standard:  models.StandardISO27001,
		ProjectID: projectID,
		Status:    models.AuditStatusPlanning,
	}
	if err := db.Create(&audit).Error; err != nil {
		t.Fatalf("failed to create audit: %v", err)
	}
	return audit
}

func createFinding(t *testing.T, db *gorm.DB, auditID uuid.UUID, title string) models.Finding {
	t.Helper()
	finding := models.Finding{
		AuditID:  auditID,
		Title:    title,
		Severity: models.SeverityMedium,
		Status:   models.FindingStatusOpen,
	}
	if err := db.Create(&finding).Error; err != nil {
		t.Fatalf("failed to create finding: %v", err)
	}
	return finding
}

// doRequest performs an HTTP request against the router with an
// optional bearer token and JSON body.
func doRequest(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// doUpload performs a multipart file upload.
func doUpload(t *testing.T, router *gin.Engine, path, token, filename string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("failed to write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// decodeData unwraps the {"success": true, "data": ...} envelope.
func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var envelope struct {
		Success bool                   `json:"success"`
		Data    map[string]interface{} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
	if !envelope.Success {
		t.Fatalf("expected success envelope, got %q", w.Body.String())
	}
	return envelope.Data
}

// decodeError returns the error message of a non-2xx response.
func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode error response %q: %v", w.Body.String(), err)
	}
	return payload.Error
}
