package handlers

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"auditgate-backend/api-service/middleware"
	"auditgate-backend/shared/apperr"
	"auditgate-backend/shared/config"
	"auditgate-backend/shared/database"
	"auditgate-backend/shared/database/models"
	"auditgate-backend/shared/logger"
	"auditgate-backend/shared/services/activity"
	"auditgate-backend/shared/services/notify"
	"auditgate-backend/shared/storage"
	"auditgate-backend/shared/utils/query"
	"auditgate-backend/shared/utils/scope"
)

// CreateFindingRequest represents request body for creating a finding
type CreateFindingRequest struct {
	AuditID          uuid.UUID            `json:"audit_id" binding:"required"`
	Title            string               `json:"title" binding:"required"`
	Description      string               `json:"description"`
	ControlReference string               `json:"control_reference"`
	Severity         models.Severity      `json:"severity"`
	Status           models.FindingStatus `json:"status"`
	Recommendation   string               `json:"recommendation"`
	AssignedToUserID *uuid.UUID           `json:"assigned_to_user_id"`
	DueDate          *time.Time           `json:"due_date"`
}

// UpdateFindingRequest represents request body for updating a finding.
// Assignment and due date accept explicit null to clear the value.
type UpdateFindingRequest struct {
	Title            *string               `json:"title"`
	Description      *string               `json:"description"`
	ControlReference *string               `json:"control_reference"`
	Severity         *models.Severity      `json:"severity"`
	Status           *models.FindingStatus `json:"status"`
	Recommendation   *string               `json:"recommendation"`
	AssignedToUserID *uuid.UUID            `json:"assigned_to_user_id"`
	ClearAssignment  bool                  `json:"clear_assignment"`
	DueDate          *time.Time            `json:"due_date"`
	ClearDueDate     bool                  `json:"clear_due_date"`
}

// CreateCommentRequest represents request body for commenting on a finding
type CreateCommentRequest struct {
	Comment string `json:"comment" binding:"required"`
}

// findingPreloads loads the relations every finding response carries.
func findingPreloads(db *gorm.DB) *gorm.DB {
	return db.Preload("AssignedTo").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Comments.User").
		Preload("Evidences")
}

// GetFindings retrieves findings visible to the caller
// @Summary Get findings
// @Description Findings are visible through their audit's project scope. With filters[audit_id] the audit access is checked explicitly
// @Tags findings
// @Produce json
// @Param page query int false "Page number (default: 1)"
// @Param limit query int false "Items per page (default: 20)"
// @Param search query string false "Search term across title and description"
// @Param filters[audit_id] query string false "Filter by audit ID"
// @Param filters[assigned_to_user_id] query string false "Filter by assignee"
// @Param filters[severity] query string false "Filter by severity"
// @Param filters[status] query string false "Filter by status"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /findings [get]
func GetFindings(ctx *gin.Context) {
	db := database.DB
	user := middleware.CurrentUser(ctx)
	params := query.ParseQueryParams(ctx)

	dbQuery := db.Model(&models.Finding{})

	if raw, ok := params.Filters["audit_id"]; ok {
		auditID, err := uuid.Parse(raw)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid audit_id filter"})
			return
		}
		if _, err := scope.CheckAuditAccess(db, user, auditID); err != nil {
			respondError(ctx, err, "Audit not found")
			return
		}
		dbQuery = dbQuery.Where("audit_id = ?", auditID)
	} else {
		ids, unrestricted, err := scope.VisibleAuditIDs(db, user)
		if err != nil {
			respondError(ctx, err, "")
			return
		}
		if !unrestricted {
			if len(ids) == 0 {
				respondList(ctx, []models.Finding{}, query.BuildPaginationResponse(params.Page, params.Limit, 0))
				return
			}
			dbQuery = dbQuery.Where("audit_id IN ?", ids)
		}
	}

	if raw, ok := params.Filters["assigned_to_user_id"]; ok {
		assigneeID, err := uuid.Parse(raw)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid assigned_to_user_id filter"})
			return
		}
		dbQuery = dbQuery.Where("assigned_to_user_id = ?", assigneeID)
	}

	dbQuery = query.ApplyFilters(dbQuery, params.Filters, map[string]string{
		"severity": "severity",
		"status":   "status",
	})
	dbQuery = query.ApplySearch(dbQuery, params.Search, []string{"title", "description", "control_reference"})
	dbQuery = query.ApplySort(dbQuery, params.Sort, map[string]string{
		"title":      "title",
		"severity":   "severity",
		"status":     "status",
		"due_date":   "due_date",
		"created_at": "created_at",
	})

	var total int64
	if err := dbQuery.Count(&total).Error; err != nil {
		respondError(ctx, err, "")
		return
	}

	var findings []models.Finding
	if err := findingPreloads(query.ApplyPagination(dbQuery, params.Page, params.Limit)).Find(&findings).Error; err != nil {
		respondError(ctx, err, "")
		return
	}

	respondList(ctx, findings, query.BuildPaginationResponse(params.Page, params.Limit, total))
}

// GetFinding retrieves a single finding with assignee and comments
// @Summary Get finding by ID
// @Tags findings
// @Produce json
// @Param id path string true "Finding ID" format(uuid)
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Finding not found"
// @Router /findings/{id} [get]
func GetFinding(ctx *gin.Context) {
	findingID, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	db := database.DB
	user := middleware.CurrentUser(ctx)

	if _, err := scope.CheckFindingAccess(db, user, findingID); err != nil {
		respondError(ctx, err, "Finding not found")
		return
	}

	var finding models.Finding
	if err := findingPreloads(db).First(&finding, "id = ?", findingID).Error; err != nil {
		respondError(ctx, err, "Finding not found")
		return
	}

	respondSuccess(ctx, http.StatusOK, finding)
}

// CreateFinding creates a finding under an audit
// @Summary Create finding
// @Description Assigning a user on create notifies them immediately
// @Tags findings
// @Accept json
// @Produce json
// @Param finding body CreateFindingRequest true "Finding data"
// @Security BearerAuth
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 404 {object} map[string]string "Audit not found"
// @Router /findings [post]
func CreateFinding(ctx *gin.Context) {
	db := database.DB
	user := middleware.CurrentUser(ctx)

	var req CreateFindingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := scope.CheckAuditAccess(db, user, req.AuditID); err != nil {
		respondError(ctx, err, "Audit not found")
		return
	}

	if req.Severity == "" {
		req.Severity = models.SeverityMedium
	}
	if req.Status == "" {
		req.Status = models.FindingStatusOpen
	}

	finding := models.Finding{
		AuditID:          req.AuditID,
		Title:            req.Title,
		Description:      req.Description,
		ControlReference: req.ControlReference,
		Severity:         req.Severity,
		Status:           req.Status,
		Recommendation:   req.Recommendation,
		AssignedToUserID: req.AssignedToUserID,
		DueDate:          req.DueDate,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&finding).Error; err != nil {
			return err
		}
		if err := activity.Log(tx, &user.ID, activity.EntityFinding, finding.ID, activity.ActionCreated,
			map[string]interface{}{"title": finding.Title, "severity": string(finding.Severity)}); err != nil {
			return err
		}
		if req.AssignedToUserID != nil && *req.AssignedToUserID != user.ID {
			return notify.FindingAssigned(tx, &finding, *req.AssignedToUserID, true)
		}
		return nil
	})
	if err != nil {
		respondError(ctx, err, "")
		return
	}

	var created models.Finding
	if err := findingPreloads(db).First(&created, "id = ?", finding.ID).Error; err != nil {
		respondError(ctx, err, "Finding not found")
		return
	}

	respondSuccess(ctx, http.StatusCreated, created)
}

// UpdateFinding updates a finding with field-level change tracking
// @Summary Update finding
// @Description Reassignment notifies the new assignee; a status change notifies the current assignee
// @Tags findings
// @Accept json
// @Produce json
// @Param id path string true "Finding ID" format(uuid)
// @Param finding body UpdateFindingRequest true "Fields to update"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Finding not found"
// @Router /findings/{id} [put]
func UpdateFinding(ctx *gin.Context) {
	findingID, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	db := database.DB
	user := middleware.CurrentUser(ctx)

	finding, err := scope.CheckFindingAccess(db, user, findingID)
	if err != nil {
		respondError(ctx, err, "Finding not found")
		return
	}

	var req UpdateFindingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	changes := map[string]interface{}{}
	track := func(field string, oldValue, newValue interface{}) {
		if oldValue == newValue {
			return
		}
		updates[field] = newValue
		changes[field] = map[string]interface{}{"old": oldValue, "new": newValue}
	}

	if req.Title != nil {
		track("title", finding.Title, *req.Title)
	}
	if req.Description != nil {
		track("description", finding.Description, *req.Description)
	}
	if req.ControlReference != nil {
		track("control_reference", finding.ControlReference, *req.ControlReference)
	}
	if req.Severity != nil {
		track("severity", string(finding.Severity), string(*req.Severity))
	}
	if req.Recommendation != nil {
		track("recommendation", finding.Recommendation, *req.Recommendation)
	}

	statusChanged := false
	if req.Status != nil && *req.Status != finding.Status {
		track("status", string(finding.Status), string(*req.Status))
		statusChanged = true
	}

	var newAssignee *uuid.UUID
	assignmentChanged := false
	if req.ClearAssignment {
		if finding.AssignedToUserID != nil {
			updates["assigned_to_user_id"] = nil
			changes["assigned_to_user_id"] = map[string]interface{}{"old": finding.AssignedToUserID, "new": nil}
			assignmentChanged = true
		}
	} else if req.AssignedToUserID != nil {
		if finding.AssignedToUserID == nil || *finding.AssignedToUserID != *req.AssignedToUserID {
			updates["assigned_to_user_id"] = *req.AssignedToUserID
			changes["assigned_to_user_id"] = map[string]interface{}{"old": finding.AssignedToUserID, "new": *req.AssignedToUserID}
			newAssignee = req.AssignedToUserID
			assignmentChanged = true
		}
	}

	if req.ClearDueDate {
		if finding.DueDate != nil {
			updates["due_date"] = nil
			changes["due_date"] = map[string]interface{}{"old": finding.DueDate, "new": nil}
		}
	} else if req.DueDate != nil {
		if finding.DueDate == nil || !finding.DueDate.Equal(*req.DueDate) {
			updates["due_date"] = *req.DueDate
			changes["due_date"] = map[string]interface{}{"old": finding.DueDate, "new": *req.DueDate}
		}
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(finding).Updates(updates).Error; err != nil {
			return err
		}
		if err := activity.Log(tx, &user.ID, activity.EntityFinding, finding.ID, activity.ActionUpdated,
			map[string]interface{}{"changes": changes}); err != nil {
			return err
		}
		if assignmentChanged {
			if req.ClearAssignment {
				finding.AssignedToUserID = nil
			} else {
				finding.AssignedToUserID = newAssignee
			}
			if newAssignee != nil && *newAssignee != user.ID {
				if err := notify.FindingAssigned(tx, finding, *newAssignee, false); err != nil {
					return err
				}
			}
		}
		if statusChanged {
			finding.Status = *req.Status
			return notify.FindingStatusChanged(tx, finding, user.ID)
		}
		return nil
	})
	if err != nil {
		respondError(ctx, err, "Finding not found")
		return
	}

	var updated models.Finding
	if err := findingPreloads(db).First(&updated, "id = ?", finding.ID).Error; err != nil {
		respondError(ctx, err, "Finding not found")
		return
	}

	respondSuccess(ctx, http.StatusOK, updated)
}

// DeleteFinding deletes a finding with its comments and evidence
// @Summary Delete finding
// @Tags findings
// @Produce json
// @Param id path string true "Finding ID" format(uuid)
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Finding not found"
// @Router /findings/{id} [delete]
func DeleteFinding(ctx *gin.Context) {
	findingID, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	db := database.DB
	user := middleware.CurrentUser(ctx)

	finding, err := scope.CheckFindingAccess(db, user, findingID)
	if err != nil {
		respondError(ctx, err, "Finding not found")
		return
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		var evidences []models.Evidence
		if err := tx.Where("finding_id = ?", finding.ID).Find(&evidences).Error; err != nil {
			return err
		}
		removeEvidenceFiles(ctx, evidences)

		if err := activity.Log(tx, &user.ID, activity.EntityFinding, finding.ID, activity.ActionDeleted,
			map[string]interface{}{"title": finding.Title}); err != nil {
			return err
		}
		if err := tx.Where("finding_id = ?", finding.ID).Delete(&models.Evidence{}).Error; err != nil {
			return err
		}
		if err := tx.Where("finding_id = ?", finding.ID).Delete(&models.FindingComment{}).Error; err != nil {
			return err
		}
		return tx.Delete(finding).Error
	})
	if err != nil {
		respondError(ctx, err, "Finding not found")
		return
	}

	respondSuccess(ctx, http.StatusOK, gin.H{"message": "Finding deleted successfully"})
}

// removeEvidenceFiles deletes evidence blobs from storage best effort.
// A missing or unreachable blob never blocks the database delete.
func removeEvidenceFiles(ctx context.Context, evidences []models.Evidence) {
	if len(evidences) == 0 {
		return
	}
	store, err := storage.GetService()
	if err != nil {
		logger.LogError("findings", "removeEvidenceFiles", "storage unavailable", err)
		return
	}
	for _, evidence := range evidences {
		if err := store.Remove(ctx, evidence.FilePath); err != nil {
			logger.LogError("findings", "removeEvidenceFiles", evidence.FilePath, err)
		}
	}
}

// UploadEvidence attaches a file to a finding
// @Summary Upload evidence
// @Description The stored object name is generated; the original filename is kept for download
// @Tags findings
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Finding ID" format(uuid)
// @Param file formData file true "Evidence file"
// @Param description formData string false "Evidence description"
// @Security BearerAuth
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 404 {object} map[string]string "Finding not found"
// @Router /findings/{id}/evidences [post]
func UploadEvidence(ctx *gin.Context) {
	findingID, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	db := database.DB
	user := middleware.CurrentUser(ctx)
	cfg := config.GetConfig()

	finding, err := scope.CheckFindingAccess(db, user, findingID)
	if err != nil {
		respondError(ctx, err, "Finding not found")
		return
	}

	file, err := ctx.FormFile("file")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "File is required"})
		return
	}

	if file.Size > cfg.MaxUploadSize {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("File too large. Maximum size: %dMB", cfg.MaxUploadSize/1024/1024),
		})
		return
	}

	if file.Filename == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Filename is required"})
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	for _, blocked := range cfg.BlockedFileExtensions {
		if ext == blocked {
			ctx.JSON(http.StatusBadRequest, gin.H{
				"error": fmt.Sprintf("File type '%s' is not allowed for security reasons", ext),
			})
			return
		}
	}
	allowed := false
	for _, a := range cfg.AllowedFileExtensions {
		if ext == a {
			allowed = true
			break
		}
	}
	if !allowed {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("File type '%s' is not allowed. Allowed types: %s",
				ext, strings.Join(cfg.AllowedFileExtensions, ", ")),
		})
		return
	}

	store, err := storage.GetService()
	if err != nil {
		respondError(ctx, err, "")
		return
	}

	src, err := file.Open()
	if err != nil {
		respondError(ctx, err, "")
		return
	}
	defer src.Close()

	objectName := uuid.New().String() + ext
	if err := store.Save(ctx, objectName, src, file.Size); err != nil {
		respondError(ctx, err, "")
		return
	}

	evidence := models.Evidence{
		FindingID:   finding.ID,
		FilePath:    objectName,
		FileName:    file.Filename,
		FileSize:    file.Size,
		Description: ctx.PostForm("description"),
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&evidence).Error; err != nil {
			return err
		}
		return activity.Log(tx, &user.ID, activity.EntityEvidence, evidence.ID, activity.ActionUploaded,
			map[string]interface{}{"finding_id": finding.ID.String(), "file_name": evidence.FileName})
	})
	if err != nil {
		// Orphaned blobs are cleaned up on the next finding delete
		if removeErr := store.Remove(ctx, objectName); removeErr != nil {
			logger.LogError("findings", "UploadEvidence", objectName, removeErr)
		}
		respondError(ctx, err, "")
		return
	}

	respondSuccess(ctx, http.StatusCreated, evidence)
}

// DownloadEvidence streams an evidence file with its original filename
// @Summary Download evidence
// @Tags findings
// @Produce application/octet-stream
// @Param id path string true "Evidence ID" format(uuid)
// @Security BearerAuth
// @Success 200 {file} binary
// @Failure 404 {object} map[string]string "Evidence not found"
// @Router /findings/evidences/{id}/download [get]
func DownloadEvidence(ctx *gin.Context) {
	evidenceID, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	db := database.DB
	user := middleware.CurrentUser(ctx)

	evidence, err := evidenceWithAccess(db, user, evidenceID)
	if err != nil {
		respondError(ctx, err, "Evidence not found")
		return
	}

	store, err := storage.GetService()
	if err != nil {
		respondError(ctx, err, "")
		return
	}

	reader, err := store.Open(ctx, evidence.FilePath)
	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}
	defer reader.Close()

	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", evidence.FileName))
	ctx.DataFromReader(http.StatusOK, evidence.FileSize, "application/octet-stream", reader, nil)
}

// DeleteEvidence removes an evidence file and its record
// @Summary Delete evidence
// @Tags findings
// @Produce json
// @Param id path string true "Evidence ID" format(uuid)
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "Evidence not found"
// @Router /findings/evidences/{id} [delete]
func DeleteEvidence(ctx *gin.Context) {
	evidenceID, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	db := database.DB
	user := middleware.CurrentUser(ctx)

	evidence, err := evidenceWithAccess(db, user, evidenceID)
	if err != nil {
		respondError(ctx, err, "Evidence not found")
		return
	}

	removeEvidenceFiles(ctx, []models.Evidence{*evidence})

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := activity.Log(tx, &user.ID, activity.EntityEvidence, evidence.ID, activity.ActionDeleted,
			map[string]interface{}{"finding_id": evidence.FindingID.String(), "file_name": evidence.FileName}); err != nil {
			return err
		}
		return tx.Delete(evidence).Error
	})
	if err != nil {
		respondError(ctx, err, "Evidence not found")
		return
	}

	respondSuccess(ctx, http.StatusOK, gin.H{"message": "Evidence deleted successfully"})
}

// evidenceWithAccess loads an evidence record and checks the caller can
// reach its finding. Existence is reported before scope.
func evidenceWithAccess(db *gorm.DB, user *models.User, evidenceID uuid.UUID) (*models.Evidence, error) {
	var evidence models.Evidence
	if err := db.First(&evidence, "id = ?", evidenceID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	if _, err := scope.CheckFindingAccess(db, user, evidence.FindingID); err != nil {
		return nil, err
	}
	return &evidence, nil
}

// GetComments lists a finding's comments oldest first
// @Summary Get finding comments
// @Tags findings
// @Produce json
// @Param id path string true "Finding ID" format(uuid)
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "Finding not found"
// @Router /findings/{id}/comments [get]
func GetComments(ctx *gin.Context) {
	findingID, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	db := database.DB
	user := middleware.CurrentUser(ctx)

	if _, err := scope.CheckFindingAccess(db, user, findingID); err != nil {
		respondError(ctx, err, "Finding not found")
		return
	}

	var comments []models.FindingComment
	if err := db.Preload("User").
		Where("finding_id = ?", findingID).
		Order("created_at ASC").
		Find(&comments).Error; err != nil {
		respondError(ctx, err, "")
		return
	}

	respondSuccess(ctx, http.StatusOK, comments)
}

// CreateComment adds a comment to a finding
// @Summary Comment on finding
// @Description The finding's assignee is notified unless they are the commenter
// @Tags findings
// @Accept json
// @Produce json
// @Param id path string true "Finding ID" format(uuid)
// @Param comment body CreateCommentRequest true "Comment data"
// @Security BearerAuth
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 404 {object} map[string]string "Finding not found"
// @Router /findings/{id}/comments [post]
func CreateComment(ctx *gin.Context) {
	findingID, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	db := database.DB
	user := middleware.CurrentUser(ctx)

	finding, err := scope.CheckFindingAccess(db, user, findingID)
	if err != nil {
		respondError(ctx, err, "Finding not found")
		return
	}

	var req CreateCommentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment := models.FindingComment{
		FindingID: finding.ID,
		UserID:    user.ID,
		Comment:   req.Comment,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&comment).Error; err != nil {
			return err
		}
		if err := activity.Log(tx, &user.ID, activity.EntityFinding, finding.ID, "comment_added",
			map[string]interface{}{"comment_id": comment.ID.String()}); err != nil {
			return err
		}
		return notify.CommentAdded(tx, finding, user.ID)
	})
	if err != nil {
		respondError(ctx, err, "")
		return
	}

	var created models.FindingComment
	if err := db.Preload("User").First(&created, "id = ?", comment.ID).Error; err != nil {
		respondError(ctx, err, "")
		return
	}

	respondSuccess(ctx, http.StatusCreated, created)
}

// DeleteComment removes a comment. Only the author or an admin may delete
// @Summary Delete comment
// @Tags findings
// @Produce json
// @Param id path string true "Comment ID" format(uuid)
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Comment not found"
// @Router /findings/comments/{id} [delete]
func DeleteComment(ctx *gin.Context) {
	commentID, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	db := database.DB
	user := middleware.CurrentUser(ctx)

	var comment models.FindingComment
	if err := db.First(&comment, "id = ?", commentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
			return
		}
		respondError(ctx, err, "")
		return
	}

	if comment.UserID != user.ID && !scope.IsAdmin(user) {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Not enough permissions"})
		return
	}

	if _, err := scope.CheckFindingAccess(db, user, comment.FindingID); err != nil {
		respondError(ctx, err, "Finding not found")
		return
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := activity.Log(tx, &user.ID, activity.EntityFinding, comment.FindingID, "comment_deleted",
			map[string]interface{}{"comment_id": comment.ID.String()}); err != nil {
			return err
		}
		return tx.Delete(&comment).Error
	})
	if err != nil {
		respondError(ctx, err, "")
		return
	}

	respondSuccess(ctx, http.StatusOK, gin.H{"message": "Comment deleted successfully"})
}
