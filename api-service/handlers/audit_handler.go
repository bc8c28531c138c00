package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"auditgate-backend/api-service/middleware"
	"auditgate-backend/shared/database"
	"auditgate-backend/shared/database/models"
	"auditgate-backend/shared/services/activity"
	"auditgate-backend/shared/services/notify"
	"auditgate-backend/shared/utils/i18n"
	"auditgate-backend/shared/utils/query"
	"auditgate-backend/shared/utils/scope"
)

// CreateAuditRequest represents request body for creating an audit.
// When template_id is set, the template's items are materialized into
// findings in the requested language.
type CreateAuditRequest struct {
	Name        string               `json:"name" binding:"required"`
	Description string               `json:"description"`
	Standard    models.AuditStandard `json:"standard" binding:"required"`
	ProjectID   uuid.UUID            `json:"project_id" binding:"required"`
	AuditDate   *time.Time           `json:"audit_date"`
	Status      models.AuditStatus   `json:"status"`
	TemplateID  *uuid.UUID           `json:"template_id"`
	Language    string               `json:"language"`
}

// UpdateAuditRequest represents request body for updating an audit
type UpdateAuditRequest struct {
	Name        *string               `json:"name"`
	Description *string               `json:"description"`
	Standard    *models.AuditStandard `json:"standard"`
	AuditDate   *time.Time            `json:"audit_date"`
	Status      *models.AuditStatus   `json:"status"`
}

// CopyAuditRequest represents request body for copying an audit
type CopyAuditRequest struct {
	NewName string `json:"new_name" binding:"required"`
}

// GetAudits retrieves audits visible to the caller
// @Summary Get audits
// @Description Audits are visible through their project's scope
// @Tags audits
// @Produce json
// @Param page query int false "Page number (default: 1)"
// @Param limit query int false "Items per page (default: 20)"
// @Param search query string false "Search term across name and description"
// @Param filters[project_id] query string false "Filter by project ID"
// @Param filters[status] query string false "Filter by status"
// @Param filters[standard] query string false "Filter by standard"
// @Param sort[field] query string false "Sort field (name, audit_date, created_at)"
// @Param sort[order] query string false "Sort order (asc, desc)"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /audits [get]
func GetAudits(ctx *gin.Context) {
	db := database.DB
	user := middleware.CurrentUser(ctx)
	params := query.ParseQueryParams(ctx)

	dbQuery := db.Model(&models.Audit{})

	if raw, ok := params.Filters["project_id"]; ok {
		projectID, err := uuid.Parse(raw)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project_id format"})
			return
		}
		if _, err := scope.CheckProjectAccess(db, user, projectID); err != nil {
			respondError(ctx, err, "Project not found")
			return
		}
		dbQuery = dbQuery.Where("project_id = ?", projectID)
	} else {
		ids, unrestricted, err := scope.VisibleProjectIDs(db, user)
		if err != nil {
			respondError(ctx, err, "")
			return
		}
		if !unrestricted {
			if len(ids) == 0 {
				respondList(ctx, []models.Audit{}, query.BuildPaginationResponse(params.Page, params.Limit, 0))
				return
			}
			dbQuery = dbQuery.Where("project_id IN ?", ids)
		}
	}

	dbQuery = query.ApplyFilters(dbQuery, params.Filters, map[string]string{
		"status":   "status",
		"standard": "standard",
	})
	dbQuery = query.ApplySearch(dbQuery, params.Search, []string{"name", "description"})
	dbQuery = query.ApplySort(dbQuery, params.Sort, map[string]string{
		"name":       "name",
		"audit_date": "audit_date",
		"created_at": "created_at",
	})

	var total int64
	if err := dbQuery.Count(&total).Error; err != nil {
		respondError(ctx, err, "")
		return
	}

	var audits []models.Audit
	if err := query.ApplyPagination(dbQuery, params.Page, params.Limit).Find(&audits).Error; err != nil {
		respondError(ctx, err, "")
		return
	}

	respondList(ctx, audits, query.BuildPaginationResponse(params.Page, params.Limit, total))
}

// GetAudit retrieves a single audit
// @Summary Get audit by ID
// @Tags audits
// @Produce json
// @Param id path string true "Audit ID" format(uuid)
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Audit not found"
// @Router /audits/{id} [get]
func GetAudit(ctx *gin.Context) {
	auditID, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	db := database.DB
	user := middleware.CurrentUser(ctx)

	audit, err := scope.CheckAuditAccess(db, user, auditID)
	if err != nil {
		respondError(ctx, err, "Audit not found")
		return
	}

	respondSuccess(ctx, http.StatusOK, audit)
}

// CreateAudit creates an audit, optionally seeding findings from a template
// @Summary Create audit
// @Description With template_id the template's items become findings, with bilingual fields resolved to the requested language
// @Tags audits
// @Accept json
// @Produce json
// @Param audit body CreateAuditRequest true "Audit"
// @Security BearerAuth
// @Success 201 {object} map[string]interface{}
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Project not found"
// @Router /audits [post]
func CreateAudit(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)

	var req CreateAuditRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := database.DB

	if _, err := scope.CheckProjectAccess(db, user, req.ProjectID); err != nil {
		respondError(ctx, err, "Project not found")
		return
	}

	status := req.Status
	if status == "" {
		status = models.AuditStatusPlanning
	}

	audit := models.Audit{
		Name:        req.Name,
		Description: req.Description,
		Standard:    req.Standard,
		ProjectID:   req.ProjectID,
		AuditDate:   req.AuditDate,
		Status:      status,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&audit).Error; err != nil {
			return err
		}
		if err := activity.Log(tx, &user.ID, activity.EntityAudit, audit.ID, activity.ActionCreated,
			map[string]interface{}{"name": audit.Name, "standard": string(audit.Standard), "status": string(audit.Status)}); err != nil {
			return err
		}

		if req.TemplateID != nil {
			return seedFindingsFromTemplate(tx, user, &audit, *req.TemplateID, req.Language)
		}
		return nil
	})
	if err != nil {
		respondError(ctx, err, "")
		return
	}

	respondSuccess(ctx, http.StatusCreated, audit)
}

// seedFindingsFromTemplate materializes a template's items into
// findings of the new audit. A missing template is skipped silently,
// matching the create contract where template seeding is best effort.
func seedFindingsFromTemplate(tx *gorm.DB, user *models.User, audit *models.Audit, templateID uuid.UUID, language string) error {
	var template models.Template
	err := tx.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("order_number ASC")
	}).First(&template, "id = ?", templateID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil
		}
		return err
	}

	lang := language
	if lang != "tr" && lang != "en" {
		lang = "tr"
	}

	count := 0
	for _, item := range template.Items {
		finding := models.Finding{
			AuditID:          audit.ID,
			Title:            i18n.Field(lang, item.DefaultTitle, item.DefaultTitleEn),
			Description:      i18n.Field(lang, item.DefaultDescription, item.DefaultDescriptionEn),
			ControlReference: item.ControlReference,
			Severity:         item.DefaultSeverity,
			Status:           item.DefaultStatus,
			Recommendation:   i18n.Field(lang, item.DefaultRecommendation, item.DefaultRecommendationEn),
		}
		if err := tx.Create(&finding).Error; err != nil {
			return err
		}
		count++
	}

	return activity.Log(tx, &user.ID, activity.EntityAudit, audit.ID, "findings_created_from_template",
		map[string]interface{}{"template_id": templateID.String(), "findings_count": count})
}

// UpdateAudit updates an audit with field-level change tracking
// @Summary Update audit
// @Description Status changes notify every user assigned to the audit's project
// @Tags audits
// @Accept json
// @Produce json
// @Param id path string true "Audit ID" format(uuid)
// @Param audit body UpdateAuditRequest true "Fields to update"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Audit not found"
// @Router /audits/{id} [put]
func UpdateAudit(ctx *gin.Context) {
	auditID, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	db := database.DB
	user := middleware.CurrentUser(ctx)

	audit, err := scope.CheckAuditAccess(db, user, auditID)
	if err != nil {
		respondError(ctx, err, "Audit not found")
		return
	}

	var req UpdateAuditRequest
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

	if req.Name != nil {
		track("name", audit.Name, *req.Name)
	}
	if req.Description != nil {
		track("description", audit.Description, *req.Description)
	}
	if req.Standard != nil {
		track("standard", string(audit.Standard), string(*req.Standard))
	}
	if req.AuditDate != nil && (audit.AuditDate == nil || !audit.AuditDate.Equal(*req.AuditDate)) {
		updates["audit_date"] = *req.AuditDate
		changes["audit_date"] = map[string]interface{}{"old": audit.AuditDate, "new": *req.AuditDate}
	}
	statusChanged := false
	if req.Status != nil && *req.Status != audit.Status {
		track("status", string(audit.Status), string(*req.Status))
		statusChanged = true
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(audit).Updates(updates).Error; err != nil {
			return err
		}
		if err := activity.Log(tx, &user.ID, activity.EntityAudit, audit.ID, activity.ActionUpdated,
			map[string]interface{}{"changes": changes}); err != nil {
			return err
		}
		if statusChanged {
			audit.Status = *req.Status
			return notify.AuditStatusChanged(tx, audit, user.ID)
		}
		return nil
	})
	if err != nil {
		respondError(ctx, err, "Audit not found")
		return
	}

	respondSuccess(ctx, http.StatusOK, audit)
}

// DeleteAudit deletes an audit with its findings, comments and evidence rows
// @Summary Delete audit
// @Tags audits
// @Produce json
// @Param id path string true "Audit ID" format(uuid)
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Audit not found"
// @Router /audits/{id} [delete]
func DeleteAudit(ctx *gin.Context) {
	auditID, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	db := database.DB
	user := middleware.CurrentUser(ctx)

	audit, err := scope.CheckAuditAccess(db, user, auditID)
	if err != nil {
		respondError(ctx, err, "Audit not found")
		return
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := activity.Log(tx, &user.ID, activity.EntityAudit, audit.ID, activity.ActionDeleted,
			map[string]interface{}{"name": audit.Name}); err != nil {
			return err
		}

		var findingIDs []uuid.UUID
		if err := tx.Model(&models.Finding{}).Where("audit_id = ?", audit.ID).Pluck("id", &findingIDs).Error; err != nil {
			return err
		}
		if len(findingIDs) > 0 {
			var evidences []models.Evidence
			if err := tx.Where("finding_id IN ?", findingIDs).Find(&evidences).Error; err != nil {
				return err
			}
			removeEvidenceFiles(ctx, evidences)

			if err := tx.Where("finding_id IN ?", findingIDs).Delete(&models.Evidence{}).Error; err != nil {
				return err
			}
			if err := tx.Where("finding_id IN ?", findingIDs).Delete(&models.FindingComment{}).Error; err != nil {
				return err
			}
			if err := tx.Where("audit_id = ?", audit.ID).Delete(&models.Finding{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(audit).Error
	})
	if err != nil {
		respondError(ctx, err, "Audit not found")
		return
	}

	respondSuccess(ctx, http.StatusOK, gin.H{"message": "Audit deleted successfully"})
}

// CopyAudit copies an audit with its findings into the same project
// @Summary Copy audit
// @Description The copy starts in planning status. Findings keep their assignment and due date; comments and evidence are not copied
// @Tags audits
// @Accept json
// @Produce json
// @Param id path string true "Source audit ID" format(uuid)
// @Param copy body CopyAuditRequest true "New audit name"
// @Security BearerAuth
// @Success 201 {object} map[string]interface{}
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Audit not found"
// @Router /audits/{id}/copy [post]
func CopyAudit(ctx *gin.Context) {
	auditID, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	db := database.DB
	user := middleware.CurrentUser(ctx)

	source, err := scope.CheckAuditAccess(db, user, auditID)
	if err != nil {
		respondError(ctx, err, "Audit not found")
		return
	}

	var req CopyAuditRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	duplicate := models.Audit{
		Name:        req.NewName,
		Description: source.Description,
		Standard:    source.Standard,
		ProjectID:   source.ProjectID,
		AuditDate:   source.AuditDate,
		Status:      models.AuditStatusPlanning,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&duplicate).Error; err != nil {
			return err
		}
		if err := activity.Log(tx, &user.ID, activity.EntityAudit, duplicate.ID, activity.ActionCopied,
			map[string]interface{}{"source_audit_id": source.ID.String(), "source_name": source.Name}); err != nil {
			return err
		}

		var findings []models.Finding
		if err := tx.Where("audit_id = ?", source.ID).Find(&findings).Error; err != nil {
			return err
		}
		for _, finding := range findings {
			copied := models.Finding{
				AuditID:          duplicate.ID,
				Title:            finding.Title,
				Description:      finding.Description,
				ControlReference: finding.ControlReference,
				Severity:         finding.Severity,
				Status:           finding.Status,
				Recommendation:   finding.Recommendation,
				AssignedToUserID: finding.AssignedToUserID,
				DueDate:          finding.DueDate,
			}
			if err := tx.Create(&copied).Error; err != nil {
				return err
			}
		}
		if len(findings) > 0 {
			return activity.Log(tx, &user.ID, activity.EntityAudit, duplicate.ID, "findings_copied",
				map[string]interface{}{"findings_count": len(findings)})
		}
		return nil
	})
	if err != nil {
		respondError(ctx, err, "")
		return
	}

	respondSuccess(ctx, http.StatusCreated, duplicate)
}
