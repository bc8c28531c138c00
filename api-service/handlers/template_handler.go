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
	"auditgate-backend/shared/utils/i18n"
	"auditgate-backend/shared/utils/query"
	"auditgate-backend/shared/utils/scope"
)

// TemplateItemRequest represents one checklist item in template payloads
type TemplateItemRequest struct {
	OrderNumber             int                  `json:"order_number" binding:"required"`
	ControlReference        string               `json:"control_reference"`
	DefaultTitle            string               `json:"default_title" binding:"required"`
	DefaultTitleEn          string               `json:"default_title_en"`
	DefaultDescription      string               `json:"default_description"`
	DefaultDescriptionEn    string               `json:"default_description_en"`
	DefaultSeverity         models.Severity      `json:"default_severity"`
	DefaultStatus           models.FindingStatus `json:"default_status"`
	DefaultRecommendation   string               `json:"default_recommendation"`
	DefaultRecommendationEn string               `json:"default_recommendation_en"`
}

// CreateTemplateRequest represents request body for creating a template.
// is_system is not accepted: user-created templates are never system templates.
type CreateTemplateRequest struct {
	Name           string                `json:"name" binding:"required"`
	NameEn         string                `json:"name_en"`
	Description    string                `json:"description"`
	DescriptionEn  string                `json:"description_en"`
	Standard       models.AuditStandard  `json:"standard" binding:"required"`
	OrganizationID *uuid.UUID            `json:"organization_id"`
	Items          []TemplateItemRequest `json:"items"`
}

// UpdateTemplateRequest represents request body for updating a template
type UpdateTemplateRequest struct {
	Name          *string               `json:"name"`
	NameEn        *string               `json:"name_en"`
	Description   *string               `json:"description"`
	DescriptionEn *string               `json:"description_en"`
	Standard      *models.AuditStandard `json:"standard"`
}

// CopyTemplateRequest represents request body for copying a template
type CopyTemplateRequest struct {
	NewName        string     `json:"new_name"`
	OrganizationID *uuid.UUID `json:"organization_id"`
}

// LocalizedTemplateItem is a template item with bilingual fields
// resolved to one language.
type LocalizedTemplateItem struct {
	ID                    uuid.UUID            `json:"id"`
	TemplateID            uuid.UUID            `json:"template_id"`
	OrderNumber           int                  `json:"order_number"`
	ControlReference      string               `json:"control_reference"`
	DefaultTitle          string               `json:"default_title"`
	DefaultDescription    string               `json:"default_description"`
	DefaultSeverity       models.Severity      `json:"default_severity"`
	DefaultStatus         models.FindingStatus `json:"default_status"`
	DefaultRecommendation string               `json:"default_recommendation"`
	CreatedAt             time.Time            `json:"created_at"`
	UpdatedAt             time.Time            `json:"updated_at"`
}

// LocalizedTemplate is a template with bilingual fields resolved to one
// language.
type LocalizedTemplate struct {
	ID             uuid.UUID               `json:"id"`
	Name           string                  `json:"name"`
	Description    string                  `json:"description"`
	Standard       models.AuditStandard    `json:"standard"`
	OrganizationID *uuid.UUID              `json:"organization_id"`
	IsSystem       bool                    `json:"is_system"`
	CreatedAt      time.Time               `json:"created_at"`
	UpdatedAt      time.Time               `json:"updated_at"`
	Items          []LocalizedTemplateItem `json:"items"`
}

func localizeTemplate(template *models.Template, lang string) LocalizedTemplate {
	out := LocalizedTemplate{
		ID:             template.ID,
		Name:           i18n.Field(lang, template.Name, template.NameEn),
		Description:    i18n.Field(lang, template.Description, template.DescriptionEn),
		Standard:       template.Standard,
		OrganizationID: template.OrganizationID,
		IsSystem:       template.IsSystem,
		CreatedAt:      template.CreatedAt,
		UpdatedAt:      template.UpdatedAt,
		Items:          make([]LocalizedTemplateItem, 0, len(template.Items)),
	}
	for _, item := range template.Items {
		out.Items = append(out.Items, LocalizedTemplateItem{
			ID:                    item.ID,
			TemplateID:            item.TemplateID,
			OrderNumber:           item.OrderNumber,
			ControlReference:      item.ControlReference,
			DefaultTitle:          i18n.Field(lang, item.DefaultTitle, item.DefaultTitleEn),
			DefaultDescription:    i18n.Field(lang, item.DefaultDescription, item.DefaultDescriptionEn),
			DefaultSeverity:       item.DefaultSeverity,
			DefaultStatus:         item.DefaultStatus,
			DefaultRecommendation: i18n.Field(lang, item.DefaultRecommendation, item.DefaultRecommendationEn),
			CreatedAt:             item.CreatedAt,
			UpdatedAt:             item.UpdatedAt,
		})
	}
	return out
}

// templateVisibility narrows a template query to system templates plus
// the caller's organization templates.
func templateVisibility(dbQuery *gorm.DB, user *models.User, orgFilter *uuid.UUID) *gorm.DB {
	if user.Role == models.RolePlatformAdmin {
		if orgFilter != nil {
			return dbQuery.Where("is_system = ? OR organization_id = ?", true, *orgFilter)
		}
		return dbQuery
	}
	if user.OrganizationID != nil {
		return dbQuery.Where("is_system = ? OR organization_id = ?", true, *user.OrganizationID)
	}
	return dbQuery.Where("is_system = ?", true)
}

// GetTemplates retrieves templates visible to the caller
// @Summary Get templates
// @Description System templates are visible to everyone; custom templates only within their organization
// @Tags templates
// @Produce json
// @Param page query int false "Page number (default: 1)"
// @Param limit query int false "Items per page (default: 20)"
// @Param lang query string false "Language code (tr/en)"
// @Param filters[organization_id] query string false "Filter by organization ID (platform admin only)"
// @Param filters[standard] query string false "Filter by standard"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /templates [get]
func GetTemplates(ctx *gin.Context) {
	db := database.DB
	user := middleware.CurrentUser(ctx)
	params := query.ParseQueryParams(ctx)
	lang := i18n.ResolveLanguage(ctx)

	var orgFilter *uuid.UUID
	if raw, ok := params.Filters["organization_id"]; ok {
		if id, err := uuid.Parse(raw); err == nil {
			orgFilter = &id
		}
	}

	dbQuery := templateVisibility(db.Model(&models.Template{}), user, orgFilter)
	dbQuery = query.ApplyFilters(dbQuery, params.Filters, map[string]string{"standard": "standard"})
	dbQuery = query.ApplySort(dbQuery, params.Sort, map[string]string{
		"name":       "name",
		"standard":   "standard",
		"created_at": "created_at",
	})

	var total int64
	if err := dbQuery.Count(&total).Error; err != nil {
		respondError(ctx, err, "")
		return
	}

	var templates []models.Template
	if err := query.ApplyPagination(dbQuery, params.Page, params.Limit).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_number ASC")
		}).Find(&templates).Error; err != nil {
		respondError(ctx, err, "")
		return
	}

	localized := make([]LocalizedTemplate, 0, len(templates))
	for i := range templates {
		localized = append(localized, localizeTemplate(&templates[i], lang))
	}

	respondList(ctx, localized, query.BuildPaginationResponse(params.Page, params.Limit, total))
}

// GetTemplate retrieves a single template
// @Summary Get template by ID
// @Tags templates
// @Produce json
// @Param id path string true "Template ID" format(uuid)
// @Param lang query string false "Language code (tr/en)"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Template not found"
// @Router /templates/{id} [get]
func GetTemplate(ctx *gin.Context) {
	templateID, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	db := database.DB
	user := middleware.CurrentUser(ctx)
	lang := i18n.ResolveLanguage(ctx)

	template, err := scope.CheckTemplateAccess(db, user, templateID)
	if err != nil {
		respondError(ctx, err, "Template not found")
		return
	}

	if err := db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("order_number ASC")
	}).First(template, "id = ?", templateID).Error; err != nil {
		respondError(ctx, err, "Template not found")
		return
	}

	respondSuccess(ctx, http.StatusOK, localizeTemplate(template, lang))
}

// CreateTemplate creates a custom template
// @Summary Create template
// @Description Creates an organization-owned template; the system flag cannot be set through the API
// @Tags templates
// @Accept json
// @Produce json
// @Param template body CreateTemplateRequest true "Template"
// @Security BearerAuth
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string "organization_id is required"
// @Failure 403 {object} map[string]string "Forbidden"
// @Router /templates [post]
func CreateTemplate(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)

	var req CreateTemplateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := database.DB

	var orgID uuid.UUID
	switch user.Role {
	case models.RolePlatformAdmin:
		if req.OrganizationID == nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "organization_id is required"})
			return
		}
		orgID = *req.OrganizationID
	case models.RoleOrgAdmin:
		if user.OrganizationID == nil {
			ctx.JSON(http.StatusForbidden, gin.H{"error": "Not enough permissions"})
			return
		}
		if req.OrganizationID != nil && *req.OrganizationID != *user.OrganizationID {
			ctx.JSON(http.StatusForbidden, gin.H{"error": "Cannot create template for different organization"})
			return
		}
		orgID = *user.OrganizationID
	default:
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Not enough permissions"})
		return
	}

	var org models.Organization
	if err := db.First(&org, "id = ?", orgID).Error; err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Organization not found"})
		return
	}

	template := models.Template{
		Name:           req.Name,
		NameEn:         req.NameEn,
		Description:    req.Description,
		DescriptionEn:  req.DescriptionEn,
		Standard:       req.Standard,
		OrganizationID: &orgID,
		IsSystem:       false,
	}
	for _, item := range req.Items {
		template.Items = append(template.Items, templateItemFromRequest(item))
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&template).Error; err != nil {
			return err
		}
		return activity.Log(tx, &user.ID, activity.EntityTemplate, template.ID, activity.ActionCreated,
			map[string]interface{}{"name": template.Name, "standard": string(template.Standard)})
	})
	if err != nil {
		respondError(ctx, err, "")
		return
	}

	respondSuccess(ctx, http.StatusCreated, template)
}

// UpdateTemplate updates a custom template
// @Summary Update template
// @Description System templates are immutable and reject every update
// @Tags templates
// @Accept json
// @Produce json
// @Param id path string true "Template ID" format(uuid)
// @Param template body UpdateTemplateRequest true "Fields to update"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]string "Forbidden or system template"
// @Failure 404 {object} map[string]string "Template not found"
// @Router /templates/{id} [put]
func UpdateTemplate(ctx *gin.Context) {
	templateID, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	db := database.DB
	user := middleware.CurrentUser(ctx)

	template, err := scope.CheckTemplateAccess(db, user, templateID)
	if err != nil {
		respondError(ctx, err, "Template not found")
		return
	}

	if template.IsSystem {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Sistem şablonu düzenlenemez. Bu şablon varsayılan kontrol listesi olduğu için korunmaktadır."})
		return
	}

	var req UpdateTemplateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.NameEn != nil {
		updates["name_en"] = *req.NameEn
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.DescriptionEn != nil {
		updates["description_en"] = *req.DescriptionEn
	}
	if req.Standard != nil {
		updates["standard"] = *req.Standard
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(template).Updates(updates).Error; err != nil {
				return err
			}
		}
		return activity.Log(tx, &user.ID, activity.EntityTemplate, template.ID, activity.ActionUpdated,
			map[string]interface{}{"fields": updatedFieldNames(updates)})
	})
	if err != nil {
		respondError(ctx, err, "Template not found")
		return
	}

	respondSuccess(ctx, http.StatusOK, template)
}

// DeleteTemplate deletes a custom template with its items
// @Summary Delete template
// @Description System templates are protected and cannot be deleted
// @Tags templates
// @Produce json
// @Param id path string true "Template ID" format(uuid)
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]string "Forbidden or system template"
// @Failure 404 {object} map[string]string "Template not found"
// @Router /templates/{id} [delete]
func DeleteTemplate(ctx *gin.Context) {
	templateID, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	db := database.DB
	user := middleware.CurrentUser(ctx)

	template, err := scope.CheckTemplateAccess(db, user, templateID)
	if err != nil {
		respondError(ctx, err, "Template not found")
		return
	}

	if template.IsSystem {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Sistem şablonu silinemez. Bu şablon varsayılan kontrol listesi olduğu için korunmaktadır."})
		return
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("template_id = ?", template.ID).Delete(&models.TemplateItem{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(template).Error; err != nil {
			return err
		}
		return activity.Log(tx, &user.ID, activity.EntityTemplate, template.ID, activity.ActionDeleted,
			map[string]interface{}{"name": template.Name})
	})
	if err != nil {
		respondError(ctx, err, "Template not found")
		return
	}

	respondSuccess(ctx, http.StatusOK, gin.H{"message": "Template deleted successfully"})
}

// CopyTemplate copies a template, including system templates, into an
// editable custom template
// @Summary Copy template
// @Description The copy is never a system template. Platform admins choose the target organization; everyone else copies into their own
// @Tags templates
// @Accept json
// @Produce json
// @Param id path string true "Source template ID" format(uuid)
// @Param copy body CopyTemplateRequest true "Copy options"
// @Security BearerAuth
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string "organization_id required for system sources"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Template not found"
// @Router /templates/{id}/copy [post]
func CopyTemplate(ctx *gin.Context) {
	templateID, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	db := database.DB
	user := middleware.CurrentUser(ctx)

	var source models.Template
	if err := db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("order_number ASC")
	}).First(&source, "id = ?", templateID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Template not found"})
			return
		}
		respondError(ctx, err, "")
		return
	}

	var req CopyTemplateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var orgID *uuid.UUID
	if user.Role == models.RolePlatformAdmin {
		if req.OrganizationID != nil {
			orgID = req.OrganizationID
		} else {
			orgID = source.OrganizationID
		}
		if source.IsSystem && orgID == nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "organization_id is required when copying system templates"})
			return
		}
	} else {
		if !source.IsSystem && (source.OrganizationID == nil || !scope.SameOrganization(user, *source.OrganizationID)) {
			ctx.JSON(http.StatusForbidden, gin.H{"error": "Not enough permissions"})
			return
		}
		orgID = user.OrganizationID
	}

	if orgID != nil {
		var org models.Organization
		if err := db.First(&org, "id = ?", *orgID).Error; err != nil {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Organization not found"})
			return
		}
	}

	newName := req.NewName
	if newName == "" {
		newName = source.Name + " (Copy)"
	}

	duplicate := models.Template{
		Name:           newName,
		NameEn:         source.NameEn,
		Description:    source.Description,
		DescriptionEn:  source.DescriptionEn,
		Standard:       source.Standard,
		OrganizationID: orgID,
		IsSystem:       false,
	}
	for _, item := range source.Items {
		duplicate.Items = append(duplicate.Items, models.TemplateItem{
			OrderNumber:             item.OrderNumber,
			ControlReference:        item.ControlReference,
			DefaultTitle:            item.DefaultTitle,
			DefaultTitleEn:          item.DefaultTitleEn,
			DefaultDescription:      item.DefaultDescription,
			DefaultDescriptionEn:    item.DefaultDescriptionEn,
			DefaultSeverity:         item.DefaultSeverity,
			DefaultStatus:           item.DefaultStatus,
			DefaultRecommendation:   item.DefaultRecommendation,
			DefaultRecommendationEn: item.DefaultRecommendationEn,
		})
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&duplicate).Error; err != nil {
			return err
		}
		return activity.Log(tx, &user.ID, activity.EntityTemplate, duplicate.ID, activity.ActionCopied,
			map[string]interface{}{"source_template_id": source.ID.String(), "name": duplicate.Name})
	})
	if err != nil {
		respondError(ctx, err, "")
		return
	}

	respondSuccess(ctx, http.StatusCreated, duplicate)
}

// CreateTemplateItem adds an item to a custom template
// @Summary Add template item
// @Tags templates
// @Accept json
// @Produce json
// @Param id path string true "Template ID" format(uuid)
// @Param item body TemplateItemRequest true "Item"
// @Security BearerAuth
// @Success 201 {object} map[string]interface{}
// @Failure 403 {object} map[string]string "Forbidden or system template"
// @Failure 404 {object} map[string]string "Template not found"
// @Router /templates/{id}/items [post]
func CreateTemplateItem(ctx *gin.Context) {
	templateID, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	db := database.DB
	user := middleware.CurrentUser(ctx)

	template, err := scope.CheckTemplateAccess(db, user, templateID)
	if err != nil {
		respondError(ctx, err, "Template not found")
		return
	}
	if template.IsSystem {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Sistem şablonuna öğe eklenemez. Bu şablon varsayılan kontrol listesi olduğu için korunmaktadır."})
		return
	}

	var req TemplateItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item := templateItemFromRequest(req)
	item.TemplateID = template.ID

	if err := db.Create(&item).Error; err != nil {
		respondError(ctx, err, "")
		return
	}

	respondSuccess(ctx, http.StatusCreated, item)
}

// UpdateTemplateItem updates a custom template's item
// @Summary Update template item
// @Tags templates
// @Accept json
// @Produce json
// @Param id path string true "Template ID" format(uuid)
// @Param item_id path string true "Item ID" format(uuid)
// @Param item body TemplateItemRequest true "Item"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]string "Forbidden or system template"
// @Failure 404 {object} map[string]string "Template item not found"
// @Router /templates/{id}/items/{item_id} [put]
func UpdateTemplateItem(ctx *gin.Context) {
	templateID, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}
	itemID, ok := parseUUIDParam(ctx, "item_id")
	if !ok {
		return
	}

	db := database.DB
	user := middleware.CurrentUser(ctx)

	var item models.TemplateItem
	if err := db.First(&item, "id = ? AND template_id = ?", itemID, templateID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Template item not found"})
			return
		}
		respondError(ctx, err, "")
		return
	}

	template, err := scope.CheckTemplateAccess(db, user, item.TemplateID)
	if err != nil {
		respondError(ctx, err, "Template not found")
		return
	}
	if template.IsSystem {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Sistem şablonunun öğeleri düzenlenemez. Bu şablon varsayılan kontrol listesi olduğu için korunmaktadır."})
		return
	}

	var req TemplateItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated := templateItemFromRequest(req)
	updated.ID = item.ID
	updated.TemplateID = item.TemplateID
	updated.CreatedAt = item.CreatedAt

	if err := db.Save(&updated).Error; err != nil {
		respondError(ctx, err, "Template item not found")
		return
	}

	respondSuccess(ctx, http.StatusOK, updated)
}

// DeleteTemplateItem removes a custom template's item
// @Summary Delete template item
// @Tags templates
// @Produce json
// @Param id path string true "Template ID" format(uuid)
// @Param item_id path string true "Item ID" format(uuid)
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]string "Forbidden or system template"
// @Failure 404 {object} map[string]string "Template item not found"
// @Router /templates/{id}/items/{item_id} [delete]
func DeleteTemplateItem(ctx *gin.Context) {
	templateID, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}
	itemID, ok := parseUUIDParam(ctx, "item_id")
	if !ok {
		return
	}

	db := database.DB
	user := middleware.CurrentUser(ctx)

	var item models.TemplateItem
	if err := db.First(&item, "id = ? AND template_id = ?", itemID, templateID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Template item not found"})
			return
		}
		respondError(ctx, err, "")
		return
	}

	template, err := scope.CheckTemplateAccess(db, user, item.TemplateID)
	if err != nil {
		respondError(ctx, err, "Template not found")
		return
	}
	if template.IsSystem {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Sistem şablonunun öğeleri silinemez. Bu şablon varsayılan kontrol listesi olduğu için korunmaktadır."})
		return
	}

	if err := db.Delete(&item).Error; err != nil {
		respondError(ctx, err, "Template item not found")
		return
	}

	respondSuccess(ctx, http.StatusOK, gin.H{"message": "Template item deleted successfully"})
}

func templateItemFromRequest(req TemplateItemRequest) models.TemplateItem {
	severity := req.DefaultSeverity
	if severity == "" {
		severity = models.SeverityMedium
	}
	status := req.DefaultStatus
	if status == "" {
		status = models.FindingStatusOpen
	}
	return models.TemplateItem{
		OrderNumber:             req.OrderNumber,
		ControlReference:        req.ControlReference,
		DefaultTitle:            req.DefaultTitle,
		DefaultTitleEn:          req.DefaultTitleEn,
		DefaultDescription:      req.DefaultDescription,
		DefaultDescriptionEn:    req.DefaultDescriptionEn,
		DefaultSeverity:         severity,
		DefaultStatus:           status,
		DefaultRecommendation:   req.DefaultRecommendation,
		DefaultRecommendationEn: req.DefaultRecommendationEn,
	}
}
