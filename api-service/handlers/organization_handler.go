package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"auditgate-backend/api-service/middleware"
	"auditgate-backend/shared/database"
	"auditgate-backend/shared/database/models"
	"auditgate-backend/shared/services/activity"
	"auditgate-backend/shared/utils/query"
)

// CreateOrganizationRequest represents request body for creating an organization
type CreateOrganizationRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	LogoURL     string `json:"logo_url"`
}

// UpdateOrganizationRequest represents request body for updating an organization
type UpdateOrganizationRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	LogoURL     *string `json:"logo_url"`
	IsActive    *bool   `json:"is_active"`
}

// GetOrganizations retrieves organizations visible to the caller
// @Summary Get organizations
// @Description Platform admins see all organizations, everyone else only their own
// @Tags organizations
// @Produce json
// @Param page query int false "Page number (default: 1)"
// @Param limit query int false "Items per page (default: 20)"
// @Param search query string false "Search term across name and description"
// @Param sort[field] query string false "Sort field (name, created_at, updated_at)"
// @Param sort[order] query string false "Sort order (asc, desc)"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /organizations [get]
func GetOrganizations(ctx *gin.Context) {
	db := database.DB
	user := middleware.CurrentUser(ctx)
	params := query.ParseQueryParams(ctx)

	dbQuery := db.Model(&models.Organization{})

	if user.Role != models.RolePlatformAdmin {
		if user.OrganizationID == nil {
			respondList(ctx, []models.Organization{}, query.BuildPaginationResponse(params.Page, params.Limit, 0))
			return
		}
		dbQuery = dbQuery.Where("id = ?", *user.OrganizationID)
	}

	dbQuery = query.ApplySearch(dbQuery, params.Search, []string{"name", "description"})
	dbQuery = query.ApplySort(dbQuery, params.Sort, map[string]string{
		"name":       "name",
		"created_at": "created_at",
		"updated_at": "updated_at",
	})

	var total int64
	if err := dbQuery.Count(&total).Error; err != nil {
		respondError(ctx, err, "")
		return
	}

	var organizations []models.Organization
	if err := query.ApplyPagination(dbQuery, params.Page, params.Limit).Find(&organizations).Error; err != nil {
		respondError(ctx, err, "")
		return
	}

	respondList(ctx, organizations, query.BuildPaginationResponse(params.Page, params.Limit, total))
}

// GetOrganization retrieves a single organization
// @Summary Get organization by ID
// @Tags organizations
// @Produce json
// @Param id path string true "Organization ID" format(uuid)
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Organization not found"
// @Router /organizations/{id} [get]
func GetOrganization(ctx *gin.Context) {
	orgID, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	db := database.DB
	user := middleware.CurrentUser(ctx)

	var org models.Organization
	if err := db.First(&org, "id = ?", orgID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Organization not found"})
			return
		}
		respondError(ctx, err, "")
		return
	}

	if user.Role != models.RolePlatformAdmin && (user.OrganizationID == nil || *user.OrganizationID != orgID) {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Not enough permissions"})
		return
	}

	respondSuccess(ctx, http.StatusOK, org)
}

// CreateOrganization creates a new organization
// @Summary Create organization
// @Description Platform admin only
// @Tags organizations
// @Accept json
// @Produce json
// @Param organization body CreateOrganizationRequest true "Organization"
// @Security BearerAuth
// @Success 201 {object} map[string]interface{}
// @Failure 403 {object} map[string]string "Forbidden"
// @Router /organizations [post]
func CreateOrganization(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)
	if user.Role != models.RolePlatformAdmin {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Platform admin access required"})
		return
	}

	var req CreateOrganizationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	org := models.Organization{
		Name:        req.Name,
		Description: req.Description,
		LogoURL:     req.LogoURL,
		IsActive:    true,
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&org).Error; err != nil {
			return err
		}
		return activity.Log(tx, &user.ID, activity.EntityOrganization, org.ID, activity.ActionCreated,
			map[string]interface{}{"name": org.Name})
	})
	if err != nil {
		respondError(ctx, err, "")
		return
	}

	respondSuccess(ctx, http.StatusCreated, org)
}

// UpdateOrganization updates an organization
// @Summary Update organization
// @Description Platform admin updates any organization, org admin only their own
// @Tags organizations
// @Accept json
// @Produce json
// @Param id path string true "Organization ID" format(uuid)
// @Param organization body UpdateOrganizationRequest true "Fields to update"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Organization not found"
// @Router /organizations/{id} [put]
func UpdateOrganization(ctx *gin.Context) {
	orgID, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	db := database.DB
	user := middleware.CurrentUser(ctx)

	var org models.Organization
	if err := db.First(&org, "id = ?", orgID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Organization not found"})
			return
		}
		respondError(ctx, err, "")
		return
	}

	allowed := user.Role == models.RolePlatformAdmin ||
		(user.Role == models.RoleOrgAdmin && user.OrganizationID != nil && *user.OrganizationID == orgID)
	if !allowed {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Not enough permissions"})
		return
	}

	var req UpdateOrganizationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	pairs := map[string][2]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
		pairs["name"] = [2]interface{}{org.Name, *req.Name}
	}
	if req.Description != nil {
		updates["description"] = *req.Description
		pairs["description"] = [2]interface{}{org.Description, *req.Description}
	}
	if req.LogoURL != nil {
		updates["logo_url"] = *req.LogoURL
		pairs["logo_url"] = [2]interface{}{org.LogoURL, *req.LogoURL}
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
		pairs["is_active"] = [2]interface{}{org.IsActive, *req.IsActive}
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(&org).Updates(updates).Error; err != nil {
				return err
			}
		}
		return activity.Log(tx, &user.ID, activity.EntityOrganization, org.ID, activity.ActionUpdated,
			map[string]interface{}{"changes": activity.Changes(pairs)})
	})
	if err != nil {
		respondError(ctx, err, "Organization not found")
		return
	}

	respondSuccess(ctx, http.StatusOK, org)
}

// DeleteOrganization deletes an organization and everything it owns
// @Summary Delete organization
// @Description Platform admin only. Removes the organization's users, projects and custom templates
// @Tags organizations
// @Produce json
// @Param id path string true "Organization ID" format(uuid)
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Organization not found"
// @Router /organizations/{id} [delete]
func DeleteOrganization(ctx *gin.Context) {
	orgID, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	db := database.DB
	user := middleware.CurrentUser(ctx)
	if user.Role != models.RolePlatformAdmin {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Platform admin access required"})
		return
	}

	var org models.Organization
	if err := db.First(&org, "id = ?", orgID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Organization not found"})
			return
		}
		respondError(ctx, err, "")
		return
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		var projects []models.Project
		if err := tx.Where("organization_id = ?", orgID).Find(&projects).Error; err != nil {
			return err
		}
		for _, project := range projects {
			if err := deleteProjectCascade(ctx, tx, &project); err != nil {
				return err
			}
		}

		if err := tx.Where("organization_id = ?", orgID).Delete(&models.User{}).Error; err != nil {
			return err
		}
		// Custom templates only; system templates have no organization.
		if err := deleteOrganizationTemplates(tx, orgID); err != nil {
			return err
		}
		if err := tx.Delete(&org).Error; err != nil {
			return err
		}
		return activity.Log(tx, &user.ID, activity.EntityOrganization, org.ID, activity.ActionDeleted,
			map[string]interface{}{"name": org.Name})
	})
	if err != nil {
		respondError(ctx, err, "Organization not found")
		return
	}

	respondSuccess(ctx, http.StatusOK, gin.H{"message": "Organization deleted successfully"})
}

func deleteOrganizationTemplates(tx *gorm.DB, orgID interface{}) error {
	var templates []models.Template
	if err := tx.Where("organization_id = ?", orgID).Find(&templates).Error; err != nil {
		return err
	}
	for _, template := range templates {
		if err := tx.Where("template_id = ?", template.ID).Delete(&models.TemplateItem{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&template).Error; err != nil {
			return err
		}
	}
	return nil
}

func updatedFieldNames(updates map[string]interface{}) []string {
	names := make([]string, 0, len(updates))
	for name := range updates {
		names = append(names, name)
	}
	return names
}
