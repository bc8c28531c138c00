package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"auditgate-backend/api-service/middleware"
	"auditgate-backend/shared/database"
	"auditgate-backend/shared/database/models"
	"auditgate-backend/shared/logger"
	"auditgate-backend/shared/services/activity"
	"auditgate-backend/shared/storage"
	"auditgate-backend/shared/utils/query"
	"auditgate-backend/shared/utils/scope"
)

// CreateProjectRequest represents request body for creating a project
type CreateProjectRequest struct {
	Name           string      `json:"name" binding:"required"`
	Description    string      `json:"description"`
	OrganizationID uuid.UUID   `json:"organization_id" binding:"required"`
	UserIDs        []uuid.UUID `json:"user_ids"`
}

// UpdateProjectRequest represents request body for updating a project
type UpdateProjectRequest struct {
	Name        *string      `json:"name"`
	Description *string      `json:"description"`
	UserIDs     *[]uuid.UUID `json:"user_ids"`
}

// CopyProjectRequest represents request body for copying a project
type CopyProjectRequest struct {
	NewName string `json:"new_name" binding:"required"`
}

// GetProjects retrieves projects visible to the caller
// @Summary Get projects
// @Description Platform admins see all projects, org admins their organization's, auditors only assigned ones
// @Tags projects
// @Produce json
// @Param page query int false "Page number (default: 1)"
// @Param limit query int false "Items per page (default: 20)"
// @Param search query string false "Search term across name and description"
// @Param filters[organization_id] query string false "Filter by organization ID"
// @Param sort[field] query string false "Sort field (name, created_at, updated_at)"
// @Param sort[order] query string false "Sort order (asc, desc)"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /projects [get]
func GetProjects(ctx *gin.Context) {
	db := database.DB
	user := middleware.CurrentUser(ctx)
	params := query.ParseQueryParams(ctx)

	dbQuery := db.Model(&models.Project{})

	ids, unrestricted, err := scope.VisibleProjectIDs(db, user)
	if err != nil {
		respondError(ctx, err, "")
		return
	}
	if !unrestricted {
		if len(ids) == 0 {
			respondList(ctx, []models.Project{}, query.BuildPaginationResponse(params.Page, params.Limit, 0))
			return
		}
		dbQuery = dbQuery.Where("id IN ?", ids)
	}

	dbQuery = query.ApplyFilters(dbQuery, params.Filters, map[string]string{
		"organization_id": "organization_id",
	})
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

	var projects []models.Project
	if err := query.ApplyPagination(dbQuery, params.Page, params.Limit).
		Preload("Assignments").Find(&projects).Error; err != nil {
		respondError(ctx, err, "")
		return
	}

	respondList(ctx, projects, query.BuildPaginationResponse(params.Page, params.Limit, total))
}

// GetProject retrieves a single project
// @Summary Get project by ID
// @Tags projects
// @Produce json
// @Param id path string true "Project ID" format(uuid)
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Project not found"
// @Router /projects/{id} [get]
func GetProject(ctx *gin.Context) {
	projectID, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	db := database.DB
	user := middleware.CurrentUser(ctx)

	project, err := scope.CheckProjectAccess(db, user, projectID)
	if err != nil {
		respondError(ctx, err, "Project not found")
		return
	}

	if err := db.Preload("Assignments.User").First(project, "id = ?", projectID).Error; err != nil {
		respondError(ctx, err, "Project not found")
		return
	}

	respondSuccess(ctx, http.StatusOK, project)
}

// CreateProject creates a new project with optional user assignments
// @Summary Create project
// @Description Platform admins create projects anywhere, org admins only in their own organization
// @Tags projects
// @Accept json
// @Produce json
// @Param project body CreateProjectRequest true "Project"
// @Security BearerAuth
// @Success 201 {object} map[string]interface{}
// @Failure 403 {object} map[string]string "Forbidden"
// @Router /projects [post]
func CreateProject(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)

	var req CreateProjectRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	switch user.Role {
	case models.RolePlatformAdmin:
	case models.RoleOrgAdmin:
		if !scope.SameOrganization(user, req.OrganizationID) {
			ctx.JSON(http.StatusForbidden, gin.H{"error": "Cannot create project in different organization"})
			return
		}
	default:
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Not enough permissions"})
		return
	}

	db := database.DB
	project := models.Project{
		Name:           req.Name,
		Description:    req.Description,
		OrganizationID: req.OrganizationID,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&project).Error; err != nil {
			return err
		}
		if err := assignProjectUsers(tx, &project, req.UserIDs); err != nil {
			return err
		}
		return activity.Log(tx, &user.ID, activity.EntityProject, project.ID, activity.ActionCreated,
			map[string]interface{}{"name": project.Name})
	})
	if err != nil {
		respondError(ctx, err, "")
		return
	}

	respondSuccess(ctx, http.StatusCreated, project)
}

// UpdateProject updates a project and optionally replaces its assignments
// @Summary Update project
// @Tags projects
// @Accept json
// @Produce json
// @Param id path string true "Project ID" format(uuid)
// @Param project body UpdateProjectRequest true "Fields to update"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Project not found"
// @Router /projects/{id} [put]
func UpdateProject(ctx *gin.Context) {
	projectID, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	db := database.DB
	user := middleware.CurrentUser(ctx)
	if !scope.IsAdmin(user) {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Not enough permissions"})
		return
	}

	project, err := scope.CheckProjectAccess(db, user, projectID)
	if err != nil {
		respondError(ctx, err, "Project not found")
		return
	}

	var req UpdateProjectRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(project).Updates(updates).Error; err != nil {
				return err
			}
		}
		if req.UserIDs != nil {
			if err := replaceProjectUsers(tx, project, *req.UserIDs); err != nil {
				return err
			}
		}
		return activity.Log(tx, &user.ID, activity.EntityProject, project.ID, activity.ActionUpdated,
			map[string]interface{}{"fields": updatedFieldNames(updates)})
	})
	if err != nil {
		respondError(ctx, err, "Project not found")
		return
	}

	respondSuccess(ctx, http.StatusOK, project)
}

// DeleteProject deletes a project and all data under it
// @Summary Delete project
// @Description Removes the project's evidence files, evidence rows, comments, findings, audits and assignments
// @Tags projects
// @Produce json
// @Param id path string true "Project ID" format(uuid)
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Project not found"
// @Router /projects/{id} [delete]
func DeleteProject(ctx *gin.Context) {
	projectID, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	db := database.DB
	user := middleware.CurrentUser(ctx)
	if !scope.IsAdmin(user) {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Not enough permissions"})
		return
	}

	project, err := scope.CheckProjectAccess(db, user, projectID)
	if err != nil {
		respondError(ctx, err, "Project not found")
		return
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := deleteProjectCascade(ctx, tx, project); err != nil {
			return err
		}
		return activity.Log(tx, &user.ID, activity.EntityProject, project.ID, activity.ActionDeleted,
			map[string]interface{}{"name": project.Name})
	})
	if err != nil {
		respondError(ctx, err, "Project not found")
		return
	}

	respondSuccess(ctx, http.StatusOK, gin.H{"message": "Project deleted successfully"})
}

// CopyProject duplicates a project's name-level data into a new project
// @Summary Copy project
// @Description Creates a new empty project carrying over the source description and organization
// @Tags projects
// @Accept json
// @Produce json
// @Param id path string true "Source project ID" format(uuid)
// @Param copy body CopyProjectRequest true "New project name"
// @Security BearerAuth
// @Success 201 {object} map[string]interface{}
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Project not found"
// @Router /projects/{id}/copy [post]
func CopyProject(ctx *gin.Context) {
	projectID, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	db := database.DB
	user := middleware.CurrentUser(ctx)
	if !scope.IsAdmin(user) {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Not enough permissions"})
		return
	}

	source, err := scope.CheckProjectAccess(db, user, projectID)
	if err != nil {
		respondError(ctx, err, "Project not found")
		return
	}

	var req CopyProjectRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	duplicate := models.Project{
		Name:           req.NewName,
		Description:    source.Description,
		OrganizationID: source.OrganizationID,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&duplicate).Error; err != nil {
			return err
		}
		return activity.Log(tx, &user.ID, activity.EntityProject, duplicate.ID, activity.ActionCopied,
			map[string]interface{}{"source_project_id": source.ID.String(), "name": duplicate.Name})
	})
	if err != nil {
		respondError(ctx, err, "")
		return
	}

	respondSuccess(ctx, http.StatusCreated, duplicate)
}

// assignProjectUsers creates assignments for users that belong to the
// project's organization; others are skipped silently.
func assignProjectUsers(tx *gorm.DB, project *models.Project, userIDs []uuid.UUID) error {
	for _, userID := range userIDs {
		var user models.User
		if err := tx.First(&user, "id = ?", userID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				continue
			}
			return err
		}
		if user.OrganizationID == nil || *user.OrganizationID != project.OrganizationID {
			continue
		}
		assignment := models.ProjectAssignment{ProjectID: project.ID, UserID: userID}
		if err := tx.Create(&assignment).Error; err != nil {
			return err
		}
		scope.InvalidateAssignments(userID)
	}
	return nil
}

// replaceProjectUsers swaps out the full assignment set.
func replaceProjectUsers(tx *gorm.DB, project *models.Project, userIDs []uuid.UUID) error {
	var existing []models.ProjectAssignment
	if err := tx.Where("project_id = ?", project.ID).Find(&existing).Error; err != nil {
		return err
	}
	if err := tx.Where("project_id = ?", project.ID).Delete(&models.ProjectAssignment{}).Error; err != nil {
		return err
	}
	for _, a := range existing {
		scope.InvalidateAssignments(a.UserID)
	}
	return assignProjectUsers(tx, project, userIDs)
}

// deleteProjectCascade removes everything owned by the project, leaf
// tables first. Evidence files on storage are removed best effort; a
// missing blob never blocks the delete.
func deleteProjectCascade(ctx context.Context, tx *gorm.DB, project *models.Project) error {
	var auditIDs []uuid.UUID
	if err := tx.Model(&models.Audit{}).Where("project_id = ?", project.ID).Pluck("id", &auditIDs).Error; err != nil {
		return err
	}

	if len(auditIDs) > 0 {
		var findingIDs []uuid.UUID
		if err := tx.Model(&models.Finding{}).Where("audit_id IN ?", auditIDs).Pluck("id", &findingIDs).Error; err != nil {
			return err
		}

		if len(findingIDs) > 0 {
			var evidences []models.Evidence
			if err := tx.Where("finding_id IN ?", findingIDs).Find(&evidences).Error; err != nil {
				return err
			}
			if store, err := storage.GetService(); err == nil {
				for _, evidence := range evidences {
					if err := store.Remove(ctx, evidence.FilePath); err != nil {
						logger.LogError("projects", "deleteProjectCascade", evidence.FilePath, err)
					}
				}
			}

			if err := tx.Where("finding_id IN ?", findingIDs).Delete(&models.Evidence{}).Error; err != nil {
				return err
			}
			if err := tx.Where("finding_id IN ?", findingIDs).Delete(&models.FindingComment{}).Error; err != nil {
				return err
			}
			if err := tx.Where("audit_id IN ?", auditIDs).Delete(&models.Finding{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("project_id = ?", project.ID).Delete(&models.Audit{}).Error; err != nil {
			return err
		}
	}

	var assignments []models.ProjectAssignment
	if err := tx.Where("project_id = ?", project.ID).Find(&assignments).Error; err != nil {
		return err
	}
	if err := tx.Where("project_id = ?", project.ID).Delete(&models.ProjectAssignment{}).Error; err != nil {
		return err
	}
	for _, a := range assignments {
		scope.InvalidateAssignments(a.UserID)
	}

	return tx.Delete(project).Error
}
