package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"auditgate-backend/api-service/middleware"
	"auditgate-backend/shared/database"
	"auditgate-backend/shared/database/models"
	"auditgate-backend/shared/services/activity"
	utils "auditgate-backend/shared/utils/auth"
	"auditgate-backend/shared/utils/query"
	"auditgate-backend/shared/utils/scope"
)

// CreateUserRequest represents request body for creating a user
type CreateUserRequest struct {
	Email          string          `json:"email" binding:"required,email"`
	Password       string          `json:"password" binding:"required,min=6"`
	FullName       string          `json:"full_name" binding:"required"`
	Role           models.UserRole `json:"role" binding:"required"`
	OrganizationID *uuid.UUID      `json:"organization_id"`
	IsActive       *bool           `json:"is_active"`
}

// UpdateUserRequest represents request body for updating a user
type UpdateUserRequest struct {
	Email          *string          `json:"email"`
	FullName       *string          `json:"full_name"`
	Role           *models.UserRole `json:"role"`
	OrganizationID *uuid.UUID       `json:"organization_id"`
	IsActive       *bool            `json:"is_active"`
}

// GetUsers retrieves users visible to the caller
// @Summary Get users
// @Description Platform admins see all users, org admins their organization's, auditors only themselves
// @Tags users
// @Produce json
// @Param page query int false "Page number (default: 1)"
// @Param limit query int false "Items per page (default: 20)"
// @Param search query string false "Search term across email and full name"
// @Param filters[organization_id] query string false "Filter by organization ID (platform admin only)"
// @Param filters[role] query string false "Filter by role"
// @Param sort[field] query string false "Sort field (email, full_name, created_at)"
// @Param sort[order] query string false "Sort order (asc, desc)"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /users [get]
func GetUsers(ctx *gin.Context) {
	db := database.DB
	user := middleware.CurrentUser(ctx)
	params := query.ParseQueryParams(ctx)

	dbQuery := db.Model(&models.User{})

	switch user.Role {
	case models.RolePlatformAdmin:
		dbQuery = query.ApplyFilters(dbQuery, params.Filters, map[string]string{
			"organization_id": "organization_id",
			"role":            "role",
		})
	case models.RoleOrgAdmin:
		if user.OrganizationID == nil {
			respondList(ctx, []models.User{}, query.BuildPaginationResponse(params.Page, params.Limit, 0))
			return
		}
		dbQuery = dbQuery.Where("organization_id = ?", *user.OrganizationID)
		dbQuery = query.ApplyFilters(dbQuery, params.Filters, map[string]string{"role": "role"})
	default:
		dbQuery = dbQuery.Where("id = ?", user.ID)
	}

	dbQuery = query.ApplySearch(dbQuery, params.Search, []string{"email", "full_name"})
	dbQuery = query.ApplySort(dbQuery, params.Sort, map[string]string{
		"email":      "email",
		"full_name":  "full_name",
		"created_at": "created_at",
	})

	var total int64
	if err := dbQuery.Count(&total).Error; err != nil {
		respondError(ctx, err, "")
		return
	}

	var users []models.User
	if err := query.ApplyPagination(dbQuery, params.Page, params.Limit).Find(&users).Error; err != nil {
		respondError(ctx, err, "")
		return
	}

	respondList(ctx, users, query.BuildPaginationResponse(params.Page, params.Limit, total))
}

// GetUser retrieves a single user
// @Summary Get user by ID
// @Tags users
// @Produce json
// @Param id path string true "User ID" format(uuid)
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "User not found"
// @Router /users/{id} [get]
func GetUser(ctx *gin.Context) {
	userID, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	db := database.DB
	actor := middleware.CurrentUser(ctx)

	var target models.User
	if err := db.First(&target, "id = ?", userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		respondError(ctx, err, "")
		return
	}

	if err := scope.CheckUserRecordAccess(actor, &target, false); err != nil {
		respondError(ctx, err, "User not found")
		return
	}

	respondSuccess(ctx, http.StatusOK, target)
}

// CreateUser creates a new user
// @Summary Create user
// @Description Org admins may only create non-platform-admin users inside their own organization
// @Tags users
// @Accept json
// @Produce json
// @Param user body CreateUserRequest true "User"
// @Security BearerAuth
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string "Email already registered"
// @Failure 403 {object} map[string]string "Forbidden"
// @Router /users [post]
func CreateUser(ctx *gin.Context) {
	actor := middleware.CurrentUser(ctx)
	if !scope.IsAdmin(actor) {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Organization admin or platform admin access required"})
		return
	}

	var req CreateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.Role.IsValid() {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
		return
	}

	db := database.DB

	var existing models.User
	if err := db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Email already registered"})
		return
	}

	if actor.Role == models.RoleOrgAdmin {
		if req.OrganizationID == nil || !scope.SameOrganization(actor, *req.OrganizationID) {
			ctx.JSON(http.StatusForbidden, gin.H{"error": "Cannot create user in different organization"})
			return
		}
		if req.Role == models.RolePlatformAdmin {
			ctx.JSON(http.StatusForbidden, gin.H{"error": "Cannot create platform admin"})
			return
		}
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	user := models.User{
		Email:          req.Email,
		HashedPassword: hashed,
		FullName:       req.FullName,
		Role:           req.Role,
		OrganizationID: req.OrganizationID,
		IsActive:       isActive,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		return activity.Log(tx, &actor.ID, activity.EntityUser, user.ID, activity.ActionCreated,
			map[string]interface{}{"email": user.Email, "role": string(user.Role)})
	})
	if err != nil {
		respondError(ctx, err, "")
		return
	}

	respondSuccess(ctx, http.StatusCreated, user)
}

// UpdateUser updates a user
// @Summary Update user
// @Description Org admins stay inside their organization and cannot grant the platform admin role
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "User ID" format(uuid)
// @Param user body UpdateUserRequest true "Fields to update"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "User not found"
// @Router /users/{id} [put]
func UpdateUser(ctx *gin.Context) {
	userID, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	actor := middleware.CurrentUser(ctx)
	if !scope.IsAdmin(actor) {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Organization admin or platform admin access required"})
		return
	}

	db := database.DB

	var target models.User
	if err := db.First(&target, "id = ?", userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		respondError(ctx, err, "")
		return
	}

	if actor.Role == models.RoleOrgAdmin {
		if target.OrganizationID == nil || !scope.SameOrganization(actor, *target.OrganizationID) {
			ctx.JSON(http.StatusForbidden, gin.H{"error": "Cannot update user in different organization"})
			return
		}
	}

	var req UpdateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Role != nil {
		if !req.Role.IsValid() {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
			return
		}
		if err := scope.CheckRoleGrant(actor, *req.Role); err != nil {
			respondError(ctx, err, "")
			return
		}
	}

	updates := map[string]interface{}{}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.FullName != nil {
		updates["full_name"] = *req.FullName
	}
	if req.Role != nil {
		updates["role"] = *req.Role
	}
	if req.OrganizationID != nil {
		updates["organization_id"] = *req.OrganizationID
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(&target).Updates(updates).Error; err != nil {
				return err
			}
		}
		return activity.Log(tx, &actor.ID, activity.EntityUser, target.ID, activity.ActionUpdated,
			map[string]interface{}{"fields": updatedFieldNames(updates)})
	})
	if err != nil {
		respondError(ctx, err, "User not found")
		return
	}

	respondSuccess(ctx, http.StatusOK, target)
}

// DeleteUser deletes a user
// @Summary Delete user
// @Description Self-deletion is rejected; org admins stay inside their organization
// @Tags users
// @Produce json
// @Param id path string true "User ID" format(uuid)
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "User not found"
// @Router /users/{id} [delete]
func DeleteUser(ctx *gin.Context) {
	userID, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	actor := middleware.CurrentUser(ctx)
	if !scope.IsAdmin(actor) {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Organization admin or platform admin access required"})
		return
	}

	db := database.DB

	var target models.User
	if err := db.First(&target, "id = ?", userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		respondError(ctx, err, "")
		return
	}

	if target.ID == actor.ID {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "You cannot delete your own account. Please contact an administrator."})
		return
	}

	if actor.Role == models.RoleOrgAdmin {
		if target.OrganizationID == nil || !scope.SameOrganization(actor, *target.OrganizationID) {
			ctx.JSON(http.StatusForbidden, gin.H{"error": "Cannot delete user in different organization"})
			return
		}
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", target.ID).Delete(&models.ProjectAssignment{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&target).Error; err != nil {
			return err
		}
		return activity.Log(tx, &actor.ID, activity.EntityUser, target.ID, activity.ActionDeleted,
			map[string]interface{}{"email": target.Email})
	})
	if err != nil {
		respondError(ctx, err, "User not found")
		return
	}
	scope.InvalidateAssignments(target.ID)

	respondSuccess(ctx, http.StatusOK, gin.H{"message": "User deleted successfully"})
}
