package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"auditgate-backend/api-service/middleware"
	"auditgate-backend/shared/database"
	"auditgate-backend/shared/database/models"
	"auditgate-backend/shared/database/models/notification"
	"auditgate-backend/shared/utils/query"
)

// GetActivityLogs lists activity-trail entries, newest first
// @Summary Get activity logs
// @Description Filtering by another user's ID requires the platform admin role
// @Tags activity
// @Produce json
// @Param page query int false "Page number (default: 1)"
// @Param limit query int false "Items per page (default: 20)"
// @Param filters[entity_type] query string false "Filter by entity type"
// @Param filters[entity_id] query string false "Filter by entity ID"
// @Param filters[action] query string false "Filter by action"
// @Param filters[user_id] query string false "Filter by acting user"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]string "Forbidden"
// @Router /activity [get]
func GetActivityLogs(ctx *gin.Context) {
	db := database.DB
	user := middleware.CurrentUser(ctx)
	params := query.ParseQueryParams(ctx)

	dbQuery := db.Model(&notification.ActivityLog{})

	dbQuery = query.ApplyFilters(dbQuery, params.Filters, map[string]string{
		"entity_type": "entity_type",
		"action":      "action",
	})

	if raw, ok := params.Filters["entity_id"]; ok {
		entityID, err := uuid.Parse(raw)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid entity_id filter"})
			return
		}
		dbQuery = dbQuery.Where("entity_id = ?", entityID)
	}

	if raw, ok := params.Filters["user_id"]; ok {
		actorID, err := uuid.Parse(raw)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user_id filter"})
			return
		}
		if user.Role != models.RolePlatformAdmin && actorID != user.ID {
			ctx.JSON(http.StatusForbidden, gin.H{"error": "Not enough permissions"})
			return
		}
		dbQuery = dbQuery.Where("user_id = ?", actorID)
	}

	var total int64
	if err := dbQuery.Count(&total).Error; err != nil {
		respondError(ctx, err, "")
		return
	}

	var logs []notification.ActivityLog
	if err := query.ApplyPagination(dbQuery.Order("created_at DESC"), params.Page, params.Limit).
		Find(&logs).Error; err != nil {
		respondError(ctx, err, "")
		return
	}

	respondList(ctx, logs, query.BuildPaginationResponse(params.Page, params.Limit, total))
}

// GetEntityActivityLogs lists the trail of a single entity
// @Summary Get activity logs for an entity
// @Tags activity
// @Produce json
// @Param entity_type path string true "Entity type (finding, audit, project, ...)"
// @Param entity_id path string true "Entity ID" format(uuid)
// @Param page query int false "Page number (default: 1)"
// @Param limit query int false "Items per page (default: 20)"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /activity/{entity_type}/{entity_id} [get]
func GetEntityActivityLogs(ctx *gin.Context) {
	entityID, ok := parseUUIDParam(ctx, "entity_id")
	if !ok {
		return
	}
	entityType := ctx.Param("entity_type")

	db := database.DB
	params := query.ParseQueryParams(ctx)

	dbQuery := db.Model(&notification.ActivityLog{}).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID)

	var total int64
	if err := dbQuery.Count(&total).Error; err != nil {
		respondError(ctx, err, "")
		return
	}

	var logs []notification.ActivityLog
	if err := query.ApplyPagination(dbQuery.Order("created_at DESC"), params.Page, params.Limit).
		Find(&logs).Error; err != nil {
		respondError(ctx, err, "")
		return
	}

	respondList(ctx, logs, query.BuildPaginationResponse(params.Page, params.Limit, total))
}
