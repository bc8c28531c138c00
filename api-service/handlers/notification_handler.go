package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"auditgate-backend/api-service/middleware"
	"auditgate-backend/shared/database"
	"auditgate-backend/shared/database/models"
	"auditgate-backend/shared/database/models/notification"
	"auditgate-backend/shared/services/notify"
	"auditgate-backend/shared/utils/query"
)

// GetNotifications lists the caller's notifications, newest first
// @Summary Get notifications
// @Tags notifications
// @Produce json
// @Param page query int false "Page number (default: 1)"
// @Param limit query int false "Items per page (default: 20)"
// @Param read query bool false "Filter by read status"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /notifications [get]
func GetNotifications(ctx *gin.Context) {
	db := database.DB
	user := middleware.CurrentUser(ctx)
	params := query.ParseQueryParams(ctx)

	dbQuery := db.Model(&notification.Notification{}).Where("user_id = ?", user.ID)

	if raw, exists := ctx.GetQuery("read"); exists {
		read, err := strconv.ParseBool(raw)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid read filter"})
			return
		}
		dbQuery = dbQuery.Where("read = ?", read)
	}

	var total int64
	if err := dbQuery.Count(&total).Error; err != nil {
		respondError(ctx, err, "")
		return
	}

	var notifications []notification.Notification
	if err := query.ApplyPagination(dbQuery.Order("created_at DESC"), params.Page, params.Limit).
		Find(&notifications).Error; err != nil {
		respondError(ctx, err, "")
		return
	}

	respondList(ctx, notifications, query.BuildPaginationResponse(params.Page, params.Limit, total))
}

// GetUnreadCount returns the caller's unread notification count
// @Summary Get unread notification count
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /notifications/unread/count [get]
func GetUnreadCount(ctx *gin.Context) {
	db := database.DB
	user := middleware.CurrentUser(ctx)

	var count int64
	if err := db.Model(&notification.Notification{}).
		Where("user_id = ? AND read = ?", user.ID, false).
		Count(&count).Error; err != nil {
		respondError(ctx, err, "")
		return
	}

	respondSuccess(ctx, http.StatusOK, gin.H{"count": count})
}

// MarkNotificationRead marks one of the caller's notifications as read
// @Summary Mark notification as read
// @Tags notifications
// @Produce json
// @Param id path string true "Notification ID" format(uuid)
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Notification not found"
// @Router /notifications/{id}/read [put]
func MarkNotificationRead(ctx *gin.Context) {
	notificationID, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	db := database.DB
	user := middleware.CurrentUser(ctx)

	entry, ok := ownNotification(ctx, db, notificationID, user)
	if !ok {
		return
	}

	if err := db.Model(entry).Update("read", true).Error; err != nil {
		respondError(ctx, err, "")
		return
	}
	entry.Read = true

	respondSuccess(ctx, http.StatusOK, entry)
}

// MarkAllNotificationsRead marks every unread notification of the caller
// @Summary Mark all notifications as read
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /notifications/read-all [put]
func MarkAllNotificationsRead(ctx *gin.Context) {
	db := database.DB
	user := middleware.CurrentUser(ctx)

	result := db.Model(&notification.Notification{}).
		Where("user_id = ? AND read = ?", user.ID, false).
		Update("read", true)
	if result.Error != nil {
		respondError(ctx, result.Error, "")
		return
	}

	respondSuccess(ctx, http.StatusOK, gin.H{"updated": result.RowsAffected})
}

// DeleteNotification deletes one of the caller's notifications
// @Summary Delete notification
// @Tags notifications
// @Produce json
// @Param id path string true "Notification ID" format(uuid)
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Notification not found"
// @Router /notifications/{id} [delete]
func DeleteNotification(ctx *gin.Context) {
	notificationID, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	db := database.DB
	user := middleware.CurrentUser(ctx)

	entry, ok := ownNotification(ctx, db, notificationID, user)
	if !ok {
		return
	}

	if err := db.Delete(entry).Error; err != nil {
		respondError(ctx, err, "")
		return
	}

	respondSuccess(ctx, http.StatusOK, gin.H{"message": "Notification deleted successfully"})
}

// CheckDueDates runs the due-date sweep on demand
// @Summary Trigger due date check
// @Description Creates due-soon and overdue notifications for assigned findings. Platform admin only
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]string "Forbidden"
// @Router /notifications/check-due-dates [post]
func CheckDueDates(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)
	if user.Role != models.RolePlatformAdmin {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Not enough permissions"})
		return
	}

	created, err := notify.CheckDueDates(database.DB)
	if err != nil {
		respondError(ctx, err, "")
		return
	}

	respondSuccess(ctx, http.StatusOK, gin.H{
		"message": "Due date check completed",
		"created": created,
	})
}

// NotificationStream upgrades the request to a websocket for live
// notification delivery to the authenticated user.
// @Summary Notification websocket
// @Tags notifications
// @Security BearerAuth
// @Router /notifications/ws [get]
func NotificationStream(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)
	notify.GetWebSocketManager().HandleConnection(ctx, user.ID.String())
}

// ownNotification loads a notification and rejects callers that do not
// own it. Existence is reported before ownership.
func ownNotification(ctx *gin.Context, db *gorm.DB, id interface{}, user *models.User) (*notification.Notification, bool) {
	var entry notification.Notification
	if err := db.First(&entry, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
			return nil, false
		}
		respondError(ctx, err, "")
		return nil, false
	}
	if entry.UserID != user.ID {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Not enough permissions"})
		return nil, false
	}
	return &entry, true
}
