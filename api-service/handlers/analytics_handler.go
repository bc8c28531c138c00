package handlers

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"auditgate-backend/api-service/middleware"
	"auditgate-backend/shared/database"
	"auditgate-backend/shared/database/models"
	"auditgate-backend/shared/utils/scope"
)

var auditStatuses = []models.AuditStatus{
	models.AuditStatusPlanning,
	models.AuditStatusInProgress,
	models.AuditStatusCompleted,
	models.AuditStatusCancelled,
}

var findingSeverities = []models.Severity{
	models.SeverityCritical,
	models.SeverityHigh,
	models.SeverityMedium,
	models.SeverityLow,
	models.SeverityInfo,
}

var findingStatuses = []models.FindingStatus{
	models.FindingStatusOpen,
	models.FindingStatusInProgress,
	models.FindingStatusResolved,
	models.FindingStatusClosed,
}

// GetDashboardStats aggregates counts and distributions over the
// caller's visible projects
// @Summary Get dashboard statistics
// @Tags analytics
// @Produce json
// @Param project_id query string false "Limit to one project" format(uuid)
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /analytics/dashboard [get]
func GetDashboardStats(ctx *gin.Context) {
	db := database.DB
	user := middleware.CurrentUser(ctx)

	projectIDs, unrestricted, err := scope.VisibleProjectIDs(db, user)
	if err != nil {
		respondError(ctx, err, "")
		return
	}

	var projectFilter *uuid.UUID
	if raw, exists := ctx.GetQuery("project_id"); exists {
		id, err := uuid.Parse(raw)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project_id"})
			return
		}
		if _, err := scope.CheckProjectAccess(db, user, id); err != nil {
			respondError(ctx, err, "Project not found")
			return
		}
		projectFilter = &id
	}

	auditsQuery := func() *gorm.DB {
		q := db.Model(&models.Audit{})
		if projectFilter != nil {
			return q.Where("project_id = ?", *projectFilter)
		}
		if !unrestricted {
			q = q.Where("project_id IN ?", emptySafe(projectIDs))
		}
		return q
	}
	findingsQuery := func() *gorm.DB {
		q := db.Model(&models.Finding{}).
			Joins("JOIN audits ON audits.id = findings.audit_id")
		if projectFilter != nil {
			return q.Where("audits.project_id = ?", *projectFilter)
		}
		if !unrestricted {
			q = q.Where("audits.project_id IN ?", emptySafe(projectIDs))
		}
		return q
	}

	var totalProjects int64
	if unrestricted {
		if err := db.Model(&models.Project{}).Count(&totalProjects).Error; err != nil {
			respondError(ctx, err, "")
			return
		}
	} else {
		totalProjects = int64(len(projectIDs))
	}

	var totalAudits, totalFindings int64
	if err := auditsQuery().Count(&totalAudits).Error; err != nil {
		respondError(ctx, err, "")
		return
	}
	if err := findingsQuery().Count(&totalFindings).Error; err != nil {
		respondError(ctx, err, "")
		return
	}

	auditStatusDist := map[string]int64{}
	for _, status := range auditStatuses {
		var count int64
		if err := auditsQuery().Where("status = ?", status).Count(&count).Error; err != nil {
			respondError(ctx, err, "")
			return
		}
		auditStatusDist[string(status)] = count
	}

	severityDist := map[string]int64{}
	for _, severity := range findingSeverities {
		var count int64
		if err := findingsQuery().Where("findings.severity = ?", severity).Count(&count).Error; err != nil {
			respondError(ctx, err, "")
			return
		}
		severityDist[string(severity)] = count
	}

	statusDist := map[string]int64{}
	for _, status := range findingStatuses {
		var count int64
		if err := findingsQuery().Where("findings.status = ?", status).Count(&count).Error; err != nil {
			respondError(ctx, err, "")
			return
		}
		statusDist[string(status)] = count
	}

	openStatuses := []models.FindingStatus{models.FindingStatusOpen, models.FindingStatusInProgress}

	var openFindings, urgentFindings, myFindings, overdueFindings, dueSoonFindings, completedFindings int64
	if err := findingsQuery().Where("findings.status IN ?", openStatuses).Count(&openFindings).Error; err != nil {
		respondError(ctx, err, "")
		return
	}
	if err := findingsQuery().
		Where("findings.severity IN ?", []models.Severity{models.SeverityCritical, models.SeverityHigh}).
		Where("findings.status IN ?", openStatuses).
		Count(&urgentFindings).Error; err != nil {
		respondError(ctx, err, "")
		return
	}
	if err := findingsQuery().Where("findings.assigned_to_user_id = ?", user.ID).Count(&myFindings).Error; err != nil {
		respondError(ctx, err, "")
		return
	}

	now := time.Now()
	if err := findingsQuery().
		Where("findings.due_date IS NOT NULL AND findings.due_date < ?", now).
		Where("findings.status IN ?", openStatuses).
		Count(&overdueFindings).Error; err != nil {
		respondError(ctx, err, "")
		return
	}
	if err := findingsQuery().
		Where("findings.due_date IS NOT NULL AND findings.due_date > ? AND findings.due_date <= ?", now, now.Add(72*time.Hour)).
		Where("findings.status IN ?", openStatuses).
		Count(&dueSoonFindings).Error; err != nil {
		respondError(ctx, err, "")
		return
	}
	if err := findingsQuery().Where("findings.status = ?", models.FindingStatusResolved).Count(&completedFindings).Error; err != nil {
		respondError(ctx, err, "")
		return
	}

	completionRate := 0.0
	if totalFindings > 0 {
		completionRate = math.Round(float64(completedFindings)/float64(totalFindings)*10000) / 100
	}

	respondSuccess(ctx, http.StatusOK, gin.H{
		"total_projects":            totalProjects,
		"total_audits":              totalAudits,
		"total_findings":            totalFindings,
		"open_findings":             openFindings,
		"urgent_findings":           urgentFindings,
		"my_findings":               myFindings,
		"overdue_findings":          overdueFindings,
		"due_soon_findings":         dueSoonFindings,
		"completion_rate":           completionRate,
		"audit_status_distribution": auditStatusDist,
		"severity_distribution":     severityDist,
		"status_distribution":       statusDist,
	})
}

// timelinePoint is one day of the findings-created series.
type timelinePoint struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// GetFindingsTimeline returns findings created per day over a window
// @Summary Get findings timeline
// @Tags analytics
// @Produce json
// @Param days query int false "Window in days (default: 30, max: 365)"
// @Param project_id query string false "Limit to one project" format(uuid)
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /analytics/findings-timeline [get]
func GetFindingsTimeline(ctx *gin.Context) {
	db := database.DB
	user := middleware.CurrentUser(ctx)

	days := 30
	if raw, exists := ctx.GetQuery("days"); exists {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 365 {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid days parameter"})
			return
		}
		days = parsed
	}

	projectIDs, unrestricted, err := scope.VisibleProjectIDs(db, user)
	if err != nil {
		respondError(ctx, err, "")
		return
	}

	dbQuery := db.Model(&models.Finding{}).
		Select("DATE(findings.created_at) AS date, COUNT(findings.id) AS count").
		Joins("JOIN audits ON audits.id = findings.audit_id").
		Where("findings.created_at >= ?", time.Now().AddDate(0, 0, -days))

	if raw, exists := ctx.GetQuery("project_id"); exists {
		id, err := uuid.Parse(raw)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project_id"})
			return
		}
		if _, err := scope.CheckProjectAccess(db, user, id); err != nil {
			respondError(ctx, err, "Project not found")
			return
		}
		dbQuery = dbQuery.Where("audits.project_id = ?", id)
	} else if !unrestricted {
		dbQuery = dbQuery.Where("audits.project_id IN ?", emptySafe(projectIDs))
	}

	var points []timelinePoint
	if err := dbQuery.Group("DATE(findings.created_at)").Order("date ASC").Scan(&points).Error; err != nil {
		respondError(ctx, err, "")
		return
	}
	if points == nil {
		points = []timelinePoint{}
	}

	respondSuccess(ctx, http.StatusOK, points)
}

// emptySafe keeps IN clauses valid when the caller has no visible
// projects; uuid.Nil never matches a stored row.
func emptySafe(ids []uuid.UUID) []uuid.UUID {
	if len(ids) == 0 {
		return []uuid.UUID{uuid.Nil}
	}
	return ids
}
