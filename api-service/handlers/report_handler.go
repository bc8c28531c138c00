package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"auditgate-backend/api-service/middleware"
	"auditgate-backend/api-service/services"
	"auditgate-backend/shared/database"
	"auditgate-backend/shared/logger"
	"auditgate-backend/shared/services/activity"
	"auditgate-backend/shared/utils/scope"
)

// ExportAuditReport generates and streams an xlsx report for an audit
// @Summary Export audit report
// @Description Builds a workbook with a summary sheet and the full finding list
// @Tags reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path string true "Audit ID" format(uuid)
// @Security BearerAuth
// @Success 200 {file} binary
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Audit not found"
// @Router /reports/audit/{id}/excel [get]
func ExportAuditReport(ctx *gin.Context) {
	auditID, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	db := database.DB
	user := middleware.CurrentUser(ctx)

	if _, err := scope.CheckAuditAccess(db, user, auditID); err != nil {
		respondError(ctx, err, "Audit not found")
		return
	}

	workbook, audit, err := services.BuildAuditReport(db, auditID)
	if err != nil {
		respondError(ctx, err, "Audit not found")
		return
	}
	defer workbook.Close()

	err = db.Transaction(func(tx *gorm.DB) error {
		return activity.Log(tx, &user.ID, activity.EntityAudit, audit.ID, activity.ActionExported,
			map[string]interface{}{"format": "xlsx", "findings_count": len(audit.Findings)})
	})
	if err != nil {
		respondError(ctx, err, "")
		return
	}

	filename := fmt.Sprintf("denetim_raporu_%s_%s.xlsx", audit.ID, time.Now().Format("20060102"))
	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	ctx.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Status(http.StatusOK)

	if err := workbook.Write(ctx.Writer); err != nil {
		// Headers are already out; the truncated body is the signal
		logger.LogError("reports", "ExportAuditReport", audit.ID.String(), err)
	}
}
