// Package services holds the report projection built on top of the
// persisted audit aggregate.
package services

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"auditgate-backend/shared/database/models"
)

const (
	summarySheet  = "Summary"
	findingsSheet = "Findings"
)

// BuildAuditReport renders an audit with its findings into an xlsx
// workbook. The caller is responsible for access checks.
func BuildAuditReport(db *gorm.DB, auditID interface{}) (*excelize.File, *models.Audit, error) {
	var audit models.Audit
	err := db.Preload("Project.Organization").
		Preload("Findings", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Findings.AssignedTo").
		Preload("Findings.Evidences").
		Preload("Findings.Comments").
		First(&audit, "id = ?", auditID).Error
	if err != nil {
		return nil, nil, err
	}

	f := excelize.NewFile()

	if err := writeSummarySheet(f, &audit); err != nil {
		f.Close()
		return nil, nil, err
	}
	if err := writeFindingsSheet(f, audit.Findings); err != nil {
		f.Close()
		return nil, nil, err
	}

	// The default sheet is replaced by the two report sheets
	f.DeleteSheet("Sheet1")
	if index, err := f.GetSheetIndex(summarySheet); err == nil {
		f.SetActiveSheet(index)
	}

	return f, &audit, nil
}

func writeSummarySheet(f *excelize.File, audit *models.Audit) error {
	if _, err := f.NewSheet(summarySheet); err != nil {
		return err
	}

	projectName := ""
	organizationName := ""
	if audit.Project != nil {
		projectName = audit.Project.Name
		if audit.Project.Organization != nil {
			organizationName = audit.Project.Organization.Name
		}
	}

	auditDate := ""
	if audit.AuditDate != nil {
		auditDate = audit.AuditDate.Format("2006-01-02")
	}

	rows := [][2]interface{}{
		{"Audit", audit.Name},
		{"Description", audit.Description},
		{"Standard", string(audit.Standard)},
		{"Status", string(audit.Status)},
		{"Audit Date", auditDate},
		{"Project", projectName},
		{"Organization", organizationName},
		{"Total Findings", len(audit.Findings)},
		{"Generated At", time.Now().Format("2006-01-02 15:04")},
	}

	severityCounts := map[models.Severity]int{}
	statusCounts := map[models.FindingStatus]int{}
	for _, finding := range audit.Findings {
		severityCounts[finding.Severity]++
		statusCounts[finding.Status]++
	}
	for _, severity := range []models.Severity{
		models.SeverityCritical, models.SeverityHigh, models.SeverityMedium,
		models.SeverityLow, models.SeverityInfo,
	} {
		rows = append(rows, [2]interface{}{fmt.Sprintf("Severity: %s", severity), severityCounts[severity]})
	}
	for _, status := range []models.FindingStatus{
		models.FindingStatusOpen, models.FindingStatusInProgress,
		models.FindingStatusResolved, models.FindingStatusClosed,
	} {
		rows = append(rows, [2]interface{}{fmt.Sprintf("Status: %s", status), statusCounts[status]})
	}

	for i, row := range rows {
		if err := f.SetCellValue(summarySheet, fmt.Sprintf("A%d", i+1), row[0]); err != nil {
			return err
		}
		if err := f.SetCellValue(summarySheet, fmt.Sprintf("B%d", i+1), row[1]); err != nil {
			return err
		}
	}

	return f.SetColWidth(summarySheet, "A", "A", 24)
}

func writeFindingsSheet(f *excelize.File, findings []models.Finding) error {
	if _, err := f.NewSheet(findingsSheet); err != nil {
		return err
	}

	headers := []string{
		"#", "Control Reference", "Title", "Severity", "Status",
		"Assigned To", "Due Date", "Description", "Recommendation",
		"Evidence Count", "Comment Count",
	}
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(findingsSheet, cell, header); err != nil {
			return err
		}
	}

	for i, finding := range findings {
		assignee := ""
		if finding.AssignedTo != nil {
			assignee = finding.AssignedTo.FullName
		}
		dueDate := ""
		if finding.DueDate != nil {
			dueDate = finding.DueDate.Format("2006-01-02")
		}

		values := []interface{}{
			i + 1,
			finding.ControlReference,
			finding.Title,
			string(finding.Severity),
			string(finding.Status),
			assignee,
			dueDate,
			finding.Description,
			finding.Recommendation,
			len(finding.Evidences),
			len(finding.Comments),
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(findingsSheet, cell, value); err != nil {
				return err
			}
		}
	}

	return f.SetColWidth(findingsSheet, "C", "C", 40)
}
