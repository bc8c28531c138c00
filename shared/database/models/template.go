package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Severity of a finding or template item default.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
	SeverityInfo     Severity = "info"
)

// FindingStatus of a finding or template item default.
type FindingStatus string

const (
	FindingStatusOpen       FindingStatus = "open"
	FindingStatusInProgress FindingStatus = "in_progress"
	FindingStatusResolved   FindingStatus = "resolved"
	FindingStatusClosed     FindingStatus = "closed"
)

// Template is a reusable finding checklist. System templates have no
// organization and are immutable; custom templates are owned by exactly
// one organization. Bilingual fields keep the Turkish text in the base
// column and the English variant in the _en column.
type Template struct {
	ID             uuid.UUID     `json:"id" gorm:"type:uuid;primaryKey"`
	Name           string        `json:"name" gorm:"size:300;not null;index"`
	NameEn         string        `json:"name_en" gorm:"size:300"`
	Description    string        `json:"description" gorm:"type:text"`
	DescriptionEn  string        `json:"description_en" gorm:"type:text"`
	Standard       AuditStandard `json:"standard" gorm:"type:varchar(30);not null"`
	OrganizationID *uuid.UUID    `json:"organization_id" gorm:"type:uuid;index"` // nil for system templates
	IsSystem       bool          `json:"is_system" gorm:"not null;default:false"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`

	// Relations
	Organization *Organization  `json:"organization,omitempty" gorm:"foreignKey:OrganizationID"`
	Items        []TemplateItem `json:"items,omitempty" gorm:"foreignKey:TemplateID"`
}

func (t *Template) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// ErrSystemTemplateProtected guards system templates at the storage
// layer so no code path can mutate them, regardless of what the API
// layer checks.
var ErrSystemTemplateProtected = errors.New("Sistem şablonları düzenlenemez")

func (t *Template) BeforeUpdate(tx *gorm.DB) error {
	return forbidSystemTemplate(tx, t.ID)
}

func (t *Template) BeforeDelete(tx *gorm.DB) error {
	return forbidSystemTemplate(tx, t.ID)
}

func forbidSystemTemplate(tx *gorm.DB, templateID uuid.UUID) error {
	if templateID == uuid.Nil {
		return nil
	}
	var isSystem bool
	err := tx.Session(&gorm.Session{NewDB: true, SkipHooks: true}).
		Model(&Template{}).
		Where("id = ?", templateID).
		Pluck("is_system", &isSystem).Error
	if err != nil {
		return err
	}
	if isSystem {
		return ErrSystemTemplateProtected
	}
	return nil
}

// TemplateItem is one checklist entry, ordered by OrderNumber within
// its template.
type TemplateItem struct {
	ID                      uuid.UUID     `json:"id" gorm:"type:uuid;primaryKey"`
	TemplateID              uuid.UUID     `json:"template_id" gorm:"type:uuid;not null;index"`
	OrderNumber             int           `json:"order_number" gorm:"not null"`
	ControlReference        string        `json:"control_reference" gorm:"size:100"` // e.g. "A.5.1.1"
	DefaultTitle            string        `json:"default_title" gorm:"size:500;not null"`
	DefaultTitleEn          string        `json:"default_title_en" gorm:"size:500"`
	DefaultDescription      string        `json:"default_description" gorm:"type:text"`
	DefaultDescriptionEn    string        `json:"default_description_en" gorm:"type:text"`
	DefaultSeverity         Severity      `json:"default_severity" gorm:"type:varchar(20);not null;default:'medium'"`
	DefaultStatus           FindingStatus `json:"default_status" gorm:"type:varchar(20);not null;default:'open'"`
	DefaultRecommendation   string        `json:"default_recommendation" gorm:"type:text"`
	DefaultRecommendationEn string        `json:"default_recommendation_en" gorm:"type:text"`
	CreatedAt               time.Time     `json:"created_at"`
	UpdatedAt               time.Time     `json:"updated_at"`
}

func (ti *TemplateItem) BeforeCreate(tx *gorm.DB) error {
	if ti.ID == uuid.Nil {
		ti.ID = uuid.New()
	}
	return nil
}

func (ti *TemplateItem) BeforeUpdate(tx *gorm.DB) error {
	return forbidSystemTemplate(tx, ti.TemplateID)
}

func (ti *TemplateItem) BeforeDelete(tx *gorm.DB) error {
	return forbidSystemTemplate(tx, ti.TemplateID)
}
