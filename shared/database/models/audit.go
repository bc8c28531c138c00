package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditStandard is the compliance standard an audit is run against.
type AuditStandard string

const (
	StandardISO27001   AuditStandard = "ISO27001"
	StandardPCIDSS     AuditStandard = "PCI_DSS"
	StandardKVKK       AuditStandard = "KVKK"
	StandardGDPR       AuditStandard = "GDPR"
	StandardNIST       AuditStandard = "NIST"
	StandardCIS        AuditStandard = "CIS"
	StandardSOC2       AuditStandard = "SOC2"
	StandardOWASPTop10 AuditStandard = "OWASP_TOP10"
	StandardOWASPASVS  AuditStandard = "OWASP_ASVS"
	StandardOWASPAPI   AuditStandard = "OWASP_API"
	StandardOWASPMob   AuditStandard = "OWASP_MOBILE"
	StandardISO27017   AuditStandard = "ISO27017"
	StandardISO27018   AuditStandard = "ISO27018"
	StandardHIPAA      AuditStandard = "HIPAA"
	StandardCOBIT      AuditStandard = "COBIT"
	StandardENISA      AuditStandard = "ENISA"
	StandardCMMC       AuditStandard = "CMMC"
	StandardFedRAMP    AuditStandard = "FEDRAMP"
	StandardITIL       AuditStandard = "ITIL"
	StandardOther      AuditStandard = "OTHER"
)

// AuditStatus values; transitions are unrestricted.
type AuditStatus string

const (
	AuditStatusPlanning   AuditStatus = "planning"
	AuditStatusInProgress AuditStatus = "in_progress"
	AuditStatusCompleted  AuditStatus = "completed"
	AuditStatusCancelled  AuditStatus = "cancelled"
)

type Audit struct {
	ID          uuid.UUID     `json:"id" gorm:"type:uuid;primaryKey"`
	Name        string        `json:"name" gorm:"size:200;not null;index"`
	Description string        `json:"description" gorm:"type:text"`
	Standard    AuditStandard `json:"standard" gorm:"type:varchar(30);not null"`
	ProjectID   uuid.UUID     `json:"project_id" gorm:"type:uuid;not null;index"`
	AuditDate   *time.Time    `json:"audit_date"`
	Status      AuditStatus   `json:"status" gorm:"type:varchar(20);not null;default:'planning';index"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`

	// Relations
	Project  *Project  `json:"project,omitempty" gorm:"foreignKey:ProjectID"`
	Findings []Finding `json:"findings,omitempty" gorm:"foreignKey:AuditID"`
}

func (a *Audit) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
