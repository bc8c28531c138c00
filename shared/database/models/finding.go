package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Finding struct {
	ID               uuid.UUID     `json:"id" gorm:"type:uuid;primaryKey"`
	AuditID          uuid.UUID     `json:"audit_id" gorm:"type:uuid;not null;index"`
	Title            string        `json:"title" gorm:"size:500;not null;index"`
	Description      string        `json:"description" gorm:"type:text"`
	ControlReference string        `json:"control_reference" gorm:"size:100"`
	Severity         Severity      `json:"severity" gorm:"type:varchar(20);not null;default:'medium'"`
	Status           FindingStatus `json:"status" gorm:"type:varchar(20);not null;default:'open'"`
	Recommendation   string        `json:"recommendation" gorm:"type:text"`
	AssignedToUserID *uuid.UUID    `json:"assigned_to_user_id" gorm:"type:uuid;index"`
	DueDate          *time.Time    `json:"due_date" gorm:"index"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`

	// Relations
	Audit      *Audit           `json:"audit,omitempty" gorm:"foreignKey:AuditID"`
	AssignedTo *User            `json:"assigned_to,omitempty" gorm:"foreignKey:AssignedToUserID"`
	Evidences  []Evidence       `json:"evidences,omitempty" gorm:"foreignKey:FindingID"`
	Comments   []FindingComment `json:"comments,omitempty" gorm:"foreignKey:FindingID"`
}

func (f *Finding) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

// Evidence is a stored attachment on a finding. FilePath holds the
// generated object name in evidence storage, never the user-supplied
// filename.
type Evidence struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	FindingID   uuid.UUID `json:"finding_id" gorm:"type:uuid;not null;index"`
	FilePath    string    `json:"file_path" gorm:"not null"`
	FileName    string    `json:"file_name" gorm:"not null"`
	FileSize    int64     `json:"file_size"`
	Description string    `json:"description" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
}

func (e *Evidence) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

func (Evidence) TableName() string {
	return "evidences"
}

type FindingComment struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	FindingID uuid.UUID `json:"finding_id" gorm:"type:uuid;not null;index"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;not null"`
	Comment   string    `json:"comment" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

func (fc *FindingComment) BeforeCreate(tx *gorm.DB) error {
	if fc.ID == uuid.Nil {
		fc.ID = uuid.New()
	}
	return nil
}
