package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReportTarget names the kind of entity a report is filed against.
type ReportTarget string

const (
	ReportTargetUser    ReportTarget = "user"
	ReportTargetPost    ReportTarget = "post"
	ReportTargetComment ReportTarget = "comment"
)

// ReportStatus is the moderation lifecycle of a report.
type ReportStatus string

const (
	ReportOpen      ReportStatus = "open"
	ReportResolved  ReportStatus = "resolved"
	ReportDismissed ReportStatus = "dismissed"
)

// Report is an append-mostly moderation trail entity.
type Report struct {
	ID         uuid.UUID    `json:"id" gorm:"type:char(36);primaryKey"`
	ReporterID uuid.UUID    `json:"reporter_id" gorm:"type:char(36);not null;index"`
	TargetType ReportTarget `json:"target_type" gorm:"size:20;not null"`
	TargetID   uuid.UUID    `json:"target_id" gorm:"type:char(36);not null;index"`
	Reason     string       `json:"reason" gorm:"size:100;not null"`
	Details    string       `json:"details" gorm:"type:text"`
	Status     ReportStatus `json:"status" gorm:"size:20;not null;default:'open';index"`
	ResolvedBy *uuid.UUID   `json:"resolved_by,omitempty" gorm:"type:char(36)"`
	ResolvedAt *time.Time   `json:"resolved_at,omitempty"`
	CreatedAt  time.Time    `json:"created_at"`
}

// BeforeCreate sets UUID before creating the record.
func (r *Report) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// AuditLog records an administrative action. Rows are append-only.
type AuditLog struct {
	ID         uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	ActorID    uuid.UUID `json:"actor_id" gorm:"type:char(36);not null;index"`
	Action     string    `json:"action" gorm:"size:100;not null"`
	TargetType string    `json:"target_type" gorm:"size:20"`
	TargetID   string    `json:"target_id" gorm:"size:36"`
	Detail     string    `json:"detail" gorm:"type:text"`
	CreatedAt  time.Time `json:"created_at"`
}

// BeforeCreate sets UUID before creating the record.
func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
