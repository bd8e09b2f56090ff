package entity

import (
	"time"

	"gorm.io/datatypes"
)

// AuditLog represents a workflow audit trail entry
type AuditLog struct {
	ID        int64             `gorm:"primaryKey;autoIncrement" json:"id"`
	ActorID   *int64            `gorm:"index" json:"actor_id,omitempty"`
	Action    string            `gorm:"type:varchar(100);not null;index" json:"action"`
	Metadata  datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt time.Time         `gorm:"autoCreateTime;index" json:"created_at"`

	// Relationships
	Actor *Patient `gorm:"foreignKey:ActorID" json:"actor,omitempty"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

// Common audit actions
const (
	AuditActionUserLogin          = "user.login"
	AuditActionUserLogout         = "user.logout"
	AuditActionAppointmentCreate  = "appointment.create"
	AuditActionAppointmentConfirm = "appointment.confirm"
	AuditActionAppointmentUpdate  = "appointment.update"
	AuditActionAppointmentDelete  = "appointment.delete"
	AuditActionScoreAward         = "score.award"
	AuditActionDataReset          = "data.reset"
)
