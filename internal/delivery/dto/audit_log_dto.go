package dto

import (
	"time"

	"gorm.io/datatypes"
)

// Request DTOs

type AuditLogFilterRequest struct {
	Action  string `json:"action" validate:"omitempty,max=100"`
	ActorID int64  `json:"actor_id"`
	Since   string `json:"since" validate:"omitempty,date"` // Format: YYYY-MM-DD
	Limit   int    `json:"limit" validate:"omitempty,min=1,max=500"`
	Offset  int    `json:"offset" validate:"omitempty,min=0"`
}

// Response DTOs

type AuditLogResponse struct {
	ID        int64             `json:"id"`
	ActorID   *int64            `json:"actor_id,omitempty"`
	ActorName string            `json:"actor_name,omitempty"`
	Action    string            `json:"action"`
	Metadata  datatypes.JSONMap `json:"metadata"`
	CreatedAt time.Time         `json:"created_at"`
}

type AuditLogListResponse struct {
	Logs  []AuditLogResponse `json:"logs"`
	Total int64              `json:"total"`
}
