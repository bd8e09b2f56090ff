package converter

import (
	"marcha-api/internal/delivery/dto"
	"marcha-api/internal/domain/entity"
)

// AuditLogToResponse flattens the actor to a name. Entries written by CLI
// commands or by since-deleted patients have no actor.
func AuditLogToResponse(log *entity.AuditLog) *dto.AuditLogResponse {
	if log == nil {
		return nil
	}

	resp := &dto.AuditLogResponse{
		ID:        log.ID,
		ActorID:   log.ActorID,
		Action:    log.Action,
		Metadata:  log.Metadata,
		CreatedAt: log.CreatedAt,
	}
	if log.Actor != nil {
		resp.ActorName = log.Actor.Name
	}
	if resp.Metadata == nil {
		resp.Metadata = map[string]interface{}{}
	}

	return resp
}

func AuditLogsToResponses(logs []entity.AuditLog) []dto.AuditLogResponse {
	responses := make([]dto.AuditLogResponse, 0, len(logs))
	for i := range logs {
		responses = append(responses, *AuditLogToResponse(&logs[i]))
	}
	return responses
}
