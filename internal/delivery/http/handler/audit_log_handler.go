package handler

import (
	"net/http"
	"strconv"

	"marcha-api/internal/delivery/dto"
	"marcha-api/internal/usecase"
	"marcha-api/pkg/response"
	"marcha-api/pkg/validator"
)

type AuditLogHandler struct {
	auditLogUsecase usecase.AuditLogUsecase
	validator       *validator.CustomValidator
}

func NewAuditLogHandler(auditLogUsecase usecase.AuditLogUsecase, validator *validator.CustomValidator) *AuditLogHandler {
	return &AuditLogHandler{
		auditLogUsecase: auditLogUsecase,
		validator:       validator,
	}
}

func (h *AuditLogHandler) GetAuditLog(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid audit log ID")
		return
	}

	auditLog, err := h.auditLogUsecase.GetAuditLog(r.Context(), id)
	if err != nil {
		writeError(w, err, "Failed to get audit log")
		return
	}

	response.Success(w, http.StatusOK, "Audit log retrieved successfully", auditLog)
}

// ListAuditLogs supports ?action=appointment.&actor_id=3&since=2025-01-01&limit=50&offset=0
func (h *AuditLogHandler) ListAuditLogs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	actorID, ok := queryInt64(r, "actor_id")
	if !ok {
		response.BadRequest(w, "Invalid actor_id")
		return
	}

	filter := dto.AuditLogFilterRequest{
		Action:  query.Get("action"),
		ActorID: actorID,
		Since:   query.Get("since"),
	}
	for name, dst := range map[string]*int{"limit": &filter.Limit, "offset": &filter.Offset} {
		if raw := query.Get(name); raw != "" {
			v, err := strconv.Atoi(raw)
			if err != nil {
				response.BadRequest(w, "Invalid "+name)
				return
			}
			*dst = v
		}
	}

	if err := h.validator.Validate(&filter); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	result, err := h.auditLogUsecase.ListAuditLogs(r.Context(), &filter)
	if err != nil {
		writeError(w, err, "Failed to get audit logs")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Audit logs retrieved successfully", result.Logs, &response.Meta{Total: result.Total})
}
