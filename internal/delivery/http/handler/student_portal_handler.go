package handler

import (
	"net/http"

	"marcha-api/internal/delivery/http/middleware"
	"marcha-api/internal/usecase"
	"marcha-api/pkg/response"
)

type StudentPortalHandler struct {
	portalUsecase usecase.StudentPortalUsecase
}

func NewStudentPortalHandler(portalUsecase usecase.StudentPortalUsecase) *StudentPortalHandler {
	return &StudentPortalHandler{
		portalUsecase: portalUsecase,
	}
}

// GetPortal returns the gamification view of a patient. Students may only read their own.
func (h *StudentPortalHandler) GetPortal(w http.ResponseWriter, r *http.Request) {
	patientID, ok := pathID(r, "patientId")
	if !ok {
		response.BadRequest(w, "Invalid patient ID")
		return
	}

	if !middleware.IsStaff(r) {
		callerID, _ := middleware.GetPatientIDFromContext(r.Context())
		if callerID != patientID {
			response.Forbidden(w, "You can only access your own portal")
			return
		}
	}

	portal, err := h.portalUsecase.GetPortal(r.Context(), patientID)
	if err != nil {
		writeError(w, err, "Failed to get student portal")
		return
	}

	response.Success(w, http.StatusOK, "Student portal retrieved successfully", portal)
}
