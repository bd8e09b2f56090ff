package handler

import (
	"encoding/json"
	"net/http"

	"marcha-api/internal/delivery/dto"
	"marcha-api/internal/usecase"
	"marcha-api/pkg/response"
	"marcha-api/pkg/validator"
)

type ScoringHandler struct {
	scoringUsecase usecase.ScoringUsecase
	validator      *validator.CustomValidator
}

func NewScoringHandler(scoringUsecase usecase.ScoringUsecase, validator *validator.CustomValidator) *ScoringHandler {
	return &ScoringHandler{
		scoringUsecase: scoringUsecase,
		validator:      validator,
	}
}

func (h *ScoringHandler) ListRules(w http.ResponseWriter, r *http.Request) {
	result, err := h.scoringUsecase.ListRules(r.Context())
	if err != nil {
		writeError(w, err, "Failed to get scoring rules")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Scoring rules retrieved successfully", result.Rules, &response.Meta{Total: int64(result.Total)})
}

func (h *ScoringHandler) CreateRule(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	rule, err := h.scoringUsecase.CreateRule(r.Context(), &req)
	if err != nil {
		writeError(w, err, "Failed to create scoring rule")
		return
	}

	response.Success(w, http.StatusCreated, "Scoring rule created successfully", rule)
}

func (h *ScoringHandler) DeleteRule(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid rule ID")
		return
	}

	if err := h.scoringUsecase.DeactivateRule(r.Context(), id); err != nil {
		writeError(w, err, "Failed to deactivate scoring rule")
		return
	}

	response.Success(w, http.StatusOK, "Scoring rule deactivated successfully", nil)
}

func (h *ScoringHandler) AwardScore(w http.ResponseWriter, r *http.Request) {
	var req dto.AwardScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	score, err := h.scoringUsecase.AwardScore(r.Context(), &req)
	if err != nil {
		writeError(w, err, "Failed to award score")
		return
	}

	response.Success(w, http.StatusCreated, "Score awarded successfully", score)
}
