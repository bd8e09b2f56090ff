package handler

import (
	"encoding/json"
	"net/http"

	"marcha-api/internal/delivery/dto"
	"marcha-api/internal/usecase"
	"marcha-api/pkg/response"
	"marcha-api/pkg/validator"
)

type AthleteHandler struct {
	athleteUsecase usecase.AthleteUsecase
	validator      *validator.CustomValidator
}

func NewAthleteHandler(athleteUsecase usecase.AthleteUsecase, validator *validator.CustomValidator) *AthleteHandler {
	return &AthleteHandler{
		athleteUsecase: athleteUsecase,
		validator:      validator,
	}
}

func (h *AthleteHandler) CreateAthlete(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAthleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	athlete, err := h.athleteUsecase.CreateAthlete(r.Context(), &req)
	if err != nil {
		writeError(w, err, "Failed to create athlete")
		return
	}

	response.Success(w, http.StatusCreated, "Athlete created successfully", athlete)
}

func (h *AthleteHandler) GetAthlete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid athlete ID")
		return
	}

	athlete, err := h.athleteUsecase.GetAthlete(r.Context(), id)
	if err != nil {
		writeError(w, err, "Failed to get athlete")
		return
	}

	response.Success(w, http.StatusOK, "Athlete retrieved successfully", athlete)
}

func (h *AthleteHandler) GetScoreHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid athlete ID")
		return
	}

	history, err := h.athleteUsecase.GetScoreHistory(r.Context(), id)
	if err != nil {
		writeError(w, err, "Failed to get score history")
		return
	}

	response.Success(w, http.StatusOK, "Score history retrieved successfully", history)
}

func (h *AthleteHandler) AssignHouse(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid athlete ID")
		return
	}

	var req dto.AssignHouseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	athlete, err := h.athleteUsecase.AssignHouse(r.Context(), id, &req)
	if err != nil {
		writeError(w, err, "Failed to assign house")
		return
	}

	response.Success(w, http.StatusOK, "Athlete assigned to house successfully", athlete)
}

func (h *AthleteHandler) LinkPatient(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid athlete ID")
		return
	}

	var req dto.LinkPatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	athlete, err := h.athleteUsecase.LinkPatient(r.Context(), id, &req)
	if err != nil {
		writeError(w, err, "Failed to link patient")
		return
	}

	response.Success(w, http.StatusOK, "Athlete linked to patient successfully", athlete)
}
