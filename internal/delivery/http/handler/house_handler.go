package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"marcha-api/internal/delivery/dto"
	"marcha-api/internal/usecase"
	"marcha-api/pkg/response"
	"marcha-api/pkg/validator"
)

// multipartOverhead leaves room for form fields and boundaries around an upload
const multipartOverhead = 1 << 20

type HouseHandler struct {
	houseUsecase   usecase.HouseUsecase
	validator      *validator.CustomValidator
	maxUploadBytes int64
}

func NewHouseHandler(houseUsecase usecase.HouseUsecase, validator *validator.CustomValidator, maxUploadBytes int64) *HouseHandler {
	return &HouseHandler{
		houseUsecase:   houseUsecase,
		validator:      validator,
		maxUploadBytes: maxUploadBytes,
	}
}

func (h *HouseHandler) ListHouses(w http.ResponseWriter, r *http.Request) {
	result, err := h.houseUsecase.ListHouses(r.Context())
	if err != nil {
		writeError(w, err, "Failed to get houses")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Houses retrieved successfully", result.Houses, &response.Meta{Total: int64(result.Total)})
}

func (h *HouseHandler) GetHouse(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid house ID")
		return
	}

	house, err := h.houseUsecase.GetHouse(r.Context(), id)
	if err != nil {
		writeError(w, err, "Failed to get house")
		return
	}

	response.Success(w, http.StatusOK, "House retrieved successfully", house)
}

// CreateHouse accepts either a JSON body or a multipart form with
// name, color and an optional "crest" image.
func (h *HouseHandler) CreateHouse(w http.ResponseWriter, r *http.Request) {
	var (
		req   dto.CreateHouseRequest
		crest io.Reader
	)

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes+multipartOverhead)
		if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
			response.BadRequest(w, "Invalid multipart form")
			return
		}
		req.Name = r.FormValue("name")
		req.Color = r.FormValue("color")

		file, _, err := r.FormFile("crest")
		switch {
		case err == nil:
			defer file.Close()
			crest = file
		case err != http.ErrMissingFile:
			response.BadRequest(w, "Invalid crest file")
			return
		}
	} else if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	house, err := h.houseUsecase.CreateHouse(r.Context(), &req, crest)
	if err != nil {
		writeError(w, err, "Failed to create house")
		return
	}

	response.Success(w, http.StatusCreated, "House created successfully", house)
}

func (h *HouseHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid house ID")
		return
	}

	dashboard, err := h.houseUsecase.GetDashboard(r.Context(), id)
	if err != nil {
		writeError(w, err, "Failed to get house dashboard")
		return
	}

	response.Success(w, http.StatusOK, "House dashboard retrieved successfully", dashboard)
}

func (h *HouseHandler) GetAthleteRanking(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid house ID")
		return
	}

	ranking, err := h.houseUsecase.GetAthleteRanking(r.Context(), id)
	if err != nil {
		writeError(w, err, "Failed to get athlete ranking")
		return
	}

	response.Success(w, http.StatusOK, "Athlete ranking retrieved successfully", ranking)
}

func (h *HouseHandler) GetCupRanking(w http.ResponseWriter, r *http.Request) {
	ranking, err := h.houseUsecase.GetCupRanking(r.Context())
	if err != nil {
		writeError(w, err, "Failed to get cup ranking")
		return
	}

	response.Success(w, http.StatusOK, "Cup ranking retrieved successfully", ranking)
}
