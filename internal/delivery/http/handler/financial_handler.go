package handler

import (
	"encoding/json"
	"net/http"

	"marcha-api/internal/delivery/dto"
	"marcha-api/internal/usecase"
	"marcha-api/pkg/response"
	"marcha-api/pkg/validator"
)

type FinancialHandler struct {
	financialUsecase usecase.FinancialUsecase
	validator        *validator.CustomValidator
}

func NewFinancialHandler(financialUsecase usecase.FinancialUsecase, validator *validator.CustomValidator) *FinancialHandler {
	return &FinancialHandler{
		financialUsecase: financialUsecase,
		validator:        validator,
	}
}

func (h *FinancialHandler) parseFilter(w http.ResponseWriter, r *http.Request) (*dto.FinancialFilterRequest, bool) {
	query := r.URL.Query()
	patientID, ok := queryInt64(r, "patient_id")
	if !ok {
		response.BadRequest(w, "Invalid patient_id")
		return nil, false
	}

	filter := &dto.FinancialFilterRequest{
		Type:      query.Get("type"),
		StartDate: query.Get("start_date"),
		EndDate:   query.Get("end_date"),
		PatientID: patientID,
	}
	if err := h.validator.Validate(filter); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return nil, false
	}
	return filter, true
}

func (h *FinancialHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	filter, ok := h.parseFilter(w, r)
	if !ok {
		return
	}

	result, err := h.financialUsecase.ListTransactions(r.Context(), filter)
	if err != nil {
		writeError(w, err, "Failed to get transactions")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Transactions retrieved successfully", result.Transactions, &response.Meta{Total: int64(result.Total)})
}

func (h *FinancialHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	filter, ok := h.parseFilter(w, r)
	if !ok {
		return
	}

	summary, err := h.financialUsecase.GetSummary(r.Context(), filter)
	if err != nil {
		writeError(w, err, "Failed to get financial summary")
		return
	}

	response.Success(w, http.StatusOK, "Financial summary retrieved successfully", summary)
}

func (h *FinancialHandler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid transaction ID")
		return
	}

	transaction, err := h.financialUsecase.GetTransaction(r.Context(), id)
	if err != nil {
		writeError(w, err, "Failed to get transaction")
		return
	}

	response.Success(w, http.StatusOK, "Transaction retrieved successfully", transaction)
}

func (h *FinancialHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	transaction, err := h.financialUsecase.CreateTransaction(r.Context(), &req)
	if err != nil {
		writeError(w, err, "Failed to create transaction")
		return
	}

	response.Success(w, http.StatusCreated, "Transaction created successfully", transaction)
}

func (h *FinancialHandler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid transaction ID")
		return
	}

	var req dto.UpdateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	transaction, err := h.financialUsecase.UpdateTransaction(r.Context(), id, &req)
	if err != nil {
		writeError(w, err, "Failed to update transaction")
		return
	}

	response.Success(w, http.StatusOK, "Transaction updated successfully", transaction)
}

func (h *FinancialHandler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid transaction ID")
		return
	}

	if err := h.financialUsecase.DeleteTransaction(r.Context(), id); err != nil {
		writeError(w, err, "Failed to delete transaction")
		return
	}

	response.Success(w, http.StatusOK, "Transaction deleted successfully", nil)
}
