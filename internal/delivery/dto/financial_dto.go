package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// Request DTOs

type CreateTransactionRequest struct {
	Type          string          `json:"type" validate:"required,oneof=receita despesa"`
	Category      string          `json:"category" validate:"omitempty,max=100"`
	Description   string          `json:"description" validate:"required,notblank,max=255"`
	Amount        decimal.Decimal `json:"amount"`
	DueDate       string          `json:"due_date" validate:"omitempty,date"`
	PaymentDate   string          `json:"payment_date" validate:"omitempty,date"`
	PaymentMethod string          `json:"payment_method" validate:"omitempty,max=50"`
	PatientID     *int64          `json:"patient_id" validate:"omitempty,gt=0"`
	AppointmentID *int64          `json:"appointment_id" validate:"omitempty,gt=0"`
	Notes         string          `json:"notes"`
}

// UpdateTransactionRequest only touches the fields that are present.
// An empty payment_date marks the transaction as pending again.
type UpdateTransactionRequest struct {
	Type          *string          `json:"type" validate:"omitempty,oneof=receita despesa"`
	Category      *string          `json:"category" validate:"omitempty,max=100"`
	Description   *string          `json:"description" validate:"omitempty,notblank,max=255"`
	Amount        *decimal.Decimal `json:"amount"`
	DueDate       *string          `json:"due_date" validate:"omitempty,date"`
	PaymentDate   *string          `json:"payment_date"`
	PaymentMethod *string          `json:"payment_method" validate:"omitempty,max=50"`
	PatientID     *int64           `json:"patient_id" validate:"omitempty,gt=0"`
	Notes         *string          `json:"notes"`
}

type FinancialFilterRequest struct {
	Type      string `json:"type" validate:"omitempty,oneof=receita despesa"`
	StartDate string `json:"start_date" validate:"omitempty,date"`
	EndDate   string `json:"end_date" validate:"omitempty,date"`
	PatientID int64  `json:"patient_id"`
}

// Response DTOs

type TransactionResponse struct {
	ID            int64           `json:"id"`
	Type          string          `json:"type"`
	Category      string          `json:"category,omitempty"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	DueDate       string          `json:"due_date,omitempty"`
	PaymentDate   string          `json:"payment_date,omitempty"`
	PaymentMethod string          `json:"payment_method,omitempty"`
	Paid          bool            `json:"paid"`
	PatientID     *int64          `json:"patient_id,omitempty"`
	PatientName   string          `json:"patient_name,omitempty"`
	AppointmentID *int64          `json:"appointment_id,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type TransactionListResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	Total        int                   `json:"total"`
}

type TypeSummary struct {
	Total   decimal.Decimal `json:"total"`
	Paid    decimal.Decimal `json:"paid"`
	Pending decimal.Decimal `json:"pending"`
	Count   int64           `json:"count"`
}

type FinancialSummaryResponse struct {
	Income      TypeSummary     `json:"receitas"`
	Expense     TypeSummary     `json:"despesas"`
	Balance     decimal.Decimal `json:"balance"`
	PaidBalance decimal.Decimal `json:"paid_balance"`
}
