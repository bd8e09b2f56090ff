package converter

import (
	"marcha-api/internal/delivery/dto"
	"marcha-api/internal/domain/entity"

	"github.com/shopspring/decimal"
)

// TransactionToResponse converts a FinancialTransaction entity to TransactionResponse DTO
func TransactionToResponse(transaction *entity.FinancialTransaction) *dto.TransactionResponse {
	if transaction == nil {
		return nil
	}

	response := &dto.TransactionResponse{
		ID:            transaction.ID,
		Type:          string(transaction.Type),
		Category:      transaction.Category,
		Description:   transaction.Description,
		Amount:        transaction.Amount,
		PaymentMethod: transaction.PaymentMethod,
		Paid:          transaction.IsPaid(),
		PatientID:     transaction.PatientID,
		AppointmentID: transaction.AppointmentID,
		Notes:         transaction.Notes,
		CreatedAt:     transaction.CreatedAt,
		UpdatedAt:     transaction.UpdatedAt,
	}

	if transaction.DueDate != nil {
		response.DueDate = transaction.DueDate.String()
	}
	if transaction.PaymentDate != nil {
		response.PaymentDate = transaction.PaymentDate.String()
	}
	if transaction.Patient != nil {
		response.PatientName = transaction.Patient.Name
	}

	return response
}

func TransactionsToResponses(transactions []entity.FinancialTransaction) []dto.TransactionResponse {
	responses := make([]dto.TransactionResponse, len(transactions))
	for i := range transactions {
		responses[i] = *TransactionToResponse(&transactions[i])
	}
	return responses
}

// SummaryToResponse folds per type totals into the income/expense summary
func SummaryToResponse(totals []entity.FinancialTypeTotal) *dto.FinancialSummaryResponse {
	response := &dto.FinancialSummaryResponse{
		Income:  emptyTypeSummary(),
		Expense: emptyTypeSummary(),
	}

	for _, t := range totals {
		summary := dto.TypeSummary{
			Total:   t.Total,
			Paid:    t.PaidTotal,
			Pending: t.Total.Sub(t.PaidTotal),
			Count:   t.Count,
		}
		switch t.Type {
		case entity.TransactionTypeIncome:
			response.Income = summary
		case entity.TransactionTypeExpense:
			response.Expense = summary
		}
	}

	response.Balance = response.Income.Total.Sub(response.Expense.Total)
	response.PaidBalance = response.Income.Paid.Sub(response.Expense.Paid)

	return response
}

func emptyTypeSummary() dto.TypeSummary {
	return dto.TypeSummary{
		Total:   decimal.Zero,
		Paid:    decimal.Zero,
		Pending: decimal.Zero,
	}
}
