package usecase

import (
	"context"
	"errors"
	"testing"

	"marcha-api/internal/delivery/dto"
	"marcha-api/internal/repository"

	"github.com/shopspring/decimal"
)

func newFinancialUsecase(t *testing.T) (FinancialUsecase, *appointmentFixture) {
	t.Helper()
	f := newAppointmentFixture(t)
	uc := NewFinancialUsecase(
		f.db,
		newTestLogger(),
		repository.NewFinancialTransactionRepository(),
		repository.NewPatientRepository(),
		repository.NewAppointmentRepository(),
	)
	return uc, f
}

func TestFinancialSummary(t *testing.T) {
	uc, f := newFinancialUsecase(t)
	ctx := context.Background()
	patient := createPatient(t, f.db, "Ana Souza")

	paidID := createSingleAppointment(t, f, patient.ID)
	createSingleAppointment(t, f, patient.ID)
	if _, err := f.usecase.ConfirmAppointment(ctx, paidID, &dto.ConfirmAppointmentRequest{Status: "completed"}); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	if _, err := uc.CreateTransaction(ctx, &dto.CreateTransactionRequest{
		Type:        "despesa",
		Category:    "aluguel",
		Description: "Aluguel da sala",
		Amount:      decimal.RequireFromString("30.25"),
		DueDate:     "2025-01-10",
		PaymentDate: "2025-01-10",
	}); err != nil {
		t.Fatalf("create expense: %v", err)
	}

	summary, err := uc.GetSummary(ctx, &dto.FinancialFilterRequest{})
	if err != nil {
		t.Fatalf("summary: %v", err)
	}

	checks := []struct {
		name string
		got  decimal.Decimal
		want string
	}{
		{"income total", summary.Income.Total, "200"},
		{"income paid", summary.Income.Paid, "100"},
		{"income pending", summary.Income.Pending, "100"},
		{"expense total", summary.Expense.Total, "30.25"},
		{"balance", summary.Balance, "169.75"},
		{"paid balance", summary.PaidBalance, "69.75"},
	}
	for _, c := range checks {
		if !c.got.Equal(decimal.RequireFromString(c.want)) {
			t.Errorf("%s = %s, want %s", c.name, c.got, c.want)
		}
	}
	if summary.Income.Count != 2 || summary.Expense.Count != 1 {
		t.Errorf("counts = %d/%d, want 2/1", summary.Income.Count, summary.Expense.Count)
	}

	expenses, err := uc.ListTransactions(ctx, &dto.FinancialFilterRequest{Type: "despesa"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if expenses.Total != 1 {
		t.Errorf("expenses = %d, want 1", expenses.Total)
	}

	outside, err := uc.ListTransactions(ctx, &dto.FinancialFilterRequest{StartDate: "2025-02-01", EndDate: "2025-02-28"})
	if err != nil {
		t.Fatalf("list by period: %v", err)
	}
	if outside.Total != 0 {
		t.Errorf("transactions in february = %d, want 0", outside.Total)
	}
}

func TestCreateTransactionValidation(t *testing.T) {
	uc, _ := newFinancialUsecase(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		req     dto.CreateTransactionRequest
		wantErr error
	}{
		{"zero amount", dto.CreateTransactionRequest{Type: "receita", Description: "x", Amount: decimal.Zero}, ErrValidation},
		{"unknown type", dto.CreateTransactionRequest{Type: "transfer", Description: "x", Amount: decimal.NewFromInt(1)}, ErrValidation},
		{"blank description", dto.CreateTransactionRequest{Type: "receita", Description: " ", Amount: decimal.NewFromInt(1)}, ErrValidation},
		{"bad due date", dto.CreateTransactionRequest{Type: "receita", Description: "x", Amount: decimal.NewFromInt(1), DueDate: "10/01/2025"}, ErrValidation},
		{"unknown patient", dto.CreateTransactionRequest{Type: "receita", Description: "x", Amount: decimal.NewFromInt(1), PatientID: int64Ptr(999)}, ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := uc.CreateTransaction(ctx, &tt.req); !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
