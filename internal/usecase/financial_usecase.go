package usecase

import (
	"context"
	"strings"

	"marcha-api/internal/converter"
	"marcha-api/internal/delivery/dto"
	"marcha-api/internal/domain/entity"
	"marcha-api/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type FinancialUsecase interface {
	ListTransactions(ctx context.Context, filter *dto.FinancialFilterRequest) (*dto.TransactionListResponse, error)
	GetSummary(ctx context.Context, filter *dto.FinancialFilterRequest) (*dto.FinancialSummaryResponse, error)
	GetTransaction(ctx context.Context, id int64) (*dto.TransactionResponse, error)
	CreateTransaction(ctx context.Context, req *dto.CreateTransactionRequest) (*dto.TransactionResponse, error)
	UpdateTransaction(ctx context.Context, id int64, req *dto.UpdateTransactionRequest) (*dto.TransactionResponse, error)
	DeleteTransaction(ctx context.Context, id int64) error
}

type financialUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	transactionRepo repository.FinancialTransactionRepository
	patientRepo     repository.PatientRepository
	appointmentRepo repository.AppointmentRepository
}

func NewFinancialUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	transactionRepo repository.FinancialTransactionRepository,
	patientRepo repository.PatientRepository,
	appointmentRepo repository.AppointmentRepository,
) FinancialUsecase {
	return &financialUsecase{
		db:              db,
		log:             log,
		transactionRepo: transactionRepo,
		patientRepo:     patientRepo,
		appointmentRepo: appointmentRepo,
	}
}

func toFinancialFilter(filter *dto.FinancialFilterRequest) *entity.FinancialFilter {
	if filter == nil {
		return nil
	}
	return &entity.FinancialFilter{
		Type:      entity.TransactionType(filter.Type),
		StartDate: filter.StartDate,
		EndDate:   filter.EndDate,
		PatientID: filter.PatientID,
	}
}

func (u *financialUsecase) ListTransactions(ctx context.Context, filter *dto.FinancialFilterRequest) (*dto.TransactionListResponse, error) {
	transactions, err := u.transactionRepo.FindAll(u.db.WithContext(ctx), toFinancialFilter(filter))
	if err != nil {
		u.log.Warnf("Failed to list transactions: %+v", err)
		return nil, err
	}

	return &dto.TransactionListResponse{
		Transactions: converter.TransactionsToResponses(transactions),
		Total:        len(transactions),
	}, nil
}

// GetSummary totals income and expenses, split into paid and pending
func (u *financialUsecase) GetSummary(ctx context.Context, filter *dto.FinancialFilterRequest) (*dto.FinancialSummaryResponse, error) {
	totals, err := u.transactionRepo.Summary(u.db.WithContext(ctx), toFinancialFilter(filter))
	if err != nil {
		u.log.Warnf("Failed to summarize transactions: %+v", err)
		return nil, err
	}

	return converter.SummaryToResponse(totals), nil
}

func (u *financialUsecase) GetTransaction(ctx context.Context, id int64) (*dto.TransactionResponse, error) {
	transaction, err := u.transactionRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find transaction %d: %+v", id, err)
		return nil, err
	}
	if transaction == nil {
		return nil, ErrTransactionNotFound
	}
	return converter.TransactionToResponse(transaction), nil
}

func (u *financialUsecase) CreateTransaction(ctx context.Context, req *dto.CreateTransactionRequest) (*dto.TransactionResponse, error) {
	if !entity.IsValidTransactionType(req.Type) {
		return nil, validationError("type must be 'receita' or 'despesa'")
	}
	description := strings.TrimSpace(req.Description)
	if description == "" {
		return nil, validationError("description is required")
	}
	if !req.Amount.IsPositive() {
		return nil, validationError("amount must be greater than zero")
	}

	transaction := &entity.FinancialTransaction{
		Type:          entity.TransactionType(req.Type),
		Category:      strings.TrimSpace(req.Category),
		Description:   description,
		Amount:        req.Amount,
		PaymentMethod: strings.TrimSpace(req.PaymentMethod),
		Notes:         strings.TrimSpace(req.Notes),
	}

	var err error
	if transaction.DueDate, err = optionalDate(req.DueDate, "due_date"); err != nil {
		return nil, err
	}
	if transaction.PaymentDate, err = optionalDate(req.PaymentDate, "payment_date"); err != nil {
		return nil, err
	}

	db := u.db.WithContext(ctx)

	if req.PatientID != nil {
		patient, err := u.patientRepo.FindByID(db, *req.PatientID)
		if err != nil {
			u.log.Warnf("Failed to find patient %d: %+v", *req.PatientID, err)
			return nil, err
		}
		if patient == nil {
			return nil, ErrPatientNotFound
		}
		transaction.PatientID = &patient.ID
		transaction.Patient = patient
	}

	if req.AppointmentID != nil {
		appointment, err := u.appointmentRepo.FindByID(db, *req.AppointmentID)
		if err != nil {
			u.log.Warnf("Failed to find appointment %d: %+v", *req.AppointmentID, err)
			return nil, err
		}
		if appointment == nil {
			return nil, ErrAppointmentNotFound
		}
		transaction.AppointmentID = &appointment.ID
	}

	if err := u.transactionRepo.Create(db, transaction); err != nil {
		u.log.Warnf("Failed to create transaction: %+v", err)
		return nil, err
	}

	u.log.Infof("Transaction created: id=%d, type=%s, amount=%s", transaction.ID, transaction.Type, transaction.Amount.StringFixed(2))
	return converter.TransactionToResponse(transaction), nil
}

func (u *financialUsecase) UpdateTransaction(ctx context.Context, id int64, req *dto.UpdateTransactionRequest) (*dto.TransactionResponse, error) {
	db := u.db.WithContext(ctx)

	transaction, err := u.transactionRepo.FindByID(db, id)
	if err != nil {
		u.log.Warnf("Failed to find transaction %d: %+v", id, err)
		return nil, err
	}
	if transaction == nil {
		return nil, ErrTransactionNotFound
	}

	if req.Type != nil {
		if !entity.IsValidTransactionType(*req.Type) {
			return nil, validationError("type must be 'receita' or 'despesa'")
		}
		transaction.Type = entity.TransactionType(*req.Type)
	}
	if req.Description != nil {
		description := strings.TrimSpace(*req.Description)
		if description == "" {
			return nil, validationError("description is required")
		}
		transaction.Description = description
	}
	if req.Amount != nil {
		if !req.Amount.IsPositive() {
			return nil, validationError("amount must be greater than zero")
		}
		transaction.Amount = *req.Amount
	}
	if req.DueDate != nil {
		if transaction.DueDate, err = optionalDate(*req.DueDate, "due_date"); err != nil {
			return nil, err
		}
	}
	if req.PaymentDate != nil {
		if transaction.PaymentDate, err = optionalDate(*req.PaymentDate, "payment_date"); err != nil {
			return nil, err
		}
	}
	if req.PatientID != nil {
		patient, err := u.patientRepo.FindByID(db, *req.PatientID)
		if err != nil {
			u.log.Warnf("Failed to find patient %d: %+v", *req.PatientID, err)
			return nil, err
		}
		if patient == nil {
			return nil, ErrPatientNotFound
		}
		transaction.PatientID = &patient.ID
		transaction.Patient = patient
	}
	assignTrimmed(&transaction.Category, req.Category)
	assignTrimmed(&transaction.PaymentMethod, req.PaymentMethod)
	assignTrimmed(&transaction.Notes, req.Notes)

	if err := u.transactionRepo.Update(db, transaction); err != nil {
		u.log.Warnf("Failed to update transaction %d: %+v", id, err)
		return nil, err
	}

	return converter.TransactionToResponse(transaction), nil
}

func (u *financialUsecase) DeleteTransaction(ctx context.Context, id int64) error {
	rowsAffected, err := u.transactionRepo.Delete(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to delete transaction %d: %+v", id, err)
		return err
	}
	if rowsAffected == 0 {
		return ErrTransactionNotFound
	}
	return nil
}

// optionalDate parses a YYYY-MM-DD value; empty means no date
func optionalDate(value, field string) (*entity.Date, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	date, err := entity.ParseDate(value)
	if err != nil {
		return nil, validationError(field + " must use the YYYY-MM-DD format")
	}
	return &date, nil
}
