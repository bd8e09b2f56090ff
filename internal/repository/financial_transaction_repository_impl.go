package repository

import (
	"errors"

	"marcha-api/internal/domain/entity"
	domainRepo "marcha-api/internal/domain/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type financialTransactionRepository struct{}

func NewFinancialTransactionRepository() domainRepo.FinancialTransactionRepository {
	return &financialTransactionRepository{}
}

func (r *financialTransactionRepository) Create(db *gorm.DB, transaction *entity.FinancialTransaction) error {
	return db.Omit("Patient").Create(transaction).Error
}

func (r *financialTransactionRepository) FindByID(db *gorm.DB, id int64) (*entity.FinancialTransaction, error) {
	var transaction entity.FinancialTransaction
	err := db.Preload("Patient").Where("id = ?", id).First(&transaction).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &transaction, nil
}

func (r *financialTransactionRepository) FindByAppointmentID(db *gorm.DB, appointmentID int64) ([]entity.FinancialTransaction, error) {
	var transactions []entity.FinancialTransaction
	err := db.Where("appointment_id = ?", appointmentID).Order("id ASC").Find(&transactions).Error
	if err != nil {
		return nil, err
	}
	return transactions, nil
}

func applyFinancialFilter(query *gorm.DB, filter *entity.FinancialFilter) *gorm.DB {
	if filter == nil {
		return query
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	// a transaction falls in the period when it is due or was paid within it
	if filter.StartDate != "" && filter.EndDate != "" {
		query = query.Where("((due_date >= ? AND due_date <= ?) OR (payment_date >= ? AND payment_date <= ?))",
			filter.StartDate, filter.EndDate, filter.StartDate, filter.EndDate)
	} else if filter.StartDate != "" {
		query = query.Where("(due_date >= ? OR payment_date >= ?)", filter.StartDate, filter.StartDate)
	} else if filter.EndDate != "" {
		query = query.Where("(due_date <= ? OR payment_date <= ?)", filter.EndDate, filter.EndDate)
	}
	if filter.PatientID != 0 {
		query = query.Where("patient_id = ?", filter.PatientID)
	}
	return query
}

func (r *financialTransactionRepository) FindAll(db *gorm.DB, filter *entity.FinancialFilter) ([]entity.FinancialTransaction, error) {
	var transactions []entity.FinancialTransaction
	query := applyFinancialFilter(db.Preload("Patient"), filter)

	err := query.Order("due_date DESC, id DESC").Find(&transactions).Error
	if err != nil {
		return nil, err
	}
	return transactions, nil
}

func (r *financialTransactionRepository) Update(db *gorm.DB, transaction *entity.FinancialTransaction) error {
	return db.Omit("Patient").Save(transaction).Error
}

func (r *financialTransactionRepository) Delete(db *gorm.DB, id int64) (int64, error) {
	result := db.Where("id = ?", id).Delete(&entity.FinancialTransaction{})
	return result.RowsAffected, result.Error
}

// MarkPaidByAppointment settles the transactions generated for an appointment.
// amount and method are only written when provided.
func (r *financialTransactionRepository) MarkPaidByAppointment(db *gorm.DB, appointmentID int64, paidOn entity.Date, amount *decimal.Decimal, method string) (int64, error) {
	updates := map[string]interface{}{
		"payment_date": paidOn,
	}
	if amount != nil {
		updates["amount"] = *amount
	}
	if method != "" {
		updates["payment_method"] = method
	}

	result := db.Model(&entity.FinancialTransaction{}).
		Where("appointment_id = ?", appointmentID).
		Updates(updates)
	return result.RowsAffected, result.Error
}

// DetachFromAppointment keeps settled transactions in the ledger when their appointment goes away
func (r *financialTransactionRepository) DetachFromAppointment(db *gorm.DB, appointmentID int64) error {
	return db.Model(&entity.FinancialTransaction{}).
		Where("appointment_id = ?", appointmentID).
		Update("appointment_id", nil).Error
}

func (r *financialTransactionRepository) DeletePendingByAppointment(db *gorm.DB, appointmentID int64) (int64, error) {
	result := db.Where("appointment_id = ? AND payment_date IS NULL", appointmentID).
		Delete(&entity.FinancialTransaction{})
	return result.RowsAffected, result.Error
}

func (r *financialTransactionRepository) Summary(db *gorm.DB, filter *entity.FinancialFilter) ([]entity.FinancialTypeTotal, error) {
	var totals []entity.FinancialTypeTotal
	query := applyFinancialFilter(db.Model(&entity.FinancialTransaction{}), filter)

	err := query.Select("type, " +
		"COALESCE(SUM(amount), 0) AS total, " +
		"COALESCE(SUM(CASE WHEN payment_date IS NOT NULL THEN amount ELSE 0 END), 0) AS paid_total, " +
		"COUNT(*) AS count").
		Group("type").
		Order("type ASC").
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	return totals, nil
}
