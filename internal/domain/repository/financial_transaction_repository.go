package repository

import (
	"marcha-api/internal/domain/entity"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type FinancialTransactionRepository interface {
	Create(db *gorm.DB, transaction *entity.FinancialTransaction) error
	FindByID(db *gorm.DB, id int64) (*entity.FinancialTransaction, error)
	FindByAppointmentID(db *gorm.DB, appointmentID int64) ([]entity.FinancialTransaction, error)
	FindAll(db *gorm.DB, filter *entity.FinancialFilter) ([]entity.FinancialTransaction, error)
	Update(db *gorm.DB, transaction *entity.FinancialTransaction) error
	Delete(db *gorm.DB, id int64) (int64, error)
	MarkPaidByAppointment(db *gorm.DB, appointmentID int64, paidOn entity.Date, amount *decimal.Decimal, method string) (int64, error)
	DetachFromAppointment(db *gorm.DB, appointmentID int64) error
	DeletePendingByAppointment(db *gorm.DB, appointmentID int64) (int64, error)
	Summary(db *gorm.DB, filter *entity.FinancialFilter) ([]entity.FinancialTypeTotal, error)
}
