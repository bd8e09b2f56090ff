package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the ledger direction of a financial transaction
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "receita"
	TransactionTypeExpense TransactionType = "despesa"
)

// CategoryAppointment marks transactions generated by a booking
const CategoryAppointment = "consulta"

// FinancialTransaction is a ledger entry. A nil PaymentDate means pending.
type FinancialTransaction struct {
	ID            int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Type          TransactionType `gorm:"type:varchar(10);not null;index" json:"type"`
	Category      string          `gorm:"type:varchar(100)" json:"category,omitempty"`
	Description   string          `gorm:"type:varchar(255);not null" json:"description"`
	Amount        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	DueDate       *Date           `gorm:"type:date;index" json:"due_date,omitempty"`
	PaymentDate   *Date           `gorm:"type:date;index" json:"payment_date"`
	PaymentMethod string          `gorm:"type:varchar(50)" json:"payment_method,omitempty"`
	PatientID     *int64          `gorm:"index" json:"patient_id,omitempty"`
	AppointmentID *int64          `gorm:"index" json:"appointment_id,omitempty"`
	Notes         string          `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Patient *Patient `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
}

func (FinancialTransaction) TableName() string {
	return "financial_transactions"
}

// IsPaid checks if the transaction has been settled
func (t *FinancialTransaction) IsPaid() bool {
	return t.PaymentDate != nil
}

// IsValidTransactionType checks a type string against the ledger directions
func IsValidTransactionType(t string) bool {
	return t == string(TransactionTypeIncome) || t == string(TransactionTypeExpense)
}

// FinancialTypeTotal aggregates transactions of one type
type FinancialTypeTotal struct {
	Type      TransactionType
	Total     decimal.Decimal
	PaidTotal decimal.Decimal
	Count     int64
}
