package entity

import "time"

// Patient roles
const (
	RoleAdmin        = "admin"
	RoleProfessional = "fisio"
	RoleStudent      = "aluno"
	RoleClient       = "cliente"
)

// Patient represents any person registered at the studio, staff included
type Patient struct {
	ID                    int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name                  string    `gorm:"type:varchar(200);not null;index" json:"name"`
	Username              *string   `gorm:"type:varchar(100);uniqueIndex" json:"username,omitempty"`
	PasswordHash          string    `gorm:"type:varchar(255)" json:"-"`
	Role                  string    `gorm:"type:varchar(20);not null;default:'cliente'" json:"role"`
	CPF                   string    `gorm:"column:cpf;type:varchar(14);index" json:"cpf,omitempty"`
	Phone                 string    `gorm:"type:varchar(20);index" json:"phone,omitempty"`
	Email                 string    `gorm:"type:varchar(255)" json:"email,omitempty"`
	BirthDate             *Date     `gorm:"type:date" json:"birth_date,omitempty"`
	Address               string    `gorm:"type:text" json:"address,omitempty"`
	City                  string    `gorm:"type:varchar(100)" json:"city,omitempty"`
	State                 string    `gorm:"type:varchar(2)" json:"state,omitempty"`
	ZipCode               string    `gorm:"type:varchar(10)" json:"zip_code,omitempty"`
	EmergencyContact      string    `gorm:"type:varchar(200)" json:"emergency_contact,omitempty"`
	EmergencyPhone        string    `gorm:"type:varchar(20)" json:"emergency_phone,omitempty"`
	HealthInsurance       string    `gorm:"type:varchar(100)" json:"health_insurance,omitempty"`
	HealthInsuranceNumber string    `gorm:"type:varchar(50)" json:"health_insurance_number,omitempty"`
	Notes                 string    `gorm:"type:text" json:"notes,omitempty"`
	Photo                 *string   `gorm:"type:varchar(255)" json:"photo,omitempty"`
	Active                bool      `gorm:"not null;default:true;index" json:"active"`
	CreatedAt             time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt             time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Patient) TableName() string {
	return "patients"
}

// IsStaff checks if the patient record belongs to a studio professional
func (p *Patient) IsStaff() bool {
	return p.Role == RoleAdmin || p.Role == RoleProfessional
}

// IsValidRole checks a role string against the known roles
func IsValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleProfessional, RoleStudent, RoleClient:
		return true
	}
	return false
}
