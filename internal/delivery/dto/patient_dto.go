package dto

import "time"

// Request DTOs

type CreatePatientRequest struct {
	Name                  string `json:"name" validate:"required,notblank,max=200"`
	CPF                   string `json:"cpf" validate:"omitempty,max=14"`
	Phone                 string `json:"phone" validate:"omitempty,max=20"`
	Email                 string `json:"email" validate:"omitempty,email"`
	BirthDate             string `json:"birth_date" validate:"omitempty,date"` // Format: YYYY-MM-DD
	Address               string `json:"address"`
	City                  string `json:"city" validate:"omitempty,max=100"`
	State                 string `json:"state" validate:"omitempty,len=2"`
	ZipCode               string `json:"zip_code" validate:"omitempty,max=10"`
	EmergencyContact      string `json:"emergency_contact" validate:"omitempty,max=200"`
	EmergencyPhone        string `json:"emergency_phone" validate:"omitempty,max=20"`
	HealthInsurance       string `json:"health_insurance" validate:"omitempty,max=100"`
	HealthInsuranceNumber string `json:"health_insurance_number" validate:"omitempty,max=50"`
	Notes                 string `json:"notes"`
	Role                  string `json:"role" validate:"omitempty,oneof=admin fisio aluno cliente"`
	Username              string `json:"username" validate:"omitempty,min=3,max=100"`
	Password              string `json:"password" validate:"omitempty,min=6"`
}

type UpdatePatientRequest struct {
	Name                  *string `json:"name" validate:"omitempty,notblank,max=200"`
	CPF                   *string `json:"cpf" validate:"omitempty,max=14"`
	Phone                 *string `json:"phone" validate:"omitempty,max=20"`
	Email                 *string `json:"email" validate:"omitempty,email"`
	BirthDate             *string `json:"birth_date" validate:"omitempty,date"`
	Address               *string `json:"address"`
	City                  *string `json:"city" validate:"omitempty,max=100"`
	State                 *string `json:"state" validate:"omitempty,len=2"`
	ZipCode               *string `json:"zip_code" validate:"omitempty,max=10"`
	EmergencyContact      *string `json:"emergency_contact" validate:"omitempty,max=200"`
	EmergencyPhone        *string `json:"emergency_phone" validate:"omitempty,max=20"`
	HealthInsurance       *string `json:"health_insurance" validate:"omitempty,max=100"`
	HealthInsuranceNumber *string `json:"health_insurance_number" validate:"omitempty,max=50"`
	Notes                 *string `json:"notes"`
	Active                *bool   `json:"active"`
	Role                  *string `json:"role" validate:"omitempty,oneof=admin fisio aluno cliente"`
	Username              *string `json:"username" validate:"omitempty,min=3,max=100"`
	Password              *string `json:"password" validate:"omitempty,min=6"`
}

// Response DTOs

type PatientResponse struct {
	ID                    int64     `json:"id"`
	Name                  string    `json:"name"`
	Username              *string   `json:"username,omitempty"`
	Role                  string    `json:"role"`
	CPF                   string    `json:"cpf,omitempty"`
	Phone                 string    `json:"phone,omitempty"`
	Email                 string    `json:"email,omitempty"`
	BirthDate             string    `json:"birth_date,omitempty"`
	Address               string    `json:"address,omitempty"`
	City                  string    `json:"city,omitempty"`
	State                 string    `json:"state,omitempty"`
	ZipCode               string    `json:"zip_code,omitempty"`
	EmergencyContact      string    `json:"emergency_contact,omitempty"`
	EmergencyPhone        string    `json:"emergency_phone,omitempty"`
	HealthInsurance       string    `json:"health_insurance,omitempty"`
	HealthInsuranceNumber string    `json:"health_insurance_number,omitempty"`
	Notes                 string    `json:"notes,omitempty"`
	Photo                 *string   `json:"photo,omitempty"`
	Active                bool      `json:"active"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

type PatientListResponse struct {
	Patients []PatientResponse `json:"patients"`
	Total    int               `json:"total"`
}

type CreatedResponse struct {
	ID int64 `json:"id"`
}
