package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// Request DTOs

type CreateAppointmentRequest struct {
	PatientID       int64            `json:"patient_id" validate:"required,gt=0"`
	Title           string           `json:"title" validate:"required,notblank,max=255"`
	Description     string           `json:"description" validate:"omitempty"`
	AppointmentDate string           `json:"appointment_date" validate:"required,date"` // Format: YYYY-MM-DD
	StartTime       string           `json:"start_time" validate:"required,clock"`      // Format: HH:MM
	EndTime         string           `json:"end_time" validate:"omitempty,clock"`
	ServiceType     string           `json:"service_type" validate:"omitempty,max=100"`
	Professional    string           `json:"professional" validate:"omitempty,max=200"`
	Notes           string           `json:"notes" validate:"omitempty"`
	Price           *decimal.Decimal `json:"price"`
	Recurrence      string           `json:"recurrence" validate:"omitempty,recurrence"`
}

type ConfirmAppointmentRequest struct {
	Status        string           `json:"status" validate:"required,confirm_status"`
	Amount        *decimal.Decimal `json:"amount"`
	PaymentMethod string           `json:"payment_method" validate:"omitempty,max=50"`
}

// UpdateAppointmentRequest only touches the fields that are present
type UpdateAppointmentRequest struct {
	PatientID       *int64  `json:"patient_id" validate:"omitempty,gt=0"`
	Title           *string `json:"title" validate:"omitempty,notblank,max=255"`
	Description     *string `json:"description"`
	AppointmentDate *string `json:"appointment_date" validate:"omitempty,date"`
	StartTime       *string `json:"start_time" validate:"omitempty,clock"`
	EndTime         *string `json:"end_time" validate:"omitempty,clock"`
	ServiceType     *string `json:"service_type" validate:"omitempty,max=100"`
	Professional    *string `json:"professional" validate:"omitempty,max=200"`
	Status          *string `json:"status"`
	Notes           *string `json:"notes"`
}

type AppointmentFilterRequest struct {
	Date      string `json:"date" validate:"omitempty,date"`
	StartDate string `json:"start_date" validate:"omitempty,date"`
	EndDate   string `json:"end_date" validate:"omitempty,date"`
	PatientID int64  `json:"patient_id"`
	Status    string `json:"status"`
}

// Response DTOs

type CreateAppointmentResponse struct {
	ID    int64   `json:"id"`
	IDs   []int64 `json:"ids"`
	Count int     `json:"count"`
}

type ConfirmAppointmentResponse struct {
	ID           int64  `json:"id"`
	Status       string `json:"status"`
	Paid         bool   `json:"paid"`
	ScoreAwarded bool   `json:"score_awarded"`
	AthleteID    *int64 `json:"athlete_id,omitempty"`
}

type AppointmentResponse struct {
	ID              int64     `json:"id"`
	PatientID       int64     `json:"patient_id"`
	PatientName     string    `json:"patient_name,omitempty"`
	PatientPhone    string    `json:"patient_phone,omitempty"`
	Title           string    `json:"title"`
	Description     string    `json:"description,omitempty"`
	AppointmentDate string    `json:"appointment_date"`
	StartTime       string    `json:"start_time"`
	EndTime         string    `json:"end_time,omitempty"`
	ServiceType     string    `json:"service_type"`
	Professional    string    `json:"professional,omitempty"`
	Status          string    `json:"status"`
	Notes           string    `json:"notes,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}
