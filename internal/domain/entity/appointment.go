package entity

import (
	"errors"
	"strings"
	"time"
)

// AppointmentStatus represents where an appointment is in the confirm workflow
type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "agendado"
	AppointmentStatusCompleted AppointmentStatus = "realizado"
	AppointmentStatusNoShow    AppointmentStatus = "faltou"
)

const DefaultServiceType = "Consulta"

var ErrInvalidAppointmentStatus = errors.New("invalid status, use 'completed' or 'no_show'")

// Appointment represents a scheduled service occurrence for a patient
type Appointment struct {
	ID              int64             `gorm:"primaryKey;autoIncrement" json:"id"`
	PatientID       int64             `gorm:"not null;index" json:"patient_id"`
	Title           string            `gorm:"type:varchar(255);not null" json:"title"`
	Description     string            `gorm:"type:text" json:"description,omitempty"`
	AppointmentDate Date              `gorm:"type:date;not null;index" json:"appointment_date"`
	StartTime       string            `gorm:"type:varchar(8);not null" json:"start_time"`
	EndTime         string            `gorm:"type:varchar(8)" json:"end_time,omitempty"`
	ServiceType     string            `gorm:"type:varchar(100);not null;default:'Consulta'" json:"service_type"`
	Professional    string            `gorm:"type:varchar(200)" json:"professional,omitempty"`
	Status          AppointmentStatus `gorm:"type:varchar(20);not null;default:'agendado';index" json:"status"`
	Notes           string            `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt       time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time         `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Patient *Patient `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// IsScheduled checks if the appointment still awaits confirmation
func (a *Appointment) IsScheduled() bool {
	return a.Status == AppointmentStatusScheduled
}

// ParseConfirmStatus maps a confirm request status to a terminal status.
// Both the english names and the stored portuguese values are accepted.
func ParseConfirmStatus(s string) (AppointmentStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "completed", string(AppointmentStatusCompleted):
		return AppointmentStatusCompleted, nil
	case "no_show", string(AppointmentStatusNoShow):
		return AppointmentStatusNoShow, nil
	default:
		return "", ErrInvalidAppointmentStatus
	}
}

// ParseAppointmentStatus accepts any status, including scheduled, for direct edits
func ParseAppointmentStatus(s string) (AppointmentStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "scheduled", string(AppointmentStatusScheduled):
		return AppointmentStatusScheduled, nil
	default:
		return ParseConfirmStatus(s)
	}
}
