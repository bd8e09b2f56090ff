package dto

import "time"

// Request DTOs

type CreateAthleteRequest struct {
	Name      string `json:"name" validate:"required,notblank,max=200"`
	HouseID   *int64 `json:"house_id" validate:"omitempty,gt=0"`
	PatientID *int64 `json:"patient_id" validate:"omitempty,gt=0"`
}

type AssignHouseRequest struct {
	HouseID int64 `json:"house_id" validate:"required,gt=0"`
}

type LinkPatientRequest struct {
	PatientID int64 `json:"patient_id" validate:"required,gt=0"`
}

// Response DTOs

type AthleteResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	HouseID     *int64    `json:"house_id"`
	HouseName   string    `json:"house_name,omitempty"`
	PatientID   *int64    `json:"patient_id,omitempty"`
	TotalPoints int64     `json:"total_points"`
	CreatedAt   time.Time `json:"created_at"`
}

type ScoreEntryResponse struct {
	ID            int64     `json:"id"`
	RuleName      string    `json:"rule_name"`
	Value         int       `json:"value"`
	AppointmentID *int64    `json:"appointment_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

type ScoreHistoryResponse struct {
	AthleteID int64                `json:"athlete_id"`
	Scores    []ScoreEntryResponse `json:"scores"`
	Total     int                  `json:"total"`
}
