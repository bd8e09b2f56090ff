package dto

import "time"

// Request DTOs

type CreateRuleRequest struct {
	Name        string `json:"name" validate:"required,notblank,max=200"`
	Value       int    `json:"value" validate:"gte=-1000,lte=1000"`
	Description string `json:"description"`
}

type AwardScoreRequest struct {
	AthleteID int64 `json:"athlete_id" validate:"required,gt=0"`
	RuleID    int64 `json:"rule_id" validate:"required,gt=0"`
}

// Response DTOs

type RuleResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Value       int       `json:"value"`
	Description string    `json:"description,omitempty"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}

type RuleListResponse struct {
	Rules []RuleResponse `json:"rules"`
	Total int            `json:"total"`
}

type ScoreResponse struct {
	ID            int64     `json:"id"`
	AthleteID     int64     `json:"athlete_id"`
	RuleID        int64     `json:"rule_id"`
	RuleName      string    `json:"rule_name"`
	Value         int       `json:"value"`
	AppointmentID *int64    `json:"appointment_id,omitempty"`
	AthleteTotal  int64     `json:"athlete_total"`
	CreatedAt     time.Time `json:"created_at"`
}
