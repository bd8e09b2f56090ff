package entity

import "time"

// Read models produced by aggregate queries over scores

type AthleteTotal struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	HouseID     *int64 `json:"house_id,omitempty"`
	TotalPoints int64  `json:"total_points"`
}

type HouseTotal struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Color       string  `json:"color"`
	Crest       *string `json:"crest,omitempty"`
	TotalPoints int64   `json:"total_points"`
}

type RuleTotal struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	TotalPoints int64  `json:"total_points"`
}

type ScoreEntry struct {
	ID            int64     `json:"id"`
	RuleName      string    `json:"rule_name"`
	Value         int       `json:"value"`
	AppointmentID *int64    `json:"appointment_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}
