package entity

import "time"

const (
	// AttendanceRuleName is the rule applied when an appointment is confirmed as completed
	AttendanceRuleName = "Presença"
	// AttendanceRuleValue is used when the attendance rule has to be created on demand
	AttendanceRuleValue = 10

	MinRuleValue = -1000
	MaxRuleValue = 1000
)

// ScoringRule is a named, signed point value
type ScoringRule struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"type:varchar(200);not null;index" json:"name"`
	Value       int       `gorm:"not null" json:"value"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	Active      bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (ScoringRule) TableName() string {
	return "scoring_rules"
}

// Score is an append-only point award. It is never updated or deleted;
// its value is the value of the referenced rule.
type Score struct {
	ID            int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	AthleteID     int64     `gorm:"not null;index" json:"athlete_id"`
	RuleID        int64     `gorm:"not null;index" json:"rule_id"`
	AppointmentID *int64    `gorm:"index" json:"appointment_id,omitempty"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`

	// Relationships
	Athlete *Athlete     `gorm:"foreignKey:AthleteID" json:"athlete,omitempty"`
	Rule    *ScoringRule `gorm:"foreignKey:RuleID" json:"rule,omitempty"`
}

func (Score) TableName() string {
	return "scores"
}
