package entity

import "time"

// House is a team in the house cup ranking
type House struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"type:varchar(100);not null;uniqueIndex" json:"name"`
	Color     string    `gorm:"type:varchar(7);not null" json:"color"`
	Crest     *string   `gorm:"type:varchar(255)" json:"crest,omitempty"`
	Active    bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	// Relationships
	Athletes []Athlete `gorm:"foreignKey:HouseID" json:"athletes,omitempty"`
}

func (House) TableName() string {
	return "houses"
}

// Athlete is the gamification identity of a patient.
// HouseID stays empty until the athlete is sorted into a house.
type Athlete struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"type:varchar(200);not null;index" json:"name"`
	HouseID   *int64    `gorm:"index" json:"house_id"`
	PatientID *int64    `gorm:"uniqueIndex" json:"patient_id,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	// Relationships
	House *House `gorm:"foreignKey:HouseID" json:"house,omitempty"`
}

func (Athlete) TableName() string {
	return "athletes"
}

// IsSorted checks if the athlete already belongs to a house
func (a *Athlete) IsSorted() bool {
	return a.HouseID != nil
}
