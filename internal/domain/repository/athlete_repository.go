package repository

import (
	"marcha-api/internal/domain/entity"

	"gorm.io/gorm"
)

type AthleteRepository interface {
	Create(db *gorm.DB, athlete *entity.Athlete) error
	FindByID(db *gorm.DB, id int64) (*entity.Athlete, error)
	FindByPatientID(db *gorm.DB, patientID int64) (*entity.Athlete, error)
	FindUnlinkedByName(db *gorm.DB, name string) ([]entity.Athlete, error)
	FindByHouseWithTotals(db *gorm.DB, houseID int64) ([]entity.AthleteTotal, error)
	TotalPoints(db *gorm.DB, id int64) (int64, error)
	Update(db *gorm.DB, athlete *entity.Athlete) error
}
