package repository

import (
	"marcha-api/internal/domain/entity"

	"gorm.io/gorm"
)

type PatientRepository interface {
	Create(db *gorm.DB, patient *entity.Patient) error
	FindByID(db *gorm.DB, id int64) (*entity.Patient, error)
	FindByUsername(db *gorm.DB, username string) (*entity.Patient, error)
	FindAll(db *gorm.DB, filter *entity.PatientFilter) ([]entity.Patient, error)
	Update(db *gorm.DB, patient *entity.Patient) error
	Deactivate(db *gorm.DB, id int64) (int64, error)
}
