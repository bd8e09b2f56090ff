package repository

import (
	"errors"

	"marcha-api/internal/domain/entity"
	domainRepo "marcha-api/internal/domain/repository"

	"gorm.io/gorm"
)

type patientRepository struct{}

func NewPatientRepository() domainRepo.PatientRepository {
	return &patientRepository{}
}

func (r *patientRepository) Create(db *gorm.DB, patient *entity.Patient) error {
	return db.Create(patient).Error
}

func (r *patientRepository) FindByID(db *gorm.DB, id int64) (*entity.Patient, error) {
	var patient entity.Patient
	err := db.Where("id = ?", id).First(&patient).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &patient, nil
}

func (r *patientRepository) FindByUsername(db *gorm.DB, username string) (*entity.Patient, error) {
	var patient entity.Patient
	err := db.Where("username = ?", username).First(&patient).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &patient, nil
}

// FindAll supports an optional active flag and a search term matched
// against name, CPF and phone.
func (r *patientRepository) FindAll(db *gorm.DB, filter *entity.PatientFilter) ([]entity.Patient, error) {
	var patients []entity.Patient
	query := db.Model(&entity.Patient{})

	if filter != nil {
		if filter.Active != nil {
			query = query.Where("active = ?", *filter.Active)
		}
		if filter.Search != "" {
			term := "%" + filter.Search + "%"
			query = query.Where("(name LIKE ? OR cpf LIKE ? OR phone LIKE ?)", term, term, term)
		}
	}

	err := query.Order("name ASC").Find(&patients).Error
	if err != nil {
		return nil, err
	}
	return patients, nil
}

func (r *patientRepository) Update(db *gorm.DB, patient *entity.Patient) error {
	return db.Save(patient).Error
}

// Deactivate soft deletes a patient. Returns affected rows: 0 = not found.
func (r *patientRepository) Deactivate(db *gorm.DB, id int64) (int64, error) {
	result := db.Model(&entity.Patient{}).
		Where("id = ?", id).
		Update("active", false)
	return result.RowsAffected, result.Error
}
