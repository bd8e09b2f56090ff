package repository

import (
	"errors"

	"marcha-api/internal/domain/entity"
	domainRepo "marcha-api/internal/domain/repository"

	"gorm.io/gorm"
)

type appointmentRepository struct{}

func NewAppointmentRepository() domainRepo.AppointmentRepository {
	return &appointmentRepository{}
}

func (r *appointmentRepository) Create(db *gorm.DB, appointment *entity.Appointment) error {
	return db.Omit("Patient").Create(appointment).Error
}

func (r *appointmentRepository) FindByID(db *gorm.DB, id int64) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := db.Preload("Patient").Where("id = ?", id).First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) FindAll(db *gorm.DB, filter *entity.AppointmentFilter) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	query := db.Preload("Patient")

	if filter != nil {
		if filter.Date != "" {
			query = query.Where("appointment_date = ?", filter.Date)
		} else {
			if filter.StartDate != "" {
				query = query.Where("appointment_date >= ?", filter.StartDate)
			}
			if filter.EndDate != "" {
				query = query.Where("appointment_date <= ?", filter.EndDate)
			}
		}
		if filter.PatientID != 0 {
			query = query.Where("patient_id = ?", filter.PatientID)
		}
		if filter.Status != "" {
			query = query.Where("status = ?", filter.Status)
		}
	}

	err := query.Order("appointment_date ASC, start_time ASC").Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) Update(db *gorm.DB, appointment *entity.Appointment) error {
	return db.Omit("Patient").Save(appointment).Error
}

func (r *appointmentRepository) Delete(db *gorm.DB, id int64) (int64, error) {
	result := db.Where("id = ?", id).Delete(&entity.Appointment{})
	return result.RowsAffected, result.Error
}

// TransitionStatus moves an appointment to a new status ONLY if it is still in `from`.
// Returns affected rows: 1 = success, 0 = missing or already moved (prevents double confirm).
func (r *appointmentRepository) TransitionStatus(db *gorm.DB, id int64, from, to entity.AppointmentStatus) (int64, error) {
	result := db.Model(&entity.Appointment{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	return result.RowsAffected, result.Error
}
