package repository

import (
	"errors"

	"marcha-api/internal/domain/entity"
	domainRepo "marcha-api/internal/domain/repository"

	"gorm.io/gorm"
)

type athleteRepository struct{}

func NewAthleteRepository() domainRepo.AthleteRepository {
	return &athleteRepository{}
}

func (r *athleteRepository) Create(db *gorm.DB, athlete *entity.Athlete) error {
	return db.Omit("House").Create(athlete).Error
}

func (r *athleteRepository) FindByID(db *gorm.DB, id int64) (*entity.Athlete, error) {
	var athlete entity.Athlete
	err := db.Preload("House").Where("id = ?", id).First(&athlete).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &athlete, nil
}

func (r *athleteRepository) FindByPatientID(db *gorm.DB, patientID int64) (*entity.Athlete, error) {
	var athlete entity.Athlete
	err := db.Preload("House").Where("patient_id = ?", patientID).First(&athlete).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &athlete, nil
}

// FindUnlinkedByName returns legacy athletes that carry no patient reference
// and whose name matches exactly.
func (r *athleteRepository) FindUnlinkedByName(db *gorm.DB, name string) ([]entity.Athlete, error) {
	var athletes []entity.Athlete
	err := db.Where("patient_id IS NULL AND name = ?", name).
		Order("id ASC").
		Find(&athletes).Error
	if err != nil {
		return nil, err
	}
	return athletes, nil
}

func (r *athleteRepository) FindByHouseWithTotals(db *gorm.DB, houseID int64) ([]entity.AthleteTotal, error) {
	var totals []entity.AthleteTotal
	err := db.Table("athletes AS a").
		Select("a.id, a.name, a.house_id, COALESCE(SUM(sr.value), 0) AS total_points").
		Joins("LEFT JOIN scores sc ON sc.athlete_id = a.id").
		Joins("LEFT JOIN scoring_rules sr ON sc.rule_id = sr.id").
		Where("a.house_id = ?", houseID).
		Group("a.id, a.name, a.house_id").
		Order("total_points DESC, a.name ASC").
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	return totals, nil
}

// TotalPoints sums the rule values of all scores of the athlete
func (r *athleteRepository) TotalPoints(db *gorm.DB, id int64) (int64, error) {
	var total int64
	err := db.Table("scores AS sc").
		Select("COALESCE(SUM(sr.value), 0)").
		Joins("JOIN scoring_rules sr ON sc.rule_id = sr.id").
		Where("sc.athlete_id = ?", id).
		Scan(&total).Error
	return total, err
}

func (r *athleteRepository) Update(db *gorm.DB, athlete *entity.Athlete) error {
	return db.Omit("House").Save(athlete).Error
}
