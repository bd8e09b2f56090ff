package repository

import (
	"errors"

	"marcha-api/internal/domain/entity"
	domainRepo "marcha-api/internal/domain/repository"

	"gorm.io/gorm"
)

// Scoring Rule Repository

type scoringRuleRepository struct{}

func NewScoringRuleRepository() domainRepo.ScoringRuleRepository {
	return &scoringRuleRepository{}
}

func (r *scoringRuleRepository) Create(db *gorm.DB, rule *entity.ScoringRule) error {
	return db.Create(rule).Error
}

func (r *scoringRuleRepository) FindByID(db *gorm.DB, id int64) (*entity.ScoringRule, error) {
	var rule entity.ScoringRule
	err := db.Where("id = ?", id).First(&rule).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rule, nil
}

// FindByName prefers an active rule when soft deleted duplicates exist
func (r *scoringRuleRepository) FindByName(db *gorm.DB, name string) (*entity.ScoringRule, error) {
	var rule entity.ScoringRule
	err := db.Where("name = ?", name).Order("active DESC, id ASC").First(&rule).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rule, nil
}

func (r *scoringRuleRepository) FindAllActive(db *gorm.DB) ([]entity.ScoringRule, error) {
	var rules []entity.ScoringRule
	err := db.Where("active = ?", true).Order("value DESC, name ASC").Find(&rules).Error
	if err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *scoringRuleRepository) Deactivate(db *gorm.DB, id int64) (int64, error) {
	result := db.Model(&entity.ScoringRule{}).
		Where("id = ?", id).
		Update("active", false)
	return result.RowsAffected, result.Error
}

// Score Repository

type scoreRepository struct{}

func NewScoreRepository() domainRepo.ScoreRepository {
	return &scoreRepository{}
}

func (r *scoreRepository) Create(db *gorm.DB, score *entity.Score) error {
	return db.Omit("Athlete", "Rule").Create(score).Error
}

func (r *scoreRepository) FindHistoryByAthleteID(db *gorm.DB, athleteID int64) ([]entity.ScoreEntry, error) {
	var entries []entity.ScoreEntry
	err := db.Table("scores AS sc").
		Select("sc.id, sr.name AS rule_name, sr.value AS value, sc.appointment_id, sc.created_at").
		Joins("JOIN scoring_rules sr ON sc.rule_id = sr.id").
		Where("sc.athlete_id = ?", athleteID).
		Order("sc.id DESC").
		Scan(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *scoreRepository) CountByAthleteID(db *gorm.DB, athleteID int64) (int64, error) {
	var count int64
	err := db.Model(&entity.Score{}).Where("athlete_id = ?", athleteID).Count(&count).Error
	return count, err
}
