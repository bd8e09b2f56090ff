package repository

import (
	"marcha-api/internal/domain/entity"

	"gorm.io/gorm"
)

type ScoringRuleRepository interface {
	Create(db *gorm.DB, rule *entity.ScoringRule) error
	FindByID(db *gorm.DB, id int64) (*entity.ScoringRule, error)
	FindByName(db *gorm.DB, name string) (*entity.ScoringRule, error)
	FindAllActive(db *gorm.DB) ([]entity.ScoringRule, error)
	Deactivate(db *gorm.DB, id int64) (int64, error)
}

type ScoreRepository interface {
	Create(db *gorm.DB, score *entity.Score) error
	FindHistoryByAthleteID(db *gorm.DB, athleteID int64) ([]entity.ScoreEntry, error)
	CountByAthleteID(db *gorm.DB, athleteID int64) (int64, error)
}
