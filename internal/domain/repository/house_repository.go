package repository

import (
	"marcha-api/internal/domain/entity"

	"gorm.io/gorm"
)

type HouseRepository interface {
	Create(db *gorm.DB, house *entity.House) error
	FindByID(db *gorm.DB, id int64) (*entity.House, error)
	FindByName(db *gorm.DB, name string) (*entity.House, error)
	FindAllActive(db *gorm.DB) ([]entity.House, error)
	TotalPoints(db *gorm.DB, id int64) (int64, error)
	Ranking(db *gorm.DB) ([]entity.HouseTotal, error)
	BestCategory(db *gorm.DB, id int64) (*entity.RuleTotal, error)
}
