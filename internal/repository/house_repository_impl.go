package repository

import (
	"errors"

	"marcha-api/internal/domain/entity"
	domainRepo "marcha-api/internal/domain/repository"

	"gorm.io/gorm"
)

type houseRepository struct{}

func NewHouseRepository() domainRepo.HouseRepository {
	return &houseRepository{}
}

func (r *houseRepository) Create(db *gorm.DB, house *entity.House) error {
	return db.Omit("Athletes").Create(house).Error
}

func (r *houseRepository) FindByID(db *gorm.DB, id int64) (*entity.House, error) {
	var house entity.House
	err := db.Where("id = ?", id).First(&house).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &house, nil
}

func (r *houseRepository) FindByName(db *gorm.DB, name string) (*entity.House, error) {
	var house entity.House
	err := db.Where("name = ?", name).First(&house).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &house, nil
}

func (r *houseRepository) FindAllActive(db *gorm.DB) ([]entity.House, error) {
	var houses []entity.House
	err := db.Where("active = ?", true).Order("name ASC").Find(&houses).Error
	if err != nil {
		return nil, err
	}
	return houses, nil
}

// TotalPoints sums the rule values of every score earned by the house's athletes
func (r *houseRepository) TotalPoints(db *gorm.DB, id int64) (int64, error) {
	var total int64
	err := db.Table("scores AS sc").
		Select("COALESCE(SUM(sr.value), 0)").
		Joins("JOIN scoring_rules sr ON sc.rule_id = sr.id").
		Joins("JOIN athletes a ON sc.athlete_id = a.id").
		Where("a.house_id = ?", id).
		Scan(&total).Error
	return total, err
}

// Ranking returns every active house with its total, best first
func (r *houseRepository) Ranking(db *gorm.DB) ([]entity.HouseTotal, error) {
	var totals []entity.HouseTotal
	err := db.Table("houses AS h").
		Select("h.id, h.name, h.color, h.crest, COALESCE(SUM(sr.value), 0) AS total_points").
		Joins("LEFT JOIN athletes a ON a.house_id = h.id").
		Joins("LEFT JOIN scores sc ON sc.athlete_id = a.id").
		Joins("LEFT JOIN scoring_rules sr ON sc.rule_id = sr.id").
		Where("h.active = ?", true).
		Group("h.id, h.name, h.color, h.crest").
		Order("total_points DESC, h.name ASC").
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	return totals, nil
}

// BestCategory returns the rule that earned the house the most points, or nil
func (r *houseRepository) BestCategory(db *gorm.DB, id int64) (*entity.RuleTotal, error) {
	var totals []entity.RuleTotal
	err := db.Table("scores AS sc").
		Select("sr.id, sr.name, COALESCE(SUM(sr.value), 0) AS total_points").
		Joins("JOIN scoring_rules sr ON sc.rule_id = sr.id").
		Joins("JOIN athletes a ON sc.athlete_id = a.id").
		Where("a.house_id = ?", id).
		Group("sr.id, sr.name").
		Order("total_points DESC").
		Limit(1).
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	if len(totals) == 0 {
		return nil, nil
	}
	return &totals[0], nil
}
