package repository

import (
	"errors"

	"marcha-api/internal/domain/entity"
	domainRepo "marcha-api/internal/domain/repository"

	"gorm.io/gorm"
)

type auditLogRepository struct{}

func NewAuditLogRepository() domainRepo.AuditLogRepository {
	return &auditLogRepository{}
}

func (r *auditLogRepository) Create(db *gorm.DB, log *entity.AuditLog) error {
	return db.Omit("Actor").Create(log).Error
}

func (r *auditLogRepository) FindAll(db *gorm.DB, filter *entity.AuditLogFilter) ([]entity.AuditLog, int64, error) {
	query := db.Model(&entity.AuditLog{})
	if filter != nil {
		if filter.Action != "" {
			query = query.Where("action LIKE ?", filter.Action+"%")
		}
		if filter.ActorID > 0 {
			query = query.Where("actor_id = ?", filter.ActorID)
		}
		if filter.Since != nil {
			query = query.Where("created_at >= ?", *filter.Since)
		}
	}

	// a new session lets the count and the page share the conditions
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := query.Preload("Actor").Order("created_at DESC, id DESC")
	if filter != nil && filter.Limit > 0 {
		page = page.Limit(filter.Limit).Offset(filter.Offset)
	}

	var logs []entity.AuditLog
	if err := page.Find(&logs).Error; err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}

func (r *auditLogRepository) FindByID(db *gorm.DB, id int64) (*entity.AuditLog, error) {
	var log entity.AuditLog
	err := db.Preload("Actor").Where("id = ?", id).First(&log).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &log, nil
}
