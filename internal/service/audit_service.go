package service

import (
	"context"

	"marcha-api/internal/domain/entity"
	"marcha-api/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AuditService writes audit entries inside the caller's transaction,
// so an entry exists only when the audited change was committed.
type AuditService interface {
	LogAction(ctx context.Context, tx *gorm.DB, actorID *int64, action string, metadata map[string]interface{}) error
	LogCreate(ctx context.Context, tx *gorm.DB, actorID *int64, action string, entityName string, entityID int64, newValue interface{}) error
	LogUpdate(ctx context.Context, tx *gorm.DB, actorID *int64, action string, entityName string, entityID int64, oldValue, newValue interface{}) error
	LogDelete(ctx context.Context, tx *gorm.DB, actorID *int64, action string, entityName string, entityID int64, oldValue interface{}) error
}

type auditService struct {
	log       *logrus.Logger
	auditRepo repository.AuditLogRepository
}

func NewAuditService(log *logrus.Logger, auditRepo repository.AuditLogRepository) AuditService {
	return &auditService{
		log:       log,
		auditRepo: auditRepo,
	}
}

// LogAction logs an event that is not tied to a single entity change
func (s *auditService) LogAction(ctx context.Context, tx *gorm.DB, actorID *int64, action string, metadata map[string]interface{}) error {
	return s.write(ctx, tx, actorID, action, datatypes.JSONMap(metadata))
}

// LogCreate logs a create action
func (s *auditService) LogCreate(ctx context.Context, tx *gorm.DB, actorID *int64, action string, entityName string, entityID int64, newValue interface{}) error {
	return s.write(ctx, tx, actorID, action, datatypes.JSONMap{
		"entity":    entityName,
		"entity_id": entityID,
		"new_value": newValue,
	})
}

// LogUpdate logs an update action with old and new values
func (s *auditService) LogUpdate(ctx context.Context, tx *gorm.DB, actorID *int64, action string, entityName string, entityID int64, oldValue, newValue interface{}) error {
	return s.write(ctx, tx, actorID, action, datatypes.JSONMap{
		"entity":    entityName,
		"entity_id": entityID,
		"old_value": oldValue,
		"new_value": newValue,
	})
}

// LogDelete logs a delete action with old value
func (s *auditService) LogDelete(ctx context.Context, tx *gorm.DB, actorID *int64, action string, entityName string, entityID int64, oldValue interface{}) error {
	return s.write(ctx, tx, actorID, action, datatypes.JSONMap{
		"entity":    entityName,
		"entity_id": entityID,
		"old_value": oldValue,
	})
}

func (s *auditService) write(ctx context.Context, tx *gorm.DB, actorID *int64, action string, metadata datatypes.JSONMap) error {
	auditLog := &entity.AuditLog{
		ActorID:  actorID,
		Action:   action,
		Metadata: metadata,
	}

	if err := s.auditRepo.Create(tx.WithContext(ctx), auditLog); err != nil {
		s.log.Warnf("Failed to create audit log %s: %+v", action, err)
		return err
	}

	return nil
}
