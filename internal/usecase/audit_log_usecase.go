package usecase

import (
	"context"
	"strings"

	"marcha-api/internal/converter"
	"marcha-api/internal/delivery/dto"
	"marcha-api/internal/domain/entity"
	"marcha-api/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const defaultAuditLogLimit = 100

type AuditLogUsecase interface {
	ListAuditLogs(ctx context.Context, filter *dto.AuditLogFilterRequest) (*dto.AuditLogListResponse, error)
	GetAuditLog(ctx context.Context, id int64) (*dto.AuditLogResponse, error)
}

type auditLogUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	auditLogRepo repository.AuditLogRepository
}

func NewAuditLogUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	auditLogRepo repository.AuditLogRepository,
) AuditLogUsecase {
	return &auditLogUsecase{
		db:           db,
		log:          log,
		auditLogRepo: auditLogRepo,
	}
}

// ListAuditLogs returns the newest entries first, at most 100 unless a limit is given
func (u *auditLogUsecase) ListAuditLogs(ctx context.Context, filter *dto.AuditLogFilterRequest) (*dto.AuditLogListResponse, error) {
	query := &entity.AuditLogFilter{
		Action:  strings.TrimSpace(filter.Action),
		ActorID: filter.ActorID,
		Limit:   filter.Limit,
		Offset:  filter.Offset,
	}
	if query.Limit <= 0 {
		query.Limit = defaultAuditLogLimit
	}
	if filter.Since != "" {
		since, err := entity.ParseDate(filter.Since)
		if err != nil {
			return nil, validationError("since must use the YYYY-MM-DD format")
		}
		query.Since = &since.Time
	}

	logs, total, err := u.auditLogRepo.FindAll(u.db.WithContext(ctx), query)
	if err != nil {
		u.log.Warnf("Failed to list audit logs: %+v", err)
		return nil, err
	}

	return &dto.AuditLogListResponse{
		Logs:  converter.AuditLogsToResponses(logs),
		Total: total,
	}, nil
}

func (u *auditLogUsecase) GetAuditLog(ctx context.Context, id int64) (*dto.AuditLogResponse, error) {
	auditLog, err := u.auditLogRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find audit log %d: %+v", id, err)
		return nil, err
	}
	if auditLog == nil {
		return nil, ErrAuditLogNotFound
	}

	return converter.AuditLogToResponse(auditLog), nil
}
