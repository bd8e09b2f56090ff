package usecase

import (
	"context"
	"errors"
	"testing"

	"marcha-api/internal/delivery/dto"
	"marcha-api/internal/domain/entity"
	"marcha-api/internal/repository"
	"marcha-api/internal/service"
)

func TestListAuditLogs(t *testing.T) {
	db := newTestDB(t)
	log := newTestLogger()
	auditService := service.NewAuditService(log, repository.NewAuditLogRepository())
	uc := NewAuditLogUsecase(db, log, repository.NewAuditLogRepository())
	ctx := context.Background()

	staff := createPatient(t, db, "Fisio")
	actions := []string{
		entity.AuditActionUserLogin,
		entity.AuditActionAppointmentCreate,
		entity.AuditActionAppointmentConfirm,
		entity.AuditActionAppointmentConfirm,
		entity.AuditActionScoreAward,
	}
	for _, action := range actions {
		if err := auditService.LogAction(ctx, db, &staff.ID, action, map[string]interface{}{"k": "v"}); err != nil {
			t.Fatalf("log %s: %v", action, err)
		}
	}
	if err := auditService.LogAction(ctx, db, nil, entity.AuditActionDataReset, nil); err != nil {
		t.Fatalf("log reset: %v", err)
	}

	tests := []struct {
		name      string
		filter    dto.AuditLogFilterRequest
		wantTotal int64
		wantLen   int
	}{
		{"all", dto.AuditLogFilterRequest{}, 6, 6},
		{"action prefix", dto.AuditLogFilterRequest{Action: "appointment."}, 3, 3},
		{"exact action", dto.AuditLogFilterRequest{Action: entity.AuditActionAppointmentConfirm}, 2, 2},
		{"by actor", dto.AuditLogFilterRequest{ActorID: staff.ID}, 5, 5},
		{"page", dto.AuditLogFilterRequest{Limit: 2, Offset: 1}, 6, 2},
		{"since future", dto.AuditLogFilterRequest{Since: "2999-01-01"}, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := uc.ListAuditLogs(ctx, &tt.filter)
			if err != nil {
				t.Fatalf("ListAuditLogs: %v", err)
			}
			if result.Total != tt.wantTotal || len(result.Logs) != tt.wantLen {
				t.Errorf("total=%d len=%d, want total=%d len=%d", result.Total, len(result.Logs), tt.wantTotal, tt.wantLen)
			}
		})
	}

	newest, err := uc.ListAuditLogs(ctx, &dto.AuditLogFilterRequest{Limit: 1})
	if err != nil {
		t.Fatalf("ListAuditLogs: %v", err)
	}
	if len(newest.Logs) != 1 || newest.Logs[0].Action != entity.AuditActionDataReset || newest.Logs[0].ActorName != "" {
		t.Errorf("newest entry = %+v", newest.Logs)
	}

	byActor, err := uc.ListAuditLogs(ctx, &dto.AuditLogFilterRequest{ActorID: staff.ID, Limit: 1})
	if err != nil {
		t.Fatalf("ListAuditLogs: %v", err)
	}
	if len(byActor.Logs) != 1 || byActor.Logs[0].ActorName != "Fisio" {
		t.Errorf("actor entry = %+v", byActor.Logs)
	}

	if _, err := uc.ListAuditLogs(ctx, &dto.AuditLogFilterRequest{Since: "yesterday"}); !errors.Is(err, ErrValidation) {
		t.Errorf("bad since err = %v", err)
	}
	if _, err := uc.GetAuditLog(ctx, 9999); !errors.Is(err, ErrAuditLogNotFound) {
		t.Errorf("unknown id err = %v", err)
	}
}
