package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"marcha-api/internal/converter"
	"marcha-api/internal/delivery/dto"
	"marcha-api/internal/delivery/http/middleware"
	"marcha-api/internal/domain/entity"
	"marcha-api/internal/domain/repository"
	"marcha-api/internal/service"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrAppointmentAlreadyFinalized = newError(ErrConflict, "appointment is already confirmed")
	ErrCreateAppointmentFailed     = newError(ErrTransaction, "failed to create appointment")
	ErrConfirmFailed               = newError(ErrTransaction, "failed to confirm appointment")
)

type AppointmentUsecase interface {
	CreateAppointment(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.CreateAppointmentResponse, error)
	ConfirmAppointment(ctx context.Context, id int64, req *dto.ConfirmAppointmentRequest) (*dto.ConfirmAppointmentResponse, error)
	GetAppointment(ctx context.Context, id int64) (*dto.AppointmentResponse, error)
	ListAppointments(ctx context.Context, filter *dto.AppointmentFilterRequest) (*dto.AppointmentListResponse, error)
	UpdateAppointment(ctx context.Context, id int64, req *dto.UpdateAppointmentRequest) (*dto.AppointmentResponse, error)
	DeleteAppointment(ctx context.Context, id int64) error
}

type appointmentUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
	patientRepo     repository.PatientRepository
	transactionRepo repository.FinancialTransactionRepository
	scoringService  service.ScoringService
	auditService    service.AuditService
	rankingCache    service.RankingCache
	defaultPrice    decimal.Decimal
	now             func() time.Time
}

func NewAppointmentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	patientRepo repository.PatientRepository,
	transactionRepo repository.FinancialTransactionRepository,
	scoringService service.ScoringService,
	auditService service.AuditService,
	rankingCache service.RankingCache,
	defaultPrice decimal.Decimal,
) AppointmentUsecase {
	return &appointmentUsecase{
		db:              db,
		log:             log,
		appointmentRepo: appointmentRepo,
		patientRepo:     patientRepo,
		transactionRepo: transactionRepo,
		scoringService:  scoringService,
		auditService:    auditService,
		rankingCache:    rankingCache,
		defaultPrice:    defaultPrice,
		now:             time.Now,
	}
}

// CreateAppointment books an appointment, or a weekly series of them, and
// generates one pending income transaction per occurrence. The whole series
// is written in a single transaction: either every occurrence exists or none.
func (u *appointmentUsecase) CreateAppointment(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.CreateAppointmentResponse, error) {
	title := strings.TrimSpace(req.Title)
	baseDate := strings.TrimSpace(req.AppointmentDate)
	startTime := strings.TrimSpace(req.StartTime)

	if req.PatientID <= 0 {
		return nil, validationError("patient_id is required")
	}
	if title == "" {
		return nil, validationError("title is required")
	}
	if baseDate == "" {
		return nil, validationError("appointment_date is required")
	}
	if startTime == "" {
		return nil, validationError("start_time is required")
	}
	if _, err := parseClock(startTime); err != nil {
		return nil, validationError("start_time must use the HH:MM format")
	}
	endTime := strings.TrimSpace(req.EndTime)
	if endTime != "" {
		if _, err := parseClock(endTime); err != nil {
			return nil, validationError("end_time must use the HH:MM format")
		}
	}

	price := u.defaultPrice
	if req.Price != nil {
		price = *req.Price
	}
	if price.IsNegative() {
		return nil, validationError("price must not be negative")
	}

	mode, err := entity.ParseRecurrenceMode(req.Recurrence)
	if err != nil {
		return nil, validationError(err.Error())
	}
	dates, err := entity.ExpandRecurrence(baseDate, mode)
	if err != nil {
		return nil, validationError(err.Error())
	}

	serviceType := strings.TrimSpace(req.ServiceType)
	if serviceType == "" {
		serviceType = entity.DefaultServiceType
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	patient, err := u.patientRepo.FindByID(tx, req.PatientID)
	if err != nil {
		u.log.Warnf("Failed to find patient %d: %+v", req.PatientID, err)
		return nil, fmt.Errorf("%w: %w", ErrCreateAppointmentFailed, err)
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	ids := make([]int64, 0, len(dates))
	for _, date := range dates {
		appointment := &entity.Appointment{
			PatientID:       patient.ID,
			Title:           title,
			Description:     strings.TrimSpace(req.Description),
			AppointmentDate: date,
			StartTime:       startTime,
			EndTime:         endTime,
			ServiceType:     serviceType,
			Professional:    strings.TrimSpace(req.Professional),
			Status:          entity.AppointmentStatusScheduled,
			Notes:           strings.TrimSpace(req.Notes),
		}
		if err := u.appointmentRepo.Create(tx, appointment); err != nil {
			u.log.Warnf("Failed to create appointment for patient %d on %s: %+v", patient.ID, date, err)
			return nil, fmt.Errorf("%w: %w", ErrCreateAppointmentFailed, err)
		}

		dueDate := date
		patientID := patient.ID
		appointmentID := appointment.ID
		transaction := &entity.FinancialTransaction{
			Type:          entity.TransactionTypeIncome,
			Category:      entity.CategoryAppointment,
			Description:   fmt.Sprintf("%s - %s (%s)", serviceType, patient.Name, date),
			Amount:        price,
			DueDate:       &dueDate,
			PatientID:     &patientID,
			AppointmentID: &appointmentID,
		}
		if err := u.transactionRepo.Create(tx, transaction); err != nil {
			u.log.Warnf("Failed to create transaction for appointment %d: %+v", appointment.ID, err)
			return nil, fmt.Errorf("%w: %w", ErrCreateAppointmentFailed, err)
		}

		ids = append(ids, appointment.ID)
	}

	if err := u.auditService.LogAction(ctx, tx, actorFromContext(ctx), entity.AuditActionAppointmentCreate, map[string]interface{}{
		"patient_id":      patient.ID,
		"appointment_ids": ids,
		"recurrence":      string(mode),
		"price":           price.StringFixed(2),
	}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCreateAppointmentFailed, err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, fmt.Errorf("%w: %w", ErrCreateAppointmentFailed, err)
	}

	u.log.Infof("Appointments created: patient=%d, count=%d, first=%d, recurrence=%s", patient.ID, len(ids), ids[0], mode)

	return &dto.CreateAppointmentResponse{
		ID:    ids[0],
		IDs:   ids,
		Count: len(ids),
	}, nil
}

// ConfirmAppointment finalizes a scheduled appointment. Completing it settles
// the generated transaction and awards attendance points to the patient's
// athlete; a no-show only records the status. All writes share one
// transaction and roll back together.
func (u *appointmentUsecase) ConfirmAppointment(ctx context.Context, id int64, req *dto.ConfirmAppointmentRequest) (*dto.ConfirmAppointmentResponse, error) {
	target, err := entity.ParseConfirmStatus(req.Status)
	if err != nil {
		return nil, validationError(err.Error())
	}
	if req.Amount != nil && req.Amount.IsNegative() {
		return nil, validationError("amount must not be negative")
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	appointment, err := u.appointmentRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find appointment %d: %+v", id, err)
		return nil, fmt.Errorf("%w: %w", ErrConfirmFailed, err)
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if !appointment.IsScheduled() {
		return nil, ErrAppointmentAlreadyFinalized
	}

	// Only a scheduled appointment moves; a retried or concurrent confirm sees 0 rows
	rowsAffected, err := u.appointmentRepo.TransitionStatus(tx, id, entity.AppointmentStatusScheduled, target)
	if err != nil {
		u.log.Warnf("Failed to update status of appointment %d: %+v", id, err)
		return nil, fmt.Errorf("%w: %w", ErrConfirmFailed, err)
	}
	if rowsAffected == 0 {
		return nil, ErrAppointmentAlreadyFinalized
	}

	result := &dto.ConfirmAppointmentResponse{
		ID:     id,
		Status: string(target),
	}

	if target == entity.AppointmentStatusCompleted {
		paid, err := u.transactionRepo.MarkPaidByAppointment(tx, id, entity.NewDate(u.now()), req.Amount, strings.TrimSpace(req.PaymentMethod))
		if err != nil {
			u.log.Warnf("Failed to settle transaction of appointment %d: %+v", id, err)
			return nil, fmt.Errorf("%w: %w", ErrConfirmFailed, err)
		}
		if paid == 0 {
			u.log.Warnf("Appointment %d has no generated transaction to settle", id)
		}
		result.Paid = paid > 0

		athleteID, err := u.awardAttendance(ctx, tx, appointment)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrConfirmFailed, err)
		}
		if athleteID != nil {
			result.AthleteID = athleteID
			result.ScoreAwarded = true
		}
	}

	metadata := map[string]interface{}{
		"appointment_id": id,
		"status":         string(target),
		"paid":           result.Paid,
		"score_awarded":  result.ScoreAwarded,
	}
	if req.Amount != nil {
		metadata["amount"] = req.Amount.StringFixed(2)
	}
	if err := u.auditService.LogAction(ctx, tx, actorFromContext(ctx), entity.AuditActionAppointmentConfirm, metadata); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfirmFailed, err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, fmt.Errorf("%w: %w", ErrConfirmFailed, err)
	}

	if result.ScoreAwarded {
		u.rankingCache.Invalidate(ctx)
	}

	u.log.Infof("Appointment confirmed: id=%d, status=%s, paid=%t, score=%t", id, target, result.Paid, result.ScoreAwarded)

	return result, nil
}

// awardAttendance returns the athlete that received points, or nil when the
// patient has no athlete
func (u *appointmentUsecase) awardAttendance(ctx context.Context, tx *gorm.DB, appointment *entity.Appointment) (*int64, error) {
	patient := appointment.Patient
	if patient == nil {
		found, err := u.patientRepo.FindByID(tx, appointment.PatientID)
		if err != nil {
			u.log.Warnf("Failed to find patient %d: %+v", appointment.PatientID, err)
			return nil, err
		}
		patient = found
	}
	if patient == nil {
		u.log.Warnf("Appointment %d references missing patient %d, no points awarded", appointment.ID, appointment.PatientID)
		return nil, nil
	}

	athlete, err := u.scoringService.FindAthleteForPatient(ctx, tx, patient)
	if err != nil {
		if errors.Is(err, service.ErrAmbiguousAthlete) {
			u.log.Warnf("Patient %d (%s) matches several unlinked athletes, no points awarded", patient.ID, patient.Name)
			return nil, nil
		}
		u.log.Warnf("Failed to find athlete for patient %d: %+v", patient.ID, err)
		return nil, err
	}
	if athlete == nil {
		return nil, nil
	}

	appointmentID := appointment.ID
	if _, err := u.scoringService.AwardAttendance(ctx, tx, athlete.ID, &appointmentID); err != nil {
		u.log.Warnf("Failed to award attendance to athlete %d: %+v", athlete.ID, err)
		return nil, err
	}

	return &athlete.ID, nil
}

func (u *appointmentUsecase) GetAppointment(ctx context.Context, id int64) (*dto.AppointmentResponse, error) {
	appointment, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find appointment %d: %+v", id, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}

	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) ListAppointments(ctx context.Context, filter *dto.AppointmentFilterRequest) (*dto.AppointmentListResponse, error) {
	query := &entity.AppointmentFilter{
		Date:      filter.Date,
		StartDate: filter.StartDate,
		EndDate:   filter.EndDate,
		PatientID: filter.PatientID,
	}
	if filter.Status != "" {
		status, err := entity.ParseAppointmentStatus(filter.Status)
		if err != nil {
			return nil, validationError("status must be 'scheduled', 'completed' or 'no_show'")
		}
		query.Status = status
	}

	appointments, err := u.appointmentRepo.FindAll(u.db.WithContext(ctx), query)
	if err != nil {
		u.log.Warnf("Failed to list appointments: %+v", err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}

// UpdateAppointment edits an appointment directly. Changing the status here
// has no financial or scoring effect; use ConfirmAppointment for that.
func (u *appointmentUsecase) UpdateAppointment(ctx context.Context, id int64, req *dto.UpdateAppointmentRequest) (*dto.AppointmentResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	appointment, err := u.appointmentRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find appointment %d: %+v", id, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	before := converter.AppointmentToResponse(appointment)

	if req.PatientID != nil && *req.PatientID != appointment.PatientID {
		patient, err := u.patientRepo.FindByID(tx, *req.PatientID)
		if err != nil {
			u.log.Warnf("Failed to find patient %d: %+v", *req.PatientID, err)
			return nil, err
		}
		if patient == nil {
			return nil, ErrPatientNotFound
		}
		appointment.PatientID = patient.ID
		appointment.Patient = patient
	}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, validationError("title is required")
		}
		appointment.Title = title
	}
	if req.AppointmentDate != nil {
		date, err := entity.ParseDate(*req.AppointmentDate)
		if err != nil {
			return nil, validationError(err.Error())
		}
		appointment.AppointmentDate = date
	}
	if req.StartTime != nil {
		startTime := strings.TrimSpace(*req.StartTime)
		if _, err := parseClock(startTime); err != nil {
			return nil, validationError("start_time must use the HH:MM format")
		}
		appointment.StartTime = startTime
	}
	if req.EndTime != nil {
		endTime := strings.TrimSpace(*req.EndTime)
		if endTime != "" {
			if _, err := parseClock(endTime); err != nil {
				return nil, validationError("end_time must use the HH:MM format")
			}
		}
		appointment.EndTime = endTime
	}
	if req.ServiceType != nil {
		appointment.ServiceType = strings.TrimSpace(*req.ServiceType)
		if appointment.ServiceType == "" {
			appointment.ServiceType = entity.DefaultServiceType
		}
	}
	if req.Description != nil {
		appointment.Description = strings.TrimSpace(*req.Description)
	}
	if req.Professional != nil {
		appointment.Professional = strings.TrimSpace(*req.Professional)
	}
	if req.Notes != nil {
		appointment.Notes = strings.TrimSpace(*req.Notes)
	}
	if req.Status != nil {
		status, err := entity.ParseAppointmentStatus(*req.Status)
		if err != nil {
			return nil, validationError("status must be 'scheduled', 'completed' or 'no_show'")
		}
		appointment.Status = status
	}

	if err := u.appointmentRepo.Update(tx, appointment); err != nil {
		u.log.Warnf("Failed to update appointment %d: %+v", id, err)
		return nil, err
	}

	after := converter.AppointmentToResponse(appointment)
	if err := u.auditService.LogUpdate(ctx, tx, actorFromContext(ctx), entity.AuditActionAppointmentUpdate, "appointment", id, before, after); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return after, nil
}

// DeleteAppointment removes an appointment together with its pending
// transactions. Settled transactions stay in the ledger, detached.
func (u *appointmentUsecase) DeleteAppointment(ctx context.Context, id int64) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	appointment, err := u.appointmentRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find appointment %d: %+v", id, err)
		return err
	}
	if appointment == nil {
		return ErrAppointmentNotFound
	}

	removed, err := u.transactionRepo.DeletePendingByAppointment(tx, id)
	if err != nil {
		u.log.Warnf("Failed to delete pending transactions of appointment %d: %+v", id, err)
		return err
	}
	if err := u.transactionRepo.DetachFromAppointment(tx, id); err != nil {
		u.log.Warnf("Failed to detach transactions of appointment %d: %+v", id, err)
		return err
	}

	rowsAffected, err := u.appointmentRepo.Delete(tx, id)
	if err != nil {
		u.log.Warnf("Failed to delete appointment %d: %+v", id, err)
		return err
	}
	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}

	if err := u.auditService.LogDelete(ctx, tx, actorFromContext(ctx), entity.AuditActionAppointmentDelete, "appointment", id, converter.AppointmentToResponse(appointment)); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	u.log.Infof("Appointment deleted: id=%d, pending transactions removed=%d", id, removed)
	return nil
}

// actorFromContext returns the authenticated patient, if any
func actorFromContext(ctx context.Context) *int64 {
	patientID, ok := middleware.GetPatientIDFromContext(ctx)
	if !ok {
		return nil
	}
	return &patientID
}

func parseClock(s string) (time.Time, error) {
	if t, err := time.Parse("15:04", s); err == nil {
		return t, nil
	}
	return time.Parse("15:04:05", s)
}
