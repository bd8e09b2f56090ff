package service

import (
	"context"
	"errors"
	"fmt"

	"marcha-api/internal/domain/entity"
	"marcha-api/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ErrAmbiguousAthlete is returned when a legacy name match finds more than one athlete
var ErrAmbiguousAthlete = errors.New("more than one unlinked athlete matches the patient name")

// ScoringService holds the gamification rules shared by the appointment
// workflow and the manual score endpoints. Every method runs on the
// transaction it is given.
type ScoringService interface {
	FindAthleteForPatient(ctx context.Context, tx *gorm.DB, patient *entity.Patient) (*entity.Athlete, error)
	AwardAttendance(ctx context.Context, tx *gorm.DB, athleteID int64, appointmentID *int64) (*entity.Score, error)
	Award(ctx context.Context, tx *gorm.DB, athleteID int64, rule *entity.ScoringRule, appointmentID *int64) (*entity.Score, error)
}

type scoringService struct {
	log         *logrus.Logger
	athleteRepo repository.AthleteRepository
	ruleRepo    repository.ScoringRuleRepository
	scoreRepo   repository.ScoreRepository
}

func NewScoringService(
	log *logrus.Logger,
	athleteRepo repository.AthleteRepository,
	ruleRepo repository.ScoringRuleRepository,
	scoreRepo repository.ScoreRepository,
) ScoringService {
	return &scoringService{
		log:         log,
		athleteRepo: athleteRepo,
		ruleRepo:    ruleRepo,
		scoreRepo:   scoreRepo,
	}
}

// FindAthleteForPatient resolves the athlete linked to the patient. Legacy
// athletes without a patient reference are matched by exact name, but only
// when the match is unique. Returns (nil, nil) when there is no athlete.
func (s *scoringService) FindAthleteForPatient(ctx context.Context, tx *gorm.DB, patient *entity.Patient) (*entity.Athlete, error) {
	db := tx.WithContext(ctx)

	athlete, err := s.athleteRepo.FindByPatientID(db, patient.ID)
	if err != nil {
		return nil, fmt.Errorf("find athlete by patient: %w", err)
	}
	if athlete != nil {
		return athlete, nil
	}

	candidates, err := s.athleteRepo.FindUnlinkedByName(db, patient.Name)
	if err != nil {
		return nil, fmt.Errorf("find athlete by name: %w", err)
	}

	switch len(candidates) {
	case 0:
		return nil, nil
	case 1:
		return &candidates[0], nil
	default:
		return nil, ErrAmbiguousAthlete
	}
}

// AwardAttendance appends one score for the attendance rule, creating the
// rule with its default value if it does not exist yet. It is not
// idempotent; callers guard against awarding twice.
func (s *scoringService) AwardAttendance(ctx context.Context, tx *gorm.DB, athleteID int64, appointmentID *int64) (*entity.Score, error) {
	db := tx.WithContext(ctx)

	rule, err := s.ruleRepo.FindByName(db, entity.AttendanceRuleName)
	if err != nil {
		return nil, fmt.Errorf("find attendance rule: %w", err)
	}

	if rule == nil {
		rule = &entity.ScoringRule{
			Name:        entity.AttendanceRuleName,
			Value:       entity.AttendanceRuleValue,
			Description: "Comparecimento confirmado em atendimento",
			Active:      true,
		}
		if err := s.ruleRepo.Create(db, rule); err != nil {
			return nil, fmt.Errorf("create attendance rule: %w", err)
		}
		s.log.Infof("Created missing scoring rule %q", entity.AttendanceRuleName)
	}

	return s.Award(ctx, tx, athleteID, rule, appointmentID)
}

// Award appends one score for the given rule
func (s *scoringService) Award(ctx context.Context, tx *gorm.DB, athleteID int64, rule *entity.ScoringRule, appointmentID *int64) (*entity.Score, error) {
	score := &entity.Score{
		AthleteID:     athleteID,
		RuleID:        rule.ID,
		AppointmentID: appointmentID,
	}

	if err := s.scoreRepo.Create(tx.WithContext(ctx), score); err != nil {
		return nil, fmt.Errorf("create score: %w", err)
	}

	s.log.Debugf("Awarded %d points (%s) to athlete %d", rule.Value, rule.Name, athleteID)
	return score, nil
}
