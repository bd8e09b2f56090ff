package usecase

import (
	"context"
	"errors"

	"marcha-api/internal/converter"
	"marcha-api/internal/delivery/dto"
	"marcha-api/internal/domain/repository"
	"marcha-api/internal/service"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type StudentPortalUsecase interface {
	GetPortal(ctx context.Context, patientID int64) (*dto.StudentPortalResponse, error)
}

type studentPortalUsecase struct {
	db             *gorm.DB
	log            *logrus.Logger
	patientRepo    repository.PatientRepository
	athleteRepo    repository.AthleteRepository
	houseRepo      repository.HouseRepository
	scoreRepo      repository.ScoreRepository
	scoringService service.ScoringService
	rankingCache   service.RankingCache
}

func NewStudentPortalUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	patientRepo repository.PatientRepository,
	athleteRepo repository.AthleteRepository,
	houseRepo repository.HouseRepository,
	scoreRepo repository.ScoreRepository,
	scoringService service.ScoringService,
	rankingCache service.RankingCache,
) StudentPortalUsecase {
	return &studentPortalUsecase{
		db:             db,
		log:            log,
		patientRepo:    patientRepo,
		athleteRepo:    athleteRepo,
		houseRepo:      houseRepo,
		scoreRepo:      scoreRepo,
		scoringService: scoringService,
		rankingCache:   rankingCache,
	}
}

// GetPortal gathers what a student sees: their athlete and points, their
// house, their score history and the cup ranking. A patient without an
// athlete still gets the ranking.
func (u *studentPortalUsecase) GetPortal(ctx context.Context, patientID int64) (*dto.StudentPortalResponse, error) {
	db := u.db.WithContext(ctx)

	patient, err := u.patientRepo.FindByID(db, patientID)
	if err != nil {
		u.log.Warnf("Failed to find patient %d: %+v", patientID, err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	response := &dto.StudentPortalResponse{
		Patient: dto.PatientSummary{
			ID:   patient.ID,
			Name: patient.Name,
			Role: patient.Role,
		},
		Scores: []dto.ScoreEntryResponse{},
	}

	athlete, err := u.scoringService.FindAthleteForPatient(ctx, db, patient)
	if err != nil && !errors.Is(err, service.ErrAmbiguousAthlete) {
		u.log.Warnf("Failed to find athlete for patient %d: %+v", patientID, err)
		return nil, err
	}

	if athlete != nil {
		total, err := u.athleteRepo.TotalPoints(db, athlete.ID)
		if err != nil {
			u.log.Warnf("Failed to sum points of athlete %d: %+v", athlete.ID, err)
			return nil, err
		}
		response.Athlete = converter.AthleteToResponse(athlete, total)

		if athlete.HouseID != nil {
			house := athlete.House
			if house == nil {
				if house, err = u.houseRepo.FindByID(db, *athlete.HouseID); err != nil {
					u.log.Warnf("Failed to find house %d: %+v", *athlete.HouseID, err)
					return nil, err
				}
			}
			if house != nil {
				response.House = converter.HouseToResponse(house)
			}
		}

		entries, err := u.scoreRepo.FindHistoryByAthleteID(db, athlete.ID)
		if err != nil {
			u.log.Warnf("Failed to load score history of athlete %d: %+v", athlete.ID, err)
			return nil, err
		}
		response.Scores = converter.ScoreEntriesToResponses(entries)
	}

	ranking, err := cupRanking(ctx, u.db, u.houseRepo, u.rankingCache)
	if err != nil {
		u.log.Warnf("Failed to compute cup ranking: %+v", err)
		return nil, err
	}
	response.Ranking = converter.HouseRanking(ranking)

	return response, nil
}
