package usecase

import (
	"context"
	"strings"

	"marcha-api/internal/converter"
	"marcha-api/internal/delivery/dto"
	"marcha-api/internal/domain/entity"
	"marcha-api/internal/domain/repository"
	"marcha-api/internal/service"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrPatientAlreadyLinked = newError(ErrConflict, "patient is already linked to another athlete")
)

type AthleteUsecase interface {
	CreateAthlete(ctx context.Context, req *dto.CreateAthleteRequest) (*dto.AthleteResponse, error)
	GetAthlete(ctx context.Context, id int64) (*dto.AthleteResponse, error)
	GetScoreHistory(ctx context.Context, id int64) (*dto.ScoreHistoryResponse, error)
	AssignHouse(ctx context.Context, id int64, req *dto.AssignHouseRequest) (*dto.AthleteResponse, error)
	LinkPatient(ctx context.Context, id int64, req *dto.LinkPatientRequest) (*dto.AthleteResponse, error)
}

type athleteUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	athleteRepo  repository.AthleteRepository
	houseRepo    repository.HouseRepository
	patientRepo  repository.PatientRepository
	scoreRepo    repository.ScoreRepository
	rankingCache service.RankingCache
}

func NewAthleteUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	athleteRepo repository.AthleteRepository,
	houseRepo repository.HouseRepository,
	patientRepo repository.PatientRepository,
	scoreRepo repository.ScoreRepository,
	rankingCache service.RankingCache,
) AthleteUsecase {
	return &athleteUsecase{
		db:           db,
		log:          log,
		athleteRepo:  athleteRepo,
		houseRepo:    houseRepo,
		patientRepo:  patientRepo,
		scoreRepo:    scoreRepo,
		rankingCache: rankingCache,
	}
}

func (u *athleteUsecase) CreateAthlete(ctx context.Context, req *dto.CreateAthleteRequest) (*dto.AthleteResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" || len(name) > 200 {
		return nil, validationError("name is required and must be at most 200 characters")
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	athlete := &entity.Athlete{Name: name}

	if req.HouseID != nil {
		house, err := u.houseRepo.FindByID(tx, *req.HouseID)
		if err != nil {
			u.log.Warnf("Failed to find house %d: %+v", *req.HouseID, err)
			return nil, err
		}
		if house == nil {
			return nil, ErrHouseNotFound
		}
		athlete.HouseID = &house.ID
		athlete.House = house
	}

	if req.PatientID != nil {
		if err := u.checkPatientLinkable(tx, *req.PatientID, 0); err != nil {
			return nil, err
		}
		athlete.PatientID = req.PatientID
	}

	if err := u.athleteRepo.Create(tx, athlete); err != nil {
		if isDuplicateKeyError(err, "patient_id") {
			return nil, ErrPatientAlreadyLinked
		}
		u.log.Warnf("Failed to create athlete: %+v", err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.log.Infof("Athlete created: id=%d, name=%s", athlete.ID, athlete.Name)
	return converter.AthleteToResponse(athlete, 0), nil
}

func (u *athleteUsecase) GetAthlete(ctx context.Context, id int64) (*dto.AthleteResponse, error) {
	db := u.db.WithContext(ctx)

	athlete, err := u.athleteRepo.FindByID(db, id)
	if err != nil {
		u.log.Warnf("Failed to find athlete %d: %+v", id, err)
		return nil, err
	}
	if athlete == nil {
		return nil, ErrAthleteNotFound
	}

	total, err := u.athleteRepo.TotalPoints(db, id)
	if err != nil {
		u.log.Warnf("Failed to sum points of athlete %d: %+v", id, err)
		return nil, err
	}

	return converter.AthleteToResponse(athlete, total), nil
}

func (u *athleteUsecase) GetScoreHistory(ctx context.Context, id int64) (*dto.ScoreHistoryResponse, error) {
	db := u.db.WithContext(ctx)

	athlete, err := u.athleteRepo.FindByID(db, id)
	if err != nil {
		u.log.Warnf("Failed to find athlete %d: %+v", id, err)
		return nil, err
	}
	if athlete == nil {
		return nil, ErrAthleteNotFound
	}

	entries, err := u.scoreRepo.FindHistoryByAthleteID(db, id)
	if err != nil {
		u.log.Warnf("Failed to load score history of athlete %d: %+v", id, err)
		return nil, err
	}

	return &dto.ScoreHistoryResponse{
		AthleteID: id,
		Scores:    converter.ScoreEntriesToResponses(entries),
		Total:     len(entries),
	}, nil
}

// AssignHouse sorts the athlete into a house, or moves it to another one.
// Its points move with it.
func (u *athleteUsecase) AssignHouse(ctx context.Context, id int64, req *dto.AssignHouseRequest) (*dto.AthleteResponse, error) {
	db := u.db.WithContext(ctx)

	athlete, err := u.athleteRepo.FindByID(db, id)
	if err != nil {
		u.log.Warnf("Failed to find athlete %d: %+v", id, err)
		return nil, err
	}
	if athlete == nil {
		return nil, ErrAthleteNotFound
	}

	house, err := u.houseRepo.FindByID(db, req.HouseID)
	if err != nil {
		u.log.Warnf("Failed to find house %d: %+v", req.HouseID, err)
		return nil, err
	}
	if house == nil || !house.Active {
		return nil, ErrHouseNotFound
	}

	athlete.HouseID = &house.ID
	athlete.House = house
	if err := u.athleteRepo.Update(db, athlete); err != nil {
		u.log.Warnf("Failed to assign athlete %d to house %d: %+v", id, house.ID, err)
		return nil, err
	}

	u.rankingCache.Invalidate(ctx)

	total, err := u.athleteRepo.TotalPoints(db, id)
	if err != nil {
		u.log.Warnf("Failed to sum points of athlete %d: %+v", id, err)
		return nil, err
	}

	u.log.Infof("Athlete %d sorted into house %d", id, house.ID)
	return converter.AthleteToResponse(athlete, total), nil
}

// LinkPatient attaches a legacy athlete to its patient record
func (u *athleteUsecase) LinkPatient(ctx context.Context, id int64, req *dto.LinkPatientRequest) (*dto.AthleteResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	athlete, err := u.athleteRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find athlete %d: %+v", id, err)
		return nil, err
	}
	if athlete == nil {
		return nil, ErrAthleteNotFound
	}

	if err := u.checkPatientLinkable(tx, req.PatientID, athlete.ID); err != nil {
		return nil, err
	}

	athlete.PatientID = &req.PatientID
	if err := u.athleteRepo.Update(tx, athlete); err != nil {
		if isDuplicateKeyError(err, "patient_id") {
			return nil, ErrPatientAlreadyLinked
		}
		u.log.Warnf("Failed to link athlete %d to patient %d: %+v", id, req.PatientID, err)
		return nil, err
	}

	total, err := u.athleteRepo.TotalPoints(tx, id)
	if err != nil {
		u.log.Warnf("Failed to sum points of athlete %d: %+v", id, err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.AthleteToResponse(athlete, total), nil
}

// checkPatientLinkable verifies the patient exists and has no other athlete
func (u *athleteUsecase) checkPatientLinkable(tx *gorm.DB, patientID, athleteID int64) error {
	patient, err := u.patientRepo.FindByID(tx, patientID)
	if err != nil {
		u.log.Warnf("Failed to find patient %d: %+v", patientID, err)
		return err
	}
	if patient == nil {
		return ErrPatientNotFound
	}

	linked, err := u.athleteRepo.FindByPatientID(tx, patientID)
	if err != nil {
		u.log.Warnf("Failed to find athlete of patient %d: %+v", patientID, err)
		return err
	}
	if linked != nil && linked.ID != athleteID {
		return ErrPatientAlreadyLinked
	}
	return nil
}
