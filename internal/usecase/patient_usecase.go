package usecase

import (
	"context"
	"errors"
	"io"
	"strings"

	"marcha-api/internal/converter"
	"marcha-api/internal/delivery/dto"
	"marcha-api/internal/domain/entity"
	"marcha-api/internal/domain/repository"
	"marcha-api/internal/infrastructure/storage"
	"marcha-api/internal/service"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUsernameAlreadyExists = newError(ErrConflict, "username already exists")
	ErrPasswordWithoutLogin  = newError(ErrValidation, "password requires a username")
)

type PatientUsecase interface {
	ListPatients(ctx context.Context, search string, active *bool) (*dto.PatientListResponse, error)
	GetPatient(ctx context.Context, id int64) (*dto.PatientResponse, error)
	CreatePatient(ctx context.Context, req *dto.CreatePatientRequest) (*dto.PatientResponse, error)
	UpdatePatient(ctx context.Context, id int64, req *dto.UpdatePatientRequest) (*dto.PatientResponse, error)
	DeactivatePatient(ctx context.Context, id int64) error
	UpdatePhoto(ctx context.Context, id int64, photo io.Reader) (*dto.PatientResponse, error)
}

const photoFolder = "patients"

type patientUsecase struct {
	db          *gorm.DB
	log         *logrus.Logger
	patientRepo  repository.PatientRepository
	tokenStore   service.TokenStore
	imageStorage storage.ImageStorage
}

func NewPatientUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	patientRepo repository.PatientRepository,
	tokenStore service.TokenStore,
	imageStorage storage.ImageStorage,
) PatientUsecase {
	return &patientUsecase{
		db:           db,
		log:          log,
		patientRepo:  patientRepo,
		tokenStore:   tokenStore,
		imageStorage: imageStorage,
	}
}

func (u *patientUsecase) ListPatients(ctx context.Context, search string, active *bool) (*dto.PatientListResponse, error) {
	patients, err := u.patientRepo.FindAll(u.db.WithContext(ctx), &entity.PatientFilter{
		Search: strings.TrimSpace(search),
		Active: active,
	})
	if err != nil {
		u.log.Warnf("Failed to list patients: %+v", err)
		return nil, err
	}

	return &dto.PatientListResponse{
		Patients: converter.PatientsToResponses(patients),
		Total:    len(patients),
	}, nil
}

func (u *patientUsecase) GetPatient(ctx context.Context, id int64) (*dto.PatientResponse, error) {
	patient, err := u.patientRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find patient %d: %+v", id, err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	return converter.PatientToResponse(patient), nil
}

func (u *patientUsecase) CreatePatient(ctx context.Context, req *dto.CreatePatientRequest) (*dto.PatientResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, validationError("name is required")
	}

	patient := &entity.Patient{
		Name:                  name,
		Role:                  entity.RoleClient,
		CPF:                   strings.TrimSpace(req.CPF),
		Phone:                 strings.TrimSpace(req.Phone),
		Email:                 strings.TrimSpace(req.Email),
		Address:               strings.TrimSpace(req.Address),
		City:                  strings.TrimSpace(req.City),
		State:                 strings.ToUpper(strings.TrimSpace(req.State)),
		ZipCode:               strings.TrimSpace(req.ZipCode),
		EmergencyContact:      strings.TrimSpace(req.EmergencyContact),
		EmergencyPhone:        strings.TrimSpace(req.EmergencyPhone),
		HealthInsurance:       strings.TrimSpace(req.HealthInsurance),
		HealthInsuranceNumber: strings.TrimSpace(req.HealthInsuranceNumber),
		Notes:                 strings.TrimSpace(req.Notes),
		Active:                true,
	}

	if req.Role != "" {
		if !entity.IsValidRole(req.Role) {
			return nil, validationError("role must be one of: admin fisio aluno cliente")
		}
		patient.Role = req.Role
	}

	if req.BirthDate != "" {
		birthDate, err := entity.ParseDate(req.BirthDate)
		if err != nil {
			return nil, validationError("birth_date must use the YYYY-MM-DD format")
		}
		patient.BirthDate = &birthDate
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.applyCredentials(tx, patient, optionalString(req.Username), optionalString(req.Password)); err != nil {
		return nil, err
	}

	if err := u.patientRepo.Create(tx, patient); err != nil {
		if isDuplicateKeyError(err, "username") {
			return nil, ErrUsernameAlreadyExists
		}
		u.log.Warnf("Failed to create patient: %+v", err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.log.Infof("Patient created: id=%d", patient.ID)
	return converter.PatientToResponse(patient), nil
}

func (u *patientUsecase) UpdatePatient(ctx context.Context, id int64, req *dto.UpdatePatientRequest) (*dto.PatientResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	patient, err := u.patientRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find patient %d: %+v", id, err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, validationError("name is required")
		}
		patient.Name = name
	}
	if req.BirthDate != nil {
		if strings.TrimSpace(*req.BirthDate) == "" {
			patient.BirthDate = nil
		} else {
			birthDate, err := entity.ParseDate(*req.BirthDate)
			if err != nil {
				return nil, validationError("birth_date must use the YYYY-MM-DD format")
			}
			patient.BirthDate = &birthDate
		}
	}
	if req.Role != nil {
		if !entity.IsValidRole(*req.Role) {
			return nil, validationError("role must be one of: admin fisio aluno cliente")
		}
		patient.Role = *req.Role
	}
	if req.Active != nil {
		patient.Active = *req.Active
	}
	if req.State != nil {
		patient.State = strings.ToUpper(strings.TrimSpace(*req.State))
	}

	assignTrimmed(&patient.CPF, req.CPF)
	assignTrimmed(&patient.Phone, req.Phone)
	assignTrimmed(&patient.Email, req.Email)
	assignTrimmed(&patient.Address, req.Address)
	assignTrimmed(&patient.City, req.City)
	assignTrimmed(&patient.ZipCode, req.ZipCode)
	assignTrimmed(&patient.EmergencyContact, req.EmergencyContact)
	assignTrimmed(&patient.EmergencyPhone, req.EmergencyPhone)
	assignTrimmed(&patient.HealthInsurance, req.HealthInsurance)
	assignTrimmed(&patient.HealthInsuranceNumber, req.HealthInsuranceNumber)
	assignTrimmed(&patient.Notes, req.Notes)

	credentialsChanged := req.Password != nil
	if err := u.applyCredentials(tx, patient, req.Username, req.Password); err != nil {
		return nil, err
	}

	if err := u.patientRepo.Update(tx, patient); err != nil {
		if isDuplicateKeyError(err, "username") {
			return nil, ErrUsernameAlreadyExists
		}
		u.log.Warnf("Failed to update patient %d: %+v", id, err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	// a new password or a deactivation ends existing sessions
	if credentialsChanged || !patient.Active {
		if err := u.tokenStore.RevokeAll(ctx, patient.ID); err != nil {
			u.log.Warnf("Failed to revoke sessions of patient %d (non-fatal): %+v", patient.ID, err)
		}
	}

	return converter.PatientToResponse(patient), nil
}

// DeactivatePatient soft deletes the patient; history stays intact
func (u *patientUsecase) DeactivatePatient(ctx context.Context, id int64) error {
	rowsAffected, err := u.patientRepo.Deactivate(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to deactivate patient %d: %+v", id, err)
		return err
	}
	if rowsAffected == 0 {
		return ErrPatientNotFound
	}

	if err := u.tokenStore.RevokeAll(ctx, id); err != nil {
		u.log.Warnf("Failed to revoke sessions of patient %d (non-fatal): %+v", id, err)
	}

	u.log.Infof("Patient deactivated: id=%d", id)
	return nil
}

// UpdatePhoto normalizes and stores an uploaded photo, replacing the previous one
func (u *patientUsecase) UpdatePhoto(ctx context.Context, id int64, photo io.Reader) (*dto.PatientResponse, error) {
	db := u.db.WithContext(ctx)

	patient, err := u.patientRepo.FindByID(db, id)
	if err != nil {
		u.log.Warnf("Failed to find patient %d: %+v", id, err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	photoPath, err := u.imageStorage.SaveImage(photoFolder, photo)
	if err != nil {
		if errors.Is(err, storage.ErrFileTooLarge) || errors.Is(err, storage.ErrUnsupportedFormat) || errors.Is(err, storage.ErrInvalidImage) {
			return nil, validationError(err.Error())
		}
		u.log.Warnf("Failed to store photo of patient %d: %+v", id, err)
		return nil, err
	}

	previous := patient.Photo
	patient.Photo = &photoPath
	if err := u.patientRepo.Update(db, patient); err != nil {
		u.log.Warnf("Failed to update photo of patient %d: %+v", id, err)
		if removeErr := u.imageStorage.Remove(photoPath); removeErr != nil {
			u.log.Warnf("Failed to remove orphan photo %s: %+v", photoPath, removeErr)
		}
		return nil, err
	}

	if previous != nil && *previous != "" {
		if err := u.imageStorage.Remove(*previous); err != nil {
			u.log.Warnf("Failed to remove old photo %s: %+v", *previous, err)
		}
	}

	return converter.PatientToResponse(patient), nil
}

// applyCredentials sets username and password hash. An empty username removes the login.
func (u *patientUsecase) applyCredentials(tx *gorm.DB, patient *entity.Patient, username, password *string) error {
	if username != nil {
		trimmed := strings.ToLower(strings.TrimSpace(*username))
		if trimmed == "" {
			patient.Username = nil
			patient.PasswordHash = ""
		} else {
			existing, err := u.patientRepo.FindByUsername(tx, trimmed)
			if err != nil {
				u.log.Warnf("Failed to check username: %+v", err)
				return err
			}
			if existing != nil && existing.ID != patient.ID {
				return ErrUsernameAlreadyExists
			}
			patient.Username = &trimmed
		}
	}

	if password != nil && *password != "" {
		if patient.Username == nil {
			return ErrPasswordWithoutLogin
		}
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
		if err != nil {
			u.log.Warnf("Failed to hash password: %+v", err)
			return err
		}
		patient.PasswordHash = string(hashedPassword)
	}

	return nil
}

func assignTrimmed(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
