package usecase

import (
	"context"
	"strings"

	"marcha-api/internal/converter"
	"marcha-api/internal/delivery/dto"
	"marcha-api/internal/domain/entity"
	"marcha-api/internal/domain/repository"
	"marcha-api/internal/service"
	"marcha-api/pkg/jwt"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = newError(ErrUnauthorized, "invalid username or password")
	ErrInactiveAccount    = newError(ErrUnauthorized, "account is inactive")
)

type AuthUsecase interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Logout(ctx context.Context, patientID int64, tokenID string) error
	GetCurrentUser(ctx context.Context, patientID int64) (*dto.PatientResponse, error)
}

type authUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	patientRepo  repository.PatientRepository
	auditService service.AuditService
	jwtService   *jwt.JWTService
	tokenStore   service.TokenStore
}

func NewAuthUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	patientRepo repository.PatientRepository,
	auditService service.AuditService,
	jwtService *jwt.JWTService,
	tokenStore service.TokenStore,
) AuthUsecase {
	return &authUsecase{
		db:           db,
		log:          log,
		patientRepo:  patientRepo,
		auditService: auditService,
		jwtService:   jwtService,
		tokenStore:   tokenStore,
	}
}

func (u *authUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	username := strings.ToLower(strings.TrimSpace(req.Username))

	// Find patient by username (read-only, no transaction needed)
	patient, err := u.patientRepo.FindByUsername(u.db.WithContext(ctx), username)
	if err != nil {
		u.log.Warnf("Failed to find patient by username: %+v", err)
		return nil, err
	}
	if patient == nil || patient.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}

	// Verify password
	if err := bcrypt.CompareHashAndPassword([]byte(patient.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !patient.Active {
		return nil, ErrInactiveAccount
	}

	accessToken, tokenID, err := u.jwtService.GenerateAccessToken(patient.ID, username, patient.Role)
	if err != nil {
		u.log.Warnf("Failed to generate access token: %+v", err)
		return nil, err
	}

	if err := u.tokenStore.Store(ctx, patient.ID, tokenID, u.jwtService.GetAccessExpiry()); err != nil {
		return nil, err
	}

	if err := u.auditService.LogAction(ctx, u.db, &patient.ID, entity.AuditActionUserLogin, map[string]interface{}{
		"username": username,
		"role":     patient.Role,
	}); err != nil {
		u.log.Warnf("Failed to audit login of patient %d (non-fatal): %+v", patient.ID, err)
	}

	return &dto.TokenResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int64(u.jwtService.GetAccessExpiry().Seconds()),
		User:        *converter.PatientToResponse(patient),
	}, nil
}

func (u *authUsecase) Logout(ctx context.Context, patientID int64, tokenID string) error {
	if err := u.tokenStore.Revoke(ctx, patientID, tokenID); err != nil {
		return err
	}

	if err := u.auditService.LogAction(ctx, u.db, &patientID, entity.AuditActionUserLogout, nil); err != nil {
		u.log.Warnf("Failed to audit logout of patient %d (non-fatal): %+v", patientID, err)
	}
	return nil
}

func (u *authUsecase) GetCurrentUser(ctx context.Context, patientID int64) (*dto.PatientResponse, error) {
	patient, err := u.patientRepo.FindByID(u.db.WithContext(ctx), patientID)
	if err != nil {
		u.log.Warnf("Failed to find patient by ID: %+v", err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	return converter.PatientToResponse(patient), nil
}
