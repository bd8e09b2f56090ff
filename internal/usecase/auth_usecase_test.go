package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"marcha-api/config"
	"marcha-api/internal/delivery/dto"
	"marcha-api/internal/domain/entity"
	"marcha-api/internal/repository"
	"marcha-api/internal/service"
	"marcha-api/pkg/jwt"
)

type authFixture struct {
	auth       AuthUsecase
	patients   PatientUsecase
	tokens     *memoryTokenStore
	jwtService *jwt.JWTService
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	db := newTestDB(t)
	log := newTestLogger()
	tokens := newMemoryTokenStore()
	jwtService := jwt.NewJWTService(config.JWTConfig{Secret: "test-secret", AccessExpiry: time.Hour})
	patientRepo := repository.NewPatientRepository()

	return &authFixture{
		auth:       NewAuthUsecase(db, log, patientRepo, service.NewAuditService(log, repository.NewAuditLogRepository()), jwtService, tokens),
		patients:   NewPatientUsecase(db, log, patientRepo, tokens, nil),
		tokens:     tokens,
		jwtService: jwtService,
	}
}

func TestLoginLogout(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	created, err := f.patients.CreatePatient(ctx, &dto.CreatePatientRequest{
		Name:     "Maria",
		Role:     entity.RoleStudent,
		Username: "Maria",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("create patient: %v", err)
	}

	token, err := f.auth.Login(ctx, &dto.LoginRequest{Username: "  MARIA ", Password: "secret123"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token.TokenType != "Bearer" || token.User.ID != created.ID {
		t.Errorf("token response = %+v", token)
	}

	claims, err := f.jwtService.ValidateToken(token.AccessToken)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.Role != entity.RoleStudent || claims.Username != "maria" {
		t.Errorf("claims = %+v", claims)
	}
	if ok, _ := f.tokens.Exists(ctx, created.ID, claims.TokenID); !ok {
		t.Fatal("token not stored in the allowlist")
	}

	if err := f.auth.Logout(ctx, created.ID, claims.TokenID); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if ok, _ := f.tokens.Exists(ctx, created.ID, claims.TokenID); ok {
		t.Error("token still allowed after logout")
	}
}

func TestLoginRejects(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	active, err := f.patients.CreatePatient(ctx, &dto.CreatePatientRequest{Name: "Ana", Username: "ana", Password: "secret123"})
	if err != nil {
		t.Fatalf("create patient: %v", err)
	}
	inactive, err := f.patients.CreatePatient(ctx, &dto.CreatePatientRequest{Name: "Bia", Username: "bia", Password: "secret123"})
	if err != nil {
		t.Fatalf("create patient: %v", err)
	}
	if err := f.patients.DeactivatePatient(ctx, inactive.ID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if _, err := f.patients.CreatePatient(ctx, &dto.CreatePatientRequest{Name: "Caio"}); err != nil {
		t.Fatalf("create patient without login: %v", err)
	}

	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{"wrong password", "ana", "wrong-pass", ErrInvalidCredentials},
		{"unknown user", "nobody", "secret123", ErrInvalidCredentials},
		{"inactive account", "bia", "secret123", ErrInactiveAccount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.auth.Login(ctx, &dto.LoginRequest{Username: tt.username, Password: tt.password})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if !errors.Is(err, ErrUnauthorized) {
				t.Errorf("err kind is not unauthorized: %v", err)
			}
		})
	}

	if _, err := f.auth.GetCurrentUser(ctx, active.ID); err != nil {
		t.Errorf("current user: %v", err)
	}
}

func TestPatientCredentials(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	if _, err := f.patients.CreatePatient(ctx, &dto.CreatePatientRequest{Name: "Ana", Username: "ana", Password: "secret123"}); err != nil {
		t.Fatalf("create patient: %v", err)
	}

	_, err := f.patients.CreatePatient(ctx, &dto.CreatePatientRequest{Name: "Outra Ana", Username: "ANA", Password: "secret123"})
	if !errors.Is(err, ErrUsernameAlreadyExists) {
		t.Errorf("duplicate username err = %v", err)
	}

	_, err = f.patients.CreatePatient(ctx, &dto.CreatePatientRequest{Name: "Sem Login", Password: "secret123"})
	if !errors.Is(err, ErrPasswordWithoutLogin) {
		t.Errorf("password without username err = %v", err)
	}

	_, err = f.patients.CreatePatient(ctx, &dto.CreatePatientRequest{Name: "Role", Role: "doctor"})
	if !errors.Is(err, ErrValidation) {
		t.Errorf("invalid role err = %v", err)
	}
}

func TestPasswordChangeRevokesSessions(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	created, err := f.patients.CreatePatient(ctx, &dto.CreatePatientRequest{Name: "Ana", Username: "ana", Password: "secret123"})
	if err != nil {
		t.Fatalf("create patient: %v", err)
	}
	token, err := f.auth.Login(ctx, &dto.LoginRequest{Username: "ana", Password: "secret123"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	claims, err := f.jwtService.ValidateToken(token.AccessToken)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}

	newPassword := "another123"
	if _, err := f.patients.UpdatePatient(ctx, created.ID, &dto.UpdatePatientRequest{Password: &newPassword}); err != nil {
		t.Fatalf("update: %v", err)
	}

	if ok, _ := f.tokens.Exists(ctx, created.ID, claims.TokenID); ok {
		t.Error("session survived a password change")
	}
	if _, err := f.auth.Login(ctx, &dto.LoginRequest{Username: "ana", Password: newPassword}); err != nil {
		t.Errorf("login with new password: %v", err)
	}
}
