package middleware

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"marcha-api/config"
	"marcha-api/internal/domain/entity"
	"marcha-api/pkg/jwt"

	"github.com/sirupsen/logrus"
)

// allowlist is a TokenStore backed by a map
type allowlist struct {
	tokens map[string]bool
	err    error
}

func (a *allowlist) key(patientID int64, tokenID string) string {
	return fmt.Sprintf("%d:%s", patientID, tokenID)
}

func (a *allowlist) Store(_ context.Context, patientID int64, tokenID string, _ time.Duration) error {
	a.tokens[a.key(patientID, tokenID)] = true
	return nil
}

func (a *allowlist) Exists(_ context.Context, patientID int64, tokenID string) (bool, error) {
	if a.err != nil {
		return false, a.err
	}
	return a.tokens[a.key(patientID, tokenID)], nil
}

func (a *allowlist) Revoke(_ context.Context, patientID int64, tokenID string) error {
	delete(a.tokens, a.key(patientID, tokenID))
	return nil
}

func (a *allowlist) RevokeAll(context.Context, int64) error {
	a.tokens = map[string]bool{}
	return nil
}

func TestAuthenticate(t *testing.T) {
	jwtService := jwt.NewJWTService(config.JWTConfig{Secret: "test-secret", AccessExpiry: time.Hour})
	log := logrus.New()
	log.SetOutput(io.Discard)

	valid, validID, err := jwtService.GenerateAccessToken(3, "maria", entity.RoleStudent)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	revoked, _, err := jwtService.GenerateAccessToken(3, "maria", entity.RoleStudent)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	tests := []struct {
		name       string
		header     string
		storeErr   error
		wantStatus int
	}{
		{"valid token", "Bearer " + valid, nil, http.StatusOK},
		{"missing header", "", nil, http.StatusUnauthorized},
		{"wrong scheme", "Basic " + valid, nil, http.StatusUnauthorized},
		{"garbage token", "Bearer not.a.token", nil, http.StatusUnauthorized},
		{"revoked token", "Bearer " + revoked, nil, http.StatusUnauthorized},
		{"store down", "Bearer " + valid, errors.New("redis unavailable"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &allowlist{tokens: map[string]bool{}, err: tt.storeErr}
			store.Store(context.Background(), 3, validID, time.Hour)

			var gotID int64
			var gotRole string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotID, _ = GetPatientIDFromContext(r.Context())
				gotRole, _ = GetRoleFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			NewAuthMiddleware(jwtService, store, log).Authenticate(next).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusOK && (gotID != 3 || gotRole != entity.RoleStudent) {
				t.Errorf("identity = %d/%q", gotID, gotRole)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name       string
		role       string
		guard      func(http.Handler) http.Handler
		wantStatus int
	}{
		{"admin on admin route", entity.RoleAdmin, RequireAdmin, http.StatusOK},
		{"professional on admin route", entity.RoleProfessional, RequireAdmin, http.StatusForbidden},
		{"professional on staff route", entity.RoleProfessional, RequireStaff, http.StatusOK},
		{"student on staff route", entity.RoleStudent, RequireStaff, http.StatusForbidden},
		{"client on staff route", entity.RoleClient, RequireStaff, http.StatusForbidden},
		{"no identity", "", RequireStaff, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.role != "" {
				req = req.WithContext(WithIdentity(req.Context(), 1, "u", tt.role, "tid"))
			}

			rec := httptest.NewRecorder()
			tt.guard(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	called := false
	h := NewCORSMiddleware("").Handle(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/v1/appointments", nil))

	if rec.Code != http.StatusOK || called {
		t.Errorf("preflight status = %d, next called = %t", rec.Code, called)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("allow origin = %q, want *", got)
	}
}
