package jwt

import (
	"testing"
	"time"

	"marcha-api/config"
)

func TestGenerateAndValidateAccessToken(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{Secret: "test-secret", AccessExpiry: time.Hour})

	token, tokenID, err := svc.GenerateAccessToken(42, "maria", "aluno")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if tokenID == "" {
		t.Fatal("expected a token id")
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.PatientID != 42 || claims.Username != "maria" || claims.Role != "aluno" {
		t.Errorf("unexpected claims: %+v", claims)
	}
	if claims.TokenID != tokenID {
		t.Errorf("token id = %q, want %q", claims.TokenID, tokenID)
	}
}

func TestValidateTokenRejects(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{Secret: "test-secret", AccessExpiry: time.Hour})
	other := NewJWTService(config.JWTConfig{Secret: "another-secret", AccessExpiry: time.Hour})
	expired := NewJWTService(config.JWTConfig{Secret: "test-secret", AccessExpiry: -time.Minute})

	foreign, _, err := other.GenerateAccessToken(1, "a", "admin")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	stale, _, err := expired.GenerateAccessToken(1, "a", "admin")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"wrong secret", foreign},
		{"expired", stale},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.ValidateToken(tt.token); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
