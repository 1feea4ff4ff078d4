package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/medisched/medisched-api/internal/config"
	"github.com/medisched/medisched-api/internal/domain"
)

func testManager(accessTTL time.Duration) *JWTManager {
	return NewJWTManager(config.JWTConfig{
		Secret:          "test-secret-key-for-unit-tests-only",
		AccessTokenTTL:  accessTTL,
		RefreshTokenTTL: 24 * time.Hour,
		Issuer:          "test",
	})
}

func TestTokenPairRoundTrip(t *testing.T) {
	m := testManager(15 * time.Minute)
	doctorID := uuid.New()
	in := &domain.Claims{
		AccountID: uuid.New(),
		Email:     "smith@example.com",
		Role:      domain.RoleDoctor,
		DoctorID:  &doctorID,
	}

	pair, err := m.GenerateTokenPair(in)
	if err != nil {
		t.Fatalf("generating pair: %v", err)
	}
	if pair.TokenType != "Bearer" {
		t.Errorf("token type = %q, want Bearer", pair.TokenType)
	}

	out, err := m.ValidateAccessToken(pair.AccessToken)
	if err != nil {
		t.Fatalf("validating access token: %v", err)
	}
	if out.AccountID != in.AccountID || out.Email != in.Email || out.Role != in.Role {
		t.Errorf("claims did not round-trip: %+v", out)
	}
	if out.DoctorID == nil || *out.DoctorID != doctorID {
		t.Error("doctor link must survive the round trip")
	}
	if out.PatientID != nil {
		t.Error("absent patient link must stay nil")
	}
}

func TestTokenTypeEnforced(t *testing.T) {
	m := testManager(15 * time.Minute)
	pair, err := m.GenerateTokenPair(&domain.Claims{AccountID: uuid.New(), Role: domain.RoleAdmin})
	if err != nil {
		t.Fatalf("generating pair: %v", err)
	}

	if _, err := m.ValidateAccessToken(pair.RefreshToken); !errors.Is(err, ErrTokenTypeMismatch) {
		t.Errorf("refresh-as-access: got %v, want ErrTokenTypeMismatch", err)
	}
	if _, err := m.ValidateRefreshToken(pair.AccessToken); !errors.Is(err, ErrTokenTypeMismatch) {
		t.Errorf("access-as-refresh: got %v, want ErrTokenTypeMismatch", err)
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	m := testManager(-time.Minute)
	pair, err := m.GenerateTokenPair(&domain.Claims{AccountID: uuid.New(), Role: domain.RolePatient})
	if err != nil {
		t.Fatalf("generating pair: %v", err)
	}

	if _, err := m.ValidateAccessToken(pair.AccessToken); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("got %v, want ErrTokenExpired", err)
	}
}

func TestWrongSecretRejected(t *testing.T) {
	m := testManager(15 * time.Minute)
	pair, err := m.GenerateTokenPair(&domain.Claims{AccountID: uuid.New(), Role: domain.RolePatient})
	if err != nil {
		t.Fatalf("generating pair: %v", err)
	}

	other := NewJWTManager(config.JWTConfig{
		Secret:          "a-completely-different-secret-key",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 24 * time.Hour,
		Issuer:          "test",
	})
	if _, err := other.ValidateAccessToken(pair.AccessToken); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("got %v, want ErrTokenInvalid", err)
	}
}

func TestGarbageTokenRejected(t *testing.T) {
	m := testManager(15 * time.Minute)
	if _, err := m.ValidateAccessToken("not.a.token"); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("got %v, want ErrTokenInvalid", err)
	}
}
