package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/medisched/medisched-api/internal/domain"
	"github.com/medisched/medisched-api/pkg/auth"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountInactive    = errors.New("account is inactive")
)

type AccountRepository interface {
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error
	RecordLogin(ctx context.Context, id uuid.UUID) error
	CountByRole(ctx context.Context, role domain.Role) (int64, error)
}

type AuthService struct {
	accounts   AccountRepository
	jwtManager *auth.JWTManager
	auditSvc   *AuditService
	log        *zap.Logger
}

func NewAuthService(accounts AccountRepository, jwtManager *auth.JWTManager, auditSvc *AuditService, log *zap.Logger) *AuthService {
	return &AuthService{accounts: accounts, jwtManager: jwtManager, auditSvc: auditSvc, log: log}
}

func (s *AuthService) Login(ctx context.Context, email, password, ip string) (*domain.TokenPair, error) {
	acc, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		// Use bcrypt dummy hash to prevent timing-based account enumeration.
		_, _ = bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		return nil, ErrInvalidCredentials
	}

	if !acc.IsActive {
		return nil, ErrAccountInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(password)); err != nil {
		s.log.Warn("failed login attempt",
			zap.String("email", email),
			zap.String("ip", ip),
		)
		return nil, ErrInvalidCredentials
	}

	_ = s.accounts.RecordLogin(ctx, acc.ID)

	claims := &domain.Claims{
		AccountID: acc.ID,
		Email:     acc.Email,
		Role:      acc.Role,
		DoctorID:  acc.DoctorID,
		PatientID: acc.PatientID,
	}

	pair, err := s.jwtManager.GenerateTokenPair(claims)
	if err != nil {
		s.log.Error("failed to generate token pair", zap.Error(err))
		return nil, fmt.Errorf("generating tokens: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		AccountID:    acc.ID,
		AccountRole:  string(acc.Role),
		Action:       "login",
		ResourceType: "account",
		ResourceID:   acc.ID.String(),
		IPAddress:    ip,
	})

	s.log.Info("account logged in",
		zap.String("account_id", acc.ID.String()),
		zap.String("role", string(acc.Role)),
		zap.String("ip", ip),
	)

	return pair, nil
}

// RefreshToken issues a new access token given a valid refresh token.
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	claims, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	// Re-validate the account is still active
	acc, err := s.accounts.GetByID(ctx, claims.AccountID)
	if err != nil || !acc.IsActive {
		return nil, ErrInvalidCredentials
	}

	updatedClaims := &domain.Claims{
		AccountID: acc.ID,
		Email:     acc.Email,
		Role:      acc.Role,
		DoctorID:  acc.DoctorID,
		PatientID: acc.PatientID,
	}

	return s.jwtManager.GenerateTokenPair(updatedClaims)
}

// ChangePassword updates an account's password after verifying the current one.
func (s *AuthService) ChangePassword(ctx context.Context, accountID uuid.UUID, currentPassword, newPassword, confirmPassword string) error {
	acc, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(currentPassword)); err != nil {
		return ErrInvalidCredentials
	}

	if newPassword != confirmPassword {
		return &FormatError{Field: "confirm_password", Reason: "passwords do not match"}
	}

	if err := validatePasswordStrength(newPassword); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	return s.accounts.UpdatePassword(ctx, accountID, string(hash))
}

func validatePasswordStrength(password string) error {
	if len(password) < 8 {
		return &FormatError{Field: "password", Reason: "must be at least 8 characters"}
	}
	return nil
}
