package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/medisched/medisched-api/internal/domain"
	"github.com/medisched/medisched-api/internal/domain/doctor"
	"github.com/medisched/medisched-api/internal/domain/patient"
	"github.com/medisched/medisched-api/pkg/metrics"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Registrar persists an account plus its role-specific profile as one atomic
// unit; a failure between the two inserts must leave neither row visible.
type Registrar interface {
	CreatePatientWithAccount(ctx context.Context, acc *domain.Account, p *patient.Patient) error
	CreateDoctorWithAccount(ctx context.Context, acc *domain.Account, d *doctor.Doctor) error
}

type RegistrationService struct {
	registrar Registrar
	accounts  AccountRepository
	patients  patient.Repository
	auditSvc  *AuditService
	collector *metrics.Collector
	log       *zap.Logger
}

func NewRegistrationService(
	registrar Registrar,
	accounts AccountRepository,
	patients patient.Repository,
	auditSvc *AuditService,
	collector *metrics.Collector,
	log *zap.Logger,
) *RegistrationService {
	return &RegistrationService{
		registrar: registrar,
		accounts:  accounts,
		patients:  patients,
		auditSvc:  auditSvc,
		collector: collector,
		log:       log,
	}
}

// SignupPatient registers a patient account through the public signup form.
func (s *RegistrationService) SignupPatient(ctx context.Context, cmd *patient.CreatePatientCommand, ip string) (*patient.Patient, error) {
	if err := validateSignup(cmd); err != nil {
		return nil, err
	}
	if cmd.Password != cmd.ConfirmPassword {
		return nil, &FormatError{Field: "confirm_password", Reason: "passwords do not match"}
	}
	if err := validatePasswordStrength(cmd.Password); err != nil {
		return nil, err
	}

	if err := s.checkAccountConflicts(ctx, cmd.Username, cmd.Email); err != nil {
		return nil, err
	}
	if taken, err := s.patients.ExistsByMobile(ctx, strings.TrimSpace(cmd.MobileNumber), nil); err != nil {
		return nil, fmt.Errorf("checking mobile uniqueness: %w", err)
	} else if taken {
		return nil, patient.ErrMobileNumberTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	acc := &domain.Account{
		Username:     strings.TrimSpace(cmd.Username),
		Email:        strings.ToLower(strings.TrimSpace(cmd.Email)),
		PasswordHash: string(hash),
		Role:         domain.RolePatient,
		IsActive:     true,
	}
	p := &patient.Patient{
		Name:           strings.TrimSpace(cmd.Name),
		Gender:         cmd.Gender,
		HeightCm:       cmd.HeightCm,
		WeightKg:       cmd.WeightKg,
		DateOfBirth:    cmd.DateOfBirth,
		MobileNumber:   strings.TrimSpace(cmd.MobileNumber),
		BloodGroup:     cmd.BloodGroup,
		Allergies:      cmd.Allergies,
		MedicalHistory: cmd.MedicalHistory,
		Status:         patient.StatusActive,
	}

	if err := s.registrar.CreatePatientWithAccount(ctx, acc, p); err != nil {
		return nil, err
	}
	s.collector.SignupsTotal.WithLabelValues(string(domain.RolePatient)).Inc()

	s.auditSvc.LogAsync(ctx, AuditEntry{
		AccountID:    acc.ID,
		AccountRole:  string(domain.RolePatient),
		Action:       "create",
		ResourceType: "patient",
		ResourceID:   p.ID.String(),
		IPAddress:    ip,
	})

	s.log.Info("patient registered",
		zap.String("patient_id", p.ID.String()),
		zap.String("account_id", acc.ID.String()),
	)

	return p, nil
}

func (s *RegistrationService) checkAccountConflicts(ctx context.Context, username, email string) error {
	if taken, err := s.accounts.ExistsByUsername(ctx, strings.TrimSpace(username)); err != nil {
		return fmt.Errorf("checking username uniqueness: %w", err)
	} else if taken {
		return domain.ErrUsernameTaken
	}
	if taken, err := s.accounts.ExistsByEmail(ctx, strings.ToLower(strings.TrimSpace(email))); err != nil {
		return fmt.Errorf("checking email uniqueness: %w", err)
	} else if taken {
		return domain.ErrEmailTaken
	}
	return nil
}

func validateSignup(cmd *patient.CreatePatientCommand) error {
	var errs []string

	if strings.TrimSpace(cmd.Name) == "" {
		errs = append(errs, "name is required")
	}
	if strings.TrimSpace(cmd.Username) == "" {
		errs = append(errs, "username is required")
	}
	if strings.TrimSpace(cmd.Email) == "" {
		errs = append(errs, "email_id is required")
	}
	if cmd.Password == "" {
		errs = append(errs, "password is required")
	}
	if strings.TrimSpace(cmd.MobileNumber) == "" {
		errs = append(errs, "mobile_number is required")
	}
	if !cmd.Gender.IsValid() {
		errs = append(errs, "gender is invalid")
	}
	if cmd.DateOfBirth.IsZero() {
		errs = append(errs, "dob is required")
	}
	if !cmd.BloodGroup.IsValid() {
		errs = append(errs, "blood_group is invalid")
	}
	if cmd.HeightCm <= 0 {
		errs = append(errs, "height must be positive")
	}
	if cmd.WeightKg <= 0 {
		errs = append(errs, "weight must be positive")
	}

	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}
