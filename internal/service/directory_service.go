package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/medisched/medisched-api/internal/domain"
	"github.com/medisched/medisched-api/internal/domain/department"
	"github.com/medisched/medisched-api/internal/domain/doctor"
	"github.com/medisched/medisched-api/internal/domain/patient"
	"github.com/medisched/medisched-api/pkg/metrics"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// DirectoryService covers admin management of departments and doctors,
// doctor self-service profile edits, and the read-side listings.
type DirectoryService struct {
	departments department.Repository
	doctors     doctor.Repository
	patients    patient.Repository
	accounts    AccountRepository
	registrar   Registrar
	auditSvc    *AuditService
	collector   *metrics.Collector
	log         *zap.Logger
}

func NewDirectoryService(
	departments department.Repository,
	doctors doctor.Repository,
	patients patient.Repository,
	accounts AccountRepository,
	registrar Registrar,
	auditSvc *AuditService,
	collector *metrics.Collector,
	log *zap.Logger,
) *DirectoryService {
	return &DirectoryService{
		departments: departments,
		doctors:     doctors,
		patients:    patients,
		accounts:    accounts,
		registrar:   registrar,
		auditSvc:    auditSvc,
		collector:   collector,
		log:         log,
	}
}

func (s *DirectoryService) CreateDepartment(ctx context.Context, caller *domain.Claims, cmd *department.CreateDepartmentCommand, ip string) (*department.Department, error) {
	if !caller.Role.Allows(domain.CapManageDirectory) {
		return nil, ErrForbidden
	}
	if strings.TrimSpace(cmd.Name) == "" {
		return nil, department.ErrNameRequired
	}

	// Pre-check the name so the common conflict surfaces before the insert;
	// the unique index still backstops concurrent creates.
	if _, err := s.departments.GetByName(ctx, strings.TrimSpace(cmd.Name)); err == nil {
		return nil, department.ErrDepartmentExists
	} else if !errors.Is(err, department.ErrDepartmentNotFound) {
		return nil, fmt.Errorf("checking department name: %w", err)
	}

	d := &department.Department{
		Name:        strings.TrimSpace(cmd.Name),
		Description: strings.TrimSpace(cmd.Description),
	}
	if err := s.departments.Create(ctx, d); err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		AccountID:    caller.AccountID,
		AccountRole:  string(caller.Role),
		Action:       "create",
		ResourceType: "department",
		ResourceID:   d.ID.String(),
		IPAddress:    ip,
	})

	s.log.Info("department created", zap.String("name", d.Name))
	return d, nil
}

func (s *DirectoryService) ListDepartments(ctx context.Context) ([]*department.Department, error) {
	return s.departments.List(ctx)
}

// CreateDoctor builds the doctor's account and profile as one atomic unit.
func (s *DirectoryService) CreateDoctor(ctx context.Context, caller *domain.Claims, cmd *doctor.CreateDoctorCommand, ip string) (*doctor.Doctor, error) {
	if !caller.Role.Allows(domain.CapManageDirectory) {
		return nil, ErrForbidden
	}
	if err := validateCreateDoctor(cmd); err != nil {
		return nil, err
	}
	if err := validatePasswordStrength(cmd.Password); err != nil {
		return nil, err
	}

	// The department must exist before a doctor can join it.
	if _, err := s.departments.GetByID(ctx, cmd.DepartmentID); err != nil {
		return nil, err
	}

	if taken, err := s.accounts.ExistsByUsername(ctx, strings.TrimSpace(cmd.Username)); err != nil {
		return nil, fmt.Errorf("checking username uniqueness: %w", err)
	} else if taken {
		return nil, domain.ErrUsernameTaken
	}
	if taken, err := s.accounts.ExistsByEmail(ctx, strings.ToLower(strings.TrimSpace(cmd.Email))); err != nil {
		return nil, fmt.Errorf("checking email uniqueness: %w", err)
	} else if taken {
		return nil, domain.ErrEmailTaken
	}
	if taken, err := s.doctors.ExistsByMobile(ctx, strings.TrimSpace(cmd.MobileNumber), nil); err != nil {
		return nil, fmt.Errorf("checking mobile uniqueness: %w", err)
	} else if taken {
		return nil, doctor.ErrMobileNumberTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	acc := &domain.Account{
		Username:     strings.TrimSpace(cmd.Username),
		Email:        strings.ToLower(strings.TrimSpace(cmd.Email)),
		PasswordHash: string(hash),
		Role:         domain.RoleDoctor,
		IsActive:     true,
	}
	d := &doctor.Doctor{
		Name:            strings.TrimSpace(cmd.Name),
		Gender:          cmd.Gender,
		DateOfBirth:     cmd.DateOfBirth,
		MobileNumber:    strings.TrimSpace(cmd.MobileNumber),
		Qualification:   strings.TrimSpace(cmd.Qualification),
		Specialization:  strings.TrimSpace(cmd.Specialization),
		ExperienceYears: cmd.ExperienceYears,
		Status:          doctor.StatusActive,
		DepartmentID:    cmd.DepartmentID,
	}

	if err := s.registrar.CreateDoctorWithAccount(ctx, acc, d); err != nil {
		return nil, err
	}
	s.collector.SignupsTotal.WithLabelValues(string(domain.RoleDoctor)).Inc()

	s.auditSvc.LogAsync(ctx, AuditEntry{
		AccountID:    caller.AccountID,
		AccountRole:  string(caller.Role),
		Action:       "create",
		ResourceType: "doctor",
		ResourceID:   d.ID.String(),
		IPAddress:    ip,
	})

	s.log.Info("doctor created",
		zap.String("doctor_id", d.ID.String()),
		zap.String("department_id", d.DepartmentID.String()),
	)

	return d, nil
}

func (s *DirectoryService) ListDoctors(ctx context.Context, q *doctor.ListDoctorsQuery) ([]*doctor.Doctor, error) {
	return s.doctors.List(ctx, q)
}

// GetOwnDoctorProfile resolves the caller's doctor profile from the account.
func (s *DirectoryService) GetOwnDoctorProfile(ctx context.Context, caller *domain.Claims) (*doctor.Doctor, error) {
	if caller.Role != domain.RoleDoctor {
		return nil, ErrForbidden
	}
	return s.doctors.GetByAccountID(ctx, caller.AccountID)
}

// UpdateOwnDoctorProfile edits the caller's own profile. Status and
// department assignment stay admin-managed and cannot be self-changed.
func (s *DirectoryService) UpdateOwnDoctorProfile(ctx context.Context, caller *domain.Claims, cmd *doctor.UpdateDoctorCommand, ip string) (*doctor.Doctor, error) {
	if caller.Role != domain.RoleDoctor {
		return nil, ErrForbidden
	}
	if cmd.Status != nil || cmd.DepartmentID != nil {
		return nil, ErrForbidden
	}
	if err := validateDoctorUpdate(cmd); err != nil {
		return nil, err
	}

	d, err := s.doctors.GetByAccountID(ctx, caller.AccountID)
	if err != nil {
		return nil, err
	}

	if cmd.MobileNumber != nil {
		taken, err := s.doctors.ExistsByMobile(ctx, strings.TrimSpace(*cmd.MobileNumber), &d.ID)
		if err != nil {
			return nil, fmt.Errorf("checking mobile uniqueness: %w", err)
		}
		if taken {
			return nil, doctor.ErrMobileNumberTaken
		}
	}

	updated, err := s.doctors.Update(ctx, d.ID, cmd)
	if err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		AccountID:    caller.AccountID,
		AccountRole:  string(caller.Role),
		Action:       "update",
		ResourceType: "doctor",
		ResourceID:   d.ID.String(),
		IPAddress:    ip,
	})

	return updated, nil
}

func (s *DirectoryService) ListPatients(ctx context.Context, caller *domain.Claims) ([]*patient.Patient, error) {
	if !caller.Role.Allows(domain.CapViewAllPatients) {
		return nil, ErrForbidden
	}
	return s.patients.List(ctx)
}

func validateDoctorUpdate(cmd *doctor.UpdateDoctorCommand) error {
	var errs []string

	if cmd.Name != nil && strings.TrimSpace(*cmd.Name) == "" {
		errs = append(errs, "name must not be blank")
	}
	if cmd.Gender != nil && !cmd.Gender.IsValid() {
		errs = append(errs, "gender is invalid")
	}
	if cmd.DateOfBirth != nil && cmd.DateOfBirth.After(time.Now()) {
		errs = append(errs, "dob cannot be in the future")
	}
	if cmd.MobileNumber != nil && strings.TrimSpace(*cmd.MobileNumber) == "" {
		errs = append(errs, "mobile_number must not be blank")
	}
	if cmd.Qualification != nil && strings.TrimSpace(*cmd.Qualification) == "" {
		errs = append(errs, "qualification must not be blank")
	}
	if cmd.ExperienceYears != nil && *cmd.ExperienceYears < 0 {
		errs = append(errs, "experience_years must be non-negative")
	}

	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}

func validateCreateDoctor(cmd *doctor.CreateDoctorCommand) error {
	var errs []string

	if strings.TrimSpace(cmd.Username) == "" {
		errs = append(errs, "username is required")
	}
	if strings.TrimSpace(cmd.Email) == "" {
		errs = append(errs, "email_id is required")
	}
	if cmd.Password == "" {
		errs = append(errs, "password is required")
	}
	if strings.TrimSpace(cmd.Name) == "" {
		errs = append(errs, "name is required")
	}
	if cmd.DepartmentID == uuid.Nil {
		errs = append(errs, "department_id is required")
	}
	if !cmd.Gender.IsValid() {
		errs = append(errs, "gender is invalid")
	}
	if cmd.DateOfBirth.IsZero() {
		errs = append(errs, "dob is required")
	}
	if cmd.DateOfBirth.After(time.Now()) {
		errs = append(errs, "dob cannot be in the future")
	}
	if strings.TrimSpace(cmd.MobileNumber) == "" {
		errs = append(errs, "mobile_number is required")
	}
	if strings.TrimSpace(cmd.Qualification) == "" {
		errs = append(errs, "qualification is required")
	}
	if cmd.ExperienceYears < 0 {
		errs = append(errs, "experience_years must be non-negative")
	}

	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}
