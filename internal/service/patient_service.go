package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/medisched/medisched-api/internal/domain"
	"github.com/medisched/medisched-api/internal/domain/patient"
	"go.uber.org/zap"
)

// PatientService covers patient self-service: reading and editing the own
// profile. Admin listings live in DirectoryService.
type PatientService struct {
	repo     patient.Repository
	auditSvc *AuditService
	log      *zap.Logger
}

func NewPatientService(repo patient.Repository, auditSvc *AuditService, log *zap.Logger) *PatientService {
	return &PatientService{repo: repo, auditSvc: auditSvc, log: log}
}

func (s *PatientService) GetOwnProfile(ctx context.Context, caller *domain.Claims) (*patient.Patient, error) {
	if caller.Role != domain.RolePatient {
		return nil, ErrForbidden
	}
	return s.repo.GetByAccountID(ctx, caller.AccountID)
}

// UpdateOwnProfile persists the submitted fields exactly as given; the next
// profile read returns them unchanged.
func (s *PatientService) UpdateOwnProfile(ctx context.Context, caller *domain.Claims, cmd *patient.UpdatePatientCommand, ip string) (*patient.Patient, error) {
	if caller.Role != domain.RolePatient || caller.PatientID == nil {
		return nil, ErrForbidden
	}
	if err := validateProfileUpdate(cmd); err != nil {
		return nil, err
	}

	if cmd.MobileNumber != nil {
		taken, err := s.repo.ExistsByMobile(ctx, strings.TrimSpace(*cmd.MobileNumber), caller.PatientID)
		if err != nil {
			return nil, fmt.Errorf("checking mobile uniqueness: %w", err)
		}
		if taken {
			return nil, patient.ErrMobileNumberTaken
		}
	}

	p, err := s.repo.Update(ctx, *caller.PatientID, cmd)
	if err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		AccountID:    caller.AccountID,
		AccountRole:  string(caller.Role),
		Action:       "update",
		ResourceType: "patient",
		ResourceID:   p.ID.String(),
		IPAddress:    ip,
	})

	return p, nil
}

func validateProfileUpdate(cmd *patient.UpdatePatientCommand) error {
	var errs []string

	if cmd.Name != nil && strings.TrimSpace(*cmd.Name) == "" {
		errs = append(errs, "name must not be blank")
	}
	if cmd.Gender != nil && !cmd.Gender.IsValid() {
		errs = append(errs, "gender is invalid")
	}
	if cmd.HeightCm != nil && *cmd.HeightCm <= 0 {
		errs = append(errs, "height must be positive")
	}
	if cmd.WeightKg != nil && *cmd.WeightKg <= 0 {
		errs = append(errs, "weight must be positive")
	}
	if cmd.DateOfBirth != nil && cmd.DateOfBirth.After(time.Now()) {
		errs = append(errs, "dob cannot be in the future")
	}
	if cmd.MobileNumber != nil && strings.TrimSpace(*cmd.MobileNumber) == "" {
		errs = append(errs, "mobile_number must not be blank")
	}
	if cmd.BloodGroup != nil && !cmd.BloodGroup.IsValid() {
		errs = append(errs, "blood_group is invalid")
	}

	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}
