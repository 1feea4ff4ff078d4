package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/medisched/medisched-api/internal/domain"
	"github.com/medisched/medisched-api/internal/domain/availability"
	"github.com/medisched/medisched-api/internal/domain/doctor"
	"go.uber.org/zap"
)

type AvailabilityService struct {
	availabilities availability.Repository
	doctors        doctor.Repository
	auditSvc       *AuditService
	log            *zap.Logger
}

func NewAvailabilityService(
	availabilities availability.Repository,
	doctors doctor.Repository,
	auditSvc *AuditService,
	log *zap.Logger,
) *AvailabilityService {
	return &AvailabilityService{
		availabilities: availabilities,
		doctors:        doctors,
		auditSvc:       auditSvc,
		log:            log,
	}
}

// Declare records the windows during which a doctor accepts bookings on a
// date. Doctors may only declare their own availability; admins may declare
// for any doctor.
func (s *AvailabilityService) Declare(ctx context.Context, caller *domain.Claims, cmd *availability.DeclareAvailabilityCommand, ip string) (*availability.Availability, error) {
	switch {
	case caller.Role.Allows(domain.CapManageDirectory):
		// admin: any doctor
	case caller.Role.Allows(domain.CapDeclareAvailability):
		if caller.DoctorID == nil || *caller.DoctorID != cmd.DoctorID {
			return nil, ErrForbidden
		}
	default:
		return nil, ErrForbidden
	}

	if _, err := s.doctors.GetByID(ctx, cmd.DoctorID); err != nil {
		return nil, err
	}

	a := &availability.Availability{
		DoctorID:           cmd.DoctorID,
		Date:               cmd.Date,
		MorningStart:       cmd.MorningStart,
		MorningEnd:         cmd.MorningEnd,
		EveningStart:       cmd.EveningStart,
		EveningEnd:         cmd.EveningEnd,
		IsAvailableMorning: cmd.IsAvailableMorning,
		IsAvailableEvening: cmd.IsAvailableEvening,
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}

	if err := s.availabilities.Create(ctx, a); err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		AccountID:    caller.AccountID,
		AccountRole:  string(caller.Role),
		Action:       "create",
		ResourceType: "availability",
		ResourceID:   a.ID.String(),
		IPAddress:    ip,
	})

	s.log.Info("availability declared",
		zap.String("doctor_id", cmd.DoctorID.String()),
		zap.String("date", cmd.Date.Format("2006-01-02")),
	)

	return a, nil
}

func (s *AvailabilityService) ListForDoctor(ctx context.Context, doctorID uuid.UUID, from time.Time) ([]*availability.Availability, error) {
	if _, err := s.doctors.GetByID(ctx, doctorID); err != nil {
		return nil, err
	}
	return s.availabilities.ListByDoctor(ctx, doctorID, from)
}
