package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/medisched/medisched-api/internal/domain"
	"github.com/medisched/medisched-api/internal/domain/appointment"
	"github.com/medisched/medisched-api/pkg/metrics"
	"go.uber.org/zap"
)

type TreatmentService struct {
	treatments   appointment.TreatmentRepository
	appointments appointment.Repository
	auditSvc     *AuditService
	collector    *metrics.Collector
	log          *zap.Logger
}

func NewTreatmentService(
	treatments appointment.TreatmentRepository,
	appointments appointment.Repository,
	auditSvc *AuditService,
	collector *metrics.Collector,
	log *zap.Logger,
) *TreatmentService {
	return &TreatmentService{
		treatments:   treatments,
		appointments: appointments,
		auditSvc:     auditSvc,
		collector:    collector,
		log:          log,
	}
}

// Record writes the one clinical note an appointment may carry and completes
// the appointment in the same transaction. Only the appointment's own doctor
// (or an admin) may record it.
func (s *TreatmentService) Record(ctx context.Context, caller *domain.Claims, cmd *appointment.RecordTreatmentCommand, ip string) (*appointment.Treatment, error) {
	if strings.TrimSpace(cmd.Diagnosis) == "" {
		return nil, appointment.ErrDiagnosisRequired
	}

	a, err := s.appointments.GetByID(ctx, cmd.AppointmentID)
	if err != nil {
		return nil, err
	}

	if !caller.Role.Allows(domain.CapRecordTreatment) {
		return nil, ErrForbidden
	}
	// Doctors record only on their own appointments.
	if caller.Role == domain.RoleDoctor {
		if caller.DoctorID == nil || *caller.DoctorID != a.DoctorID {
			return nil, ErrForbidden
		}
	}

	if !a.CanTransitionTo(appointment.StatusCompleted) {
		return nil, appointment.ErrInvalidStatusTransition
	}

	t := &appointment.Treatment{
		AppointmentID: a.ID,
		Diagnosis:     strings.TrimSpace(cmd.Diagnosis),
		Prescriptions: cmd.Prescriptions,
		Notes:         cmd.Notes,
		FollowUpDate:  cmd.FollowUpDate,
		RecordedBy:    caller.AccountID,
	}

	if err := s.treatments.CreateAndComplete(ctx, t, a); err != nil {
		return nil, err
	}
	a.Status = appointment.StatusCompleted
	s.collector.TreatmentsTotal.Inc()
	s.collector.AppointmentsTotal.WithLabelValues(string(appointment.StatusCompleted)).Inc()

	s.auditSvc.LogAsync(ctx, AuditEntry{
		AccountID:    caller.AccountID,
		AccountRole:  string(caller.Role),
		Action:       "create",
		ResourceType: "treatment",
		ResourceID:   t.ID.String(),
		IPAddress:    ip,
		Changes:      `{"appointment_status":"Completed"}`,
	})

	s.log.Info("treatment recorded",
		zap.String("treatment_id", t.ID.String()),
		zap.String("appointment_id", a.ID.String()),
	)

	return t, nil
}

func (s *TreatmentService) GetForAppointment(ctx context.Context, caller *domain.Claims, appointmentID uuid.UUID) (*appointment.Treatment, error) {
	a, err := s.appointments.GetByID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	switch caller.Role {
	case domain.RoleAdmin:
	case domain.RoleDoctor:
		if caller.DoctorID == nil || *caller.DoctorID != a.DoctorID {
			return nil, ErrForbidden
		}
	case domain.RolePatient:
		if caller.PatientID == nil || *caller.PatientID != a.PatientID {
			return nil, ErrForbidden
		}
	default:
		return nil, ErrForbidden
	}

	return s.treatments.GetByAppointmentID(ctx, appointmentID)
}
