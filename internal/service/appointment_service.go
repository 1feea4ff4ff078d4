package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/medisched/medisched-api/internal/domain"
	"github.com/medisched/medisched-api/internal/domain/appointment"
	"github.com/medisched/medisched-api/internal/domain/availability"
	"github.com/medisched/medisched-api/internal/domain/doctor"
	"github.com/medisched/medisched-api/internal/domain/patient"
	"github.com/medisched/medisched-api/pkg/metrics"
	"go.uber.org/zap"
)

type AppointmentService struct {
	repo           appointment.Repository
	availabilities availability.Repository
	doctors        doctor.Repository
	patients       patient.Repository
	auditSvc       *AuditService
	collector      *metrics.Collector
	log            *zap.Logger
}

func NewAppointmentService(
	repo appointment.Repository,
	availabilities availability.Repository,
	doctors doctor.Repository,
	patients patient.Repository,
	auditSvc *AuditService,
	collector *metrics.Collector,
	log *zap.Logger,
) *AppointmentService {
	return &AppointmentService{
		repo:           repo,
		availabilities: availabilities,
		doctors:        doctors,
		patients:       patients,
		auditSvc:       auditSvc,
		collector:      collector,
		log:            log,
	}
}

// Book reserves a doctor's half-day session for a patient. The availability
// flags are checked here; the capacity invariant (one non-canceled
// appointment per session) is re-validated inside the repository transaction.
func (s *AppointmentService) Book(ctx context.Context, caller *domain.Claims, cmd *appointment.BookAppointmentCommand, ip string) (*appointment.Appointment, error) {
	if !caller.Role.Allows(domain.CapBookAppointment) {
		return nil, ErrForbidden
	}
	// Patients book for themselves only.
	if caller.Role == domain.RolePatient {
		if caller.PatientID == nil || *caller.PatientID != cmd.PatientID {
			return nil, ErrForbidden
		}
	}

	if !cmd.Session.IsValid() {
		return nil, availability.ErrInvalidSession
	}
	if !cmd.Mode.IsValid() {
		return nil, appointment.ErrInvalidMode
	}
	if cmd.Date.IsZero() {
		return nil, &ValidationError{Fields: []string{"date is required"}}
	}

	p, err := s.patients.GetByID(ctx, cmd.PatientID)
	if err != nil {
		return nil, fmt.Errorf("verifying patient: %w", err)
	}
	if !p.IsActive() {
		return nil, patient.ErrPatientBlacklisted
	}

	d, err := s.doctors.GetByID(ctx, cmd.DoctorID)
	if err != nil {
		return nil, fmt.Errorf("verifying doctor: %w", err)
	}
	if !d.IsActive() {
		return nil, appointment.ErrSessionUnavailable
	}

	av, err := s.availabilities.GetByDoctorAndDate(ctx, cmd.DoctorID, cmd.Date)
	if err != nil {
		return nil, appointment.ErrSessionUnavailable
	}
	if !av.SessionOpen(cmd.Session) {
		return nil, appointment.ErrSessionUnavailable
	}

	scheduledAt := sessionStart(av, cmd.Session, cmd.Date)
	if !time.Now().Before(scheduledAt) {
		return nil, appointment.ErrSessionUnavailable
	}

	a := &appointment.Appointment{
		PatientID: cmd.PatientID,
		DoctorID:  cmd.DoctorID,
		// Denormalized from the doctor's current department.
		DepartmentID:   d.DepartmentID,
		ScheduledAt:    scheduledAt,
		AvailabilityID: &av.ID,
		Session:        cmd.Session,
		Status:         appointment.StatusBooked,
		Mode:           cmd.Mode,
	}

	if err := s.repo.Book(ctx, a); err != nil {
		return nil, err
	}
	s.collector.AppointmentsTotal.WithLabelValues(string(appointment.StatusBooked)).Inc()

	s.auditSvc.LogAsync(ctx, AuditEntry{
		AccountID:    caller.AccountID,
		AccountRole:  string(caller.Role),
		Action:       "create",
		ResourceType: "appointment",
		ResourceID:   a.ID.String(),
		IPAddress:    ip,
	})

	s.log.Info("appointment booked",
		zap.String("appointment_id", a.ID.String()),
		zap.String("doctor_id", cmd.DoctorID.String()),
		zap.String("session", string(cmd.Session)),
	)

	return a, nil
}

func (s *AppointmentService) GetAppointment(ctx context.Context, caller *domain.Claims, id uuid.UUID) (*appointment.Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeRead(caller, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Cancel transitions a booked appointment to Canceled. Allowed for the owning
// patient and for admins, any time before the appointment datetime.
func (s *AppointmentService) Cancel(ctx context.Context, caller *domain.Claims, id uuid.UUID, ip string) (*appointment.Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch caller.Role {
	case domain.RoleAdmin:
	case domain.RolePatient:
		if caller.PatientID == nil || *caller.PatientID != a.PatientID {
			return nil, ErrForbidden
		}
	default:
		return nil, ErrForbidden
	}

	if err := a.Cancel(caller.AccountID); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateStatus(ctx, a); err != nil {
		return nil, fmt.Errorf("updating appointment status: %w", err)
	}
	s.collector.AppointmentsTotal.WithLabelValues(string(appointment.StatusCanceled)).Inc()

	s.auditSvc.LogAsync(ctx, AuditEntry{
		AccountID:    caller.AccountID,
		AccountRole:  string(caller.Role),
		Action:       "update",
		ResourceType: "appointment",
		ResourceID:   id.String(),
		IPAddress:    ip,
		Changes:      `{"status":"Canceled"}`,
	})

	return a, nil
}

func (s *AppointmentService) ListAppointments(ctx context.Context, caller *domain.Claims, q *appointment.ListAppointmentsQuery) (*appointment.PagedAppointments, error) {
	// Patients and doctors see only their own appointments.
	switch caller.Role {
	case domain.RolePatient:
		if caller.PatientID == nil {
			return nil, ErrForbidden
		}
		q.PatientID = caller.PatientID
	case domain.RoleDoctor:
		if caller.DoctorID == nil {
			return nil, ErrForbidden
		}
		q.DoctorID = caller.DoctorID
	}

	if q.PageSize <= 0 || q.PageSize > 100 {
		q.PageSize = 20
	}
	if q.Page <= 0 {
		q.Page = 1
	}
	return s.repo.List(ctx, q)
}

func (s *AppointmentService) authorizeRead(caller *domain.Claims, a *appointment.Appointment) error {
	switch caller.Role {
	case domain.RoleAdmin:
		return nil
	case domain.RoleDoctor:
		if caller.DoctorID != nil && *caller.DoctorID == a.DoctorID {
			return nil
		}
	case domain.RolePatient:
		if caller.PatientID != nil && *caller.PatientID == a.PatientID {
			return nil
		}
	}
	return ErrForbidden
}

// sessionStart resolves the concrete appointment datetime from the window's
// declared start time on the given date.
func sessionStart(av *availability.Availability, session availability.Session, date time.Time) time.Time {
	start, _, ok := av.WindowFor(session)
	if !ok {
		return date
	}
	t, err := time.Parse("15:04", start)
	if err != nil {
		return date
	}
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, date.Location())
}
