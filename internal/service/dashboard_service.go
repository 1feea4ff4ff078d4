package service

import (
	"context"
	"fmt"

	"github.com/medisched/medisched-api/internal/domain"
	"github.com/medisched/medisched-api/internal/domain/appointment"
	"github.com/medisched/medisched-api/internal/domain/department"
	"github.com/medisched/medisched-api/internal/domain/doctor"
	"github.com/medisched/medisched-api/internal/domain/patient"
)

// AdminCounts is the admin dashboard summary.
type AdminCounts struct {
	Patients              int64 `json:"patients"`
	Doctors               int64 `json:"doctors"`
	Departments           int64 `json:"departments"`
	Appointments          int64 `json:"appointments"`
	BookedAppointments    int64 `json:"booked_appointments"`
	CompletedAppointments int64 `json:"completed_appointments"`
	CanceledAppointments  int64 `json:"canceled_appointments"`
}

// DashboardView is role-specific: admins get counts, doctors and patients get
// their own profile.
type DashboardView struct {
	Role    domain.Role      `json:"role"`
	Counts  *AdminCounts     `json:"counts,omitempty"`
	Doctor  *doctor.Doctor   `json:"doctor,omitempty"`
	Patient *patient.Patient `json:"patient,omitempty"`
}

type DashboardService struct {
	patients     patient.Repository
	doctors      doctor.Repository
	departments  department.Repository
	appointments appointment.Repository
}

func NewDashboardService(
	patients patient.Repository,
	doctors doctor.Repository,
	departments department.Repository,
	appointments appointment.Repository,
) *DashboardService {
	return &DashboardService{
		patients:     patients,
		doctors:      doctors,
		departments:  departments,
		appointments: appointments,
	}
}

func (s *DashboardService) View(ctx context.Context, caller *domain.Claims) (*DashboardView, error) {
	if caller.Role.Allows(domain.CapViewAdminDashboard) {
		counts, err := s.adminCounts(ctx)
		if err != nil {
			return nil, err
		}
		return &DashboardView{Role: caller.Role, Counts: counts}, nil
	}

	switch caller.Role {
	case domain.RoleDoctor:
		if caller.DoctorID == nil {
			return nil, ErrForbidden
		}
		d, err := s.doctors.GetByID(ctx, *caller.DoctorID)
		if err != nil {
			return nil, err
		}
		return &DashboardView{Role: caller.Role, Doctor: d}, nil

	case domain.RolePatient:
		if caller.PatientID == nil {
			return nil, ErrForbidden
		}
		p, err := s.patients.GetByID(ctx, *caller.PatientID)
		if err != nil {
			return nil, err
		}
		return &DashboardView{Role: caller.Role, Patient: p}, nil
	}

	return nil, ErrForbidden
}

func (s *DashboardService) adminCounts(ctx context.Context) (*AdminCounts, error) {
	var (
		counts AdminCounts
		err    error
	)

	if counts.Patients, err = s.patients.Count(ctx); err != nil {
		return nil, fmt.Errorf("counting patients: %w", err)
	}
	if counts.Doctors, err = s.doctors.Count(ctx); err != nil {
		return nil, fmt.Errorf("counting doctors: %w", err)
	}
	if counts.Departments, err = s.departments.Count(ctx); err != nil {
		return nil, fmt.Errorf("counting departments: %w", err)
	}
	if counts.Appointments, err = s.appointments.Count(ctx); err != nil {
		return nil, fmt.Errorf("counting appointments: %w", err)
	}
	if counts.BookedAppointments, err = s.appointments.CountByStatus(ctx, appointment.StatusBooked); err != nil {
		return nil, fmt.Errorf("counting booked appointments: %w", err)
	}
	if counts.CompletedAppointments, err = s.appointments.CountByStatus(ctx, appointment.StatusCompleted); err != nil {
		return nil, fmt.Errorf("counting completed appointments: %w", err)
	}
	if counts.CanceledAppointments, err = s.appointments.CountByStatus(ctx, appointment.StatusCanceled); err != nil {
		return nil, fmt.Errorf("counting canceled appointments: %w", err)
	}

	return &counts, nil
}
