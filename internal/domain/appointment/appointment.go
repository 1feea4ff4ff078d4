package appointment

import (
	"time"

	"github.com/google/uuid"
	"github.com/medisched/medisched-api/internal/domain/availability"
)

type Mode string

const (
	ModeOnline   Mode = "online"
	ModeInPerson Mode = "in_person"
)

func (m Mode) IsValid() bool {
	switch m {
	case ModeOnline, ModeInPerson:
		return true
	}
	return false
}

// State transitions possibilities:
//
//	Booked → Canceled  (patient or admin, before the appointment time)
//	Booked → Completed (doctor, when the treatment is recorded)
//
// Canceled and Completed are terminal.
type Status string

const (
	StatusBooked    Status = "Booked"
	StatusCanceled  Status = "Canceled"
	StatusCompleted Status = "Completed"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusBooked, StatusCanceled, StatusCompleted:
		return true
	}
	return false
}

type Appointment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	PatientID uuid.UUID `gorm:"column:patient_id;type:uuid;not null;index"`
	DoctorID  uuid.UUID `gorm:"column:doctor_id;type:uuid;not null;index"`

	// Denormalized from the doctor's department at booking time; must stay
	// consistent with Doctor.DepartmentID.
	DepartmentID uuid.UUID `gorm:"column:department_id;type:uuid;not null;index"`

	ScheduledAt    time.Time            `gorm:"column:scheduled_at;not null;index"`
	AvailabilityID *uuid.UUID           `gorm:"column:availability_id;type:uuid;index"`
	Session        availability.Session `gorm:"column:session;type:varchar(10);not null"`

	Status Status `gorm:"column:status;type:varchar(20);not null;default:'Booked';index"`
	Mode   Mode   `gorm:"column:mode;type:varchar(20);not null"`

	CanceledAt *time.Time `gorm:"column:canceled_at"`
	CanceledBy *uuid.UUID `gorm:"column:canceled_by;type:uuid"`
}

func (Appointment) TableName() string {
	return "clinical.appointments"
}

func (a *Appointment) CanTransitionTo(newStatus Status) bool {
	allowed := map[Status][]Status{
		StatusBooked:    {StatusCanceled, StatusCompleted},
		StatusCanceled:  {},
		StatusCompleted: {},
	}

	for _, s := range allowed[a.Status] {
		if s == newStatus {
			return true
		}
	}
	return false
}

func (a *Appointment) Cancel(canceledBy uuid.UUID) error {
	if !a.CanTransitionTo(StatusCanceled) {
		return ErrInvalidStatusTransition
	}
	if !time.Now().Before(a.ScheduledAt) {
		return ErrCancelWindowClosed
	}
	now := time.Now()
	a.Status = StatusCanceled
	a.CanceledAt = &now
	a.CanceledBy = &canceledBy
	return nil
}

func (a *Appointment) Complete() error {
	if !a.CanTransitionTo(StatusCompleted) {
		return ErrInvalidStatusTransition
	}
	a.Status = StatusCompleted
	return nil
}

type BookAppointmentCommand struct {
	PatientID uuid.UUID
	DoctorID  uuid.UUID
	Date      time.Time
	Session   availability.Session
	Mode      Mode
}

type ListAppointmentsQuery struct {
	PatientID *uuid.UUID
	DoctorID  *uuid.UUID
	Status    *Status
	DateFrom  *time.Time
	DateTo    *time.Time
	Page      int
	PageSize  int
}

type PagedAppointments struct {
	Appointments []*Appointment
	TotalCount   int64
	Page         int
	PageSize     int
	TotalPages   int
}
