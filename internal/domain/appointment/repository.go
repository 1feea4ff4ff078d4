package appointment

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// Book inserts the appointment inside one transaction that locks the
	// availability row and re-validates capacity, so two concurrent bookings
	// of the same session yield exactly one success and one
	// ErrSessionFullyBooked.
	Book(ctx context.Context, a *Appointment) error

	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	List(ctx context.Context, q *ListAppointmentsQuery) (*PagedAppointments, error)

	// UpdateStatus persists a status transition already validated by the
	// domain entity.
	UpdateStatus(ctx context.Context, a *Appointment) error

	CountByStatus(ctx context.Context, status Status) (int64, error)
	Count(ctx context.Context) (int64, error)
}

type TreatmentRepository interface {
	// CreateAndComplete persists the treatment and transitions its
	// appointment to Completed in the same transaction. Returns
	// ErrTreatmentExists when the appointment already has one.
	CreateAndComplete(ctx context.Context, t *Treatment, a *Appointment) error

	GetByAppointmentID(ctx context.Context, appointmentID uuid.UUID) (*Treatment, error)
}
