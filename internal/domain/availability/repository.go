package availability

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	// Create persists a new availability row. Returns ErrAvailabilityExists
	// when a row for the same (doctor, date) is already present.
	Create(ctx context.Context, a *Availability) error

	GetByID(ctx context.Context, id uuid.UUID) (*Availability, error)
	GetByDoctorAndDate(ctx context.Context, doctorID uuid.UUID, date time.Time) (*Availability, error)
	ListByDoctor(ctx context.Context, doctorID uuid.UUID, from time.Time) ([]*Availability, error)
}
