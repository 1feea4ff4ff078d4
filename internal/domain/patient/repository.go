package patient

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// GetByID retrieves a patient by primary key. Returns ErrPatientNotFound
	// if not found.
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)

	GetByAccountID(ctx context.Context, accountID uuid.UUID) (*Patient, error)

	// Update applies partial updates to an existing patient record.
	Update(ctx context.Context, id uuid.UUID, cmd *UpdatePatientCommand) (*Patient, error)

	List(ctx context.Context) ([]*Patient, error)
	Count(ctx context.Context) (int64, error)

	// ExistsByMobile checks mobile-number uniqueness without fetching the row.
	ExistsByMobile(ctx context.Context, mobile string, excludeID *uuid.UUID) (bool, error)
}
