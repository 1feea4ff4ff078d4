package doctor

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error)
	GetByAccountID(ctx context.Context, accountID uuid.UUID) (*Doctor, error)
	Update(ctx context.Context, id uuid.UUID, cmd *UpdateDoctorCommand) (*Doctor, error)
	List(ctx context.Context, q *ListDoctorsQuery) ([]*Doctor, error)
	Count(ctx context.Context) (int64, error)

	// ExistsByMobile checks mobile-number uniqueness without fetching the row.
	ExistsByMobile(ctx context.Context, mobile string, excludeID *uuid.UUID) (bool, error)
}
