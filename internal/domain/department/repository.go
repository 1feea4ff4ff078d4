package department

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// Create persists a new department. Returns ErrDepartmentExists on a
	// duplicate name.
	Create(ctx context.Context, d *Department) error

	GetByID(ctx context.Context, id uuid.UUID) (*Department, error)
	GetByName(ctx context.Context, name string) (*Department, error)
	List(ctx context.Context) ([]*Department, error)
	Count(ctx context.Context) (int64, error)
}
