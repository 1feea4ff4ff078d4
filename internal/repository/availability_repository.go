package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/medisched/medisched-api/internal/domain/availability"
	"gorm.io/gorm"
)

type AvailabilityRepository struct {
	db *gorm.DB
}

func NewAvailabilityRepository(db *gorm.DB) *AvailabilityRepository {
	return &AvailabilityRepository{db: db}
}

func (r *AvailabilityRepository) Create(ctx context.Context, a *availability.Availability) error {
	if err := r.db.WithContext(ctx).Create(a).Error; err != nil {
		if isDuplicateKey(err) {
			return availability.ErrAvailabilityExists
		}
		return err
	}
	return nil
}

func (r *AvailabilityRepository) GetByID(ctx context.Context, id uuid.UUID) (*availability.Availability, error) {
	var a availability.Availability
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, availability.ErrAvailabilityNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *AvailabilityRepository) GetByDoctorAndDate(ctx context.Context, doctorID uuid.UUID, date time.Time) (*availability.Availability, error) {
	var a availability.Availability
	err := r.db.WithContext(ctx).
		Where("doctor_id = ? AND date = ?", doctorID, date.Format("2006-01-02")).
		First(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, availability.ErrAvailabilityNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *AvailabilityRepository) ListByDoctor(ctx context.Context, doctorID uuid.UUID, from time.Time) ([]*availability.Availability, error) {
	var out []*availability.Availability
	err := r.db.WithContext(ctx).
		Where("doctor_id = ? AND date >= ?", doctorID, from.Format("2006-01-02")).
		Order("date ASC").
		Find(&out).Error
	return out, err
}
