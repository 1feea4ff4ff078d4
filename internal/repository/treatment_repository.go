package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/medisched/medisched-api/internal/domain/appointment"
	"gorm.io/gorm"
)

type TreatmentRepository struct {
	db *gorm.DB
}

func NewTreatmentRepository(db *gorm.DB) *TreatmentRepository {
	return &TreatmentRepository{db: db}
}

// CreateAndComplete writes the treatment and flips its appointment to
// Completed in one transaction, so the clinical note and the terminal status
// become visible together.
func (r *TreatmentRepository) CreateAndComplete(ctx context.Context, t *appointment.Treatment, a *appointment.Appointment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(t).Error; err != nil {
			if isDuplicateKey(err) {
				return appointment.ErrTreatmentExists
			}
			return err
		}
		return tx.Model(&appointment.Appointment{}).
			Where("id = ?", a.ID).
			Update("status", appointment.StatusCompleted).Error
	})
}

func (r *TreatmentRepository) GetByAppointmentID(ctx context.Context, appointmentID uuid.UUID) (*appointment.Treatment, error) {
	var t appointment.Treatment
	err := r.db.WithContext(ctx).Where("appointment_id = ?", appointmentID).First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appointment.ErrTreatmentNotFound
		}
		return nil, err
	}
	return &t, nil
}
