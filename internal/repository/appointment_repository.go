package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/medisched/medisched-api/internal/domain/appointment"
	"github.com/medisched/medisched-api/internal/domain/availability"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AppointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

// Book inserts the appointment while holding a row lock on its availability
// window. The capacity recheck runs inside the same transaction, and the
// partial unique index on (availability_id, session) among non-canceled
// appointments backstops the race at the store level.
func (r *AppointmentRepository) Book(ctx context.Context, a *appointment.Appointment) error {
	if a.AvailabilityID == nil {
		return r.db.WithContext(ctx).Create(a).Error
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var av availability.Availability
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", *a.AvailabilityID).
			First(&av).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return appointment.ErrSessionUnavailable
			}
			return err
		}

		var taken int64
		err = tx.Model(&appointment.Appointment{}).
			Where("availability_id = ? AND session = ? AND status <> ?",
				*a.AvailabilityID, a.Session, appointment.StatusCanceled).
			Count(&taken).Error
		if err != nil {
			return err
		}
		if taken > 0 {
			return appointment.ErrSessionFullyBooked
		}

		if err := tx.Create(a).Error; err != nil {
			if isDuplicateKey(err) {
				return appointment.ErrSessionFullyBooked
			}
			return err
		}
		return nil
	})
}

func (r *AppointmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	var a appointment.Appointment
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appointment.ErrAppointmentNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *AppointmentRepository) List(ctx context.Context, q *appointment.ListAppointmentsQuery) (*appointment.PagedAppointments, error) {
	tx := r.db.WithContext(ctx).Model(&appointment.Appointment{})
	if q.PatientID != nil {
		tx = tx.Where("patient_id = ?", *q.PatientID)
	}
	if q.DoctorID != nil {
		tx = tx.Where("doctor_id = ?", *q.DoctorID)
	}
	if q.Status != nil {
		tx = tx.Where("status = ?", *q.Status)
	}
	if q.DateFrom != nil {
		tx = tx.Where("scheduled_at >= ?", *q.DateFrom)
	}
	if q.DateTo != nil {
		tx = tx.Where("scheduled_at < ?", *q.DateTo)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, err
	}

	var items []*appointment.Appointment
	err := tx.Order("scheduled_at ASC").
		Offset((q.Page - 1) * q.PageSize).
		Limit(q.PageSize).
		Find(&items).Error
	if err != nil {
		return nil, err
	}

	totalPages := int(total) / q.PageSize
	if int(total)%q.PageSize > 0 {
		totalPages++
	}

	return &appointment.PagedAppointments{
		Appointments: items,
		TotalCount:   total,
		Page:         q.Page,
		PageSize:     q.PageSize,
		TotalPages:   totalPages,
	}, nil
}

func (r *AppointmentRepository) UpdateStatus(ctx context.Context, a *appointment.Appointment) error {
	return r.db.WithContext(ctx).Model(&appointment.Appointment{}).
		Where("id = ?", a.ID).
		Updates(map[string]any{
			"status":      a.Status,
			"canceled_at": a.CanceledAt,
			"canceled_by": a.CanceledBy,
		}).Error
}

func (r *AppointmentRepository) CountByStatus(ctx context.Context, status appointment.Status) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&appointment.Appointment{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}

func (r *AppointmentRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&appointment.Appointment{}).Count(&count).Error
	return count, err
}
