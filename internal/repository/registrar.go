package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/medisched/medisched-api/internal/domain"
	"github.com/medisched/medisched-api/internal/domain/doctor"
	"github.com/medisched/medisched-api/internal/domain/patient"
	"gorm.io/gorm"
)

// Registrar creates an account together with its role-specific profile as one
// atomic unit. A failure between the two inserts rolls back both, so an
// orphan account or orphan profile is never visible.
type Registrar struct {
	db *gorm.DB
}

func NewRegistrar(db *gorm.DB) *Registrar {
	return &Registrar{db: db}
}

func (r *Registrar) CreatePatientWithAccount(ctx context.Context, acc *domain.Account, p *patient.Patient) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(acc).Error; err != nil {
			return translateAccountConflict(err)
		}
		p.AccountID = acc.ID
		if err := tx.Create(p).Error; err != nil {
			if isDuplicateKey(err) {
				return patient.ErrMobileNumberTaken
			}
			return fmt.Errorf("creating patient profile: %w", err)
		}
		return tx.Model(acc).Update("patient_id", p.ID).Error
	})
}

func (r *Registrar) CreateDoctorWithAccount(ctx context.Context, acc *domain.Account, d *doctor.Doctor) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(acc).Error; err != nil {
			return translateAccountConflict(err)
		}
		d.AccountID = acc.ID
		if err := tx.Create(d).Error; err != nil {
			if isDuplicateKey(err) {
				return doctor.ErrMobileNumberTaken
			}
			return fmt.Errorf("creating doctor profile: %w", err)
		}
		return tx.Model(acc).Update("doctor_id", d.ID).Error
	})
}

func translateAccountConflict(err error) error {
	if !isDuplicateKey(err) {
		return fmt.Errorf("creating account: %w", err)
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "email"):
		return domain.ErrEmailTaken
	default:
		return domain.ErrUsernameTaken
	}
}
