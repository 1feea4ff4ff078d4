package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/medisched/medisched-api/internal/domain/patient"
	"gorm.io/gorm"
)

type PatientRepository struct {
	db *gorm.DB
}

func NewPatientRepository(db *gorm.DB) *PatientRepository {
	return &PatientRepository{db: db}
}

func (r *PatientRepository) GetByID(ctx context.Context, id uuid.UUID) (*patient.Patient, error) {
	var p patient.Patient
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, patient.ErrPatientNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *PatientRepository) GetByAccountID(ctx context.Context, accountID uuid.UUID) (*patient.Patient, error) {
	var p patient.Patient
	err := r.db.WithContext(ctx).Where("account_id = ?", accountID).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, patient.ErrPatientNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *PatientRepository) Update(ctx context.Context, id uuid.UUID, cmd *patient.UpdatePatientCommand) (*patient.Patient, error) {
	updates := map[string]any{}
	if cmd.Name != nil {
		updates["name"] = *cmd.Name
	}
	if cmd.Gender != nil {
		updates["gender"] = *cmd.Gender
	}
	if cmd.HeightCm != nil {
		updates["height_cm"] = *cmd.HeightCm
	}
	if cmd.WeightKg != nil {
		updates["weight_kg"] = *cmd.WeightKg
	}
	if cmd.DateOfBirth != nil {
		updates["date_of_birth"] = *cmd.DateOfBirth
	}
	if cmd.MobileNumber != nil {
		updates["mobile_number"] = *cmd.MobileNumber
	}
	if cmd.BloodGroup != nil {
		updates["blood_group"] = *cmd.BloodGroup
	}
	if cmd.Allergies != nil {
		updates["allergies"] = *cmd.Allergies
	}
	if cmd.MedicalHistory != nil {
		updates["medical_history"] = *cmd.MedicalHistory
	}

	if len(updates) > 0 {
		err := r.db.WithContext(ctx).Model(&patient.Patient{}).
			Where("id = ?", id).
			Updates(updates).Error
		if err != nil {
			if isDuplicateKey(err) {
				return nil, patient.ErrMobileNumberTaken
			}
			return nil, err
		}
	}
	return r.GetByID(ctx, id)
}

func (r *PatientRepository) List(ctx context.Context) ([]*patient.Patient, error) {
	var out []*patient.Patient
	err := r.db.WithContext(ctx).Order("name ASC").Find(&out).Error
	return out, err
}

func (r *PatientRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&patient.Patient{}).Count(&count).Error
	return count, err
}

func (r *PatientRepository) ExistsByMobile(ctx context.Context, mobile string, excludeID *uuid.UUID) (bool, error) {
	tx := r.db.WithContext(ctx).Model(&patient.Patient{}).Where("mobile_number = ?", mobile)
	if excludeID != nil {
		tx = tx.Where("id <> ?", *excludeID)
	}
	var count int64
	err := tx.Count(&count).Error
	return count > 0, err
}
