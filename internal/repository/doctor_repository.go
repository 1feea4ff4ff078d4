package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/medisched/medisched-api/internal/domain/doctor"
	"gorm.io/gorm"
)

type DoctorRepository struct {
	db *gorm.DB
}

func NewDoctorRepository(db *gorm.DB) *DoctorRepository {
	return &DoctorRepository{db: db}
}

func (r *DoctorRepository) GetByID(ctx context.Context, id uuid.UUID) (*doctor.Doctor, error) {
	var d doctor.Doctor
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&d).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, doctor.ErrDoctorNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (r *DoctorRepository) GetByAccountID(ctx context.Context, accountID uuid.UUID) (*doctor.Doctor, error) {
	var d doctor.Doctor
	err := r.db.WithContext(ctx).Where("account_id = ?", accountID).First(&d).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, doctor.ErrDoctorNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (r *DoctorRepository) Update(ctx context.Context, id uuid.UUID, cmd *doctor.UpdateDoctorCommand) (*doctor.Doctor, error) {
	updates := map[string]any{}
	if cmd.Name != nil {
		updates["name"] = *cmd.Name
	}
	if cmd.Gender != nil {
		updates["gender"] = *cmd.Gender
	}
	if cmd.DateOfBirth != nil {
		updates["date_of_birth"] = *cmd.DateOfBirth
	}
	if cmd.MobileNumber != nil {
		updates["mobile_number"] = *cmd.MobileNumber
	}
	if cmd.Qualification != nil {
		updates["qualification"] = *cmd.Qualification
	}
	if cmd.Specialization != nil {
		updates["specialization"] = *cmd.Specialization
	}
	if cmd.ExperienceYears != nil {
		updates["experience_years"] = *cmd.ExperienceYears
	}
	if cmd.Status != nil {
		updates["status"] = *cmd.Status
	}
	if cmd.DepartmentID != nil {
		updates["department_id"] = *cmd.DepartmentID
	}

	if len(updates) > 0 {
		err := r.db.WithContext(ctx).Model(&doctor.Doctor{}).
			Where("id = ?", id).
			Updates(updates).Error
		if err != nil {
			if isDuplicateKey(err) {
				return nil, doctor.ErrMobileNumberTaken
			}
			return nil, err
		}
	}
	return r.GetByID(ctx, id)
}

func (r *DoctorRepository) List(ctx context.Context, q *doctor.ListDoctorsQuery) ([]*doctor.Doctor, error) {
	tx := r.db.WithContext(ctx).Model(&doctor.Doctor{})
	if q != nil {
		if q.DepartmentID != nil {
			tx = tx.Where("department_id = ?", *q.DepartmentID)
		}
		if q.Status != nil {
			tx = tx.Where("status = ?", *q.Status)
		}
	}
	var out []*doctor.Doctor
	err := tx.Order("name ASC").Find(&out).Error
	return out, err
}

func (r *DoctorRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&doctor.Doctor{}).Count(&count).Error
	return count, err
}

func (r *DoctorRepository) ExistsByMobile(ctx context.Context, mobile string, excludeID *uuid.UUID) (bool, error) {
	tx := r.db.WithContext(ctx).Model(&doctor.Doctor{}).Where("mobile_number = ?", mobile)
	if excludeID != nil {
		tx = tx.Where("id <> ?", *excludeID)
	}
	var count int64
	err := tx.Count(&count).Error
	return count > 0, err
}
