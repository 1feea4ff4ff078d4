package department

import (
	"time"

	"github.com/google/uuid"
)

type Department struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	Name        string `gorm:"column:name;type:varchar(64);uniqueIndex;not null"`
	Description string `gorm:"column:description;type:text"`
}

func (Department) TableName() string {
	return "directory.departments"
}

type CreateDepartmentCommand struct {
	Name        string
	Description string
}
