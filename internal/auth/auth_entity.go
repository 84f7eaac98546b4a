package auth

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rthunborg/Masterdata-sub001/internal/domain"
)

type User struct {
	ID        uuid.UUID   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Email     string      `gorm:"type:varchar(255);uniqueIndex:uq_users_email;not null"`
	Name      string      `gorm:"type:varchar(255);not null"`
	Password  string      `gorm:"type:varchar(255);not null"`
	Role      domain.Role `gorm:"type:varchar(50);not null"`
	IsActive  bool        `gorm:"default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}
