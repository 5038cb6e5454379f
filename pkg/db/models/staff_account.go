package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/sheltersync/sheltersync-backend/pkg/enums"
)

// StaffAccount represents a staff or admin login for the management surface.
// The PIN hash never leaves the service layer.
type StaffAccount struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Username    string          `gorm:"type:text;not null;uniqueIndex:idx_staff_accounts_username"`
	PinHash     string          `gorm:"column:pin_hash;not null"`
	Role        enums.StaffRole `gorm:"type:text;not null;default:'STAFF'"`
	Name        string          `gorm:"type:text;not null"`
	PhotoURL    *string         `gorm:"column:photo_url"`
	Phone       *string         `gorm:"column:phone"`
	Email       *string         `gorm:"column:email"`
	Notes       *string         `gorm:"column:notes"`
	LastLoginAt *time.Time      `gorm:"column:last_login_at"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
