package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/sheltersync/sheltersync-backend/pkg/enums"
)

// MovementLog records a single check-in, check-out, or profile update event.
// The table is append-only and capped; inserts trim entries beyond the cap.
type MovementLog struct {
	ID                 uuid.UUID          `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ResidentID         uuid.UUID          `gorm:"type:uuid;column:resident_id;not null;index"`
	ResidentName       string             `gorm:"column:resident_name;not null"`
	Type               enums.MovementType `gorm:"type:text;not null"`
	Timestamp          time.Time          `gorm:"column:timestamp;not null;index:idx_movement_logs_timestamp,sort:desc"`
	PerformerName      *string            `gorm:"column:performer_name"`
	Destination        *string            `gorm:"column:destination"`
	ExpectedReturnTime *string            `gorm:"column:expected_return_time"`
	ExpectedReturnDate *string            `gorm:"column:expected_return_date"`
	IsLate             *bool              `gorm:"column:is_late"`
	CreatedAt          time.Time          `gorm:"column:created_at;autoCreateTime"`
}
