package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/sheltersync/sheltersync-backend/pkg/enums"
)

// Resident is the canonical roster entity tracked by the kiosk.
//
// While a resident is checked in, the destination and expected-return
// columns are NULL; the occupancy engine clears them on check-in.
type Resident struct {
	ID                 uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name               string            `gorm:"type:text;not null"`
	PhotoURL           *string           `gorm:"column:photo_url"`
	StatusText         string            `gorm:"column:status_text;not null;default:''"`
	StatusColor        enums.StatusColor `gorm:"column:status_color;type:text;not null;default:'gray'"`
	Bio                *string           `gorm:"column:bio"`
	Gender             *string           `gorm:"column:gender"`
	CustomFieldLabel   *string           `gorm:"column:custom_field_label"`
	CustomFieldValue   *string           `gorm:"column:custom_field_value"`
	Notes              *string           `gorm:"column:notes"`
	IsCheckedIn        bool              `gorm:"column:is_checked_in;not null;default:false"`
	CurrentDestination *string           `gorm:"column:current_destination"`
	ExpectedReturnTime *string           `gorm:"column:expected_return_time"`
	ExpectedReturnDate *string           `gorm:"column:expected_return_date"`
	LastActionAt       *time.Time        `gorm:"column:last_action_at"`
	CreatedAt          time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
