package models

import "time"

// KioskSettings is a single-row table (id is always 1) holding the kiosk
// branding. Last write wins.
type KioskSettings struct {
	ID             int16     `gorm:"primaryKey"`
	Title          string    `gorm:"type:text;not null"`
	Subtitle       string    `gorm:"type:text;not null"`
	BackgroundURL  *string   `gorm:"column:background_url"`
	OverlayOpacity float64   `gorm:"column:overlay_opacity;not null;default:0.5"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
