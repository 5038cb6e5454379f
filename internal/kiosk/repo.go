package kiosk

import (
	"context"

	"github.com/sheltersync/sheltersync-backend/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// settingsRowID pins the single kiosk settings row.
const settingsRowID int16 = 1

// Repository exposes persistence helpers for the kiosk settings row.
type Repository interface {
	Get(ctx context.Context) (*models.KioskSettings, error)
	Upsert(ctx context.Context, settings *models.KioskSettings) error
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a kiosk settings repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) Get(ctx context.Context) (*models.KioskSettings, error) {
	var settings models.KioskSettings
	if err := r.db.WithContext(ctx).First(&settings, "id = ?", settingsRowID).Error; err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *repositoryImpl) Upsert(ctx context.Context, settings *models.KioskSettings) error {
	settings.ID = settingsRowID
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(settings).Error
}
