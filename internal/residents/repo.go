package residents

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sheltersync/sheltersync-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository exposes persistence helpers for resident profiles.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	List(ctx context.Context, nameFilter string) ([]models.Resident, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Resident, error)
	Create(ctx context.Context, resident *models.Resident) error
	Update(ctx context.Context, resident *models.Resident) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	Counts(ctx context.Context) (total int64, checkedIn int64, err error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a residents repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) List(ctx context.Context, nameFilter string) ([]models.Resident, error) {
	query := r.db.WithContext(ctx).Model(&models.Resident{})
	if trimmed := strings.TrimSpace(nameFilter); trimmed != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(trimmed)+"%")
	}
	var rows []models.Resident
	if err := query.Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*models.Resident, error) {
	var resident models.Resident
	if err := r.db.WithContext(ctx).First(&resident, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &resident, nil
}

func (r *repositoryImpl) Create(ctx context.Context, resident *models.Resident) error {
	return r.db.WithContext(ctx).Create(resident).Error
}

func (r *repositoryImpl) Update(ctx context.Context, resident *models.Resident) error {
	return r.db.WithContext(ctx).Save(resident).Error
}

func (r *repositoryImpl) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&models.Resident{}, "id = ?", id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repositoryImpl) Counts(ctx context.Context) (int64, int64, error) {
	var total, checkedIn int64
	if err := r.db.WithContext(ctx).Model(&models.Resident{}).Count(&total).Error; err != nil {
		return 0, 0, err
	}
	if err := r.db.WithContext(ctx).Model(&models.Resident{}).Where("is_checked_in = ?", true).Count(&checkedIn).Error; err != nil {
		return 0, 0, err
	}
	return total, checkedIn, nil
}
