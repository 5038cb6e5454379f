package staff

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sheltersync/sheltersync-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository exposes persistence helpers for staff accounts.
type Repository interface {
	List(ctx context.Context) ([]models.StaffAccount, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.StaffAccount, error)
	FindByUsername(ctx context.Context, username string) (*models.StaffAccount, error)
	Create(ctx context.Context, account *models.StaffAccount) error
	Update(ctx context.Context, account *models.StaffAccount) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	Count(ctx context.Context) (int64, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a staff repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) List(ctx context.Context) ([]models.StaffAccount, error) {
	var rows []models.StaffAccount
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*models.StaffAccount, error) {
	var account models.StaffAccount
	if err := r.db.WithContext(ctx).First(&account, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *repositoryImpl) FindByUsername(ctx context.Context, username string) (*models.StaffAccount, error) {
	var account models.StaffAccount
	if err := r.db.WithContext(ctx).Where("LOWER(username) = LOWER(?)", username).First(&account).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *repositoryImpl) Create(ctx context.Context, account *models.StaffAccount) error {
	return r.db.WithContext(ctx).Create(account).Error
}

func (r *repositoryImpl) Update(ctx context.Context, account *models.StaffAccount) error {
	return r.db.WithContext(ctx).Save(account).Error
}

func (r *repositoryImpl) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&models.StaffAccount{}, "id = ?", id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.StaffAccount{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repositoryImpl) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.StaffAccount{}).
		Where("id = ?", id).
		UpdateColumn("last_login_at", at).Error
}
