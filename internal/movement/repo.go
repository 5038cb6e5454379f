package movement

import (
	"context"
	"time"

	"github.com/sheltersync/sheltersync-backend/pkg/db/models"
	"github.com/sheltersync/sheltersync-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Repository exposes persistence helpers for the movement log. The log is
// append-only and capped; Append trims whatever falls beyond the cap.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Append(ctx context.Context, entry *models.MovementLog, cap int) error
	List(ctx context.Context, params ListParams) ([]models.MovementLog, *pagination.Cursor, error)
	ListSince(ctx context.Context, since *time.Time) ([]models.MovementLog, error)
	ListChronological(ctx context.Context) ([]models.MovementLog, error)
	TrimToCap(ctx context.Context, cap int) (int64, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a movement log repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

// ListParams configures cursor pagination for the log history view.
type ListParams struct {
	Limit  int
	Cursor *pagination.Cursor
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Append(ctx context.Context, entry *models.MovementLog, cap int) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return err
	}
	if cap > 0 {
		if _, err := r.TrimToCap(ctx, cap); err != nil {
			return err
		}
	}
	return nil
}

func (r *repositoryImpl) List(ctx context.Context, params ListParams) ([]models.MovementLog, *pagination.Cursor, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)

	query := r.db.WithContext(ctx).Model(&models.MovementLog{})
	if params.Cursor != nil {
		query = query.Where(
			"(timestamp < ?) OR (timestamp = ? AND id < ?)",
			params.Cursor.OccurredAt, params.Cursor.OccurredAt, params.Cursor.ID,
		)
	}

	var entries []models.MovementLog
	if err := query.Order("timestamp DESC, id DESC").Limit(limit).Find(&entries).Error; err != nil {
		return nil, nil, err
	}

	if len(entries) > normalized {
		next := entries[normalized]
		entries = entries[:normalized]
		return entries, &pagination.Cursor{OccurredAt: next.Timestamp, ID: next.ID}, nil
	}
	return entries, nil, nil
}

func (r *repositoryImpl) ListSince(ctx context.Context, since *time.Time) ([]models.MovementLog, error) {
	query := r.db.WithContext(ctx).Model(&models.MovementLog{})
	if since != nil {
		query = query.Where("timestamp >= ?", *since)
	}
	var entries []models.MovementLog
	if err := query.Order("timestamp DESC, id DESC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *repositoryImpl) ListChronological(ctx context.Context) ([]models.MovementLog, error) {
	var entries []models.MovementLog
	if err := r.db.WithContext(ctx).
		Model(&models.MovementLog{}).
		Order("timestamp ASC, id ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// TrimToCap deletes everything older than the newest cap entries and returns
// the number of rows removed.
func (r *repositoryImpl) TrimToCap(ctx context.Context, cap int) (int64, error) {
	if cap <= 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Exec(
		`DELETE FROM movement_logs WHERE id NOT IN (
			SELECT id FROM (
				SELECT id FROM movement_logs ORDER BY timestamp DESC, id DESC LIMIT ?
			) keep
		)`, cap)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
