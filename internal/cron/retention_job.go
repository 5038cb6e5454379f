package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/sheltersync/sheltersync-backend/internal/occupancy"
	"github.com/sheltersync/sheltersync-backend/pkg/db/models"
	"github.com/sheltersync/sheltersync-backend/pkg/logger"
)

const defaultMovementLogCap = 1000

// RetentionJobParams configure the movement log retention sweep.
type RetentionJobParams struct {
	Logger    *logger.Logger
	Movements movementTrimmer
	Residents residentLister
	Cap       int
}

type movementTrimmer interface {
	TrimToCap(ctx context.Context, cap int) (int64, error)
}

type residentLister interface {
	List(ctx context.Context, nameFilter string) ([]models.Resident, error)
}

// NewRetentionJob builds the sweep that trims the movement log to its cap
// and reports how many residents are currently overdue.
func NewRetentionJob(params RetentionJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Movements == nil {
		return nil, fmt.Errorf("movement repository required")
	}
	if params.Residents == nil {
		return nil, fmt.Errorf("residents repository required")
	}
	cap := params.Cap
	if cap <= 0 {
		cap = defaultMovementLogCap
	}
	return &retentionJob{
		logg:      params.Logger,
		movements: params.Movements,
		residents: params.Residents,
		cap:       cap,
		now:       time.Now,
	}, nil
}

type retentionJob struct {
	logg      *logger.Logger
	movements movementTrimmer
	residents residentLister
	cap       int
	now       func() time.Time
}

func (j *retentionJob) Name() string { return "movement-retention" }

func (j *retentionJob) Run(ctx context.Context) error {
	deleted, err := j.movements.TrimToCap(ctx, j.cap)
	if err != nil {
		return fmt.Errorf("movement retention: %w", err)
	}

	overdue, err := j.countOverdue(ctx)
	if err != nil {
		return fmt.Errorf("overdue scan: %w", err)
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"log_cap":           j.cap,
		"rows_deleted":      deleted,
		"overdue_residents": overdue,
	})
	j.logg.Info(logCtx, "movement retention sweep complete")
	return nil
}

func (j *retentionJob) countOverdue(ctx context.Context) (int, error) {
	residents, err := j.residents.List(ctx, "")
	if err != nil {
		return 0, err
	}
	now := j.now().UTC()
	count := 0
	for _, resident := range residents {
		if occupancy.IsOverdue(resident, now) {
			count++
		}
	}
	return count, nil
}
