package occupancy

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sheltersync/sheltersync-backend/internal/movement"
	"github.com/sheltersync/sheltersync-backend/internal/residents"
	"github.com/sheltersync/sheltersync-backend/pkg/db/models"
	pkgerrors "github.com/sheltersync/sheltersync-backend/pkg/errors"
	"github.com/sheltersync/sheltersync-backend/pkg/metrics"
	"gorm.io/gorm"
)

// Service drives resident check-in and check-out. Each transition persists
// the resident update and the log entry in one transaction and keeps the
// occupancy gauge current.
type Service interface {
	CheckIn(ctx context.Context, residentID uuid.UUID, performer string) (*models.Resident, error)
	CheckOut(ctx context.Context, residentID uuid.UUID, req CheckOutRequest, performer string) (*models.Resident, error)
	Roster(ctx context.Context, nameFilter string) ([]models.Resident, error)
}

// CheckOutRequest carries the destination and expected-return fields for a
// check-out.
type CheckOutRequest struct {
	Destination        string  `json:"destination" validate:"required,max=200"`
	ExpectedReturnTime string  `json:"expected_return_time" validate:"required,len=5"`
	ExpectedReturnDate *string `json:"expected_return_date" validate:"omitempty,datetime=2006-01-02"`
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	residents residents.Repository
	logs      movement.Repository
	tx        txRunner
	metrics   *metrics.MovementMetrics
	logCap    int
	clock     func() time.Time
}

// ServiceParams bundles the dependencies required to build an occupancy service.
type ServiceParams struct {
	Residents      residents.Repository
	MovementRepo   movement.Repository
	TxRunner       txRunner
	Metrics        *metrics.MovementMetrics
	MovementLogCap int
	Clock          func() time.Time
}

// NewService wires occupancy dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Residents == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "residents repository required")
	}
	if params.MovementRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "movement repository required")
	}
	if params.TxRunner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction runner required")
	}
	clock := params.Clock
	if clock == nil {
		clock = func() time.Time { return time.Now().UTC() }
	}
	return &service{
		residents: params.Residents,
		logs:      params.MovementRepo,
		tx:        params.TxRunner,
		metrics:   params.Metrics,
		logCap:    params.MovementLogCap,
		clock:     clock,
	}, nil
}

func (s *service) CheckIn(ctx context.Context, residentID uuid.UUID, performer string) (*models.Resident, error) {
	resident, err := s.getResident(ctx, residentID)
	if err != nil {
		return nil, err
	}
	if resident.IsCheckedIn {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "resident is already checked in")
	}

	now := s.clock()
	updated, entry := CheckIn(*resident, now)
	entry.ID = uuid.New()
	stampPerformer(&entry, performer)

	if err := s.persist(ctx, &updated, &entry); err != nil {
		return nil, err
	}
	s.metrics.IncCheckIn(entry.IsLate != nil && *entry.IsLate)
	s.refreshOccupancy(ctx)
	return &updated, nil
}

func (s *service) CheckOut(ctx context.Context, residentID uuid.UUID, req CheckOutRequest, performer string) (*models.Resident, error) {
	resident, err := s.getResident(ctx, residentID)
	if err != nil {
		return nil, err
	}
	if !resident.IsCheckedIn {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "resident is already checked out")
	}

	now := s.clock()
	updated, entry, err := CheckOut(*resident, req.Destination, req.ExpectedReturnTime, req.ExpectedReturnDate, now)
	if err != nil {
		return nil, err
	}
	entry.ID = uuid.New()
	stampPerformer(&entry, performer)

	if err := s.persist(ctx, &updated, &entry); err != nil {
		return nil, err
	}
	s.metrics.IncCheckOut()
	s.refreshOccupancy(ctx)
	return &updated, nil
}

func (s *service) Roster(ctx context.Context, nameFilter string) ([]models.Resident, error) {
	rows, err := s.residents.List(ctx, nameFilter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list residents")
	}
	SortResidents(rows, s.clock())
	return rows, nil
}

func (s *service) getResident(ctx context.Context, id uuid.UUID) (*models.Resident, error) {
	resident, err := s.residents.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "resident not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "get resident")
	}
	return resident, nil
}

func (s *service) persist(ctx context.Context, resident *models.Resident, entry *models.MovementLog) error {
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.residents.WithTx(tx).Update(ctx, resident); err != nil {
			return err
		}
		return s.logs.WithTx(tx).Append(ctx, entry, s.logCap)
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist movement")
	}
	return nil
}

// refreshOccupancy is best effort; a failed count never fails the movement.
func (s *service) refreshOccupancy(ctx context.Context) {
	if s.metrics == nil {
		return
	}
	if _, checkedIn, err := s.residents.Counts(ctx); err == nil {
		s.metrics.SetOccupancy(int(checkedIn))
	}
}

func stampPerformer(entry *models.MovementLog, performer string) {
	if trimmed := strings.TrimSpace(performer); trimmed != "" {
		entry.PerformerName = &trimmed
	}
}
