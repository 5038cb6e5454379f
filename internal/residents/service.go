package residents

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sheltersync/sheltersync-backend/internal/movement"
	"github.com/sheltersync/sheltersync-backend/pkg/db/models"
	"github.com/sheltersync/sheltersync-backend/pkg/enums"
	pkgerrors "github.com/sheltersync/sheltersync-backend/pkg/errors"
	"gorm.io/gorm"
)

// Service defines resident roster operations for the kiosk and the
// management dashboard. The management board ordering (overdue first) lives
// in the occupancy service, which layers on top of this one.
type Service interface {
	List(ctx context.Context, nameFilter string) ([]models.Resident, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Resident, error)
	Create(ctx context.Context, req CreateResidentRequest) (*models.Resident, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateResidentRequest, performer string) (*models.Resident, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo   Repository
	logs   movement.Repository
	tx     txRunner
	logCap int
	clock  func() time.Time
}

// ServiceParams bundles the dependencies required to build a residents service.
type ServiceParams struct {
	Repo           Repository
	MovementRepo   movement.Repository
	TxRunner       txRunner
	MovementLogCap int
	Clock          func() time.Time
}

// NewService wires residents dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
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
		repo:   params.Repo,
		logs:   params.MovementRepo,
		tx:     params.TxRunner,
		logCap: params.MovementLogCap,
		clock:  clock,
	}, nil
}

func (s *service) List(ctx context.Context, nameFilter string) ([]models.Resident, error) {
	rows, err := s.repo.List(ctx, nameFilter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list residents")
	}
	return rows, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Resident, error) {
	resident, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "resident not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "get resident")
	}
	return resident, nil
}

func (s *service) Create(ctx context.Context, req CreateResidentRequest) (*models.Resident, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}

	now := s.clock()
	resident := &models.Resident{
		ID:               uuid.New(),
		Name:             name,
		PhotoURL:         req.PhotoURL,
		StatusText:       req.StatusText,
		StatusColor:      enums.StatusColorBlue,
		Bio:              req.Bio,
		Gender:           req.Gender,
		CustomFieldLabel: req.CustomFieldLabel,
		CustomFieldValue: req.CustomFieldValue,
		Notes:            req.Notes,
		IsCheckedIn:      true,
		LastActionAt:     &now,
	}
	if resident.StatusText == "" {
		resident.StatusText = "New"
	}
	if req.StatusColor != "" {
		color, err := enums.ParseStatusColor(req.StatusColor)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status color")
		}
		resident.StatusColor = color
	}

	if err := s.repo.Create(ctx, resident); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create resident")
	}
	return resident, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, req UpdateResidentRequest, performer string) (*models.Resident, error) {
	resident, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	applyProfileFields(resident, req)

	now := s.clock()
	if req.CurrentDestination != nil {
		dest := strings.TrimSpace(*req.CurrentDestination)
		if dest == "" {
			resident.IsCheckedIn = true
			resident.CurrentDestination = nil
			resident.ExpectedReturnTime = nil
			resident.ExpectedReturnDate = nil
		} else {
			resident.IsCheckedIn = false
			resident.CurrentDestination = &dest
			if req.ExpectedReturnTime != nil {
				resident.ExpectedReturnTime = req.ExpectedReturnTime
			}
			if req.ExpectedReturnDate != nil {
				resident.ExpectedReturnDate = req.ExpectedReturnDate
			}
		}
		resident.LastActionAt = &now
	}

	entry := &models.MovementLog{
		ID:           uuid.New(),
		ResidentID:   resident.ID,
		ResidentName: resident.Name,
		Type:         enums.MovementProfileUpdate,
		Timestamp:    now,
	}
	if trimmed := strings.TrimSpace(performer); trimmed != "" {
		entry.PerformerName = &trimmed
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Update(ctx, resident); err != nil {
			return err
		}
		return s.logs.WithTx(tx).Append(ctx, entry, s.logCap)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update resident")
	}
	return resident, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	found, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete resident")
	}
	if !found {
		return pkgerrors.New(pkgerrors.CodeNotFound, "resident not found")
	}
	return nil
}

func applyProfileFields(resident *models.Resident, req UpdateResidentRequest) {
	if req.Name != nil {
		if name := strings.TrimSpace(*req.Name); name != "" {
			resident.Name = name
		}
	}
	if req.PhotoURL != nil {
		resident.PhotoURL = req.PhotoURL
	}
	if req.StatusText != nil {
		resident.StatusText = *req.StatusText
	}
	if req.StatusColor != nil {
		if color, err := enums.ParseStatusColor(*req.StatusColor); err == nil {
			resident.StatusColor = color
		}
	}
	if req.Bio != nil {
		resident.Bio = req.Bio
	}
	if req.Gender != nil {
		resident.Gender = req.Gender
	}
	if req.CustomFieldLabel != nil {
		resident.CustomFieldLabel = req.CustomFieldLabel
	}
	if req.CustomFieldValue != nil {
		resident.CustomFieldValue = req.CustomFieldValue
	}
	if req.Notes != nil {
		resident.Notes = req.Notes
	}
}
