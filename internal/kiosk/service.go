package kiosk

import (
	"context"
	"errors"
	"strings"

	"github.com/sheltersync/sheltersync-backend/pkg/db/models"
	pkgerrors "github.com/sheltersync/sheltersync-backend/pkg/errors"
	"gorm.io/gorm"
)

// Defaults shown before an admin customizes the kiosk.
const (
	defaultTitle          = "Resident Check Point"
	defaultSubtitle       = "Please tap your name to check in or out."
	defaultOverlayOpacity = 0.5
)

// UpdateSettingsRequest uses pointers so absent fields are left untouched.
type UpdateSettingsRequest struct {
	Title          *string  `json:"title" validate:"omitempty,min=1,max=200"`
	Subtitle       *string  `json:"subtitle" validate:"omitempty,max=300"`
	BackgroundURL  *string  `json:"background_url" validate:"omitempty,url|eq="`
	OverlayOpacity *float64 `json:"overlay_opacity" validate:"omitempty,gte=0,lte=1"`
}

// Service manages the kiosk branding row.
type Service interface {
	Get(ctx context.Context) (*models.KioskSettings, error)
	Update(ctx context.Context, req UpdateSettingsRequest) (*models.KioskSettings, error)
}

type service struct {
	repo Repository
}

// NewService wires kiosk dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "kiosk repository required")
	}
	return &service{repo: repo}, nil
}

// Get returns the stored settings, falling back to the defaults when the row
// has not been seeded yet.
func (s *service) Get(ctx context.Context) (*models.KioskSettings, error) {
	settings, err := s.repo.Get(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return defaultSettings(), nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "get kiosk settings")
	}
	return settings, nil
}

func (s *service) Update(ctx context.Context, req UpdateSettingsRequest) (*models.KioskSettings, error) {
	settings, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "title must not be empty")
		}
		settings.Title = title
	}
	if req.Subtitle != nil {
		settings.Subtitle = strings.TrimSpace(*req.Subtitle)
	}
	if req.BackgroundURL != nil {
		if url := strings.TrimSpace(*req.BackgroundURL); url == "" {
			settings.BackgroundURL = nil
		} else {
			settings.BackgroundURL = &url
		}
	}
	if req.OverlayOpacity != nil {
		if *req.OverlayOpacity < 0 || *req.OverlayOpacity > 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "overlay opacity must be between 0 and 1")
		}
		settings.OverlayOpacity = *req.OverlayOpacity
	}

	if err := s.repo.Upsert(ctx, settings); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save kiosk settings")
	}
	return settings, nil
}

func defaultSettings() *models.KioskSettings {
	return &models.KioskSettings{
		ID:             settingsRowID,
		Title:          defaultTitle,
		Subtitle:       defaultSubtitle,
		OverlayOpacity: defaultOverlayOpacity,
	}
}
