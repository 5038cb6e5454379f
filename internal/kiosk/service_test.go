package kiosk

import (
	"context"
	"testing"

	"github.com/sheltersync/sheltersync-backend/pkg/db/models"
	pkgerrors "github.com/sheltersync/sheltersync-backend/pkg/errors"
	"gorm.io/gorm"
)

type fakeRepo struct {
	settings *models.KioskSettings
}

func (f *fakeRepo) Get(ctx context.Context) (*models.KioskSettings, error) {
	if f.settings == nil {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *f.settings
	return &copied, nil
}

func (f *fakeRepo) Upsert(ctx context.Context, settings *models.KioskSettings) error {
	copied := *settings
	f.settings = &copied
	return nil
}

func newKioskService(t *testing.T, repo Repository) Service {
	t.Helper()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}
	return svc
}

func floatPtr(f float64) *float64 { return &f }

func strPtr(s string) *string { return &s }

func TestGetFallsBackToDefaults(t *testing.T) {
	svc := newKioskService(t, &fakeRepo{})

	settings, err := svc.Get(context.Background())
	if err != nil {
		t.Fatalf("unexpected get error: %v", err)
	}
	if settings.Title != "Resident Check Point" {
		t.Fatalf("unexpected default title %q", settings.Title)
	}
	if settings.Subtitle != "Please tap your name to check in or out." {
		t.Fatalf("unexpected default subtitle %q", settings.Subtitle)
	}
	if settings.OverlayOpacity != 0.5 {
		t.Fatalf("unexpected default opacity %v", settings.OverlayOpacity)
	}
}

func TestUpdatePersistsChanges(t *testing.T) {
	repo := &fakeRepo{}
	svc := newKioskService(t, repo)

	settings, err := svc.Update(context.Background(), UpdateSettingsRequest{
		Title:          strPtr("Harbor House"),
		BackgroundURL:  strPtr("https://example.com/bg.jpg"),
		OverlayOpacity: floatPtr(0.8),
	})
	if err != nil {
		t.Fatalf("unexpected update error: %v", err)
	}
	if settings.Title != "Harbor House" || settings.OverlayOpacity != 0.8 {
		t.Fatalf("unexpected settings: %+v", settings)
	}
	// subtitle keeps the default when untouched
	if settings.Subtitle != "Please tap your name to check in or out." {
		t.Fatalf("unexpected subtitle: %q", settings.Subtitle)
	}
	if repo.settings == nil || repo.settings.Title != "Harbor House" {
		t.Fatal("expected settings to be persisted")
	}
}

func TestUpdateClearsBackgroundWithEmptyString(t *testing.T) {
	repo := &fakeRepo{settings: &models.KioskSettings{
		ID:             1,
		Title:          "Harbor House",
		Subtitle:       "Welcome",
		BackgroundURL:  strPtr("https://example.com/bg.jpg"),
		OverlayOpacity: 0.5,
	}}
	svc := newKioskService(t, repo)

	settings, err := svc.Update(context.Background(), UpdateSettingsRequest{BackgroundURL: strPtr("")})
	if err != nil {
		t.Fatalf("unexpected update error: %v", err)
	}
	if settings.BackgroundURL != nil {
		t.Fatalf("expected background cleared, got %v", settings.BackgroundURL)
	}
}

func TestUpdateValidates(t *testing.T) {
	svc := newKioskService(t, &fakeRepo{})

	if _, err := svc.Update(context.Background(), UpdateSettingsRequest{OverlayOpacity: floatPtr(1.5)}); pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := svc.Update(context.Background(), UpdateSettingsRequest{Title: strPtr("   ")}); pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
