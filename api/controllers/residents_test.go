package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sheltersync/sheltersync-backend/api/middleware"
	"github.com/sheltersync/sheltersync-backend/internal/residents"
	"github.com/sheltersync/sheltersync-backend/pkg/db/models"
	pkgerrors "github.com/sheltersync/sheltersync-backend/pkg/errors"
)

type fakeResidentsService struct {
	listFn   func(ctx context.Context, nameFilter string) ([]models.Resident, error)
	getFn    func(ctx context.Context, id uuid.UUID) (*models.Resident, error)
	createFn func(ctx context.Context, req residents.CreateResidentRequest) (*models.Resident, error)
	updateFn func(ctx context.Context, id uuid.UUID, req residents.UpdateResidentRequest, performer string) (*models.Resident, error)
	deleteFn func(ctx context.Context, id uuid.UUID) error
}

func (f *fakeResidentsService) List(ctx context.Context, nameFilter string) ([]models.Resident, error) {
	return f.listFn(ctx, nameFilter)
}

func (f *fakeResidentsService) Get(ctx context.Context, id uuid.UUID) (*models.Resident, error) {
	return f.getFn(ctx, id)
}

func (f *fakeResidentsService) Create(ctx context.Context, req residents.CreateResidentRequest) (*models.Resident, error) {
	return f.createFn(ctx, req)
}

func (f *fakeResidentsService) Update(ctx context.Context, id uuid.UUID, req residents.UpdateResidentRequest, performer string) (*models.Resident, error) {
	return f.updateFn(ctx, id, req, performer)
}

func (f *fakeResidentsService) Delete(ctx context.Context, id uuid.UUID) error {
	return f.deleteFn(ctx, id)
}

func TestCreateResidentReturns201(t *testing.T) {
	svc := &fakeResidentsService{
		createFn: func(_ context.Context, req residents.CreateResidentRequest) (*models.Resident, error) {
			if req.Name != "Avery" {
				t.Fatalf("expected name Avery, got %q", req.Name)
			}
			return &models.Resident{ID: uuid.New(), Name: req.Name, IsCheckedIn: true}, nil
		},
	}

	r := chi.NewRouter()
	r.Post("/residents", CreateResident(svc, nil))

	req := httptest.NewRequest(http.MethodPost, "/residents", strings.NewReader(`{"name":"Avery"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201 but got %d", w.Code)
	}
}

func TestCreateResidentRejectsUnknownFields(t *testing.T) {
	svc := &fakeResidentsService{
		createFn: func(context.Context, residents.CreateResidentRequest) (*models.Resident, error) {
			t.Fatalf("service should not be called for a malformed body")
			return nil, nil
		},
	}

	r := chi.NewRouter()
	r.Post("/residents", CreateResident(svc, nil))

	req := httptest.NewRequest(http.MethodPost, "/residents", strings.NewReader(`{"name":"Avery","bogus":true}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 but got %d", w.Code)
	}
}

func TestUpdateResidentPassesActingUsername(t *testing.T) {
	residentID := uuid.New()
	var gotPerformer string
	svc := &fakeResidentsService{
		updateFn: func(_ context.Context, id uuid.UUID, _ residents.UpdateResidentRequest, performer string) (*models.Resident, error) {
			if id != residentID {
				t.Fatalf("expected resident %s, got %s", residentID, id)
			}
			gotPerformer = performer
			return &models.Resident{ID: id, Name: "Avery"}, nil
		},
	}

	r := chi.NewRouter()
	r.Put("/residents/{residentId}", UpdateResident(svc, nil))

	req := httptest.NewRequest(http.MethodPut, "/residents/"+residentID.String(), strings.NewReader(`{"notes":"moved rooms"}`))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(middleware.WithUsername(req.Context(), "jordan"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200 but got %d", w.Code)
	}
	if gotPerformer != "jordan" {
		t.Fatalf("expected acting username jordan, got %q", gotPerformer)
	}
}

func TestDeleteResidentNotFound(t *testing.T) {
	residentID := uuid.New()
	svc := &fakeResidentsService{
		deleteFn: func(_ context.Context, id uuid.UUID) error {
			return pkgerrors.New(pkgerrors.CodeNotFound, "resident not found")
		},
	}

	r := chi.NewRouter()
	r.Delete("/residents/{residentId}", DeleteResident(svc, nil))

	req := httptest.NewRequest(http.MethodDelete, "/residents/"+residentID.String(), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 but got %d", w.Code)
	}
}
