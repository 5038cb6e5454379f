package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sheltersync/sheltersync-backend/api/middleware"
	"github.com/sheltersync/sheltersync-backend/internal/staff"
	"github.com/sheltersync/sheltersync-backend/pkg/enums"
	"github.com/sheltersync/sheltersync-backend/pkg/types"
)

type fakeStaffService struct {
	listFn   func(ctx context.Context, actor staff.Actor) ([]staff.StaffDTO, error)
	createFn func(ctx context.Context, actor staff.Actor, req staff.CreateStaffRequest) (*staff.CreateStaffResponse, error)
}

func (f *fakeStaffService) List(ctx context.Context, actor staff.Actor) ([]staff.StaffDTO, error) {
	return f.listFn(ctx, actor)
}

func (f *fakeStaffService) Get(ctx context.Context, actor staff.Actor, id uuid.UUID) (*staff.StaffDTO, error) {
	return nil, nil
}

func (f *fakeStaffService) Create(ctx context.Context, actor staff.Actor, req staff.CreateStaffRequest) (*staff.CreateStaffResponse, error) {
	return f.createFn(ctx, actor, req)
}

func (f *fakeStaffService) Update(ctx context.Context, actor staff.Actor, id uuid.UUID, req staff.UpdateStaffRequest) (*staff.StaffDTO, error) {
	return nil, nil
}

func (f *fakeStaffService) Delete(ctx context.Context, actor staff.Actor, id uuid.UUID) error {
	return nil
}

func (f *fakeStaffService) EnsureDefaultAdmin(ctx context.Context) error { return nil }

func staffRouter(svc staff.Service, actorID uuid.UUID, role enums.StaffRole) http.Handler {
	seed := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := middleware.WithUserID(r.Context(), actorID.String())
			ctx = middleware.WithRole(ctx, string(role))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
	r := chi.NewRouter()
	r.Use(seed)
	r.Get("/staff", ListStaff(svc, nil))
	r.Post("/staff", CreateStaff(svc, nil))
	return r
}

func TestCreateStaffRejectsOverlongPin(t *testing.T) {
	svc := &fakeStaffService{
		createFn: func(context.Context, staff.Actor, staff.CreateStaffRequest) (*staff.CreateStaffResponse, error) {
			t.Fatalf("service should not be called when validation fails")
			return nil, nil
		},
	}

	body := `{"username":"pat","name":"Pat Reyes","pin":"1234567"}`
	req := httptest.NewRequest(http.MethodPost, "/staff", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	staffRouter(svc, uuid.New(), enums.StaffRoleAdmin).ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 but got %d", w.Code)
	}

	var envelope types.ErrorEnvelope
	if err := json.NewDecoder(w.Body).Decode(&envelope); err != nil {
		t.Fatalf("failed to decode error envelope: %v", err)
	}
	if envelope.Error.Code != "VALIDATION_ERROR" {
		t.Fatalf("unexpected error code %q", envelope.Error.Code)
	}
}

func TestCreateStaffAcceptsSixDigitPin(t *testing.T) {
	svc := &fakeStaffService{
		createFn: func(_ context.Context, _ staff.Actor, req staff.CreateStaffRequest) (*staff.CreateStaffResponse, error) {
			if req.PIN != "123456" {
				t.Fatalf("expected pin to pass through, got %q", req.PIN)
			}
			return &staff.CreateStaffResponse{Staff: &staff.StaffDTO{Username: req.Username}}, nil
		},
	}

	body := `{"username":"pat","name":"Pat Reyes","pin":"123456"}`
	req := httptest.NewRequest(http.MethodPost, "/staff", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	staffRouter(svc, uuid.New(), enums.StaffRoleAdmin).ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201 but got %d", w.Code)
	}
}

func TestListStaffPassesStaffActorThrough(t *testing.T) {
	actorID := uuid.New()
	svc := &fakeStaffService{
		listFn: func(_ context.Context, actor staff.Actor) ([]staff.StaffDTO, error) {
			if actor.ID != actorID || actor.Role != enums.StaffRoleStaff {
				t.Fatalf("unexpected actor: %+v", actor)
			}
			return []staff.StaffDTO{{Username: "pat"}}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/staff", nil)
	w := httptest.NewRecorder()
	staffRouter(svc, actorID, enums.StaffRoleStaff).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200 but got %d", w.Code)
	}
}
