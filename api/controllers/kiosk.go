package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sheltersync/sheltersync-backend/api/responses"
	"github.com/sheltersync/sheltersync-backend/api/validators"
	"github.com/sheltersync/sheltersync-backend/internal/kiosk"
	"github.com/sheltersync/sheltersync-backend/internal/occupancy"
	pkgerrors "github.com/sheltersync/sheltersync-backend/pkg/errors"
	"github.com/sheltersync/sheltersync-backend/pkg/logger"
)

// KioskBoard lists residents for the public check-in screen, ordered with
// overdue residents first.
func KioskBoard(svc occupancy.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := validators.SanitizeString(r.URL.Query().Get("q"), 200)
		residents, err := svc.Roster(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, residents)
	}
}

// KioskCheckIn marks a resident as back in the building. The kiosk is
// unauthenticated, so no performer is recorded.
func KioskCheckIn(svc occupancy.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := residentIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resident, err := svc.CheckIn(r.Context(), id, "")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, resident)
	}
}

// KioskCheckOut records a resident leaving with a destination and expected
// return time.
func KioskCheckOut(svc occupancy.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := residentIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req occupancy.CheckOutRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resident, err := svc.CheckOut(r.Context(), id, req, "")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, resident)
	}
}

// GetKioskSettings returns the kiosk branding for the public screen.
func GetKioskSettings(svc kiosk.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		settings, err := svc.Get(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, settings)
	}
}

// UpdateKioskSettings lets an admin change the kiosk title, subtitle, and
// background.
func UpdateKioskSettings(svc kiosk.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req kiosk.UpdateSettingsRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		settings, err := svc.Update(r.Context(), req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, settings)
	}
}

func residentIDParam(r *http.Request) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "residentId"))
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid resident id")
	}
	return id, nil
}
