package controllers

import (
	"net/http"

	"github.com/sheltersync/sheltersync-backend/api/middleware"
	"github.com/sheltersync/sheltersync-backend/api/responses"
	"github.com/sheltersync/sheltersync-backend/api/validators"
	"github.com/sheltersync/sheltersync-backend/internal/occupancy"
	"github.com/sheltersync/sheltersync-backend/internal/residents"
	"github.com/sheltersync/sheltersync-backend/pkg/logger"
)

// ListResidents returns the management roster with overdue residents first.
func ListResidents(svc occupancy.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := validators.SanitizeString(r.URL.Query().Get("q"), 200)
		rows, err := svc.Roster(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// GetResident returns a single resident profile.
func GetResident(svc residents.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := residentIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resident, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, resident)
	}
}

// CreateResident adds a new resident profile, checked in by default.
func CreateResident(svc residents.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req residents.CreateResidentRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resident, err := svc.Create(r.Context(), req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, resident)
	}
}

// UpdateResident edits a resident profile. Changing the destination also
// flips the check-in state, so the acting staff member is recorded in the log.
func UpdateResident(svc residents.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := residentIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req residents.UpdateResidentRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		performer := middleware.UsernameFromContext(r.Context())
		resident, err := svc.Update(r.Context(), id, req, performer)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, resident)
	}
}

// DeleteResident removes a resident profile.
func DeleteResident(svc residents.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := residentIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// StaffCheckIn checks a resident in on behalf of the dashboard, recording the
// acting staff member on the log entry.
func StaffCheckIn(svc occupancy.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := residentIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		performer := middleware.UsernameFromContext(r.Context())
		resident, err := svc.CheckIn(r.Context(), id, performer)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, resident)
	}
}

// StaffCheckOut checks a resident out on behalf of the dashboard.
func StaffCheckOut(svc occupancy.Service, logg *logger.Logger) http.HandlerFunc {
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

		performer := middleware.UsernameFromContext(r.Context())
		resident, err := svc.CheckOut(r.Context(), id, req, performer)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, resident)
	}
}
