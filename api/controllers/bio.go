package controllers

import (
	"net/http"

	"github.com/sheltersync/sheltersync-backend/api/responses"
	"github.com/sheltersync/sheltersync-backend/internal/bio"
	"github.com/sheltersync/sheltersync-backend/pkg/logger"
)

// EnhanceResidentBio rewrites a resident bio with the configured model. When
// generation is unavailable the original bio is returned unchanged.
func EnhanceResidentBio(svc bio.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := residentIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.EnhanceBio(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
