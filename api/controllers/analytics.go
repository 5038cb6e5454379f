package controllers

import (
	"net/http"

	"github.com/sheltersync/sheltersync-backend/api/responses"
	"github.com/sheltersync/sheltersync-backend/internal/analytics"
	"github.com/sheltersync/sheltersync-backend/pkg/logger"
)

// AnalyticsSummary returns movement counts, stay averages, and daily series
// for the requested range.
func AnalyticsSummary(svc analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rng, err := analytics.ParseRange(r.URL.Query().Get("range"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		summary, err := svc.Summary(r.Context(), rng)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}
