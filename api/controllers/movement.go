package controllers

import (
	"net/http"
	"strings"

	"github.com/sheltersync/sheltersync-backend/api/responses"
	"github.com/sheltersync/sheltersync-backend/api/validators"
	"github.com/sheltersync/sheltersync-backend/internal/movement"
	"github.com/sheltersync/sheltersync-backend/pkg/db/models"
	pkgerrors "github.com/sheltersync/sheltersync-backend/pkg/errors"
	"github.com/sheltersync/sheltersync-backend/pkg/logger"
	"github.com/sheltersync/sheltersync-backend/pkg/pagination"
)

type movementLogPage struct {
	Entries    []models.MovementLog `json:"entries"`
	NextCursor *string              `json:"next_cursor"`
}

// ListMovementLogs returns the audit trail newest first with cursor pagination.
func ListMovementLogs(repo movement.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := movement.ListParams{Limit: limit}
		if raw := strings.TrimSpace(r.URL.Query().Get("cursor")); raw != "" {
			cursor, err := pagination.ParseCursor(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor"))
				return
			}
			params.Cursor = cursor
		}

		entries, next, err := repo.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list movement logs"))
			return
		}

		page := movementLogPage{Entries: entries}
		if next != nil {
			encoded := pagination.EncodeCursor(*next)
			page.NextCursor = &encoded
		}
		responses.WriteSuccess(w, page)
	}
}
