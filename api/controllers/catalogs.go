package controllers

import (
	"net/http"

	"github.com/angelmondragon/fillytrckr-backend/api/responses"
	"github.com/angelmondragon/fillytrckr-backend/api/validators"
	"github.com/angelmondragon/fillytrckr-backend/internal/catalogs"
	pkgerrors "github.com/angelmondragon/fillytrckr-backend/pkg/errors"
	"github.com/angelmondragon/fillytrckr-backend/pkg/logger"
)

type addCatalogEntryPayload struct {
	Name string `json:"name" validate:"required"`
}

// CatalogList returns every entry of the kind, keyed by its plural name,
// e.g. {"brands": [...]}.
func CatalogList(svc catalogs.Service, kind catalogs.Kind, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		entries, err := svc.List(ctx, kind)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if entries == nil {
			entries = []catalogs.EntryDTO{}
		}
		responses.WriteSuccess(w, map[string][]catalogs.EntryDTO{kind.Plural(): entries})
	}
}

// CatalogAdd creates a new entry of the kind.
func CatalogAdd(svc catalogs.Service, kind catalogs.Kind, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var payload addCatalogEntryPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		entry, err := svc.Add(ctx, kind, validators.SanitizeString(payload.Name, validators.MaxNameLength))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, entry)
	}
}
