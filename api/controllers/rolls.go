package controllers

import (
	"net/http"

	"github.com/angelmondragon/fillytrckr-backend/api/responses"
	"github.com/angelmondragon/fillytrckr-backend/api/validators"
	"github.com/angelmondragon/fillytrckr-backend/internal/rolls"
	pkgerrors "github.com/angelmondragon/fillytrckr-backend/pkg/errors"
	"github.com/angelmondragon/fillytrckr-backend/pkg/logger"
)

const rollIDParam = "id"

type rollsListResponse struct {
	Rolls []rolls.RollDTO `json:"rolls"`
}

type addRollPayload struct {
	TypeID              uint     `json:"type_id" validate:"gt=0"`
	BrandID             uint     `json:"brand_id" validate:"gt=0"`
	ColorID             uint     `json:"color_id" validate:"gt=0"`
	SubtypeID           *uint    `json:"subtype_id" validate:"omitempty,gt=0"`
	SurfaceID           *uint    `json:"surface_id" validate:"omitempty,gt=0"`
	OriginalWeightGrams *float64 `json:"original_weight_grams" validate:"required,gte=0"`
	WeightGrams         *float64 `json:"weight_grams" validate:"omitempty,gte=0"`
	Opened              bool     `json:"opened"`
	InUse               bool     `json:"in_use"`
}

type duplicateRollPayload struct {
	OriginalWeightGrams *float64 `json:"original_weight_grams" validate:"omitempty,gte=0"`
}

type setInUsePayload struct {
	InUse *bool `json:"in_use"`
}

type updateWeightPayload struct {
	NewWeightGrams  *float64 `json:"new_weight_grams" validate:"required_without=DecreaseByGrams"`
	DecreaseByGrams *float64 `json:"decrease_by_grams" validate:"excluded_with=NewWeightGrams"`
}

type rollLister func(svc rolls.Service, r *http.Request) ([]rolls.RollDTO, error)

func listRolls(svc rolls.Service, logg *logger.Logger, list rollLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "rolls service unavailable"))
			return
		}

		items, err := list(svc, r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if items == nil {
			items = []rolls.RollDTO{}
		}
		responses.WriteSuccess(w, rollsListResponse{Rolls: items})
	}
}

// RollsListAll returns every roll, spent ones included.
func RollsListAll(svc rolls.Service, logg *logger.Logger) http.HandlerFunc {
	return listRolls(svc, logg, func(svc rolls.Service, r *http.Request) ([]rolls.RollDTO, error) {
		return svc.ListAll(r.Context())
	})
}

// RollsListActive returns rolls with filament left.
func RollsListActive(svc rolls.Service, logg *logger.Logger) http.HandlerFunc {
	return listRolls(svc, logg, func(svc rolls.Service, r *http.Request) ([]rolls.RollDTO, error) {
		return svc.ListActive(r.Context())
	})
}

// RollsListInUse returns rolls currently loaded in a printer.
func RollsListInUse(svc rolls.Service, logg *logger.Logger) http.HandlerFunc {
	return listRolls(svc, logg, func(svc rolls.Service, r *http.Request) ([]rolls.RollDTO, error) {
		return svc.ListInUse(r.Context())
	})
}

// RollsFilter lists active rolls matching query criteria. A POST body may
// carry criteria too; body attributes replace the query ones.
func RollsFilter(svc rolls.Service, logg *logger.Logger) http.HandlerFunc {
	return listRolls(svc, logg, func(svc rolls.Service, r *http.Request) ([]rolls.RollDTO, error) {
		criteria, err := criteriaFromQuery(r)
		if err != nil {
			return nil, err
		}
		if r.Method == http.MethodPost {
			var body rolls.Criteria
			if err := validators.DecodeOptionalJSONBody(r, &body); err != nil {
				return nil, err
			}
			criteria = criteria.Override(body)
		}
		return svc.ListFiltered(r.Context(), criteria.Normalize())
	})
}

func criteriaFromQuery(r *http.Request) (rolls.Criteria, error) {
	var (
		c   rolls.Criteria
		err error
	)
	ids := []struct {
		key  string
		dest **uint
	}{
		{"type_id", &c.TypeID},
		{"brand_id", &c.BrandID},
		{"color_id", &c.ColorID},
		{"subtype_id", &c.SubtypeID},
		{"surface_id", &c.SurfaceID},
	}
	for _, f := range ids {
		if *f.dest, err = validators.ParseQueryID(r, f.key); err != nil {
			return rolls.Criteria{}, err
		}
	}

	names := []struct {
		key  string
		dest **string
	}{
		{"type", &c.TypeName},
		{"brand", &c.BrandName},
		{"color", &c.ColorName},
		{"subtype", &c.SubtypeName},
		{"surface", &c.SurfaceName},
	}
	for _, f := range names {
		*f.dest = validators.ParseQueryString(r, f.key, validators.MaxNameLength)
	}

	if c.Opened, err = validators.ParseQueryBool(r, "opened"); err != nil {
		return rolls.Criteria{}, err
	}
	if c.InUse, err = validators.ParseQueryBool(r, "in_use"); err != nil {
		return rolls.Criteria{}, err
	}
	return c, nil
}

// RollsGet returns a single roll.
func RollsGet(svc rolls.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "rolls service unavailable"))
			return
		}

		id, err := validators.ParseURLID(r, rollIDParam)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		roll, err := svc.Get(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, roll)
	}
}

// RollsAdd registers a new roll.
func RollsAdd(svc rolls.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "rolls service unavailable"))
			return
		}

		var payload addRollPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		roll, err := svc.Insert(ctx, rolls.InsertParams{
			TypeID:              payload.TypeID,
			BrandID:             payload.BrandID,
			ColorID:             payload.ColorID,
			SubtypeID:           payload.SubtypeID,
			SurfaceID:           payload.SurfaceID,
			OriginalWeightGrams: *payload.OriginalWeightGrams,
			WeightGrams:         payload.WeightGrams,
			Opened:              payload.Opened,
			InUse:               payload.InUse,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, mutationResult(roll))
	}
}

// RollsDuplicate starts a fresh roll of the same filament as {id}.
func RollsDuplicate(svc rolls.Service, logg *logger.Logger) http.HandlerFunc {
	return mutateRoll(svc, logg, func(r *http.Request, id uint) (rolls.RollDTO, error) {
		var payload duplicateRollPayload
		if err := validators.DecodeOptionalJSONBody(r, &payload); err != nil {
			return rolls.RollDTO{}, err
		}
		return svc.Duplicate(r.Context(), id, payload.OriginalWeightGrams)
	})
}

// RollsSetOpened marks a roll as opened.
func RollsSetOpened(svc rolls.Service, logg *logger.Logger) http.HandlerFunc {
	return mutateRoll(svc, logg, func(r *http.Request, id uint) (rolls.RollDTO, error) {
		return svc.Open(r.Context(), id)
	})
}

// RollsSetInUse sets the in-use flag; an absent flag means true.
func RollsSetInUse(svc rolls.Service, logg *logger.Logger) http.HandlerFunc {
	return mutateRoll(svc, logg, func(r *http.Request, id uint) (rolls.RollDTO, error) {
		var payload setInUsePayload
		if err := validators.DecodeOptionalJSONBody(r, &payload); err != nil {
			return rolls.RollDTO{}, err
		}
		inUse := true
		if payload.InUse != nil {
			inUse = *payload.InUse
		}
		return svc.SetInUse(r.Context(), id, inUse)
	})
}

// RollsUpdateWeight sets the remaining weight or decreases it.
func RollsUpdateWeight(svc rolls.Service, logg *logger.Logger) http.HandlerFunc {
	return mutateRoll(svc, logg, func(r *http.Request, id uint) (rolls.RollDTO, error) {
		var payload updateWeightPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			return rolls.RollDTO{}, err
		}
		return svc.UpdateWeight(r.Context(), id, rolls.WeightUpdate{
			NewWeightGrams:  payload.NewWeightGrams,
			DecreaseByGrams: payload.DecreaseByGrams,
		})
	})
}

func mutateRoll(svc rolls.Service, logg *logger.Logger, apply func(r *http.Request, id uint) (rolls.RollDTO, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "rolls service unavailable"))
			return
		}

		id, err := validators.ParseURLID(r, rollIDParam)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if logg != nil {
			ctx = logg.WithRollID(ctx, id)
			r = r.WithContext(ctx)
		}

		roll, err := apply(r, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, mutationResult(roll))
	}
}

func mutationResult(roll rolls.RollDTO) rolls.RollResult {
	return rolls.RollResult{Result: true, RollData: &roll}
}
