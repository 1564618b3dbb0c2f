package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/angelmondragon/fillytrckr-backend/internal/catalogs"
	"github.com/angelmondragon/fillytrckr-backend/internal/rolls"
	"github.com/go-chi/chi/v5"
)

type stubRollService struct {
	insert       func(context.Context, rolls.InsertParams) (rolls.RollDTO, error)
	duplicate    func(context.Context, uint, *float64) (rolls.RollDTO, error)
	open         func(context.Context, uint) (rolls.RollDTO, error)
	setInUse     func(context.Context, uint, bool) (rolls.RollDTO, error)
	updateWeight func(context.Context, uint, rolls.WeightUpdate) (rolls.RollDTO, error)
	get          func(context.Context, uint) (rolls.RollDTO, error)
	list         func(context.Context) ([]rolls.RollDTO, error)
	listFiltered func(context.Context, rolls.Criteria) ([]rolls.RollDTO, error)
}

func (s stubRollService) Insert(ctx context.Context, p rolls.InsertParams) (rolls.RollDTO, error) {
	return s.insert(ctx, p)
}

func (s stubRollService) Duplicate(ctx context.Context, id uint, w *float64) (rolls.RollDTO, error) {
	return s.duplicate(ctx, id, w)
}

func (s stubRollService) Open(ctx context.Context, id uint) (rolls.RollDTO, error) {
	return s.open(ctx, id)
}

func (s stubRollService) SetInUse(ctx context.Context, id uint, inUse bool) (rolls.RollDTO, error) {
	return s.setInUse(ctx, id, inUse)
}

func (s stubRollService) UpdateWeight(ctx context.Context, id uint, u rolls.WeightUpdate) (rolls.RollDTO, error) {
	return s.updateWeight(ctx, id, u)
}

func (s stubRollService) Get(ctx context.Context, id uint) (rolls.RollDTO, error) {
	return s.get(ctx, id)
}

func (s stubRollService) ListAll(ctx context.Context) ([]rolls.RollDTO, error) {
	return s.list(ctx)
}

func (s stubRollService) ListActive(ctx context.Context) ([]rolls.RollDTO, error) {
	return s.list(ctx)
}

func (s stubRollService) ListInUse(ctx context.Context) ([]rolls.RollDTO, error) {
	return s.list(ctx)
}

func (s stubRollService) ListFiltered(ctx context.Context, c rolls.Criteria) ([]rolls.RollDTO, error) {
	return s.listFiltered(ctx, c)
}

func (s stubRollService) Count(context.Context) (int64, error) {
	return 0, nil
}

type stubCatalogService struct {
	list func(context.Context, catalogs.Kind) ([]catalogs.EntryDTO, error)
	add  func(context.Context, catalogs.Kind, string) (catalogs.EntryDTO, error)
}

func (s stubCatalogService) List(ctx context.Context, kind catalogs.Kind) ([]catalogs.EntryDTO, error) {
	return s.list(ctx, kind)
}

func (s stubCatalogService) Add(ctx context.Context, kind catalogs.Kind, name string) (catalogs.EntryDTO, error) {
	return s.add(ctx, kind, name)
}

func (stubCatalogService) Seed(context.Context) (int, error) {
	return 0, nil
}

type stubPinger struct {
	err error
}

func (p stubPinger) Ping(context.Context) error {
	return p.err
}

func newRequest(method, target, body string, params map[string]string) *http.Request {
	var req *http.Request
	if body == "" {
		req, _ = http.NewRequest(method, target, nil)
	} else {
		req, _ = http.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for k, v := range params {
			rctx.URLParams.Add(k, v)
		}
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	}
	return req
}

func sampleRoll(id uint) rolls.RollDTO {
	return rolls.RollDTO{
		ID:                  id,
		Type:                "pla",
		TypeID:              1,
		Brand:               "bambu",
		BrandID:             1,
		Color:               "red",
		ColorID:             3,
		WeightGrams:         750,
		OriginalWeightGrams: 1000,
	}
}
