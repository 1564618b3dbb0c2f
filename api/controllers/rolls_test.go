package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/angelmondragon/fillytrckr-backend/internal/rolls"
	pkgerrors "github.com/angelmondragon/fillytrckr-backend/pkg/errors"
	"github.com/angelmondragon/fillytrckr-backend/pkg/types"
)

type mutationEnvelope struct {
	Data struct {
		Result   bool          `json:"result"`
		RollData rolls.RollDTO `json:"roll_data"`
	} `json:"data"`
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) types.APIError {
	t.Helper()
	var body types.ErrorEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body.Error
}

func TestRollsListAllWrapsRolls(t *testing.T) {
	svc := stubRollService{list: func(context.Context) ([]rolls.RollDTO, error) {
		return []rolls.RollDTO{sampleRoll(1), sampleRoll(2)}, nil
	}}
	rec := httptest.NewRecorder()
	RollsListAll(svc, nil).ServeHTTP(rec, newRequest(http.MethodGet, "/rolls/all", "", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	var envelope struct {
		Data struct {
			Rolls []rolls.RollDTO `json:"rolls"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(envelope.Data.Rolls) != 2 || envelope.Data.Rolls[1].ID != 2 {
		t.Fatalf("unexpected rolls %+v", envelope.Data.Rolls)
	}
}

func TestRollsListEmptyIsArray(t *testing.T) {
	svc := stubRollService{list: func(context.Context) ([]rolls.RollDTO, error) { return nil, nil }}
	rec := httptest.NewRecorder()
	RollsListInUse(svc, nil).ServeHTTP(rec, newRequest(http.MethodGet, "/rolls/in_use", "", nil))

	if got := rec.Body.String(); got != "{\"data\":{\"rolls\":[]}}\n" {
		t.Fatalf("unexpected body %q", got)
	}
}

func TestRollsFilterQueryCriteria(t *testing.T) {
	var got rolls.Criteria
	svc := stubRollService{listFiltered: func(_ context.Context, c rolls.Criteria) ([]rolls.RollDTO, error) {
		got = c
		return nil, nil
	}}
	rec := httptest.NewRecorder()
	RollsFilter(svc, nil).ServeHTTP(rec, newRequest(http.MethodGet, "/rolls/filter?brand_id=2&color=%20Red%20&opened=true", "", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if got.BrandID == nil || *got.BrandID != 2 {
		t.Fatalf("expected brand id 2, got %v", got.BrandID)
	}
	if got.ColorName == nil || *got.ColorName != "red" {
		t.Fatalf("expected normalized color name, got %v", got.ColorName)
	}
	if got.Opened == nil || !*got.Opened || got.InUse != nil {
		t.Fatalf("unexpected flags opened=%v in_use=%v", got.Opened, got.InUse)
	}
}

func TestRollsFilterBodyOverridesQuery(t *testing.T) {
	var got rolls.Criteria
	svc := stubRollService{listFiltered: func(_ context.Context, c rolls.Criteria) ([]rolls.RollDTO, error) {
		got = c
		return nil, nil
	}}
	rec := httptest.NewRecorder()
	req := newRequest(http.MethodPost, "/rolls/filter?brand_id=2&type_id=1", `{"brand":"sunlu"}`, nil)
	RollsFilter(svc, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if got.BrandID != nil || got.BrandName == nil || *got.BrandName != "sunlu" {
		t.Fatalf("expected body brand to replace query brand, got id=%v name=%v", got.BrandID, got.BrandName)
	}
	if got.TypeID == nil || *got.TypeID != 1 {
		t.Fatalf("expected query type to survive, got %v", got.TypeID)
	}
}

func TestRollsFilterRejectsBadQuery(t *testing.T) {
	rec := httptest.NewRecorder()
	RollsFilter(stubRollService{}, nil).ServeHTTP(rec, newRequest(http.MethodGet, "/rolls/filter?type_id=abc", "", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
	if apiErr := decodeError(t, rec); apiErr.Code != string(pkgerrors.CodeValidation) {
		t.Fatalf("unexpected code %s", apiErr.Code)
	}
}

func TestRollsAddCreates(t *testing.T) {
	var got rolls.InsertParams
	svc := stubRollService{insert: func(_ context.Context, p rolls.InsertParams) (rolls.RollDTO, error) {
		got = p
		return sampleRoll(7), nil
	}}
	body := `{"type_id":1,"brand_id":1,"color_id":3,"subtype_id":1,"original_weight_grams":1000,"weight_grams":750}`
	rec := httptest.NewRecorder()
	RollsAdd(svc, nil).ServeHTTP(rec, newRequest(http.MethodPost, "/rolls/add", body, nil))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
	}
	if got.SubtypeID == nil || *got.SubtypeID != 1 || got.WeightGrams == nil || *got.WeightGrams != 750 {
		t.Fatalf("unexpected params %+v", got)
	}
	var envelope mutationEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !envelope.Data.Result || envelope.Data.RollData.ID != 7 {
		t.Fatalf("unexpected envelope %+v", envelope)
	}
}

func TestRollsAddValidation(t *testing.T) {
	cases := map[string]string{
		"missing weight": `{"type_id":1,"brand_id":1,"color_id":1}`,
		"zero type":      `{"type_id":0,"brand_id":1,"color_id":1,"original_weight_grams":1000}`,
		"negative":       `{"type_id":1,"brand_id":1,"color_id":1,"original_weight_grams":-5}`,
		"unknown field":  `{"type_id":1,"brand_id":1,"color_id":1,"original_weight_grams":1000,"spool":"x"}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			RollsAdd(stubRollService{}, nil).ServeHTTP(rec, newRequest(http.MethodPost, "/rolls/add", body, nil))
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400 got %d: %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestRollsAddReferenceInvalid(t *testing.T) {
	svc := stubRollService{insert: func(context.Context, rolls.InsertParams) (rolls.RollDTO, error) {
		return rolls.RollDTO{}, pkgerrors.New(pkgerrors.CodeReferenceInvalid, "unknown catalog reference").
			WithDetails(map[string]uint{"brand_id": 99})
	}}
	rec := httptest.NewRecorder()
	body := `{"type_id":1,"brand_id":99,"color_id":1,"original_weight_grams":1000}`
	RollsAdd(svc, nil).ServeHTTP(rec, newRequest(http.MethodPost, "/rolls/add", body, nil))

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", rec.Code)
	}
}

func TestRollsDuplicateOptionalBody(t *testing.T) {
	var gotID uint
	var gotWeight *float64
	svc := stubRollService{duplicate: func(_ context.Context, id uint, w *float64) (rolls.RollDTO, error) {
		gotID, gotWeight = id, w
		return sampleRoll(8), nil
	}}

	rec := httptest.NewRecorder()
	RollsDuplicate(svc, nil).ServeHTTP(rec, newRequest(http.MethodPost, "/rolls/3/duplicate", "", map[string]string{"id": "3"}))
	if rec.Code != http.StatusOK || gotID != 3 || gotWeight != nil {
		t.Fatalf("unexpected result code=%d id=%d weight=%v", rec.Code, gotID, gotWeight)
	}

	rec = httptest.NewRecorder()
	RollsDuplicate(svc, nil).ServeHTTP(rec, newRequest(http.MethodPost, "/rolls/3/duplicate", `{"original_weight_grams":2000}`, map[string]string{"id": "3"}))
	if rec.Code != http.StatusOK || gotWeight == nil || *gotWeight != 2000 {
		t.Fatalf("expected explicit weight, got code=%d weight=%v", rec.Code, gotWeight)
	}
}

func TestRollsSetInUseDefaultsTrue(t *testing.T) {
	var got []bool
	svc := stubRollService{setInUse: func(_ context.Context, _ uint, inUse bool) (rolls.RollDTO, error) {
		got = append(got, inUse)
		return sampleRoll(1), nil
	}}
	params := map[string]string{"id": "1"}

	RollsSetInUse(svc, nil).ServeHTTP(httptest.NewRecorder(), newRequest(http.MethodPost, "/rolls/1/set_in_use", "", params))
	RollsSetInUse(svc, nil).ServeHTTP(httptest.NewRecorder(), newRequest(http.MethodPost, "/rolls/1/set_in_use", `{"in_use":false}`, params))

	if len(got) != 2 || !got[0] || got[1] {
		t.Fatalf("unexpected in_use calls %v", got)
	}
}

func TestRollsSetOpenedNotFound(t *testing.T) {
	svc := stubRollService{open: func(_ context.Context, id uint) (rolls.RollDTO, error) {
		return rolls.RollDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "roll not found")
	}}
	rec := httptest.NewRecorder()
	RollsSetOpened(svc, nil).ServeHTTP(rec, newRequest(http.MethodPost, "/rolls/42/set_opened", "", map[string]string{"id": "42"}))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
	if apiErr := decodeError(t, rec); apiErr.Code != string(pkgerrors.CodeNotFound) {
		t.Fatalf("unexpected code %s", apiErr.Code)
	}
}

func TestRollsMutationRejectsBadID(t *testing.T) {
	rec := httptest.NewRecorder()
	RollsSetOpened(stubRollService{}, nil).ServeHTTP(rec, newRequest(http.MethodPost, "/rolls/x/set_opened", "", map[string]string{"id": "x"}))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestRollsUpdateWeight(t *testing.T) {
	var got rolls.WeightUpdate
	svc := stubRollService{updateWeight: func(_ context.Context, _ uint, u rolls.WeightUpdate) (rolls.RollDTO, error) {
		got = u
		return sampleRoll(5), nil
	}}
	params := map[string]string{"id": "5"}

	rec := httptest.NewRecorder()
	RollsUpdateWeight(svc, nil).ServeHTTP(rec, newRequest(http.MethodPost, "/rolls/5/update_weight", `{"decrease_by_grams":250}`, params))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if got.DecreaseByGrams == nil || *got.DecreaseByGrams != 250 || got.NewWeightGrams != nil {
		t.Fatalf("unexpected update %+v", got)
	}

	for _, body := range []string{`{}`, `{"new_weight_grams":1,"decrease_by_grams":2}`} {
		rec = httptest.NewRecorder()
		RollsUpdateWeight(svc, nil).ServeHTTP(rec, newRequest(http.MethodPost, "/rolls/5/update_weight", body, params))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("body %s: expected 400 got %d", body, rec.Code)
		}
	}
}

func TestRollsGetReturnsRoll(t *testing.T) {
	svc := stubRollService{get: func(_ context.Context, id uint) (rolls.RollDTO, error) {
		return sampleRoll(id), nil
	}}
	rec := httptest.NewRecorder()
	RollsGet(svc, nil).ServeHTTP(rec, newRequest(http.MethodGet, "/rolls/9", "", map[string]string{"id": "9"}))

	var envelope struct {
		Data rolls.RollDTO `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Data.ID != 9 {
		t.Fatalf("expected roll 9 got %d", envelope.Data.ID)
	}
}

func TestRollsNilServiceIsInternal(t *testing.T) {
	rec := httptest.NewRecorder()
	RollsListAll(nil, nil).ServeHTTP(rec, newRequest(http.MethodGet, "/rolls/all", "", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", rec.Code)
	}
}
