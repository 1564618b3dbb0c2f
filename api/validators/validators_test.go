package validators

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/angelmondragon/fillytrckr-backend/pkg/errors"
	"github.com/go-chi/chi/v5"
)

type sampleBody struct {
	Name   string   `json:"name" validate:"required"`
	Weight *float64 `json:"weight" validate:"omitempty,gte=0"`
}

func TestDecodeJSONBody(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"pla","weight":12.5}`))
	var body sampleBody
	if err := DecodeJSONBody(r, &body); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body.Name != "pla" || body.Weight == nil || *body.Weight != 12.5 {
		t.Fatalf("unexpected body %+v", body)
	}
}

func TestDecodeJSONBodyRejects(t *testing.T) {
	cases := map[string]string{
		"unknown field": `{"name":"pla","color":"red"}`,
		"malformed":     `{"name":`,
		"missing name":  `{"weight":1}`,
		"negative":      `{"name":"pla","weight":-1}`,
		"empty":         ``,
	}
	for name, payload := range cases {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(payload))
		var body sampleBody
		err := DecodeJSONBody(r, &body)
		if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
			t.Errorf("%s: expected validation error, got %v", name, err)
		}
	}
}

func TestDecodeOptionalJSONBody(t *testing.T) {
	type optional struct {
		InUse *bool `json:"in_use"`
	}
	r := httptest.NewRequest(http.MethodPost, "/", nil)
	var body optional
	if err := DecodeOptionalJSONBody(r, &body); err != nil {
		t.Fatalf("empty body should be accepted: %v", err)
	}
	if body.InUse != nil {
		t.Fatalf("expected untouched body")
	}

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"in_use":false}`))
	if err := DecodeOptionalJSONBody(r, &body); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body.InUse == nil || *body.InUse {
		t.Fatalf("expected in_use=false, got %v", body.InUse)
	}
}

func TestParseURLID(t *testing.T) {
	for raw, wantErr := range map[string]bool{"7": false, "0": true, "-1": true, "abc": true, "": true} {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", raw)
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))

		id, err := ParseURLID(r, "id")
		if wantErr {
			if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
				t.Errorf("%q: expected validation error", raw)
			}
			continue
		}
		if err != nil || id != 7 {
			t.Errorf("%q: got %d, %v", raw, id, err)
		}
	}
}

func TestParseQueryHelpers(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?type_id=3&opened=true&in_use=0&brand=+Bambu+&bad=x", nil)

	id, err := ParseQueryID(r, "type_id")
	if err != nil || id == nil || *id != 3 {
		t.Fatalf("type_id: %v %v", id, err)
	}
	if id, err := ParseQueryID(r, "brand_id"); err != nil || id != nil {
		t.Fatalf("absent id should be nil: %v %v", id, err)
	}
	if _, err := ParseQueryID(r, "bad"); err == nil {
		t.Fatal("expected invalid id error")
	}

	opened, err := ParseQueryBool(r, "opened")
	if err != nil || opened == nil || !*opened {
		t.Fatalf("opened: %v %v", opened, err)
	}
	inUse, err := ParseQueryBool(r, "in_use")
	if err != nil || inUse == nil || *inUse {
		t.Fatalf("in_use: %v %v", inUse, err)
	}
	if _, err := ParseQueryBool(r, "bad"); err == nil {
		t.Fatal("expected invalid bool error")
	}

	brand := ParseQueryString(r, "brand", MaxNameLength)
	if brand == nil || *brand != "Bambu" {
		t.Fatalf("brand: %v", brand)
	}
	if ParseQueryString(r, "color", MaxNameLength) != nil {
		t.Fatal("absent string should be nil")
	}
}

func TestSanitizeString(t *testing.T) {
	if got := SanitizeString("  abcdef  ", 3); got != "abc" {
		t.Fatalf("unexpected %q", got)
	}
	if got := SanitizeString(" silk ", 0); got != "silk" {
		t.Fatalf("unexpected %q", got)
	}
}
