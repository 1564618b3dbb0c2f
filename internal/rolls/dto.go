package rolls

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/fillytrckr-backend/internal/catalogs"
	"github.com/angelmondragon/fillytrckr-backend/pkg/db/models"
)

// DefaultDuplicateWeightGrams is the starting weight of a duplicated roll
// when the caller does not pick one.
const DefaultDuplicateWeightGrams = 1000.0

// RollDTO is the external roll payload with catalog names resolved.
type RollDTO struct {
	ID                  uint      `json:"id"`
	Type                string    `json:"type"`
	TypeID              uint      `json:"type_id"`
	Brand               string    `json:"brand"`
	BrandID             uint      `json:"brand_id"`
	Color               string    `json:"color"`
	ColorID             uint      `json:"color_id"`
	Subtype             *string   `json:"subtype"`
	SubtypeID           *uint     `json:"subtype_id"`
	Surface             *string   `json:"surface"`
	SurfaceID           *uint     `json:"surface_id"`
	WeightGrams         float64   `json:"weight_grams"`
	OriginalWeightGrams float64   `json:"original_weight_grams"`
	Opened              bool      `json:"opened"`
	InUse               bool      `json:"in_use"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// Active reports whether the roll still has filament left.
func (r RollDTO) Active() bool {
	return r.WeightGrams > 0
}

// DescriptiveName renders the roll for log lines, e.g.
// "[ID: 3] Bambu PLA-Silk, Red (500/1000g). Opened: true. In Use: false".
func (r RollDTO) DescriptiveName() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[ID: %d] %s %s", r.ID, catalogs.FormatName(catalogs.KindBrand, r.Brand), catalogs.FormatName(catalogs.KindType, r.Type))
	if r.Subtype != nil {
		b.WriteString("-" + catalogs.FormatName(catalogs.KindSubtype, *r.Subtype))
	}
	fmt.Fprintf(&b, ", %s", catalogs.FormatName(catalogs.KindColor, r.Color))
	if r.Surface != nil {
		fmt.Fprintf(&b, " %s", catalogs.FormatName(catalogs.KindSurface, *r.Surface))
	}
	fmt.Fprintf(&b, " (%g/%gg). Opened: %t. In Use: %t", r.WeightGrams, r.OriginalWeightGrams, r.Opened, r.InUse)
	return b.String()
}

// RollResult is the outcome of a single-roll operation. A missing roll is
// Result=false with no data rather than an error.
type RollResult struct {
	Result   bool
	RollData *RollDTO
}

func found(dto RollDTO) RollResult {
	return RollResult{Result: true, RollData: &dto}
}

var notFound = RollResult{}

// MarshalJSON writes roll_data as {} when there is no roll.
func (r RollResult) MarshalJSON() ([]byte, error) {
	var data any = struct{}{}
	if r.RollData != nil {
		data = r.RollData
	}
	return json.Marshal(struct {
		Result   bool `json:"result"`
		RollData any  `json:"roll_data"`
	}{Result: r.Result, RollData: data})
}

// InsertParams describes a new roll. WeightGrams defaults to
// OriginalWeightGrams when nil.
type InsertParams struct {
	TypeID              uint
	BrandID             uint
	ColorID             uint
	SubtypeID           *uint
	SurfaceID           *uint
	OriginalWeightGrams float64
	WeightGrams         *float64
	Opened              bool
	InUse               bool
}

// WeightUpdate carries exactly one of a direct weight or a decrement.
type WeightUpdate struct {
	NewWeightGrams  *float64
	DecreaseByGrams *float64
}

func (u WeightUpdate) valid() bool {
	return (u.NewWeightGrams == nil) != (u.DecreaseByGrams == nil)
}

// rollRow is a roll joined with its catalog names.
type rollRow struct {
	models.Roll
	TypeName    string
	BrandName   string
	ColorName   string
	SubtypeName *string
	SurfaceName *string
}

func (r rollRow) toDTO() RollDTO {
	return RollDTO{
		ID:                  r.ID,
		Type:                r.TypeName,
		TypeID:              r.TypeID,
		Brand:               r.BrandName,
		BrandID:             r.BrandID,
		Color:               r.ColorName,
		ColorID:             r.ColorID,
		Subtype:             r.SubtypeName,
		SubtypeID:           r.SubtypeID,
		Surface:             r.SurfaceName,
		SurfaceID:           r.SurfaceID,
		WeightGrams:         r.WeightGrams,
		OriginalWeightGrams: r.OriginalWeightGrams,
		Opened:              r.Opened,
		InUse:               r.InUse,
		CreatedAt:           r.CreatedAt.UTC(),
		UpdatedAt:           r.UpdatedAt.UTC(),
	}
}
