package rolls

import (
	"fmt"

	"github.com/angelmondragon/fillytrckr-backend/internal/catalogs"
	pkgerrors "github.com/angelmondragon/fillytrckr-backend/pkg/errors"
	"gorm.io/gorm"
)

// Criteria selects active rolls. Nil fields impose no constraint. Each
// catalog attribute may be matched by id or by name, not both.
type Criteria struct {
	TypeID      *uint   `json:"type_id"`
	TypeName    *string `json:"type"`
	BrandID     *uint   `json:"brand_id"`
	BrandName   *string `json:"brand"`
	ColorID     *uint   `json:"color_id"`
	ColorName   *string `json:"color"`
	SubtypeID   *uint   `json:"subtype_id"`
	SubtypeName *string `json:"subtype"`
	SurfaceID   *uint   `json:"surface_id"`
	SurfaceName *string `json:"surface"`
	Opened      *bool   `json:"opened"`
	InUse       *bool   `json:"in_use"`
}

// attributeFilter is one catalog attribute of the criteria.
type attributeFilter struct {
	kind   catalogs.Kind
	column string
	alias  string
	id     **uint
	name   **string
}

func (c *Criteria) attributes() []attributeFilter {
	return []attributeFilter{
		{catalogs.KindType, "type_id", aliasType, &c.TypeID, &c.TypeName},
		{catalogs.KindBrand, "brand_id", aliasBrand, &c.BrandID, &c.BrandName},
		{catalogs.KindColor, "color_id", aliasColor, &c.ColorID, &c.ColorName},
		{catalogs.KindSubtype, "subtype_id", aliasSubtype, &c.SubtypeID, &c.SubtypeName},
		{catalogs.KindSurface, "surface_id", aliasSurface, &c.SurfaceID, &c.SurfaceName},
	}
}

// IsEmpty reports whether no criterion is set.
func (c Criteria) IsEmpty() bool {
	for _, a := range c.attributes() {
		if *a.id != nil || *a.name != nil {
			return false
		}
	}
	return c.Opened == nil && c.InUse == nil
}

// Override returns c with every attribute that body provides replaced by
// body's value. Attributes are replaced whole: a body name drops a query id
// for the same attribute.
func (c Criteria) Override(body Criteria) Criteria {
	out := c
	outAttrs := out.attributes()
	for i, a := range body.attributes() {
		if *a.id == nil && *a.name == nil {
			continue
		}
		*outAttrs[i].id = *a.id
		*outAttrs[i].name = *a.name
	}
	if body.Opened != nil {
		out.Opened = body.Opened
	}
	if body.InUse != nil {
		out.InUse = body.InUse
	}
	return out
}

// Normalize trims and lowercases name criteria to match stored catalog names.
func (c Criteria) Normalize() Criteria {
	out := c
	for _, a := range out.attributes() {
		if *a.name != nil {
			n := catalogs.NormalizeName(**a.name)
			*a.name = &n
		}
	}
	return out
}

// Validate rejects an attribute given both by id and name, zero ids and
// blank names.
func (c Criteria) Validate() error {
	for _, a := range c.attributes() {
		attr := string(a.kind)
		switch {
		case *a.id != nil && *a.name != nil:
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("filter by %s id or %s name, not both", attr, attr)).
				WithDetails(map[string]any{"attribute": attr})
		case *a.id != nil && **a.id == 0:
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("%s_id must be positive", attr)).
				WithDetails(map[string]any{"attribute": attr})
		case *a.name != nil && **a.name == "":
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("%s name must not be empty", attr)).
				WithDetails(map[string]any{"attribute": attr})
		}
	}
	return nil
}

// Apply adds the criteria to a query built by selectRolls. Active rolls only.
func (c Criteria) Apply(q *gorm.DB) *gorm.DB {
	q = q.Where(activePredicate)
	for _, a := range c.attributes() {
		if *a.id != nil {
			q = q.Where(fmt.Sprintf("%s.%s = ?", tableRolls, a.column), **a.id)
		}
		if *a.name != nil {
			q = q.Where(fmt.Sprintf("%s.name = ?", a.alias), **a.name)
		}
	}
	if c.Opened != nil {
		q = q.Where(tableRolls+".opened = ?", *c.Opened)
	}
	if c.InUse != nil {
		q = q.Where(tableRolls+".in_use = ?", *c.InUse)
	}
	return q
}
