package catalogs

import (
	"strings"

	"github.com/angelmondragon/fillytrckr-backend/pkg/db/models"
)

// Kind identifies one of the reference catalogs.
type Kind string

const (
	KindType    Kind = "type"
	KindBrand   Kind = "brand"
	KindColor   Kind = "color"
	KindSubtype Kind = "subtype"
	KindSurface Kind = "surface"
)

var kinds = []Kind{KindType, KindBrand, KindColor, KindSubtype, KindSurface}

var tables = map[Kind]string{
	KindType:    models.TableTypes,
	KindBrand:   models.TableBrands,
	KindColor:   models.TableColors,
	KindSubtype: models.TableSubtypes,
	KindSurface: models.TableSurfaces,
}

var defaults = map[Kind][]string{
	KindType:  {"pla", "abs", "petg", "tpu"},
	KindBrand: {"bambu", "sunlu", "inland", "prusament", "esun"},
	KindColor: {
		"white", "black", "red", "blue", "green", "yellow", "royal blue", "purple",
		"orange", "pink", "gray", "brown", "light blue", "dark blue",
		"multi-gold-silver", "gold", "silver", "copper", "bronze", "transparent",
	},
	KindSubtype: {"silk", "glow-in-the-dark", "carbon fiber", "wood", "high flow", "plus"},
	KindSurface: {"basic", "matte", "silk", "metal", "wood"},
}

// Kinds lists every catalog in seeding order.
func Kinds() []Kind {
	out := make([]Kind, len(kinds))
	copy(out, kinds)
	return out
}

// ParseKind accepts the singular or plural catalog name.
func ParseKind(value string) (Kind, bool) {
	v := strings.ToLower(strings.TrimSpace(value))
	v = strings.TrimSuffix(v, "s")
	k := Kind(v)
	return k, k.Valid()
}

func (k Kind) Valid() bool {
	_, ok := tables[k]
	return ok
}

// Table is the backing table name.
func (k Kind) Table() string {
	return tables[k]
}

// Plural is the collection name used in routes and payloads.
func (k Kind) Plural() string {
	return string(k) + "s"
}

// Defaults returns the seed names for the catalog.
func (k Kind) Defaults() []string {
	out := make([]string, len(defaults[k]))
	copy(out, defaults[k])
	return out
}
