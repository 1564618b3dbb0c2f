package models

import "time"

// Catalog table names.
const (
	TableTypes    = "filly_types"
	TableBrands   = "filly_brands"
	TableColors   = "filly_colors"
	TableSubtypes = "filly_subtypes"
	TableSurfaces = "filly_surfaces"
)

// CatalogEntry is one row of any reference catalog. All five catalogs share
// this shape, so callers pick the table with db.Table(...).
type CatalogEntry struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement"`
	Name      string    `gorm:"column:name;not null;uniqueIndex"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
