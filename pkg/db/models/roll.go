package models

import "time"

// TableRolls holds one row per filament roll.
const TableRolls = "filly_rolls"

// Roll is a tracked filament spool. Subtype and surface are optional.
type Roll struct {
	ID                  uint      `gorm:"column:id;primaryKey;autoIncrement"`
	TypeID              uint      `gorm:"column:type_id;not null"`
	BrandID             uint      `gorm:"column:brand_id;not null"`
	ColorID             uint      `gorm:"column:color_id;not null"`
	SubtypeID           *uint     `gorm:"column:subtype_id"`
	SurfaceID           *uint     `gorm:"column:surface_id"`
	WeightGrams         float64   `gorm:"column:weight_grams;not null"`
	OriginalWeightGrams float64   `gorm:"column:original_weight_grams;not null"`
	Opened              bool      `gorm:"column:opened;not null;default:false"`
	InUse               bool      `gorm:"column:in_use;not null;default:false"`
	CreatedAt           time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Roll) TableName() string {
	return TableRolls
}
