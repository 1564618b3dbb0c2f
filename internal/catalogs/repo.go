package catalogs

import (
	"context"

	"github.com/angelmondragon/fillytrckr-backend/internal/repo"
	"github.com/angelmondragon/fillytrckr-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository persists reference catalog entries. Every method takes the
// catalog kind, since all catalogs share one row shape.
type Repository struct {
	repo.Base
}

// NewRepository binds a catalog repository to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// WithTx returns a repository bound to tx.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{Base: r.Bind(tx)}
}

// List returns every entry of the catalog ordered by id.
func (r *Repository) List(ctx context.Context, kind Kind) ([]models.CatalogEntry, error) {
	var rows []models.CatalogEntry
	if err := r.DB(ctx).Table(kind.Table()).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Add inserts name as given; callers normalize first.
func (r *Repository) Add(ctx context.Context, kind Kind, name string) (models.CatalogEntry, error) {
	entry := models.CatalogEntry{Name: name}
	if err := r.DB(ctx).Table(kind.Table()).Create(&entry).Error; err != nil {
		return models.CatalogEntry{}, err
	}
	return entry, nil
}

// Exists reports whether an entry with id is present.
func (r *Repository) Exists(ctx context.Context, kind Kind, id uint) (bool, error) {
	var count int64
	if err := r.DB(ctx).Table(kind.Table()).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Names returns the set of stored names.
func (r *Repository) Names(ctx context.Context, kind Kind) (map[string]struct{}, error) {
	var names []string
	if err := r.DB(ctx).Table(kind.Table()).Pluck("name", &names).Error; err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set, nil
}
