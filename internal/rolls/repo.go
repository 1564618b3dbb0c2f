package rolls

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/fillytrckr-backend/internal/catalogs"
	"github.com/angelmondragon/fillytrckr-backend/internal/repo"
	"github.com/angelmondragon/fillytrckr-backend/pkg/db"
	"github.com/angelmondragon/fillytrckr-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/fillytrckr-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	tableRolls = models.TableRolls

	aliasType    = "t"
	aliasBrand   = "b"
	aliasColor   = "c"
	aliasSubtype = "st"
	aliasSurface = "sf"

	activePredicate = tableRolls + ".weight_grams > 0"
)

var catalogJoins = []struct {
	table  string
	alias  string
	column string
}{
	{models.TableTypes, aliasType, "type_id"},
	{models.TableBrands, aliasBrand, "brand_id"},
	{models.TableColors, aliasColor, "color_id"},
	{models.TableSubtypes, aliasSubtype, "subtype_id"},
	{models.TableSurfaces, aliasSurface, "surface_id"},
}

var rollColumns = strings.Join([]string{
	tableRolls + ".*",
	"COALESCE(" + aliasType + ".name, '') AS type_name",
	"COALESCE(" + aliasBrand + ".name, '') AS brand_name",
	"COALESCE(" + aliasColor + ".name, '') AS color_name",
	aliasSubtype + ".name AS subtype_name",
	aliasSurface + ".name AS surface_name",
}, ", ")

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Repository owns the roll lifecycle. Every method runs as one transaction;
// a missing roll is reported through RollResult, not as an error.
type Repository struct {
	tx  txRunner
	now func() time.Time
}

// NewRepository builds a roll repository on top of a transaction runner
// (usually *db.Client).
func NewRepository(tx txRunner) *Repository {
	return &Repository{tx: tx, now: time.Now}
}

// queries is the data access bound to one transaction.
type queries struct {
	repo.Base
	catalogs *catalogs.Repository
}

func newQueries(tx *gorm.DB) queries {
	return queries{Base: repo.NewBase(tx), catalogs: catalogs.NewRepository(tx)}
}

func (q queries) selectRolls(ctx context.Context) *gorm.DB {
	query := q.DB(ctx).Table(tableRolls).Select(rollColumns)
	for _, j := range catalogJoins {
		query = query.Joins(fmt.Sprintf("LEFT JOIN %s %s ON %s.id = %s.%s", j.table, j.alias, j.alias, tableRolls, j.column))
	}
	return query
}

func (q queries) get(ctx context.Context, id uint) (*RollDTO, error) {
	var rows []rollRow
	if err := q.selectRolls(ctx).Where(tableRolls+".id = ?", id).Limit(1).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	dto := rows[0].toDTO()
	return &dto, nil
}

func (q queries) list(ctx context.Context, scope func(*gorm.DB) *gorm.DB) ([]RollDTO, error) {
	var rows []rollRow
	query := q.selectRolls(ctx)
	if scope != nil {
		query = scope(query)
	}
	if err := query.Order(tableRolls + ".id ASC").Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]RollDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDTO())
	}
	return out, nil
}

// lock loads the roll row and holds it for the rest of the transaction.
func (q queries) lock(ctx context.Context, id uint) (*models.Roll, error) {
	var roll models.Roll
	err := q.ForUpdate(ctx).Where("id = ?", id).Take(&roll).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &roll, nil
}

func (q queries) update(ctx context.Context, id uint, fields map[string]any) error {
	return q.DB(ctx).Model(&models.Roll{}).Where("id = ?", id).Updates(fields).Error
}

type reference struct {
	kind catalogs.Kind
	id   *uint
}

// checkReferences returns a REFERENCE_INVALID error naming every id that
// does not resolve to a catalog entry.
func (q queries) checkReferences(ctx context.Context, refs []reference) error {
	missing := map[string]uint{}
	for _, ref := range refs {
		if ref.id == nil {
			continue
		}
		ok, err := q.catalogs.Exists(ctx, ref.kind, *ref.id)
		if err != nil {
			return err
		}
		if !ok {
			missing[string(ref.kind)+"_id"] = *ref.id
		}
	}
	if len(missing) > 0 {
		return pkgerrors.New(pkgerrors.CodeReferenceInvalid, "roll references unknown catalog entries").
			WithDetails(missing)
	}
	return nil
}

func (q queries) create(ctx context.Context, roll *models.Roll) error {
	err := q.DB(ctx).Create(roll).Error
	if db.IsForeignKeyViolation(err) {
		return pkgerrors.Wrap(pkgerrors.CodeReferenceInvalid, err, "roll references unknown catalog entries")
	}
	return err
}

// Insert creates a roll. Every catalog reference must exist.
func (r *Repository) Insert(ctx context.Context, params InsertParams) (RollResult, error) {
	weight := params.OriginalWeightGrams
	if params.WeightGrams != nil {
		weight = *params.WeightGrams
	}

	var result RollResult
	err := r.tx.WithTx(ctx, func(tx *gorm.DB) error {
		q := newQueries(tx)
		refs := []reference{
			{catalogs.KindType, &params.TypeID},
			{catalogs.KindBrand, &params.BrandID},
			{catalogs.KindColor, &params.ColorID},
			{catalogs.KindSubtype, params.SubtypeID},
			{catalogs.KindSurface, params.SurfaceID},
		}
		if err := q.checkReferences(ctx, refs); err != nil {
			return err
		}

		now := r.now()
		roll := models.Roll{
			TypeID:              params.TypeID,
			BrandID:             params.BrandID,
			ColorID:             params.ColorID,
			SubtypeID:           params.SubtypeID,
			SurfaceID:           params.SurfaceID,
			WeightGrams:         weight,
			OriginalWeightGrams: params.OriginalWeightGrams,
			Opened:              params.Opened,
			InUse:               params.InUse,
			CreatedAt:           now,
			UpdatedAt:           now,
		}
		if err := q.create(ctx, &roll); err != nil {
			return err
		}
		return r.reload(ctx, q, roll.ID, &result)
	})
	return result, err
}

// Duplicate creates a fresh, unopened roll with the source's catalog
// references. originalWeight nil means DefaultDuplicateWeightGrams.
func (r *Repository) Duplicate(ctx context.Context, id uint, originalWeight *float64) (RollResult, error) {
	weight := DefaultDuplicateWeightGrams
	if originalWeight != nil {
		weight = *originalWeight
	}

	result := notFound
	err := r.tx.WithTx(ctx, func(tx *gorm.DB) error {
		q := newQueries(tx)
		source, err := q.lock(ctx, id)
		if err != nil || source == nil {
			return err
		}

		now := r.now()
		roll := models.Roll{
			TypeID:              source.TypeID,
			BrandID:             source.BrandID,
			ColorID:             source.ColorID,
			SubtypeID:           source.SubtypeID,
			SurfaceID:           source.SurfaceID,
			WeightGrams:         weight,
			OriginalWeightGrams: weight,
			CreatedAt:           now,
			UpdatedAt:           now,
		}
		if err := q.create(ctx, &roll); err != nil {
			return err
		}
		return r.reload(ctx, q, roll.ID, &result)
	})
	return result, err
}

// Open marks the roll opened. Opening an opened roll succeeds.
func (r *Repository) Open(ctx context.Context, id uint) (RollResult, error) {
	return r.mutate(ctx, id, func(*models.Roll) (map[string]any, error) {
		return map[string]any{"opened": true}, nil
	})
}

// SetInUse sets the in-use flag. Any number of rolls may be in use.
func (r *Repository) SetInUse(ctx context.Context, id uint, inUse bool) (RollResult, error) {
	return r.mutate(ctx, id, func(*models.Roll) (map[string]any, error) {
		return map[string]any{"in_use": inUse}, nil
	})
}

// UpdateWeight sets the weight directly or subtracts from it; both paths
// floor at zero. Anything but exactly one field is a no-op failure.
func (r *Repository) UpdateWeight(ctx context.Context, id uint, update WeightUpdate) (RollResult, error) {
	if !update.valid() {
		return notFound, nil
	}
	return r.mutate(ctx, id, func(roll *models.Roll) (map[string]any, error) {
		return map[string]any{"weight_grams": nextWeight(roll.WeightGrams, update)}, nil
	})
}

func nextWeight(current float64, update WeightUpdate) float64 {
	var next decimal.Decimal
	if update.NewWeightGrams != nil {
		next = decimal.NewFromFloat(*update.NewWeightGrams)
	} else {
		next = decimal.NewFromFloat(current).Sub(decimal.NewFromFloat(*update.DecreaseByGrams))
	}
	if next.IsNegative() {
		return 0
	}
	return next.InexactFloat64()
}

// mutate locks the roll, applies the fields from change plus updated_at and
// returns the fresh payload.
func (r *Repository) mutate(ctx context.Context, id uint, change func(*models.Roll) (map[string]any, error)) (RollResult, error) {
	result := notFound
	err := r.tx.WithTx(ctx, func(tx *gorm.DB) error {
		q := newQueries(tx)
		roll, err := q.lock(ctx, id)
		if err != nil || roll == nil {
			return err
		}
		fields, err := change(roll)
		if err != nil {
			return err
		}
		fields["updated_at"] = r.now()
		if err := q.update(ctx, id, fields); err != nil {
			return err
		}
		return r.reload(ctx, q, id, &result)
	})
	return result, err
}

func (r *Repository) reload(ctx context.Context, q queries, id uint, result *RollResult) error {
	dto, err := q.get(ctx, id)
	if err != nil {
		return err
	}
	if dto == nil {
		return fmt.Errorf("roll %d vanished inside its transaction", id)
	}
	*result = found(*dto)
	return nil
}

// GetByID returns the roll or a not-found result.
func (r *Repository) GetByID(ctx context.Context, id uint) (RollResult, error) {
	result := notFound
	err := r.tx.WithTx(ctx, func(tx *gorm.DB) error {
		dto, err := newQueries(tx).get(ctx, id)
		if err != nil || dto == nil {
			return err
		}
		result = found(*dto)
		return nil
	})
	return result, err
}

// ListAll returns every roll in id order, empty ones included.
func (r *Repository) ListAll(ctx context.Context) ([]RollDTO, error) {
	return r.list(ctx, nil)
}

// ListInUse returns rolls currently mounted on a printer.
func (r *Repository) ListInUse(ctx context.Context) ([]RollDTO, error) {
	return r.list(ctx, func(q *gorm.DB) *gorm.DB {
		return q.Where(tableRolls+".in_use = ?", true)
	})
}

// ListActive returns rolls with weight left.
func (r *Repository) ListActive(ctx context.Context) ([]RollDTO, error) {
	return r.list(ctx, func(q *gorm.DB) *gorm.DB {
		return q.Where(activePredicate)
	})
}

// ListFiltered returns active rolls matching criteria. Names are matched
// exactly against stored (lowercase) catalog names.
func (r *Repository) ListFiltered(ctx context.Context, criteria Criteria) ([]RollDTO, error) {
	return r.list(ctx, criteria.Apply)
}

func (r *Repository) list(ctx context.Context, scope func(*gorm.DB) *gorm.DB) ([]RollDTO, error) {
	var out []RollDTO
	err := r.tx.WithTx(ctx, func(tx *gorm.DB) error {
		rows, err := newQueries(tx).list(ctx, scope)
		out = rows
		return err
	})
	return out, err
}

// Count returns the number of stored rolls.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return newQueries(tx).DB(ctx).Model(&models.Roll{}).Count(&count).Error
	})
	return count, err
}
