package rolls

import (
	"context"
	"math"
	"testing"

	pkgerrors "github.com/angelmondragon/fillytrckr-backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedOp struct {
	op      string
	outcome string
}

type fakeRecorder struct {
	ops   []recordedOp
	grams float64
}

func (f *fakeRecorder) ObserveOperation(op string, outcome string) {
	f.ops = append(f.ops, recordedOp{op, outcome})
}

func (f *fakeRecorder) AddGramsConsumed(grams float64) {
	f.grams += grams
}

func newTestService(t *testing.T) (Service, *fakeRecorder) {
	t.Helper()
	repo, _ := newSeededRepo(t)
	rec := &fakeRecorder{}
	svc, err := NewService(repo, rec, nil)
	require.NoError(t, err)
	return svc, rec
}

func TestNewServiceRequiresRepository(t *testing.T) {
	_, err := NewService(nil, nil, nil)
	assert.Error(t, err)
}

func TestServiceMapsMissingRollToNotFound(t *testing.T) {
	svc, rec := newTestService(t)
	ctx := context.Background()

	_, err := svc.Open(ctx, 999)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
	_, err = svc.Duplicate(ctx, 999, nil)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
	_, err = svc.Get(ctx, 999)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	assert.Equal(t, []recordedOp{{OpOpen, "not_found"}, {OpDuplicate, "not_found"}}, rec.ops)

	count, err := svc.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestServiceInsertValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	cases := []InsertParams{
		{TypeID: 1, BrandID: 1, ColorID: 1, OriginalWeightGrams: -1},
		{TypeID: 1, BrandID: 1, ColorID: 1, OriginalWeightGrams: math.NaN()},
		{TypeID: 1, BrandID: 1, ColorID: 1, OriginalWeightGrams: 1000, WeightGrams: ptr(math.Inf(1))},
		{BrandID: 1, ColorID: 1, OriginalWeightGrams: 1000},
	}
	for i, params := range cases {
		_, err := svc.Insert(ctx, params)
		assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), "case %d: %v", i, err)
	}

	_, err := svc.Insert(ctx, InsertParams{TypeID: 1, BrandID: 1, ColorID: 500, OriginalWeightGrams: 1000})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeReferenceInvalid))
}

func TestServiceUpdateWeightValidationAndMetrics(t *testing.T) {
	svc, rec := newTestService(t)
	ctx := context.Background()

	roll, err := svc.Insert(ctx, InsertParams{TypeID: 1, BrandID: 1, ColorID: 1, OriginalWeightGrams: 1000})
	require.NoError(t, err)

	_, err = svc.UpdateWeight(ctx, roll.ID, WeightUpdate{})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	_, err = svc.UpdateWeight(ctx, roll.ID, WeightUpdate{NewWeightGrams: ptr(1.0), DecreaseByGrams: ptr(1.0)})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	_, err = svc.UpdateWeight(ctx, roll.ID, WeightUpdate{DecreaseByGrams: ptr(-10.0)})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	updated, err := svc.UpdateWeight(ctx, roll.ID, WeightUpdate{DecreaseByGrams: ptr(250.0)})
	require.NoError(t, err)
	assert.Equal(t, 750.0, updated.WeightGrams)

	updated, err = svc.UpdateWeight(ctx, roll.ID, WeightUpdate{DecreaseByGrams: ptr(5000.0)})
	require.NoError(t, err)
	assert.Zero(t, updated.WeightGrams)

	// refilling the weight is not consumption
	_, err = svc.UpdateWeight(ctx, roll.ID, WeightUpdate{NewWeightGrams: ptr(300.0)})
	require.NoError(t, err)

	assert.Equal(t, 1000.0, rec.grams)
	assert.Equal(t, []recordedOp{
		{OpInsert, "ok"},
		{OpUpdateWeight, "ok"},
		{OpUpdateWeight, "ok"},
		{OpUpdateWeight, "ok"},
	}, rec.ops)
}

func TestServiceListFilteredRejectsAmbiguousCriteria(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.ListFiltered(context.Background(), Criteria{BrandID: ptr(uint(1)), BrandName: ptr("bambu")})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestServiceLifecycle(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	roll, err := svc.Insert(ctx, InsertParams{TypeID: 1, BrandID: 1, ColorID: 3, SubtypeID: ptr(uint(1)), OriginalWeightGrams: 1000, WeightGrams: ptr(500.0)})
	require.NoError(t, err)

	opened, err := svc.Open(ctx, roll.ID)
	require.NoError(t, err)
	assert.True(t, opened.Opened)

	mounted, err := svc.SetInUse(ctx, roll.ID, true)
	require.NoError(t, err)
	assert.True(t, mounted.InUse)

	dup, err := svc.Duplicate(ctx, roll.ID, ptr(750.0))
	require.NoError(t, err)
	assert.NotEqual(t, roll.ID, dup.ID)

	all, err := svc.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	inUse, err := svc.ListInUse(ctx)
	require.NoError(t, err)
	require.Len(t, inUse, 1)
	assert.Equal(t, "[ID: 1] Bambu PLA-Silk, Red (500/1000g). Opened: true. In Use: true", inUse[0].DescriptiveName())

	active, err := svc.ListActive(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 2)

	got, err := svc.Get(ctx, dup.ID)
	require.NoError(t, err)
	assert.Equal(t, 750.0, got.OriginalWeightGrams)
}
