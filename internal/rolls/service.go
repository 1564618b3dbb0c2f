package rolls

import (
	"context"
	"fmt"
	"math"

	pkgerrors "github.com/angelmondragon/fillytrckr-backend/pkg/errors"
	"github.com/angelmondragon/fillytrckr-backend/pkg/logger"
)

// Operation names used for logs and metrics.
const (
	OpInsert       = "insert"
	OpDuplicate    = "duplicate"
	OpOpen         = "open"
	OpSetInUse     = "set_in_use"
	OpUpdateWeight = "update_weight"
	OpGet          = "get"
)

// Recorder receives roll operation outcomes. *metrics.RollMetrics satisfies it.
type Recorder interface {
	ObserveOperation(op string, outcome string)
	AddGramsConsumed(grams float64)
}

// Service is the roll API consumed by the transport layer. Missing rolls
// surface as NOT_FOUND errors.
type Service interface {
	Insert(ctx context.Context, params InsertParams) (RollDTO, error)
	Duplicate(ctx context.Context, id uint, originalWeight *float64) (RollDTO, error)
	Open(ctx context.Context, id uint) (RollDTO, error)
	SetInUse(ctx context.Context, id uint, inUse bool) (RollDTO, error)
	UpdateWeight(ctx context.Context, id uint, update WeightUpdate) (RollDTO, error)
	Get(ctx context.Context, id uint) (RollDTO, error)
	ListAll(ctx context.Context) ([]RollDTO, error)
	ListActive(ctx context.Context) ([]RollDTO, error)
	ListInUse(ctx context.Context) ([]RollDTO, error)
	ListFiltered(ctx context.Context, criteria Criteria) ([]RollDTO, error)
	Count(ctx context.Context) (int64, error)
}

type service struct {
	repo    *Repository
	metrics Recorder
	logg    *logger.Logger
}

// NewService wires the roll service. metrics and logg may be nil.
func NewService(repo *Repository, metrics Recorder, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("rolls repository required")
	}
	if metrics == nil {
		metrics = nopRecorder{}
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{repo: repo, metrics: metrics, logg: logg}, nil
}

func (s *service) Insert(ctx context.Context, params InsertParams) (RollDTO, error) {
	if err := validateWeight("original_weight_grams", &params.OriginalWeightGrams); err != nil {
		return RollDTO{}, err
	}
	if err := validateWeight("weight_grams", params.WeightGrams); err != nil {
		return RollDTO{}, err
	}
	if params.TypeID == 0 || params.BrandID == 0 || params.ColorID == 0 {
		return RollDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "type_id, brand_id and color_id are required")
	}
	result, err := s.repo.Insert(ctx, params)
	return s.finish(ctx, OpInsert, 0, result, err)
}

func (s *service) Duplicate(ctx context.Context, id uint, originalWeight *float64) (RollDTO, error) {
	if err := validateWeight("original_weight_grams", originalWeight); err != nil {
		return RollDTO{}, err
	}
	result, err := s.repo.Duplicate(ctx, id, originalWeight)
	return s.finish(ctx, OpDuplicate, id, result, err)
}

func (s *service) Open(ctx context.Context, id uint) (RollDTO, error) {
	result, err := s.repo.Open(ctx, id)
	return s.finish(ctx, OpOpen, id, result, err)
}

func (s *service) SetInUse(ctx context.Context, id uint, inUse bool) (RollDTO, error) {
	result, err := s.repo.SetInUse(ctx, id, inUse)
	return s.finish(ctx, OpSetInUse, id, result, err)
}

func (s *service) UpdateWeight(ctx context.Context, id uint, update WeightUpdate) (RollDTO, error) {
	if !update.valid() {
		return RollDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "provide exactly one of new_weight_grams or decrease_by_grams")
	}
	if err := validateWeight("new_weight_grams", update.NewWeightGrams); err != nil {
		return RollDTO{}, err
	}
	if err := validateWeight("decrease_by_grams", update.DecreaseByGrams); err != nil {
		return RollDTO{}, err
	}

	before, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return s.finish(ctx, OpUpdateWeight, id, before, err)
	}
	result, err := s.repo.UpdateWeight(ctx, id, update)
	if err == nil && before.Result && result.Result {
		if consumed := before.RollData.WeightGrams - result.RollData.WeightGrams; consumed > 0 {
			s.metrics.AddGramsConsumed(consumed)
		}
	}
	return s.finish(ctx, OpUpdateWeight, id, result, err)
}

func (s *service) Get(ctx context.Context, id uint) (RollDTO, error) {
	result, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return RollDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "get roll")
	}
	if !result.Result {
		return RollDTO{}, rollNotFound(id)
	}
	return *result.RollData, nil
}

func (s *service) ListAll(ctx context.Context) ([]RollDTO, error) {
	return wrapList(s.repo.ListAll(ctx))
}

func (s *service) ListActive(ctx context.Context) ([]RollDTO, error) {
	return wrapList(s.repo.ListActive(ctx))
}

func (s *service) ListInUse(ctx context.Context) ([]RollDTO, error) {
	return wrapList(s.repo.ListInUse(ctx))
}

func (s *service) ListFiltered(ctx context.Context, criteria Criteria) ([]RollDTO, error) {
	if err := criteria.Validate(); err != nil {
		return nil, err
	}
	return wrapList(s.repo.ListFiltered(ctx, criteria))
}

func (s *service) Count(ctx context.Context) (int64, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count rolls")
	}
	return count, nil
}

// finish turns a repository outcome into the service result, recording the
// metric and log line for op.
func (s *service) finish(ctx context.Context, op string, id uint, result RollResult, err error) (RollDTO, error) {
	ctx = s.logg.WithField(ctx, "op", op)
	if id != 0 {
		ctx = s.logg.WithRollID(ctx, id)
	}

	switch {
	case err != nil:
		s.metrics.ObserveOperation(op, "error")
		if pkgerrors.As(err) == nil {
			err = pkgerrors.Wrap(pkgerrors.CodeInternal, err, fmt.Sprintf("%s roll", op))
		}
		s.logg.Error(ctx, "roll operation failed", err)
		return RollDTO{}, err
	case !result.Result:
		s.metrics.ObserveOperation(op, "not_found")
		s.logg.Warn(ctx, "roll not found")
		return RollDTO{}, rollNotFound(id)
	}

	s.metrics.ObserveOperation(op, "ok")
	s.logg.Info(s.logg.WithRollID(ctx, result.RollData.ID), result.RollData.DescriptiveName())
	return *result.RollData, nil
}

func wrapList(rolls []RollDTO, err error) ([]RollDTO, error) {
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list rolls")
	}
	return rolls, nil
}

func validateWeight(field string, value *float64) error {
	if value == nil {
		return nil
	}
	if math.IsNaN(*value) || math.IsInf(*value, 0) || *value < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("%s must be a non-negative number", field)).
			WithDetails(map[string]any{"field": field})
	}
	return nil
}

func rollNotFound(id uint) error {
	return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("roll %d not found", id))
}

type nopRecorder struct{}

func (nopRecorder) ObserveOperation(string, string) {}
func (nopRecorder) AddGramsConsumed(float64)        {}
