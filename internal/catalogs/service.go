package catalogs

import (
	"context"
	"fmt"

	"github.com/angelmondragon/fillytrckr-backend/pkg/db"
	pkgerrors "github.com/angelmondragon/fillytrckr-backend/pkg/errors"
	"github.com/angelmondragon/fillytrckr-backend/pkg/logger"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes reference catalog listing, additions and seeding.
type Service interface {
	List(ctx context.Context, kind Kind) ([]EntryDTO, error)
	Add(ctx context.Context, kind Kind, name string) (EntryDTO, error)
	Seed(ctx context.Context) (int, error)
}

type service struct {
	repo *Repository
	tx   txRunner
	logg *logger.Logger
}

// NewService builds a catalog service. logg may be nil.
func NewService(repo *Repository, tx txRunner, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{repo: repo, tx: tx, logg: logg}, nil
}

func (s *service) List(ctx context.Context, kind Kind) ([]EntryDTO, error) {
	if !kind.Valid() {
		return nil, unknownKind(kind)
	}
	rows, err := s.repo.List(ctx, kind)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, fmt.Sprintf("list %s", kind.Plural()))
	}
	out := make([]EntryDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDTO(row))
	}
	return out, nil
}

// Add stores a new lowercase name. Names are unique per catalog.
func (s *service) Add(ctx context.Context, kind Kind, name string) (EntryDTO, error) {
	if !kind.Valid() {
		return EntryDTO{}, unknownKind(kind)
	}
	normalized := NormalizeName(name)
	if normalized == "" {
		return EntryDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "name is required").
			WithDetails(map[string]any{"catalog": string(kind)})
	}

	entry, err := s.repo.Add(ctx, kind, normalized)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return EntryDTO{}, pkgerrors.Wrap(pkgerrors.CodeConflict, err, fmt.Sprintf("%s %q already exists", kind, normalized))
		}
		return EntryDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, fmt.Sprintf("add %s", kind))
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"catalog": string(kind),
		"id":      entry.ID,
		"name":    entry.Name,
	}), "catalog entry added")
	return toDTO(entry), nil
}

// Seed inserts the default names missing from each catalog in one
// transaction and returns how many rows were added.
func (s *service) Seed(ctx context.Context) (int, error) {
	added := 0
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		for _, kind := range kinds {
			present, err := repo.Names(ctx, kind)
			if err != nil {
				return fmt.Errorf("load %s names: %w", kind.Plural(), err)
			}
			for _, name := range kind.Defaults() {
				if _, ok := present[name]; ok {
					continue
				}
				if _, err := repo.Add(ctx, kind, name); err != nil {
					return fmt.Errorf("seed %s %q: %w", kind, name, err)
				}
				present[name] = struct{}{}
				added++
			}
		}
		return nil
	})
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "seed catalogs")
	}

	s.logg.Info(s.logg.WithField(ctx, "added", added), "catalogs seeded")
	return added, nil
}

func unknownKind(kind Kind) error {
	return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown catalog %q", string(kind)))
}
