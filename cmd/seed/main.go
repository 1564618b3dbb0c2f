package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/angelmondragon/fillytrckr-backend/internal/catalogs"
	"github.com/angelmondragon/fillytrckr-backend/internal/rolls"
	"github.com/angelmondragon/fillytrckr-backend/pkg/config"
	"github.com/angelmondragon/fillytrckr-backend/pkg/db"
	"github.com/angelmondragon/fillytrckr-backend/pkg/logger"
	"github.com/angelmondragon/fillytrckr-backend/pkg/migrate"
	"github.com/joho/godotenv"
)

// seed fills the default catalogs and, with -sample, adds one demo roll
// (Bambu PLA, red, 1000g).
func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "seed"})

	_ = godotenv.Load()

	sample := flag.Bool("sample", false, "insert a sample roll after seeding catalogs")
	flag.Parse()

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "seed",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer dbClient.Close()

	err = migrate.MaybeRun(ctx, cfg, logg, dbClient)
	requireResource(ctx, logg, "migrations", err)

	catalogRepo := catalogs.NewRepository(dbClient.DB())
	catalogService, err := catalogs.NewService(catalogRepo, dbClient, logg)
	requireResource(ctx, logg, "catalog service", err)

	added, err := catalogService.Seed(ctx)
	requireResource(ctx, logg, "catalog seed", err)
	fmt.Printf("catalog entries added: %d\n", added)

	if !*sample {
		return
	}

	ids, err := sampleIDs(ctx, catalogRepo)
	requireResource(ctx, logg, "sample catalog lookup", err)

	rollService, err := rolls.NewService(rolls.NewRepository(dbClient), nil, logg)
	requireResource(ctx, logg, "roll service", err)

	roll, err := rollService.Insert(ctx, rolls.InsertParams{
		TypeID:              ids[catalogs.KindType],
		BrandID:             ids[catalogs.KindBrand],
		ColorID:             ids[catalogs.KindColor],
		OriginalWeightGrams: rolls.DefaultDuplicateWeightGrams,
	})
	requireResource(ctx, logg, "sample roll", err)
	fmt.Println("inserted", roll.DescriptiveName())
}

func sampleIDs(ctx context.Context, repo *catalogs.Repository) (map[catalogs.Kind]uint, error) {
	want := map[catalogs.Kind]string{
		catalogs.KindType:  "pla",
		catalogs.KindBrand: "bambu",
		catalogs.KindColor: "red",
	}
	ids := make(map[catalogs.Kind]uint, len(want))
	for kind, name := range want {
		entries, err := repo.List(ctx, kind)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if e.Name == name {
				ids[kind] = e.ID
			}
		}
		if ids[kind] == 0 {
			return nil, fmt.Errorf("%s %q not found", kind, name)
		}
	}
	return ids, nil
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
