package main

import (
	"context"
	"fmt"

	"github.com/yourusername/roster-wins/internal/database"
	"github.com/yourusername/roster-wins/internal/datasource"
	"github.com/yourusername/roster-wins/internal/predict"
	"github.com/yourusername/roster-wins/internal/repository"
	"github.com/yourusername/roster-wins/internal/service"
	"github.com/yourusername/roster-wins/internal/training"
)

// deps holds what a command needs beyond configuration. Fields are nil when
// the command did not ask for them.
type deps struct {
	db    *database.DB
	repos *repository.Repositories
	store service.ModelStore
}

func (d *deps) Close() {
	if d.db != nil {
		d.db.Close()
	}
}

// openStore returns the Postgres registry when the database is enabled and
// the artifact file otherwise.
func openStore(ctx context.Context) (*deps, error) {
	d := &deps{}
	if !cfg.Database.Enabled {
		d.store = service.NewFileModelStore(cfg.Model.ArtifactPath)
		return d, nil
	}

	db, err := database.Initialize(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	repos, err := repository.NewRepositories(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize repositories: %w", err)
	}

	d.db = db
	d.repos = repos
	d.store = service.NewRegistryModelStore(repos.Model, cfg.Model.RegistryName)
	appLog.WithField("registry", cfg.Model.RegistryName).Info("Using Postgres model registry")
	return d, nil
}

func newTrainer() *training.Trainer {
	search := training.DefaultSearchConfig()
	search.NIter = cfg.Training.NIter
	search.Folds = cfg.Training.Folds
	search.Seed = cfg.Training.Seed
	if cfg.Training.Parallelism > 0 {
		search.Parallelism = cfg.Training.Parallelism
	}
	return training.NewTrainer(training.Config{Space: training.DefaultSpace(), Search: search}, appLog)
}

func newPredictionCache() *predict.Cache {
	return predict.NewCache(cfg.Cache.TTL(), cfg.Cache.MaxSize)
}

// newLookup wires the stats client behind the configured lookup cache
func newLookup() (*datasource.StatsLookup, error) {
	factory := datasource.NewFactory(cfg, appLog)
	return factory.NewPlayerLookup(factory.NewStatsClient())
}
