package cmd

import (
	"context"
	"log"

	"autolyze/adapters/ingest"
	"autolyze/adapters/llm"
	"autolyze/adapters/postgres"
	"autolyze/adapters/render"
	"autolyze/adapters/report"
	"autolyze/app"
	"autolyze/internal/analysis"
	"autolyze/ports"
)

// buildService assembles the profiling pipeline from configuration. The
// narrator and the run store are optional: without a token or database URL
// those steps are skipped rather than failing the whole pipeline.
func buildService(ctx context.Context) (*app.ProfileService, ports.RunRepository, error) {
	deps := app.Deps{
		Reader:   ingest.NewFileReader(),
		Runner:   analysis.NewRunner(analysis.Config{Density: cfg.DensityConfig()}),
		Renderer: render.NewChartRenderer(),
		Writer:   report.NewWriter(true),
	}

	if cfg.AI.Token != "" {
		narrator, err := llm.NewNarrator(llm.Config{
			Token:       cfg.AI.Token,
			Model:       cfg.AI.Model,
			BaseURL:     cfg.AI.BaseURL,
			MaxTokens:   cfg.AI.MaxTokens,
			Temperature: cfg.AI.Temperature,
		})
		if err != nil {
			return nil, nil, err
		}
		deps.Narrator = narrator
	} else {
		log.Printf("[autolyze] no AI token configured, skipping narrative generation")
	}

	var runs ports.RunRepository
	if cfg.Database.URL != "" {
		db, err := postgres.Connect(cfg.Database.URL)
		if err != nil {
			return nil, nil, err
		}
		if err := postgres.EnsureSchema(ctx, db); err != nil {
			return nil, nil, err
		}
		runs = postgres.NewRunRepository(db)
		deps.Runs = runs
	} else {
		log.Printf("[autolyze] no DATABASE_URL configured, runs will not be persisted")
	}

	return app.NewProfileService(deps), runs, nil
}
