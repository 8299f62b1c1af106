package app

import (
	"context"
	"log"

	"autolyze/domain/profile"
	"autolyze/domain/table"
	"autolyze/internal/analysis"
	"autolyze/ports"
)

// ProfileService orchestrates a full profiling run: ingest, analyze, render,
// narrate, write, persist. The engine result is authoritative; collaborator
// failures after analysis degrade the run (logged, section skipped) instead
// of aborting it.
type ProfileService struct {
	reader   ports.TableReader
	runner   *analysis.Runner
	renderer ports.Renderer
	narrator ports.Narrator
	writer   ports.ReportWriter
	runs     ports.RunRepository
}

// Deps wires the service's collaborators. Renderer, narrator, writer and
// run repository are optional; a nil dependency skips that step.
type Deps struct {
	Reader   ports.TableReader
	Runner   *analysis.Runner
	Renderer ports.Renderer
	Narrator ports.Narrator
	Writer   ports.ReportWriter
	Runs     ports.RunRepository
}

// Result bundles everything a profiling run produced
type Result struct {
	Report     *profile.Report
	Charts     *ports.ChartSet
	Narrative  string
	ReportPath string
}

// NewProfileService creates the orchestration service
func NewProfileService(deps Deps) *ProfileService {
	return &ProfileService{
		reader:   deps.Reader,
		runner:   deps.Runner,
		renderer: deps.Renderer,
		narrator: deps.Narrator,
		writer:   deps.Writer,
		runs:     deps.Runs,
	}
}

// ProfileFile ingests the file at path and runs the full pipeline
func (s *ProfileService) ProfileFile(ctx context.Context, path, outputDir string) (*Result, error) {
	t, err := s.reader.ReadTable(ctx, path)
	if err != nil {
		return nil, err
	}
	return s.ProfileTable(ctx, t, outputDir)
}

// ProfileTable runs the pipeline over an already materialized table
func (s *ProfileService) ProfileTable(ctx context.Context, t *table.Table, outputDir string) (*Result, error) {
	report, err := s.runner.Run(ctx, t)
	if err != nil {
		return nil, err
	}
	result := &Result{Report: report}

	if s.renderer != nil {
		charts, err := s.renderer.Render(ctx, report, outputDir)
		if err != nil {
			log.Printf("[ProfileService] rendering failed, continuing without charts: %v", err)
		} else {
			result.Charts = charts
		}
	}

	if s.narrator != nil {
		narrative, err := s.narrator.Narrate(ctx, report, result.Charts)
		if err != nil {
			log.Printf("[ProfileService] narrative generation failed, continuing without it: %v", err)
		} else {
			result.Narrative = narrative
		}
	}

	if s.writer != nil {
		path, err := s.writer.Write(ctx, report, result.Narrative, result.Charts, outputDir)
		if err != nil {
			log.Printf("[ProfileService] report writing failed: %v", err)
		} else {
			result.ReportPath = path
		}
	}

	if s.runs != nil {
		if err := s.runs.Save(ctx, report); err != nil {
			log.Printf("[ProfileService] failed to persist run %s: %v", report.RunID, err)
		}
	}

	return result, nil
}
