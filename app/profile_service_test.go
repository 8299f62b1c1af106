package app

import (
	"context"
	"errors"
	"testing"

	"autolyze/domain/core"
	"autolyze/domain/profile"
	"autolyze/domain/table"
	"autolyze/internal/analysis"
	"autolyze/internal/cluster"
	"autolyze/ports"
)

type stubNarrator struct {
	narrative string
	err       error
	called    bool
}

func (s *stubNarrator) Narrate(ctx context.Context, report *profile.Report, charts *ports.ChartSet) (string, error) {
	s.called = true
	return s.narrative, s.err
}

type memoryRuns struct {
	saved []*profile.Report
}

func (m *memoryRuns) Save(ctx context.Context, report *profile.Report) error {
	m.saved = append(m.saved, report)
	return nil
}

func (m *memoryRuns) GetByID(ctx context.Context, id core.RunID) (*profile.Report, error) {
	for _, r := range m.saved {
		if r.RunID == id {
			return r, nil
		}
	}
	return nil, core.NewNotFoundError("run", id.String())
}

func (m *memoryRuns) List(ctx context.Context, limit, offset int) ([]ports.RunSummary, error) {
	return nil, nil
}

func serviceTable() *table.Table {
	return &table.Table{
		Source: "points.csv",
		Columns: []table.Column{
			{Name: "x", Kind: table.KindNumeric, Numbers: []float64{0, 0.1, 0, 5, 5.1, 5}},
			{Name: "y", Kind: table.KindNumeric, Numbers: []float64{0, 0, 0.1, 5, 5, 5.1}},
		},
	}
}

func engineConfig() analysis.Config {
	return analysis.Config{Density: cluster.DensityConfig{Epsilon: 0.5, MinPoints: 3}}
}

func TestProfileTable_EngineOnly(t *testing.T) {
	service := NewProfileService(Deps{Runner: analysis.NewRunner(engineConfig())})

	result, err := service.ProfileTable(context.Background(), serviceTable(), t.TempDir())
	if err != nil {
		t.Fatalf("profile failed: %v", err)
	}
	if !result.Report.Complete() {
		t.Errorf("report incomplete: %v", result.Report.SectionErrors)
	}
	if result.Charts != nil || result.Narrative != "" || result.ReportPath != "" {
		t.Error("nil collaborators should leave their outputs empty")
	}
}

func TestProfileTable_NarratorAndStore(t *testing.T) {
	narrator := &stubNarrator{narrative: "A tale of two blobs."}
	runs := &memoryRuns{}
	service := NewProfileService(Deps{
		Runner:   analysis.NewRunner(engineConfig()),
		Narrator: narrator,
		Runs:     runs,
	})

	result, err := service.ProfileTable(context.Background(), serviceTable(), t.TempDir())
	if err != nil {
		t.Fatalf("profile failed: %v", err)
	}
	if !narrator.called {
		t.Error("narrator not invoked")
	}
	if result.Narrative != "A tale of two blobs." {
		t.Errorf("narrative = %q", result.Narrative)
	}
	if len(runs.saved) != 1 || runs.saved[0].RunID != result.Report.RunID {
		t.Errorf("run not persisted: %+v", runs.saved)
	}
}

func TestProfileTable_NarratorFailureDegrades(t *testing.T) {
	narrator := &stubNarrator{err: errors.New("upstream unavailable")}
	service := NewProfileService(Deps{
		Runner:   analysis.NewRunner(engineConfig()),
		Narrator: narrator,
	})

	result, err := service.ProfileTable(context.Background(), serviceTable(), t.TempDir())
	if err != nil {
		t.Fatalf("narrator failure should not abort the run: %v", err)
	}
	if result.Narrative != "" {
		t.Errorf("narrative should be empty on failure, got %q", result.Narrative)
	}
	if result.Report == nil || !result.Report.Complete() {
		t.Error("engine report should still be complete")
	}
}

func TestProfileTable_InvalidTableAborts(t *testing.T) {
	service := NewProfileService(Deps{Runner: analysis.NewRunner(engineConfig())})
	if _, err := service.ProfileTable(context.Background(), &table.Table{}, t.TempDir()); err == nil {
		t.Fatal("expected error for invalid table")
	}
}
