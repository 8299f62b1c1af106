package report

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autolyze/domain/profile"
	"autolyze/domain/table"
	"autolyze/ports"
)

func sampleReport() *profile.Report {
	return &profile.Report{
		Source: "people.csv",
		Profiles: []profile.ColumnProfile{
			{Name: "age", Kind: table.KindNumeric, Count: 5, Missing: 0, Mean: 57.2, StdDev: 79.8355},
			{Name: "city", Kind: table.KindCategorical, Count: 5, Missing: 0, TopValue: "Oslo", TopCount: 3},
		},
		Outliers: &profile.OutlierReport{
			Columns: []profile.OutlierSummary{{Column: "age", Count: 1}},
		},
		Clusters: &profile.ClusterAssignment{
			Labels:   []int{0, 0, 0, 1, 1},
			Clusters: 2,
			Noise:    0,
		},
		Dendrogram: &profile.MergeTree{
			Leaves: 5,
			Events: []profile.MergeEvent{
				{Left: 0, Right: 1, Distance: 0.2, Size: 2},
				{Left: 2, Right: 5, Distance: 0.4, Size: 3},
				{Left: 3, Right: 4, Distance: 0.5, Size: 2},
				{Left: 6, Right: 7, Distance: 3.1, Size: 5},
			},
		},
	}
}

func TestWrite_Markdown(t *testing.T) {
	dir := t.TempDir()
	charts := &ports.ChartSet{
		CorrelationHeatmap: filepath.Join(dir, "correlation_matrix.png"),
		ClusterScatter:     filepath.Join(dir, "dbscan_clusters.png"),
	}

	path, err := NewWriter(false).Write(context.Background(), sampleReport(), "Once upon a dataset.", charts, dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "README.md"), path)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	doc := string(raw)

	assert.Contains(t, doc, "# Dataset Analysis: people.csv")
	assert.Contains(t, doc, "Once upon a dataset.")
	assert.Contains(t, doc, "![Correlation Matrix](correlation_matrix.png)")
	assert.Contains(t, doc, "![DBSCAN Clusters](dbscan_clusters.png)")
	assert.NotContains(t, doc, "Dendrogram](")
	assert.Contains(t, doc, "| age | numeric | 5 | 0 | 57.2 | 79.84 | 1 |")
	assert.Contains(t, doc, "found 2 clusters with 0 noise rows")
	assert.Contains(t, doc, "Ward distance 3.100")
}

func TestWrite_CategoricalRowsHaveNoStats(t *testing.T) {
	dir := t.TempDir()
	path, err := NewWriter(false).Write(context.Background(), sampleReport(), "", nil, dir)
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "| city | categorical | 5 | 0 |  |  |  |")
}

func TestWrite_UndefinedStatsRenderAsNA(t *testing.T) {
	report := &profile.Report{
		Source: "thin.csv",
		Profiles: []profile.ColumnProfile{
			{Name: "x", Kind: table.KindNumeric, Count: 1, Mean: 7, StdDev: profile.UndefinedStat()},
		},
	}

	dir := t.TempDir()
	path, err := NewWriter(false).Write(context.Background(), report, "", nil, dir)
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "n/a")
}

func TestWrite_SkippedSectionsListed(t *testing.T) {
	report := sampleReport()
	report.Clusters = nil
	report.SectionErrors = map[string]string{profile.SectionDensity: "epsilon must be positive"}
	report.Warnings = []profile.Warning{profile.WarnAllNoise}

	dir := t.TempDir()
	path, err := NewWriter(false).Write(context.Background(), report, "", nil, dir)
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	doc := string(raw)
	assert.Contains(t, doc, "## Skipped Sections")
	assert.Contains(t, doc, "epsilon must be positive")
	assert.Contains(t, doc, "## Warnings")
}

func TestWrite_EmitHTML(t *testing.T) {
	dir := t.TempDir()
	_, err := NewWriter(true).Write(context.Background(), sampleReport(), "Narrative.", nil, dir)
	require.NoError(t, err)

	raw, err := os.ReadFile(filepath.Join(dir, "report.html"))
	require.NoError(t, err)
	html := string(raw)
	assert.Contains(t, html, "<table>")
	assert.Contains(t, html, "Dataset Analysis: people.csv")
}
