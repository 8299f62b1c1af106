package render

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"autolyze/domain/profile"
	"autolyze/internal/errors"
	"autolyze/ports"
)

// ChartRenderer draws the three standard visualizations for a profile run:
// correlation heatmap, cluster scatter plot and dendrogram. It is a pure
// consumer of the report and owns all image file I/O.
type ChartRenderer struct{}

var _ ports.Renderer = (*ChartRenderer)(nil)

// NewChartRenderer creates a new chart renderer
func NewChartRenderer() *ChartRenderer {
	return &ChartRenderer{}
}

// Render writes the charts the report's sections allow into outputDir and
// returns their paths. Sections missing from a partial report are skipped.
func (r *ChartRenderer) Render(ctx context.Context, report *profile.Report, outputDir string) (*ports.ChartSet, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, errors.Wrap(err, "failed to create output directory")
	}

	charts := &ports.ChartSet{}

	if report.Standardized != nil && report.Standardized.Dims() > 1 {
		path := filepath.Join(outputDir, "correlation_matrix.png")
		if err := r.renderHeatmap(report.Standardized, path); err != nil {
			return nil, errors.Wrap(err, "failed to render correlation heatmap")
		}
		charts.CorrelationHeatmap = path
	}

	if report.Standardized != nil && report.Clusters != nil && report.Standardized.Dims() > 1 {
		path := filepath.Join(outputDir, "dbscan_clusters.png")
		if err := r.renderScatter(report.Standardized, report.Clusters, path); err != nil {
			return nil, errors.Wrap(err, "failed to render cluster scatter")
		}
		charts.ClusterScatter = path
	}

	if report.Dendrogram != nil && len(report.Dendrogram.Events) > 0 {
		path := filepath.Join(outputDir, "hierarchical_clustering.png")
		if err := r.renderDendrogram(report.Dendrogram, path); err != nil {
			return nil, errors.Wrap(err, "failed to render dendrogram")
		}
		charts.Dendrogram = path
	}

	log.Printf("[ChartRenderer] run %s charts written to %s", report.RunID, outputDir)
	return charts, nil
}

// corrGrid adapts a correlation matrix to the heatmap grid interface
type corrGrid struct {
	names []string
	corr  [][]float64
}

func (g corrGrid) Dims() (c, r int)   { return len(g.names), len(g.names) }
func (g corrGrid) Z(c, r int) float64 { return g.corr[r][c] }
func (g corrGrid) X(c int) float64    { return float64(c) }
func (g corrGrid) Y(r int) float64    { return float64(r) }

// CorrelationMatrix computes the pairwise Pearson correlations between the
// standardized feature columns
func CorrelationMatrix(m *profile.StandardizedMatrix) [][]float64 {
	dims := m.Dims()
	cols := make([][]float64, dims)
	for j := 0; j < dims; j++ {
		cols[j] = make([]float64, m.RowCount())
		for i, row := range m.Rows {
			cols[j][i] = row[j]
		}
	}

	corr := make([][]float64, dims)
	for i := range corr {
		corr[i] = make([]float64, dims)
		corr[i][i] = 1
	}
	for i := 0; i < dims; i++ {
		for j := i + 1; j < dims; j++ {
			c := stat.Correlation(cols[i], cols[j], nil)
			corr[i][j] = c
			corr[j][i] = c
		}
	}
	return corr
}

// renderHeatmap draws the correlation matrix of the numeric features
func (r *ChartRenderer) renderHeatmap(m *profile.StandardizedMatrix, path string) error {
	p := plot.New()
	p.Title.Text = "Correlation Matrix"

	grid := corrGrid{names: m.Columns, corr: CorrelationMatrix(m)}
	heatmap := plotter.NewHeatMap(grid, moreland.SmoothBlueRed().Palette(255))
	heatmap.Min = -1
	heatmap.Max = 1
	p.Add(heatmap)

	return p.Save(8*vg.Inch, 6*vg.Inch, path)
}

// renderScatter draws the first two standardized features colored by density
// cluster label, noise included as its own series
func (r *ChartRenderer) renderScatter(m *profile.StandardizedMatrix, clusters *profile.ClusterAssignment, path string) error {
	p := plot.New()
	p.Title.Text = "DBSCAN Clustering"
	p.X.Label.Text = m.Columns[0]
	p.Y.Label.Text = m.Columns[1]

	groups := make(map[int]plotter.XYs)
	for i, label := range clusters.Labels {
		groups[label] = append(groups[label], plotter.XY{X: m.Rows[i][0], Y: m.Rows[i][1]})
	}

	// Noise first, then clusters in ascending label order for a stable legend
	order := []int{profile.NoiseLabel}
	for label := 0; label < clusters.Clusters; label++ {
		order = append(order, label)
	}

	for seriesIdx, label := range order {
		xys, ok := groups[label]
		if !ok {
			continue
		}
		scatter, err := plotter.NewScatter(xys)
		if err != nil {
			return err
		}
		scatter.GlyphStyle.Color = plotutil.Color(seriesIdx)
		p.Add(scatter)

		name := fmt.Sprintf("cluster %d", label)
		if label == profile.NoiseLabel {
			name = "noise"
		}
		p.Legend.Add(name, scatter)
	}

	return p.Save(8*vg.Inch, 6*vg.Inch, path)
}

// renderDendrogram draws the merge tree as nested brackets, leaves on the
// x axis and Ward distance on the y axis
func (r *ChartRenderer) renderDendrogram(tree *profile.MergeTree, path string) error {
	p := plot.New()
	p.Title.Text = "Hierarchical Clustering Dendrogram"
	p.Y.Label.Text = "Ward distance"

	for _, bracket := range layoutDendrogram(tree) {
		line, err := plotter.NewLine(bracket)
		if err != nil {
			return err
		}
		line.Color = plotutil.Color(0)
		p.Add(line)
	}

	return p.Save(10*vg.Inch, 7*vg.Inch, path)
}
