package ports

import (
	"context"

	"autolyze/domain/profile"
)

// ChartSet references the rendered visualization files for one profile run
type ChartSet struct {
	CorrelationHeatmap string `json:"correlation_heatmap,omitempty"`
	ClusterScatter     string `json:"cluster_scatter,omitempty"`
	Dendrogram         string `json:"dendrogram,omitempty"`
}

// Renderer draws visualizations from a profile report. All image formats and
// file I/O are the renderer's concern; the engine supplies data only.
type Renderer interface {
	Render(ctx context.Context, report *profile.Report, outputDir string) (*ChartSet, error)
}
