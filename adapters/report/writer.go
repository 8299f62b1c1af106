package report

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"autolyze/domain/profile"
	"autolyze/domain/table"
	"autolyze/internal/errors"
	"autolyze/ports"
)

// Writer serializes the narrative and chart references into a README-style
// markdown document, optionally rendering an HTML copy alongside it
type Writer struct {
	emitHTML bool
}

var _ ports.ReportWriter = (*Writer)(nil)

// NewWriter creates a report writer. With emitHTML the markdown is also
// rendered to report.html in the same directory.
func NewWriter(emitHTML bool) *Writer {
	return &Writer{emitHTML: emitHTML}
}

// Write produces README.md in outputDir and returns its path
func (w *Writer) Write(ctx context.Context, report *profile.Report, narrative string, charts *ports.ChartSet, outputDir string) (string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", errors.Wrap(err, "failed to create output directory")
	}

	doc := w.buildMarkdown(report, narrative, charts)
	path := filepath.Join(outputDir, "README.md")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		return "", errors.Wrap(err, "failed to write report")
	}
	log.Printf("[ReportWriter] report saved to %s", path)

	if w.emitHTML {
		htmlPath := filepath.Join(outputDir, "report.html")
		if err := os.WriteFile(htmlPath, renderHTML(doc), 0o644); err != nil {
			return "", errors.Wrap(err, "failed to write HTML report")
		}
	}
	return path, nil
}

// buildMarkdown assembles the document sections
func (w *Writer) buildMarkdown(report *profile.Report, narrative string, charts *ports.ChartSet) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Dataset Analysis: %s\n\n", report.Source)
	if narrative != "" {
		b.WriteString(narrative)
		b.WriteString("\n\n")
	}

	if charts != nil {
		b.WriteString("## Visualizations\n\n")
		writeImage(&b, "Correlation Matrix", charts.CorrelationHeatmap)
		writeImage(&b, "DBSCAN Clusters", charts.ClusterScatter)
		writeImage(&b, "Hierarchical Clustering Dendrogram", charts.Dendrogram)
	}

	if len(report.Profiles) > 0 {
		b.WriteString("## Column Summary\n\n")
		b.WriteString("| Column | Kind | Count | Missing | Mean | Std Dev | Outliers |\n")
		b.WriteString("|--------|------|-------|---------|------|---------|----------|\n")
		for _, p := range report.Profiles {
			mean, stdDev, outliers := "", "", ""
			if p.Kind == table.KindNumeric {
				mean = formatStat(p.Mean)
				stdDev = formatStat(p.StdDev)
				if report.Outliers != nil {
					outliers = fmt.Sprintf("%d", report.Outliers.Count(p.Name))
				}
			}
			fmt.Fprintf(&b, "| %s | %s | %d | %d | %s | %s | %s |\n",
				p.Name, p.Kind, p.Count, p.Missing, mean, stdDev, outliers)
		}
		b.WriteString("\n")
	}

	if report.Clusters != nil {
		b.WriteString("## Clustering\n\n")
		fmt.Fprintf(&b, "Density clustering found %d clusters with %d noise rows over %d retained rows.\n",
			report.Clusters.Clusters, report.Clusters.Noise, len(report.Clusters.Labels))
		if report.Dendrogram != nil && len(report.Dendrogram.Events) > 0 {
			fmt.Fprintf(&b, "The hierarchical merge tree spans %d leaves; the final merge occurred at Ward distance %.3f.\n",
				report.Dendrogram.Leaves, report.Dendrogram.MaxDistance())
		}
		b.WriteString("\n")
	}

	if len(report.Warnings) > 0 {
		b.WriteString("## Warnings\n\n")
		for _, warning := range report.Warnings {
			fmt.Fprintf(&b, "- %s\n", warning)
		}
		b.WriteString("\n")
	}

	if len(report.SectionErrors) > 0 {
		b.WriteString("## Skipped Sections\n\n")
		for _, section := range []string{profile.SectionProfiles, profile.SectionOutliers, profile.SectionDensity, profile.SectionHierarchy} {
			if msg, ok := report.SectionErrors[section]; ok {
				fmt.Fprintf(&b, "- %s: %s\n", section, msg)
			}
		}
		b.WriteString("\n")
	}

	return b.String()
}

func writeImage(b *strings.Builder, title, path string) {
	if path == "" {
		return
	}
	fmt.Fprintf(b, "![%s](%s)\n\n", title, filepath.Base(path))
}

func formatStat(v profile.Stat) string {
	if v.Undefined() {
		return "n/a"
	}
	return fmt.Sprintf("%.4g", v.Float())
}

// renderHTML converts the markdown document to a standalone HTML page
func renderHTML(doc string) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Tables)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.CompletePage})
	return markdown.Render(p.Parse([]byte(doc)), renderer)
}
