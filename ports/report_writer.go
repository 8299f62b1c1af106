package ports

import (
	"context"

	"autolyze/domain/profile"
)

// ReportWriter serializes the narrative plus chart references into a
// human-readable document on disk
type ReportWriter interface {
	Write(ctx context.Context, report *profile.Report, narrative string, charts *ChartSet, outputDir string) (string, error)
}
