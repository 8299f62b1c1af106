package ports

import (
	"context"

	"autolyze/domain/profile"
)

// Narrator produces a prose narrative from a profile report and its rendered
// charts, typically by calling a remote text-generation service
type Narrator interface {
	Narrate(ctx context.Context, report *profile.Report, charts *ChartSet) (string, error)
}
