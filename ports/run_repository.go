package ports

import (
	"context"

	"autolyze/domain/core"
	"autolyze/domain/profile"
)

// RunSummary is the lightweight listing view of a stored profile run
type RunSummary struct {
	ID        core.RunID     `json:"id"`
	Source    string         `json:"source"`
	Columns   int            `json:"columns"`
	Complete  bool           `json:"complete"`
	CreatedAt core.Timestamp `json:"created_at"`
}

// RunRepository persists completed profile runs
type RunRepository interface {
	Save(ctx context.Context, report *profile.Report) error
	GetByID(ctx context.Context, id core.RunID) (*profile.Report, error)
	List(ctx context.Context, limit, offset int) ([]RunSummary, error)
}
