package ports

import (
	"context"

	"autolyze/domain/table"
)

// TableReader turns an external data source into a typed Table. Encoding and
// format detection live entirely behind this boundary; the engine only ever
// sees materialized rows and typed columns.
type TableReader interface {
	ReadTable(ctx context.Context, path string) (*table.Table, error)
}
