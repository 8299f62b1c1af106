package cluster

import (
	"gonum.org/v1/gonum/stat"

	"autolyze/domain/profile"
	"autolyze/domain/table"
)

// Standardizer rescales the numeric subspace to zero mean / unit variance,
// the shared precondition for both clustering components.
type Standardizer struct{}

// NewStandardizer creates a new standardizer
func NewStandardizer() *Standardizer {
	return &Standardizer{}
}

// Standardize drops any row with a missing value in any numeric column, then
// z-scores each remaining column using its own mean and sample deviation over
// the retained rows. Constant columns standardize to 0 for every row rather
// than dividing by zero. SourceRows preserves the original row indices so
// cluster labels can be mapped back.
func (s *Standardizer) Standardize(t *table.Table) (*profile.StandardizedMatrix, []profile.Warning, error) {
	if err := t.Validate(); err != nil {
		return nil, nil, err
	}

	numeric := t.NumericColumns()
	if len(numeric) == 0 {
		return &profile.StandardizedMatrix{}, []profile.Warning{profile.WarnNoNumericData}, nil
	}

	names := make([]string, len(numeric))
	for i, col := range numeric {
		names[i] = col.Name
	}

	// Row-wise drop: any missing numeric cell removes the whole row
	var sourceRows []int
	for row := 0; row < t.RowCount(); row++ {
		complete := true
		for _, col := range numeric {
			if table.IsMissing(col.Numbers[row]) {
				complete = false
				break
			}
		}
		if complete {
			sourceRows = append(sourceRows, row)
		}
	}

	rows := make([][]float64, len(sourceRows))
	for i, src := range sourceRows {
		rows[i] = make([]float64, len(numeric))
		for j, col := range numeric {
			rows[i][j] = col.Numbers[src]
		}
	}

	// Column-wise z-score over the retained rows
	colValues := make([]float64, len(sourceRows))
	for j := range numeric {
		for i := range rows {
			colValues[i] = rows[i][j]
		}
		mean, std := stat.MeanStdDev(colValues, nil)
		for i := range rows {
			if std > 0 {
				rows[i][j] = (rows[i][j] - mean) / std
			} else {
				rows[i][j] = 0
			}
		}
	}

	return &profile.StandardizedMatrix{
		Columns:    names,
		Rows:       rows,
		SourceRows: sourceRows,
	}, nil, nil
}
