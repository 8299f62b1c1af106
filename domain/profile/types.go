package profile

import (
	"autolyze/domain/core"
	"autolyze/domain/table"
)

// ColumnProfile holds the descriptive summary for one column. Numeric columns
// carry the full summary block; categorical columns carry only the non-missing
// count and the modal value. StdDev is NaN when fewer than 2 non-missing
// values exist.
type ColumnProfile struct {
	Name    string           `json:"name"`
	Kind    table.ColumnKind `json:"kind"`
	Count   int              `json:"count"`
	Missing int              `json:"missing"`

	// Numeric summary
	Mean   Stat `json:"mean,omitempty"`
	StdDev Stat `json:"std_dev,omitempty"`
	Min    Stat `json:"min,omitempty"`
	Q1     Stat `json:"q1,omitempty"`
	Median Stat `json:"median,omitempty"`
	Q3     Stat `json:"q3,omitempty"`
	Max    Stat `json:"max,omitempty"`

	// Categorical summary
	TopValue string `json:"top_value,omitempty"`
	TopCount int    `json:"top_count,omitempty"`
}

// OutlierSummary reports the IQR fence and outlier count for one numeric
// column. Q1/Q3 are NaN when the column has no non-missing values.
type OutlierSummary struct {
	Column string `json:"column"`
	Q1     Stat   `json:"q1"`
	Q3     Stat   `json:"q3"`
	Lower  Stat   `json:"lower"`
	Upper  Stat   `json:"upper"`
	Count  int    `json:"count"`
}

// OutlierReport maps numeric columns to their outlier summaries, in column
// declaration order
type OutlierReport struct {
	Columns []OutlierSummary `json:"columns"`
}

// Count returns the outlier count for a column, 0 if the column is unknown
func (r *OutlierReport) Count(column string) int {
	for _, s := range r.Columns {
		if s.Column == column {
			return s.Count
		}
	}
	return 0
}

// StandardizedMatrix is the numeric subspace with missing rows dropped and
// every column rescaled to mean 0 / variance 1. SourceRows maps each retained
// row back to its original table row index.
type StandardizedMatrix struct {
	Columns    []string    `json:"columns"`
	Rows       [][]float64 `json:"rows"`
	SourceRows []int       `json:"source_rows"`
}

// RowCount returns the number of retained rows
func (m *StandardizedMatrix) RowCount() int {
	return len(m.Rows)
}

// Dims returns the number of standardized features
func (m *StandardizedMatrix) Dims() int {
	return len(m.Columns)
}

// NoiseLabel marks rows reachable from no core point
const NoiseLabel = -1

// ClusterAssignment is one label per retained row. Labels >= 0 denote cluster
// membership; only equality within the assignment carries meaning.
type ClusterAssignment struct {
	Labels   []int `json:"labels"`
	Clusters int   `json:"clusters"`
	Noise    int   `json:"noise"`
}

// MergeEvent records one agglomerative merge. Left and Right reference
// earlier cluster ids: ids < leaf count are original rows, ids >= leaf count
// refer to the result of event id-leafCount.
type MergeEvent struct {
	Left     int     `json:"left"`
	Right    int     `json:"right"`
	Distance float64 `json:"distance"`
	Size     int     `json:"size"`
}

// MergeTree is the strict binary merge tree over the retained rows: exactly
// Leaves-1 events with non-decreasing Ward distances.
type MergeTree struct {
	Leaves int          `json:"leaves"`
	Events []MergeEvent `json:"events"`
}

// MaxDistance returns the dissimilarity of the final merge, 0 for an empty tree
func (t *MergeTree) MaxDistance() float64 {
	if len(t.Events) == 0 {
		return 0
	}
	return t.Events[len(t.Events)-1].Distance
}

// Warning flags a degraded-but-defined output section
type Warning string

const (
	WarnStdUndefined   Warning = "std_dev undefined for columns with fewer than 2 values"
	WarnAllNoise       Warning = "too few rows for density clustering, all rows labeled noise"
	WarnEmptyMergeTree Warning = "too few rows for hierarchical clustering, merge tree is empty"
	WarnNoNumericData  Warning = "no numeric columns, clustering skipped"
)

// Report is the immutable bundle handed to rendering, narrative and
// persistence collaborators. Sections that failed are nil, with the failure
// recorded in SectionErrors so callers can assemble partial reports.
type Report struct {
	RunID  core.RunID `json:"run_id"`
	Source string     `json:"source"`

	Profiles     []ColumnProfile     `json:"profiles,omitempty"`
	Outliers     *OutlierReport      `json:"outliers,omitempty"`
	Standardized *StandardizedMatrix `json:"standardized,omitempty"`
	Clusters     *ClusterAssignment  `json:"clusters,omitempty"`
	Dendrogram   *MergeTree          `json:"dendrogram,omitempty"`

	Warnings      []Warning         `json:"warnings,omitempty"`
	SectionErrors map[string]string `json:"section_errors,omitempty"`

	CreatedAt core.Timestamp `json:"created_at"`
}

// Report section names used in SectionErrors
const (
	SectionProfiles  = "profiles"
	SectionOutliers  = "outliers"
	SectionDensity   = "density"
	SectionHierarchy = "hierarchy"
)

// Complete reports whether every section is present
func (r *Report) Complete() bool {
	return r.Profiles != nil && r.Outliers != nil &&
		r.Clusters != nil && r.Dendrogram != nil && len(r.SectionErrors) == 0
}

// NumericProfiles filters the column profiles down to numeric columns
func (r *Report) NumericProfiles() []ColumnProfile {
	numeric := make([]ColumnProfile, 0, len(r.Profiles))
	for _, p := range r.Profiles {
		if p.Kind == table.KindNumeric {
			numeric = append(numeric, p)
		}
	}
	return numeric
}

// HasUsableStd reports whether the profile's std deviation is defined
func (p ColumnProfile) HasUsableStd() bool {
	return !p.StdDev.Undefined() && p.Count >= 2
}
