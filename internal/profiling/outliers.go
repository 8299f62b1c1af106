package profiling

import (
	"autolyze/domain/profile"
	"autolyze/domain/table"
)

// fenceMultiplier is the classic Tukey fence width in IQR units
const fenceMultiplier = 1.5

// OutlierDetector flags values outside the robust quartile fence. The method
// is intentionally univariate and order-independent; it does not account for
// cross-column correlation.
type OutlierDetector struct{}

// NewOutlierDetector creates a new IQR outlier detector
func NewOutlierDetector() *OutlierDetector {
	return &OutlierDetector{}
}

// Detect returns an outlier report restricted to numeric columns. A value is
// an outlier iff it lies strictly below Q1-1.5*IQR or strictly above
// Q3+1.5*IQR. Missing values are excluded and never counted.
func (d *OutlierDetector) Detect(t *table.Table) (*profile.OutlierReport, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	report := &profile.OutlierReport{}
	for _, col := range t.NumericColumns() {
		report.Columns = append(report.Columns, d.detectColumn(col))
	}
	return report, nil
}

// detectColumn computes the fence and count for one numeric column
func (d *OutlierDetector) detectColumn(col table.Column) profile.OutlierSummary {
	values := col.NonMissing()
	summary := profile.OutlierSummary{
		Column: col.Name,
		Q1:     profile.UndefinedStat(),
		Q3:     profile.UndefinedStat(),
		Lower:  profile.UndefinedStat(),
		Upper:  profile.UndefinedStat(),
	}
	if len(values) == 0 {
		return summary
	}

	sorted := sortedCopy(values)
	q1 := percentile(sorted, 25)
	q3 := percentile(sorted, 75)
	iqr := q3 - q1
	lower := q1 - fenceMultiplier*iqr
	upper := q3 + fenceMultiplier*iqr

	summary.Q1 = profile.Stat(q1)
	summary.Q3 = profile.Stat(q3)
	summary.Lower = profile.Stat(lower)
	summary.Upper = profile.Stat(upper)

	for _, v := range values {
		if v < lower || v > upper {
			summary.Count++
		}
	}
	return summary
}
