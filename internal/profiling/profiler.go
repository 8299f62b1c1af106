package profiling

import (
	"github.com/montanaflynn/stats"

	"autolyze/domain/profile"
	"autolyze/domain/table"
)

// Profiler computes per-column descriptive summaries and missing counts.
// Each call recomputes from scratch; there is no incremental state.
type Profiler struct{}

// NewProfiler creates a new column profiler
func NewProfiler() *Profiler {
	return &Profiler{}
}

// ProfileTable returns one profile per column, numeric and categorical alike.
// The returned warnings flag columns whose standard deviation is undefined.
func (p *Profiler) ProfileTable(t *table.Table) ([]profile.ColumnProfile, []profile.Warning, error) {
	if err := t.Validate(); err != nil {
		return nil, nil, err
	}

	profiles := make([]profile.ColumnProfile, 0, t.ColumnCount())
	var warnings []profile.Warning
	stdUndefined := false

	for _, col := range t.Columns {
		switch col.Kind {
		case table.KindNumeric:
			cp := p.profileNumeric(col)
			if !cp.HasUsableStd() {
				stdUndefined = true
			}
			profiles = append(profiles, cp)
		default:
			profiles = append(profiles, p.profileCategorical(col))
		}
	}

	if stdUndefined {
		warnings = append(warnings, profile.WarnStdUndefined)
	}
	return profiles, warnings, nil
}

// profileNumeric summarizes a numeric column over its non-missing values
func (p *Profiler) profileNumeric(col table.Column) profile.ColumnProfile {
	values := col.NonMissing()
	cp := profile.ColumnProfile{
		Name:    col.Name,
		Kind:    table.KindNumeric,
		Count:   len(values),
		Missing: col.MissingCount(),
		Mean:    profile.UndefinedStat(),
		StdDev:  profile.UndefinedStat(),
		Min:     profile.UndefinedStat(),
		Q1:      profile.UndefinedStat(),
		Median:  profile.UndefinedStat(),
		Q3:      profile.UndefinedStat(),
		Max:     profile.UndefinedStat(),
	}
	if len(values) == 0 {
		return cp
	}

	mean, _ := stats.Mean(values)
	minimum, _ := stats.Min(values)
	maximum, _ := stats.Max(values)
	cp.Mean = profile.Stat(mean)
	cp.Min = profile.Stat(minimum)
	cp.Max = profile.Stat(maximum)

	sorted := sortedCopy(values)
	cp.Q1 = profile.Stat(percentile(sorted, 25))
	cp.Median = profile.Stat(percentile(sorted, 50))
	cp.Q3 = profile.Stat(percentile(sorted, 75))

	// Sample (N-1) deviation is undefined below 2 values
	if len(values) >= 2 {
		stdDev, _ := stats.StandardDeviationSample(values)
		cp.StdDev = profile.Stat(stdDev)
	}
	return cp
}

// profileCategorical reports the non-missing count and the modal value,
// ties broken by first occurrence in column order
func (p *Profiler) profileCategorical(col table.Column) profile.ColumnProfile {
	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	order := 0

	for _, v := range col.Labels {
		if v == "" {
			continue
		}
		if _, seen := counts[v]; !seen {
			firstSeen[v] = order
			order++
		}
		counts[v]++
	}

	top := ""
	topCount := 0
	for v, n := range counts {
		if n > topCount || (n == topCount && firstSeen[v] < firstSeen[top]) {
			top = v
			topCount = n
		}
	}

	nonMissing := len(col.Labels) - col.MissingCount()
	return profile.ColumnProfile{
		Name:     col.Name,
		Kind:     table.KindCategorical,
		Count:    nonMissing,
		Missing:  col.MissingCount(),
		TopValue: top,
		TopCount: topCount,
	}
}
