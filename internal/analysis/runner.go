package analysis

import (
	"context"
	"log"
	"sync"

	"golang.org/x/sync/errgroup"

	"autolyze/domain/core"
	"autolyze/domain/profile"
	"autolyze/domain/table"
	"autolyze/internal/cluster"
	"autolyze/internal/profiling"
)

// Config holds the caller-supplied engine parameters
type Config struct {
	Density cluster.DensityConfig `json:"density"`
}

// DefaultConfig returns the standard engine parameters
func DefaultConfig() Config {
	return Config{Density: cluster.DefaultDensityConfig()}
}

// Runner orchestrates the four analysis components over an immutable input
// table and joins their outputs into a profile report. Components share no
// mutable state, so profiling, outlier detection and the standardize+cluster
// chain run concurrently.
type Runner struct {
	config       Config
	profiler     *profiling.Profiler
	detector     *profiling.OutlierDetector
	standardizer *cluster.Standardizer
	hierarchy    *cluster.HierarchicalClusterer
}

// NewRunner creates an analysis runner with the given engine parameters
func NewRunner(config Config) *Runner {
	return &Runner{
		config:       config,
		profiler:     profiling.NewProfiler(),
		detector:     profiling.NewOutlierDetector(),
		standardizer: cluster.NewStandardizer(),
		hierarchy:    cluster.NewHierarchicalClusterer(),
	}
}

// Run profiles the table and returns the assembled report. A section that
// fails (for example on invalid clustering parameters) is recorded in
// SectionErrors and left nil; the remaining sections still complete, so
// callers always get the best partial report the input allows. Only a
// structurally invalid table aborts the run as a whole.
func (r *Runner) Run(ctx context.Context, t *table.Table) (*profile.Report, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	report := &profile.Report{
		RunID:         core.RunID(core.NewID()),
		Source:        t.Source,
		SectionErrors: make(map[string]string),
		CreatedAt:     core.Now(),
	}

	var mu sync.Mutex
	fail := func(section string, err error) {
		mu.Lock()
		defer mu.Unlock()
		report.SectionErrors[section] = err.Error()
	}
	warn := func(warnings []profile.Warning) {
		if len(warnings) == 0 {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		report.Warnings = append(report.Warnings, warnings...)
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		profiles, warnings, err := r.profiler.ProfileTable(t)
		if err != nil {
			fail(profile.SectionProfiles, err)
			return nil
		}
		warn(warnings)
		mu.Lock()
		report.Profiles = profiles
		mu.Unlock()
		return nil
	})

	g.Go(func() error {
		outliers, err := r.detector.Detect(t)
		if err != nil {
			fail(profile.SectionOutliers, err)
			return nil
		}
		mu.Lock()
		report.Outliers = outliers
		mu.Unlock()
		return nil
	})

	g.Go(func() error {
		matrix, warnings, err := r.standardizer.Standardize(t)
		if err != nil {
			fail(profile.SectionDensity, err)
			fail(profile.SectionHierarchy, err)
			return nil
		}
		warn(warnings)
		mu.Lock()
		report.Standardized = matrix
		mu.Unlock()

		// Both clusterers consume the same standardized matrix independently
		cg, _ := errgroup.WithContext(ctx)
		cg.Go(func() error {
			clusterer, err := cluster.NewDensityClusterer(r.config.Density)
			if err != nil {
				fail(profile.SectionDensity, err)
				return nil
			}
			assignment, warnings, err := clusterer.Cluster(matrix)
			if err != nil {
				fail(profile.SectionDensity, err)
				return nil
			}
			warn(warnings)
			mu.Lock()
			report.Clusters = assignment
			mu.Unlock()
			return nil
		})
		cg.Go(func() error {
			tree, warnings, err := r.hierarchy.Cluster(matrix)
			if err != nil {
				fail(profile.SectionHierarchy, err)
				return nil
			}
			warn(warnings)
			mu.Lock()
			report.Dendrogram = tree
			mu.Unlock()
			return nil
		})
		return cg.Wait()
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(report.SectionErrors) > 0 {
		log.Printf("[Runner] run %s completed with %d degraded sections", report.RunID, len(report.SectionErrors))
	}
	return report, nil
}
