package cluster

import (
	"gonum.org/v1/gonum/floats"

	"autolyze/domain/core"
	"autolyze/domain/profile"
)

// Default density parameters, matching the legacy profiling tool
const (
	DefaultEpsilon   = 0.5
	DefaultMinPoints = 5
)

// DensityConfig holds the DBSCAN hyperparameters. They are caller-supplied
// and never chosen adaptively.
type DensityConfig struct {
	Epsilon   float64 `json:"epsilon"`
	MinPoints int     `json:"min_points"`
}

// DefaultDensityConfig returns the standard eps/minPts pairing
func DefaultDensityConfig() DensityConfig {
	return DensityConfig{Epsilon: DefaultEpsilon, MinPoints: DefaultMinPoints}
}

// Validate fails fast on invalid parameters, never silently clamps
func (c DensityConfig) Validate() error {
	if c.Epsilon <= 0 {
		return core.ErrInvalidEpsilon
	}
	if c.MinPoints < 1 {
		return core.ErrInvalidMinPts
	}
	return nil
}

// DensityClusterer partitions standardized rows into density-connected
// clusters plus noise. Label values are arbitrary small integers assigned in
// discovery order; the partition itself is deterministic for identical input
// order and parameters because expansion walks an index-ordered frontier,
// never a map.
type DensityClusterer struct {
	config DensityConfig
}

// NewDensityClusterer creates a density clusterer, validating the config first
func NewDensityClusterer(config DensityConfig) (*DensityClusterer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &DensityClusterer{config: config}, nil
}

const unassigned = -2

// Cluster labels every retained row of the matrix. Fewer rows than
// minPts+1 yields an all-noise assignment rather than an error.
func (dc *DensityClusterer) Cluster(m *profile.StandardizedMatrix) (*profile.ClusterAssignment, []profile.Warning, error) {
	n := m.RowCount()
	labels := make([]int, n)

	if n < dc.config.MinPoints+1 {
		for i := range labels {
			labels[i] = profile.NoiseLabel
		}
		return &profile.ClusterAssignment{Labels: labels, Noise: n},
			[]profile.Warning{profile.WarnAllNoise}, nil
	}

	neighbors := dc.neighborhoods(m)
	isCore := make([]bool, n)
	for i := range neighbors {
		// A point's neighborhood includes itself
		isCore[i] = len(neighbors[i]) >= dc.config.MinPoints
	}

	for i := range labels {
		labels[i] = unassigned
	}

	cluster := 0
	for seed := 0; seed < n; seed++ {
		if labels[seed] != unassigned || !isCore[seed] {
			continue
		}
		labels[seed] = cluster
		frontier := []int{seed}
		for len(frontier) > 0 {
			p := frontier[0]
			frontier = frontier[1:]
			for _, q := range neighbors[p] {
				if labels[q] != unassigned {
					continue
				}
				labels[q] = cluster
				if isCore[q] {
					frontier = append(frontier, q)
				}
			}
		}
		cluster++
	}

	noise := 0
	for i := range labels {
		if labels[i] == unassigned {
			labels[i] = profile.NoiseLabel
		}
		if labels[i] == profile.NoiseLabel {
			noise++
		}
	}

	return &profile.ClusterAssignment{Labels: labels, Clusters: cluster, Noise: noise}, nil, nil
}

// neighborhoods precomputes the eps-neighborhood of every row by brute-force
// pairwise distance, each list in ascending row order. Quadratic, which is
// acceptable at the row counts this engine targets.
func (dc *DensityClusterer) neighborhoods(m *profile.StandardizedMatrix) [][]int {
	n := m.RowCount()
	neighbors := make([][]int, n)
	diff := make([]float64, m.Dims())
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			floats.SubTo(diff, m.Rows[i], m.Rows[j])
			if floats.Norm(diff, 2) <= dc.config.Epsilon {
				neighbors[i] = append(neighbors[i], j)
			}
		}
	}
	return neighbors
}
