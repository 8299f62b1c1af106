package cluster

import (
	"errors"
	"testing"

	"autolyze/domain/core"
	"autolyze/domain/profile"
)

// twoBlobs holds two tight groups of three points far apart in 2-D
func twoBlobs() *profile.StandardizedMatrix {
	return &profile.StandardizedMatrix{
		Columns: []string{"x", "y"},
		Rows: [][]float64{
			{0, 0}, {0.1, 0}, {0, 0.1},
			{5, 5}, {5.1, 5}, {5, 5.1},
		},
		SourceRows: []int{0, 1, 2, 3, 4, 5},
	}
}

func TestDensityConfig_Validate(t *testing.T) {
	if err := DefaultDensityConfig().Validate(); err != nil {
		t.Fatalf("default config should validate, got %v", err)
	}
	if err := (DensityConfig{Epsilon: 0, MinPoints: 5}).Validate(); !errors.Is(err, core.ErrInvalidEpsilon) {
		t.Errorf("zero epsilon: got %v, want ErrInvalidEpsilon", err)
	}
	if err := (DensityConfig{Epsilon: -1, MinPoints: 5}).Validate(); !errors.Is(err, core.ErrInvalidEpsilon) {
		t.Errorf("negative epsilon: got %v, want ErrInvalidEpsilon", err)
	}
	if err := (DensityConfig{Epsilon: 0.5, MinPoints: 0}).Validate(); !errors.Is(err, core.ErrInvalidMinPts) {
		t.Errorf("zero minPts: got %v, want ErrInvalidMinPts", err)
	}
}

func TestNewDensityClusterer_RejectsBadConfig(t *testing.T) {
	if _, err := NewDensityClusterer(DensityConfig{Epsilon: -1, MinPoints: 3}); err == nil {
		t.Fatal("expected config error")
	}
}

func TestCluster_TwoSeparatedBlobs(t *testing.T) {
	dc, err := NewDensityClusterer(DensityConfig{Epsilon: 0.5, MinPoints: 3})
	if err != nil {
		t.Fatalf("new clusterer: %v", err)
	}

	assignment, warnings, err := dc.Cluster(twoBlobs())
	if err != nil {
		t.Fatalf("cluster failed: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
	if assignment.Clusters != 2 {
		t.Errorf("clusters = %d, want 2", assignment.Clusters)
	}
	if assignment.Noise != 0 {
		t.Errorf("noise = %d, want 0", assignment.Noise)
	}

	// Members of each blob share a label, across blobs they differ
	labels := assignment.Labels
	if labels[0] != labels[1] || labels[1] != labels[2] {
		t.Errorf("first blob split: %v", labels[:3])
	}
	if labels[3] != labels[4] || labels[4] != labels[5] {
		t.Errorf("second blob split: %v", labels[3:])
	}
	if labels[0] == labels[3] {
		t.Errorf("blobs merged: %v", labels)
	}
}

func TestCluster_Deterministic(t *testing.T) {
	dc, err := NewDensityClusterer(DensityConfig{Epsilon: 0.5, MinPoints: 3})
	if err != nil {
		t.Fatalf("new clusterer: %v", err)
	}

	first, _, err := dc.Cluster(twoBlobs())
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, _, err := dc.Cluster(twoBlobs())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	for i := range first.Labels {
		if first.Labels[i] != second.Labels[i] {
			t.Fatalf("labels diverge at row %d: %v vs %v", i, first.Labels, second.Labels)
		}
	}
}

func TestCluster_TooFewRowsIsAllNoise(t *testing.T) {
	m := &profile.StandardizedMatrix{
		Columns:    []string{"x"},
		Rows:       [][]float64{{0}, {0.01}, {0.02}},
		SourceRows: []int{0, 1, 2},
	}

	dc, err := NewDensityClusterer(DefaultDensityConfig())
	if err != nil {
		t.Fatalf("new clusterer: %v", err)
	}

	assignment, warnings, err := dc.Cluster(m)
	if err != nil {
		t.Fatalf("cluster failed: %v", err)
	}
	if assignment.Clusters != 0 || assignment.Noise != 3 {
		t.Errorf("got %d clusters / %d noise, want 0/3", assignment.Clusters, assignment.Noise)
	}
	for i, l := range assignment.Labels {
		if l != profile.NoiseLabel {
			t.Errorf("label %d = %d, want noise", i, l)
		}
	}

	found := false
	for _, w := range warnings {
		if w == profile.WarnAllNoise {
			found = true
		}
	}
	if !found {
		t.Errorf("expected %s warning, got %v", profile.WarnAllNoise, warnings)
	}
}

func TestCluster_IsolatedPointIsNoise(t *testing.T) {
	m := twoBlobs()
	m.Rows = append(m.Rows, []float64{100, 100})
	m.SourceRows = append(m.SourceRows, 6)

	dc, err := NewDensityClusterer(DensityConfig{Epsilon: 0.5, MinPoints: 3})
	if err != nil {
		t.Fatalf("new clusterer: %v", err)
	}

	assignment, _, err := dc.Cluster(m)
	if err != nil {
		t.Fatalf("cluster failed: %v", err)
	}
	if assignment.Clusters != 2 || assignment.Noise != 1 {
		t.Errorf("got %d clusters / %d noise, want 2/1", assignment.Clusters, assignment.Noise)
	}
	if last := assignment.Labels[6]; last != profile.NoiseLabel {
		t.Errorf("isolated point labeled %d, want noise", last)
	}
}
