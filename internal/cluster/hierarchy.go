package cluster

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"autolyze/domain/profile"
)

// HierarchicalClusterer builds a binary merge tree over standardized rows
// using minimum-variance (Ward) linkage. Cost is quadratic in memory and
// cubic in time over the retained row count; that is a documented scaling
// limit of agglomerative clustering, not a defect.
type HierarchicalClusterer struct{}

// NewHierarchicalClusterer creates a Ward-linkage clusterer
func NewHierarchicalClusterer() *HierarchicalClusterer {
	return &HierarchicalClusterer{}
}

// wardNode is one active cluster during agglomeration
type wardNode struct {
	id   int
	size int
}

// Cluster produces the merge tree: exactly N-1 events for N rows, each
// referencing two prior cluster ids (ids < N are original rows, id N+k is the
// result of event k) and the Ward distance at which they merged. Fewer than 2
// rows degrades to an empty tree. Ties between equally scored candidate pairs
// break toward the lexicographically lowest (left id, right id) pair.
func (hc *HierarchicalClusterer) Cluster(m *profile.StandardizedMatrix) (*profile.MergeTree, []profile.Warning, error) {
	n := m.RowCount()
	tree := &profile.MergeTree{Leaves: n}
	if n < 2 {
		return tree, []profile.Warning{profile.WarnEmptyMergeTree}, nil
	}

	// Active clusters and their pairwise squared Ward distances. For
	// singletons the Ward distance equals the Euclidean distance, so the
	// matrix starts as plain squared distances.
	nodes := make([]wardNode, n)
	for i := range nodes {
		nodes[i] = wardNode{id: i, size: 1}
	}
	dist := hc.squaredDistances(m)

	nextID := n
	for len(nodes) > 1 {
		a, b := hc.closestPair(nodes, dist)

		merged := wardNode{id: nextID, size: nodes[a].size + nodes[b].size}
		event := profile.MergeEvent{
			Left:     min(nodes[a].id, nodes[b].id),
			Right:    max(nodes[a].id, nodes[b].id),
			Distance: math.Sqrt(dist[a][b]),
			Size:     merged.size,
		}
		tree.Events = append(tree.Events, event)

		// Lance-Williams update of squared Ward distances against every
		// surviving cluster, written into slot a
		ni := float64(nodes[a].size)
		nj := float64(nodes[b].size)
		dij := dist[a][b]
		for k := range nodes {
			if k == a || k == b {
				continue
			}
			nk := float64(nodes[k].size)
			d := ((ni+nk)*dist[a][k] + (nj+nk)*dist[b][k] - nk*dij) / (ni + nj + nk)
			dist[a][k] = d
			dist[k][a] = d
		}
		nodes[a] = merged

		// Drop slot b from the active set and the matrix
		nodes = append(nodes[:b], nodes[b+1:]...)
		dist = append(dist[:b], dist[b+1:]...)
		for i := range dist {
			dist[i] = append(dist[i][:b], dist[i][b+1:]...)
		}
		nextID++
	}

	return tree, nil, nil
}

// closestPair scans the active matrix for the minimum squared Ward distance.
// Equal scores resolve to the pair with the lowest cluster ids so repeated
// runs on identical input produce identical trees.
func (hc *HierarchicalClusterer) closestPair(nodes []wardNode, dist [][]float64) (int, int) {
	bestA, bestB := 0, 1
	best := math.Inf(1)
	for a := 0; a < len(nodes); a++ {
		for b := a + 1; b < len(nodes); b++ {
			d := dist[a][b]
			if d < best || (d == best && hc.lowerPair(nodes[a], nodes[b], nodes[bestA], nodes[bestB])) {
				best = d
				bestA, bestB = a, b
			}
		}
	}
	return bestA, bestB
}

// lowerPair reports whether (x, y) sorts before (u, v) by cluster id
func (hc *HierarchicalClusterer) lowerPair(x, y, u, v wardNode) bool {
	xl, xr := min(x.id, y.id), max(x.id, y.id)
	ul, ur := min(u.id, v.id), max(u.id, v.id)
	if xl != ul {
		return xl < ul
	}
	return xr < ur
}

// squaredDistances builds the full pairwise squared Euclidean matrix
func (hc *HierarchicalClusterer) squaredDistances(m *profile.StandardizedMatrix) [][]float64 {
	n := m.RowCount()
	dist := make([][]float64, n)
	diff := make([]float64, m.Dims())
	for i := range dist {
		dist[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			floats.SubTo(diff, m.Rows[i], m.Rows[j])
			d := floats.Dot(diff, diff)
			dist[i][j] = d
			dist[j][i] = d
		}
	}
	return dist
}
