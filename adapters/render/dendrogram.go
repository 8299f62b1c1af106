package render

import (
	"gonum.org/v1/plot/plotter"

	"autolyze/domain/profile"
)

// layoutDendrogram converts the merge tree into one four-point bracket per
// merge event: up from each child's height, across at the merge distance.
// Leaf x positions follow a depth-first walk of the final tree so sibling
// subtrees never cross.
func layoutDendrogram(tree *profile.MergeTree) []plotter.XYs {
	n := tree.Leaves
	if len(tree.Events) == 0 {
		return nil
	}

	// x coordinate and bracket height per cluster id; ids < n are leaves,
	// id n+k is the result of event k
	x := make([]float64, n+len(tree.Events))
	height := make([]float64, n+len(tree.Events))

	// Depth-first leaf ordering from the final merge
	root := n + len(tree.Events) - 1
	position := 0.0
	stack := []int{root}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if id < n {
			x[id] = position
			position++
			continue
		}
		event := tree.Events[id-n]
		// Right pushed first so the left subtree is walked first
		stack = append(stack, event.Right, event.Left)
	}

	// Children always carry smaller ids than their parent, so one ascending
	// pass resolves every internal position
	brackets := make([]plotter.XYs, 0, len(tree.Events))
	for k, event := range tree.Events {
		id := n + k
		x[id] = (x[event.Left] + x[event.Right]) / 2
		height[id] = event.Distance

		brackets = append(brackets, plotter.XYs{
			{X: x[event.Left], Y: height[event.Left]},
			{X: x[event.Left], Y: event.Distance},
			{X: x[event.Right], Y: event.Distance},
			{X: x[event.Right], Y: height[event.Right]},
		})
	}
	return brackets
}
