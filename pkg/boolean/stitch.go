package boolean

import (
	"fmt"

	"github.com/chazu/xylem/pkg/topo"
)

// stitch sews the selected faces into shells. Faces sharing an edge
// body belong to the same shell; union-find over the shared edges
// separates the connected components.
func stitch(faces []*topo.Face) ([]*topo.Shell, error) {
	parent := make([]int, len(faces))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}
	union := func(i, j int) {
		ri, rj := find(i), find(j)
		if ri != rj {
			parent[ri] = rj
		}
	}

	owner := make(map[*topo.Edge]int)
	for i, f := range faces {
		f.Edges(func(oe topo.OrientedEdge) {
			if j, ok := owner[oe.Edge]; ok {
				union(i, j)
			} else {
				owner[oe.Edge] = i
			}
		})
	}

	byRoot := make(map[int][]*topo.Face)
	var roots []int
	for i, f := range faces {
		r := find(i)
		if _, seen := byRoot[r]; !seen {
			roots = append(roots, r)
		}
		byRoot[r] = append(byRoot[r], f)
	}

	shells := make([]*topo.Shell, 0, len(roots))
	for _, r := range roots {
		sh, err := topo.NewShell(byRoot[r]...)
		if err != nil {
			return nil, fmt.Errorf("boolean: stitching %d faces: %w", len(byRoot[r]), err)
		}
		shells = append(shells, sh)
	}
	return shells, nil
}
