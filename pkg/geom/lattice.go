package geom

import (
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// PointLattice matches near-coincident 3-space points in near-constant
// time. Coordinates are quantized onto an integer lattice scaled by the
// tolerance; a query probes the point's own cell and its 26 neighbors, so
// two points within tol of each other always share a slot regardless of
// which side of a cell boundary they quantize to.
type PointLattice struct {
	tol    float64
	cells  map[[3]int64][]int
	points []v3.Vec
}

// NewPointLattice returns an empty lattice with the given matching
// tolerance. tol must be positive.
func NewPointLattice(tol float64) *PointLattice {
	return &PointLattice{
		tol:   tol,
		cells: make(map[[3]int64][]int),
	}
}

func (l *PointLattice) key(p v3.Vec) [3]int64 {
	return [3]int64{
		int64(math.Floor(p.X / l.tol)),
		int64(math.Floor(p.Y / l.tol)),
		int64(math.Floor(p.Z / l.tol)),
	}
}

// Lookup returns the slot of a previously inserted point within tol of p.
func (l *PointLattice) Lookup(p v3.Vec) (int, bool) {
	k := l.key(p)
	best := -1
	bestDist := l.tol
	for dx := int64(-1); dx <= 1; dx++ {
		for dy := int64(-1); dy <= 1; dy++ {
			for dz := int64(-1); dz <= 1; dz++ {
				nk := [3]int64{k[0] + dx, k[1] + dy, k[2] + dz}
				for _, idx := range l.cells[nk] {
					d := l.points[idx].Sub(p).Length()
					if d <= bestDist {
						best, bestDist = idx, d
					}
				}
			}
		}
	}
	if best < 0 {
		return 0, false
	}
	return best, true
}

// Insert returns the slot for p, reusing an existing slot when a point
// within tol is already registered.
func (l *PointLattice) Insert(p v3.Vec) int {
	if idx, ok := l.Lookup(p); ok {
		return idx
	}
	idx := len(l.points)
	l.points = append(l.points, p)
	k := l.key(p)
	l.cells[k] = append(l.cells[k], idx)
	return idx
}

// Point returns the representative point of a slot.
func (l *PointLattice) Point(i int) v3.Vec {
	return l.points[i]
}

// Len returns the number of distinct slots.
func (l *PointLattice) Len() int {
	return len(l.points)
}
