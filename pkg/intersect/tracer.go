// Package intersect extracts intersection curves between two parametric
// surfaces. Candidate crossing segments come from the surfaces' coarse
// triangulations; matching endpoints are chained into polylines through
// a tolerance-scaled point lattice; every breakpoint is then refined by
// double-projection Newton iteration until it lies on both exact
// surfaces. Breakpoints that refuse to converge are locally tangential
// and are dropped rather than guessed at.
package intersect

import (
	v3 "github.com/deadsy/sdfx/vec/v3"
	"go.uber.org/zap"

	"github.com/chazu/xylem/pkg/geom"
	"github.com/chazu/xylem/pkg/tessellate"
)

// Trace extracts the intersection curves between the surfaces under two
// face meshes. It returns nil when nothing usable intersects: no
// candidate segments, or no breakpoint that survives refinement.
func Trace(a, b *tessellate.FaceMesh, tol float64, logger *zap.Logger) []*Curve3 {
	if logger == nil {
		logger = zap.NewNop()
	}
	segs := candidateSegments(a, b, tol)
	if len(segs) == 0 {
		return nil
	}
	polylines := chainSegments(segs, tol)

	sa := a.Face.Surface()
	sb := b.Face.Surface()
	var curves []*Curve3
	dropped := 0
	for _, pl := range polylines {
		c, nDropped := refinePolyline(sa, sb, pl, tol)
		dropped += nDropped
		if c != nil {
			curves = append(curves, c)
		}
	}
	if dropped > 0 {
		logger.Debug("dropped non-transversal intersection breakpoints",
			zap.Int("dropped", dropped),
			zap.Int("curves", len(curves)))
	}
	return curves
}

// aabb is a cheap axis-aligned prefilter box.
type aabb struct {
	min, max v3.Vec
}

func triBox(t [3]v3.Vec, pad float64) aabb {
	lo := t[0].Min(t[1]).Min(t[2])
	hi := t[0].Max(t[1]).Max(t[2])
	padV := v3.Vec{X: pad, Y: pad, Z: pad}
	return aabb{min: lo.Sub(padV), max: hi.Add(padV)}
}

func (b aabb) overlaps(o aabb) bool {
	return b.min.X <= o.max.X && o.min.X <= b.max.X &&
		b.min.Y <= o.max.Y && o.min.Y <= b.max.Y &&
		b.min.Z <= o.max.Z && o.min.Z <= b.max.Z
}

type segment struct {
	a, b v3.Vec
}

// candidateSegments intersects every close triangle pair of the two
// face meshes.
func candidateSegments(a, b *tessellate.FaceMesh, tol float64) []segment {
	boxesB := make([]aabb, len(b.Triangles))
	for i, tb := range b.Triangles {
		boxesB[i] = triBox(tb, tol)
	}
	var segs []segment
	for _, ta := range a.Triangles {
		boxA := triBox(ta, tol)
		for i, tb := range b.Triangles {
			if !boxA.overlaps(boxesB[i]) {
				continue
			}
			p, q, ok := triTriSegment(ta, tb, tol*1e-3)
			if !ok {
				continue
			}
			if q.Sub(p).Length() <= tol*1e-2 {
				continue
			}
			segs = append(segs, segment{a: p, b: q})
		}
	}
	return segs
}

// polyline is an unrefined chained candidate curve.
type polyline struct {
	points []v3.Vec
	closed bool
}

// chainSegments joins segments whose endpoints coincide on the point
// lattice into maximal open or closed polylines. Open chains are pulled
// first so a junction never breaks a through-running chain in two.
func chainSegments(segs []segment, tol float64) []polyline {
	lat := geom.NewPointLattice(tol)
	adj := make(map[int][]link)
	ends := make([][2]int, len(segs))
	for i, s := range segs {
		sa := lat.Insert(s.a)
		sb := lat.Insert(s.b)
		if sa == sb {
			continue // micro-segment collapsed by the lattice
		}
		ends[i] = [2]int{sa, sb}
		adj[sa] = append(adj[sa], link{seg: i, from: sa, to: sb})
		adj[sb] = append(adj[sb], link{seg: i, from: sb, to: sa})
	}

	used := make([]bool, len(segs))
	var out []polyline

	walk := func(start int) polyline {
		pts := []v3.Vec{lat.Point(start)}
		cur := start
		for {
			advanced := false
			for _, ln := range adj[cur] {
				if used[ln.seg] {
					continue
				}
				used[ln.seg] = true
				cur = ln.to
				pts = append(pts, lat.Point(cur))
				advanced = true
				break
			}
			if !advanced {
				break
			}
		}
		return polyline{points: pts, closed: cur == start && len(pts) > 2}
	}

	// Open chains first: start from odd-degree slots.
	for slot, links := range adj {
		if len(links)%2 == 0 {
			continue
		}
		for hasUnused(links, used) {
			pl := walk(slot)
			if len(pl.points) >= 2 {
				out = append(out, pl)
			}
		}
	}
	// Remaining segments belong to cycles.
	for i := range segs {
		if used[i] || ends[i][0] == ends[i][1] {
			continue
		}
		pl := walk(ends[i][0])
		if len(pl.points) >= 2 {
			out = append(out, pl)
		}
	}
	return out
}

// link connects a lattice slot to another through a segment.
type link struct {
	seg  int
	from int
	to   int
}

func hasUnused(links []link, used []bool) bool {
	for _, ln := range links {
		if !used[ln.seg] {
			return true
		}
	}
	return false
}
