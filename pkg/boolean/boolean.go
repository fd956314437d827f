package boolean

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/chazu/xylem/pkg/loops"
	"github.com/chazu/xylem/pkg/tessellate"
	"github.com/chazu/xylem/pkg/topo"
)

// And returns the intersection of two solids. tol is the model-space
// tolerance used for tessellation, curve tracing and endpoint welding;
// it must be comfortably below the smallest feature size. Disjoint
// operands yield ErrEmptyResult.
func And(a, b *topo.Solid, tol float64) (*topo.Solid, error) {
	return AndWith(a, b, tol, DefaultOptions())
}

// Or returns the union of two solids. Disjoint operands yield a solid
// with one shell per operand shell.
func Or(a, b *topo.Solid, tol float64) (*topo.Solid, error) {
	return OrWith(a, b, tol, DefaultOptions())
}

// AndWith is And with explicit options.
func AndWith(a, b *topo.Solid, tol float64, opts Options) (*topo.Solid, error) {
	return operate(topo.StatusAnd, a, b, tol, opts)
}

// OrWith is Or with explicit options.
func OrWith(a, b *topo.Solid, tol float64, opts Options) (*topo.Solid, error) {
	return operate(topo.StatusOr, a, b, tol, opts)
}

func operate(want topo.Status, a, b *topo.Solid, tol float64, opts Options) (*topo.Solid, error) {
	if tol <= 0 {
		return nil, fmt.Errorf("boolean: tolerance %g is not positive", tol)
	}
	logger := opts.logger()

	ma, err := tessellate.TessellateSolid(a, tol)
	if err != nil {
		return nil, fmt.Errorf("boolean: first operand: %w", err)
	}
	mb, err := tessellate.TessellateSolid(b, tol)
	if err != nil {
		return nil, fmt.Errorf("boolean: second operand: %w", err)
	}

	pair, err := loops.Build(a, b, ma, mb, tol, logger)
	if err != nil {
		return nil, err
	}

	regsA := collectRegions(pair.A)
	regsB := collectRegions(pair.B)
	if err := resolveRegions(regsA, mb, opts); err != nil {
		return nil, err
	}
	if err := resolveRegions(regsB, ma, opts); err != nil {
		return nil, err
	}

	var faces []*topo.Face
	for _, r := range regsA {
		if r.group.Status == want {
			faces = append(faces, r.build())
		}
	}
	for _, r := range regsB {
		if r.group.Status == want {
			faces = append(faces, r.build())
		}
	}
	if len(faces) == 0 {
		return nil, ErrEmptyResult
	}

	shells, err := stitch(faces)
	if err != nil {
		return nil, err
	}
	solid, err := topo.NewSolid(shells...)
	if err != nil {
		return nil, fmt.Errorf("boolean: stitched result is not a solid: %w", err)
	}
	logger.Info("boolean operation complete",
		zap.Stringer("op", want),
		zap.Int("curves", pair.Curves),
		zap.Int("faces", len(faces)),
		zap.Int("shells", len(shells)))
	return solid, nil
}

// region is one divided face region awaiting selection: the source face
// it came from plus its classified loop group.
type region struct {
	face  *topo.Face
	group *loops.Group
}

func collectRegions(stores []*loops.Store) []*region {
	var regs []*region
	for _, st := range stores {
		for _, g := range st.Groups {
			regs = append(regs, &region{face: st.Face, group: g})
		}
	}
	return regs
}

// build turns the region into a face, keeping the source surface and
// sense so the outward orientation carries over.
func (r *region) build() *topo.Face {
	wires := make([]*topo.Wire, 0, 1+len(r.group.Holes))
	wires = append(wires, r.group.Outer.Wire)
	for _, h := range r.group.Holes {
		wires = append(wires, h.Wire)
	}
	return topo.AssembleFace(r.face.Surface(), r.face.SameSense(), r.group.Status, wires)
}
