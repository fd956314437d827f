package boolean

import (
	"math"
	"math/rand"

	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"golang.org/x/sync/errgroup"

	"github.com/chazu/xylem/pkg/geom"
	"github.com/chazu/xylem/pkg/tessellate"
	"github.com/chazu/xylem/pkg/topo"
)

// resolveRegions classifies every region the intersection curves never
// reached: a representative interior point is cast against the other
// operand's mesh and the net crossing parity decides inside or outside.
// Regions are independent, so they resolve in parallel.
func resolveRegions(regs []*region, other *tessellate.Mesh, opts Options) error {
	g := new(errgroup.Group)
	if opts.Workers > 0 {
		g.SetLimit(opts.Workers)
	}
	for i, r := range regs {
		if r.group.Status != topo.StatusUnknown {
			continue
		}
		i, r := i, r
		g.Go(func() error {
			inside, err := insideOther(r, other, opts, int64(i))
			if err != nil {
				return err
			}
			if inside {
				r.group.Status = topo.StatusAnd
			} else {
				r.group.Status = topo.StatusOr
			}
			return nil
		})
	}
	return g.Wait()
}

// insideOther reports whether an interior point of the region lies
// inside the other operand. Probes that graze an edge or vertex of the
// mesh are degenerate; each retry draws a fresh random direction.
func insideOther(r *region, other *tessellate.Mesh, opts Options, seed int64) (bool, error) {
	holes := make([][]v2.Vec, len(r.group.Holes))
	for i, h := range r.group.Holes {
		holes[i] = h.UV
	}
	q, ok := geom.InteriorPoint(r.group.Outer.UV, holes)
	if !ok {
		return false, &ResolveError{Message: "no interior point found"}
	}
	p := r.face.Surface().Position(q.X, q.Y)

	rng := rand.New(rand.NewSource(0x9E3779B9 + seed))
	retries := opts.RayRetries
	if retries <= 0 {
		retries = 1
	}
	for try := 0; try < retries; try++ {
		net, degenerate := other.RayCrossings(p, randomDirection(rng))
		if degenerate {
			continue
		}
		return net > 0, nil
	}
	return false, &ResolveError{Point: p, Message: "every probe direction was degenerate"}
}

// randomDirection draws a unit vector roughly uniform on the sphere.
func randomDirection(rng *rand.Rand) v3.Vec {
	z := 2*rng.Float64() - 1
	theta := 2 * math.Pi * rng.Float64()
	s := math.Sqrt(1 - z*z)
	return v3.Vec{X: s * math.Cos(theta), Y: s * math.Sin(theta), Z: z}
}
