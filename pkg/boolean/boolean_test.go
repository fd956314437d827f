package boolean

import (
	"math"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/xylem/pkg/shape"
	"github.com/chazu/xylem/pkg/tessellate"
	"github.com/chazu/xylem/pkg/topo"
)

const opTol = 1e-3

func unitCube(t *testing.T) *topo.Solid {
	t.Helper()
	s, err := shape.Cuboid(v3.Vec{}, v3.Vec{X: 1, Y: 1, Z: 1})
	require.NoError(t, err)
	return s
}

func cubeAt(t *testing.T, min, max v3.Vec) *topo.Solid {
	t.Helper()
	s, err := shape.Cuboid(min, max)
	require.NoError(t, err)
	return s
}

func solidVolume(t *testing.T, s *topo.Solid, tol float64) float64 {
	t.Helper()
	mesh, err := tessellate.TessellateSolid(s, tol)
	require.NoError(t, err)
	return mesh.Volume()
}

func requireClosed(t *testing.T, s *topo.Solid) {
	t.Helper()
	for i, sh := range s.Shells() {
		assert.Equal(t, topo.Closed, sh.Condition(), "shell %d", i)
		assert.True(t, sh.IsConnected(), "shell %d connectivity", i)
	}
}

func TestAndOverlappingCubes(t *testing.T) {
	a := unitCube(t)
	b := cubeAt(t, v3.Vec{X: 0.5, Y: 0.5, Z: 0.5}, v3.Vec{X: 1.5, Y: 1.5, Z: 1.5})

	got, err := And(a, b, opTol)
	require.NoError(t, err)
	require.Len(t, got.Shells(), 1)
	requireClosed(t, got)
	assert.InDelta(t, 0.125, solidVolume(t, got, opTol), 0.005)
	// The overlap is a cube: three faces from each operand.
	assert.Equal(t, 6, got.FaceCount())
}

func TestOrOverlappingCubes(t *testing.T) {
	a := unitCube(t)
	b := cubeAt(t, v3.Vec{X: 0.5, Y: 0.5, Z: 0.5}, v3.Vec{X: 1.5, Y: 1.5, Z: 1.5})

	got, err := Or(a, b, opTol)
	require.NoError(t, err)
	require.Len(t, got.Shells(), 1)
	requireClosed(t, got)
	assert.InDelta(t, 1.875, solidVolume(t, got, opTol), 0.005)
}

func TestPartitionLaw(t *testing.T) {
	// vol(A) + vol(B) = vol(A and B) + vol(A or B).
	a := unitCube(t)
	b := cubeAt(t, v3.Vec{X: 0.3, Y: -0.2, Z: 0.25}, v3.Vec{X: 1.4, Y: 0.8, Z: 0.9})

	and, err := And(a, b, opTol)
	require.NoError(t, err)
	or, err := Or(a, b, opTol)
	require.NoError(t, err)

	va := solidVolume(t, a, opTol)
	vb := solidVolume(t, b, opTol)
	sum := solidVolume(t, and, opTol) + solidVolume(t, or, opTol)
	assert.InDelta(t, va+vb, sum, 0.01)
}

func TestCommutativity(t *testing.T) {
	a := unitCube(t)
	b := cubeAt(t, v3.Vec{X: 0.5, Y: 0.5, Z: 0.5}, v3.Vec{X: 1.5, Y: 1.5, Z: 1.5})

	ab, err := And(a, b, opTol)
	require.NoError(t, err)
	ba, err := And(b, a, opTol)
	require.NoError(t, err)
	assert.InDelta(t, solidVolume(t, ab, opTol), solidVolume(t, ba, opTol), 1e-6)

	oab, err := Or(a, b, opTol)
	require.NoError(t, err)
	oba, err := Or(b, a, opTol)
	require.NoError(t, err)
	assert.InDelta(t, solidVolume(t, oab, opTol), solidVolume(t, oba, opTol), 1e-6)
}

func TestDisjointCubes(t *testing.T) {
	a := unitCube(t)
	b := cubeAt(t, v3.Vec{X: 3}, v3.Vec{X: 4, Y: 1, Z: 1})

	_, err := And(a, b, opTol)
	assert.ErrorIs(t, err, ErrEmptyResult)

	got, err := Or(a, b, opTol)
	require.NoError(t, err)
	require.Len(t, got.Shells(), 2)
	requireClosed(t, got)
	// Untouched faces pass through undivided.
	assert.Equal(t, 12, got.FaceCount())
	assert.InDelta(t, 2, solidVolume(t, got, opTol), 0.01)
}

func TestContainedCube(t *testing.T) {
	a := unitCube(t)
	b := cubeAt(t, v3.Vec{X: 0.25, Y: 0.25, Z: 0.25}, v3.Vec{X: 0.75, Y: 0.75, Z: 0.75})

	and, err := And(a, b, opTol)
	require.NoError(t, err)
	require.Len(t, and.Shells(), 1)
	assert.InDelta(t, 0.125, solidVolume(t, and, opTol), 0.005)

	or, err := Or(a, b, opTol)
	require.NoError(t, err)
	require.Len(t, or.Shells(), 1)
	assert.InDelta(t, 1, solidVolume(t, or, opTol), 0.005)
}

func TestSphereLens(t *testing.T) {
	tol := 0.02
	a, err := shape.Sphere(v3.Vec{}, 1)
	require.NoError(t, err)
	b, err := shape.Sphere(v3.Vec{X: 1}, 1)
	require.NoError(t, err)

	lens, err := And(a, b, tol)
	require.NoError(t, err)
	require.Len(t, lens.Shells(), 1)
	requireClosed(t, lens)

	// Two unit spheres a unit apart overlap in a lens of volume 5*pi/12.
	want := 5 * math.Pi / 12
	got := solidVolume(t, lens, tol)
	assert.InDelta(t, want, got, 0.08*want)
}

func TestCubeSphereBite(t *testing.T) {
	tol := 0.01
	a := unitCube(t)
	b, err := shape.Sphere(v3.Vec{X: 1, Y: 1, Z: 1}, 0.5)
	require.NoError(t, err)

	and, err := And(a, b, tol)
	require.NoError(t, err)
	requireClosed(t, and)

	// One octant of the half-radius ball: pi/48.
	want := math.Pi / 48
	assert.InDelta(t, want, solidVolume(t, and, tol), 0.1*want)
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	assert.Greater(t, opts.Workers, 0)
	assert.Greater(t, opts.RayRetries, 0)
	assert.NotNil(t, opts.logger())
}
