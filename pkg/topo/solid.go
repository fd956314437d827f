package topo

// Solid is bounded by one or more shells, each independently closed and
// connected; together the boundaries partition space into inside and
// outside.
type Solid struct {
	shells []*Shell
}

// NewSolid builds a solid from the given boundary shells. Every shell
// must be closed and connected; non-manifold shells are rejected.
func NewSolid(shells ...*Shell) (*Solid, error) {
	if len(shells) == 0 {
		return nil, topoErr(EmptyShell, "solid has no boundary shells")
	}
	for i, s := range shells {
		if len(s.faces) == 0 {
			return nil, topoErr(EmptyShell, "shell %d has no faces", i)
		}
		if !s.IsConnected() {
			return nil, topoErr(NotConnectedShell, "shell %d is not connected", i)
		}
		switch s.Condition() {
		case Closed:
		case Irregular:
			return nil, topoErr(NotManifoldShell, "shell %d has an over-shared edge", i)
		default:
			return nil, topoErr(NotClosedShell, "shell %d is not closed", i)
		}
	}
	return &Solid{shells: shells}, nil
}

// MustSolid is NewSolid for statically valid input; it panics on error.
func MustSolid(shells ...*Shell) *Solid {
	s, err := NewSolid(shells...)
	if err != nil {
		panic(err)
	}
	return s
}

// Shells returns the boundary shells. The slice is shared; callers must
// not mutate it.
func (s *Solid) Shells() []*Shell { return s.shells }

// FaceCount returns the total face count over all shells.
func (s *Solid) FaceCount() int {
	n := 0
	for _, sh := range s.shells {
		n += len(sh.faces)
	}
	return n
}
