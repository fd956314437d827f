package topo

// ShellCondition classifies a shell's manifoldness, computed by counting
// per edge body how many oriented uses it carries and whether the
// orientations of doubly-used edges cancel.
type ShellCondition int

const (
	// Irregular: some edge is used by three or more boundaries.
	Irregular ShellCondition = iota
	// Regular: every edge is used at most twice, but at least one
	// doubly-used edge runs the same way in both faces.
	Regular
	// Oriented: every edge is used at most twice and doubly-used edges
	// run in opposite directions; some edges remain open.
	Oriented
	// Closed: every edge is used exactly twice, in opposite directions.
	Closed
)

func (c ShellCondition) String() string {
	switch c {
	case Irregular:
		return "Irregular"
	case Regular:
		return "Regular"
	case Oriented:
		return "Oriented"
	case Closed:
		return "Closed"
	default:
		return "invalid"
	}
}

// Shell is an unordered collection of faces.
type Shell struct {
	faces []*Face
}

// NewShell builds a shell over the given faces; the collection must be
// non-empty.
func NewShell(faces ...*Face) (*Shell, error) {
	if len(faces) == 0 {
		return nil, topoErr(EmptyShell, "shell has no faces")
	}
	return &Shell{faces: faces}, nil
}

// MustShell is NewShell for statically valid input; it panics on error.
func MustShell(faces ...*Face) *Shell {
	s, err := NewShell(faces...)
	if err != nil {
		panic(err)
	}
	return s
}

// Faces returns the face collection. The slice is shared; callers must
// not mutate it.
func (s *Shell) Faces() []*Face { return s.faces }

// pairUse tallies oriented uses of one edge body.
type pairUse struct {
	forward, backward int
}

// edgeUses tallies, per edge body, the oriented uses over every
// boundary of every face. Keying by the body rather than the vertex
// pair keeps distinct edges between the same two vertices apart, as
// with the two meridian seams of a sphere.
func (s *Shell) edgeUses() map[*Edge]*pairUse {
	uses := make(map[*Edge]*pairUse)
	for _, f := range s.faces {
		f.Edges(func(e OrientedEdge) {
			u := uses[e.Edge]
			if u == nil {
				u = &pairUse{}
				uses[e.Edge] = u
			}
			if e.Reversed {
				u.backward++
			} else {
				u.forward++
			}
		})
	}
	return uses
}

// Condition computes the shell's manifoldness classification.
func (s *Shell) Condition() ShellCondition {
	uses := s.edgeUses()
	cond := Closed
	for _, u := range uses {
		total := u.forward + u.backward
		switch {
		case total > 2:
			return Irregular
		case total == 2 && u.forward != 1:
			// Doubly used but running the same way twice.
			if cond > Regular {
				cond = Regular
			}
		case total == 1:
			if cond > Oriented {
				cond = Oriented
			}
		}
	}
	return cond
}

// IsConnected reports whether the faces form a single component under
// shared-edge adjacency. A one-face shell is connected.
func (s *Shell) IsConnected() bool {
	if len(s.faces) <= 1 {
		return true
	}
	owner := make(map[*Edge][]int)
	for i, f := range s.faces {
		f.Edges(func(e OrientedEdge) {
			owner[e.Edge] = append(owner[e.Edge], i)
		})
	}
	adj := make([][]int, len(s.faces))
	for _, ids := range owner {
		for i := 1; i < len(ids); i++ {
			adj[ids[0]] = append(adj[ids[0]], ids[i])
			adj[ids[i]] = append(adj[ids[i]], ids[0])
		}
	}
	seen := make([]bool, len(s.faces))
	stack := []int{0}
	seen[0] = true
	count := 1
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, nb := range adj[cur] {
			if !seen[nb] {
				seen[nb] = true
				count++
				stack = append(stack, nb)
			}
		}
	}
	return count == len(s.faces)
}
