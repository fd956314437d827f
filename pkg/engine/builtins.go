package engine

import (
	"errors"
	"fmt"
	"strings"

	v3 "github.com/deadsy/sdfx/vec/v3"
	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/xylem/pkg/boolean"
	"github.com/chazu/xylem/pkg/shape"
	"github.com/chazu/xylem/pkg/tessellate"
	"github.com/chazu/xylem/pkg/topo"
)

// defaultTolerance is the model-space tolerance used by the boolean and
// volume builtins when the program gives no :tolerance argument.
const defaultTolerance = 1e-3

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms Xylem Lisp source code before passing it to
// zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: half-space -> half_space
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator).
//
// Both transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpSolid wraps a topo.Solid so solids are first-class DSL values.
type sexpSolid struct {
	solid *topo.Solid
	name  string // defsolid name, when any, for printing
}

func (s *sexpSolid) SexpString(ps *zygo.PrintState) string {
	if s.name != "" {
		return fmt.Sprintf("(solid %q %d faces)", s.name, s.solid.FaceCount())
	}
	return fmt.Sprintf("(solid %d faces)", s.solid.FaceCount())
}
func (s *sexpSolid) Type() *zygo.RegisteredType { return nil }

// sexpVec3 wraps a model-space vector.
type sexpVec3 struct {
	vec v3.Vec
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toVec3 extracts a vector from a sexpVec3.
func toVec3(s zygo.Sexp) (v3.Vec, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return v3.Vec{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// toSolid extracts a solid from a sexpSolid. SexpNull stands for the
// empty solid and passes through as nil.
func toSolid(s zygo.Sexp) (*topo.Solid, bool, error) {
	switch v := s.(type) {
	case *sexpSolid:
		return v.solid, true, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, false, nil
		}
	}
	return nil, false, fmt.Errorf("expected solid, got %T (%s)", s, s.SexpString(nil))
}

// toleranceArg reads the :tolerance keyword, defaulted.
func toleranceArg(pa kwArgs) (float64, error) {
	v, ok := pa.kw["tolerance"]
	if !ok {
		return defaultTolerance, nil
	}
	tol, err := toFloat64(v)
	if err != nil {
		return 0, fmt.Errorf("tolerance: %w", err)
	}
	if tol <= 0 {
		return 0, fmt.Errorf("tolerance %g is not positive", tol)
	}
	return tol, nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the Xylem DSL builtins into a zygomys
// environment. The builtins populate the scene during evaluation.
//
// The boolean builtins are named intersect and union because zygomys
// reserves and/or for its logical operators.
//
// Source code must be preprocessed with preprocessSource() before
// evaluation so that :keyword tokens become recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, scene *Scene) {

	// -----------------------------------------------------------------------
	// (vec3 x y z)
	// -----------------------------------------------------------------------
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires three numbers")
		}
		var c [3]float64
		for i, a := range args {
			f, err := toFloat64(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("vec3: %w", err)
			}
			c[i] = f
		}
		return &sexpVec3{vec: v3.Vec{X: c[0], Y: c[1], Z: c[2]}}, nil
	})

	// -----------------------------------------------------------------------
	// (cuboid :min (vec3 0 0 0) :max (vec3 1 1 1))
	// -----------------------------------------------------------------------
	env.AddFunction("cuboid", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		min := v3.Vec{}
		max := v3.Vec{X: 1, Y: 1, Z: 1}
		if v, ok := pa.kw["min"]; ok {
			p, err := toVec3(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("cuboid: min: %w", err)
			}
			min = p
		}
		if v, ok := pa.kw["max"]; ok {
			p, err := toVec3(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("cuboid: max: %w", err)
			}
			max = p
		}
		solid, err := shape.Cuboid(min, max)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cuboid: %w", err)
		}
		return &sexpSolid{solid: solid}, nil
	})

	// -----------------------------------------------------------------------
	// (sphere :center (vec3 0 0 0) :radius 1)
	// -----------------------------------------------------------------------
	env.AddFunction("sphere", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		center := v3.Vec{}
		radius := 1.0
		if v, ok := pa.kw["center"]; ok {
			p, err := toVec3(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("sphere: center: %w", err)
			}
			center = p
		}
		if v, ok := pa.kw["radius"]; ok {
			r, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("sphere: radius: %w", err)
			}
			radius = r
		}
		solid, err := shape.Sphere(center, radius)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("sphere: %w", err)
		}
		return &sexpSolid{solid: solid}, nil
	})

	// -----------------------------------------------------------------------
	// (intersect a b ... :tolerance 0.001)
	// -----------------------------------------------------------------------
	env.AddFunction("intersect", booleanBuiltin("intersect", boolean.And))

	// -----------------------------------------------------------------------
	// (union a b ... :tolerance 0.001)
	// -----------------------------------------------------------------------
	env.AddFunction("union", booleanBuiltin("union", boolean.Or))

	// -----------------------------------------------------------------------
	// (defsolid "name" solid)
	// -----------------------------------------------------------------------
	env.AddFunction("defsolid", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 2 {
			return zygo.SexpNull, fmt.Errorf("defsolid requires a name and a solid expression")
		}
		solidName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("defsolid: name: %w", err)
		}
		solid, ok, err := toSolid(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("defsolid %q: %w", solidName, err)
		}
		if !ok {
			// An empty result is a legal value; record the name as
			// defined but unbound.
			scene.add(solidName, nil)
			return zygo.SexpNull, nil
		}
		scene.add(solidName, solid)
		return &sexpSolid{solid: solid, name: solidName}, nil
	})

	// -----------------------------------------------------------------------
	// (solid "name")
	// -----------------------------------------------------------------------
	env.AddFunction("solid", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 {
			return zygo.SexpNull, fmt.Errorf("solid requires a name argument")
		}
		solidName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("solid: name: %w", err)
		}
		s := scene.Solid(solidName)
		if s == nil {
			return zygo.SexpNull, fmt.Errorf("solid %q is not defined", solidName)
		}
		return &sexpSolid{solid: s, name: solidName}, nil
	})

	// -----------------------------------------------------------------------
	// (volume solid :tolerance 0.001)
	// -----------------------------------------------------------------------
	env.AddFunction("volume", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("volume requires a solid argument")
		}
		solid, ok, err := toSolid(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("volume: %w", err)
		}
		if !ok {
			return &zygo.SexpFloat{Val: 0}, nil
		}
		tol, err := toleranceArg(pa)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("volume: %w", err)
		}
		mesh, err := tessellate.TessellateSolid(solid, tol)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("volume: %w", err)
		}
		return &zygo.SexpFloat{Val: mesh.Volume()}, nil
	})

	// -----------------------------------------------------------------------
	// (faces solid)
	// -----------------------------------------------------------------------
	env.AddFunction("faces", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 {
			return zygo.SexpNull, fmt.Errorf("faces requires a solid argument")
		}
		solid, ok, err := toSolid(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("faces: %w", err)
		}
		if !ok {
			return &zygo.SexpInt{Val: 0}, nil
		}
		return &zygo.SexpInt{Val: int64(solid.FaceCount())}, nil
	})
}

// booleanBuiltin folds a boolean operation over its solid arguments,
// left to right. An empty intermediate result (disjoint intersection)
// propagates as null.
func booleanBuiltin(opName string, op func(a, b *topo.Solid, tol float64) (*topo.Solid, error)) func(*zygo.Zlisp, string, []zygo.Sexp) (zygo.Sexp, error) {
	return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 2 {
			return zygo.SexpNull, fmt.Errorf("%s requires at least two solids", opName)
		}
		tol, err := toleranceArg(pa)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: %w", opName, err)
		}
		acc, ok, err := toSolid(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: %w", opName, err)
		}
		for _, arg := range pa.positional[1:] {
			next, nok, err := toSolid(arg)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", opName, err)
			}
			if !ok || !nok {
				// Null operand: intersection stays empty, union keeps
				// whichever side exists.
				if opName == "union" {
					if !ok {
						acc, ok = next, nok
					}
					continue
				}
				return zygo.SexpNull, nil
			}
			res, err := op(acc, next, tol)
			if errors.Is(err, boolean.ErrEmptyResult) {
				acc, ok = nil, false
				continue
			}
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", opName, err)
			}
			acc = res
		}
		if !ok {
			return zygo.SexpNull, nil
		}
		return &sexpSolid{solid: acc}, nil
	}
}
