package shapes

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

var (
	// ErrUnknownShape is returned for a function name the grammar does not
	// know.
	ErrUnknownShape = errors.New("shapes: unknown shape")

	// ErrBadArguments is returned when a shape gets the wrong number or kind
	// of arguments.
	ErrBadArguments = errors.New("shapes: bad arguments")
)

// Expr is a call such as sphere(5) or union(a, b).
type Expr struct {
	Pos  lexer.Position
	Name string `@Ident "("`
	Args []*Arg `(@@ ("," @@)*)? ")"`
}

// Arg is either a number or a nested shape.
type Arg struct {
	Number *string `  @Number`
	Expr   *Expr   `| @@`
}

var shapeLexer = lexer.MustSimple([]lexer.SimpleRule{
	{"Ident", `[a-zA-Z_][a-zA-Z0-9_]*`},
	{"Number", `[-+]?(\d+\.?\d*|\.\d+)([eE][-+]?\d+)?`},
	{"Punct", `[(),]`},
	{"whitespace", `\s+`},
})

var parseShapeExpr = participle.MustBuild[Expr](
	participle.Lexer(shapeLexer),
)

// Parse builds the signed distance function described by expr. The grammar
// knows:
//
//	sphere(r)                  ball of radius r centred at the origin
//	box(x, y, z)               box of the given sizes centred at the origin
//	cylinder(h, r)             cylinder along z centred at the origin
//	translate(x, y, z, e)      e moved by (x, y, z)
//	union(e, e, ...)
//	difference(e, e)           first shape minus the second
//	intersection(e, e)
func Parse(expr string) (sdf.SDF3, error) {
	x, err := parseShapeExpr.ParseString("", expr)
	if err != nil {
		return nil, fmt.Errorf("error parsing shape %q: %w", expr, err)
	}
	return x.build()
}

func (x *Expr) build() (sdf.SDF3, error) {
	nums, subs, err := x.split()
	if err != nil {
		return nil, err
	}
	arity := func(n, s int) error {
		if len(nums) != n || len(subs) != s {
			return fmt.Errorf("%w: %s at %s takes %d numbers and %d shapes", ErrBadArguments, x.Name, x.Pos, n, s)
		}
		return nil
	}

	switch strings.ToLower(x.Name) {
	case "sphere":
		if err := arity(1, 0); err != nil {
			return nil, err
		}
		s, err := sdf.Sphere3D(nums[0])
		return x.check(s, err)
	case "box":
		if err := arity(3, 0); err != nil {
			return nil, err
		}
		s, err := sdf.Box3D(v3.Vec{X: nums[0], Y: nums[1], Z: nums[2]}, 0)
		return x.check(s, err)
	case "cylinder":
		if err := arity(2, 0); err != nil {
			return nil, err
		}
		s, err := sdf.Cylinder3D(nums[0], nums[1], 0)
		return x.check(s, err)
	case "translate":
		if err := arity(3, 1); err != nil {
			return nil, err
		}
		m := sdf.Translate3d(v3.Vec{X: nums[0], Y: nums[1], Z: nums[2]})
		return sdf.Transform3D(subs[0], m), nil
	case "union":
		if len(nums) != 0 || len(subs) < 2 {
			return nil, fmt.Errorf("%w: union at %s takes at least two shapes", ErrBadArguments, x.Pos)
		}
		return sdf.Union3D(subs...), nil
	case "difference":
		if err := arity(0, 2); err != nil {
			return nil, err
		}
		return sdf.Difference3D(subs[0], subs[1]), nil
	case "intersection":
		if err := arity(0, 2); err != nil {
			return nil, err
		}
		return sdf.Intersect3D(subs[0], subs[1]), nil
	}
	return nil, fmt.Errorf("%w: %q at %s", ErrUnknownShape, x.Name, x.Pos)
}

// split evaluates the arguments. Numbers must come before shapes.
func (x *Expr) split() ([]float64, []sdf.SDF3, error) {
	var nums []float64
	var subs []sdf.SDF3
	for _, a := range x.Args {
		if a.Number != nil {
			if len(subs) > 0 {
				return nil, nil, fmt.Errorf("%w: %s at %s has a number after a shape", ErrBadArguments, x.Name, x.Pos)
			}
			f, err := strconv.ParseFloat(*a.Number, 64)
			if err != nil {
				return nil, nil, fmt.Errorf("%w: %v", ErrBadArguments, err)
			}
			nums = append(nums, f)
			continue
		}
		s, err := a.Expr.build()
		if err != nil {
			return nil, nil, err
		}
		subs = append(subs, s)
	}
	return nums, subs, nil
}

func (x *Expr) check(s sdf.SDF3, err error) (sdf.SDF3, error) {
	if err != nil {
		return nil, fmt.Errorf("%w: %s at %s: %v", ErrBadArguments, x.Name, x.Pos, err)
	}
	return s, nil
}
