package shamir

import (
	"errors"
	"fmt"

	"github.com/Beastly713/shadowshare/pkg/field"
)

var (
	// ErrNoPoints is returned when interpolating an empty point set.
	ErrNoPoints = errors.New("no points to interpolate")

	// ErrDuplicateX is returned when two points share an x coordinate.
	ErrDuplicateX = errors.New("all points must have distinct x values")
)

// Point is a sample (x, y) of a polynomial over GF(257).
type Point struct {
	X, Y field.Element
}

// Interpolator holds the Lagrange basis for a fixed set of x coordinates.
// The basis only depends on the xs, so one Interpolator serves every slot
// of a reconstruction. It is safe for concurrent use.
type Interpolator struct {
	xs    []field.Element
	basis []field.Poly
}

// NewInterpolator precomputes the Lagrange basis polynomials
//
//	L_i(x) = prod_{j != i} (x - x_j) / (x_i - x_j)
//
// each of which is 1 at x_i and 0 at every other x_j.
func NewInterpolator(xs []field.Element) (*Interpolator, error) {
	if len(xs) == 0 {
		return nil, ErrNoPoints
	}

	reduced := make([]field.Element, len(xs))
	seen := make(map[field.Element]struct{}, len(xs))
	for i, x := range xs {
		x = field.New(int(x))
		if _, ok := seen[x]; ok {
			return nil, fmt.Errorf("%w: x=%d", ErrDuplicateX, x)
		}
		seen[x] = struct{}{}
		reduced[i] = x
	}

	basis := make([]field.Poly, len(reduced))
	for i, xi := range reduced {
		num := field.NewPoly(1)
		den := field.Element(1)
		for j, xj := range reduced {
			if i == j {
				continue
			}
			num = num.Mul(field.NewPoly(field.Neg(xj), 1))
			den = field.Mul(den, field.Sub(xi, xj))
		}
		inv, err := field.Inv(den)
		if err != nil {
			// unreachable with distinct xs in a prime field
			return nil, fmt.Errorf("lagrange basis %d: %w", i, err)
		}
		basis[i] = num.Scale(inv)
	}

	return &Interpolator{
		xs:    reduced,
		basis: basis,
	}, nil
}

// Interpolate returns the unique polynomial of degree < len(xs) through
// (xs[i], ys[i]).
func (in *Interpolator) Interpolate(ys []field.Element) (field.Poly, error) {
	if len(ys) != len(in.xs) {
		return field.Poly{}, fmt.Errorf("have %d x values but %d y values", len(in.xs), len(ys))
	}

	out := field.NewPoly()
	for i, y := range ys {
		out = out.Add(in.basis[i].Scale(y))
	}
	return out, nil
}

// Interpolate reconstructs the unique polynomial of degree <= len(points)-1
// through every point.
func Interpolate(points []Point) (field.Poly, error) {
	xs := make([]field.Element, len(points))
	ys := make([]field.Element, len(points))
	for i, p := range points {
		xs[i], ys[i] = p.X, p.Y
	}

	in, err := NewInterpolator(xs)
	if err != nil {
		return field.Poly{}, err
	}
	return in.Interpolate(ys)
}
