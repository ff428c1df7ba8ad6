// Package polynomial implements single-variable polynomials whose
// coefficients live in an arbitrary ring.
//
// The same Poly type serves two different arithmetics: plain integers
// (Integers) and a prime field (see package field). Coefficients are
// stored in increasing power of x:
//
//	p_0 + p_1 x + p_2 x^2 + ... + p_n x^n
package polynomial

import (
	"fmt"
	"strings"
)

// Ring supplies the coefficient arithmetic of a Poly.
type Ring[T any] interface {
	Zero() T
	One() T
	Add(a, b T) T
	Sub(a, b T) T
	Mul(a, b T) T
	Neg(a T) T
	// FromInt maps a machine integer into the ring.
	FromInt(n int) T
	Equal(a, b T) bool
	// Sign returns -1, 0 or 1. Unordered rings return 1 for every non-zero element.
	Sign(a T) int
	Format(a T) string
}

// Poly is an immutable polynomial over the ring R. Every operation returns
// a fresh value; the receiver is never modified.
type Poly[T any] struct {
	ring Ring[T]
	coef []T
}

// New builds a polynomial from its coefficients, constant term first.
func New[T any](ring Ring[T], coeffs ...T) Poly[T] {
	c := make([]T, len(coeffs))
	copy(c, coeffs)
	return normalize(Poly[T]{ring: ring, coef: c})
}

// Zero returns the zero polynomial.
func Zero[T any](ring Ring[T]) Poly[T] {
	return Poly[T]{ring: ring, coef: []T{ring.Zero()}}
}

// Monomial returns a * x^n.
func Monomial[T any](ring Ring[T], a T, n int) Poly[T] {
	if n < 0 {
		panic("polynomial: negative exponent")
	}
	c := make([]T, n+1)
	for i := range c {
		c[i] = ring.Zero()
	}
	c[n] = a
	return normalize(Poly[T]{ring: ring, coef: c})
}

// normalize trims trailing zero coefficients, keeping at least one.
func normalize[T any](p Poly[T]) Poly[T] {
	if len(p.coef) == 0 {
		p.coef = []T{p.ring.Zero()}
		return p
	}
	n := len(p.coef)
	for n > 1 && p.ring.Equal(p.coef[n-1], p.ring.Zero()) {
		n--
	}
	p.coef = p.coef[:n]
	return p
}

// Ring returns the coefficient ring of p.
func (p Poly[T]) Ring() Ring[T] {
	return p.ring
}

// Degree is the index of the highest non-zero coefficient (0 for the zero polynomial).
func (p Poly[T]) Degree() int {
	return len(p.coef) - 1
}

// IsZero reports whether p is the zero polynomial.
func (p Poly[T]) IsZero() bool {
	return len(p.coef) == 1 && p.ring.Equal(p.coef[0], p.ring.Zero())
}

// Coefficient returns the coefficient of x^i, which is zero past the degree.
func (p Poly[T]) Coefficient(i int) T {
	if i < 0 || i >= len(p.coef) {
		return p.ring.Zero()
	}
	return p.coef[i]
}

// Coefficients returns a copy of the coefficient vector, padded with zeros
// to at least n entries. Passing n <= 0 returns exactly Degree()+1 entries.
func (p Poly[T]) Coefficients(n int) []T {
	if n < len(p.coef) {
		n = len(p.coef)
	}
	out := make([]T, n)
	copy(out, p.coef)
	for i := len(p.coef); i < n; i++ {
		out[i] = p.ring.Zero()
	}
	return out
}

// Add returns p + q.
func (p Poly[T]) Add(q Poly[T]) Poly[T] {
	n := max(len(p.coef), len(q.coef))
	c := make([]T, n)
	for i := range c {
		c[i] = p.ring.Add(p.Coefficient(i), q.Coefficient(i))
	}
	return normalize(Poly[T]{ring: p.ring, coef: c})
}

// Sub returns p - q.
func (p Poly[T]) Sub(q Poly[T]) Poly[T] {
	n := max(len(p.coef), len(q.coef))
	c := make([]T, n)
	for i := range c {
		c[i] = p.ring.Sub(p.Coefficient(i), q.Coefficient(i))
	}
	return normalize(Poly[T]{ring: p.ring, coef: c})
}

// Mul returns p * q, the convolution of both coefficient vectors.
func (p Poly[T]) Mul(q Poly[T]) Poly[T] {
	c := make([]T, len(p.coef)+len(q.coef)-1)
	for i := range c {
		c[i] = p.ring.Zero()
	}
	for i, a := range p.coef {
		for j, b := range q.coef {
			c[i+j] = p.ring.Add(c[i+j], p.ring.Mul(a, b))
		}
	}
	return normalize(Poly[T]{ring: p.ring, coef: c})
}

// Scale multiplies every coefficient by s.
func (p Poly[T]) Scale(s T) Poly[T] {
	c := make([]T, len(p.coef))
	for i, a := range p.coef {
		c[i] = p.ring.Mul(a, s)
	}
	return normalize(Poly[T]{ring: p.ring, coef: c})
}

// Compose returns p(q(x)), combined Horner style from the highest term down.
func (p Poly[T]) Compose(q Poly[T]) Poly[T] {
	out := Zero(p.ring)
	for i := len(p.coef) - 1; i >= 0; i-- {
		out = New(p.ring, p.coef[i]).Add(q.Mul(out))
	}
	return out
}

// Evaluate returns p(x) using Horner's method.
func (p Poly[T]) Evaluate(x T) T {
	out := p.ring.Zero()
	for i := len(p.coef) - 1; i >= 0; i-- {
		out = p.ring.Add(p.ring.Mul(out, x), p.coef[i])
	}
	return out
}

// Differentiate returns the formal derivative p'(x).
func (p Poly[T]) Differentiate() Poly[T] {
	if len(p.coef) == 1 {
		return Zero(p.ring)
	}
	c := make([]T, len(p.coef)-1)
	for i := range c {
		c[i] = p.ring.Mul(p.ring.FromInt(i+1), p.coef[i+1])
	}
	return normalize(Poly[T]{ring: p.ring, coef: c})
}

// Equal reports whether p and q have the same coefficients.
func (p Poly[T]) Equal(q Poly[T]) bool {
	if len(p.coef) != len(q.coef) {
		return false
	}
	for i := range p.coef {
		if !p.ring.Equal(p.coef[i], q.coef[i]) {
			return false
		}
	}
	return true
}

// String renders p highest power first, e.g. "4x^3 + 3x^2 - 2x + 1".
func (p Poly[T]) String() string {
	var sb strings.Builder
	deg := p.Degree()
	for i := deg; i >= 0; i-- {
		c := p.coef[i]
		sign := p.ring.Sign(c)
		if i < deg && sign == 0 {
			continue
		}
		switch {
		case i == deg && sign < 0:
			sb.WriteString("-")
			c = p.ring.Neg(c)
		case i < deg && sign < 0:
			sb.WriteString(" - ")
			c = p.ring.Neg(c)
		case i < deg:
			sb.WriteString(" + ")
		}
		sb.WriteString(p.ring.Format(c))
		switch {
		case i == 1:
			sb.WriteString("x")
		case i > 1:
			fmt.Fprintf(&sb, "x^%d", i)
		}
	}
	return sb.String()
}
