// Package field implements arithmetic in the prime field GF(257).
//
// 257 is the smallest prime above 255, so every byte value is a distinct
// field element. The extra element 256 has no byte representation.
package field

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/Beastly713/shadowshare/pkg/polynomial"
)

// Modulus is the order of the field.
const Modulus = 257

var (
	// ErrZeroInverse is returned when inverting (or dividing by) zero.
	ErrZeroInverse = errors.New("field: zero has no multiplicative inverse")

	// ErrNotByte is returned when converting the element 256 to a byte.
	ErrNotByte = errors.New("field: element does not fit in a byte")
)

// Element is a value in [0, 256]. Arithmetic keeps results reduced.
type Element uint16

// New reduces any integer into the field. Negative values wrap around.
func New(n int) Element {
	r := n % Modulus
	if r < 0 {
		r += Modulus
	}
	return Element(r)
}

// FromByte lifts a byte into the field.
func FromByte(b byte) Element {
	return Element(b)
}

// Byte returns e as a byte, or ErrNotByte for the element 256.
func (e Element) Byte() (byte, error) {
	if e > 255 {
		return 0, fmt.Errorf("%w: %d", ErrNotByte, e)
	}
	return byte(e), nil
}

func (e Element) String() string {
	return strconv.Itoa(int(e))
}

func Add(a, b Element) Element {
	return Element((uint32(a) + uint32(b)) % Modulus)
}

func Sub(a, b Element) Element {
	return Element((uint32(a) + Modulus - uint32(b)) % Modulus)
}

func Mul(a, b Element) Element {
	return Element(uint32(a) * uint32(b) % Modulus)
}

func Neg(a Element) Element {
	return Sub(0, a)
}

// Pow returns a^n by square-and-multiply.
func Pow(a Element, n uint) Element {
	result := Element(1)
	base := a
	for n > 0 {
		if n&1 == 1 {
			result = Mul(result, base)
		}
		base = Mul(base, base)
		n >>= 1
	}
	return result
}

// Inv returns the multiplicative inverse of a, a^(p-2) by Fermat's little theorem.
func Inv(a Element) (Element, error) {
	if a%Modulus == 0 {
		return 0, ErrZeroInverse
	}
	return Pow(a, Modulus-2), nil
}

// Div returns a / b.
func Div(a, b Element) (Element, error) {
	inv, err := Inv(b)
	if err != nil {
		return 0, err
	}
	return Mul(a, inv), nil
}

// GF257 is the polynomial.Ring of field elements.
type GF257 struct{}

var _ polynomial.Ring[Element] = GF257{}

func (GF257) Zero() Element { return 0 }
func (GF257) One() Element { return 1 }
func (GF257) Add(a, b Element) Element { return Add(a, b) }
func (GF257) Sub(a, b Element) Element { return Sub(a, b) }
func (GF257) Mul(a, b Element) Element { return Mul(a, b) }
func (GF257) Neg(a Element) Element { return Neg(a) }
func (GF257) FromInt(n int) Element { return New(n) }
func (GF257) Equal(a, b Element) bool { return a == b }
func (GF257) Format(a Element) string { return a.String() }

func (GF257) Sign(a Element) int {
	if a == 0 {
		return 0
	}
	return 1
}

// Poly is shorthand for a polynomial over GF(257).
type Poly = polynomial.Poly[Element]

// NewPoly builds a GF(257) polynomial, constant term first.
func NewPoly(coeffs ...Element) Poly {
	return polynomial.New[Element](GF257{}, coeffs...)
}
