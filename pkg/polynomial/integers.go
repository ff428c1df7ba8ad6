package polynomial

import (
	"math/big"
	"strconv"
)

// Integers is the ring of plain int64 integers. No reduction is applied, so
// results follow ordinary integer arithmetic (and overflow like int64).
type Integers struct{}

var _ Ring[int64] = Integers{}

func (Integers) Zero() int64 { return 0 }
func (Integers) One() int64 { return 1 }
func (Integers) Add(a, b int64) int64 { return a + b }
func (Integers) Sub(a, b int64) int64 { return a - b }
func (Integers) Mul(a, b int64) int64 { return a * b }
func (Integers) Neg(a int64) int64 { return -a }
func (Integers) FromInt(n int) int64 { return int64(n) }
func (Integers) Equal(a, b int64) bool { return a == b }
func (Integers) Format(a int64) string { return strconv.FormatInt(a, 10) }

func (Integers) Sign(a int64) int {
	switch {
	case a < 0:
		return -1
	case a > 0:
		return 1
	}
	return 0
}

// Ints is shorthand for New(Integers{}, coeffs...). Coefficients wrap
// around past the int64 range; use Bigs when they may grow that far.
func Ints(coeffs ...int64) Poly[int64] {
	return New[int64](Integers{}, coeffs...)
}

// BigIntegers is the ring of arbitrary precision integers. Operations
// always return a fresh value and never modify their arguments.
type BigIntegers struct{}

var _ Ring[*big.Int] = BigIntegers{}

func (BigIntegers) Zero() *big.Int { return new(big.Int) }
func (BigIntegers) One() *big.Int { return big.NewInt(1) }
func (BigIntegers) Add(a, b *big.Int) *big.Int { return new(big.Int).Add(a, b) }
func (BigIntegers) Sub(a, b *big.Int) *big.Int { return new(big.Int).Sub(a, b) }
func (BigIntegers) Mul(a, b *big.Int) *big.Int { return new(big.Int).Mul(a, b) }
func (BigIntegers) Neg(a *big.Int) *big.Int { return new(big.Int).Neg(a) }
func (BigIntegers) FromInt(n int) *big.Int { return big.NewInt(int64(n)) }
func (BigIntegers) Equal(a, b *big.Int) bool { return a.Cmp(b) == 0 }
func (BigIntegers) Sign(a *big.Int) int { return a.Sign() }
func (BigIntegers) Format(a *big.Int) string { return a.String() }

// Bigs is shorthand for New(BigIntegers{}, ...) from int64 coefficients.
func Bigs(coeffs ...int64) Poly[*big.Int] {
	c := make([]*big.Int, len(coeffs))
	for i, v := range coeffs {
		c[i] = big.NewInt(v)
	}
	return New[*big.Int](BigIntegers{}, c...)
}
