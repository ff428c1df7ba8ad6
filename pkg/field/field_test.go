package field

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReduces(t *testing.T) {
	assert.Equal(t, Element(0), New(257))
	assert.Equal(t, Element(256), New(-1))
	assert.Equal(t, Element(3), New(260))
	assert.Equal(t, Element(255), New(-2))
}

func TestInverse(t *testing.T) {
	for a := 1; a < Modulus; a++ {
		inv, err := Inv(Element(a))
		require.NoError(t, err)
		if got := Mul(Element(a), inv); got != 1 {
			t.Fatalf("%d * %d = %d, want 1", a, inv, got)
		}
	}

	_, err := Inv(0)
	if !errors.Is(err, ErrZeroInverse) {
		t.Errorf("Inv(0) error = %v, want ErrZeroInverse", err)
	}
	_, err = Div(5, 0)
	assert.ErrorIs(t, err, ErrZeroInverse)
}

func TestSubAddRoundTrip(t *testing.T) {
	for a := 0; a < Modulus; a += 7 {
		for b := 0; b < Modulus; b += 11 {
			x, y := Element(a), Element(b)
			assert.Equal(t, x, Add(Sub(x, y), y))
			assert.Equal(t, Element(0), Add(x, Neg(x)))
		}
	}
}

func TestByte(t *testing.T) {
	b, err := Element(255).Byte()
	require.NoError(t, err)
	assert.Equal(t, byte(255), b)

	_, err = Element(256).Byte()
	assert.ErrorIs(t, err, ErrNotByte)
}

func TestFieldPolynomial(t *testing.T) {
	// (x + 1)(x + 256) = x^2 - 1 = x^2 + 256 in GF(257)
	p := NewPoly(1, 1).Mul(NewPoly(256, 1))
	assert.Equal(t, []Element{256, 0, 1}, p.Coefficients(0))
	assert.Equal(t, "1x^2 + 256", p.String())
	assert.Equal(t, Element(0), p.Evaluate(1))
	assert.Equal(t, Element(0), p.Evaluate(256))

	// d/dx (x^257) vanishes mod 257
	m := NewPoly(0, 1)
	for i := 1; i < Modulus; i++ {
		m = m.Mul(NewPoly(0, 1))
	}
	assert.True(t, m.Differentiate().IsZero())
}
