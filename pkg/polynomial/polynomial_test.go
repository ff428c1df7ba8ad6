package polynomial

import (
	"math/big"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// p(x) = 4x^3 + 3x^2 + 2x + 1, q(x) = 3x^2 + 5
func samplePolys() (Poly[int64], Poly[int64]) {
	p := Monomial[int64](Integers{}, 4, 3).
		Add(Monomial[int64](Integers{}, 3, 2)).
		Add(Monomial[int64](Integers{}, 1, 0)).
		Add(Monomial[int64](Integers{}, 2, 1))
	q := Monomial[int64](Integers{}, 3, 2).Add(Monomial[int64](Integers{}, 5, 0))
	return p, q
}

func TestIntegerArithmetic(t *testing.T) {
	p, q := samplePolys()
	zero := Zero[int64](Integers{})

	tests := []struct {
		name string
		got  Poly[int64]
		want string
	}{
		{"zero", zero, "0"},
		{"p", p, "4x^3 + 3x^2 + 2x + 1"},
		{"q", q, "3x^2 + 5"},
		{"sum", p.Add(q), "4x^3 + 6x^2 + 2x + 6"},
		{"product", p.Mul(q), "12x^5 + 9x^4 + 26x^3 + 18x^2 + 10x + 5"},
		{"compose", p.Compose(q), "108x^6 + 567x^4 + 996x^2 + 586"},
		{"negate", zero.Sub(p), "-4x^3 - 3x^2 - 2x - 1"},
		{"derivative", p.Differentiate(), "12x^2 + 6x + 2"},
		{"second derivative", p.Differentiate().Differentiate(), "24x + 6"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.got.String(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}

	if got := p.Evaluate(3); got != 142 {
		t.Errorf("p(3) = %d, want 142", got)
	}
}

func TestDegree(t *testing.T) {
	p, q := samplePolys()

	if d := p.Mul(q).Degree(); d != p.Degree()+q.Degree() {
		t.Errorf("deg(p*q) = %d, want %d", d, p.Degree()+q.Degree())
	}

	// leading terms cancel
	diff := p.Sub(Monomial[int64](Integers{}, 4, 3))
	if diff.Degree() != 2 {
		t.Errorf("degree after cancellation = %d, want 2", diff.Degree())
	}

	if d := Ints(0, 0, 0).Degree(); d != 0 {
		t.Errorf("degree of zero polynomial = %d, want 0", d)
	}
}

func TestDifferentiateConstant(t *testing.T) {
	for _, p := range []Poly[int64]{Ints(), Ints(7)} {
		if d := p.Differentiate(); !d.IsZero() {
			t.Errorf("derivative of %s = %s, want 0", p, d)
		}
	}
}

func TestCoefficientsPadding(t *testing.T) {
	p := Ints(1, 2, 0, 0)

	if diff := cmp.Diff([]int64{1, 2}, p.Coefficients(0)); diff != "" {
		t.Errorf("Coefficients(0) mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int64{1, 2, 0, 0}, p.Coefficients(4)); diff != "" {
		t.Errorf("Coefficients(4) mismatch (-want +got):\n%s", diff)
	}

	// the returned slice is a copy
	c := p.Coefficients(0)
	c[0] = 99
	if p.Coefficient(0) != 1 {
		t.Error("Coefficients leaked internal storage")
	}
}

func TestComposeMatchesEvaluation(t *testing.T) {
	p, q := samplePolys()
	pq := p.Compose(q)
	for x := int64(-3); x <= 3; x++ {
		if got, want := pq.Evaluate(x), p.Evaluate(q.Evaluate(x)); got != want {
			t.Errorf("p(q(%d)) = %d, want %d", x, got, want)
		}
	}
}

func TestEqual(t *testing.T) {
	p, q := samplePolys()
	if !p.Add(q).Sub(q).Equal(p) {
		t.Error("(p + q) - q != p")
	}
	if p.Equal(q) {
		t.Error("p == q")
	}
}

func TestBigIntegersDoNotWrap(t *testing.T) {
	// (2^40 x + 1)^2 has a 2^80 leading coefficient.
	p := Bigs(1, 1<<40)
	sq := p.Mul(p)

	want := new(big.Int).Lsh(big.NewInt(1), 80)
	if got := sq.Coefficient(2); got.Cmp(want) != 0 {
		t.Errorf("leading coefficient = %s, want %s", got, want)
	}
	if got, want := sq.String(), "1208925819614629174706176x^2 + 2199023255552x + 1"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	// the same product wraps in int64
	if Ints(1, 1<<40).Mul(Ints(1, 1<<40)).Coefficient(2) != 0 {
		t.Error("expected int64 coefficient to wrap to 0")
	}

	// operands are left untouched
	if got := p.String(); got != "1099511627776x + 1" {
		t.Errorf("p changed to %q", got)
	}
}

func TestBigIntegersMatchInts(t *testing.T) {
	p, q := samplePolys()
	bp, bq := Bigs(1, 2, 3, 4), Bigs(5, 0, 3)

	if got, want := bp.Compose(bq).String(), p.Compose(q).String(); got != want {
		t.Errorf("compose: got %q, want %q", got, want)
	}
	if got, want := bp.Sub(bq).Differentiate().String(), p.Sub(q).Differentiate().String(); got != want {
		t.Errorf("derivative: got %q, want %q", got, want)
	}
	if got := bp.Evaluate(big.NewInt(3)); got.Int64() != 142 {
		t.Errorf("p(3) = %s, want 142", got)
	}
}
