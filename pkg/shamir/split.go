package shamir

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Beastly713/shadowshare/pkg/field"
	"github.com/Beastly713/shadowshare/pkg/stego"
)

// OverflowPolicy decides what a Splitter does when a share value would be 256.
type OverflowPolicy int

const (
	// OverflowAdjust moves one coefficient of the offending group to the
	// nearest value for which every share fits in a byte. A padding
	// coefficient is preferred, which keeps the secret intact; otherwise the
	// group's first byte changes.
	OverflowAdjust OverflowPolicy = iota

	// OverflowReject fails with ErrShareOverflow.
	OverflowReject
)

func (p OverflowPolicy) String() string {
	switch p {
	case OverflowAdjust:
		return "adjust"
	case OverflowReject:
		return "reject"
	}
	return fmt.Sprintf("OverflowPolicy(%d)", int(p))
}

// ParseOverflowPolicy accepts "adjust" or "reject" ("" means adjust).
func ParseOverflowPolicy(s string) (OverflowPolicy, error) {
	switch s {
	case "", "adjust":
		return OverflowAdjust, nil
	case "reject", "strict":
		return OverflowReject, nil
	}
	return 0, fmt.Errorf("unknown overflow policy %q", s)
}

// Report summarizes a Split.
type Report struct {
	Slots int
	// Adjusted counts groups whose coefficients were moved to avoid 256.
	Adjusted int
	// Lossy counts adjusted groups where a real secret byte changed.
	Lossy int
}

// Splitter embeds a secret into cover pixel buffers.
type Splitter struct {
	Threshold int
	Overflow  OverflowPolicy
	Logger    *zap.Logger
}

// Split turns each group of k secret bytes into a polynomial with those
// bytes as coefficients, evaluates it at every share's index and embeds the
// result into that share's Pixels (modified in place). A final partial group
// is zero padded.
func (s *Splitter) Split(secret []byte, shares []Share) (Report, error) {
	logger := s.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(secret) == 0 {
		return Report{}, ErrEmptySecret
	}

	k := s.Threshold
	slots := Slots(len(secret), k)
	if _, err := selectShares(shares, k, slots); err != nil {
		return Report{}, err
	}
	if len(shares) >= field.Modulus-1 {
		// guarantees a free value in adjustCoefficient
		return Report{}, fmt.Errorf("too many shares: %d", len(shares))
	}

	xs := indices(shares)
	report := Report{Slots: slots}
	coeffs := make([]field.Element, k)
	values := make([]field.Element, len(shares))

	for j := 0; j < slots; j++ {
		for c := range coeffs {
			coeffs[c] = 0
			if i := j*k + c; i < len(secret) {
				coeffs[c] = field.FromByte(secret[i])
			}
		}

		if !evaluateAll(coeffs, xs, values) {
			if s.Overflow == OverflowReject {
				return report, fmt.Errorf("%w: slot %d", ErrShareOverflow, j)
			}

			// prefer the highest padding coefficient, it never reaches the secret
			target := 0
			if pad := j*k + k - len(secret); pad > 0 {
				target = k - 1
			} else {
				report.Lossy++
			}
			adjustCoefficient(coeffs, target, xs, values)
			report.Adjusted++

			logger.Debug("adjusted group to avoid share value 256",
				zap.Int("slot", j),
				zap.Int("coefficient", target),
				zap.Uint16("value", uint16(coeffs[target])))
		}

		for i, sh := range shares {
			// evaluateAll guarantees every value is a byte
			if err := stego.EmbedByte(sh.Pixels, j, byte(values[i])); err != nil {
				return report, fmt.Errorf("share %d: %w", sh.Index, err)
			}
		}
	}

	if report.Adjusted > 0 {
		logger.Info("share overflow adjustments",
			zap.Int("adjusted", report.Adjusted),
			zap.Int("lossy", report.Lossy))
	}

	return report, nil
}

// evaluateAll fills values with the polynomial at every x and reports
// whether all of them fit in a byte.
func evaluateAll(coeffs, xs, values []field.Element) bool {
	poly := field.NewPoly(coeffs...)
	ok := true
	for i, x := range xs {
		values[i] = poly.Evaluate(x)
		if values[i] > 255 {
			ok = false
		}
	}
	return ok
}

// adjustCoefficient walks coeffs[target] outward from its current value
// (v, v-1, v+1, v-2, ...) within [0, 255] until no share evaluates to 256.
// For each x exactly one value of coeffs[target] hits 256, so with fewer
// than 255 shares a free value always exists.
func adjustCoefficient(coeffs []field.Element, target int, xs, values []field.Element) {
	orig := int(coeffs[target])
	for d := 1; d < 256; d++ {
		for _, v := range []int{orig - d, orig + d} {
			if v < 0 || v > 255 {
				continue
			}
			coeffs[target] = field.Element(v)
			if evaluateAll(coeffs, xs, values) {
				return
			}
		}
	}
	panic("shamir: no coefficient value avoids overflow")
}
