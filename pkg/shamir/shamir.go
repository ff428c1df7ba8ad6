// Package shamir implements (k, n) threshold sharing of pixel data over GF(257).
//
// Every group of k secret bytes becomes the coefficients of one polynomial
// of degree k-1. Each shadow stores that polynomial evaluated at its own
// index, one byte slot per group. Any k shadows interpolate the polynomial
// back and so recover the k bytes; fewer leave it undetermined.
package shamir

import (
	"errors"
	"fmt"
	"slices"

	"github.com/Beastly713/shadowshare/pkg/field"
	"github.com/Beastly713/shadowshare/pkg/stego"
)

var (
	// ErrInvalidThreshold is returned for thresholds below 2.
	ErrInvalidThreshold = errors.New("threshold must be at least 2")

	// ErrNotEnoughShares is returned when fewer shares than the threshold are supplied.
	ErrNotEnoughShares = errors.New("not enough shares to meet the threshold")

	// ErrDuplicateIndex is returned when two shares carry the same index.
	ErrDuplicateIndex = errors.New("duplicate share index")

	// ErrInvalidIndex is returned for a share index outside [1, 256].
	ErrInvalidIndex = errors.New("share index must be in [1, 256]")

	// ErrCoverTooSmall is returned when a share cannot hold every slot.
	ErrCoverTooSmall = errors.New("share pixel buffer too small for secret")

	// ErrCoefficientOverflow is returned when interpolation yields 256 as a
	// coefficient. Distributed shares never produce it, so the shares are
	// inconsistent (mixed sets, corrupted pixels, wrong threshold).
	ErrCoefficientOverflow = errors.New("reconstructed coefficient does not fit in a byte")

	// ErrShareOverflow is returned by a strict Splitter when a share value would be 256.
	ErrShareOverflow = errors.New("share value 256 cannot be embedded")

	// ErrEmptySecret is returned for a zero-length secret.
	ErrEmptySecret = errors.New("secret is empty")
)

// Share is one shadow's contribution: its index (the x coordinate) and the
// pixel buffer whose LSBs carry one byte slot per group of secret bytes.
type Share struct {
	Index  field.Element
	Pixels []byte
}

// Slots returns how many k-byte groups a secret of secretLen bytes needs.
// A final partial group is zero padded.
func Slots(secretLen, threshold int) int {
	return (secretLen + threshold - 1) / threshold
}

// selectShares validates shares against the threshold and returns the
// threshold shares with the lowest indices, so supply order never matters.
func selectShares(shares []Share, threshold, slots int) ([]Share, error) {
	if threshold < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidThreshold, threshold)
	}
	if len(shares) < threshold {
		return nil, fmt.Errorf("%w: need %d, have %d", ErrNotEnoughShares, threshold, len(shares))
	}

	sorted := slices.Clone(shares)
	slices.SortFunc(sorted, func(a, b Share) int { return int(a.Index) - int(b.Index) })

	for i, s := range sorted {
		if s.Index == 0 || s.Index >= field.Modulus {
			return nil, fmt.Errorf("%w: got %d", ErrInvalidIndex, s.Index)
		}
		if i > 0 && sorted[i-1].Index == s.Index {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateIndex, s.Index)
		}
		if stego.Capacity(s.Pixels) < slots {
			return nil, fmt.Errorf("%w: share %d holds %d slots, need %d",
				ErrCoverTooSmall, s.Index, stego.Capacity(s.Pixels), slots)
		}
	}

	return sorted[:threshold], nil
}

func indices(shares []Share) []field.Element {
	xs := make([]field.Element, len(shares))
	for i, s := range shares {
		xs[i] = s.Index
	}
	return xs
}
