package shamir

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Beastly713/shadowshare/pkg/field"
	"github.com/Beastly713/shadowshare/pkg/stego"
)

// Assembler rebuilds secret bytes from k shares.
type Assembler struct {
	// Threshold is k, the number of shares interpolated per slot.
	Threshold int

	// Workers bounds how many slots are interpolated concurrently.
	// Values <= 1 run every slot sequentially.
	Workers int

	Logger *zap.Logger
}

// Assemble recovers secretLen bytes. For every slot j it extracts one value
// per share, interpolates, and writes the k coefficients (constant term
// first) to bytes [j*k, j*k+k). The zero padding of a final partial group is
// dropped. The result is still masked; see package diffusion.
func (a *Assembler) Assemble(ctx context.Context, shares []Share, secretLen int) ([]byte, error) {
	logger := a.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	if secretLen <= 0 {
		return nil, ErrEmptySecret
	}

	k := a.Threshold
	if k < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidThreshold, k)
	}
	slots := Slots(secretLen, k)
	used, err := selectShares(shares, k, slots)
	if err != nil {
		return nil, err
	}

	in, err := NewInterpolator(indices(used))
	if err != nil {
		return nil, err
	}

	logger.Debug("assembling secret",
		zap.Int("threshold", k),
		zap.Int("slots", slots),
		zap.Int("secretLen", secretLen),
		zap.Int("workers", a.Workers))

	out := make([]byte, slots*k)

	if a.Workers <= 1 {
		for j := 0; j < slots; j++ {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if err := assembleSlot(in, used, j, out[j*k:(j+1)*k]); err != nil {
				return nil, err
			}
		}
		return out[:secretLen], nil
	}

	// Slots write disjoint ranges of out, so they can run in any order.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.Workers)
	for j := 0; j < slots; j++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return assembleSlot(in, used, j, out[j*k:(j+1)*k])
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return out[:secretLen], nil
}

func assembleSlot(in *Interpolator, shares []Share, slot int, dst []byte) error {
	ys := make([]field.Element, len(shares))
	for i, s := range shares {
		y, err := stego.ExtractByte(s.Pixels, slot)
		if err != nil {
			return fmt.Errorf("share %d: %w", s.Index, err)
		}
		ys[i] = field.FromByte(y)
	}

	poly, err := in.Interpolate(ys)
	if err != nil {
		return fmt.Errorf("slot %d: %w", slot, err)
	}

	for c, coef := range poly.Coefficients(len(dst)) {
		b, err := coef.Byte()
		if err != nil {
			return fmt.Errorf("%w: slot %d, coefficient %d", ErrCoefficientOverflow, slot, c)
		}
		dst[c] = b
	}
	return nil
}
