// Package pipeline wires the codec, sharing and diffusion packages into the
// two file-level operations: distributing a secret bitmap into shadows and
// recovering it from k of them.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Beastly713/shadowshare/pkg/bitmap"
	"github.com/Beastly713/shadowshare/pkg/diffusion"
	"github.com/Beastly713/shadowshare/pkg/field"
	"github.com/Beastly713/shadowshare/pkg/shamir"
)

var (
	// ErrInconsistentShadows is returned when shadows disagree on the seed or
	// the secret dimensions, which means they come from different runs.
	ErrInconsistentShadows = errors.New("shadows do not belong to the same secret")

	// ErrOutputExists is returned when the output file exists and overwriting was not requested.
	ErrOutputExists = errors.New("output file already exists")
)

// RecoverConfig holds the parameters for a recovery.
type RecoverConfig struct {
	Shadows   []string
	Threshold int
	Output    string

	// Workers > 1 interpolates slots concurrently.
	Workers   int
	Overwrite bool

	// FS defaults to the OS filesystem, Logger to a no-op logger.
	FS     afero.Fs
	Logger *zap.Logger
}

// Result describes a finished recovery.
type Result struct {
	RunID   string
	Output  string
	Width   int
	Height  int
	Seed    uint16
	Indices []int
}

// Recover loads the shadows, reconstructs the masked secret pixels, removes
// the mask and writes the secret bitmap to cfg.Output.
func Recover(ctx context.Context, cfg RecoverConfig) (*Result, error) {
	fs, logger := defaults(cfg.FS, cfg.Logger)
	runID := uuid.NewString()
	logger = logger.With(zap.String("run", runID))

	// 1. Validation
	k := cfg.Threshold
	if k < 2 {
		return nil, fmt.Errorf("%w: got %d", shamir.ErrInvalidThreshold, k)
	}
	if len(cfg.Shadows) < k {
		return nil, fmt.Errorf("%w: need %d, have %d", shamir.ErrNotEnoughShares, k, len(cfg.Shadows))
	}
	if cfg.Output == "" {
		return nil, errors.New("output path is required")
	}
	if !cfg.Overwrite {
		exists, err := afero.Exists(fs, cfg.Output)
		if err != nil {
			return nil, fmt.Errorf("failed to check %s: %w", cfg.Output, err)
		}
		if exists {
			return nil, fmt.Errorf("%w: %s", ErrOutputExists, cfg.Output)
		}
	}

	// 2. Load every shadow before any arithmetic
	shadows, err := loadAll(fs, cfg.Shadows)
	if err != nil {
		return nil, err
	}

	ref := &shadows[0].Header
	seed := ref.Seed()
	width, height := ref.SecretWidth(), ref.SecretHeight()
	size := ref.SecretSize()
	if size == 0 {
		return nil, fmt.Errorf("%w: %s records secret dimensions %dx%d",
			bitmap.ErrInvalidBitmap, cfg.Shadows[0], width, height)
	}

	shares := make([]shamir.Share, len(shadows))
	indices := make([]int, len(shadows))
	for i, s := range shadows {
		h := &s.Header
		if h.Seed() != seed || h.SecretWidth() != width || h.SecretHeight() != height {
			return nil, fmt.Errorf("%w: %s has seed %d and secret %dx%d, %s has seed %d and secret %dx%d",
				ErrInconsistentShadows, cfg.Shadows[i], h.Seed(), h.SecretWidth(), h.SecretHeight(),
				cfg.Shadows[0], seed, width, height)
		}
		shares[i] = shamir.Share{Index: field.Element(h.ShadowIndex()), Pixels: s.Pixels}
		indices[i] = int(h.ShadowIndex())
	}

	logger.Info("recovering secret",
		zap.Int("shadows", len(shadows)),
		zap.Int("threshold", k),
		zap.Ints("indices", indices),
		zap.Int("width", width),
		zap.Int("height", height))

	// 3. Interpolate, then remove the diffusion mask
	asm := &shamir.Assembler{Threshold: k, Workers: cfg.Workers, Logger: logger}
	secret, err := asm.Assemble(ctx, shares, size)
	if err != nil {
		return nil, fmt.Errorf("reconstruction failed: %w", err)
	}
	diffusion.Mask(secret, int64(seed))

	// 4. Header from the reference shadow
	out := &bitmap.Image{
		Header: *ref,
		Extra:  shadows[0].Extra,
		Pixels: secret,
	}
	out.Header.Width = int32(width)
	out.Header.Height = int32(height)

	if err := bitmap.Save(fs, cfg.Output, out); err != nil {
		return nil, err
	}

	logger.Info("secret recovered", zap.String("output", cfg.Output), zap.Int("bytes", len(secret)))

	return &Result{
		RunID:   runID,
		Output:  cfg.Output,
		Width:   width,
		Height:  height,
		Seed:    seed,
		Indices: indices,
	}, nil
}

// loadAll decodes every path and reports all failures together.
func loadAll(fs afero.Fs, paths []string) ([]*bitmap.Image, error) {
	images := make([]*bitmap.Image, 0, len(paths))
	var errs error
	for _, p := range paths {
		img, err := bitmap.Load(fs, p)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		images = append(images, img)
	}
	if errs != nil {
		return nil, errs
	}
	return images, nil
}

func defaults(fs afero.Fs, logger *zap.Logger) (afero.Fs, *zap.Logger) {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return fs, logger
}
