package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/Beastly713/shadowshare/pkg/bitmap"
	"github.com/Beastly713/shadowshare/pkg/diffusion"
	"github.com/Beastly713/shadowshare/pkg/field"
	"github.com/Beastly713/shadowshare/pkg/shamir"
)

// MaxShadows is the largest number of shadows one secret can be split into.
const MaxShadows = field.Modulus - 2

// DistributeConfig holds the parameters for a distribution.
type DistributeConfig struct {
	Secret    string
	Covers    []string
	Threshold int
	Seed      uint16
	OutputDir string
	Overflow  shamir.OverflowPolicy

	FS     afero.Fs
	Logger *zap.Logger
}

// DistributeResult describes the written shadows.
type DistributeResult struct {
	RunID   string
	Shadows []string
	Seed    uint16
	Report  shamir.Report
}

// Distribute masks the secret's pixels, shares them across the covers and
// writes each cover as a shadow named after it in cfg.OutputDir. Shadow i
// (1-based, in cover order) records index i, the seed and the secret's
// dimensions in its header.
func Distribute(ctx context.Context, cfg DistributeConfig) (*DistributeResult, error) {
	fs, logger := defaults(cfg.FS, cfg.Logger)
	runID := uuid.NewString()
	logger = logger.With(zap.String("run", runID))

	// 1. Validation
	k := cfg.Threshold
	if k < 2 {
		return nil, fmt.Errorf("%w: got %d", shamir.ErrInvalidThreshold, k)
	}
	if len(cfg.Covers) < k {
		return nil, fmt.Errorf("%w: need %d covers, have %d", shamir.ErrNotEnoughShares, k, len(cfg.Covers))
	}
	if len(cfg.Covers) > MaxShadows {
		return nil, fmt.Errorf("at most %d covers are supported, got %d", MaxShadows, len(cfg.Covers))
	}

	outputs := make([]string, len(cfg.Covers))
	seen := make(map[string]string, len(cfg.Covers))
	for i, c := range cfg.Covers {
		outputs[i] = filepath.Join(cfg.OutputDir, filepath.Base(c))
		if prev, ok := seen[outputs[i]]; ok {
			return nil, fmt.Errorf("covers %s and %s would both be written to %s", prev, c, outputs[i])
		}
		seen[outputs[i]] = c
	}

	// 2. Load the secret and every cover
	images, err := loadAll(fs, append([]string{cfg.Secret}, cfg.Covers...))
	if err != nil {
		return nil, err
	}
	secret, covers := images[0], images[1:]

	width, height := int(secret.Header.Width), int(secret.Header.Height)
	if want := bitmap.PixelSize(width, height); len(secret.Pixels) != want {
		return nil, fmt.Errorf("%w: secret %s is %dx%d but holds %d pixel bytes, want %d",
			bitmap.ErrInvalidBitmap, cfg.Secret, width, height, len(secret.Pixels), want)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// 3. Mask, then share across the covers
	masked := bytes.Clone(secret.Pixels)
	diffusion.Mask(masked, int64(cfg.Seed))

	shares := make([]shamir.Share, len(covers))
	for i, c := range covers {
		shares[i] = shamir.Share{Index: field.Element(i + 1), Pixels: c.Pixels}
	}

	logger.Info("distributing secret",
		zap.String("secret", cfg.Secret),
		zap.Int("covers", len(covers)),
		zap.Int("threshold", k),
		zap.Int("width", width),
		zap.Int("height", height))

	splitter := &shamir.Splitter{Threshold: k, Overflow: cfg.Overflow, Logger: logger}
	report, err := splitter.Split(masked, shares)
	if err != nil {
		return nil, fmt.Errorf("sharing failed: %w", err)
	}

	// 4. Write the shadows
	for i, c := range covers {
		c.Header.SetSeed(cfg.Seed)
		c.Header.SetShadowIndex(uint16(i + 1))
		c.Header.SetSecretSize(width, height)

		if err := bitmap.Save(fs, outputs[i], c); err != nil {
			return nil, fmt.Errorf("failed to write shadow %d: %w", i+1, err)
		}
		logger.Debug("wrote shadow", zap.Int("index", i+1), zap.String("path", outputs[i]))
	}

	logger.Info("secret distributed",
		zap.Int("shadows", len(covers)),
		zap.Int("adjusted", report.Adjusted),
		zap.Int("lossy", report.Lossy))

	return &DistributeResult{
		RunID:   runID,
		Shadows: outputs,
		Seed:    cfg.Seed,
		Report:  report,
	}, nil
}
