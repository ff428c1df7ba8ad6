// Package config loads job manifests: YAML files describing a recovery or a
// distribution so a run can be repeated without retyping every path.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/Beastly713/shadowshare/pkg/pipeline"
	"github.com/Beastly713/shadowshare/pkg/shamir"
)

// Manifest is a job file. Either job may be omitted, not both.
type Manifest struct {
	Logging    LoggingConfig  `yaml:"logging"`
	Recover    *RecoverJob    `yaml:"recover,omitempty"`
	Distribute *DistributeJob `yaml:"distribute,omitempty"`
}

// LoggingConfig controls logging behavior
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// RecoverJob mirrors the flags of the recover command.
type RecoverJob struct {
	Threshold int      `yaml:"threshold"`
	Shadows   []string `yaml:"shadows"`
	Output    string   `yaml:"output"`
	Workers   int      `yaml:"workers"`
	Overwrite bool     `yaml:"overwrite"`
}

// DistributeJob mirrors the flags of the distribute command. A missing seed
// means a random one is drawn per run.
type DistributeJob struct {
	Threshold int      `yaml:"threshold"`
	Secret    string   `yaml:"secret"`
	Covers    []string `yaml:"covers"`
	Seed      *uint16  `yaml:"seed,omitempty"`
	OutputDir string   `yaml:"output_dir"`
	Overflow  string   `yaml:"overflow"` // adjust, reject
}

// Load reads the manifest at path. Relative paths inside it are resolved
// against the manifest's directory.
func Load(fs afero.Fs, path string) (*Manifest, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var m Manifest
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("config file %s is empty", path)
		}
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	m.resolve(filepath.Dir(path))

	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &m, nil
}

func (m *Manifest) resolve(dir string) {
	abs := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(dir, p)
	}

	if r := m.Recover; r != nil {
		for i, s := range r.Shadows {
			r.Shadows[i] = abs(s)
		}
		r.Output = abs(r.Output)
	}
	if d := m.Distribute; d != nil {
		d.Secret = abs(d.Secret)
		for i, c := range d.Covers {
			d.Covers[i] = abs(c)
		}
		d.OutputDir = abs(d.OutputDir)
	}
}

// Validate checks the manifest the same way the commands check their flags.
func (m *Manifest) Validate() error {
	if m.Recover == nil && m.Distribute == nil {
		return errors.New("manifest defines neither a recover nor a distribute job")
	}

	switch strings.ToLower(m.Logging.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn or error)", m.Logging.Level)
	}
	switch strings.ToLower(m.Logging.Format) {
	case "", "console", "json":
	default:
		return fmt.Errorf("invalid log format: %s (must be console or json)", m.Logging.Format)
	}

	if r := m.Recover; r != nil {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("recover: %w", err)
		}
	}
	if d := m.Distribute; d != nil {
		if err := d.Validate(); err != nil {
			return fmt.Errorf("distribute: %w", err)
		}
	}
	return nil
}

// Validate checks a recover job.
func (r *RecoverJob) Validate() error {
	if r.Threshold < 2 {
		return fmt.Errorf("threshold must be at least 2, got %d", r.Threshold)
	}
	if len(r.Shadows) < r.Threshold {
		return fmt.Errorf("threshold %d needs at least as many shadows, got %d", r.Threshold, len(r.Shadows))
	}
	if r.Output == "" {
		return errors.New("output must be specified")
	}
	if r.Workers < 0 {
		return fmt.Errorf("workers cannot be negative, got %d", r.Workers)
	}
	return nil
}

// Validate checks a distribute job.
func (d *DistributeJob) Validate() error {
	if d.Threshold < 2 {
		return fmt.Errorf("threshold must be at least 2, got %d", d.Threshold)
	}
	if len(d.Covers) < d.Threshold {
		return fmt.Errorf("threshold %d needs at least as many covers, got %d", d.Threshold, len(d.Covers))
	}
	if len(d.Covers) > pipeline.MaxShadows {
		return fmt.Errorf("at most %d covers are supported, got %d", pipeline.MaxShadows, len(d.Covers))
	}
	if d.Secret == "" {
		return errors.New("secret must be specified")
	}
	if d.OutputDir == "" {
		return errors.New("output_dir must be specified")
	}
	if _, err := shamir.ParseOverflowPolicy(d.Overflow); err != nil {
		return err
	}
	return nil
}

// RecoverConfig converts the job for pipeline.Recover.
func (r *RecoverJob) RecoverConfig() pipeline.RecoverConfig {
	return pipeline.RecoverConfig{
		Shadows:   r.Shadows,
		Threshold: r.Threshold,
		Output:    r.Output,
		Workers:   r.Workers,
		Overwrite: r.Overwrite,
	}
}

// DistributeConfig converts the job for pipeline.Distribute. fallbackSeed
// is used when the job has no seed.
func (d *DistributeJob) DistributeConfig(fallbackSeed uint16) pipeline.DistributeConfig {
	seed := fallbackSeed
	if d.Seed != nil {
		seed = *d.Seed
	}
	// Validate has already checked the policy
	policy, _ := shamir.ParseOverflowPolicy(d.Overflow)

	return pipeline.DistributeConfig{
		Secret:    d.Secret,
		Covers:    d.Covers,
		Threshold: d.Threshold,
		Seed:      seed,
		OutputDir: d.OutputDir,
		Overflow:  policy,
	}
}
