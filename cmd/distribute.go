package cmd

import (
	"fmt"
	"math/rand/v2"

	"github.com/spf13/cobra"

	"github.com/Beastly713/shadowshare/pkg/config"
	"github.com/Beastly713/shadowshare/pkg/pipeline"
	"github.com/Beastly713/shadowshare/pkg/shamir"
)

var (
	distCovers     []string
	distThreshold  int
	distDestDir    string
	distSeed       int
	distStrict     bool
	distConfigFile string
)

var distributeCmd = &cobra.Command{
	Use:   "distribute [secret.bmp]",
	Short: "Hide a secret image in n shadows, any k of which recover it",
	Long: `Distribute masks the secret's pixels and shares them across the cover
images. Every cover is written to the destination directory as a shadow
under its own file name. Covers must be 8-bit BMPs with at least
8 * ceil(size / k) pixel bytes, where size is the secret's pixel data length.

Example:
  shadowshare distribute secret.bmp -c alice.bmp,bob.bmp,carol.bmp -k 2 -d shadows

  This creates 3 shadows. Any 2 are needed to recover secret.bmp.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		// 1. Resolve the job
		job := &config.DistributeJob{
			Threshold: distThreshold,
			Covers:    distCovers,
			OutputDir: distDestDir,
		}
		if len(args) > 0 {
			job.Secret = args[0]
		}
		if cmd.Flags().Changed("seed") && (distSeed < 0 || distSeed > 0xFFFF) {
			return fmt.Errorf("seed must be in [0, 65535], got %d", distSeed)
		}
		overrideDistributeJob(cmd, job)

		if distConfigFile != "" {
			if len(args) > 0 {
				return fmt.Errorf("the secret cannot be given together with --config")
			}
			m, err := config.Load(appFS, distConfigFile)
			if err != nil {
				return err
			}
			if m.Distribute == nil {
				return fmt.Errorf("%s has no distribute job", distConfigFile)
			}
			if err := setupLogger(cmd, m.Logging); err != nil {
				return err
			}
			job = m.Distribute
			overrideDistributeJob(cmd, job)
		}

		// 2. Validation
		if err := job.Validate(); err != nil {
			return err
		}

		// 3. Run
		cfg := job.DistributeConfig(uint16(rand.IntN(1 << 16)))
		cfg.FS = appFS
		cfg.Logger = logger
		res, err := pipeline.Distribute(cmd.Context(), cfg)
		if err != nil {
			return fmt.Errorf("distribution failed: %w", err)
		}

		for _, s := range res.Shadows {
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", s)
		}
		if res.Report.Lossy > 0 {
			fmt.Fprintf(cmd.ErrOrStderr(),
				"Warning: %d pixel bytes had to change by a small amount to fit in the shadows. Use --strict to fail instead.\n",
				res.Report.Lossy)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Done! %d shadows written with seed %d. Any %d recover the secret.\n",
			len(res.Shadows), res.Seed, job.Threshold)
		return nil
	},
}

// overrideDistributeJob applies the flags that were given. With --config
// they take precedence over the manifest.
func overrideDistributeJob(cmd *cobra.Command, job *config.DistributeJob) {
	flags := cmd.Flags()
	if flags.Changed("covers") {
		job.Covers = distCovers
	}
	if flags.Changed("threshold") {
		job.Threshold = distThreshold
	}
	if flags.Changed("destination") {
		job.OutputDir = distDestDir
	}
	if flags.Changed("seed") {
		seed := uint16(distSeed)
		job.Seed = &seed
	}
	if distStrict {
		job.Overflow = shamir.OverflowReject.String()
	}
}

func init() {
	rootCmd.AddCommand(distributeCmd)

	distributeCmd.Flags().StringSliceVarP(&distCovers, "covers", "c", nil, "Cover BMPs, one shadow is written per cover")
	distributeCmd.Flags().IntVarP(&distThreshold, "threshold", "k", 0, "Number of shadows needed to recover the secret")
	distributeCmd.Flags().StringVarP(&distDestDir, "destination", "d", ".", "Directory to write the shadows to")
	distributeCmd.Flags().IntVar(&distSeed, "seed", 0, "Diffusion seed in [0, 65535] (default: random)")
	distributeCmd.Flags().BoolVar(&distStrict, "strict", false, "Fail instead of adjusting a pixel byte that cannot be shared exactly")
	distributeCmd.Flags().StringVar(&distConfigFile, "config", "", "YAML manifest describing the job")
}
