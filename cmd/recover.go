package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Beastly713/shadowshare/pkg/config"
	"github.com/Beastly713/shadowshare/pkg/pipeline"
)

var (
	recoverThreshold  int
	recoverOutput     string
	recoverWorkers    int
	recoverOverwrite  bool
	recoverConfigFile string
)

var recoverCmd = &cobra.Command{
	Use:   "recover [shadow.bmp...]",
	Short: "Reconstruct the secret image from k shadows",
	Long: `Recover reads the secret hidden in a set of shadow images and writes
it as a BMP. You need at least k (threshold) shadows from the same
distribution; extra shadows are ignored.

Example:
  shadowshare recover alice.bmp bob.bmp carol.bmp -k 3 -o secret.bmp

The same job can be described in a manifest. Flags given next to it
override the manifest's values:
  shadowshare recover --config job.yaml -o elsewhere.bmp`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// 1. Resolve the job
		job := &config.RecoverJob{
			Threshold: recoverThreshold,
			Shadows:   args,
			Output:    recoverOutput,
			Workers:   env.GetInt("workers"),
			Overwrite: recoverOverwrite,
		}
		if recoverConfigFile != "" {
			if len(args) > 0 {
				return fmt.Errorf("shadow files cannot be given together with --config")
			}
			m, err := config.Load(appFS, recoverConfigFile)
			if err != nil {
				return err
			}
			if m.Recover == nil {
				return fmt.Errorf("%s has no recover job", recoverConfigFile)
			}
			if err := setupLogger(cmd, m.Logging); err != nil {
				return err
			}
			job = m.Recover
			overrideRecoverJob(cmd, job)
		}

		// 2. Validation
		if err := job.Validate(); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Recovering secret from %d shadows (threshold %d)...\n",
			len(job.Shadows), job.Threshold)

		// 3. Run
		cfg := job.RecoverConfig()
		cfg.FS = appFS
		cfg.Logger = logger
		res, err := pipeline.Recover(cmd.Context(), cfg)
		if err != nil {
			return fmt.Errorf("recovery failed: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Recovered %dx%d secret: %s\n", res.Width, res.Height, res.Output)
		return nil
	},
}

// overrideRecoverJob applies the flags given next to --config.
func overrideRecoverJob(cmd *cobra.Command, job *config.RecoverJob) {
	flags := cmd.Flags()
	if flags.Changed("threshold") {
		job.Threshold = recoverThreshold
	}
	if flags.Changed("output") {
		job.Output = recoverOutput
	}
	if flags.Changed("workers") || env.IsSet("workers") {
		job.Workers = env.GetInt("workers")
	}
	if flags.Changed("overwrite") {
		job.Overwrite = recoverOverwrite
	}
}

func init() {
	rootCmd.AddCommand(recoverCmd)

	recoverCmd.Flags().IntVarP(&recoverThreshold, "threshold", "k", 0, "Number of shadows needed to recover the secret")
	recoverCmd.Flags().StringVarP(&recoverOutput, "output", "o", "", "Path of the recovered secret BMP")
	recoverCmd.Flags().IntVar(&recoverWorkers, "workers", 0, "Interpolate this many slots concurrently (0 or 1: sequential)")
	recoverCmd.Flags().BoolVar(&recoverOverwrite, "overwrite", false, "Overwrite the output file if present")
	recoverCmd.Flags().StringVar(&recoverConfigFile, "config", "", "YAML manifest describing the job")

	bindEnv(recoverCmd, "workers")
}
