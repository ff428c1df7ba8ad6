package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Beastly713/shadowshare/pkg/config"
)

var (
	verbose   bool
	logFormat string

	// appFS is where every command reads and writes files.
	appFS afero.Fs = afero.NewOsFs()

	logger = zap.NewNop()

	// env holds SHADOWSHARE_* overrides for bound flags.
	env = viper.New()
)

var rootCmd = &cobra.Command{
	Use:   "shadowshare",
	Short: "Hide a secret image in k-of-n shadow images",
	Long: `Shadowshare splits an 8-bit BMP secret across n cover BMPs so that
any k of the resulting shadows reveal it and fewer reveal nothing.

Each shadow looks like its cover: the secret only touches the least
significant bit of the cover's pixels.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogger(cmd, config.LoggingConfig{})
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func GetRootCmd() *cobra.Command {
	return rootCmd
}

// setupLogger builds the package logger from flags, environment and, when
// a manifest was loaded, its logging section. --verbose always wins.
func setupLogger(cmd *cobra.Command, lc config.LoggingConfig) error {
	format := env.GetString("log-format")
	if lc.Format != "" && !cmd.Root().PersistentFlags().Changed("log-format") {
		format = lc.Format
	}

	level := zapcore.WarnLevel
	if lc.Level != "" {
		l, err := zapcore.ParseLevel(lc.Level)
		if err != nil {
			return fmt.Errorf("invalid log level: %w", err)
		}
		level = l
	}
	if env.GetBool("verbose") {
		level = zapcore.DebugLevel
	}

	var cfg zap.Config
	switch strings.ToLower(format) {
	case "", "console":
		cfg = zap.NewDevelopmentConfig()
		cfg.DisableStacktrace = true
	case "json":
		cfg = zap.NewProductionConfig()
	default:
		return fmt.Errorf("invalid log format: %s (must be console or json)", format)
	}
	cfg.Level = zap.NewAtomicLevelAt(level)

	l, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	logger = l
	return nil
}

// bindEnv lets SHADOWSHARE_<FLAG> set a flag that was not given.
func bindEnv(cmd *cobra.Command, name string) {
	flag := cmd.Flags().Lookup(name)
	if flag == nil {
		flag = cmd.PersistentFlags().Lookup(name)
	}
	if err := env.BindPFlag(name, flag); err != nil {
		panic(err)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log every step at debug level")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "console", "Log format: console or json")

	env.SetEnvPrefix("SHADOWSHARE")
	env.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	env.AutomaticEnv()

	bindEnv(rootCmd, "verbose")
	bindEnv(rootCmd, "log-format")
}
