package main

import (
	"fmt"
	"os"

	"github.com/pthm/rigor/internal/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
)

var rootCmd = &cobra.Command{
	Use:           "rigor",
	Short:         "Rigor renders component trees to markup or live documents",
	Long:          `Rigor renders data-only component trees either to a markup string or into a live document that re-renders on events.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "rigor.yaml", "Path to the configuration file (YAML or JSON)")
	rootCmd.PersistentFlags().String("log-level", "", "Override the configured log level")
	rootCmd.PersistentFlags().String("flavor", "", "Override the configured flavor (safe, modern, debug)")
}

// loadConfig reads the configuration file and applies flag overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.LogLevel = lvl
	}
	if flavor, _ := cmd.Flags().GetString("flavor"); flavor != "" {
		cfg.Flavor = flavor
	}
	return cfg, cfg.Validate()
}

// newLogger builds the process logger: console output on a terminal, JSON
// otherwise. It is also installed as the global zap logger, which the debug
// flavor logs through.
func newLogger(cfg config.Config) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if term.IsTerminal(int(os.Stderr.Fd())) {
		zcfg = zap.NewDevelopmentConfig()
		zcfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	zcfg.Level = zap.NewAtomicLevelAt(cfg.Level())

	logger, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	zap.ReplaceGlobals(logger)
	return logger, nil
}
