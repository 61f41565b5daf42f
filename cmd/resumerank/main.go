// Package main is the resumerank entry point: HTTP server, directory ingestion and one-shot ranking.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/resumerank/internal/config"
	logpkg "github.com/kailas-cloud/resumerank/internal/logger"
	"github.com/kailas-cloud/resumerank/internal/version"
)

var rootCmd = &cobra.Command{
	Use:           "resumerank",
	Short:         "Rank resumes against a job description",
	Long:          "resumerank scores stored resumes by keyword coverage and embedding similarity to a job description.",
	Version:       version.String(),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		return loadApp()
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		if app.logger != nil {
			_ = app.logger.Sync()
		}
	},
}

var (
	envFlag      string
	logLevelFlag string
	envFileFlag  string
)

// app holds what every subcommand needs after flag parsing.
var app struct {
	env    string
	cfg    config.Config
	logger *zap.Logger
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFlag, "env", "", "Config environment (local, dev, docker, prod); defaults to $ENV or local")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Override the configured log level")
	rootCmd.PersistentFlags().StringVar(&envFileFlag, "env-file", ".env", "Dotenv file loaded before the config")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadApp() error {
	// A missing .env file is fine.
	_ = godotenv.Load(envFileFlag)

	env := envFlag
	if env == "" {
		env = config.GetEnv()
	}

	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	level := cfg.Logging.Level
	if logLevelFlag != "" {
		level = logLevelFlag
	}
	logger, err := logpkg.NewLogger(env, level)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}

	app.env = env
	app.cfg = cfg
	app.logger = logger
	return nil
}
