// Package main provides the datagraph command: the matching HTTP API, database setup,
// one-shot assignment runs and an offline selector.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/datagraph/internal/config"
	"github.com/jonathan/datagraph/internal/logger"
	"github.com/jonathan/datagraph/internal/matching"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "datagraph",
	Short:         "Datagraph project-to-worker matching",
	Long:          "Datagraph scores workers against project requirements and assigns the best qualified workers to each open project, up to its capacity.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a JSON or YAML config file (env vars override it)")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// cliEnv is what every subcommand builds from the effective configuration.
type cliEnv struct {
	cfg     *config.Config
	log     *zap.Logger
	matcher *matching.Matcher
}

func loadRuntime() (*cliEnv, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.LogJSON, cfg.Debug)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	matcher, err := matching.New(cfg.Matching.MatcherConfig())
	if err != nil {
		return nil, fmt.Errorf("invalid matching config: %w", err)
	}

	return &cliEnv{cfg: cfg, log: log, matcher: matcher}, nil
}

func requireDatabaseURL(cfg *config.Config) error {
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable (or database_url in config) is required")
	}
	return nil
}
