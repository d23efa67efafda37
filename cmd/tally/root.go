package main

import (
	"fmt"
	"os"

	"github.com/aretw0/tally/internal/adapters/csvfile"
	redisadapter "github.com/aretw0/tally/internal/adapters/redis"
	"github.com/aretw0/tally/internal/config"
	"github.com/aretw0/tally/pkg/ports"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tally",
	Short: "Tally is a resumable prompt/response labeling tool",
	Long: `Tally presents prompt/response pairs from a CSV dataset one at a time
in a deterministic shuffled order and records Yes/No labels durably,
so a labeling run can be stopped and resumed at any point.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringP("file", "f", "", "CSV dataset path (overrides config)")
	rootCmd.PersistentFlags().String("config", config.DefaultPath, "Config file path")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging to stderr")
}

// resolveConfig merges defaults, the YAML config file, the environment and
// the command-line flags, in that order of precedence.
func resolveConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")

	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}

	if cmd.Flags().Changed("file") {
		cfg.File, _ = cmd.Flags().GetString("file")
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed, _ = cmd.Flags().GetInt64("seed")
	}
	if cmd.Flags().Changed("port") {
		cfg.Port, _ = cmd.Flags().GetString("port")
	}
	return cfg, nil
}

// buildStore picks the dataset store for the resolved configuration:
// Redis when an address is configured, the CSV file otherwise.
func buildStore(cfg config.Config) ports.DatasetStore {
	if cfg.Redis.Addr != "" {
		return redisadapter.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			redisadapter.WithKey(cfg.Redis.Key))
	}
	return csvfile.New(cfg.File)
}
