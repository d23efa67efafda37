package main

import (
	"fmt"
	"os"

	"github.com/aretw0/tally/internal/cli"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run an interactive labeling session",
	Long: `Starts an interactive labeling session on the terminal. Each prompt/response
pair is presented once; answers are saved immediately, so the session can be
quit and resumed at any point.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := resolveConfig(cmd)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		if !cmd.Flags().Changed("file") && len(args) > 0 {
			cfg.File = args[0]
		}

		plain, _ := cmd.Flags().GetBool("plain")
		debug, _ := cmd.Flags().GetBool("debug")

		opts := cli.RunOptions{
			Path:  cfg.File,
			Seed:  cfg.Seed,
			Debug: debug,
			Plain: plain,
		}
		if cfg.Redis.Addr != "" {
			opts.Store = buildStore(cfg)
		}

		if err := cli.RunSession(opts); err != nil {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Int64("seed", 0, "Shuffle seed for the visitation order")
	runCmd.Flags().Bool("plain", false, "Disable markdown rendering and the banner")

	// Make 'run' the default when no subcommand is given.
	rootCmd.Run = runCmd.Run
	rootCmd.Flags().AddFlagSet(runCmd.Flags())
}
