package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aretw0/tally/internal/cli"
	"github.com/aretw0/tally/pkg/domain"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show labeling progress without starting a session",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := resolveConfig(cmd)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		rows, err := buildStore(cfg).Load(context.Background())
		if err != nil {
			fmt.Println(cli.SetupMessage(err, cfg.File))
			os.Exit(1)
		}

		p := domain.NewProgress(rows)
		fmt.Printf("%s: %d labeled, %d remaining, %d total\n", cfg.File, p.Labeled, p.Remaining, p.Total)
		if p.Complete() {
			fmt.Println("All items are labeled.")
		}
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
