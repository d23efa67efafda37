package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aretw0/tally/internal/cli"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the dataset for consistency",
	Long:  `Loads the dataset and reports schema problems, malformed rows, empty or duplicate IDs.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runValidate(cmd, args); err != nil {
			fmt.Printf("Validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Dataset is valid! ✅")
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("file") && len(args) > 0 {
		cfg.File = args[0]
	}

	rows, err := buildStore(cfg).Load(context.Background())
	if err != nil {
		fmt.Println(cli.SetupMessage(err, cfg.File))
		return err
	}

	if err := rows.Validate(); err != nil {
		return err
	}

	fmt.Printf("%d rows, %d labeled.\n", len(rows), rows.Labeled())
	return nil
}
