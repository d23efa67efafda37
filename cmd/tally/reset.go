package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear every label in the dataset",
	Long: `Sets every label back to unset and rewrites the dataset. The row data
itself is untouched. Asks for confirmation unless --yes is given.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := resolveConfig(cmd)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			fmt.Printf("Clear ALL labels in %s? This cannot be undone. Type 'yes' to confirm: ", cfg.File)
			line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
			if strings.TrimSpace(line) != "yes" {
				fmt.Println("Reset cancelled.")
				return
			}
		}

		if err := buildStore(cfg).ClearLabels(context.Background()); err != nil {
			fmt.Printf("Reset failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("All labels cleared.")
	},
}

func init() {
	rootCmd.AddCommand(resetCmd)
	resetCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
}
